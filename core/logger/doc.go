// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a colored console encoding for
// interactive use and a JSON encoding for scripted runs.
//
// # Run Awareness
//
// Every restore pass gets its own run id. The WithRun helper attaches that id to a
// child logger so all lines belonging to one pass (filter, uploads, verification) can be
// correlated with the run journal.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Export started")
//
//	l := logger.WithRun(log, runID)
//	l.Warn("Upload rejected", zap.Int("media_id", id))
package logger
