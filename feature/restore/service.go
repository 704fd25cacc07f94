package restore

import (
	"context"
	"errors"
	"time"

	"aniport/core/logger"
	"aniport/core/ratelimit"
	"aniport/core/reconcile"
	"aniport/feature/backup"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service wires a backup file, the reconciliation engine and the run journal together.
type Service struct {
	journal *Journal
	mirror  *backup.Mirror
	logger  *zap.Logger
}

// NewService creates a restore service. journal and mirror may be nil.
func NewService(journal *Journal, mirror *backup.Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{journal: journal, mirror: mirror, logger: logger}
}

// Pass is a planned restore of one backup file for one account.
type Pass struct {
	RunID    string
	Account  string
	Snapshot *backup.Snapshot
	Plan     *reconcile.Plan

	remote reconcile.Remote
	engine *reconcile.Engine
	logger *zap.Logger
}

// Logger returns the run-scoped logger.
func (p *Pass) Logger() *zap.Logger {
	return p.logger
}

// Load reads and validates a backup file. It makes no remote calls, so a broken file
// is rejected before the account is ever contacted.
func (s *Service) Load(source string) (*backup.Snapshot, error) {
	return backup.Load(source)
}

// Prepare runs the pre-upload filter for a loaded backup against remote. Nothing is written yet.
func (s *Service) Prepare(ctx context.Context, remote reconcile.Remote, account string, snap *backup.Snapshot) (*Pass, error) {
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	artifacts := backup.NewArtifacts(snap.Path, snap.Shape, s.mirror, log)
	engine := reconcile.NewEngine(remote, artifacts, log)

	counts := snap.Count()
	log.Info("Loaded backup",
		zap.String("path", snap.Path),
		zap.Stringer("shape", snap.Shape),
		zap.Int("anime", counts[reconcile.KindAnime]),
		zap.Int("manga", counts[reconcile.KindManga]),
	)

	plan, err := engine.Plan(ctx, snap.Entries)
	if err != nil {
		return nil, err
	}

	return &Pass{
		RunID:    runID,
		Account:  account,
		Snapshot: snap,
		Plan:     plan,
		remote:   remote,
		engine:   engine,
		logger:   log,
	}, nil
}

// Execute uploads the planned entries, verifies them and records the run.
// The run is recorded even when the pass is interrupted.
func (s *Service) Execute(ctx context.Context, pass *Pass) (*reconcile.Result, error) {
	result, err := pass.engine.Execute(ctx, pass.Plan)
	if result == nil {
		return nil, err
	}

	var stats ratelimit.Stats
	if rs, ok := pass.remote.(interface{ RateLimit() ratelimit.Stats }); ok {
		stats = rs.RateLimit()
	}
	s.report(pass, result, stats)

	if s.journal != nil {
		run := newRun(pass, result, stats)
		if jerr := s.journal.Record(context.WithoutCancel(ctx), run); jerr != nil {
			pass.logger.Warn("Could not record run", zap.Error(jerr))
		}
	}
	return result, err
}

func newRun(pass *Pass, result *reconcile.Result, stats ratelimit.Stats) *Run {
	return &Run{
		RunID:          pass.RunID,
		Account:        pass.Account,
		Source:         pass.Snapshot.Path,
		Entries:        len(pass.Snapshot.Entries),
		AlreadyPresent: result.AlreadyPresent,
		Restored:       result.Restored,
		Failed:         result.Failed,
		Missing:        len(result.Missing),
		LeftOut:        len(result.LeftOut),
		RateLimitHits:  stats.Hits,
		ElapsedMS:      result.Elapsed.Milliseconds(),
		ResidualPath:   result.ResidualPath,
		LeftOutPath:    result.LeftOutPath,
		Interrupted:    result.Interrupted,
		StartedAt:      pass.Plan.Started,
	}
}

// report logs the summary of a pass, with one debug line per planned entry.
func (s *Service) report(pass *Pass, result *reconcile.Result, stats ratelimit.Stats) {
	log := pass.logger
	outcomes := pass.Plan.Outcomes(result)
	for _, entry := range pass.Snapshot.Entries {
		outcome, ok := outcomes[entry.Key()]
		if !ok {
			continue
		}
		log.Debug("Entry outcome",
			zap.Stringer("key", entry.Key()),
			zap.String("title", entry.Title),
			zap.String("outcome", string(outcome)),
		)
	}

	if result.Interrupted {
		log.Warn("Restore interrupted",
			zap.Int("restored", result.Restored),
			zap.Int("failed", result.Failed),
			zap.Int("left_out", len(result.LeftOut)),
			zap.String("left_out_path", result.LeftOutPath),
			zap.Duration("elapsed", result.Elapsed.Round(time.Second)),
		)
		return
	}

	for _, kind := range reconcile.Kinds {
		tally, ok := result.Verification[kind]
		if !ok {
			continue
		}
		log.Info("Verified",
			zap.Stringer("kind", kind),
			zap.Int("present", tally.Present),
			zap.Int("total", tally.Total),
		)
	}
	log.Info("Restore complete",
		zap.Int("already_present", result.AlreadyPresent),
		zap.Int("restored", result.Restored),
		zap.Int("failed", result.Failed),
		zap.Int("still_missing", result.StillMissing()),
		zap.Int("rate_limit_hits", stats.Hits),
		zap.Duration("rate_limit_waited", stats.Waited),
		zap.Duration("elapsed", result.Elapsed.Round(time.Second)),
	)
	if result.ResidualPath != "" {
		log.Warn("Some entries still need importing, run 'aniport retry' on this file",
			zap.String("path", result.ResidualPath))
	}
}

// IsInterrupted reports whether err ended a pass early because of cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, reconcile.ErrInterrupted)
}
