package cmd

import (
	"errors"
	"fmt"
	"os"

	"aniport/core/logger"
	"aniport/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitInterrupted is the conventional exit code after SIGINT.
const exitInterrupted = 130

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "aniport",
	Short: "Back up and restore AniList anime and manga lists",
	Long: `aniport exports AniList lists to JSON backups and restores them to any account.

Restores skip entries that are already on the target list, verify the result against
the live list afterwards, and write whatever still needs importing to a .failed.json
file that 'aniport retry' picks up.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI output: console format with ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		code := 1
		if errors.Is(err, reconcile.ErrInterrupted) {
			code = exitInterrupted
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			if code == exitInterrupted {
				l.Warn("Interrupted", zap.Error(err))
			} else {
				l.Error("command failed", zap.Error(err))
			}
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(code)
	}
}
