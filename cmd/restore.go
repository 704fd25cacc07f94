package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"aniport/feature/anilist"
	"aniport/feature/restore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	restoreAccount string
	restoreDryRun  bool
	restoreYes     bool
	restorePull    string
	historyLimit   int
)

// restoreCmd restores a backup file to a saved account.
var restoreCmd = &cobra.Command{
	Use:   "restore [FILE]",
	Short: "Restore a backup to an AniList account",
	Long: `Restore a backup file to a saved account.

Entries already on the account's list are skipped. After uploading, the list is read
again and every entry that was rejected or is still missing is written to
<backup>.failed.json; run 'aniport retry' on that file later.

Press Ctrl+C to stop: entries not yet attempted are written to leftout.json next to
the backup.

Without FILE, the only backup in the output directory is used.

Examples:
  # Show what would be uploaded
  aniport restore output/alice_both_backup.json --account bob --dry-run

  # Restore without the confirmation prompt
  aniport restore output/alice_both_backup.json --account bob --yes

  # Fetch a mirrored backup first
  aniport restore --pull alice_both_backup.json --account bob`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

// restoreHistoryCmd lists recorded passes.
var restoreHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent restore and retry runs",
	Args:  cobra.NoArgs,
	RunE:  runRestoreHistory,
}

// restoreListCmd lists candidate backups.
var restoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups in the output directory and the mirror",
	Args:  cobra.NoArgs,
	RunE:  runRestoreList,
}

func init() {
	restoreCmd.PersistentFlags().StringVarP(&restoreAccount, "account", "a", "", "Saved account to restore to (see 'account list')")
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Plan only, upload nothing")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip the confirmation prompt")
	restoreCmd.Flags().StringVar(&restorePull, "pull", "", "Download this backup from the mirror into the output directory first")
	restoreHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")

	restoreCmd.AddCommand(restoreHistoryCmd, restoreListCmd)
	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	file := ""
	if len(args) == 1 {
		file = args[0]
	}
	if restorePull != "" {
		if a.mirror == nil {
			return fmt.Errorf("--pull needs storage.enabled")
		}
		if file, err = a.mirror.Pull(ctx, restorePull, a.cfg.Backup.OutputDir); err != nil {
			return err
		}
	}

	source, candidates, err := restore.SelectSource(a.cfg.Backup.OutputDir, file)
	if errors.Is(err, restore.ErrChooseBackup) {
		for _, c := range candidates {
			a.log.Info("Candidate backup", zap.String("path", c))
		}
	}
	if err != nil {
		return err
	}

	return runPass(ctx, a, source, restoreAccount, restoreDryRun, restoreYes)
}

// runPass plans, confirms and executes one restore pass of source.
// The backup is loaded before the account is contacted.
func runPass(ctx context.Context, a *app, source, accountName string, dryRun, yes bool) error {
	svc := restore.NewService(a.journal, a.mirror, a.log)
	snap, err := svc.Load(source)
	if err != nil {
		return err
	}

	acc, err := a.accounts.Resolve(ctx, accountName)
	if err != nil {
		return err
	}

	client := anilist.NewClient(a.cfg.AniList, acc.Token, nil, a.log)
	viewer, err := client.Viewer(ctx)
	if err != nil {
		return fmt.Errorf("check token of %s: %w", acc.Username, err)
	}

	pass, err := svc.Prepare(ctx, client, viewer.Name, snap)
	if err != nil {
		return err
	}

	l := pass.Logger()
	l.Info("Restore plan",
		zap.String("account", viewer.Name),
		zap.String("source", source),
		zap.Int("entries", len(pass.Snapshot.Entries)),
		zap.Int("already_present", len(pass.Plan.AlreadyPresent)),
		zap.Int("to_upload", len(pass.Plan.ToUpload)),
	)

	if dryRun {
		const maxShow = 10
		for i, e := range pass.Plan.ToUpload {
			if i == maxShow {
				l.Info("Additional entries not shown", zap.Int("count", len(pass.Plan.ToUpload)-maxShow))
				break
			}
			l.Info("Would upload", zap.Stringer("key", e.Key()), zap.String("title", e.Title), zap.String("status", string(e.Status)))
		}
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if len(pass.Plan.ToUpload) > 0 && !yes {
		question := fmt.Sprintf("Upload %d entries to %s?", len(pass.Plan.ToUpload), viewer.Name)
		if !confirm(ctx, stdin, question) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	result, err := svc.Execute(ctx, pass)
	if err != nil && result != nil && result.LeftOutPath != "" {
		l.Warn("Entries not yet attempted were saved; restore that file to continue",
			zap.String("path", result.LeftOutPath),
			zap.Int("entries", len(result.LeftOut)),
		)
	}
	return err
}

func runRestoreHistory(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	runs, err := a.journal.Recent(ctx, restoreAccount, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		a.log.Info("No runs recorded yet")
		return nil
	}
	for _, r := range runs {
		a.log.Info("Run",
			zap.String("run_id", r.RunID),
			zap.Time("started", r.StartedAt),
			zap.String("account", r.Account),
			zap.String("source", filepath.Base(r.Source)),
			zap.Int("already_present", r.AlreadyPresent),
			zap.Int("restored", r.Restored),
			zap.Int("failed", r.Failed),
			zap.Int("missing", r.Missing),
			zap.Int("left_out", r.LeftOut),
			zap.Bool("interrupted", r.Interrupted),
			zap.Duration("elapsed", r.Elapsed().Round(time.Second)),
		)
	}
	return nil
}

func runRestoreList(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	_, candidates, err := restore.SelectSource(a.cfg.Backup.OutputDir, "")
	if err != nil && !errors.Is(err, restore.ErrChooseBackup) && !errors.Is(err, restore.ErrNoBackup) {
		return err
	}
	for _, c := range candidates {
		a.log.Info("Local backup", zap.String("path", c))
	}

	if a.mirror == nil {
		return nil
	}
	names, err := a.mirror.List(ctx)
	if err != nil {
		return fmt.Errorf("list mirror: %w", err)
	}
	for _, name := range names {
		a.log.Info("Mirrored backup", zap.String("name", name))
	}
	return nil
}
