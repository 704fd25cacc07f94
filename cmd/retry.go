package cmd

import "github.com/spf13/cobra"

var (
	retryAccount string
	retryYes     bool
)

// retryCmd re-runs a restore pass on a failed-entries file.
var retryCmd = &cobra.Command{
	Use:   "retry FILE",
	Short: "Retry the entries of a .failed.json file",
	Long: `Retry the entries recorded in a .failed.json file (or a leftout.json).

Entries that made it onto the list in the meantime are skipped. Whatever is still
missing afterwards overwrites the same .failed.json; the file is removed once
everything is present.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		return runPass(ctx, a, args[0], retryAccount, false, retryYes)
	},
}

func init() {
	retryCmd.Flags().StringVarP(&retryAccount, "account", "a", "", "Saved account to restore to")
	retryCmd.Flags().BoolVarP(&retryYes, "yes", "y", false, "Skip the confirmation prompt")

	RootCmd.AddCommand(retryCmd)
}
