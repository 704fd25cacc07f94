package cmd

import (
	"context"
	"fmt"

	"aniport/feature/account"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loginClientID     string
	loginClientSecret string
	loginPort         int
)

// accountCmd is the parent command for saved accounts.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage saved AniList accounts",
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize an AniList account and save its token",
	Long: `Authorize an AniList account with the OAuth code flow.

Create an API client at https://anilist.co/settings/developer and set its redirect URL
to anilist.redirect_uri (http://localhost by default).

Open the printed URL and approve access. With --port (or account.callback_port) set and
a redirect URL pointing at that port, the code is received automatically. Otherwise
copy the URL the browser was redirected to (it contains ?code=...) and paste it.`,
	Args: cobra.NoArgs,
	RunE: runAccountLogin,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		accounts, err := a.accounts.List(ctx)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			a.log.Info("No saved accounts. Use 'aniport account login' to add one.")
		}
		for _, acc := range accounts {
			a.log.Info("Account",
				zap.String("username", acc.Username),
				zap.Int("user_id", acc.UserID),
				zap.Time("saved", acc.UpdatedAt),
			)
		}
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove USERNAME",
	Short: "Forget a saved account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		if err := a.accounts.Remove(ctx, args[0]); err != nil {
			return err
		}
		a.log.Info("Account removed", zap.String("username", args[0]))
		return nil
	},
}

var accountWhoamiCmd = &cobra.Command{
	Use:   "whoami [USERNAME]",
	Short: "Check that a saved token still works",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		svc := account.NewService(a.accounts, a.cfg.AniList, a.log)
		acc, viewer, err := svc.Whoami(ctx, name)
		if err != nil {
			if acc != nil {
				return fmt.Errorf("token of %s no longer works, log in again: %w", acc.Username, err)
			}
			return err
		}
		a.log.Info("Token is valid", zap.String("username", viewer.Name), zap.Int("user_id", viewer.ID))
		return nil
	},
}

func init() {
	accountLoginCmd.Flags().StringVar(&loginClientID, "client-id", "", "API client id (defaults to anilist.client_id)")
	accountLoginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "API client secret (defaults to anilist.client_secret)")
	accountLoginCmd.Flags().IntVar(&loginPort, "port", 0, "Receive the redirect on this local port (defaults to account.callback_port)")

	accountCmd.AddCommand(accountLoginCmd, accountListCmd, accountRemoveCmd, accountWhoamiCmd)
	RootCmd.AddCommand(accountCmd)
}

func runAccountLogin(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	clientID := firstNonEmpty(loginClientID, a.cfg.AniList.ClientID)
	if clientID == "" {
		if clientID, err = prompt(ctx, stdin, "AniList API client id:"); err != nil {
			return err
		}
	}
	clientSecret := firstNonEmpty(loginClientSecret, a.cfg.AniList.ClientSecret)
	if clientSecret == "" {
		if clientSecret, err = prompt(ctx, stdin, "AniList API client secret:"); err != nil {
			return err
		}
	}

	svc := account.NewService(a.accounts, a.cfg.AniList, a.log)
	fmt.Printf("\nOpen this URL in your browser and approve access:\n\n%s\n\n", svc.AuthorizeURL(clientID))

	code, err := readCode(ctx, a, loginPort)
	if err != nil {
		return err
	}

	acc, err := svc.Login(ctx, clientID, clientSecret, code)
	if err != nil {
		return err
	}
	a.log.Info("Logged in", zap.String("username", acc.Username))
	return nil
}

// readCode waits for the OAuth redirect on a local port, or asks for the redirected URL.
func readCode(ctx context.Context, a *app, port int) (string, error) {
	if port <= 0 {
		port = a.cfg.Account.CallbackPort
	}
	if port > 0 {
		waitCtx := ctx
		if a.cfg.Account.CallbackTimeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, a.cfg.Account.CallbackTimeout)
			defer cancel()
		}
		return account.NewCallback(a.log).Wait(waitCtx, port)
	}

	pasted, err := prompt(ctx, stdin, "Paste the URL you were redirected to:")
	if err != nil {
		return "", err
	}
	return account.ExtractCode(pasted)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
