package account

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Callback is a one-route local server that receives the OAuth redirect.
type Callback struct {
	app    *fiber.App
	codes  chan string
	logger *zap.Logger
}

// NewCallback creates the callback server. It does not listen until Wait.
func NewCallback(logger *zap.Logger) *Callback {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := &Callback{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		codes:  make(chan string, 1),
		logger: logger,
	}
	cb.app.Get("/*", cb.handle)
	return cb
}

// App exposes the underlying fiber app.
func (cb *Callback) App() *fiber.App {
	return cb.app
}

func (cb *Callback) handle(c *fiber.Ctx) error {
	if reason := c.Query("error"); reason != "" {
		cb.logger.Warn("Authorization was not granted", zap.String("error", reason))
		return c.Status(fiber.StatusBadRequest).SendString("Authorization was not granted: " + reason)
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No authorization code in this request. Start the login again.")
	}

	select {
	case cb.codes <- code:
	default:
		// A code is already waiting to be used.
	}
	return c.SendString("Login received. You can close this window and return to the terminal.")
}

// Wait listens on port until a code arrives or ctx is done.
func (cb *Callback) Wait(ctx context.Context, port int) (string, error) {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- cb.app.Listen(fmt.Sprintf("127.0.0.1:%d", port))
	}()
	defer func() {
		if err := cb.app.Shutdown(); err != nil {
			cb.logger.Debug("Callback listener shutdown failed", zap.Error(err))
		}
	}()

	cb.logger.Info("Waiting for the AniList redirect", zap.Int("port", port))

	select {
	case code := <-cb.codes:
		return code, nil
	case err := <-listenErr:
		return "", fmt.Errorf("callback listener: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
