package account

import (
	"context"
	"fmt"

	"aniport/feature/anilist"

	"go.uber.org/zap"
)

// Service runs the login flow and token checks for saved accounts.
type Service struct {
	store  *Store
	api    anilist.Config
	logger *zap.Logger
}

// NewService creates a Service.
func NewService(store *Store, api anilist.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, api: api, logger: logger}
}

// Store returns the account store.
func (s *Service) Store() *Store {
	return s.store
}

// AuthorizeURL returns the page the user opens to grant access.
func (s *Service) AuthorizeURL(clientID string) string {
	return anilist.AuthorizeURL(s.api, clientID)
}

// Login exchanges an authorization code for a token and saves the account it belongs to.
func (s *Service) Login(ctx context.Context, clientID, clientSecret, code string) (*Account, error) {
	token, err := anilist.NewClient(s.api, "", nil, s.logger).ExchangeCode(ctx, clientID, clientSecret, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	viewer, err := anilist.NewClient(s.api, token, nil, s.logger).Viewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify new token: %w", err)
	}

	acc := &Account{
		Username:     viewer.Name,
		UserID:       viewer.ID,
		Token:        token,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
	if err := s.store.Save(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account saved", zap.String("username", acc.Username), zap.Int("user_id", acc.UserID))
	return acc, nil
}

// Whoami checks the saved token of username (or the only account) against the API.
func (s *Service) Whoami(ctx context.Context, username string) (*Account, *anilist.Viewer, error) {
	acc, err := s.store.Resolve(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	viewer, err := anilist.NewClient(s.api, acc.Token, nil, s.logger).Viewer(ctx)
	if err != nil {
		return acc, nil, err
	}
	return acc, viewer, nil
}
