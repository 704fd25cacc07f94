package account

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists saved accounts.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the accounts table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Account{})
}

// Save inserts the account or replaces the credentials of the one with the same username.
func (s *Store) Save(ctx context.Context, acc *Account) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "token", "client_id", "client_secret", "updated_at"}),
	}).Create(acc).Error
	if err != nil {
		return fmt.Errorf("save account %s: %w", acc.Username, err)
	}
	return nil
}

// Get returns the account saved under username.
func (s *Store) Get(ctx context.Context, username string) (*Account, error) {
	var acc Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// List returns every saved account ordered by username.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := s.db.WithContext(ctx).Order("username").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Remove deletes the account saved under username.
func (s *Store) Remove(ctx context.Context, username string) error {
	res := s.db.WithContext(ctx).Where("username = ?", username).Delete(&Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, username)
	}
	return nil
}

// Resolve returns the named account, or the only saved one when username is empty.
func (s *Store) Resolve(ctx context.Context, username string) (*Account, error) {
	if username != "" {
		return s.Get(ctx, username)
	}
	accounts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(accounts) {
	case 0:
		return nil, fmt.Errorf("%w: log in with 'aniport account login' first", ErrAccountNotFound)
	case 1:
		return &accounts[0], nil
	default:
		return nil, ErrAmbiguousAccount
	}
}
