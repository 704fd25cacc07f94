package account_test

import (
	"context"
	"testing"

	"aniport/core/database"
	"aniport/feature/account"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *account.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := account.NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndGet", func(t *testing.T) {
		store := setupStore(t)
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", UserID: 7, Token: "t1", ClientID: "123"}))

		acc, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "t1", acc.Token)
		assert.Equal(t, 7, acc.UserID)
		assert.Equal(t, "123", acc.ClientID)
	})

	t.Run("SaveReplacesToken", func(t *testing.T) {
		store := setupStore(t)
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "old"}))
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "new"}))

		accounts, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "new", accounts[0].Token)
	})

	t.Run("List", func(t *testing.T) {
		store := setupStore(t)
		require.NoError(t, store.Save(ctx, &account.Account{Username: "bob", Token: "b"}))
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "a"}))

		accounts, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "alice", accounts[0].Username)
		assert.Equal(t, "bob", accounts[1].Username)
	})

	t.Run("Remove", func(t *testing.T) {
		store := setupStore(t)
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "a"}))

		require.NoError(t, store.Remove(ctx, "alice"))
		_, err := store.Get(ctx, "alice")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
		assert.ErrorIs(t, store.Remove(ctx, "alice"), account.ErrAccountNotFound)
	})

	t.Run("Resolve", func(t *testing.T) {
		store := setupStore(t)

		_, err := store.Resolve(ctx, "")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)

		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "a"}))
		acc, err := store.Resolve(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Username)

		require.NoError(t, store.Save(ctx, &account.Account{Username: "bob", Token: "b"}))
		_, err = store.Resolve(ctx, "")
		assert.ErrorIs(t, err, account.ErrAmbiguousAccount)

		acc, err = store.Resolve(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "b", acc.Token)
	})
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_MySQL(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		db, mock := setupMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "username", "user_id", "token"}).AddRow(1, "alice", 7, "tok")
		mock.ExpectQuery("SELECT \\* FROM `accounts` WHERE username = \\?").WillReturnRows(rows)

		acc, err := account.NewStore(db).Get(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "tok", acc.Token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMissing", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `accounts`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := account.NewStore(db).Get(context.Background(), "nobody")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("ListError", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `accounts` ORDER BY username").WillReturnError(assert.AnError)

		_, err := account.NewStore(db).List(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})
}
