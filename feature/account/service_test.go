package account_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aniport/feature/account"
	"aniport/feature/anilist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeAniList(t *testing.T) anilist.Config {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok-alice"}`)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if r.Header.Get("Authorization") != "Bearer tok-alice" || !strings.Contains(req.Query, "Viewer") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"errors":[{"message":"Invalid token"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"Viewer":{"id":7,"name":"alice"}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return anilist.Config{
		APIURL:       srv.URL + "/graphql",
		TokenURL:     srv.URL + "/token",
		AuthorizeURL: "https://anilist.co/api/v2/oauth/authorize",
		RedirectURI:  "http://localhost",
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("LoginSavesViewer", func(t *testing.T) {
		store := setupStore(t)
		svc := account.NewService(store, fakeAniList(t), zap.NewNop())

		acc, err := svc.Login(ctx, "123", "secret", "good")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Username)
		assert.Equal(t, 7, acc.UserID)

		saved, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "tok-alice", saved.Token)
		assert.Equal(t, "secret", saved.ClientSecret)
	})

	t.Run("LoginBadCode", func(t *testing.T) {
		store := setupStore(t)
		svc := account.NewService(store, fakeAniList(t), zap.NewNop())

		_, err := svc.Login(ctx, "123", "secret", "bad")
		assert.Error(t, err)

		accounts, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("Whoami", func(t *testing.T) {
		store := setupStore(t)
		svc := account.NewService(store, fakeAniList(t), zap.NewNop())
		require.NoError(t, store.Save(ctx, &account.Account{Username: "alice", Token: "tok-alice"}))
		require.NoError(t, store.Save(ctx, &account.Account{Username: "stale", Token: "expired"}))

		_, viewer, err := svc.Whoami(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 7, viewer.ID)

		_, _, err = svc.Whoami(ctx, "stale")
		assert.ErrorIs(t, err, anilist.ErrInvalidToken)
	})

	t.Run("AuthorizeURL", func(t *testing.T) {
		svc := account.NewService(setupStore(t), fakeAniList(t), nil)
		assert.Contains(t, svc.AuthorizeURL("123"), "client_id=123")
	})
}
