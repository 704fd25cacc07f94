package anilist_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"aniport/feature/anilist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthorizeURL(t *testing.T) {
	cfg := anilist.Config{AuthorizeURL: "https://anilist.co/api/v2/oauth/authorize", RedirectURI: "http://localhost"}
	raw := anilist.AuthorizeURL(cfg, "123")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/oauth/authorize", u.Path)
	assert.Equal(t, "123", u.Query().Get("client_id"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "http://localhost", u.Query().Get("redirect_uri"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		if r.PostForm.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_request"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token_type":"Bearer","access_token":"tok-123"}`)
	}))
	defer srv.Close()

	client := anilist.NewClient(anilist.Config{TokenURL: srv.URL, RedirectURI: "http://localhost"}, "", nil, zap.NewNop())

	token, err := client.ExchangeCode(context.Background(), "123", "secret", "good")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = client.ExchangeCode(context.Background(), "123", "secret", "bad")
	var apiErr *anilist.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
