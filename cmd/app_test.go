package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"aniport/core/config"
	"aniport/core/database"
	"aniport/feature/account"
	"aniport/feature/anilist"
	"aniport/feature/backup"
	"aniport/feature/restore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	assert.True(t, confirm(ctx, newLineReader(strings.NewReader("y\n")), "Go?"))
	assert.True(t, confirm(ctx, newLineReader(strings.NewReader(" YES \n")), "Go?"))
	assert.False(t, confirm(ctx, newLineReader(strings.NewReader("\n")), "Go?"))
	assert.False(t, confirm(ctx, newLineReader(strings.NewReader("nope\n")), "Go?"))
	assert.False(t, confirm(ctx, newLineReader(strings.NewReader("")), "Go?"))

	t.Run("CancelledKeepsInputForNextPrompt", func(t *testing.T) {
		r, w := io.Pipe()
		defer w.Close()
		in := newLineReader(r)

		// A cancelled context wins over a reader that never answers.
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.False(t, confirm(cancelled, in, "Go?"))

		go func() { _, _ = io.WriteString(w, "yes\n") }()
		assert.True(t, confirm(ctx, in, "Go?"))
	})
}

func TestPrompt_SharesBufferedInput(t *testing.T) {
	ctx := context.Background()
	in := newLineReader(strings.NewReader("my-client\nmy-secret\nhttp://localhost/?code=abc\n"))

	id, err := prompt(ctx, in, "id:")
	require.NoError(t, err)
	secret, err := prompt(ctx, in, "secret:")
	require.NoError(t, err)
	url, err := prompt(ctx, in, "url:")
	require.NoError(t, err)

	assert.Equal(t, "my-client", id)
	assert.Equal(t, "my-secret", secret)
	assert.Equal(t, "http://localhost/?code=abc", url)

	_, err = prompt(ctx, in, "more:")
	assert.ErrorIs(t, err, io.EOF)
}

func TestSignalContext(t *testing.T) {
	t.Run("FollowsParent", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := signalContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("CancelledOnInterrupt", func(t *testing.T) {
		ctx, stop := signalContext(nil)
		defer stop()

		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context not cancelled by SIGINT")
		}
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"export"},
		{"restore"},
		{"restore", "history"},
		{"restore", "list"},
		{"retry"},
		{"account", "login"},
		{"account", "whoami"},
	} {
		cmd, _, err := RootCmd.Find(path)
		if assert.NoError(t, err, path) {
			assert.Equal(t, path[len(path)-1], cmd.Name())
		}
	}
}

// newTestApp wires an in-memory database and an AniList endpoint counting its hits.
func newTestApp(t *testing.T) (*app, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(string(body), "MediaListCollection") {
			_, _ = io.WriteString(w, `{"data":{"MediaListCollection":{"hasNextChunk":false,"lists":[]}}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"Viewer":{"id":7,"name":"alice"}}}`)
	}))
	t.Cleanup(srv.Close)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	a := &app{
		cfg:      &config.Config{AniList: anilist.Config{APIURL: srv.URL, RateLimitWait: time.Millisecond}},
		log:      zap.NewNop(),
		accounts: account.NewStore(db),
		journal:  restore.NewJournal(db),
	}
	require.NoError(t, a.accounts.Migrate())
	require.NoError(t, a.journal.Migrate())
	require.NoError(t, a.accounts.Save(context.Background(), &account.Account{Username: "alice", UserID: 7, Token: "tok"}))
	return a, &hits
}

func TestRunPass(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidBackupMakesNoRemoteCalls", func(t *testing.T) {
		a, hits := newTestApp(t)
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"oops":1}`), 0o644))

		err := runPass(ctx, a, path, "alice", false, true)
		assert.ErrorIs(t, err, backup.ErrInvalidBackup)
		assert.Zero(t, hits.Load())
	})

	t.Run("MissingBackupMakesNoRemoteCalls", func(t *testing.T) {
		a, hits := newTestApp(t)

		err := runPass(ctx, a, filepath.Join(t.TempDir(), "nope.json"), "alice", false, true)
		assert.Error(t, err)
		assert.Zero(t, hits.Load())
	})

	t.Run("DryRunPlansAgainstRemote", func(t *testing.T) {
		a, hits := newTestApp(t)
		path := filepath.Join(t.TempDir(), "alice_anime_backup.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`[{"status":"COMPLETED","score":8,"media":{"id":1,"title":{"romaji":"Cowboy Bebop"}}}]`), 0o644))

		require.NoError(t, runPass(ctx, a, path, "alice", true, false))
		assert.Equal(t, int32(2), hits.Load(), "viewer check and one list read")
		assert.NoFileExists(t, backup.FailedPath(path))
	})
}
