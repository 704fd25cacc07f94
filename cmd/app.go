package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"aniport/core/config"
	"aniport/core/database"
	"aniport/core/logger"
	"aniport/core/storage"
	"aniport/feature/account"
	"aniport/feature/backup"
	"aniport/feature/restore"

	"go.uber.org/zap"
)

// stdin is where confirmations and pasted URLs are read from.
var stdin = newLineReader(os.Stdin)

// lineReader hands out lines of one input to successive prompts.
// A single goroutine owns the buffered reader, so a prompt abandoned on
// cancellation loses no input: its line goes to the next prompt.
type lineReader struct {
	in    *bufio.Reader
	once  sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{in: bufio.NewReader(r), lines: make(chan readResult)}
}

func (r *lineReader) start() {
	r.once.Do(func() {
		go func() {
			defer close(r.lines)
			for {
				line, err := r.in.ReadString('\n')
				r.lines <- readResult{line: line, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// ReadLine returns the next line without its trailing newline.
func (r *lineReader) ReadLine(ctx context.Context) (string, error) {
	r.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil && res.line == "" {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// signalContext derives a context that is cancelled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// app holds what every command needs: config, logger, database-backed stores
// and the optional backup mirror.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	accounts *account.Store
	journal  *restore.Journal
	mirror   *backup.Mirror
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      l,
		accounts: account.NewStore(db),
		journal:  restore.NewJournal(db),
	}
	if err := a.accounts.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate accounts: %w", err)
	}
	if err := a.journal.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate run journal: %w", err)
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.mirror = backup.NewMirror(client, cfg.Storage.Bucket, cfg.Storage.Prefix, l)
	}

	return a, nil
}

// confirm asks a yes/no question. It gives up when ctx is done.
func confirm(ctx context.Context, in *lineReader, question string) bool {
	fmt.Printf("\n%s [y/N]: ", question)

	line, err := in.ReadLine(ctx)
	if err != nil {
		fmt.Println()
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// prompt reads one answer line.
func prompt(ctx context.Context, in *lineReader, question string) (string, error) {
	fmt.Print(question + " ")
	return in.ReadLine(ctx)
}
