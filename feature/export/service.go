package export

import (
	"context"
	"encoding/json"
	"fmt"

	"aniport/core/reconcile"
	"aniport/feature/anilist"
	"aniport/feature/backup"

	"go.uber.org/zap"
)

// Source reads lists from the remote.
type Source interface {
	Viewer(ctx context.Context) (*anilist.Viewer, error)
	UserID(ctx context.Context, name string) (int, error)
	FetchList(ctx context.Context, userID int, kind reconcile.Kind) ([]json.RawMessage, error)
}

// Options selects what to export.
type Options struct {
	// Username is the list owner. Empty means the owner of the source's token.
	Username string
	Kinds    []reconcile.Kind
	Statuses []reconcile.Status
	Title    string
}

// Result describes a written export.
type Result struct {
	Path     string
	Username string
	Shape    backup.Shape
	Counts   map[reconcile.Kind]int
}

// Service writes list exports to the output directory.
type Service struct {
	outputDir string
	mirror    *backup.Mirror
	logger    *zap.Logger
}

// NewService creates an export service. mirror may be nil.
func NewService(outputDir string, mirror *backup.Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{outputDir: outputDir, mirror: mirror, logger: logger}
}

// Export fetches, filters and saves the selected lists.
// One kind is written as a flat list, both kinds as an object keyed by kind.
func (s *Service) Export(ctx context.Context, src Source, opts Options) (*Result, error) {
	if len(opts.Kinds) == 0 {
		opts.Kinds = reconcile.Kinds
	}

	username, userID, err := s.owner(ctx, src, opts.Username)
	if err != nil {
		return nil, err
	}

	var entries []reconcile.Entry
	counts := make(map[reconcile.Kind]int, len(opts.Kinds))
	for _, kind := range opts.Kinds {
		raws, err := src.FetchList(ctx, userID, kind)
		if err != nil {
			return nil, err
		}

		decoded := make([]reconcile.Entry, 0, len(raws))
		for i, raw := range raws {
			entry, err := backup.DecodeEntry(raw, kind, false)
			if err != nil {
				return nil, fmt.Errorf("decode %s entry %d: %w", kind, i, err)
			}
			decoded = append(decoded, entry)
		}

		kept := Filter(decoded, opts.Statuses, opts.Title)
		counts[kind] = len(kept)
		entries = append(entries, kept...)
		s.logger.Info("Fetched list",
			zap.String("user", username),
			zap.Stringer("kind", kind),
			zap.Int("fetched", len(decoded)),
			zap.Int("kept", len(kept)),
		)
	}

	shape, label := backup.ShapeKeyed, "both"
	if len(opts.Kinds) == 1 {
		shape, label = backup.ShapeFlat, opts.Kinds[0].String()
	}

	path := backup.ExportPath(s.outputDir, username, label)
	if err := backup.Save(path, shape, entries); err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if err := s.mirror.Push(ctx, path); err != nil {
			s.logger.Warn("Could not mirror export", zap.String("path", path), zap.Error(err))
		}
	}

	return &Result{Path: path, Username: username, Shape: shape, Counts: counts}, nil
}

func (s *Service) owner(ctx context.Context, src Source, username string) (string, int, error) {
	if username == "" {
		viewer, err := src.Viewer(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("resolve token owner: %w", err)
		}
		return viewer.Name, viewer.ID, nil
	}
	id, err := src.UserID(ctx, username)
	if err != nil {
		return "", 0, err
	}
	return username, id, nil
}
