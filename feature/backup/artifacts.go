package backup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"aniport/core/reconcile"

	"go.uber.org/zap"
)

// Artifacts writes the derived snapshots of restore passes over one source backup.
// It implements reconcile.Artifacts.
type Artifacts struct {
	source string
	shape  Shape
	mirror *Mirror
	logger *zap.Logger
}

// NewArtifacts creates an artifact writer for source. mirror may be nil.
func NewArtifacts(source string, shape Shape, mirror *Mirror, logger *zap.Logger) *Artifacts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Artifacts{
		source: source,
		shape:  shape,
		mirror: mirror,
		logger: logger,
	}
}

// SaveLeftOut writes entries to leftout.json next to the source.
func (a *Artifacts) SaveLeftOut(ctx context.Context, entries []reconcile.Entry) (string, error) {
	path := LeftOutPath(a.source)
	if err := Save(path, a.shape, entries); err != nil {
		return "", err
	}
	a.logger.Info("Saved left-out entries", zap.String("path", path), zap.Int("entries", len(entries)))
	a.push(ctx, path)
	return path, nil
}

// SaveResidual writes entries to the failed artifact, or removes it when entries is empty.
func (a *Artifacts) SaveResidual(ctx context.Context, entries []reconcile.Entry) (string, error) {
	path := FailedPath(a.source)

	if len(entries) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("clear failed entries: %w", err)
		}
		if a.mirror != nil {
			if err := a.mirror.Remove(ctx, path); err != nil {
				a.logger.Warn("Could not clear mirrored failed entries", zap.Error(err))
			}
		}
		return "", nil
	}

	if err := Save(path, a.shape, entries); err != nil {
		return "", err
	}
	a.logger.Info("Saved entries that still need importing", zap.String("path", path), zap.Int("entries", len(entries)))
	a.push(ctx, path)
	return path, nil
}

// push mirrors a written artifact; mirror failures never fail the pass.
func (a *Artifacts) push(ctx context.Context, path string) {
	if a.mirror == nil {
		return
	}
	if err := a.mirror.Push(ctx, path); err != nil {
		a.logger.Warn("Could not mirror artifact", zap.String("path", path), zap.Error(err))
	}
}
