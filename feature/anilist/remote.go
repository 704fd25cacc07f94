package anilist

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"aniport/core/reconcile"

	"go.uber.org/zap"
)

// Upload saves one entry with SaveMediaListEntry. Unset fields are not sent,
// so the remote keeps its own values for them.
func (c *Client) Upload(ctx context.Context, entry reconcile.Entry) error {
	err := c.query(ctx, saveEntryMutation, saveVariables(entry), nil)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("upload %s: %w", entry.Key(), ctx.Err())
	}
	if errors.Is(err, ErrInvalidToken) {
		return fmt.Errorf("upload %s: %w", entry.Key(), unauthorized(err))
	}
	return fmt.Errorf("%w: %s: %w", ErrRejected, entry.Key(), err)
}

// unauthorized marks a token failure so the reconciliation pass stops.
func unauthorized(err error) error {
	if errors.Is(err, ErrInvalidToken) {
		return fmt.Errorf("%w: %w", reconcile.ErrUnauthorized, err)
	}
	return err
}

func saveVariables(e reconcile.Entry) map[string]any {
	vars := map[string]any{
		"mediaId": e.MediaID,
		"score":   e.Score,
	}
	if e.Status != "" {
		vars["status"] = string(e.Status)
	}
	if e.Progress != nil {
		vars["progress"] = *e.Progress
	}
	if e.ProgressVolumes != nil {
		vars["progressVolumes"] = *e.ProgressVolumes
	}
	if e.Notes != nil {
		vars["notes"] = *e.Notes
	}
	if e.Private != nil {
		vars["private"] = *e.Private
	}
	if !e.StartedAt.IsZero() {
		vars["startedAt"] = e.StartedAt
	}
	if !e.CompletedAt.IsZero() {
		vars["completedAt"] = e.CompletedAt
	}
	if tag := e.PrimaryTag(); tag != "" {
		vars["customLists"] = []string{tag}
	}
	return vars
}

type listOptions struct {
	Viewer *struct {
		MediaListOptions struct {
			AnimeList struct {
				CustomLists []string `json:"customLists"`
			} `json:"animeList"`
			MangaList struct {
				CustomLists []string `json:"customLists"`
			} `json:"mangaList"`
		} `json:"mediaListOptions"`
	} `json:"Viewer"`
}

// loadTags reads the viewer's custom list registries once.
func (c *Client) loadTags(ctx context.Context) error {
	if c.tags != nil {
		return nil
	}
	var data listOptions
	if err := c.query(ctx, listOptionsQuery, nil, &data); err != nil {
		return fmt.Errorf("fetch custom lists: %w", err)
	}
	if data.Viewer == nil {
		return fmt.Errorf("%w: token has no viewer", ErrInvalidToken)
	}

	opts := data.Viewer.MediaListOptions
	c.tags = map[reconcile.Kind][]string{
		reconcile.KindAnime: opts.AnimeList.CustomLists,
		reconcile.KindManga: opts.MangaList.CustomLists,
	}
	return nil
}

// EnsureTag adds tag to the viewer's custom lists for kind when it is not there yet.
// The full registry is sent back, as UpdateUser replaces it.
func (c *Client) EnsureTag(ctx context.Context, kind reconcile.Kind, tag string) error {
	return unauthorized(c.ensureTag(ctx, kind, tag))
}

func (c *Client) ensureTag(ctx context.Context, kind reconcile.Kind, tag string) error {
	if err := c.loadTags(ctx); err != nil {
		return err
	}
	registry := c.tags[kind]
	if slices.Contains(registry, tag) {
		return nil
	}

	lists := append(slices.Clone(registry), tag)

	mutation := updateAnimeListsMutation
	if kind == reconcile.KindManga {
		mutation = updateMangaListsMutation
	}
	if err := c.query(ctx, mutation, map[string]any{"customLists": lists}, nil); err != nil {
		return fmt.Errorf("create custom list %q: %w", tag, err)
	}

	c.tags[kind] = lists
	c.logger.Info("Created custom list", zap.Stringer("kind", kind), zap.String("tag", tag))
	return nil
}
