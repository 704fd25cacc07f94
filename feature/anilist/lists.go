package anilist

import (
	"context"
	"encoding/json"
	"fmt"

	"aniport/core/reconcile"

	"go.uber.org/zap"
)

// maxChunks stops a misbehaving server from paging forever.
const maxChunks = 1000

// MediaType returns the AniList media type for a kind.
func MediaType(kind reconcile.Kind) string {
	if kind == reconcile.KindManga {
		return "MANGA"
	}
	return "ANIME"
}

type collection struct {
	MediaListCollection *struct {
		HasNextChunk bool `json:"hasNextChunk"`
		Lists        []struct {
			Entries []json.RawMessage `json:"entries"`
		} `json:"lists"`
	} `json:"MediaListCollection"`
}

type entryMedia struct {
	Media struct {
		ID int `json:"id"`
	} `json:"media"`
}

// collect pages through MediaListCollection and returns every entry once.
// An entry on several custom lists appears in several lists of a chunk; only the first copy is kept.
func (c *Client) collect(ctx context.Context, query string, userID int, kind reconcile.Kind) ([]json.RawMessage, []int, error) {
	perChunk := c.cfg.ChunkSize
	if perChunk <= 0 {
		perChunk = 500
	}

	var (
		entries []json.RawMessage
		ids     []int
		seen    = make(map[int]bool)
	)
	for chunk := 1; chunk <= maxChunks; chunk++ {
		var data collection
		vars := map[string]any{
			"userId":   userID,
			"type":     MediaType(kind),
			"chunk":    chunk,
			"perChunk": perChunk,
		}
		if err := c.query(ctx, query, vars, &data); err != nil {
			return nil, nil, fmt.Errorf("fetch %s list chunk %d: %w", kind, chunk, err)
		}
		if data.MediaListCollection == nil {
			return nil, nil, fmt.Errorf("fetch %s list chunk %d: empty collection", kind, chunk)
		}

		for _, list := range data.MediaListCollection.Lists {
			for _, raw := range list.Entries {
				var e entryMedia
				if err := json.Unmarshal(raw, &e); err != nil {
					return nil, nil, fmt.Errorf("decode %s list entry: %w", kind, err)
				}
				if e.Media.ID == 0 || seen[e.Media.ID] {
					continue
				}
				seen[e.Media.ID] = true
				entries = append(entries, raw)
				ids = append(ids, e.Media.ID)
			}
		}

		if !data.MediaListCollection.HasNextChunk {
			c.logger.Debug("Fetched list",
				zap.Stringer("kind", kind),
				zap.Int("user_id", userID),
				zap.Int("chunks", chunk),
				zap.Int("entries", len(ids)),
			)
			return entries, ids, nil
		}
	}
	return nil, nil, fmt.Errorf("fetch %s list: more than %d chunks", kind, maxChunks)
}

// FetchList returns the full list entries of a user, as the API returns them.
func (c *Client) FetchList(ctx context.Context, userID int, kind reconcile.Kind) ([]json.RawMessage, error) {
	entries, _, err := c.collect(ctx, listQuery, userID, kind)
	return entries, err
}

// FetchIDs returns the complete set of media ids on the viewer's list of kind.
func (c *Client) FetchIDs(ctx context.Context, kind reconcile.Kind) (reconcile.IDSet, error) {
	viewer, err := c.Viewer(ctx)
	if err != nil {
		return nil, err
	}
	_, ids, err := c.collect(ctx, idsQuery, viewer.ID, kind)
	if err != nil {
		return nil, err
	}
	return reconcile.NewIDSet(ids...), nil
}
