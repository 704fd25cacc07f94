package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"aniport/core/reconcile"
)

// record is the on-disk shape of one entry, as exported from AniList.
type record struct {
	Status          string               `json:"status,omitempty"`
	Score           float64              `json:"score"`
	Progress        *int                 `json:"progress"`
	ProgressVolumes *int                 `json:"progressVolumes"`
	Notes           *string              `json:"notes"`
	Private         *bool                `json:"private"`
	StartedAt       *reconcile.FuzzyDate `json:"startedAt"`
	CompletedAt     *reconcile.FuzzyDate `json:"completedAt"`
	CustomLists     customLists          `json:"customLists,omitempty"`
	Media           recordMedia          `json:"media"`
}

type recordMedia struct {
	ID    int         `json:"id"`
	Type  string      `json:"type,omitempty"`
	Title recordTitle `json:"title"`
}

type recordTitle struct {
	Romaji string `json:"romaji,omitempty"`
}

// customLists accepts every form AniList uses for an entry's custom lists:
// a plain array of names, an array of {name, enabled}, or an object of name -> enabled.
type customLists []string

func (c *customLists) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*c = names
		return nil
	}

	var flagged []struct {
		Name    string `json:"name"`
		Enabled *bool  `json:"enabled"`
	}
	if err := json.Unmarshal(data, &flagged); err == nil {
		out := make([]string, 0, len(flagged))
		for _, f := range flagged {
			if f.Enabled == nil || *f.Enabled {
				out = append(out, f.Name)
			}
		}
		*c = out
		return nil
	}

	var byName map[string]bool
	if err := json.Unmarshal(data, &byName); err != nil {
		return fmt.Errorf("customLists: unsupported format")
	}
	out := make([]string, 0, len(byName))
	for name, enabled := range byName {
		if enabled {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	*c = out
	return nil
}

// kindFromMediaType maps the AniList media type to a kind; unknown or empty means anime.
func kindFromMediaType(mediaType string) reconcile.Kind {
	if strings.EqualFold(mediaType, "MANGA") {
		return reconcile.KindManga
	}
	return reconcile.KindAnime
}

func mediaTypeOf(kind reconcile.Kind) string {
	if kind == reconcile.KindManga {
		return "MANGA"
	}
	return "ANIME"
}

// DecodeEntry parses one entry. When infer is true the kind comes from media.type,
// otherwise kind is used as is.
func DecodeEntry(raw json.RawMessage, kind reconcile.Kind, infer bool) (reconcile.Entry, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return reconcile.Entry{}, err
	}
	if rec.Media.ID <= 0 {
		return reconcile.Entry{}, fmt.Errorf("entry has no media.id")
	}
	if infer {
		kind = kindFromMediaType(rec.Media.Type)
	}

	return reconcile.Entry{
		Kind:            kind,
		MediaID:         rec.Media.ID,
		Title:           rec.Media.Title.Romaji,
		Status:          reconcile.Status(rec.Status),
		Score:           rec.Score,
		Progress:        rec.Progress,
		ProgressVolumes: rec.ProgressVolumes,
		Notes:           rec.Notes,
		Private:         rec.Private,
		StartedAt:       rec.StartedAt,
		CompletedAt:     rec.CompletedAt,
		CustomLists:     []string(rec.CustomLists),
		Raw:             append(json.RawMessage(nil), raw...),
	}, nil
}

// EncodeEntry returns the on-disk form of an entry; entries read from a backup are emitted verbatim.
func EncodeEntry(e reconcile.Entry) (json.RawMessage, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	rec := record{
		Status:          string(e.Status),
		Score:           e.Score,
		Progress:        e.Progress,
		ProgressVolumes: e.ProgressVolumes,
		Notes:           e.Notes,
		Private:         e.Private,
		StartedAt:       e.StartedAt,
		CompletedAt:     e.CompletedAt,
		CustomLists:     customLists(e.CustomLists),
		Media: recordMedia{
			ID:    e.MediaID,
			Type:  mediaTypeOf(e.Kind),
			Title: recordTitle{Romaji: e.Title},
		},
	}
	return json.Marshal(rec)
}
