package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aniport/core/reconcile"
)

// Shape is the document layout of a backup file.
type Shape int

const (
	// ShapeKeyed is {"anime": [...], "manga": [...]}.
	ShapeKeyed Shape = iota
	// ShapeFlat is a legacy [...] whose entries carry their own media type.
	ShapeFlat
)

func (s Shape) String() string {
	if s == ShapeFlat {
		return "flat"
	}
	return "keyed"
}

// Snapshot is a backup resolved into one normalized entry list.
// The shape is kept only so derived artifacts can be written back the same way.
type Snapshot struct {
	Path    string
	Shape   Shape
	Entries []reconcile.Entry
}

// Count returns the number of entries per kind.
func (s *Snapshot) Count() map[reconcile.Kind]int {
	out := make(map[reconcile.Kind]int, len(reconcile.Kinds))
	for _, e := range s.Entries {
		out[e.Kind]++
	}
	return out
}

// Load reads and normalizes a backup file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap.Path = path
	return snap, nil
}

// Decode resolves a backup document into a Snapshot.
func Decode(data []byte) (*Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidBackup)
	}

	switch data[0] {
	case '{':
		return decodeKeyed(data)
	case '[':
		return decodeFlat(data)
	default:
		return nil, fmt.Errorf("%w: expected an object keyed by media kind or a list of entries", ErrInvalidBackup)
	}
}

func decodeKeyed(data []byte) (*Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	snap := &Snapshot{Shape: ShapeKeyed}
	found := false
	for _, kind := range reconcile.Kinds {
		section, ok := doc[kind.String()]
		if !ok {
			continue
		}
		found = true

		var items []json.RawMessage
		if err := json.Unmarshal(section, &items); err != nil {
			return nil, fmt.Errorf("%w: %q is not a list: %w", ErrInvalidBackup, kind.String(), err)
		}
		for i, raw := range items {
			entry, err := DecodeEntry(raw, kind, false)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %w", ErrInvalidBackup, kind, i, err)
			}
			snap.Entries = append(snap.Entries, entry)
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: object has neither %q nor %q", ErrInvalidBackup, "anime", "manga")
	}
	return snap, nil
}

func decodeFlat(data []byte) (*Snapshot, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	snap := &Snapshot{Shape: ShapeFlat}
	for i, raw := range items {
		entry, err := DecodeEntry(raw, reconcile.KindAnime, true)
		if err != nil {
			return nil, fmt.Errorf("%w: [%d]: %w", ErrInvalidBackup, i, err)
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return snap, nil
}

// Encode renders entries in the given shape, indented.
func Encode(shape Shape, entries []reconcile.Entry) ([]byte, error) {
	var doc any

	if shape == ShapeFlat {
		items := make([]json.RawMessage, 0, len(entries))
		for _, e := range entries {
			raw, err := EncodeEntry(e)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		doc = items
	} else {
		byKind := make(map[string][]json.RawMessage)
		for _, e := range entries {
			raw, err := EncodeEntry(e)
			if err != nil {
				return nil, err
			}
			byKind[e.Kind.String()] = append(byKind[e.Kind.String()], raw)
		}
		doc = byKind
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Save writes entries to path in the given shape, replacing any previous file.
func Save(path string, shape Shape, entries []reconcile.Entry) error {
	data, err := Encode(shape, entries)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	// Write to a sibling temp file first so an interrupted write never leaves half a backup.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace backup: %w", err)
	}
	return nil
}
