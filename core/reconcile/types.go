package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of list kinds an entry can belong to.
type Kind int

const (
	// KindAnime is the default kind; legacy flat backups without a media type are anime lists.
	KindAnime Kind = iota
	// KindManga covers manga, light novels and one-shots.
	KindManga
)

// Kinds lists every kind in canonical order.
var Kinds = []Kind{KindAnime, KindManga}

// String returns the backup key for the kind ("anime", "manga").
func (k Kind) String() string {
	switch k {
	case KindAnime:
		return "anime"
	case KindManga:
		return "manga"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindAnime || k == KindManga
}

// ParseKind parses a backup key, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anime":
		return KindAnime, nil
	case "manga":
		return KindManga, nil
	default:
		return 0, fmt.Errorf("unknown media kind %q", s)
	}
}

// Status is the list status of an entry.
type Status string

const (
	StatusCurrent   Status = "CURRENT"
	StatusPlanning  Status = "PLANNING"
	StatusCompleted Status = "COMPLETED"
	StatusDropped   Status = "DROPPED"
	StatusPaused    Status = "PAUSED"
	StatusRepeating Status = "REPEATING"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusCurrent, StatusPlanning, StatusCompleted, StatusDropped, StatusPaused, StatusRepeating:
		return true
	}
	return false
}

// FuzzyDate is a date whose parts may each be unknown.
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// IsZero reports whether no part of the date is known.
func (d *FuzzyDate) IsZero() bool {
	return d == nil || (d.Year == nil && d.Month == nil && d.Day == nil)
}

// Entry is one media list record.
type Entry struct {
	Kind            Kind
	MediaID         int
	Title           string
	Status          Status
	Score           float64
	Progress        *int
	ProgressVolumes *int
	Notes           *string
	Private         *bool
	StartedAt       *FuzzyDate
	CompletedAt     *FuzzyDate
	CustomLists     []string

	// Raw is the entry exactly as it was read from a backup.
	// Artifact writers emit it unchanged so derived files stay verbatim.
	Raw json.RawMessage
}

// Key returns the reconciliation identity of the entry.
func (e Entry) Key() Key {
	return Key{Kind: e.Kind, MediaID: e.MediaID}
}

// PrimaryTag returns the custom list that is sent with an upload.
// The remote accepts one custom list per save, so only the first one is kept.
func (e Entry) PrimaryTag() string {
	for _, tag := range e.CustomLists {
		if tag = strings.TrimSpace(tag); tag != "" {
			return tag
		}
	}
	return ""
}

// Validate checks that the entry has a well-defined key.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: media %d has unknown kind %d", ErrInvalidEntry, e.MediaID, int(e.Kind))
	}
	if e.MediaID <= 0 {
		return fmt.Errorf("%w: missing media id", ErrInvalidEntry)
	}
	return nil
}

// Key identifies an entry across local and remote state.
type Key struct {
	Kind    Kind
	MediaID int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.MediaID)
}

// IDSet is the set of media ids present on a remote list.
type IDSet map[int]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Outcome is the per-entry result of a pass.
type Outcome string

const (
	// OutcomeSkipped means the entry was already on the remote list before the pass.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUploaded means the remote accepted the entry.
	OutcomeUploaded Outcome = "uploaded"
	// OutcomeFailed means the remote definitively rejected the entry.
	OutcomeFailed Outcome = "failed"
	// OutcomeLeftOut means the pass stopped before the entry was attempted.
	OutcomeLeftOut Outcome = "left_out"
)

// Plan is the output of the pre-upload filter.
type Plan struct {
	// ToUpload holds entries absent from the remote snapshot, in input order.
	ToUpload []Entry

	// AlreadyPresent holds entries found in the remote snapshot, in input order.
	AlreadyPresent []Entry

	// Remote is the id snapshot taken once at the start of the pass.
	Remote map[Kind]IDSet

	// Started is when the pass began.
	Started time.Time
}

// Outcomes maps every planned entry key to its outcome so far.
// An entry in flight when the pass was cancelled has no outcome.
func (p *Plan) Outcomes(result *Result) map[Key]Outcome {
	out := make(map[Key]Outcome, len(p.ToUpload)+len(p.AlreadyPresent))
	for _, e := range p.AlreadyPresent {
		out[e.Key()] = OutcomeSkipped
	}
	if result == nil {
		return out
	}
	for _, e := range result.Uploaded {
		out[e.Key()] = OutcomeUploaded
	}
	for _, e := range result.FailedEntries {
		out[e.Key()] = OutcomeFailed
	}
	for _, e := range result.LeftOut {
		out[e.Key()] = OutcomeLeftOut
	}
	return out
}

// Tally is the verification count for one kind.
type Tally struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Result summarises one reconciliation pass.
type Result struct {
	// AlreadyPresent counts entries skipped by the pre-upload filter.
	AlreadyPresent int

	// Restored counts uploads the remote accepted.
	Restored int

	// Failed counts uploads the remote rejected.
	Failed int

	// Uploaded holds accepted entries in upload order.
	Uploaded []Entry

	// FailedEntries holds rejected entries in upload order.
	FailedEntries []Entry

	// Attempted holds every entry an upload was issued for, including one in flight at interruption.
	Attempted []Entry

	// Verification is the post-upload tally per kind.
	Verification map[Kind]Tally

	// Missing holds attempted entries absent from the refreshed remote state.
	Missing []Entry

	// Residual is FailedEntries merged with Missing, deduplicated by key.
	Residual []Entry

	// ResidualPath is where the residual artifact was written ("" when cleared).
	ResidualPath string

	// Interrupted reports that the pass was cancelled or lost its credentials before finishing.
	Interrupted bool

	// LeftOut holds entries never attempted because of the interruption.
	LeftOut []Entry

	// LeftOutPath is where the left-out artifact was written.
	LeftOutPath string

	// Elapsed is the wall time of the pass.
	Elapsed time.Duration
}

// StillMissing is the number of entries the next retry pass should cover.
func (r *Result) StillMissing() int {
	return len(r.Residual)
}
