package reconcile

import "context"

// Remote is the remote list service the engine reconciles against.
//
// Implementations apply rate-limit handling internally, so from the engine's point of
// view every call either completes, fails definitively, or returns a context error.
type Remote interface {
	// FetchIDs returns every media id currently on the account's list of the given kind.
	// The set must be complete; partial pages are an error.
	FetchIDs(ctx context.Context, kind Kind) (IDSet, error)

	// Upload creates or updates one list entry.
	// A nil error means the remote accepted it. Context errors mean the pass was cancelled.
	// Any other error is a definitive rejection of this entry.
	Upload(ctx context.Context, entry Entry) error

	// EnsureTag makes sure the custom list exists in the account's registry for kind.
	// It must be idempotent.
	EnsureTag(ctx context.Context, kind Kind, tag string) error
}

// Artifacts persists the derived snapshots a pass produces.
// Each method fully overwrites the previous artifact of the same role.
type Artifacts interface {
	// SaveLeftOut records entries never attempted because the pass was interrupted.
	SaveLeftOut(ctx context.Context, entries []Entry) (path string, err error)

	// SaveResidual records entries that still need importing.
	// An empty slice clears the artifact and returns an empty path.
	SaveResidual(ctx context.Context, entries []Entry) (path string, err error)
}
