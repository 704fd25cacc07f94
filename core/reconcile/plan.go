package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Plan runs the pre-upload filter.
//
// The complete remote id set is fetched exactly once per distinct kind in entries and
// every entry is partitioned by membership. Entries keep their input order. The snapshot
// is not refreshed during the pass, so Plan is a pure function of entries and remote state.
func (e *Engine) Plan(ctx context.Context, entries []Entry) (*Plan, error) {
	started := e.now()

	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	remote := make(map[Kind]IDSet, len(Kinds))
	for _, kind := range kindsOf(entries) {
		ids, err := e.remote.FetchIDs(ctx, kind)
		if err != nil {
			if isCancellation(err) {
				return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
			return nil, fmt.Errorf("%w: fetch %s ids: %w", ErrRemoteUnavailable, kind, err)
		}
		e.logger.Debug("Fetched remote list", zap.Stringer("kind", kind), zap.Int("ids", len(ids)))
		remote[kind] = ids
	}

	plan := &Plan{
		ToUpload:       make([]Entry, 0, len(entries)),
		AlreadyPresent: make([]Entry, 0),
		Remote:         remote,
		Started:        started,
	}
	for _, entry := range entries {
		if remote[entry.Kind].Has(entry.MediaID) {
			plan.AlreadyPresent = append(plan.AlreadyPresent, entry)
		} else {
			plan.ToUpload = append(plan.ToUpload, entry)
		}
	}

	return plan, nil
}

// kindsOf returns the distinct kinds in entries, in canonical order.
func kindsOf(entries []Entry) []Kind {
	seen := make(map[Kind]bool, len(Kinds))
	for _, entry := range entries {
		seen[entry.Kind] = true
	}
	kinds := make([]Kind, 0, len(seen))
	for _, kind := range Kinds {
		if seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
