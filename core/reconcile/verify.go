package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// Verify re-reads the remote lists and reports which attempted entries are visible.
//
// A fresh id set is fetched for every kind among attempted; the snapshot taken by Plan
// is never reused. When a fetch fails, every attempted entry of that kind counts as missing.
func (e *Engine) Verify(ctx context.Context, attempted []Entry) (map[Kind]Tally, []Entry) {
	tallies := make(map[Kind]Tally)
	refreshed := make(map[Kind]IDSet)
	failedKinds := make(map[Kind]bool)

	for _, kind := range kindsOf(attempted) {
		ids, err := e.remote.FetchIDs(ctx, kind)
		if err != nil {
			e.logger.Warn("Verification fetch failed, treating entries as unconfirmed",
				zap.Stringer("kind", kind),
				zap.Error(err),
			)
			failedKinds[kind] = true
			continue
		}
		refreshed[kind] = ids
	}

	var missing []Entry
	for _, entry := range attempted {
		t := tallies[entry.Kind]
		t.Total++
		if !failedKinds[entry.Kind] && refreshed[entry.Kind].Has(entry.MediaID) {
			t.Present++
		} else {
			missing = append(missing, entry)
		}
		tallies[entry.Kind] = t
	}

	return tallies, missing
}

// mergeResidual returns the union of failed and missing, deduplicated by key,
// in the order the entries were attempted.
func mergeResidual(attempted, failed, missing []Entry) []Entry {
	want := make(map[Key]struct{}, len(failed)+len(missing))
	for _, entry := range failed {
		want[entry.Key()] = struct{}{}
	}
	for _, entry := range missing {
		want[entry.Key()] = struct{}{}
	}

	residual := make([]Entry, 0, len(want))
	for _, entry := range attempted {
		key := entry.Key()
		if _, ok := want[key]; !ok {
			continue
		}
		delete(want, key)
		residual = append(residual, entry)
	}
	return residual
}
