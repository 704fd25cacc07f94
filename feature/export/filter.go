package export

import (
	"fmt"
	"strings"

	"aniport/core/reconcile"
)

// statusShortcuts are the numbered choices of the status filter.
var statusShortcuts = map[string]reconcile.Status{
	"1": reconcile.StatusCompleted,
	"2": reconcile.StatusCurrent,
	"3": reconcile.StatusDropped,
	"4": reconcile.StatusPaused,
	"5": reconcile.StatusPlanning,
	"6": reconcile.StatusRepeating,
}

// ParseStatuses parses a comma or space separated list of status codes or 1-6 shortcuts.
// Duplicates are dropped; an empty input means no status filter.
func ParseStatuses(input string) ([]reconcile.Status, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	var out []reconcile.Status
	seen := make(map[reconcile.Status]bool)
	for _, tok := range fields {
		status, ok := statusShortcuts[tok]
		if !ok {
			status = reconcile.Status(strings.ToUpper(tok))
		}
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q (use 1-6 or COMPLETED, CURRENT, DROPPED, PAUSED, PLANNING, REPEATING)", tok)
		}
		if !seen[status] {
			seen[status] = true
			out = append(out, status)
		}
	}
	return out, nil
}

// ParseKinds parses anime, manga or both.
func ParseKinds(input string) ([]reconcile.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(input), "both") {
		return reconcile.Kinds, nil
	}
	kind, err := reconcile.ParseKind(input)
	if err != nil {
		return nil, fmt.Errorf("%w (use anime, manga or both)", err)
	}
	return []reconcile.Kind{kind}, nil
}

// Filter keeps entries whose status is in statuses and whose romaji title contains
// title, case-insensitively. Empty filters match everything.
func Filter(entries []reconcile.Entry, statuses []reconcile.Status, title string) []reconcile.Entry {
	title = strings.ToLower(strings.TrimSpace(title))
	allowed := make(map[reconcile.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	out := make([]reconcile.Entry, 0, len(entries))
	for _, e := range entries {
		if len(allowed) > 0 && !allowed[e.Status] {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(e.Title), title) {
			continue
		}
		out = append(out, e)
	}
	return out
}
