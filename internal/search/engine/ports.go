package engine

import "context"

// ContentSource is the narrow read interface onto the external content store.
// Implementations fetch a full collection snapshot per call; the engine never
// asks for partial pages.
type ContentSource interface {
	FetchCollection(ctx context.Context, name Collection) ([]ContentRecord, error)
}

// HistoryStore keeps a per-visitor list of past query strings:
// most-recent-first, deduplicated, capped at HistoryLimit.
type HistoryStore interface {
	Record(ctx context.Context, key, query string) error
	Recent(ctx context.Context, key string) ([]string, error)
}

// PopularityStore keeps shared executed-search counters per exact query string.
type PopularityStore interface {
	// Increment atomically bumps the counter for the query (initial value 0).
	Increment(ctx context.Context, query string) error
	// Top returns up to n queries ordered by count descending. Ties are
	// broken lexicographically ascending; the store must guarantee that
	// ordering so results are stable across backends.
	Top(ctx context.Context, n int) ([]PopularQuery, error)
}

// HistoryLimit caps the per-visitor query history length.
const HistoryLimit = 10

// PopularLimit is how many queries GetPopularSearches returns.
const PopularLimit = 5

// PushHistory prepends query to history, removing earlier duplicates and
// capping at HistoryLimit. In-memory HistoryStore implementations use it
// directly; the redis store expresses the same rules with list commands.
func PushHistory(history []string, query string) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, query)
	for _, past := range history {
		if past == query {
			continue
		}
		out = append(out, past)
	}
	if len(out) > HistoryLimit {
		out = out[:HistoryLimit]
	}
	return out
}
