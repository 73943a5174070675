package store

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/search/engine"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb)
}

func TestHistoryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, "v1", "automation"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, "v1", "bots"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, "v1", "automation"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Recent(ctx, "v1")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0] != "automation" || got[1] != "bots" {
		t.Fatalf("history = %v, want [automation bots]", got)
	}
}

func TestHistoryIsolatedPerVisitor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, "v1", "automation"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := s.Recent(ctx, "v2")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("v2 history = %v, want empty", got)
	}
}

func TestHistoryCap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	queries := []string{"aaa", "bbb", "ccc", "ddd", "eee", "fff", "ggg", "hhh", "iii", "jjj", "kkk", "lll"}
	for _, q := range queries {
		if err := s.Record(ctx, "v1", q); err != nil {
			t.Fatalf("Record(%q): %v", q, err)
		}
	}

	got, err := s.Recent(ctx, "v1")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != engine.HistoryLimit {
		t.Fatalf("len = %d, want %d", len(got), engine.HistoryLimit)
	}
	if got[0] != "lll" {
		t.Fatalf("got[0] = %q, want the most recent query first", got[0])
	}
}

func TestPopularityOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bump := func(q string, n int) {
		for i := 0; i < n; i++ {
			if err := s.Increment(ctx, q); err != nil {
				t.Fatalf("Increment(%q): %v", q, err)
			}
		}
	}
	bump("automation", 5)
	bump("bots", 3)
	bump("api", 3)
	bump("design", 1)

	top, err := s.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	want := []engine.PopularQuery{
		{Query: "automation", Count: 5},
		{Query: "api", Count: 3},
		{Query: "bots", Count: 3},
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("top[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}
}

func TestPopularityWideTieGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Ten queries tied at one execution each; the lexicographically smallest
	// must win the cut no matter how redis orders the tie internally.
	tied := []string{"zeta", "yak", "xray", "wolf", "vine", "umber", "tango", "sigma", "rho", "pi"}
	for _, q := range tied {
		if err := s.Increment(ctx, q); err != nil {
			t.Fatalf("Increment(%q): %v", q, err)
		}
	}

	top, err := s.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []engine.PopularQuery{
		{Query: "pi", Count: 1},
		{Query: "rho", Count: 1},
	}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("top[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}
}

func TestHistoryConcurrentRecordsAllSurvive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	queries := []string{"automation", "bots", "api", "design"}
	for _, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Record(ctx, "v1", q); err != nil {
				t.Errorf("Record(%q): %v", q, err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Recent(ctx, "v1")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != len(queries) {
		t.Fatalf("history = %v, want all %d queries present", got, len(queries))
	}
	seen := map[string]bool{}
	for _, q := range got {
		seen[q] = true
	}
	for _, q := range queries {
		if !seen[q] {
			t.Fatalf("history = %v, missing %q", got, q)
		}
	}
}

func TestPopularityEmpty(t *testing.T) {
	s := newTestStore(t)
	top, err := s.Top(context.Background(), engine.PopularLimit)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("top = %v, want empty", top)
	}
}
