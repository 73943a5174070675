package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio_backend/platform/i18n"
)

type fakeSource struct {
	mu       sync.Mutex
	fetches  int
	records  map[Collection][]ContentRecord
	failing  map[Collection]error
	fetchGte chan struct{} // closed gates every fetch when non-nil
}

func (f *fakeSource) FetchCollection(ctx context.Context, c Collection) ([]ContentRecord, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.fetchGte != nil {
		<-f.fetchGte
	}
	if err := f.failing[c]; err != nil {
		return nil, err
	}
	return f.records[c], nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type memHistory struct {
	mu    sync.Mutex
	items map[string][]string
}

func (m *memHistory) Record(ctx context.Context, key, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string][]string{}
	}
	m.items[key] = PushHistory(m.items[key], query)
	return nil
}

func (m *memHistory) Recent(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.items[key]...), nil
}

type memPopularity struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memPopularity) Increment(ctx context.Context, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[query]++
	return nil
}

func (m *memPopularity) Top(ctx context.Context, limit int) ([]PopularQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PopularQuery
	for q, c := range m.counts {
		out = append(out, PopularQuery{Query: q, Count: c})
	}
	return out, nil
}

func catalogFixture() map[Collection][]ContentRecord {
	return map[Collection][]ContentRecord{
		CollectionProjects: {
			{ID: "p1", Kind: KindProject, Title: LocalizedText{EN: "Automation Suite"}, Description: LocalizedText{EN: "End to end workflows"}, Category: "automation"},
		},
		CollectionServices: {
			{ID: "s1", Kind: KindService, Title: LocalizedText{EN: "Automation Bot"}, Description: LocalizedText{EN: "Custom bots"}},
		},
		CollectionPosts: {
			{ID: "b1", Kind: KindPost, Title: LocalizedText{EN: "Automating everything"}, Approved: true},
			{ID: "b2", Kind: KindPost, Title: LocalizedText{EN: "Automation draft"}, Approved: false},
		},
	}
}

// published collects OnResults callbacks so tests can wait for publications.
type published struct {
	ch chan []Result
}

func newPublished() *published {
	return &published{ch: make(chan []Result, 16)}
}

func (p *published) callback(results []Result, visible bool) {
	p.ch <- results
}

func (p *published) wait(t *testing.T) []Result {
	t.Helper()
	select {
	case r := <-p.ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for results")
		return nil
	}
}

func newTestEngine(t *testing.T, src ContentSource, pub *published) *Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Config{
		Source:     src,
		History:    &memHistory{},
		Popularity: &memPopularity{},
		Lang:       i18n.English,
		HistoryKey: "visitor-1",
		Debounce:   20 * time.Millisecond,
		OnResults:  pub.callback,
	})
}

func TestEngineDebounceCollapsesKeystrokes(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.SetQuery("aut")
	e.SetQuery("auto")
	e.SetQuery("autom")

	results := pub.wait(t)
	if len(results) == 0 {
		t.Fatal("expected results for the final query")
	}
	// Three rapid keystrokes collapse to a single execution.
	if got := src.fetchCount(); got != 3 {
		t.Fatalf("fetch calls = %d, want 3 (one execution, three collections)", got)
	}
}

func TestEngineShortQueryClearsWithoutFetch(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.SetQuery("au")
	if results := pub.wait(t); results != nil {
		t.Fatalf("expected cleared results, got %v", results)
	}
	time.Sleep(60 * time.Millisecond)
	if got := src.fetchCount(); got != 0 {
		t.Fatalf("fetch calls = %d, want 0", got)
	}
	if _, visible := e.Results(); visible {
		t.Fatal("results panel should be hidden")
	}
}

func TestEngineShortQueryCancelsPendingSearch(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.SetQuery("automation")
	e.SetQuery("") // erased before the debounce fired

	if results := pub.wait(t); results != nil {
		t.Fatalf("expected cleared results, got %v", results)
	}
	time.Sleep(60 * time.Millisecond)
	if got := src.fetchCount(); got != 0 {
		t.Fatalf("fetch calls = %d, want 0", got)
	}
}

func TestEngineStaleExecutionNeverPublishes(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{records: catalogFixture(), fetchGte: gate}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.mu.Lock()
	e.query = "auto"
	e.mu.Unlock()
	e.Search() // first execution blocks on the gate

	e.SetQuery("automation") // supersedes it once the debounce fires

	// Wait until both executions have all three fetches in flight.
	deadline := time.Now().Add(2 * time.Second)
	for src.fetchCount() < 6 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for both executions to start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(gate)

	results := pub.wait(t)
	if len(results) == 0 {
		t.Fatal("winning execution should publish results")
	}
	select {
	case extra := <-pub.ch:
		t.Fatalf("stale execution published %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEngineUnapprovedPostsExcluded(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.SetQuery("automation")
	results := pub.wait(t)
	for _, r := range results {
		if r.ID == "b2" {
			t.Fatal("unapproved post leaked into results")
		}
	}
}

func TestEngineTypeFilter(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	e := newTestEngine(t, src, pub)

	e.SetFilters(Filters{Type: FilterService, Sort: SortRelevance})
	e.SetQuery("automation")

	results := pub.wait(t)
	if len(results) != 1 || results[0].Kind != KindService {
		t.Fatalf("results = %v, want only the service", results)
	}
}

func TestEngineRecordsHistoryAndPopularity(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	pub := newPublished()
	hist := &memHistory{}
	pop := &memPopularity{}
	ctx := context.Background()
	e := New(ctx, Config{
		Source:     src,
		History:    hist,
		Popularity: pop,
		Lang:       i18n.English,
		HistoryKey: "visitor-1",
		Debounce:   20 * time.Millisecond,
		OnResults:  pub.callback,
	})

	e.SetQuery("automation")
	pub.wait(t)
	e.SetQuery("bots")
	pub.wait(t)
	e.SetQuery("automation")
	pub.wait(t)

	recent, err := hist.Recent(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0] != "automation" || recent[1] != "bots" {
		t.Fatalf("history = %v, want [automation bots]", recent)
	}
	if pop.counts["automation"] != 2 {
		t.Fatalf("popularity[automation] = %d, want 2", pop.counts["automation"])
	}
}

func TestRunToleratesPartialFailure(t *testing.T) {
	src := &fakeSource{
		records: catalogFixture(),
		failing: map[Collection]error{CollectionPosts: errors.New("db down")},
	}
	results, err := Run(context.Background(), src, "automation", Filters{Type: FilterAll, Sort: SortRelevance}, i18n.English, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, r := range results {
		if r.Kind == KindPost {
			t.Fatal("failed collection should contribute no results")
		}
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
}

func TestRunFailsWhenAllCollectionsFail(t *testing.T) {
	boom := errors.New("db down")
	src := &fakeSource{failing: map[Collection]error{
		CollectionProjects: boom,
		CollectionServices: boom,
		CollectionPosts:    boom,
	}}
	if _, err := Run(context.Background(), src, "automation", Filters{Type: FilterAll, Sort: SortRelevance}, i18n.English, nil); err == nil {
		t.Fatal("expected error when every collection fails")
	}
}

func TestRunSortsByRelevanceThenTitle(t *testing.T) {
	src := &fakeSource{records: catalogFixture()}
	byScore, err := Run(context.Background(), src, "automation suite", Filters{Type: FilterAll, Sort: SortRelevance}, i18n.English, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(byScore); i++ {
		if byScore[i].RelevanceScore > byScore[i-1].RelevanceScore {
			t.Fatalf("results not sorted by score: %v", byScore)
		}
	}

	byTitle, err := Run(context.Background(), src, "automation", Filters{Type: FilterAll, Sort: SortTitle}, i18n.English, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(byTitle); i++ {
		if byTitle[i].Title < byTitle[i-1].Title {
			t.Fatalf("results not sorted by title: %v", byTitle)
		}
	}
}
