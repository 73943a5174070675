package service

import (
	"context"
	"sync"
	"testing"

	"portfolio_backend/internal/search/engine"
	"portfolio_backend/internal/search/transport"
	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

type fakeSource struct {
	mu      sync.Mutex
	fetches int
	records map[engine.Collection][]engine.ContentRecord
}

func (f *fakeSource) FetchCollection(ctx context.Context, c engine.Collection) ([]engine.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
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
	m.items[key] = engine.PushHistory(m.items[key], query)
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

func (m *memPopularity) Top(ctx context.Context, limit int) ([]engine.PopularQuery, error) {
	return nil, nil
}

func newTestService(src *fakeSource, hist *memHistory, pop *memPopularity) *Service {
	return New(src, hist, pop, nil, logger.New("development"))
}

func TestSearchPaddedShortQuerySkipsFetchAndRecording(t *testing.T) {
	src := &fakeSource{records: map[engine.Collection][]engine.ContentRecord{
		engine.CollectionProjects: {{
			ID:    "p1",
			Kind:  engine.KindProject,
			Title: engine.LocalizedText{EN: "Automation Suite"},
		}},
	}}
	hist := &memHistory{}
	pop := &memPopularity{}
	svc := newTestService(src, hist, pop)

	// 3 runes raw, 1 after trimming: must behave like a short query.
	resp, err := svc.Search(context.Background(), transport.SearchRequest{Query: " a "}, "visitor-1", i18n.English)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 || len(resp.Items) != 0 {
		t.Fatalf("short query returned %d results, want 0", resp.Total)
	}
	if got := src.fetchCount(); got != 0 {
		t.Fatalf("short query fetched %d collections, want 0", got)
	}
	if recent, _ := hist.Recent(context.Background(), "visitor-1"); len(recent) != 0 {
		t.Fatalf("short query wrote history %v", recent)
	}
	if len(pop.counts) != 0 {
		t.Fatalf("short query bumped popularity %v", pop.counts)
	}
}

func TestSearchRecordsTrimmedQuery(t *testing.T) {
	src := &fakeSource{records: map[engine.Collection][]engine.ContentRecord{
		engine.CollectionProjects: {{
			ID:    "p1",
			Kind:  engine.KindProject,
			Title: engine.LocalizedText{EN: "Automation Suite"},
		}},
	}}
	hist := &memHistory{}
	pop := &memPopularity{}
	svc := newTestService(src, hist, pop)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{Query: "  automation  "}, "visitor-1", i18n.English)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, want 1", resp.Total)
	}
	recent, _ := hist.Recent(context.Background(), "visitor-1")
	if len(recent) != 1 || recent[0] != "automation" {
		t.Fatalf("history = %v, want [automation]", recent)
	}
	if pop.counts["automation"] != 1 {
		t.Fatalf("popularity = %v, want automation:1", pop.counts)
	}
}
