package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// scheduled search executes.
const DefaultDebounce = 300 * time.Millisecond

// MinQueryLength is the shortest query (in runes, exclusive) that triggers a
// search. Anything at or below it clears results without a fetch.
const MinQueryLength = 2

// Config wires an Engine's collaborators. Language and identity are passed
// explicitly; the engine has no ambient context.
type Config struct {
	Source     ContentSource
	History    HistoryStore
	Popularity PopularityStore
	Lang       i18n.Lang
	// HistoryKey scopes query history to one visitor.
	HistoryKey string
	Log        *logger.Logger
	// Debounce overrides DefaultDebounce (tests use a short period).
	Debounce time.Duration
	// OnResults is invoked with every published result list, including the
	// empty list when results are cleared. May be nil.
	OnResults func(results []Result, visible bool)
}

// Engine drives incremental search for a single visitor session: debounced
// triggering, last-call-started-wins publication, and history/popularity
// bookkeeping. Safe for concurrent use.
type Engine struct {
	source     ContentSource
	history    HistoryStore
	popularity PopularityStore
	lang       i18n.Lang
	historyKey string
	log        *logger.Logger
	debounce   time.Duration
	onResults  func([]Result, bool)

	// ctx bounds background executions started by the debounce timer; it is
	// the owning session's lifetime, not a per-call context.
	ctx context.Context

	mu      sync.Mutex
	query   string
	filters Filters
	timer   *time.Timer
	// seq tags each started execution; a completion whose tag no longer
	// matches has been superseded and must not publish.
	seq     uint64
	results []Result
	visible bool
}

// New creates an Engine bound to the given session context.
func New(ctx context.Context, cfg Config) *Engine {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Engine{
		source:     cfg.Source,
		history:    cfg.History,
		popularity: cfg.Popularity,
		lang:       cfg.Lang,
		historyKey: cfg.HistoryKey,
		log:        cfg.Log,
		debounce:   debounce,
		onResults:  cfg.OnResults,
		ctx:        ctx,
		filters:    Filters{Type: FilterAll, Sort: SortRelevance},
	}
}

// SetQuery updates the pending query string. Queries longer than
// MinQueryLength (after trimming) schedule a debounced execution; shorter
// ones immediately clear results and hide the panel without any fetch or
// history write.
func (e *Engine) SetQuery(text string) {
	trimmed := strings.TrimSpace(text)

	e.mu.Lock()
	e.query = trimmed
	if utf8.RuneCountInString(trimmed) <= MinQueryLength {
		e.stopTimerLocked()
		e.seq++ // supersede any in-flight execution
		e.results = nil
		e.visible = false
		publish := e.onResults
		e.mu.Unlock()
		if publish != nil {
			publish(nil, false)
		}
		return
	}
	e.armTimerLocked()
	e.mu.Unlock()
}

// SetFilters updates the type filter and sort mode. A change while a query
// is active re-triggers search through the same debounce path.
func (e *Engine) SetFilters(f Filters) {
	if f.Type == "" {
		f.Type = FilterAll
	}
	if f.Sort == "" {
		f.Sort = SortRelevance
	}

	e.mu.Lock()
	e.filters = f
	if utf8.RuneCountInString(e.query) > MinQueryLength {
		e.armTimerLocked()
	}
	e.mu.Unlock()
}

// Search schedules an immediate asynchronous execution, bypassing the
// debounce delay. The publication guard still applies.
func (e *Engine) Search() {
	e.mu.Lock()
	e.stopTimerLocked()
	e.mu.Unlock()
	go e.execute()
}

// Results returns the currently published result list and whether the
// results panel is visible.
func (e *Engine) Results() ([]Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Result, len(e.results))
	copy(out, e.results)
	return out, e.visible
}

// GetPopularSearches returns the top queries by executed-search count.
func (e *Engine) GetPopularSearches(ctx context.Context) ([]PopularQuery, error) {
	if e.popularity == nil {
		return nil, nil
	}
	return e.popularity.Top(ctx, PopularLimit)
}

// History returns this visitor's recent queries, most recent first.
func (e *Engine) History(ctx context.Context) ([]string, error) {
	if e.history == nil {
		return nil, nil
	}
	return e.history.Recent(ctx, e.historyKey)
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) armTimerLocked() {
	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.debounce, func() {
		e.execute()
	})
}

func (e *Engine) execute() {
	e.mu.Lock()
	query := e.query
	filters := e.filters
	e.seq++
	mySeq := e.seq
	e.mu.Unlock()

	if utf8.RuneCountInString(query) <= MinQueryLength {
		return
	}

	results, err := Run(e.ctx, e.source, query, filters, e.lang, e.log)
	if err != nil {
		// Every collection failed; keep whatever is currently visible.
		return
	}

	e.mu.Lock()
	if mySeq != e.seq {
		// A newer execution started while this one was fetching.
		e.mu.Unlock()
		return
	}
	e.results = results
	e.visible = true
	publish := e.onResults
	e.mu.Unlock()

	if publish != nil {
		publish(results, true)
	}

	e.recordQuery(query)
}

// recordQuery pushes the executed query to history and bumps its popularity
// counter. Both writes are best-effort; failures never surface to the UI.
func (e *Engine) recordQuery(query string) {
	ctx := e.ctx
	if e.history != nil {
		if err := e.history.Record(ctx, e.historyKey, query); err != nil && e.log != nil {
			e.log.Warn("search_history_write_failed", "error", err.Error())
		}
	}
	if e.popularity != nil {
		if err := e.popularity.Increment(ctx, query); err != nil && e.log != nil {
			e.log.Warn("search_popularity_write_failed", "error", err.Error())
		}
	}
}

// Run executes one search: fetches the three collections in parallel, scores
// every candidate, keeps positive scores, applies the type filter, and sorts.
// A failed collection contributes nothing (logged, not surfaced); Run returns
// an error only when every collection failed.
func Run(ctx context.Context, source ContentSource, query string, filters Filters, lang i18n.Lang, log *logger.Logger) ([]Result, error) {
	collections := []Collection{CollectionProjects, CollectionServices, CollectionPosts}
	fetched := make([][]ContentRecord, len(collections))
	errs := make([]error, len(collections))

	var g errgroup.Group
	for i, name := range collections {
		g.Go(func() error {
			records, err := source.FetchCollection(ctx, name)
			if err != nil {
				errs[i] = err
				return nil
			}
			fetched[i] = records
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		failures++
		if firstErr == nil {
			firstErr = err
		}
		if log != nil {
			log.Warn("search_collection_fetch_failed",
				"collection", string(collections[i]),
				"error", err.Error(),
			)
		}
	}
	if failures == len(collections) {
		return nil, firstErr
	}

	var results []Result
	for _, records := range fetched {
		for _, rec := range records {
			if rec.Kind == KindPost && !rec.Approved {
				continue
			}
			if !filters.Type.Matches(rec.Kind) {
				continue
			}
			score := Score(query, rec, lang)
			if score <= 0 {
				continue
			}
			results = append(results, Result{
				ID:             rec.ID,
				Kind:           rec.Kind,
				Title:          rec.Title.Get(lang),
				Description:    rec.Description.Get(lang),
				Category:       rec.Category,
				RelevanceScore: score,
			})
		}
	}

	sortResults(results, filters.Sort)
	return results, nil
}

func sortResults(results []Result, mode SortMode) {
	switch mode {
	case SortTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RelevanceScore > results[j].RelevanceScore
		})
	}
}
