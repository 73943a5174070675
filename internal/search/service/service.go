package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"portfolio_backend/internal/events"
	"portfolio_backend/internal/search/engine"
	"portfolio_backend/internal/search/transport"
	"portfolio_backend/platform/apperr"
	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

// Service executes one-shot searches over the catalog and serves history and
// popular-query reads. It shares the scoring and fetch path with the
// incremental engine.
type Service struct {
	source     engine.ContentSource
	history    engine.HistoryStore
	popularity engine.PopularityStore
	bus        events.Bus
	log        *logger.Logger
}

func New(source engine.ContentSource, history engine.HistoryStore, popularity engine.PopularityStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		source:     source,
		history:    history,
		popularity: popularity,
		bus:        bus,
		log:        log,
	}
}

func (s *Service) Search(ctx context.Context, req transport.SearchRequest, sessionKey string, lang i18n.Lang) (*transport.SearchResponse, error) {
	// Same trim-then-length rule as the incremental engine: too-short
	// queries yield empty results without a fetch or a history write.
	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) <= engine.MinQueryLength {
		return &transport.SearchResponse{Items: []transport.SearchResultItem{}, Total: 0}, nil
	}

	filters := engine.Filters{
		Type: engine.TypeFilter(req.Type),
		Sort: engine.SortMode(req.Sort),
	}
	if filters.Type == "" {
		filters.Type = engine.FilterAll
	}
	if filters.Sort == "" {
		filters.Sort = engine.SortRelevance
	}

	start := time.Now()
	results, err := engine.Run(ctx, s.source, query, filters, lang, s.log)
	if err != nil {
		appErr := apperr.Internal("search failed").WithOp("search.Search").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}
	s.log.SearchExecuted(query, string(filters.Type), len(results), float64(time.Since(start).Milliseconds()))

	s.recordQuery(ctx, sessionKey, query)
	if s.bus != nil {
		s.bus.Publish(ctx, events.SearchExecuted{
			BaseEvent:  events.NewBaseEvent(),
			Query:      query,
			TypeFilter: string(filters.Type),
			Results:    len(results),
		})
	}

	items := make([]transport.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = transport.SearchResultItem{
			ID:          r.ID,
			Type:        string(r.Kind),
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Score:       r.RelevanceScore,
		}
	}
	return &transport.SearchResponse{Items: items, Total: len(items)}, nil
}

// recordQuery is best-effort bookkeeping; a redis hiccup never fails the search.
func (s *Service) recordQuery(ctx context.Context, sessionKey, query string) {
	if s.history != nil && sessionKey != "" {
		if err := s.history.Record(ctx, sessionKey, query); err != nil {
			s.log.Warn("search_history_write_failed", "error", err.Error())
		}
	}
	if s.popularity != nil {
		if err := s.popularity.Increment(ctx, query); err != nil {
			s.log.Warn("search_popularity_write_failed", "error", err.Error())
		}
	}
}

func (s *Service) PopularSearches(ctx context.Context) (*transport.PopularSearchesResponse, error) {
	top, err := s.popularity.Top(ctx, engine.PopularLimit)
	if err != nil {
		appErr := apperr.Internal("popular searches unavailable").WithOp("search.PopularSearches").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}
	items := make([]transport.PopularSearchItem, len(top))
	for i, p := range top {
		items[i] = transport.PopularSearchItem{Query: p.Query, Count: p.Count}
	}
	return &transport.PopularSearchesResponse{Items: items}, nil
}

func (s *Service) History(ctx context.Context, sessionKey string) (*transport.HistoryResponse, error) {
	recent, err := s.history.Recent(ctx, sessionKey)
	if err != nil {
		appErr := apperr.Internal("search history unavailable").WithOp("search.History").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}
	if recent == nil {
		recent = []string{}
	}
	return &transport.HistoryResponse{Items: recent}, nil
}
