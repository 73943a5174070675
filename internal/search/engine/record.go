// Package engine implements the relevance search core: scoring heterogeneous
// content records against a free-text query, debounced incremental execution,
// and query history/popularity bookkeeping.
package engine

import "portfolio_backend/platform/i18n"

// Kind identifies which content collection a record belongs to.
type Kind string

const (
	KindProject Kind = "project"
	KindService Kind = "service"
	KindPost    Kind = "post"
)

// Collection names the three searchable collections of the content store.
type Collection string

const (
	CollectionProjects Collection = "projects"
	CollectionServices Collection = "services"
	CollectionPosts    Collection = "posts"
)

// LocalizedText is a bilingual string pair.
type LocalizedText struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// Get returns the text for the given language, falling back to English.
func (t LocalizedText) Get(lang i18n.Lang) string {
	if lang == i18n.Arabic && t.AR != "" {
		return t.AR
	}
	return t.EN
}

// ContentRecord is a read-only snapshot of one searchable record. The engine
// never mutates records; they are fetched fresh per search.
type ContentRecord struct {
	ID          string
	Kind        Kind
	Title       LocalizedText
	Description LocalizedText
	Category    string
	Approved    bool
}

// Result is one ranked search hit. Results are created per query execution
// and discarded after render; they are never persisted.
type Result struct {
	ID             string `json:"id"`
	Kind           Kind   `json:"kind"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Category       string `json:"category,omitempty"`
	RelevanceScore int    `json:"relevanceScore"`
}

// TypeFilter restricts results to one collection, or none.
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterProject TypeFilter = "project"
	FilterService TypeFilter = "service"
	FilterPost    TypeFilter = "post"
)

// Matches reports whether a record kind passes the filter.
func (f TypeFilter) Matches(kind Kind) bool {
	switch f {
	case FilterProject:
		return kind == KindProject
	case FilterService:
		return kind == KindService
	case FilterPost:
		return kind == KindPost
	default:
		return true
	}
}

// SortMode orders the published result list.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortTitle     SortMode = "title"
)

// Filters bundles the user-adjustable result constraints.
type Filters struct {
	Type TypeFilter
	Sort SortMode
}

// PopularQuery is a query string with its executed-search count.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
