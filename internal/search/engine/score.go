package engine

import (
	"strings"

	"portfolio_backend/platform/i18n"
)

// searchFields returns a record's searchable fields in ranking order for the
// given language. Projects expose [title, description, category]; services
// and posts expose [title, description] (posts carry no category).
func searchFields(rec ContentRecord, lang i18n.Lang) []string {
	switch rec.Kind {
	case KindProject:
		return []string{rec.Title.Get(lang), rec.Description.Get(lang), rec.Category}
	default:
		return []string{rec.Title.Get(lang), rec.Description.Get(lang)}
	}
}

// Score computes the relevance of a record against a query.
//
// Both branches are additive, per field index i with n total fields:
//   - the field containing the full lowercased query as a substring
//     contributes (n-i)*10;
//   - every (query word, field word) pair where one contains the other
//     contributes (n-i)*2.
//
// A record qualifies only when the final score is positive.
func Score(query string, rec ContentRecord, lang i18n.Lang) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	fields := searchFields(rec, lang)
	n := len(fields)
	queryWords := strings.Fields(q)

	score := 0
	for i, field := range fields {
		lowered := strings.ToLower(field)
		if lowered == "" {
			continue
		}

		weight := n - i
		if strings.Contains(lowered, q) {
			score += weight * 10
		}

		for _, fieldWord := range strings.Fields(lowered) {
			for _, queryWord := range queryWords {
				if strings.Contains(fieldWord, queryWord) || strings.Contains(queryWord, fieldWord) {
					score += weight * 2
				}
			}
		}
	}

	return score
}
