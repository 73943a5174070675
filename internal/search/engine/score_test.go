package engine

import (
	"testing"

	"portfolio_backend/platform/i18n"
)

func project(title, desc, category string) ContentRecord {
	return ContentRecord{
		Kind:        KindProject,
		Title:       LocalizedText{EN: title},
		Description: LocalizedText{EN: desc},
		Category:    category,
	}
}

func service(title, desc string) ContentRecord {
	return ContentRecord{
		Kind:        KindService,
		Title:       LocalizedText{EN: title},
		Description: LocalizedText{EN: desc},
	}
}

func TestScoreSubstringAndWordOverlap(t *testing.T) {
	// "auto" is a substring of the title (weight 3*10) and overlaps one
	// title word pair-wise (3*2).
	rec := project("Automation Suite", "Workflow tooling", "automation")
	got := Score("auto", rec, i18n.English)
	// Category also contains "auto": substring 1*10 plus one word pair 1*2.
	want := 30 + 6 + 10 + 2
	if got != want {
		t.Fatalf("Score = %d, want %d", got, want)
	}
}

func TestScoreWordPairsWithoutSubstring(t *testing.T) {
	// Full query "auto bot" never appears contiguously, but both query
	// words are contained in title words.
	rec := service("Automation Bot", "")
	got := Score("auto bot", rec, i18n.English)
	// Two (query word, field word) containment pairs on field 0 of 2.
	want := 2*2 + 2*2
	if got != want {
		t.Fatalf("Score = %d, want %d", got, want)
	}
}

func TestScoreFieldOrderWeighting(t *testing.T) {
	inTitle := Score("bot", service("Bot Building", ""), i18n.English)
	inDesc := Score("bot", service("Consulting", "Bot building"), i18n.English)
	if inTitle <= inDesc {
		t.Fatalf("title match (%d) should outrank description match (%d)", inTitle, inDesc)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	rec := service("AUTOMATION", "")
	if Score("automation", rec, i18n.English) == 0 {
		t.Fatal("expected case-insensitive match")
	}
}

func TestScoreNoMatch(t *testing.T) {
	rec := project("Portfolio Site", "Static pages", "web")
	if got := Score("blockchain", rec, i18n.English); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestScoreArabicFields(t *testing.T) {
	rec := ContentRecord{
		Kind:        KindService,
		Title:       LocalizedText{EN: "Automation", AR: "أتمتة الأعمال"},
		Description: LocalizedText{EN: "Workflows", AR: "سير العمل"},
	}
	if Score("أتمتة", rec, i18n.Arabic) == 0 {
		t.Fatal("expected match against Arabic title")
	}
	if Score("أتمتة", rec, i18n.English) != 0 {
		t.Fatal("English session should not match Arabic-only text")
	}
}

func TestPushHistoryDedupeAndCap(t *testing.T) {
	var h []string
	h = PushHistory(h, "automation")
	h = PushHistory(h, "bot")
	h = PushHistory(h, "automation")

	if len(h) != 2 {
		t.Fatalf("len = %d, want 2", len(h))
	}
	if h[0] != "automation" || h[1] != "bot" {
		t.Fatalf("history = %v, want [automation bot]", h)
	}

	for i := 0; i < HistoryLimit+5; i++ {
		h = PushHistory(h, string(rune('a'+i)))
	}
	if len(h) != HistoryLimit {
		t.Fatalf("len = %d, want %d", len(h), HistoryLimit)
	}
}
