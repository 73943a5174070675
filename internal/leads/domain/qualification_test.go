package domain

import "testing"

func TestNewQualificationHotLeadThreshold(t *testing.T) {
	for score := 0; score <= 100; score++ {
		q := NewQualification(score, "", Contact{})
		wantHot := score >= HotLeadThreshold
		if q.IsHotLead != wantHot {
			t.Fatalf("score %d: IsHotLead = %v, want %v", score, q.IsHotLead, wantHot)
		}
		if q.PurchaseIntentScore != score {
			t.Fatalf("score %d clamped to %d unexpectedly", score, q.PurchaseIntentScore)
		}
	}
}

func TestNewQualificationClamps(t *testing.T) {
	if q := NewQualification(-10, "", Contact{}); q.PurchaseIntentScore != 0 || q.IsHotLead {
		t.Fatalf("negative score: got %+v", q)
	}
	if q := NewQualification(250, "", Contact{}); q.PurchaseIntentScore != 100 || !q.IsHotLead {
		t.Fatalf("oversized score: got %+v", q)
	}
}
