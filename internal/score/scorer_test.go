package score

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/verdict/internal/model"
)

func TestScorer_Calculate_PaymentDispute(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{
		Plaintiff: "I paid $500 for a laptop but never received it. I have the receipt.",
		Defendant: "I shipped the laptop.",
		Evidence:  "Receipt confirms payment",
	})

	if result.Winner != model.VerdictPlaintiff {
		t.Errorf("Expected Plaintiff, got %s", result.Winner)
	}
	if result.PlaintiffScore-result.DefendantScore < 5 {
		t.Errorf("Expected plaintiff lead >= 5, got P=%d D=%d", result.PlaintiffScore, result.DefendantScore)
	}
	if result.PlaintiffScore != 14 || result.DefendantScore != 3 {
		t.Errorf("Expected P=14 D=3, got P=%d D=%d", result.PlaintiffScore, result.DefendantScore)
	}
	if result.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}

	wantRules := []string{"paid_not_received", "plaintiff_receipt", "evidence_receipt", "fulfilled"}
	if diff := cmp.Diff(wantRules, ruleNames(result.Matches)); diff != "" {
		t.Errorf("matched rules mismatch (-want +got):\n%s", diff)
	}
}

func TestScorer_Calculate_PropertyDispute(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{
		Plaintiff: "The defendant refused to let me park in their driveway.",
		Defendant: "It's my private property and they never asked permission. I have the right to control access to my land.",
		Evidence:  "Property deed confirms defendant ownership",
	})

	if result.Winner != model.VerdictDefendant {
		t.Errorf("Expected Defendant, got %s", result.Winner)
	}
	if result.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if result.PlaintiffScore != 0 || result.DefendantScore != 22 {
		t.Errorf("Expected P=0 D=22, got P=%d D=%d", result.PlaintiffScore, result.DefendantScore)
	}
}

func TestScorer_Calculate_EmptyInput(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{})

	if result.Winner != model.VerdictNeutral {
		t.Errorf("Expected Neutral for empty input, got %s", result.Winner)
	}
	if result.PlaintiffScore != 0 || result.DefendantScore != 0 {
		t.Errorf("Expected 0/0 for empty input, got %d/%d", result.PlaintiffScore, result.DefendantScore)
	}
	if result.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence for Neutral, got %s", result.Confidence)
	}
	if len(result.Matches) != 0 {
		t.Errorf("Expected no matches, got %d", len(result.Matches))
	}
}

func TestScorer_Calculate_NonASCIIAndCase(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{
		Plaintiff: "Я ЗАПЛАТИЛ — I PAID but NEVER RECEIVED the goods ✓",
		Defendant: "日本語のテキスト",
	})

	if result.Winner != model.VerdictPlaintiff {
		t.Errorf("Expected upper-case phrases to match, got %s", result.Winner)
	}
	if result.PlaintiffScore != 7 {
		t.Errorf("Expected P=7, got %d", result.PlaintiffScore)
	}
}

func TestScorer_Calculate_ConfidenceBoundary(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name       string
		dispute    model.Dispute
		wantDiff   int
		wantWinner model.Verdict
		wantConf   model.Confidence
	}{
		{
			name:       "diff 4 is high",
			dispute:    model.Dispute{Plaintiff: "The laptop is defective", Defendant: "hello"},
			wantDiff:   4,
			wantWinner: model.VerdictPlaintiff,
			wantConf:   model.ConfidenceHigh,
		},
		{
			name:       "diff 3 is medium",
			dispute:    model.Dispute{Plaintiff: "hello", Defendant: "hello", Evidence: "bank statement"},
			wantDiff:   3,
			wantWinner: model.VerdictPlaintiff,
			wantConf:   model.ConfidenceMedium,
		},
		{
			name:       "diff 2 still picks a winner",
			dispute:    model.Dispute{Plaintiff: "hello", Defendant: "It was reasonable"},
			wantDiff:   2,
			wantWinner: model.VerdictDefendant,
			wantConf:   model.ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Calculate(tt.dispute)
			if result.Diff != tt.wantDiff {
				t.Errorf("Expected diff %d, got %d (P=%d D=%d)", tt.wantDiff, result.Diff, result.PlaintiffScore, result.DefendantScore)
			}
			if result.Winner != tt.wantWinner {
				t.Errorf("Expected winner %s, got %s", tt.wantWinner, result.Winner)
			}
			if result.Confidence != tt.wantConf {
				t.Errorf("Expected confidence %s, got %s", tt.wantConf, result.Confidence)
			}
		})
	}
}

func TestScorer_Calculate_SwapFlipsWinner(t *testing.T) {
	scorer := NewScorer()

	favoring := "This is my land and I have the deed."
	other := "Nothing to add."

	forward := scorer.Calculate(model.Dispute{Plaintiff: favoring, Defendant: other})
	swapped := scorer.Calculate(model.Dispute{Plaintiff: other, Defendant: favoring})

	if forward.Winner != model.VerdictPlaintiff {
		t.Errorf("Expected Plaintiff before swap, got %s", forward.Winner)
	}
	if swapped.Winner != model.VerdictDefendant {
		t.Errorf("Expected Defendant after swap, got %s", swapped.Winner)
	}
}

func TestScorer_Calculate_Deterministic(t *testing.T) {
	scorer := NewScorer()
	d := model.Dispute{
		Plaintiff: "They stole my bike and broke the lock. I have a video.",
		Defendant: "The bike was abandoned, taking it was lawful.",
		Evidence:  "Video recording confirms plaintiff ownership",
	}

	first := scorer.Calculate(d)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, scorer.Calculate(d)); diff != "" {
			t.Fatalf("non-deterministic result (-first +again):\n%s", diff)
		}
	}
}

func TestScorer_Calculate_NaturalOccurrenceFloorsPlaintiff(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{
		Plaintiff: "hello",
		Defendant: "The branch fell on the roof",
	})
	if result.PlaintiffScore != 0 || result.DefendantScore != 2 {
		t.Errorf("Expected P=0 D=2, got P=%d D=%d", result.PlaintiffScore, result.DefendantScore)
	}
	if result.Winner != model.VerdictDefendant || result.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected Defendant/medium, got %s/%s", result.Winner, result.Confidence)
	}
}

func TestScorer_Calculate_AdmittedWrongdoingIsNotFloored(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		defendant      string
		wantDefendant  int
		wantWinner     model.Verdict
		wantConfidence model.Confidence
	}{
		{"I broke it, but it was justified", -1, model.VerdictPlaintiff, model.ConfidenceMedium},
		{"I broke it and destroyed it", -6, model.VerdictPlaintiff, model.ConfidenceHigh},
	}
	for _, tt := range tests {
		result := scorer.Calculate(model.Dispute{Plaintiff: "hello", Defendant: tt.defendant})
		if result.PlaintiffScore != 0 || result.DefendantScore != tt.wantDefendant {
			t.Errorf("%q: expected P=0 D=%d, got P=%d D=%d",
				tt.defendant, tt.wantDefendant, result.PlaintiffScore, result.DefendantScore)
		}
		if result.Winner != tt.wantWinner || result.Confidence != tt.wantConfidence {
			t.Errorf("%q: expected %s/%s, got %s/%s",
				tt.defendant, tt.wantWinner, tt.wantConfidence, result.Winner, result.Confidence)
		}
		if result.Diff != -tt.wantDefendant {
			t.Errorf("%q: expected diff %d, got %d", tt.defendant, -tt.wantDefendant, result.Diff)
		}
	}
}

func TestScorer_Calculate_NaturalOccurrenceReducesPlaintiff(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Dispute{
		Plaintiff: "The laptop is defective",
		Defendant: "It was an accident",
	})
	if result.PlaintiffScore != 3 || result.DefendantScore != 2 {
		t.Errorf("Expected P=3 D=2, got P=%d D=%d", result.PlaintiffScore, result.DefendantScore)
	}
}

func TestScorer_Calculate_EachVersusAny(t *testing.T) {
	scorer := NewScorer()

	each := scorer.Calculate(model.Dispute{Plaintiff: "I have a video, a photo and a recording"})
	if each.PlaintiffScore != 6 {
		t.Errorf("Expected each-mode rule to fire 3 times (6 points), got %d", each.PlaintiffScore)
	}

	once := scorer.Calculate(model.Dispute{Plaintiff: "It arrived faulty and not working"})
	if once.PlaintiffScore != 4 {
		t.Errorf("Expected any-mode rule to fire once (4 points), got %d", once.PlaintiffScore)
	}
}

func TestScorer_Calculate_EvidenceConfirms(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		evidence      string
		wantPlaintiff int
		wantDefendant int
		wantRule      string
	}{
		{"Witness confirms plaintiff account", 4, 0, "evidence_confirms_plaintiff"},
		{"Title confirms ownership", 0, 3, "evidence_confirms_ownership"},
		{"Video confirms the story", 2, 0, "evidence_confirms_other"},
		{"Deed confirms defendant and plaintiff met", 0, 4, "evidence_confirms_defendant"},
		{"A deed exists", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.evidence, func(t *testing.T) {
			result := scorer.Calculate(model.Dispute{Plaintiff: "x", Defendant: "y", Evidence: tt.evidence})
			if result.PlaintiffScore != tt.wantPlaintiff || result.DefendantScore != tt.wantDefendant {
				t.Errorf("Expected P=%d D=%d, got P=%d D=%d", tt.wantPlaintiff, tt.wantDefendant,
					result.PlaintiffScore, result.DefendantScore)
			}
			if tt.wantRule != "" && !hasRule(result.Matches, tt.wantRule) {
				t.Errorf("Expected rule %s to fire, got %v", tt.wantRule, ruleNames(result.Matches))
			}
		})
	}
}

func TestScorer_Calculate_Refused(t *testing.T) {
	scorer := NewScorer()

	other := scorer.Calculate(model.Dispute{Plaintiff: "They refused to refund me", Defendant: "It is my policy"})
	if other.PlaintiffScore != 2 || other.DefendantScore != 0 {
		t.Errorf("Expected refusal to favor plaintiff, got P=%d D=%d", other.PlaintiffScore, other.DefendantScore)
	}

	owner := scorer.Calculate(model.Dispute{Plaintiff: "They refused to let me in", Defendant: "That is private property"})
	if owner.DefendantScore != 9 || owner.PlaintiffScore != 0 {
		t.Errorf("Expected refusal on own property to favor defendant, got P=%d D=%d", owner.PlaintiffScore, owner.DefendantScore)
	}
}

func TestRules_TableIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range Rules {
		if rule.Name == "" {
			t.Error("rule with empty name")
		}
		if seen[rule.Name] {
			t.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = true

		if len(rule.Phrases) == 0 {
			t.Errorf("rule %s has no phrases", rule.Name)
		}
		if len(rule.Effects) == 0 {
			t.Errorf("rule %s has no effects", rule.Name)
		}
		for _, p := range rule.Phrases {
			if p != Lower(model.Dispute{Plaintiff: p}).Plaintiff {
				t.Errorf("rule %s phrase %q must be lower-case", rule.Name, p)
			}
		}
	}
}

func TestRules_EachCategoryInIsolation(t *testing.T) {
	for _, rule := range Rules {
		t.Run(rule.Name, func(t *testing.T) {
			scorer := NewScorerWithRules([]Rule{rule})
			result := scorer.Calculate(model.Dispute{})
			if len(result.Matches) != 0 {
				t.Errorf("rule %s fired on empty input", rule.Name)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	for _, v := range []model.Verdict{model.VerdictPlaintiff, model.VerdictDefendant, model.VerdictNeutral} {
		if Summary(v) == "" {
			t.Errorf("empty summary for %s", v)
		}
	}
}

func ruleNames(matches []model.RuleMatch) []string {
	var names []string
	for _, m := range matches {
		names = append(names, m.Rule)
	}
	return names
}

func hasRule(matches []model.RuleMatch, name string) bool {
	for _, m := range matches {
		if m.Rule == name {
			return true
		}
	}
	return false
}
