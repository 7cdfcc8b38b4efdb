package score

import (
	"github.com/ppiankov/verdict/internal/model"
)

// HighConfidenceDiff is the smallest score gap reported as high confidence
const HighConfidenceDiff = 4

// Scorer turns a dispute into a verdict by running the rule table
type Scorer struct {
	rules []Rule
}

// NewScorer creates a scorer using the canonical rule table
func NewScorer() *Scorer {
	return &Scorer{rules: Rules}
}

// NewScorerWithRules creates a scorer with a custom table (used in tests)
func NewScorerWithRules(rules []Rule) *Scorer {
	return &Scorer{rules: rules}
}

// Calculate scores the dispute. It is total: any input, including empty
// strings, produces a defined result. Only effects marked Floor clamp at
// zero, so an admission of wrongdoing can leave the defendant negative.
func (s *Scorer) Calculate(d model.Dispute) model.Score {
	text := Lower(d)

	acc := map[model.Party]int{
		model.PartyPlaintiff: 0,
		model.PartyDefendant: 0,
	}
	var matches []model.RuleMatch

	for _, rule := range s.rules {
		for _, phrase := range rule.matches(text) {
			for _, eff := range rule.Effects {
				acc[eff.Party] += eff.Delta
				if eff.Floor && acc[eff.Party] < 0 {
					acc[eff.Party] = 0
				}
				matches = append(matches, model.RuleMatch{
					Rule:   rule.Name,
					Field:  rule.Field,
					Phrase: phrase,
					Party:  eff.Party,
					Delta:  eff.Delta,
				})
			}
		}
	}

	p := acc[model.PartyPlaintiff]
	df := acc[model.PartyDefendant]
	winner := decide(p, df)

	return model.Score{
		Winner:         winner,
		PlaintiffScore: p,
		DefendantScore: df,
		Diff:           absInt(p - df),
		Confidence:     determineConfidence(winner, absInt(p-df)),
		Matches:        matches,
	}
}

// decide picks the party with the larger score; ties are Neutral.
func decide(plaintiffScore, defendantScore int) model.Verdict {
	switch {
	case plaintiffScore > defendantScore:
		return model.VerdictPlaintiff
	case defendantScore > plaintiffScore:
		return model.VerdictDefendant
	default:
		return model.VerdictNeutral
	}
}

// determineConfidence maps the score gap to a confidence label
func determineConfidence(winner model.Verdict, diff int) model.Confidence {
	if winner == model.VerdictNeutral {
		return model.ConfidenceMedium
	}
	if diff >= HighConfidenceDiff {
		return model.ConfidenceHigh
	}
	return model.ConfidenceMedium
}

// Summary returns the one-sentence headline for a verdict
func Summary(v model.Verdict) string {
	switch v {
	case model.VerdictPlaintiff:
		return "The plaintiff's arguments appear stronger based on the evidence presented. " +
			"Their claims are better supported by documentation and reasoning."
	case model.VerdictDefendant:
		return "The defendant provides reasonable and well-supported justifications " +
			"that effectively counter the plaintiff's claims."
	default:
		return "Both parties have compelling points; additional evidence may be required " +
			"for a conclusive verdict."
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
