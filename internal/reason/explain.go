package reason

import (
	"strings"

	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/score"
)

const bullet = "• "

// Explain builds the rule-based reasoning text for a dispute and verdict.
// The output is a pure function of its inputs. Any verdict other than
// Plaintiff or Defendant uses the Neutral templates.
func Explain(d model.Dispute, v model.Verdict) string {
	text := score.Lower(d)
	caseType := Classify(d)
	branch := normalize(v)

	var lines []string
	lines = append(lines, "**Case Type:** "+caseType.Title(), "")
	lines = append(lines, "**Verdict:** "+string(v), "")

	lines = append(lines, "**Logical Analysis:**")
	lines = append(lines, analysisIntro[branch])
	lines = append(lines, logicalAnalysis(text, caseType, branch)...)
	lines = append(lines, "")

	lines = append(lines, "**Practical Consideration:**")
	for _, cs := range practicalTable[branch] {
		if cs.caseType != "" && cs.caseType != caseType {
			continue
		}
		if cs.sentence.applies(text) {
			lines = append(lines, cs.sentence.text)
		}
	}
	lines = append(lines, "")

	lines = append(lines, "**Conclusion:**")
	for _, s := range conclusionTable[branch] {
		if s.applies(text) {
			lines = append(lines, strings.ReplaceAll(s.text, "{case}", string(caseType)))
		}
	}

	return strings.Join(lines, "\n")
}

// collectFactors returns the factor sentences that hold for the case type,
// in table order
func collectFactors(text score.Text, caseType model.CaseType) []string {
	var out []string
	for _, f := range keyFactors[caseType] {
		if f.when(text) {
			out = append(out, f.text)
		}
	}
	return out
}

func logicalAnalysis(text score.Text, caseType model.CaseType, v model.Verdict) []string {
	factors := collectFactors(text, caseType)

	var lines []string
	if v == model.VerdictNeutral {
		if len(factors) == 0 {
			factors = neutralDefaults
		}
		if len(factors) > maxNeutralFactors {
			factors = factors[:maxNeutralFactors]
		}
		for _, f := range factors {
			lines = append(lines, bullet+f)
		}
		for _, c := range neutralClosing {
			lines = append(lines, bullet+c)
		}
		return lines
	}

	for _, f := range factors {
		if containsAny(strings.ToLower(f), factorFilter[v]...) {
			lines = append(lines, bullet+f)
		}
	}
	for _, s := range analysisTable[v][caseType] {
		if s.applies(text) {
			lines = append(lines, bullet+s.text)
		}
	}
	return lines
}

func normalize(v model.Verdict) model.Verdict {
	switch v {
	case model.VerdictPlaintiff, model.VerdictDefendant:
		return v
	default:
		return model.VerdictNeutral
	}
}
