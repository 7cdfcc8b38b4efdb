package reason

import (
	"strings"

	"github.com/ppiankov/verdict/internal/model"
)

// caseKeywords is tested in order; the first matching set wins.
var caseKeywords = []struct {
	caseType model.CaseType
	words    []string
}{
	{model.CaseProperty, []string{"property", "land", "house", "driveway", "garden", "tree"}},
	{model.CaseContract, []string{"paid", "payment", "contract", "agreement", "invoice", "receipt"}},
	{model.CaseTheft, []string{"stole", "took", "theft", "stolen", "taken", "missing", "gone"}},
	{model.CaseDamage, []string{"damaged", "broken", "defective", "poor quality", "unsatisfactory"}},
}

// analysisKeywords drives the multi-label Analyze view. Unlike Classify,
// every matching label is reported.
var analysisKeywords = []struct {
	caseType model.CaseType
	words    []string
}{
	{model.CaseProperty, []string{"property", "land", "house", "driveway"}},
	{model.CaseContract, []string{"paid", "payment", "contract", "money"}},
	{model.CaseTheft, []string{"stole", "theft", "took"}},
	{model.CaseDamage, []string{"damaged", "broken", "defective"}},
}

// complexWordCount is the word count above which a dispute is "high" complexity
const complexWordCount = 100

func combined(d model.Dispute) string {
	return strings.ToLower(d.Plaintiff + " " + d.Defendant + " " + d.Evidence)
}

// Classify returns the single case type used to select reasoning templates.
func Classify(d model.Dispute) model.CaseType {
	text := combined(d)
	for _, ck := range caseKeywords {
		if containsAny(text, ck.words...) {
			return ck.caseType
		}
	}
	return model.CaseGeneral
}

// Analyze reports every case type label present, whether usable evidence
// was supplied, and a coarse complexity.
func Analyze(d model.Dispute) model.Analysis {
	text := combined(d)

	var types []model.CaseType
	for _, ak := range analysisKeywords {
		if containsAny(text, ak.words...) {
			types = append(types, ak.caseType)
		}
	}
	if len(types) == 0 {
		types = append(types, model.CaseGeneral)
	}

	complexity := "medium"
	if len(strings.Fields(text)) > complexWordCount {
		complexity = "high"
	}

	return model.Analysis{
		CaseTypes:   types,
		HasEvidence: len(d.Evidence) > 10,
		Complexity:  complexity,
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
