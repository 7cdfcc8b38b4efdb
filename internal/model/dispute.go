package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingStatement is returned by Dispute.Validate when a required
// statement is empty after trimming.
var ErrMissingStatement = errors.New("both plaintiff and defendant statements are required")

// Dispute is the three free-text fields describing a two-party case.
type Dispute struct {
	Plaintiff string `json:"plaintiff" yaml:"plaintiff"`
	Defendant string `json:"defendant" yaml:"defendant"`
	Evidence  string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d Dispute) Trimmed() Dispute {
	return Dispute{
		Plaintiff: strings.TrimSpace(d.Plaintiff),
		Defendant: strings.TrimSpace(d.Defendant),
		Evidence:  strings.TrimSpace(d.Evidence),
	}
}

// Validate checks the caller-boundary requirements. The scorer itself
// accepts any input, including empty strings.
func (d Dispute) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Plaintiff) == "" {
		missing = append(missing, "plaintiff")
	}
	if strings.TrimSpace(d.Defendant) == "" {
		missing = append(missing, "defendant")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrMissingStatement, strings.Join(missing, ", "))
	}
	return nil
}

// Verdict is the predicted winner of a dispute
type Verdict string

const (
	VerdictPlaintiff Verdict = "Plaintiff"
	VerdictDefendant Verdict = "Defendant"
	VerdictNeutral   Verdict = "Neutral"
)

// ParseVerdict maps a label to a Verdict. Matching ignores case and
// surrounding whitespace; anything unrecognised is reported as !ok.
func ParseVerdict(s string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plaintiff":
		return VerdictPlaintiff, true
	case "defendant":
		return VerdictDefendant, true
	case "neutral":
		return VerdictNeutral, true
	default:
		return "", false
	}
}

// Confidence is a coarse label for the size of the score gap.
// It is not a calibrated probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// CaseType is the coarse category used to pick reasoning templates.
type CaseType string

const (
	CaseProperty CaseType = "property rights dispute"
	CaseContract CaseType = "contract or payment dispute"
	CaseTheft    CaseType = "theft or unauthorized taking"
	CaseDamage   CaseType = "product quality or damage dispute"
	CaseGeneral  CaseType = "general dispute"
)

// Title renders the case type in title case ("Property Rights Dispute").
// A Caser holds state, so each call gets its own.
func (c CaseType) Title() string {
	return cases.Title(language.English).String(string(c))
}
