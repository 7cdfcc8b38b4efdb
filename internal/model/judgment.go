package model

import "time"

// Judgment is the complete record produced for one dispute
type Judgment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Dispute   Dispute   `json:"dispute"`

	Score    Score    `json:"score"`
	Summary  string   `json:"summary"`  // One-line headline for the winner
	Analysis Analysis `json:"analysis"` // Case type labels and complexity

	Reasoning *Reasoning `json:"reasoning,omitempty"`
}

// Party identifies which accumulator a rule affects
type Party string

const (
	PartyPlaintiff Party = "plaintiff"
	PartyDefendant Party = "defendant"
)

// Field names one of the three dispute statements
type Field string

const (
	FieldPlaintiff Field = "plaintiff"
	FieldDefendant Field = "defendant"
	FieldEvidence  Field = "evidence"
)

// Score is the transparent result of keyword scoring
type Score struct {
	Winner         Verdict     `json:"winner"`
	PlaintiffScore int         `json:"plaintiff_score"`
	DefendantScore int         `json:"defendant_score"`
	Diff           int         `json:"diff"`
	Confidence     Confidence  `json:"confidence"`
	Matches        []RuleMatch `json:"matches,omitempty"`
}

// RuleMatch records a single application of a scoring rule
type RuleMatch struct {
	Rule   string `json:"rule"`
	Field  Field  `json:"field"`
	Phrase string `json:"phrase"`
	Party  Party  `json:"party"`
	Delta  int    `json:"delta"`
}

// ReasoningPath names the component that produced a reasoning text
type ReasoningPath string

const (
	PathRuleBased  ReasoningPath = "rule_based"
	PathGenerative ReasoningPath = "generative"
)

// Reasoning is the prose justification plus where it came from.
// Callers must surface Provenance alongside Text.
type Reasoning struct {
	Text       string     `json:"reasoning"`
	Provenance Provenance `json:"provenance"`
}

// Provenance describes which path produced a reasoning text
type Provenance struct {
	Path     ReasoningPath `json:"path"`
	Model    string        `json:"model"`              // Human-readable label, e.g. "Rule-Based Reasoning"
	Fallback bool          `json:"fallback"`           // Generative path was attempted and failed
	Cached   bool          `json:"cached,omitempty"`   // Served from the reasoning cache
	Warnings []string      `json:"warnings,omitempty"` // Why the generative path was skipped
}

// Analysis is a multi-label description of the dispute
type Analysis struct {
	CaseTypes   []CaseType `json:"case_types"`
	HasEvidence bool       `json:"has_evidence"`
	Complexity  string     `json:"complexity"` // "high" or "medium"
}
