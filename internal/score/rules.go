package score

import (
	"strings"

	"github.com/ppiankov/verdict/internal/model"
)

// MatchMode controls how many times a rule fires
type MatchMode int

const (
	// MatchAny applies the effects once if any phrase is present
	MatchAny MatchMode = iota
	// MatchEach applies the effects once per phrase present
	MatchEach
)

// Effect is a signed adjustment to one accumulator. Floor clamps the
// accumulator at zero after the adjustment.
type Effect struct {
	Party model.Party
	Delta int
	Floor bool
}

// Text holds the lower-cased dispute fields that rules test against
type Text struct {
	Plaintiff string
	Defendant string
	Evidence  string
}

// Lower builds the lower-cased view of a dispute
func Lower(d model.Dispute) Text {
	return Text{
		Plaintiff: strings.ToLower(d.Plaintiff),
		Defendant: strings.ToLower(d.Defendant),
		Evidence:  strings.ToLower(d.Evidence),
	}
}

// Get returns the lower-cased text of a field
func (t Text) Get(f model.Field) string {
	switch f {
	case model.FieldPlaintiff:
		return t.Plaintiff
	case model.FieldDefendant:
		return t.Defendant
	case model.FieldEvidence:
		return t.Evidence
	default:
		return ""
	}
}

// Rule is one row of the scoring table: a phrase list tested against a
// single field, an optional guard over all fields, and the effects applied
// when it matches.
type Rule struct {
	Name    string
	Field   model.Field
	Phrases []string
	Mode    MatchMode
	Guard   func(t Text) bool
	Effects []Effect
}

// matches returns the phrases of the rule present in t, honoring the mode.
// A rule whose guard rejects the input matches nothing.
func (r Rule) matches(t Text) []string {
	if r.Guard != nil && !r.Guard(t) {
		return nil
	}

	text := t.Get(r.Field)
	var found []string
	for _, phrase := range r.Phrases {
		if !strings.Contains(text, phrase) {
			continue
		}
		found = append(found, phrase)
		if r.Mode == MatchAny {
			break
		}
	}
	return found
}

func plaintiff(delta int) Effect { return Effect{Party: model.PartyPlaintiff, Delta: delta} }
func defendant(delta int) Effect { return Effect{Party: model.PartyDefendant, Delta: delta} }

func floored(e Effect) Effect {
	e.Floor = true
	return e
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

var (
	ownershipPhrases = []string{"my property", "private property", "my land", "my house",
		"my driveway", "my garden", "i own", "ownership"}
	plaintiffOwnershipPhrases = []string{"my property", "my land", "my tree", "i planted", "my garden"}
	noPermissionPhrases       = []string{"without permission", "never asked", "didnt ask", "didn't ask",
		"no permission", "unauthorized", "trespassing"}
	hasPermissionPhrases  = []string{"gave permission", "granted access", "invited", "allowed"}
	propertyRightPhrases  = []string{"right to control", "have the right", "my right", "control access"}
	notReceivedPhrases    = []string{"never received", "not delivered", "didnt receive"}
	receiptPhrases        = []string{"receipt", "proof of payment", "bank statement", "transaction"}
	fulfilledPhrases      = []string{"delivered", "shipped", "sent", "provided", "fulfilled"}
	breachPhrases         = []string{"breach", "violated", "failed to", "didnt deliver", "didn't deliver"}
	strongEvidencePhrases = []string{"deed", "title", "contract", "signed agreement", "witness",
		"video", "photo", "recording", "document"}
	wrongdoingPhrases = []string{"stole", "theft", "fraud", "illegal", "broke", "damaged",
		"destroyed", "harmed", "assault"}
	defensePhrases = []string{"justified", "reasonable", "necessary", "legal", "lawful",
		"within my rights", "entitled", "authorized"}
	qualityPhrases = []string{"defective", "broken", "damaged", "poor quality", "unsatisfactory",
		"not working", "faulty", "malfunctioned"}
	disclaimerPhrases = []string{"as-is", "no warranty", "buyer beware"}
	naturalPhrases    = []string{"fell on", "fell into", "blew onto", "naturally", "accident"}
)

// Guards for evidence that "confirms" something. They are mutually
// exclusive and tried in the order listed in the table.
func confirmsDefendant(t Text) bool {
	return strings.Contains(t.Evidence, "confirms") && strings.Contains(t.Evidence, "defendant")
}

func confirmsPlaintiff(t Text) bool {
	return strings.Contains(t.Evidence, "confirms") && !strings.Contains(t.Evidence, "defendant") &&
		strings.Contains(t.Evidence, "plaintiff")
}

func confirmsUnnamed(t Text) bool {
	return strings.Contains(t.Evidence, "confirms") && !strings.Contains(t.Evidence, "defendant") &&
		!strings.Contains(t.Evidence, "plaintiff")
}

func confirmsOwnership(t Text) bool {
	return confirmsUnnamed(t) && containsAny(t.Evidence, "ownership", "property")
}

func confirmsOther(t Text) bool {
	return confirmsUnnamed(t) && !containsAny(t.Evidence, "ownership", "property")
}

func refusalIsOwnersRight(t Text) bool {
	return containsAny(t.Defendant, "property", "permission")
}

// Rules is the canonical scoring table, applied in order.
var Rules = []Rule{
	// Property rights
	{Name: "defendant_ownership", Field: model.FieldDefendant, Phrases: ownershipPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(6)}},
	{Name: "plaintiff_ownership", Field: model.FieldPlaintiff, Phrases: plaintiffOwnershipPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(4)}},
	{Name: "no_permission", Field: model.FieldDefendant, Phrases: noPermissionPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(5)}},
	{Name: "has_permission", Field: model.FieldPlaintiff, Phrases: hasPermissionPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(3)}},
	{Name: "property_rights", Field: model.FieldDefendant, Phrases: propertyRightPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(4)}},

	// Payment and contract
	{Name: "paid_not_received", Field: model.FieldPlaintiff, Phrases: notReceivedPhrases, Mode: MatchAny,
		Guard:   func(t Text) bool { return strings.Contains(t.Plaintiff, "paid") },
		Effects: []Effect{plaintiff(7)}},
	{Name: "plaintiff_receipt", Field: model.FieldPlaintiff, Phrases: receiptPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(4)}},
	{Name: "evidence_receipt", Field: model.FieldEvidence, Phrases: receiptPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(3)}},
	{Name: "fulfilled", Field: model.FieldDefendant, Phrases: fulfilledPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(3)}},
	{Name: "breach", Field: model.FieldPlaintiff, Phrases: breachPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(5)}},

	// Documentary evidence
	{Name: "plaintiff_strong_evidence", Field: model.FieldPlaintiff, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Effects: []Effect{plaintiff(2)}},
	{Name: "defendant_strong_evidence", Field: model.FieldDefendant, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Effects: []Effect{defendant(2)}},
	{Name: "evidence_confirms_defendant", Field: model.FieldEvidence, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Guard: confirmsDefendant, Effects: []Effect{defendant(4)}},
	{Name: "evidence_confirms_plaintiff", Field: model.FieldEvidence, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Guard: confirmsPlaintiff, Effects: []Effect{plaintiff(4)}},
	{Name: "evidence_confirms_ownership", Field: model.FieldEvidence, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Guard: confirmsOwnership, Effects: []Effect{defendant(3)}},
	{Name: "evidence_confirms_other", Field: model.FieldEvidence, Phrases: strongEvidencePhrases, Mode: MatchEach,
		Guard: confirmsOther, Effects: []Effect{plaintiff(2)}},

	// Wrongdoing
	{Name: "plaintiff_alleges_wrongdoing", Field: model.FieldPlaintiff, Phrases: wrongdoingPhrases, Mode: MatchEach,
		Effects: []Effect{plaintiff(4)}},
	{Name: "defendant_admits_wrongdoing", Field: model.FieldDefendant, Phrases: wrongdoingPhrases, Mode: MatchEach,
		Effects: []Effect{defendant(-3)}},
	{Name: "refused_own_property", Field: model.FieldPlaintiff, Phrases: []string{"refused"}, Mode: MatchAny,
		Guard: refusalIsOwnersRight, Effects: []Effect{defendant(3)}},
	{Name: "refused_other", Field: model.FieldPlaintiff, Phrases: []string{"refused"}, Mode: MatchAny,
		Guard:   func(t Text) bool { return !refusalIsOwnersRight(t) },
		Effects: []Effect{plaintiff(2)}},

	// Defense
	{Name: "defense_justification", Field: model.FieldDefendant, Phrases: defensePhrases, Mode: MatchEach,
		Effects: []Effect{defendant(2)}},

	// Product quality
	{Name: "quality_defect", Field: model.FieldPlaintiff, Phrases: qualityPhrases, Mode: MatchAny,
		Effects: []Effect{plaintiff(4)}},
	{Name: "disclaimer", Field: model.FieldDefendant, Phrases: disclaimerPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(2)}},

	// Natural occurrence pulls the result toward neutral
	{Name: "natural_occurrence", Field: model.FieldDefendant, Phrases: naturalPhrases, Mode: MatchAny,
		Effects: []Effect{defendant(2), floored(plaintiff(-1))}},
}
