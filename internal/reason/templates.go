package reason

import (
	"strings"

	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/score"
)

// sentence is a template line emitted only when its condition holds.
// A nil condition always holds.
type sentence struct {
	text string
	when func(t score.Text) bool
}

func always(text string) sentence { return sentence{text: text} }

func when(cond func(t score.Text) bool, text string) sentence {
	return sentence{text: text, when: cond}
}

func (s sentence) applies(t score.Text) bool {
	return s.when == nil || s.when(t)
}

// factor is a key-factor sentence collected for a case type
type factor struct {
	text string
	when func(t score.Text) bool
}

func defendantClaimsProperty(t score.Text) bool {
	return containsAny(t.Defendant, "my property", "private property")
}

func defendantCitesNoPermission(t score.Text) bool {
	return containsAny(t.Defendant, "without permission", "never asked")
}

func naturalTransfer(t score.Text) bool {
	return containsAny(t.Defendant, "fell on", "natural")
}

func plaintiffPostedNotice(t score.Text) bool {
	return containsAny(t.Plaintiff, "signboard", "notice")
}

// keyFactors lists the factor sentences checked for each case type
var keyFactors = map[model.CaseType][]factor{
	model.CaseProperty: {
		{"The defendant has clearly established property rights and ownership",
			func(t score.Text) bool {
				return containsAny(t.Defendant, "my property", "private property", "my land", "ownership")
			}},
		{"The plaintiff claims ownership and property rights",
			func(t score.Text) bool {
				return containsAny(t.Plaintiff, "my property", "my land", "my tree", "planted")
			}},
		{"The plaintiff did not have permission or authorization", defendantCitesNoPermission},
		{"The plaintiff claims they requested permission",
			func(t score.Text) bool {
				return strings.Contains(t.Plaintiff, "permission") && strings.Contains(t.Plaintiff, "asked")
			}},
		{"Documentary evidence (deed/title) confirms ownership claims",
			func(t score.Text) bool { return containsAny(t.Evidence, "deed", "title", "ownership") }},
	},
	model.CaseContract: {
		{"The plaintiff claims to have paid but not received the goods/services",
			func(t score.Text) bool {
				return strings.Contains(t.Plaintiff, "paid") &&
					containsAny(t.Plaintiff, "never received", "not delivered", "didnt get")
			}},
		{"The plaintiff has documentation of payment",
			func(t score.Text) bool { return containsAny(t.Plaintiff, "receipt", "proof of payment") }},
		{"The defendant claims they fulfilled their obligations",
			func(t score.Text) bool { return containsAny(t.Defendant, "delivered", "shipped") }},
	},
	model.CaseTheft: {
		{"The defendant admits to taking the items",
			func(t score.Text) bool { return containsAny(t.Defendant, "took it", "we took") }},
		{"The defendant claims the items came onto their property naturally",
			func(t score.Text) bool { return containsAny(t.Defendant, "fell on", "came to") }},
		{"The plaintiff had posted notice/warning signs",
			func(t score.Text) bool { return containsAny(t.Plaintiff, "signboard", "sign", "notice") }},
	},
	model.CaseDamage: {
		{"The plaintiff claims the product/service was defective or damaged",
			func(t score.Text) bool { return containsAny(t.Plaintiff, "damaged", "broken", "defective") }},
		{"The defendant claims proper disclosure or 'as-is' sale",
			func(t score.Text) bool { return containsAny(t.Defendant, "as-is", "no warranty", "disclosed") }},
	},
}

// factorFilter keeps only the factors relevant to the winning side.
// Neutral keeps every factor.
var factorFilter = map[model.Verdict][]string{
	model.VerdictPlaintiff: {"plaintiff", "paid", "posted"},
	model.VerdictDefendant: {"defendant", "ownership", "permission"},
}

// maxNeutralFactors caps the factors listed for a Neutral verdict
const maxNeutralFactors = 3

// analysisIntro opens the Logical Analysis section
var analysisIntro = map[model.Verdict]string{
	model.VerdictPlaintiff: "The court finds in favor of the plaintiff based on the following:",
	model.VerdictDefendant: "The court finds in favor of the defendant based on the following:",
	model.VerdictNeutral:   "This case presents balanced arguments from both sides:",
}

var defendantNaturalLines = []sentence{
	when(naturalTransfer, "The items came onto the defendant's property through natural means"),
	when(naturalTransfer, "The defendant did not actively trespass or take from the plaintiff"),
}

// analysisTable is the verdict x case type branch table for the Logical
// Analysis bullet list. Missing entries contribute no lines.
var analysisTable = map[model.Verdict]map[model.CaseType][]sentence{
	model.VerdictPlaintiff: {
		model.CaseProperty: {
			always("The plaintiff has demonstrated valid property rights claims"),
			when(plaintiffPostedNotice, "Clear notice was provided to prevent unauthorized access"),
		},
		model.CaseContract: {
			always("The plaintiff has shown evidence of payment or fulfilled obligations"),
			always("The defendant failed to deliver as agreed"),
		},
		model.CaseTheft: {
			always("The taking was without authorization or permission"),
			always("The plaintiff's property rights were violated"),
		},
	},
	model.VerdictDefendant: {
		model.CaseProperty: {
			when(defendantClaimsProperty, "The defendant has clear and established property rights"),
			when(defendantClaimsProperty, "Property owners have the legal right to control access to their property"),
			when(defendantCitesNoPermission, "The plaintiff did not obtain proper authorization"),
			when(defendantCitesNoPermission, "No permission was granted for the use or access"),
		},
		model.CaseContract: {
			always("The defendant has shown evidence of fulfilling their obligations"),
			always("The defendant's actions were within the terms of the agreement"),
		},
		model.CaseTheft:   defendantNaturalLines,
		model.CaseDamage:  defendantNaturalLines,
		model.CaseGeneral: defendantNaturalLines,
	},
}

// neutralDefaults stands in for key factors when none were found
var neutralDefaults = []string{
	"Both parties have presented valid points",
	"The legal principles involved create ambiguity",
}

// neutralClosing always ends a Neutral analysis
var neutralClosing = []string{
	"Additional evidence may be needed for a definitive ruling",
	"Further investigation or mediation is recommended",
}

// practicalTable holds the Practical Consideration paragraph per verdict.
// Lines carrying a case type are only emitted for that case type.
var practicalTable = map[model.Verdict][]caseSentence{
	model.VerdictPlaintiff: {
		{sentence: always("The court recognizes the harm or loss suffered by the plaintiff.")},
		{caseType: model.CaseProperty, sentence: always("Property rights are fundamental and must be protected.")},
		{caseType: model.CaseContract, sentence: always("Parties who pay for goods or services have a right to receive them as agreed.")},
		{sentence: always("Justice requires a remedy for the plaintiff's legitimate grievances.")},
	},
	model.VerdictDefendant: {
		{sentence: always("The court acknowledges the defendant's rights and position.")},
		{sentence: when(defendantClaimsProperty, "Property rights are fundamental legal principles that protect ownership and control.")},
		{sentence: when(defendantClaimsProperty, "The defendant has a right to control access to and use of their property.")},
		{sentence: when(func(t score.Text) bool { return !defendantClaimsProperty(t) && naturalTransfer(t) },
			"Natural occurrences that transfer property across boundaries create complex legal questions.")},
		{sentence: always("The defendant's actions appear to be within their legal rights.")},
	},
	model.VerdictNeutral: {
		{sentence: always("The court recognizes that both parties have legitimate concerns.")},
		{sentence: always("This case involves competing legal principles that require careful balancing.")},
		{sentence: always("A mediated settlement might serve the interests of justice better than an adversarial ruling.")},
	},
}

// caseSentence is a sentence optionally restricted to one case type
type caseSentence struct {
	caseType model.CaseType
	sentence sentence
}

// conclusionTable holds the Conclusion paragraph per verdict. The
// placeholder {case} is replaced with the case type name.
var conclusionTable = map[model.Verdict][]sentence{
	model.VerdictPlaintiff: {
		always("Based on the analysis of this {case}, the plaintiff has presented the stronger legal arguments."),
		always("Their rights have been infringed upon, and the evidence supports their claims."),
		always("The court finds in favor of the Plaintiff."),
	},
	model.VerdictDefendant: {
		always("Based on the analysis of this {case}, the defendant has demonstrated valid legal justifications for their actions."),
		when(func(t score.Text) bool {
			return strings.Contains(t.Defendant, "property") && strings.Contains(t.Defendant, "my")
		}, "The defendant's property rights are clear and well-established."),
		always("The law supports the defendant's position in this matter."),
	},
	model.VerdictNeutral: {
		always("Based on the analysis of this {case}, both parties present compelling arguments that make a clear determination difficult."),
		always("A neutral finding reflects the legal complexity and ambiguity present."),
		always("The parties are encouraged to seek mediation or provide additional evidence."),
	},
}
