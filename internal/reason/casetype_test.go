package reason

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/verdict/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		d    model.Dispute
		want model.CaseType
	}{
		{
			name: "property wins over payment",
			d:    model.Dispute{Plaintiff: "I paid for the land.", Defendant: "The payment bounced."},
			want: model.CaseProperty,
		},
		{
			name: "payment",
			d:    laptopDispute,
			want: model.CaseContract,
		},
		{
			name: "keywords found in evidence only",
			d:    model.Dispute{Plaintiff: "He owes me.", Defendant: "I do not.", Evidence: "Signed contract"},
			want: model.CaseContract,
		},
		{
			name: "theft",
			d:    model.Dispute{Plaintiff: "He took my bike.", Defendant: "I borrowed it."},
			want: model.CaseTheft,
		},
		{
			name: "damage",
			d:    model.Dispute{Plaintiff: "The phone arrived broken.", Defendant: "It worked when I sent it."},
			want: model.CaseDamage,
		},
		{
			name: "general",
			d:    model.Dispute{Plaintiff: "We argued about the noise.", Defendant: "I was quiet."},
			want: model.CaseGeneral,
		},
		{
			name: "case insensitive",
			d:    model.Dispute{Plaintiff: "MY DRIVEWAY", Defendant: "no"},
			want: model.CaseProperty,
		},
		{
			name: "empty",
			d:    model.Dispute{},
			want: model.CaseGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.d))
		})
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze(model.Dispute{Plaintiff: "I paid for the land.", Defendant: "He stole nothing.", Evidence: "short"})

	assert.Equal(t, []model.CaseType{model.CaseProperty, model.CaseContract, model.CaseTheft}, a.CaseTypes)
	assert.False(t, a.HasEvidence)
	assert.Equal(t, "medium", a.Complexity)
}

func TestAnalyze_GeneralAndComplexity(t *testing.T) {
	a := Analyze(model.Dispute{
		Plaintiff: strings.Repeat("word ", 101),
		Defendant: "no",
		Evidence:  "A long written statement",
	})

	assert.Equal(t, []model.CaseType{model.CaseGeneral}, a.CaseTypes)
	assert.True(t, a.HasEvidence)
	assert.Equal(t, "high", a.Complexity)
}
