package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/ppiankov/verdict/internal/model"
)

const footer = "_Generated by verdict. Keyword scoring and generated reasoning are not legal advice._"

// Renderer writes judgments as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the judgment as indented JSON
func (r *Renderer) RenderJSON(j *model.Judgment, path string) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal judgment: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the judgment as a Markdown report
func (r *Renderer) RenderMarkdown(j *model.Judgment, path string) error {
	return writeFile(path, []byte(r.Markdown(j)))
}

// Markdown renders the judgment as a Markdown document
func (r *Renderer) Markdown(j *model.Judgment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verdict: %s\n\n", j.Score.Winner)
	fmt.Fprintf(&b, "%s\n\n", j.Summary)

	b.WriteString("## Dispute\n\n")
	fmt.Fprintf(&b, "- **Plaintiff:** %s\n", j.Dispute.Plaintiff)
	fmt.Fprintf(&b, "- **Defendant:** %s\n", j.Dispute.Defendant)
	evidence := j.Dispute.Evidence
	if evidence == "" {
		evidence = "None"
	}
	fmt.Fprintf(&b, "- **Evidence:** %s\n\n", evidence)

	b.WriteString("## Score\n\n")
	b.WriteString("| Plaintiff | Defendant | Difference | Confidence |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s |\n\n",
		j.Score.PlaintiffScore, j.Score.DefendantScore, j.Score.Diff, j.Score.Confidence)

	if len(j.Score.Matches) > 0 {
		b.WriteString("### Matched rules\n\n")
		b.WriteString("| Rule | Field | Phrase | Party | Delta |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, m := range j.Score.Matches {
			fmt.Fprintf(&b, "| %s | %s | %q | %s | %+d |\n", m.Rule, m.Field, m.Phrase, m.Party, m.Delta)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Analysis\n\n")
	labels := make([]string, len(j.Analysis.CaseTypes))
	for i, ct := range j.Analysis.CaseTypes {
		labels[i] = string(ct)
	}
	fmt.Fprintf(&b, "- Case types: %s\n", strings.Join(labels, ", "))
	fmt.Fprintf(&b, "- Evidence provided: %t\n", j.Analysis.HasEvidence)
	fmt.Fprintf(&b, "- Complexity: %s\n\n", j.Analysis.Complexity)

	if j.Reasoning != nil {
		b.WriteString("## Reasoning\n\n")
		fmt.Fprintf(&b, "_Source: %s_\n", j.Reasoning.Provenance.Model)
		for _, w := range j.Reasoning.Provenance.Warnings {
			fmt.Fprintf(&b, "\n> ⚠ %s\n", w)
		}
		fmt.Fprintf(&b, "\n%s\n\n", j.Reasoning.Text)
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(footer + "\n")
	}

	return b.String()
}

// RenderSummary prints a short colored summary of the judgment
func (r *Renderer) RenderSummary(w io.Writer, j *model.Judgment) {
	winner := verdictColor(j.Score.Winner)
	bold := color.New(color.Bold)

	fmt.Fprintln(w)
	bold.Fprint(w, "Verdict: ")
	winner.Fprintf(w, "%s", j.Score.Winner)
	fmt.Fprintf(w, " (%s confidence)\n", j.Score.Confidence)
	fmt.Fprintf(w, "Scores:  plaintiff %d, defendant %d\n", j.Score.PlaintiffScore, j.Score.DefendantScore)
	fmt.Fprintf(w, "%s\n", j.Summary)

	if j.Reasoning != nil {
		fmt.Fprintf(w, "Reasoning source: %s\n", j.Reasoning.Provenance.Model)
		if j.Reasoning.Provenance.Fallback {
			color.New(color.FgYellow).Fprintln(w, "⚠ generative reasoning unavailable, rule-based text used")
		}
	}
}

func verdictColor(v model.Verdict) *color.Color {
	switch v {
	case model.VerdictPlaintiff:
		return color.New(color.FgGreen, color.Bold)
	case model.VerdictDefendant:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
