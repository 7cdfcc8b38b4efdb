package llm

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// minReasoningLen is the shortest cleaned output accepted as reasoning
const minReasoningLen = 20

// echoSigns show that output repeats the prompt rather than just answering it
var echoSigns = []string{PromptMarker, "Case Details:"}

// keyPhrases mark the end of an echoed prompt, most specific first
var keyPhrases = []string{
	PromptMarker,
	"Provide a concise legal reasoning",
	"legal reasoning",
	"reasoning:",
}

// promptFragments are prompt tails some models repeat at the start of output
var promptFragments = []string{
	"or this verdict, including",
	"this verdict, including",
	"including logical",
	"and emotional empathy.",
	"emotional empathy.",
	"concise legal reasoning",
	"(2-3 paragraphs):",
}

// blockTags end a line when markup is flattened to text
var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "blockquote": true,
}

// ExtractReasoning isolates the reasoning from raw model output that may
// echo the prompt, then cleans it. Output without an echoed prompt is
// cleaned whole. Output that is empty or too short after cleaning yields
// ErrDegenerateOutput.
func ExtractReasoning(prompt, output string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)

	if trimmedPrompt != "" && strings.HasPrefix(output, trimmedPrompt) {
		rest := strings.TrimSpace(output[len(trimmedPrompt):])
		if len(rest) > minReasoningLen {
			return cleanReasoning(rest)
		}
	}

	if !echoesPrompt(output) {
		return cleanReasoning(output)
	}

	for _, phrase := range keyPhrases {
		if _, after, ok := strings.Cut(output, phrase); ok && strings.TrimSpace(after) != "" {
			return cleanReasoning(strings.TrimSpace(after))
		}
	}

	// Long output without a marker: keep the tail
	if r := []rune(output); len(r) > 300 {
		if len(r) > 500 {
			r = r[len(r)-500:]
		}
		return cleanReasoning(strings.TrimSpace(string(r)))
	}

	return cleanReasoning(output)
}

func echoesPrompt(output string) bool {
	for _, sign := range echoSigns {
		if strings.Contains(output, sign) {
			return true
		}
	}
	return false
}

func cleanReasoning(reasoning string) (string, error) {
	for _, fragment := range promptFragments {
		if strings.HasPrefix(strings.ToLower(reasoning), strings.ToLower(fragment)) {
			reasoning = strings.TrimSpace(reasoning[len(fragment):])
		}
	}

	if looksLikeMarkup(reasoning) {
		reasoning = stripMarkup(reasoning)
	}

	reasoning = strings.TrimLeft(reasoning, ":-•*\n\r\t ")
	reasoning = strings.TrimSpace(reasoning)

	if len(reasoning) < minReasoningLen {
		return "", fmt.Errorf("%w: %d chars after cleaning", ErrDegenerateOutput, len(reasoning))
	}
	return reasoning, nil
}

func looksLikeMarkup(s string) bool {
	i := strings.Index(s, "<")
	return i >= 0 && strings.Contains(s[i:], ">")
}

// stripMarkup flattens HTML to text, breaking lines at block elements
func stripMarkup(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return collapseBlankLines(b.String())
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteString("\n")
			}
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
