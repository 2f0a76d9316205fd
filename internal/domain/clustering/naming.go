package clustering

import (
	"context"
	"strings"
)

const (
	// defaultClusterName is used when topic generation fails or comes
	// back empty.
	defaultClusterName = "Related Questions"
	// maxNameLen caps the generated topic name.
	maxNameLen = 50
	// maxNameQuestions bounds how many member questions go into the
	// naming prompt.
	maxNameQuestions = 5
	nameMaxTokens    = 50
)

// clusterName asks the generator for a short topic name covering the
// member questions. Failures and empty completions fall back to a fixed
// default; naming never fails a clustering run.
func (e *Engine) clusterName(ctx context.Context, questions []string) string {
	if len(questions) > maxNameQuestions {
		questions = questions[:maxNameQuestions]
	}
	var listing strings.Builder
	for _, q := range questions {
		listing.WriteString("- ")
		listing.WriteString(q)
		listing.WriteString("\n")
	}

	prompt := "You are analyzing student questions from a course. Below are related questions that have been grouped together. " +
		"Generate a short, descriptive topic name (2-5 words) that captures the main theme of these questions.\n\n" +
		"Questions:\n" +
		listing.String() + "\n" +
		"Topic name (2-5 words only):"

	topic, err := e.generator.Generate(ctx, prompt, nameMaxTokens)
	if err != nil {
		e.logger.Warn("cluster name generation failed", "error", err)
		return defaultClusterName
	}
	return cleanTopic(topic)
}

// cleanTopic keeps the first line, strips surrounding quotes and
// whitespace, and truncates long names at the last word boundary.
func cleanTopic(raw string) string {
	line, _, _ := strings.Cut(raw, "\n")
	line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"' `))
	if line == "" {
		return defaultClusterName
	}
	runes := []rune(line)
	if len(runes) > maxNameLen {
		head := string(runes[:maxNameLen])
		if idx := strings.LastIndex(head, " "); idx > 0 {
			head = head[:idx]
		}
		line = head + "..."
	}
	return line
}
