package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const answerMaxTokens = 400

// apologyAnswer is returned when no completion could be generated.
const apologyAnswer = "I couldn't generate an automatic answer right now. " +
	"Please ask the TA, and consider checking your lecture notes and assignment description."

// Draft is a generated answer together with the labels of the snippets
// that grounded it.
type Draft struct {
	Answer  string
	Sources []string
}

// Answerer turns a student question into an AI draft answer grounded in
// retrieved course material.
type Answerer struct {
	retriever *Retriever
	generator Generator
	logger    *slog.Logger
}

// NewAnswerer constructs an Answerer.
func NewAnswerer(retriever *Retriever, generator Generator, logger *slog.Logger) *Answerer {
	return &Answerer{
		retriever: retriever,
		generator: generator,
		logger:    logger.With("component", "retrieval.answerer"),
	}
}

// Draft retrieves grounding context and asks the generator for a short
// student-friendly answer. A failed or empty generation yields a fixed
// apology answer rather than an error.
func (a *Answerer) Draft(ctx context.Context, question string, topK int) (Draft, error) {
	contexts, err := a.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return Draft{}, err
	}

	prompt := buildAnswerPrompt(question, contexts)
	reply, err := a.generator.Generate(ctx, prompt, answerMaxTokens)
	if err != nil {
		return Draft{}, err
	}

	sources := make([]string, 0, len(contexts))
	for _, c := range contexts {
		sources = append(sources, c.Label)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		a.logger.Warn("generation returned empty answer, using apology fallback")
		reply = apologyAnswer
	}
	return Draft{Answer: reply, Sources: sources}, nil
}

func buildAnswerPrompt(question string, contexts []Candidate) string {
	lines := make([]string, 0, len(contexts))
	for _, c := range contexts {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Label, c.Text))
	}

	return "You are a helpful university teaching assistant helping a student during office hours. " +
		"Below is some context from course documents and past questions, followed by the student's question. " +
		"Use the context when it is relevant. If you are not sure, say you are not completely sure and suggest what to ask the TA.\n\n" +
		"CONTEXT:\n" +
		strings.Join(lines, "\n") + "\n\n" +
		"STUDENT QUESTION:\n" +
		question + "\n\n" +
		"Give a concise, student-friendly answer (2-5 sentences)."
}
