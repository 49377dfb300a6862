package usecase

import (
	"context"
	"fmt"
	"strings"

	"nexus/internal/domain"
	"nexus/internal/port"
)

const answerSystemPrompt = "You answer questions using only the provided context passages. " +
	"If the context does not contain the answer, say so plainly."

// Answer is a grounded response with the passages it was built from.
type Answer struct {
	Text    string
	Sources []domain.SearchResult
}

// Answerer retrieves relevant passages and asks a text generator to compose
// an answer from them. Without a generator it still returns the passages
// with a canned preamble, so the pipeline stays useful offline.
type Answerer struct {
	retriever *Retriever
	generator port.TextGenerator
	topK      int
}

func NewAnswerer(retriever *Retriever, generator port.TextGenerator, topK int) *Answerer {
	if topK < 1 {
		topK = 5
	}
	return &Answerer{retriever: retriever, generator: generator, topK: topK}
}

func (a *Answerer) Answer(ctx context.Context, question string) (Answer, error) {
	results, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		return Answer{}, err
	}
	if len(results) == 0 {
		return Answer{Text: "No relevant passages found in the corpus.", Sources: results}, nil
	}

	if a.generator == nil {
		return Answer{Text: offlineAnswer(results), Sources: results}, nil
	}

	text, err := a.generator.Generate(ctx, answerSystemPrompt, buildUserPrompt(question, results))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate answer: %w", err)
	}
	return Answer{Text: text, Sources: results}, nil
}

func buildUserPrompt(question string, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Context passages:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (chunk %d)\n%s\n\n", i+1, r.DocumentTitle, r.ChunkIndex, r.Text)
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

func offlineAnswer(results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("No text generator configured. Most relevant passages:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (chunk %d, score %.4f)\n", i+1, r.DocumentTitle, r.ChunkIndex, r.Score)
	}
	return b.String()
}
