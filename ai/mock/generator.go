package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/core"
)

// MockGenerator is a test double for ai.Summarizer, ai.QuestionGenerator
// and ai.ConceptExtractor. It allows custom behavior injection via
// function fields.
type MockGenerator struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default truncation behavior.
	SummarizeFunc func(ctx context.Context, text string, level core.DetailLevel) (string, error)

	// GenerateQuestionsFunc is called by GenerateQuestions if set.
	// If nil, produces simple templated questions.
	GenerateQuestionsFunc func(ctx context.Context, text string, count int) ([]core.PracticeQuestion, error)

	// ExtractConceptsFunc is called by ExtractConcepts if set.
	// If nil, uses default simple word extraction.
	ExtractConceptsFunc func(ctx context.Context, text string) ([]ai.ExtractedConcept, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Summarize returns a deterministic summary derived from the input text.
// Default behavior: prefixes the level name and truncates the text by words,
// shorter for brief, longer for detailed.
func (m *MockGenerator) Summarize(ctx context.Context, text string, level core.DetailLevel) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, level)
	}

	limit := 20
	switch level {
	case core.DetailBrief:
		limit = 10
	case core.DetailDetailed:
		limit = 40
	}

	words := strings.Fields(text)
	if len(words) > limit {
		words = words[:limit]
	}
	return fmt.Sprintf("[%s] %s", level.String(), strings.Join(words, " ")), nil
}

// GenerateQuestions produces up to count templated questions from the text.
func (m *MockGenerator) GenerateQuestions(ctx context.Context, text string, count int) ([]core.PracticeQuestion, error) {
	m.callCount++

	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, text, count)
	}

	words := strings.Fields(text)
	questions := make([]core.PracticeQuestion, 0, count)
	for i := 0; i < count && i < len(words); i++ {
		word := strings.Trim(strings.ToLower(words[i]), ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		questions = append(questions, core.PracticeQuestion{
			Question: fmt.Sprintf("What does the text say about %q?", word),
			Answer:   fmt.Sprintf("The text mentions %q.", word),
		})
	}
	return questions, nil
}

// ExtractConcepts extracts simple mock concepts from text.
// Default behavior: creates a concept from each of the first few words.
func (m *MockGenerator) ExtractConcepts(ctx context.Context, text string) ([]ai.ExtractedConcept, error) {
	m.callCount++

	if m.ExtractConceptsFunc != nil {
		return m.ExtractConceptsFunc(ctx, text)
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return []ai.ExtractedConcept{}, nil
	}

	concepts := make([]ai.ExtractedConcept, 0, 5)
	for i, word := range words {
		if i >= 5 { // Limit to 5 concepts
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		concepts = append(concepts, ai.ExtractedConcept{
			Term:       word,
			Definition: fmt.Sprintf("The term %q as used in the text.", word),
			Category:   "term",
		})
	}

	return concepts, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
	m.GenerateQuestionsFunc = nil
	m.ExtractConceptsFunc = nil
}
