// Copyright 2025 The studyowl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Summarizer, ai.QuestionGenerator and
// ai.ConceptExtractor on a single OpenAI-compatible chat client.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// question is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// questionList is the wrapper structure for the question response.
type questionList struct {
	Questions []question `json:"questions"`
}

// concept is an internal type used for JSON unmarshaling.
type concept struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
}

// conceptList is the wrapper structure for the concept response.
type conceptList struct {
	Concepts []concept `json:"concepts"`
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewSummarizer creates a summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newGenerator(config)
}

// NewQuestionGenerator creates a question generator using the provided configuration.
func NewQuestionGenerator(config *ai.Config) (ai.QuestionGenerator, error) {
	return newGenerator(config)
}

// NewConceptExtractor creates a concept extractor using the provided configuration.
func NewConceptExtractor(config *ai.Config) (ai.ConceptExtractor, error) {
	return newGenerator(config)
}

// Summarize generates a summary of text at the requested detail level.
func (g *Generator) Summarize(ctx context.Context, text string, level core.DetailLevel) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ai.ErrEmptyInput
	}

	g.logger.Debug("generating summary", "level", level.String(), "length", len(text))

	response, err := g.client.GenerateContent(ctx,
		promptMessages(summaryPrompt(level), text),
		llms.WithTemperature(0.3))
	if err != nil {
		g.logger.Error("failed to generate summary", "level", level.String(), "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
	}

	summary := strings.TrimSpace(response.Choices[0].Content)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", ai.ErrMalformedResponse)
	}
	return summary, nil
}

// GenerateQuestions generates up to count practice questions for the text.
func (g *Generator) GenerateQuestions(ctx context.Context, text string, count int) ([]core.PracticeQuestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	var result questionList
	if err := g.generateJSON(ctx, questionSystemPrompt(count), text, &result); err != nil {
		return nil, err
	}

	questions := make([]core.PracticeQuestion, 0, len(result.Questions))
	for _, q := range result.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		questions = append(questions, core.PracticeQuestion{
			Question: strings.TrimSpace(q.Question),
			Answer:   strings.TrimSpace(q.Answer),
		})
		if len(questions) == count {
			break
		}
	}

	g.logger.Debug("generated questions", "requested", count, "got", len(questions))
	return questions, nil
}

// ExtractConcepts extracts key terms with definitions from text using an LLM.
// Categories are normalized against the closed category set.
func (g *Generator) ExtractConcepts(ctx context.Context, text string) ([]ai.ExtractedConcept, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	var result conceptList
	if err := g.generateJSON(ctx, conceptSystemPrompt(), text, &result); err != nil {
		return nil, err
	}

	extracted := make([]ai.ExtractedConcept, 0, len(result.Concepts))
	for _, c := range result.Concepts {
		if strings.TrimSpace(c.Term) == "" {
			continue
		}
		extracted = append(extracted, ai.ExtractedConcept{
			Term:       strings.TrimSpace(c.Term),
			Definition: strings.TrimSpace(c.Definition),
			Category:   core.NormalizeCategory(c.Category),
		})
	}

	g.logger.Debug("extracted concepts", "total", len(result.Concepts), "kept", len(extracted))
	return extracted, nil
}

// generateJSON runs a JSON-mode chat completion and unmarshals the response
// into out, retrying up to 3 times on malformed output.
func (g *Generator) generateJSON(ctx context.Context, systemPrompt, text string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx,
			promptMessages(systemPrompt, text),
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			return fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			g.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	g.logger.Error("failed to parse model response after retries", "err", lastErr)
	return fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
}

func promptMessages(systemPrompt, text string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}
}
