package openai

import (
	"fmt"
	"strings"

	"github.com/studyowl/studyowl/core"
)

const briefSummaryPrompt = `Summarize the given study text in 2-3 sentences.
Capture only the central claim or result. Do not include any preamble,
headings, or commentary about the text. Respond with the summary only.`

const standardSummaryPrompt = `Summarize the given study text in a single
paragraph of roughly 4-8 sentences. Cover the main ideas in the order they
appear. Do not include any preamble, headings, or commentary about the text.
Respond with the summary only.`

const detailedSummaryPrompt = `Summarize the given study text in multiple
paragraphs. Cover each major idea, important definitions, and how the ideas
connect. A student should be able to review from this summary without the
original text. Do not include any preamble or headings. Respond with the
summary only.`

const questionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": "string"}
        },
        "required": ["question", "answer"],
        "additionalProperties": false
      }
    }
  },
  "required": ["questions"],
  "additionalProperties": false
}`

const questionPromptTemplate = `Write %d practice questions that test understanding of the given study text, and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Questions must be answerable from the text alone. Do not require outside knowledge.
- Each answer must be 1-3 sentences and factually grounded in the text.
- Prefer questions about central ideas over trivia.
- If the text does not support any questions, return "questions": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "The second law of thermodynamics states that the entropy of an isolated system never decreases."
Output:
{
  "questions": [
    {"question":"What does the second law of thermodynamics say about entropy?","answer":"The entropy of an isolated system never decreases."}
  ]
}`

const conceptResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "concepts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "term": {"type": "string"},
          "definition": {"type": "string"},
          "category": {"type": "string"}
        },
        "required": ["term", "definition", "category"],
        "additionalProperties": false
      }
    }
  },
  "required": ["concepts"],
  "additionalProperties": false
}`

const conceptPromptTemplate = `Extract the key terms a student should learn from the given study text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Terms must be 1-4 words, as written in the text.
- Each definition must be 1-2 sentences explaining the term as the text uses it.
- Category must match exactly one of the listed values: %s.
- Include only terms that are explicitly defined or clearly explained in the text. Do not hallucinate.
- If no terms can be identified, return "concepts": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Entropy is a measure of the disorder of a system. Rudolf Clausius introduced the concept in 1865."
Output:
{
  "concepts": [
    {"term":"entropy","definition":"A measure of the disorder of a system.","category":"definition"},
    {"term":"rudolf clausius","definition":"The physicist who introduced the concept of entropy in 1865.","category":"person"}
  ]
}`

// summaryPrompt returns the system prompt for the requested detail level.
func summaryPrompt(level core.DetailLevel) string {
	switch level {
	case core.DetailBrief:
		return briefSummaryPrompt
	case core.DetailDetailed:
		return detailedSummaryPrompt
	default:
		return standardSummaryPrompt
	}
}

// questionSystemPrompt creates the question prompt with the count embedded.
func questionSystemPrompt(count int) string {
	return fmt.Sprintf(questionPromptTemplate, count, questionResponseSchema)
}

// conceptSystemPrompt creates the concept prompt with the category set embedded.
func conceptSystemPrompt() string {
	return fmt.Sprintf(conceptPromptTemplate,
		conceptResponseSchema,
		strings.Join(core.ConceptCategories, ", "))
}
