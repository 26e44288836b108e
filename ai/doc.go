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


// Package ai provides abstractions for the AI services used in studyowl.
//
// This package defines interfaces for text embeddings, summarization,
// practice question generation and concept extraction. The processing
// pipeline and the search layer depend on these abstractions rather than
// concrete implementations.
//
// # Interfaces
//
//   - Embedder: generates vector embeddings from text
//   - Summarizer: produces summaries at three detail levels
//   - QuestionGenerator: produces practice questions with answers
//   - ConceptExtractor: extracts key terms and definitions
//   - AIProvider: aggregates all services behind one lifecycle
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to keep callers decoupled from concrete implementations.
// Mock constructors return concrete types so tests can inject behavior and
// assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "entropy never decreases")
//	summary, err := provider.Summarizer().Summarize(ctx, chapterText, core.DetailBrief)
package ai
