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


package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/extract"
	"github.com/studyowl/studyowl/vectorstore"
)

// summaryFallback is stored when a chapter summary sub-step fails.
const summaryFallback = "Summary unavailable."

// Process runs the full stage sequence for a document synchronously.
// Only an extraction failure is fatal; every later stage falls back and
// the document still transitions to the ready status. Reprocessing clears
// the document's chapters and concepts first, and chunk ids regenerate
// deterministically so vector re-upserts overwrite prior runs.
func (p *Pipeline) Process(ctx context.Context, docID core.DocumentID, content []byte) error {
	doc, err := p.documents.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	if err := p.documents.UpdateStatus(ctx, docID, core.StatusProcessing, ""); err != nil {
		return err
	}
	if p.cache != nil {
		p.cache.Invalidate(docID)
	}

	// Stage 1: extraction. The only fatal stage.
	result, err := p.extractor.Extract(content, doc.MimeType)
	if err != nil {
		p.logger.Error("extraction failed", "document", docID, "err", err)
		if statusErr := p.documents.UpdateStatus(ctx, docID, core.StatusError, err.Error()); statusErr != nil {
			p.logger.Error("failed to record error status", "document", docID, "err", statusErr)
		}
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	doc.Status = core.StatusProcessing
	doc.PageCount = result.PageCount
	if err := p.documents.PutDocument(ctx, doc); err != nil {
		p.logger.Error("failed to store page count", "document", docID, "err", err)
	}

	// Idempotent restart: clear derived collections before re-population.
	if err := p.chapters.DeleteByDocument(ctx, docID); err != nil {
		p.logger.Error("failed to clear chapters", "document", docID, "err", err)
	}
	if err := p.concepts.DeleteByDocument(ctx, docID); err != nil {
		p.logger.Error("failed to clear concepts", "document", docID, "err", err)
	}

	// Stage 2: chapter detection with synthetic fallback.
	spans := detectChapters(result.Text, doc.Name)
	p.logger.Info("detected chapters", "document", docID, "chapters", len(spans))

	// Stage 3: per-chapter enrichment, strictly sequential.
	for _, span := range spans {
		chapter, chapterConcepts := p.enrichChapter(ctx, docID, span)

		if err := p.chapters.PutChapters(ctx, chapter); err != nil {
			p.logger.Error("failed to store chapter",
				"document", docID, "chapter", chapter.Number, "err", err)
		}
		if len(chapterConcepts) > 0 {
			if err := p.concepts.AddConcepts(ctx, chapterConcepts...); err != nil {
				p.logger.Error("failed to store concepts",
					"document", docID, "chapter", chapter.Number, "err", err)
			}
		}
	}

	// Stage 4: chunk, embed and index. Degrades search, never the document.
	if err := p.indexChunks(ctx, docID, result, spans); err != nil {
		p.logger.Error("chunk indexing failed, search will be degraded",
			"document", docID, "err", err)
	}

	// Stage 5: whole-document summary from a bounded prefix.
	if summary, err := p.summarizeDocument(ctx, result.Text); err != nil {
		p.logger.Error("document summary failed", "document", docID, "err", err)
	} else {
		doc.Summary = summary
		if err := p.documents.PutDocument(ctx, doc); err != nil {
			p.logger.Error("failed to store document summary", "document", docID, "err", err)
		}
	}

	return p.documents.UpdateStatus(ctx, docID, core.StatusReady, "")
}

// enrichChapter builds the chapter record: three summary variants, practice
// questions and concepts, each sub-step independently fallback-protected.
// Calls are paced by the rate limiter and retried per policy.
func (p *Pipeline) enrichChapter(ctx context.Context, docID core.DocumentID, span chapterSpan) (*core.Chapter, []*core.Concept) {
	chapter := &core.Chapter{
		DocumentId: docID,
		Number:     span.Number,
		Title:      span.Title,
		StartWord:  span.StartWord,
	}

	summarizer := p.provider.Summarizer()
	for _, level := range []core.DetailLevel{core.DetailBrief, core.DetailStandard, core.DetailDetailed} {
		var summary string
		err := p.callPaced(ctx, func() error {
			var callErr error
			summary, callErr = summarizer.Summarize(ctx, span.Text, level)
			return callErr
		})
		if err != nil {
			p.logger.Warn("chapter summary failed, storing placeholder",
				"document", docID, "chapter", span.Number, "level", level.String(), "err", err)
			summary = summaryFallback
		}
		switch level {
		case core.DetailBrief:
			chapter.Brief = summary
		case core.DetailStandard:
			chapter.Standard = summary
		case core.DetailDetailed:
			chapter.Detailed = summary
		}
	}

	var questions []core.PracticeQuestion
	err := p.callPaced(ctx, func() error {
		var callErr error
		questions, callErr = p.provider.QuestionGenerator().GenerateQuestions(ctx, span.Text, p.questionCount)
		return callErr
	})
	if err != nil {
		p.logger.Warn("question generation failed",
			"document", docID, "chapter", span.Number, "err", err)
		questions = nil
	}
	chapter.Questions = questions

	var chapterConcepts []*core.Concept
	err = p.callPaced(ctx, func() error {
		extracted, callErr := p.provider.ConceptExtractor().ExtractConcepts(ctx, span.Text)
		if callErr != nil {
			return callErr
		}
		chapterConcepts = make([]*core.Concept, len(extracted))
		for i, e := range extracted {
			chapterConcepts[i] = &core.Concept{
				DocumentId:    docID,
				ChapterNumber: span.Number,
				Term:          e.Term,
				Definition:    e.Definition,
				Category:      core.NormalizeCategory(e.Category),
			}
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("concept extraction failed",
			"document", docID, "chapter", span.Number, "err", err)
		chapterConcepts = nil
	}

	return chapter, chapterConcepts
}

// indexChunks splits the full text, stores the chunks in the lookup table,
// embeds them in batches and upserts the vectors. The lookup table is
// written before the index so a partially indexed document can always be
// rebuilt from stored chunks.
func (p *Pipeline) indexChunks(ctx context.Context, docID core.DocumentID, result *extract.Result, spans []chapterSpan) error {
	chunkSpans, err := p.splitter.Split(result.Text)
	if err != nil {
		return err
	}

	chunks := make([]*core.Chunk, len(chunkSpans))
	texts := make([]string, len(chunkSpans))
	for i, s := range chunkSpans {
		chunks[i] = &core.Chunk{
			DocumentId:    docID,
			Index:         i,
			Text:          s.Text,
			PageNumber:    result.PageAt(s.Start),
			ChapterNumber: chapterForWord(spans, s.Start),
		}
		texts[i] = s.Text
	}

	if err := p.chunks.PutChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	var embeddings [][]float32
	err = p.retry.Do(ctx, func() error {
		var callErr error
		embeddings, callErr = p.provider.Embedder().EmbedTexts(ctx, texts)
		return callErr
	})
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	records := make([]vectorstore.Record, 0, len(chunks))
	for i, vector := range embeddings {
		if vector == nil {
			p.logger.Warn("skipping chunk with failed embedding",
				"document", docID, "chunk", chunks[i].Index)
			continue
		}
		records = append(records, vectorstore.Record{
			ID:     chunks[i].ID(),
			Vector: vectorstore.NormalizeVector(vector),
			Metadata: vectorstore.Metadata{
				DocumentID:    docID,
				PageNumber:    chunks[i].PageNumber,
				ChapterNumber: chunks[i].ChapterNumber,
			},
		})
	}
	if len(records) == 0 {
		return nil
	}

	err = p.retry.Do(ctx, func() error {
		return p.vectors.Upsert(ctx, records)
	})
	if err != nil {
		return fmt.Errorf("indexing vectors: %w", err)
	}

	p.logger.Info("indexed chunks", "document", docID, "chunks", len(chunks), "indexed", len(records))
	return nil
}

// summarizeDocument summarizes a bounded prefix of the text to keep cost
// and latency independent of document length.
func (p *Pipeline) summarizeDocument(ctx context.Context, text string) (string, error) {
	words := strings.Fields(text)
	if len(words) > p.summaryPrefixWords {
		text = strings.Join(words[:p.summaryPrefixWords], " ")
	}

	var summary string
	err := p.callPaced(ctx, func() error {
		var callErr error
		summary, callErr = p.provider.Summarizer().Summarize(ctx, text, core.DetailStandard)
		return callErr
	})
	return summary, err
}

// callPaced waits for the rate limiter, then runs the operation under the
// retry policy.
func (p *Pipeline) callPaced(ctx context.Context, operation func() error) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	return p.retry.Do(ctx, operation)
}
