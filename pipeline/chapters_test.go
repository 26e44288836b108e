package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectChapters(t *testing.T) {
	text := "Chapter 1: Intro\nSome opening words here.\nChapter 2: Core\nThe main body text."

	spans := detectChapters(text, "fallback")
	require.Len(t, spans, 2)

	assert.Equal(t, 1, spans[0].Number)
	assert.Equal(t, "Intro", spans[0].Title)
	assert.Equal(t, 0, spans[0].StartWord)
	assert.Contains(t, spans[0].Text, "opening words")

	assert.Equal(t, 2, spans[1].Number)
	assert.Equal(t, "Core", spans[1].Title)
	assert.Contains(t, spans[1].Text, "main body")
	assert.Greater(t, spans[1].StartWord, spans[0].StartWord)
}

func TestDetectChaptersSyntheticFallback(t *testing.T) {
	spans := detectChapters("Just plain text without any headings at all.", "My Notes")
	require.Len(t, spans, 1)
	assert.Equal(t, 1, spans[0].Number)
	assert.Equal(t, "My Notes", spans[0].Title)
	assert.Equal(t, 0, spans[0].StartWord)
}

func TestDetectChaptersDuplicateNumberKeepsFirst(t *testing.T) {
	text := "Chapter 1: First\nbody one\nChapter 1: Imposter\nbody two\nChapter 2: Second\nbody three"

	spans := detectChapters(text, "fallback")
	require.Len(t, spans, 2)
	assert.Equal(t, "First", spans[0].Title)
	assert.Equal(t, "Second", spans[1].Title)
	// The discarded duplicate's text folds into the first chapter's span.
	assert.Contains(t, spans[0].Text, "body one")
	assert.Contains(t, spans[0].Text, "body two")
	assert.NotContains(t, spans[0].Text, "body three")
}

func TestDetectChaptersHeadingVariants(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
	}{
		{"colon", "Chapter 3: Waves", "Waves"},
		{"period", "Chapter 3. Waves", "Waves"},
		{"dash", "Chapter 3 - Waves", "Waves"},
		{"lowercase", "chapter 3: waves", "waves"},
		{"untitled", "Chapter 3", "Chapter 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := detectChapters(tt.text+"\nbody", "fallback")
			require.Len(t, spans, 1)
			assert.Equal(t, 3, spans[0].Number)
			assert.Equal(t, tt.title, spans[0].Title)
		})
	}
}

func TestChapterForWord(t *testing.T) {
	spans := []chapterSpan{
		{Number: 1, StartWord: 0},
		{Number: 2, StartWord: 100},
		{Number: 3, StartWord: 250},
	}

	assert.Equal(t, 1, chapterForWord(spans, 0))
	assert.Equal(t, 1, chapterForWord(spans, 99))
	assert.Equal(t, 2, chapterForWord(spans, 100))
	assert.Equal(t, 3, chapterForWord(spans, 400))
	assert.Equal(t, 0, chapterForWord(nil, 10))
}
