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
	"regexp"
	"strconv"
	"strings"
)

// chapterSpan is a detected chapter: its number, title and the word range
// of its body in the extracted text.
type chapterSpan struct {
	Number    int
	Title     string
	StartWord int // word offset of the chapter heading
	Text      string
}

// headingPattern matches chapter headings like "Chapter 3: Title" or
// "Chapter 3. Title" at the start of a line.
var headingPattern = regexp.MustCompile(`(?mi)^\s*chapter\s+(\d+)\s*[:.\-]?\s*(.*)$`)

// detectChapters splits extracted text into chapter spans by heading
// pattern. Duplicate chapter numbers keep the first occurrence only. When
// no headings are found, the whole document becomes a single synthetic
// chapter with the given fallback title.
func detectChapters(text, fallbackTitle string) []chapterSpan {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)

	type heading struct {
		number     int
		title      string
		byteOffset int
	}

	var headings []heading
	seen := make(map[int]bool)
	for _, m := range matches {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || number < 1 {
			continue
		}
		if seen[number] {
			continue
		}
		seen[number] = true

		title := strings.TrimSpace(text[m[4]:m[5]])
		if title == "" {
			title = "Chapter " + strconv.Itoa(number)
		}
		headings = append(headings, heading{
			number:     number,
			title:      title,
			byteOffset: m[0],
		})
	}

	if len(headings) == 0 {
		return []chapterSpan{{
			Number:    1,
			Title:     fallbackTitle,
			StartWord: 0,
			Text:      text,
		}}
	}

	spans := make([]chapterSpan, len(headings))
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].byteOffset
		}
		spans[i] = chapterSpan{
			Number:    h.number,
			Title:     h.title,
			StartWord: wordOffset(text, h.byteOffset),
			Text:      strings.TrimSpace(text[h.byteOffset:end]),
		}
	}
	return spans
}

// wordOffset counts the words preceding a byte offset.
func wordOffset(text string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	return len(strings.Fields(text[:byteOffset]))
}

// chapterForWord returns the number of the chapter containing the given
// word offset, or 0 when spans is empty.
func chapterForWord(spans []chapterSpan, wordOffset int) int {
	number := 0
	for _, span := range spans {
		if wordOffset < span.StartWord && number != 0 {
			break
		}
		number = span.Number
	}
	return number
}
