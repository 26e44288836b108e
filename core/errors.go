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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChapter indicates a Chapter failed validation.
	ErrInvalidChapter = errors.New("invalid chapter")

	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrEmptyDocumentID indicates the document id field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrInvalidStatus indicates an invalid Status value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrInvalidChapterNumber indicates a chapter number below 1.
	ErrInvalidChapterNumber = errors.New("chapter number must be positive")

	// ErrEmptyTerm indicates the concept Term field is empty.
	ErrEmptyTerm = errors.New("concept term cannot be empty")

	// ErrInvalidChunkID indicates a malformed chunk identifier.
	ErrInvalidChunkID = errors.New("invalid chunk id")
)
