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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Status must be one of the defined values
//
// NOT validated (populated by the pipeline):
//   - Summary (empty until the summary stage succeeds)
//   - PageCount (0 until extraction runs)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateChapter validates a Chapter according to domain rules.
//
// Validation rules:
//   - DocumentId must not be empty
//   - Number must be >= 1
//
// Summaries and questions are NOT validated: a failed enrichment sub-step
// stores placeholder values, which are legal chapter content.
func ValidateChapter(chapter *Chapter) error {
	if chapter == nil {
		return fmt.Errorf("%w: chapter is nil", ErrInvalidChapter)
	}

	if chapter.DocumentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChapter, ErrEmptyDocumentID)
	}

	if chapter.Number < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChapter, ErrInvalidChapterNumber)
	}

	return nil
}

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - DocumentId must not be empty
//   - Term must not be empty
//
// Category is normalized, not rejected: unknown categories fold to
// CategoryOther.
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.DocumentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyDocumentID)
	}

	if concept.Term == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyTerm)
	}

	return nil
}

// ValidateStatus validates that a Status has a valid value.
func ValidateStatus(status Status) error {
	switch status {
	case StatusPending, StatusProcessing, StatusReady, StatusError:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
}
