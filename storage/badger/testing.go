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


package badger

import "github.com/studyowl/studyowl/storage"

// Repositories bundles every repository sharing one backend.
type Repositories struct {
	Documents storage.DocumentRepository
	Chapters  storage.ChapterRepository
	Concepts  storage.ConceptRepository
	Chunks    storage.ChunkRepository
}

// NewRepositories creates all repositories on top of an open backend.
func NewRepositories(backend *Backend) (*Repositories, error) {
	conceptRepo, err := NewConceptRepository(backend)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Documents: NewDocumentRepository(backend),
		Chapters:  NewChapterRepository(backend),
		Concepts:  conceptRepo,
		Chunks:    NewChunkRepository(backend),
	}, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *Repositories) Close() error {
	return r.Concepts.Close()
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must close the repositories and the backend when done.
func NewMemoryRepositories() (*Repositories, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repos, err := NewRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repos, backend, nil
}
