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


// Package search implements the retrieval path over indexed documents.
//
// The Searcher type answers a query against one document: it consults the
// search cache, embeds the query on a miss, runs a filtered similarity
// search against the vector index, resolves the returned chunk ids in the
// chunk lookup table and assembles a context string ordered by descending
// similarity score. An empty result is a valid outcome; callers proceed
// with empty context rather than failing the request.
package search
