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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored record types. Hand-written against the
// mus-go primitive serializers; field order is the struct declaration order
// and must not change without a storage migration. Timestamps are encoded
// as Unix microseconds, with the zero time encoded as 0.
var (
	DocumentMUS = documentMUS{}
	ChapterMUS  = chapterMUS{}
	ConceptMUS  = conceptMUS{}
	ChunkMUS    = chunkMUS{}
)

func marshalTime(t time.Time, bs []byte) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Marshal(micros, bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || micros == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Size(micros)
}

type documentMUS struct{}

func (documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = ord.String.Marshal(string(v.Id), bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.MimeType, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += varint.Int.Marshal(v.PageCount, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += ord.String.Marshal(v.FailReason, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var (
		s  string
		i  int
		n1 int
	)
	if s, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	v.Id = DocumentID(s)
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.MimeType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if i, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Status = Status(i)
	if v.PageCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FailReason, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (documentMUS) Size(v Document) (size int) {
	size = ord.String.Size(string(v.Id))
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.MimeType)
	size += varint.Int.Size(int(v.Status))
	size += varint.Int.Size(v.PageCount)
	size += ord.String.Size(v.Summary)
	size += ord.String.Size(v.FailReason)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type chapterMUS struct{}

func (chapterMUS) Marshal(v Chapter, bs []byte) (n int) {
	n = ord.String.Marshal(string(v.DocumentId), bs)
	n += varint.Int.Marshal(v.Number, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(v.StartWord, bs[n:])
	n += ord.String.Marshal(v.Brief, bs[n:])
	n += ord.String.Marshal(v.Standard, bs[n:])
	n += ord.String.Marshal(v.Detailed, bs[n:])
	n += varint.Int.Marshal(len(v.Questions), bs[n:])
	for _, q := range v.Questions {
		n += ord.String.Marshal(q.Question, bs[n:])
		n += ord.String.Marshal(q.Answer, bs[n:])
	}
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (chapterMUS) Unmarshal(bs []byte) (v Chapter, n int, err error) {
	var (
		s     string
		count int
		n1    int
	)
	if s, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	v.DocumentId = DocumentID(s)
	if v.Number, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.StartWord, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Brief, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Standard, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Detailed, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count > 0 {
		v.Questions = make([]PracticeQuestion, count)
		for i := 0; i < count; i++ {
			if v.Questions[i].Question, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
			if v.Questions[i].Answer, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
		}
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (chapterMUS) Size(v Chapter) (size int) {
	size = ord.String.Size(string(v.DocumentId))
	size += varint.Int.Size(v.Number)
	size += ord.String.Size(v.Title)
	size += varint.Int.Size(v.StartWord)
	size += ord.String.Size(v.Brief)
	size += ord.String.Size(v.Standard)
	size += ord.String.Size(v.Detailed)
	size += varint.Int.Size(len(v.Questions))
	for _, q := range v.Questions {
		size += ord.String.Size(q.Question)
		size += ord.String.Size(q.Answer)
	}
	size += sizeTime(v.UpdatedAt)
	return size
}

type conceptMUS struct{}

func (conceptMUS) Marshal(v Concept, bs []byte) (n int) {
	n = ord.String.Marshal(string(v.DocumentId), bs)
	n += varint.Int.Marshal(v.ChapterNumber, bs[n:])
	n += ord.String.Marshal(v.Term, bs[n:])
	n += ord.String.Marshal(v.Definition, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	return n
}

func (conceptMUS) Unmarshal(bs []byte) (v Concept, n int, err error) {
	var (
		s  string
		n1 int
	)
	if s, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	v.DocumentId = DocumentID(s)
	if v.ChapterNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Term, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Definition, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.InsertedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (conceptMUS) Size(v Concept) (size int) {
	size = ord.String.Size(string(v.DocumentId))
	size += varint.Int.Size(v.ChapterNumber)
	size += ord.String.Size(v.Term)
	size += ord.String.Size(v.Definition)
	size += ord.String.Size(v.Category)
	size += sizeTime(v.InsertedAt)
	return size
}

type chunkMUS struct{}

func (chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(string(v.DocumentId), bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.PageNumber, bs[n:])
	n += varint.Int.Marshal(v.ChapterNumber, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var (
		s  string
		n1 int
	)
	if s, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	v.DocumentId = DocumentID(s)
	if v.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.ChapterNumber, n1, err = varint.Int.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(string(v.DocumentId))
	size += varint.Int.Size(v.Index)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(v.PageNumber)
	size += varint.Int.Size(v.ChapterNumber)
	return size
}
