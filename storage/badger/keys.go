package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/studyowl/studyowl/core"
)

// Key prefixes for different data types
const (
	documentRecordPrefix = "docrec"
	chapterRecordPrefix  = "charec"
	conceptRecordPrefix  = "conrec"
	conceptIDSeq         = "conrecseq"
	chunkRecordPrefix    = "churec"
)

// makeDocumentKey generates a key for a document record by id.
func makeDocumentKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentRecordPrefix, id))
}

// makeDocumentPrefix returns the scan prefix covering all document records.
func makeDocumentPrefix() []byte {
	return []byte(documentRecordPrefix + ":")
}

// makeChapterKey generates a composite key for a chapter.
// Format: prefix:documentID:number
func makeChapterKey(docID core.DocumentID, number int) []byte {
	prefix := fmt.Sprintf("%s:%s:", chapterRecordPrefix, docID)
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for chapter number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(number))
	return buf
}

// makeChapterPrefix returns the scan prefix covering a document's chapters.
func makeChapterPrefix(docID core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chapterRecordPrefix, docID))
}

// makeConceptKey generates a composite key for a concept.
// Format: prefix:documentID:seq
func makeConceptKey(docID core.DocumentID, seq uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:", conceptRecordPrefix, docID)
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for sequence number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeConceptPrefix returns the scan prefix covering a document's concepts.
func makeConceptPrefix(docID core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", conceptRecordPrefix, docID))
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:documentID:index
func makeChunkKey(docID core.DocumentID, index int) []byte {
	prefix := fmt.Sprintf("%s:%s:", chunkRecordPrefix, docID)
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for chunk index
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeChunkPrefix returns the scan prefix covering a document's chunks.
func makeChunkPrefix(docID core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chunkRecordPrefix, docID))
}
