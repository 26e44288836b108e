// Package reindex rebuilds a document's vector index from the chunk
// lookup table.
//
// The lookup table is the authoritative store of chunk text; the vector
// index is derived data. When the index diverges (failed upserts, a wiped
// or migrated vector database, a changed embedding model), a Reindexer
// re-embeds the stored chunks in batches and upserts them under their
// deterministic ids, overwriting whatever the index held before.
package reindex
