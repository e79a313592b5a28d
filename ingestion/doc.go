// Package ingestion turns uploaded documents into stored embedding records.
//
// The pipeline extracts text, splits it into overlapping rune windows,
// embeds the windows in one batched call, and upserts the resulting
// records under the owning tenant. Chunk IDs are derived from the
// document ID and chunk index, so re-ingesting a document overwrites
// its previous records instead of duplicating them.
package ingestion
