// Package reembed migrates stored embedding records to a new embedding
// model. Changing models invalidates every stored vector, so the whole
// tenant is re-embedded: records are streamed in batches, embedded with
// retry and exponential backoff, normalized, and written back in place.
// Record IDs, payloads, and insertion order never change.
package reembed
