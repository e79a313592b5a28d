package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/docquery/core"
)

// Key prefixes for different data types. Every data key embeds the tenant id
// directly after the prefix, so a prefix iteration over one tenant can never
// surface another tenant's records. The segment delimiter is ':'; tenant ids
// are rejected by core.ValidateTenantID if they contain it, otherwise one
// tenant's prefix could extend into another tenant's keyspace. Raw record ID
// bytes may still contain ':', so consumers verify parsed segments and record
// payloads rather than trusting prefix matches alone.
const (
	recordPrefix   = "embrec"
	docIndexPrefix = "embdoc"
	recordSeqName  = "embrecseq"
)

// makeTenantPrefix generates the iteration prefix covering all of one
// tenant's records. Format: prefix:tenant:
func makeTenantPrefix(tenantID string) []byte {
	return []byte(recordPrefix + ":" + tenantID + ":")
}

// makeRecordKey generates the key for an embedding record.
// Format: prefix:tenant:id, with the ID in BigEndian so keys sort stably.
func makeRecordKey(tenantID string, id core.ID) []byte {
	prefix := makeTenantPrefix(tenantID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTenantDocPrefix generates the iteration prefix covering all document
// index entries of one tenant. Format: prefix:tenant:
func makeTenantDocPrefix(tenantID string) []byte {
	return []byte(docIndexPrefix + ":" + tenantID + ":")
}

// makeDocPrefix generates the iteration prefix covering one document's index
// entries. Format: prefix:tenant:documentID:
func makeDocPrefix(tenantID, documentID string) []byte {
	return []byte(docIndexPrefix + ":" + tenantID + ":" + documentID + ":")
}

// makeDocIndexKey generates a composite key for the document index.
// Format: prefix:tenant:documentID:recordID
func makeDocIndexKey(tenantID, documentID string, id core.ID) []byte {
	prefix := makeDocPrefix(tenantID, documentID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// docIDFromIndexKey extracts the document id segment from a document index key.
// Returns "" if the key doesn't match the expected layout.
func docIDFromIndexKey(tenantID string, key []byte) string {
	prefix := string(makeTenantDocPrefix(tenantID))
	rest, ok := strings.CutPrefix(string(key), prefix)
	if !ok {
		return ""
	}
	// rest is documentID:<8-byte record ID>; the record ID bytes may contain
	// ':' so the separator position is fixed, not searched.
	if len(rest) < 9 || rest[len(rest)-9] != ':' {
		return ""
	}
	return rest[:len(rest)-9]
}
