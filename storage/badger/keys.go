package badger

import (
	"fmt"

	"github.com/poiesic/curator/core"
)

// Key prefix for documents
const documentPrefix = "doc"

// makeDocumentKey generates a key for a document.
// Format: doc:collection:id
func makeDocumentKey(kind core.Kind, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentPrefix, kind, id))
}

// makeCollectionPrefix generates the key prefix shared by every document in
// a collection. Format: doc:collection:
func makeCollectionPrefix(kind core.Kind) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentPrefix, kind))
}
