package redis

import (
	"fmt"

	"github.com/poiesic/curator/core"
)

// DefaultKeyPrefix namespaces every key curator writes.
const DefaultKeyPrefix = "curator"

// DocumentKey returns the key holding one document.
// Format: prefix:collection:doc:id
func DocumentKey(prefix string, kind core.Kind, id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", prefix, kind, id)
}

// IDSetKey returns the key of the set listing a collection's document ids.
// Format: prefix:collection:ids
func IDSetKey(prefix string, kind core.Kind) string {
	return fmt.Sprintf("%s:%s:ids", prefix, kind)
}
