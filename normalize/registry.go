package normalize

import "github.com/poiesic/curator/core"

// Registry tracks ids handed out during a single run so that two different
// logical entities never receive the same derived id. It is not safe for
// concurrent use; a run owns its registry.
type Registry struct {
	owners map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[string]string)}
}

// Identity returns the key that identifies an entry's logical entity: its
// normalized identity URL, or its title when it has no URL.
func Identity(entry *core.Entry) string {
	if u := IdentityURL(entry); u != "" {
		return u
	}
	return entry.Title
}

// Claim reserves id for identity. If id is already held by a different
// identity, the id is disambiguated with a short hash of identity and the
// disambiguated id is claimed instead.
func (r *Registry) Claim(id, identity string) string {
	if owner, ok := r.owners[id]; ok && owner != identity {
		id = Disambiguate(id, identity)
	}
	r.owners[id] = identity
	return id
}

// Owner returns the identity holding id, if any.
func (r *Registry) Owner(id string) (string, bool) {
	owner, ok := r.owners[id]
	return owner, ok
}

// Reserve records an existing id without disambiguation. It is used to seed
// the registry with ids that are already persisted.
func (r *Registry) Reserve(id, identity string) {
	if _, ok := r.owners[id]; !ok {
		r.owners[id] = identity
	}
}
