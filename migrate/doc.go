// Package migrate brings persisted records up to the current identity
// scheme.
//
// Records in a collection are grouped by normalized identity URL. Within a
// group the best-scored record (AI summary, then body, then tag count; the
// first seen wins ties) survives under a "{prefix}:{slug}" id and the rest
// are deleted. The survivor is written before anything is removed, so an
// interrupted migration never loses the only copy of a record. Records
// without a URL are left alone.
//
//	reports, err := migrate.New(collections).Run(ctx)
//
// Migration is idempotent: a second run over its own output plans nothing.
package migrate
