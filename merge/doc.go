// Package merge combines entries that describe the same logical item.
//
// Entries are matched by normalized identity URL, or by explicit id for
// declared records (see Key). Merging is field-level rather than
// whole-record: a live feed keeps the current title and date while an
// archive export keeps the full body, the AI summary and the paywall flag.
//
// # Usage
//
//	merged := merge.Merge(fromFeed, fromArchive)
package merge
