// Package ingestion orchestrates one ingestion run.
//
// A Pipeline runs the identity migrator, then drains each source in the
// order given. Every processed entry is normalized, merged with earlier
// entries from the same run and with the matching persisted record,
// enriched when it has not been enriched before, and upserted.
//
// Failures are isolated: an item failure is counted and the run moves on,
// a source failure skips to the next source. Run always returns a Report.
package ingestion
