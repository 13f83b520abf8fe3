package ingestion

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/migrate"
)

// Stats counts what happened to one source during a run.
type Stats struct {
	Source string

	Fetched      int
	Created      int
	Updated      int
	Unchanged    int
	Enriched     int
	EnrichFailed int
	Errors       int
	Skipped      map[connector.Status]int

	// Failed is set when the source could not be processed to the end.
	Failed bool
	Err    error
}

func newStats(source string) *Stats {
	return &Stats{Source: source, Skipped: make(map[connector.Status]int)}
}

// SkippedTotal returns the number of skipped items across all reasons.
func (s *Stats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

func (s *Stats) fail(err error) {
	s.Failed = true
	s.Err = err
}

// skipDetail renders the skip breakdown as "reason=n" pairs sorted by reason.
func (s *Stats) skipDetail() string {
	statuses := make([]string, 0, len(s.Skipped))
	for status, n := range s.Skipped {
		if n > 0 {
			statuses = append(statuses, string(status))
		}
	}
	slices.Sort(statuses)
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = fmt.Sprintf("%s=%d", status, s.Skipped[connector.Status(status)])
	}
	return strings.Join(parts, " ")
}

// Report is the outcome of one run.
type Report struct {
	Migration    []migrate.Report
	MigrationErr error
	// MigrationSkipped is set when the run was configured without a migrator.
	MigrationSkipped bool

	Sources []*Stats

	Started  time.Time
	Finished time.Time
}

// Totals sums the per-source counters.
func (r *Report) Totals() *Stats {
	total := newStats("total")
	for _, s := range r.Sources {
		total.Fetched += s.Fetched
		total.Created += s.Created
		total.Updated += s.Updated
		total.Unchanged += s.Unchanged
		total.Enriched += s.Enriched
		total.EnrichFailed += s.EnrichFailed
		total.Errors += s.Errors
		for status, n := range s.Skipped {
			total.Skipped[status] += n
		}
	}
	return total
}

// Source returns the stats for the named source, or nil.
func (r *Report) Source(name string) *Stats {
	for _, s := range r.Sources {
		if s.Source == name {
			return s
		}
	}
	return nil
}

// WriteTo prints the run summary as a table.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)

	switch {
	case r.MigrationSkipped:
		fmt.Fprintln(tw, "migration:\tskipped")
	default:
		groups, renamed, deleted := 0, 0, 0
		for _, m := range r.Migration {
			groups += m.Groups
			renamed += m.Renamed
			deleted += m.Deleted
		}
		fmt.Fprintf(tw, "migration:\t%d groups, %d renamed, %d deleted\n", groups, renamed, deleted)
		if r.MigrationErr != nil {
			fmt.Fprintf(tw, "migration errors:\t%v\n", r.MigrationErr)
		}
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SOURCE\tFETCHED\tCREATED\tUPDATED\tUNCHANGED\tENRICHED\tENRICH FAILED\tSKIPPED\tERRORS\tSTATUS")
	for _, s := range r.Sources {
		writeRow(tw, s)
	}
	if len(r.Sources) > 1 {
		writeRow(tw, r.Totals())
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}

	for _, s := range r.Sources {
		if detail := s.skipDetail(); detail != "" {
			fmt.Fprintf(cw, "%s skipped: %s\n", s.Source, detail)
		}
	}
	if !r.Started.IsZero() && !r.Finished.IsZero() {
		fmt.Fprintf(cw, "finished in %s\n", r.Finished.Sub(r.Started).Round(time.Millisecond))
	}
	return cw.n, cw.err
}

func writeRow(w io.Writer, s *Stats) {
	status := "ok"
	switch {
	case s.Failed && s.Err != nil:
		status = "failed: " + s.Err.Error()
	case s.Failed:
		status = "failed"
	}
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
		s.Source, s.Fetched, s.Created, s.Updated, s.Unchanged,
		s.Enriched, s.EnrichFailed, s.SkippedTotal(), s.Errors, status)
}

// countingWriter tracks bytes written and the first error.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
