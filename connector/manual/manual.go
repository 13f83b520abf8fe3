// Package manual reads hand-curated projects, applications and blogs from a
// YAML file.
//
// The file has up to three top-level lists:
//
//	projects:
//	  - title: Curator
//	    repo_url: https://github.com/poiesic/curator
//	applications:
//	  - title: Dashboard
//	    demo_url: https://dash.example.com
//	blogs:
//	  - title: Talk notes
//	    url: https://example.com/talk
//
// Each record is decoded on its own, so one malformed record is reported as
// invalid without failing the rest of the file.
package manual

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
	"gopkg.in/yaml.v3"
)

// file is the top-level layout. Records stay as nodes until decoded one by one.
type file struct {
	Projects     []yaml.Node `yaml:"projects"`
	Applications []yaml.Node `yaml:"applications"`
	Blogs        []yaml.Node `yaml:"blogs"`
}

// record is one hand-written entry.
type record struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	RepoURL     string   `yaml:"repo_url"`
	DemoURL     string   `yaml:"demo_url"`
	ImageURL    string   `yaml:"image_url"`
	Platform    string   `yaml:"platform"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Body        string   `yaml:"body_content"`
	Featured    bool     `yaml:"featured"`
	IsPrivate   bool     `yaml:"is_private"`
}

// Source reads one YAML file.
type Source struct {
	path   string
	logger *slog.Logger
}

var _ connector.Source = (*Source)(nil)

// New creates a source for the file at path.
func New(path string) *Source {
	return &Source{
		path:   path,
		logger: slog.Default().With("component", "manual-source"),
	}
}

// Name identifies the source.
func (s *Source) Name() string {
	return "manual:" + s.path
}

// Fetch reads and decodes the file. An unreadable or unparseable file is a
// source failure.
func (s *Source) Fetch(ctx context.Context, known connector.Known) (iter.Seq[connector.Result], error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	results, err := Parse(bytes.NewReader(data), s.logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return connector.Slice(results), nil
}

// Parse decodes a manual file into results, projects first, then
// applications, then blogs.
func Parse(r io.Reader, logger *slog.Logger) ([]connector.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}

	var results []connector.Result
	for _, group := range []struct {
		kind  core.Kind
		nodes []yaml.Node
	}{
		{core.KindProject, f.Projects},
		{core.KindApplication, f.Applications},
		{core.KindBlog, f.Blogs},
	} {
		for i := range group.nodes {
			result := decode(&group.nodes[i], group.kind)
			if result.Status == connector.StatusInvalid {
				logger.Warn("skipping manual record", "kind", group.kind, "name", result.Name, "reason", result.Reason)
			}
			results = append(results, result)
		}
	}
	return results, nil
}

// decode converts one record node, validating the result.
func decode(node *yaml.Node, kind core.Kind) connector.Result {
	var rec record
	if err := node.Decode(&rec); err != nil {
		name := fmt.Sprintf("%s record at line %d", kind, node.Line)
		return connector.Skip(connector.StatusInvalid, name, err.Error())
	}

	entry := toEntry(rec, kind)
	if err := core.ValidateEntry(entry); err != nil {
		name := entry.Title
		if name == "" {
			name = fmt.Sprintf("%s record at line %d", kind, node.Line)
		}
		return connector.Skip(connector.StatusInvalid, name, err.Error())
	}
	return connector.Processed(entry)
}

// toEntry maps a record to an entry of kind.
func toEntry(rec record, kind core.Kind) *core.Entry {
	entry := &core.Entry{
		Kind:        kind,
		Title:       strings.TrimSpace(rec.Title),
		Summary:     rec.Summary,
		Description: rec.Description,
		URL:         normalize.URL(rec.URL),
		RepoURL:     normalize.URL(rec.RepoURL),
		DemoURL:     normalize.URL(rec.DemoURL),
		ImageURL:    rec.ImageURL,
		Platform:    rec.Platform,
		Date:        strings.TrimSpace(rec.Date),
		BodyContent: strings.TrimSpace(rec.Body),
		IsManual:    true,
		IsPrivate:   rec.IsPrivate,
		Featured:    rec.Featured,
	}
	for _, tag := range rec.Tags {
		entry.AddTag(tag)
	}

	entry.SourcePlatform = core.SourceManual
	if kind == core.KindApplication {
		entry.SourcePlatform = core.SourceApplication
		entry.Featured = true
	}
	if entry.BodyContent != "" {
		entry.ContentSource = entry.SourcePlatform
	}
	if id := strings.TrimSpace(rec.ID); id != "" {
		entry.ID = normalize.WithPrefix(entry.Prefix(), id)
	}
	return entry
}
