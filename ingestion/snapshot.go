package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
	"github.com/poiesic/curator/storage"
)

// snapshot indexes the persisted records of one collection. It is loaded
// once per source and kept current as the source writes.
type snapshot struct {
	byURL   map[string]*core.Entry
	byID    map[string]*core.Entry
	byTitle map[string][]*core.Entry
}

func loadSnapshot(ctx context.Context, coll storage.Collection) (*snapshot, error) {
	docs, err := coll.List(ctx)
	if err != nil {
		return nil, err
	}
	s := &snapshot{
		byURL:   make(map[string]*core.Entry, len(docs)),
		byID:    make(map[string]*core.Entry, len(docs)),
		byTitle: make(map[string][]*core.Entry, len(docs)),
	}
	for _, doc := range docs {
		s.put(doc)
	}
	return s, nil
}

func titleKey(title string) string {
	return strings.TrimSpace(title)
}

// put adds or replaces doc in every index.
func (s *snapshot) put(doc *core.Entry) {
	if prev, ok := s.byID[doc.ID]; ok {
		s.remove(prev)
	}
	s.byID[doc.ID] = doc
	for _, u := range doc.CanonicalURLs() {
		if n := normalize.URL(u); n != "" {
			if _, taken := s.byURL[n]; !taken {
				s.byURL[n] = doc
			}
		}
	}
	if t := titleKey(doc.Title); t != "" {
		s.byTitle[t] = append(s.byTitle[t], doc)
	}
}

func (s *snapshot) remove(doc *core.Entry) {
	delete(s.byID, doc.ID)
	for u, held := range s.byURL {
		if held.ID == doc.ID {
			delete(s.byURL, u)
		}
	}
	t := titleKey(doc.Title)
	docs := s.byTitle[t]
	for i, held := range docs {
		if held.ID == doc.ID {
			s.byTitle[t] = append(docs[:i:i], docs[i+1:]...)
			break
		}
	}
	if len(s.byTitle[t]) == 0 {
		delete(s.byTitle, t)
	}
}

// lookup finds the persisted record for entry: by canonical URL, then by
// explicit id, then by title when the entry has neither. A title shared
// by several records is ambiguous and never guessed.
func (s *snapshot) lookup(entry *core.Entry) (*core.Entry, error) {
	urls := entry.CanonicalURLs()
	for _, u := range urls {
		if doc, ok := s.byURL[normalize.URL(u)]; ok {
			return doc, nil
		}
	}
	if entry.ID != "" {
		if doc, ok := s.byID[entry.ID]; ok {
			return doc, nil
		}
	}
	if len(urls) > 0 || entry.ID != "" {
		return nil, nil
	}

	switch matches := s.byTitle[titleKey(entry.Title)]; len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d records; declare an id or url",
			core.ErrAmbiguousTitle, entry.Title, len(matches))
	}
}

// enrichedURLs lists the identity URLs of records that carry an AI summary
// and whose body came from a content-authoritative source. A record holding
// only a feed excerpt stays open to the full archived body.
func (s *snapshot) enrichedURLs() []string {
	var urls []string
	for _, doc := range s.byID {
		if doc.AISummary == "" || !core.IsContentAuthoritative(doc.EffectiveContentSource()) {
			continue
		}
		if u := normalize.IdentityURL(doc); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
