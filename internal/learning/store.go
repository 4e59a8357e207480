package learning

import (
	"context"
	"sync"
	"time"

	"github.com/baxromumarov/job-extractor/internal/scraper"
)

// Store serializes every update of the learning document: each RecordOutcome applies the
// outcome and writes the whole document while holding the lock.
type Store struct {
	persister Persister
	now       func() time.Time

	mu  sync.Mutex
	doc Document
}

// Open loads the document through p. The returned store is always usable: on a load error it
// starts empty and the error is returned for the caller to log.
func Open(ctx context.Context, p Persister) (*Store, error) {
	doc, err := p.Load(ctx)
	if err != nil || doc.Sites == nil {
		doc = NewDocument()
	}
	return &Store{persister: p, now: time.Now, doc: doc}, err
}

// RecordOutcome folds one result into the domain's profile and persists the document. rec is
// nil for failed scrapes. A persistence error leaves the in-memory update in place.
func (s *Store) RecordOutcome(ctx context.Context, domain string, rec *scraper.Record, sample float64) (Stats, error) {
	o := Outcome{Domain: domain, Sample: sample, At: s.now()}
	if rec != nil {
		o.Source = rec.Source
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = s.doc.Apply(o)
	err := s.persister.Save(ctx, s.doc)
	return s.doc.Stats(domain), err
}

// Stats returns the derived view for domain.
func (s *Store) Stats(domain string) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Stats(domain)
}

// Document returns a copy of the whole document.
func (s *Store) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// MemoryPersister keeps the document in memory. It is used when no durable backend is
// configured and in tests.
type MemoryPersister struct {
	mu  sync.Mutex
	doc *Document
}

func (m *MemoryPersister) Load(context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return NewDocument(), nil
	}
	return m.doc.Clone(), nil
}

func (m *MemoryPersister) Save(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := doc.Clone()
	m.doc = &c
	return nil
}
