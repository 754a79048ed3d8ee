package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It mirrors the document semantics of the Firestore adapter: merge writes,
// equality queries, atomic batch deletes.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
}

func NewMemory() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) col(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.col(collection)[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: copyFields(fields)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	c := s.col(collection)
	doc, ok := c[id]
	if !ok {
		doc = make(map[string]any)
		c[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.col(collection)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.col(collection), id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []Document
	for id, fields := range s.col(collection) {
		if matches(fields, q.Filters) {
			docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
		}
	}
	if q.OrderBy != "" {
		sort.Slice(docs, func(i, j int) bool {
			c := compareValues(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *MemoryStore) BatchDelete(ctx context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.col(collection)
	for _, id := range ids {
		delete(c, id)
	}
	return nil
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(fields[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case int:
		if bv, ok := b.(int); ok {
			return av - bv
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return comparePrinted(a, b)
}

// comparePrinted is the fallback for mismatched or unhandled types; ordering
// only needs to be stable, not meaningful.
func comparePrinted(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
