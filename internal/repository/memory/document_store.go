package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/maheshrc27/foodblog-api/internal/repository"
)

type DocumentStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func (s *DocumentStore) Load(ctx context.Context, kind string, defaults []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[kind]
	if !ok {
		doc = slices.Clone(defaults)
		s.docs[kind] = doc
	}
	return slices.Clone(doc), nil
}

func (s *DocumentStore) LoadExisting(ctx context.Context, kind string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[kind]
	return slices.Clone(doc), ok, nil
}

func (s *DocumentStore) Update(ctx context.Context, kind string, defaults []byte, mutate func(current []byte) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[kind]
	if !ok {
		current = slices.Clone(defaults)
	}

	next, err := mutate(slices.Clone(current))
	if err != nil {
		return nil, err
	}
	s.docs[kind] = slices.Clone(next)
	return next, nil
}
