package memory

import (
	"context"
	"sync"

	"prescription-matcher/internal/domain/prescriptions"
)

// Store mantiene el contenedor en memoria (modo dev / tests).
// Guarda copias para que quien llama no mute el snapshot.
type Store struct {
	mu          sync.RWMutex
	initialized bool
	records     []prescriptions.Prescription
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreWith arranca con registros precargados (ya inicializado).
func NewStoreWith(records []prescriptions.Prescription) *Store {
	return &Store{
		initialized: true,
		records:     clone(records),
	}
}

func (s *Store) EnsureInitialized(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.initialized = true
		s.records = []prescriptions.Prescription{}
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.records), nil
}

func (s *Store) SaveAll(ctx context.Context, records []prescriptions.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = clone(records)
	return nil
}

func clone(in []prescriptions.Prescription) []prescriptions.Prescription {
	out := make([]prescriptions.Prescription, 0, len(in))
	for _, p := range in {
		syms := make([]string, len(p.Symptoms))
		copy(syms, p.Symptoms)
		p.Symptoms = syms
		out = append(out, p)
	}
	return out
}
