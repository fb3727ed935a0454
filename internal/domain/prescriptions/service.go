package prescriptions

import (
	"context"
	"fmt"
	"sync"

	"prescription-matcher/internal/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	store Store
	log   logger.Logger

	// mu serializa load-append-save del upload; las búsquedas solo toman RLock.
	mu sync.RWMutex

	newID func() string
}

func NewService(store Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store: store,
		log:   log,
		newID: uuid.NewString,
	}
}

type SearchInput struct {
	Age      string
	Weight   string
	Symptoms string
}

// Init asegura que el contenedor exista.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.EnsureInitialized(ctx)
}

func (s *Service) Search(ctx context.Context, in SearchInput) ([]MatchResult, error) {
	q, err := ParseQuery(in.Age, in.Weight, in.Symptoms)
	if err != nil {
		s.log.Debug("search input rejected", map[string]any{"error": err.Error()})
		return nil, err
	}

	records, err := s.snapshot(ctx)
	if err != nil {
		s.log.Error("search failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	results := Search(records, q)
	if len(results) == 0 {
		s.log.Debug("no matching prescription found", map[string]any{
			"age":      q.Age,
			"weight":   q.Weight,
			"symptoms": q.Symptoms,
		})
	}
	s.log.Debug("search results", map[string]any{"count": len(results), "results": results})

	return results, nil
}

// Upload valida todo antes de tocar el store; si falla, el contenedor no cambia.
func (s *Service) Upload(ctx context.Context, fields map[string]string) (Prescription, error) {
	p, err := ValidateAndBuild(fields)
	if err != nil {
		s.log.Debug("upload input rejected", map[string]any{"error": err.Error()})
		return Prescription{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("upload failed loading container", map[string]any{"error": err.Error()})
		return Prescription{}, err
	}

	records = append(records, p)
	if err := s.store.SaveAll(ctx, records); err != nil {
		s.log.Error("upload failed saving container", map[string]any{"error": err.Error()})
		return Prescription{}, fmt.Errorf("save prescriptions: %w", err)
	}

	s.log.Info("prescription uploaded", map[string]any{
		"upload_id":    s.newID(),
		"prescription": p,
		"total":        len(records),
	})
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Prescription, error) {
	return s.snapshot(ctx)
}

func (s *Service) snapshot(ctx context.Context) ([]Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.LoadAll(ctx)
}
