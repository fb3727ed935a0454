package prescriptions

import "context"

// StoreConfig indica dónde vive el contenedor (path de archivo, DSN, etc).
type StoreConfig struct {
	Location string
}

// Store persiste el contenedor completo: siempre se lee y se reescribe entero.
type Store interface {
	// EnsureInitialized crea el contenedor vacío si no existe. Idempotente.
	EnsureInitialized(ctx context.Context) error
	LoadAll(ctx context.Context) ([]Prescription, error)
	SaveAll(ctx context.Context, records []Prescription) error
}
