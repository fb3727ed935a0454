package prescriptions

import (
	"errors"
	"fmt"
)

var (
	ErrInputFormat    = errors.New("input format")
	ErrValidation     = errors.New("validation")
	ErrStorageCorrupt = errors.New("storage corrupt")
)

// InputFormatError: un campo no parsea como su tipo declarado.
type InputFormatError struct {
	Field string
	Value string
	Want  string // "integer" | "number"
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("%s must be a valid %s, got %q", e.Field, e.Want, e.Value)
}

func (e *InputFormatError) Is(target error) bool { return target == ErrInputFormat }

// ValidationError: input bien tipado pero semánticamente inválido.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageCorruptError: el contenedor existe pero no tiene la forma esperada.
type StorageCorruptError struct {
	Location string
	Err      error
}

func (e *StorageCorruptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage corrupt at %s", e.Location)
	}
	return fmt.Sprintf("storage corrupt at %s: %v", e.Location, e.Err)
}

func (e *StorageCorruptError) Unwrap() error { return e.Err }

func (e *StorageCorruptError) Is(target error) bool { return target == ErrStorageCorrupt }
