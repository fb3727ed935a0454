// Package jsonfile guarda el contenedor como un único archivo JSON (array de registros).
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"prescription-matcher/internal/domain/prescriptions"
	"prescription-matcher/internal/platform/logger"
)

const indent = "    "

type Store struct {
	path string
	log  logger.Logger
}

func NewStore(cfg prescriptions.StoreConfig, log logger.Logger) (*Store, error) {
	path := strings.TrimSpace(cfg.Location)
	if path == "" {
		return nil, errors.New("jsonfile: location required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		path: path,
		log:  log.With(map[string]any{"store": "jsonfile", "path": path}),
	}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) EnsureInitialized(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat container: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create container dir: %w", err)
		}
	}

	// O_EXCL: si otro proceso lo creó entre el Stat y acá, no lo pisamos.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create container: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("[]")); err != nil {
		return fmt.Errorf("write empty container: %w", err)
	}
	s.log.Info("container initialized", nil)
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	records, err := decode(b)
	if err != nil {
		s.log.Error("container unreadable", map[string]any{"error": err.Error()})
		return nil, &prescriptions.StorageCorruptError{Location: s.path, Err: err}
	}

	s.log.Debug("loaded prescriptions", map[string]any{"count": len(records), "records": records})
	return records, nil
}

// SaveAll reescribe el contenedor completo: temp file en el mismo dir + rename.
func (s *Store) SaveAll(ctx context.Context, records []prescriptions.Prescription) error {
	if records == nil {
		records = []prescriptions.Prescription{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode container: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp container: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp container: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp container: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp container: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp container: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace container: %w", err)
	}

	s.log.Debug("saved prescriptions", map[string]any{"count": len(records), "records": records})
	return nil
}

// wireRecord detecta claves faltantes (el struct de dominio usaría zero values).
type wireRecord struct {
	Medicine  *string   `json:"medicine"`
	Dosage    *string   `json:"dosage"`
	AgeMin    *int      `json:"age_min"`
	AgeMax    *int      `json:"age_max"`
	WeightMin *float64  `json:"weight_min"`
	WeightMax *float64  `json:"weight_max"`
	Symptoms  *[]string `json:"symptoms"`
}

func decode(b []byte) ([]prescriptions.Prescription, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array of prescriptions")
	}

	var wire []wireRecord
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, err
	}

	out := make([]prescriptions.Prescription, 0, len(wire))
	for i, w := range wire {
		if w.Medicine == nil || w.Dosage == nil || w.AgeMin == nil || w.AgeMax == nil ||
			w.WeightMin == nil || w.WeightMax == nil || w.Symptoms == nil {
			return nil, fmt.Errorf("record %d: missing required keys", i)
		}
		syms := *w.Symptoms
		if syms == nil {
			syms = []string{}
		}
		out = append(out, prescriptions.Prescription{
			Medicine:  *w.Medicine,
			Dosage:    *w.Dosage,
			AgeMin:    *w.AgeMin,
			AgeMax:    *w.AgeMax,
			WeightMin: *w.WeightMin,
			WeightMax: *w.WeightMax,
			Symptoms:  syms,
		})
	}
	return out, nil
}
