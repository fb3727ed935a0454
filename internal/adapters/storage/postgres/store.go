package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"prescription-matcher/internal/domain/prescriptions"
	"prescription-matcher/internal/platform/logger"
)

// Store guarda el contenedor en una tabla; position conserva el orden del array.
// SaveAll reemplaza la tabla completa dentro de una transacción.
type Store struct {
	db       *sql.DB
	location string
	log      logger.Logger
}

func NewStore(db *sql.DB, cfg prescriptions.StoreConfig, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	loc := cfg.Location
	if loc == "" {
		loc = "postgres"
	}
	return &Store{
		db:       db,
		location: loc,
		log:      log.With(map[string]any{"store": "postgres"}),
	}
}

func (s *Store) EnsureInitialized(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS prescriptions (
			position   INTEGER PRIMARY KEY,
			medicine   TEXT NOT NULL,
			dosage     TEXT NOT NULL,
			age_min    INTEGER NOT NULL,
			age_max    INTEGER NOT NULL,
			weight_min DOUBLE PRECISION NOT NULL,
			weight_max DOUBLE PRECISION NOT NULL,
			symptoms   JSONB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create prescriptions table: %w", err)
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			medicine, dosage,
			age_min, age_max,
			weight_min, weight_max,
			symptoms
		FROM prescriptions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prescriptions.Prescription, 0)
	for rows.Next() {
		var p prescriptions.Prescription
		var syms []byte
		if err := rows.Scan(
			&p.Medicine,
			&p.Dosage,
			&p.AgeMin,
			&p.AgeMax,
			&p.WeightMin,
			&p.WeightMax,
			&syms,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(syms, &p.Symptoms); err != nil || p.Symptoms == nil {
			if err == nil {
				err = fmt.Errorf("symptoms must be a JSON array")
			}
			return nil, &prescriptions.StorageCorruptError{Location: s.location, Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.log.Debug("loaded prescriptions", map[string]any{"count": len(out), "records": out})
	return out, nil
}

func (s *Store) SaveAll(ctx context.Context, records []prescriptions.Prescription) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM prescriptions`); err != nil {
		return err
	}

	for i, p := range records {
		syms := p.Symptoms
		if syms == nil {
			syms = []string{}
		}
		var b []byte
		b, err = json.Marshal(syms)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO prescriptions (
				position,
				medicine, dosage,
				age_min, age_max,
				weight_min, weight_max,
				symptoms
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			i,
			p.Medicine,
			p.Dosage,
			p.AgeMin,
			p.AgeMax,
			p.WeightMin,
			p.WeightMax,
			string(b),
		)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	s.log.Debug("saved prescriptions", map[string]any{"count": len(records), "records": records})
	return nil
}
