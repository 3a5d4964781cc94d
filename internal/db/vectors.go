package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-forge/internal/types"
)

// SaveProfileVectors writes freshly computed bullet embeddings and experience
// section vectors back to the profile. All writes happen in one transaction
// under an advisory lock keyed by the profile, so two generations filling the
// same cold cache do not interleave.
func (db *DB) SaveProfileVectors(ctx context.Context, profile *types.Profile) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin vector save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		profile.ID.String()); err != nil {
		return fmt.Errorf("failed to acquire vector lock: %w", err)
	}

	var saved int
	for i := range profile.Experiences {
		exp := &profile.Experiences[i]
		for j := range exp.Bullets {
			b := &exp.Bullets[j]
			if b.Vector == nil {
				continue
			}
			if err := saveVector(ctx, tx, "experience_bullets", b.ID, "embedding", b.Vector); err != nil {
				return err
			}
			saved++
		}
		if exp.SectionVector != nil {
			if err := saveVector(ctx, tx, "experiences", exp.ID, "section_vector", exp.SectionVector); err != nil {
				return err
			}
			saved++
		}
	}
	for i := range profile.Projects {
		proj := &profile.Projects[i]
		for j := range proj.Bullets {
			b := &proj.Bullets[j]
			if b.Vector == nil {
				continue
			}
			if err := saveVector(ctx, tx, "project_bullets", b.ID, "embedding", b.Vector); err != nil {
				return err
			}
			saved++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit vector save: %w", err)
	}
	if saved > 0 {
		log.Printf("[db] saved %d vectors for profile %s", saved, profile.ID)
	}
	return nil
}

func saveVector(ctx context.Context, tx pgx.Tx, table string, id uuid.UUID, column string, vector []float32) error {
	vecJSON, err := vectorToJSON(vector)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE id = $1`, table, column)
	if _, err := tx.Exec(ctx, query, id, vecJSON); err != nil {
		return fmt.Errorf("failed to save vector to %s: %w", table, err)
	}
	return nil
}

func vectorToJSON(vector []float32) ([]byte, error) {
	data, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vector: %w", err)
	}
	return data, nil
}

// vectorFromJSON decodes a stored JSONB float array. A NULL column or
// malformed payload yields nil, which the pipeline treats as a cache miss.
func vectorFromJSON(raw []byte) []float32 {
	if len(raw) == 0 {
		return nil
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		log.Printf("[db] discarding malformed stored vector: %v", err)
		return nil
	}
	return vector
}
