package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-forge/internal/types"
)

// CreateJDAnalysis stores the raw JD text alongside its structured
// interpretation.
func (db *DB) CreateJDAnalysis(ctx context.Context, rawText string, data *types.JDData) (*types.JDRecord, error) {
	structured, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JD data: %w", err)
	}

	rec := types.JDRecord{RawText: rawText, StructuredData: data}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jd_analyses (raw_text, structured_data)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		rawText, structured,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create JD analysis: %w", err)
	}
	return &rec, nil
}

// GetJDAnalysis retrieves a stored JD analysis, embedding included.
// Returns (nil, nil) when not found.
func (db *DB) GetJDAnalysis(ctx context.Context, id uuid.UUID) (*types.JDRecord, error) {
	var rec types.JDRecord
	var structured, vecJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, raw_text, structured_data, embedding, created_at
		 FROM jd_analyses WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.RawText, &structured, &vecJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get JD analysis: %w", err)
	}

	if err := json.Unmarshal(structured, &rec.StructuredData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JD data: %w", err)
	}
	rec.Embedding = vectorFromJSON(vecJSON)
	return &rec, nil
}

// SetJDEmbedding attaches a computed embedding to a stored JD analysis.
func (db *DB) SetJDEmbedding(ctx context.Context, id uuid.UUID, vector []float32) error {
	vecJSON, err := vectorToJSON(vector)
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE jd_analyses SET embedding = $2 WHERE id = $1`, id, vecJSON)
	if err != nil {
		return fmt.Errorf("failed to set JD embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("JD analysis %s not found", id)
	}
	return nil
}
