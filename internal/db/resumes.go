package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-forge/internal/types"
)

// CreateResumeWithSections persists a generated resume and its section blobs
// atomically. The version number is computed inside the same transaction as
// 1 + the count of existing resumes for the (profile, job title) pair; an
// advisory lock on that pair serializes concurrent generations.
func (db *DB) CreateResumeWithSections(ctx context.Context, profileID, jdID uuid.UUID, jobTitle, filePath string, sections []types.SectionBlob) (*types.ResumeRecord, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin resume insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`,
		profileID.String(), jobTitle); err != nil {
		return nil, fmt.Errorf("failed to acquire version lock: %w", err)
	}

	rec := types.ResumeRecord{
		ProfileID: profileID,
		JDID:      jdID,
		JobTitle:  jobTitle,
		FilePath:  filePath,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO resumes (profile_id, jd_id, job_title, version, file_path)
		 VALUES ($1, NULLIF($2, '00000000-0000-0000-0000-000000000000'::uuid), $3,
		         1 + (SELECT COUNT(*) FROM resumes WHERE profile_id = $1 AND job_title = $3),
		         $4)
		 RETURNING id, version, created_at`,
		profileID, jdID, jobTitle, filePath,
	).Scan(&rec.ID, &rec.Version, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	for i, s := range sections {
		if _, err := tx.Exec(ctx,
			`INSERT INTO resume_sections (resume_id, position, section_type, content, confidence_flags)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, i, s.SectionType, []byte(s.Content), nullableJSON(s.ConfidenceFlags)); err != nil {
			return nil, fmt.Errorf("failed to create resume section %q: %w", s.SectionType, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resume insert: %w", err)
	}
	return &rec, nil
}

// UpdateResumeFilePath records where the rendered artifact landed on disk.
func (db *DB) UpdateResumeFilePath(ctx context.Context, id uuid.UUID, filePath string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET file_path = $2 WHERE id = $1`, id, filePath)
	if err != nil {
		return fmt.Errorf("failed to update resume file path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume %s not found", id)
	}
	return nil
}

// ListResumesByProfile returns resume summaries for a profile, newest first.
func (db *DB) ListResumesByProfile(ctx context.Context, profileID uuid.UUID) ([]types.ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, job_title, version, file_path, created_at
		 FROM resumes WHERE profile_id = $1
		 ORDER BY created_at DESC, version DESC`,
		profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []types.ResumeSummary{}
	for rows.Next() {
		var s types.ResumeSummary
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.JobTitle, &s.Version, &s.FilePath, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetResume retrieves one resume record. Returns (nil, nil) when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.ResumeRecord, error) {
	var rec types.ResumeRecord
	var jdID *uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, jd_id, job_title, version, file_path, created_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ProfileID, &jdID, &rec.JobTitle, &rec.Version, &rec.FilePath, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if jdID != nil {
		rec.JDID = *jdID
	}
	return &rec, nil
}

// GetResumeSections returns the stored section blobs for a resume in
// document order.
func (db *DB) GetResumeSections(ctx context.Context, resumeID uuid.UUID) ([]types.ResumeSection, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, section_type, content, confidence_flags
		 FROM resume_sections WHERE resume_id = $1
		 ORDER BY position`,
		resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume sections: %w", err)
	}
	defer rows.Close()

	sections := []types.ResumeSection{}
	for rows.Next() {
		var s types.ResumeSection
		var content, flags []byte
		if err := rows.Scan(&s.ID, &s.ResumeID, &s.SectionType, &content, &flags); err != nil {
			return nil, fmt.Errorf("failed to scan resume section: %w", err)
		}
		s.Content = content
		s.ConfidenceFlags = flags
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
