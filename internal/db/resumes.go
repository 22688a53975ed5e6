package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// Resumes are stored as JSONB documents. The identity, owner and timestamp
// columns are authoritative and overwrite whatever the document holds.

const resumeColumns = `id, user_id, document, created_at, updated_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var (
		id, ownerID          uuid.UUID
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var r types.Resume
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("failed to decode resume document %s: %w", id, err)
	}
	r.ID = id
	r.OwnerID = ownerID
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return &r, nil
}

// InsertResume stores a new resume document.
func (db *DB) InsertResume(ctx context.Context, r *types.Resume) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, template_id, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.OwnerID, r.Title, r.TemplateID, doc, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	return nil
}

// ListResumesByOwner returns the owner's resumes, newest first.
func (db *DB) ListResumesByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}

// GetResumeByOwner returns nil, nil when the resume does not exist or has a
// different owner.
func (db *DB) GetResumeByOwner(ctx context.Context, ownerID, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResume replaces the stored document of r. It reports false when no
// resume with r's id and owner exists.
func (db *DB) UpdateResume(ctx context.Context, r *types.Resume) (bool, error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("failed to marshal resume: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes
		 SET title = $1, template_id = $2, document = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6`,
		r.Title, r.TemplateID, doc, r.UpdatedAt, r.ID, r.OwnerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteResumeByOwner deletes the resume if the owner matches.
func (db *DB) DeleteResumeByOwner(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
