// Package resume owns the resume document lifecycle: creation with defaults,
// owner-scoped reads, whitelist merges and deletion with asset cleanup.
package resume

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
)

// Repository persists resume documents. Every read and write is scoped to an
// owner; a resume owned by someone else behaves exactly like a missing one.
type Repository interface {
	InsertResume(ctx context.Context, r *types.Resume) error
	ListResumesByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Resume, error)
	// GetResumeByOwner returns nil, nil when no such resume exists for the owner.
	GetResumeByOwner(ctx context.Context, ownerID, id uuid.UUID) (*types.Resume, error)
	// UpdateResume replaces the stored document. It reports false when the
	// resume no longer exists for its owner.
	UpdateResume(ctx context.Context, r *types.Resume) (bool, error)
	DeleteResumeByOwner(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

// AssetRemover deletes an uploaded file by the reference stored on a resume.
// Deleting a missing file is not an error.
type AssetRemover interface {
	Delete(ctx context.Context, ref string) error
}

// DeleteResult reports asset cleanup problems for a successful delete.
type DeleteResult struct {
	Warnings []AssetDeletionWarning
}

// Store implements the resume operations on top of a Repository.
type Store struct {
	repo   Repository
	assets AssetRemover
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewStore creates a Store. assets may be nil, in which case deletes skip
// asset cleanup.
func NewStore(repo Repository, assets AssetRemover) *Store {
	return &Store{
		repo:   repo,
		assets: assets,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:  uuid.New,
	}
}

// Create stores a new resume for ownerID. overrides, if non-empty, is merged
// over the defaults with the same rules as Update; the title argument wins over
// any title it carries.
func (s *Store) Create(ctx context.Context, ownerID uuid.UUID, title string, overrides json.RawMessage) (*types.Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}

	p, err := parsePatch(overrides)
	if err != nil {
		return nil, err
	}
	delete(p, "title")
	merged, applied, err := applyPatch(ctx, *types.NewResume(ownerID, title), p)
	if err != nil {
		return nil, err
	}

	now := s.now()
	merged.ID = s.newID()
	merged.OwnerID = ownerID
	merged.CreatedAt = now
	merged.UpdatedAt = now

	if err := s.repo.InsertResume(ctx, &merged); err != nil {
		return nil, &StorageError{Op: "insert resume", Cause: err}
	}

	log.Ctx(ctx).Debug().
		Str("resume_id", merged.ID.String()).
		Str("owner_id", ownerID.String()).
		Strs("fields", applied).
		Msg("resume created")
	return &merged, nil
}

// List returns the owner's resumes, most recently created first.
func (s *Store) List(ctx context.Context, ownerID uuid.UUID) ([]types.Resume, error) {
	resumes, err := s.repo.ListResumesByOwner(ctx, ownerID)
	if err != nil {
		return nil, &StorageError{Op: "list resumes", Cause: err}
	}
	if resumes == nil {
		resumes = []types.Resume{}
	}
	for i := range resumes {
		resumes[i].Normalize()
	}
	return resumes, nil
}

// Get returns one resume belonging to ownerID.
func (s *Store) Get(ctx context.Context, ownerID, id uuid.UUID) (*types.Resume, error) {
	r, err := s.repo.GetResumeByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, &StorageError{Op: "get resume", Cause: err}
	}
	if r == nil {
		return nil, &NotFoundError{ID: id}
	}
	r.Normalize()
	return r, nil
}

// Update merges partial into the owner's resume and persists the result.
// Only whitelisted top-level keys are applied; each replaces its field wholesale.
func (s *Store) Update(ctx context.Context, ownerID, id uuid.UUID, partial json.RawMessage) (*types.Resume, error) {
	// Reject bad payloads before touching storage.
	p, err := parsePatch(partial)
	if err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	merged, applied, err := applyPatch(ctx, *current, p)
	if err != nil {
		return nil, err
	}
	merged.ID = current.ID
	merged.OwnerID = current.OwnerID
	merged.CreatedAt = current.CreatedAt
	merged.UpdatedAt = s.now()

	ok, err := s.repo.UpdateResume(ctx, &merged)
	if err != nil {
		return nil, &StorageError{Op: "update resume", Cause: err}
	}
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	log.Ctx(ctx).Debug().
		Str("resume_id", id.String()).
		Strs("fields", applied).
		Msg("resume updated")
	return &merged, nil
}

// Delete removes the owner's resume and then its uploaded assets. Asset
// failures are logged and reported in the result; they never fail the call.
func (s *Store) Delete(ctx context.Context, ownerID, id uuid.UUID) (*DeleteResult, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.DeleteResumeByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, &StorageError{Op: "delete resume", Cause: err}
	}
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	result := &DeleteResult{}
	if s.assets == nil {
		return result, nil
	}
	for _, ref := range current.AssetRefs() {
		if err := s.assets.Delete(ctx, ref); err != nil {
			w := AssetDeletionWarning{Ref: ref, Cause: err}
			result.Warnings = append(result.Warnings, w)
			log.Ctx(ctx).Warn().
				Err(err).
				Str("resume_id", id.String()).
				Str("asset", ref).
				Msg("failed to delete resume asset")
		}
	}
	return result, nil
}
