package school

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/zourte2486/school-platform-test/internal/db"
	"github.com/zourte2486/school-platform-test/internal/logger"
	"github.com/zourte2486/school-platform-test/internal/model"
	"github.com/zourte2486/school-platform-test/internal/storage"
	"github.com/zourte2486/school-platform-test/pkg/errors"

	"github.com/rs/zerolog"
)

// PendingMarkers records blob locators between upload and the committed
// insert so the reconciler can sweep orphans. Both calls are best-effort
// from the pipeline's point of view.
type PendingMarkers interface {
	Add(ctx context.Context, locator string) error
	Clear(ctx context.Context, locator string) error
}

// Service runs the ingestion and deletion pipelines and the listing
// read-through. Invocations are fully independent; the repository pool and
// the blob store client are the only shared resources.
type Service struct {
	repo      db.SchoolRepository
	blobs     storage.BlobStore
	markers   PendingMarkers
	validator *Validator
	log       zerolog.Logger
}

// NewService wires the pipelines. markers may be nil, which disables
// orphan tracking.
func NewService(repo db.SchoolRepository, blobs storage.BlobStore, markers PendingMarkers) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		markers:   markers,
		validator: NewValidator(),
		log:       logger.Get(),
	}
}

// Ingest validates the submission, uploads the image, and inserts the
// record, strictly in that order. The insert is never attempted without a
// successful upload, and no upload happens for a rejected submission.
func (s *Service) Ingest(ctx context.Context, sub model.SchoolSubmission) (*model.IngestResult, error) {
	if s.hasMissingFields(sub) {
		return nil, errors.NewValidation(errors.ErrMissingFields)
	}

	if err := s.validator.ValidateFields(sub); err != nil {
		return nil, errors.NewValidation(err)
	}

	if err := s.validator.ValidateImage(sub.Image); err != nil {
		return nil, err
	}

	locator, err := s.blobs.Upload(ctx, sub.Image)
	if err != nil {
		s.log.Error().Err(err).Str("name", sub.Name).Msg("Image upload failed")
		return nil, errors.NewStorageUnavailable(err)
	}

	// Mark the upload pending until the insert commits. A failure here only
	// weakens orphan cleanup, never the ingestion itself.
	s.markPending(ctx, locator)

	id, err := s.repo.Insert(ctx, sub, locator)
	if err != nil {
		s.log.Error().Err(err).Str("image", locator).Msg("Record insert failed after upload")
		return nil, errors.NewPersistenceFailed(err)
	}

	s.clearPending(ctx, locator)

	s.log.Info().Int64("id", id).Str("name", sub.Name).Str("image", locator).Msg("School ingested")
	return &model.IngestResult{ID: id, Image: locator}, nil
}

// Delete removes the record and then tries to remove its blob. Blob
// deletion is best-effort: a failure is logged and left to the reconciler,
// never surfaced to the caller.
func (s *Service) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFound()
		}
		return errors.NewPersistenceFailed(err)
	}

	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return errors.NewPersistenceFailed(err)
	}
	if affected == 0 {
		// Lost a race with a concurrent delete.
		return errors.NewPersistenceFailed(stderrors.New("no rows deleted"))
	}

	if err := s.blobs.Delete(ctx, record.Image); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Str("image", record.Image).
			Msg("Blob delete failed, leaving marker for reconciler")
		s.markPending(ctx, record.Image)
	}

	s.log.Info().Int64("id", id).Msg("School deleted")
	return nil
}

// ListAll returns the full table snapshot, most recently created first.
func (s *Service) ListAll(ctx context.Context) ([]model.School, error) {
	schools, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewPersistenceFailed(err)
	}
	return schools, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*model.School, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound()
		}
		return nil, errors.NewPersistenceFailed(err)
	}
	return record, nil
}

func (s *Service) hasMissingFields(sub model.SchoolSubmission) bool {
	for _, v := range []string{sub.Name, sub.Address, sub.City, sub.State, sub.Contact, sub.EmailID} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return sub.Image.Empty()
}

func (s *Service) markPending(ctx context.Context, locator string) {
	if s.markers == nil {
		return
	}
	if err := s.markers.Add(ctx, locator); err != nil {
		s.log.Warn().Err(err).Str("image", locator).Msg("Failed to record pending-upload marker")
	}
}

func (s *Service) clearPending(ctx context.Context, locator string) {
	if s.markers == nil {
		return
	}
	if err := s.markers.Clear(ctx, locator); err != nil {
		s.log.Warn().Err(err).Str("image", locator).Msg("Failed to clear pending-upload marker")
	}
}
