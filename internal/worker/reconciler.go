package worker

import (
	"context"
	"time"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/db"
	"github.com/zourte2486/school-platform-test/internal/logger"
	"github.com/zourte2486/school-platform-test/internal/queue"
	"github.com/zourte2486/school-platform-test/internal/storage"

	"github.com/rs/zerolog"
)

// Reconciler sweeps pending-upload markers whose ingestion never committed
// and deletes the orphaned blobs they point at. A marker survives the sweep
// only while its locator is still referenced by a committed record (which
// means the commit happened but the marker clear was lost).
type Reconciler struct {
	cfg        *config.Config
	repo       db.SchoolRepository
	blobs      storage.BlobStore
	markers    *queue.MarkerStore
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewReconciler(
	cfg *config.Config,
	repo db.SchoolRepository,
	blobs storage.BlobStore,
	markers *queue.MarkerStore,
) *Reconciler {
	return &Reconciler{
		cfg:        cfg,
		repo:       repo,
		blobs:      blobs,
		markers:    markers,
		workerPool: NewWorkerPool(cfg.Reconciler.WorkerCount),
		log:        logger.Get(),
	}
}

func (r *Reconciler) Start(ctx context.Context) error {
	r.log.Info().
		Dur("interval", r.cfg.Reconciler.Interval).
		Dur("grace_period", r.cfg.Reconciler.GracePeriod).
		Msg("Starting blob reconciler")

	r.workerPool.Start(ctx)

	ticker := time.NewTicker(r.cfg.Reconciler.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				r.log.Error().Err(err).Msg("Sweep failed")
			}
		}
	}
}

func (r *Reconciler) Stop() {
	r.log.Info().Msg("Stopping blob reconciler")
	r.workerPool.Stop()
}

func (r *Reconciler) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-r.cfg.Reconciler.GracePeriod)
	stale, err := r.markers.Stale(ctx, cutoff, r.cfg.Reconciler.SweepLimit)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		return nil
	}

	r.log.Info().Int("count", len(stale)).Msg("Sweeping stale upload markers")

	for _, locator := range stale {
		locator := locator
		r.workerPool.Submit(func(ctx context.Context) error {
			return r.reconcile(ctx, locator)
		})
	}

	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, locator string) error {
	log := r.log.With().Str("image", locator).Logger()

	referenced, err := r.repo.ExistsByImage(ctx, locator)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check record reference")
		return err
	}

	if referenced {
		// Committed record whose marker clear was lost. Keep the blob.
		log.Debug().Msg("Marker points at a committed record, clearing")
		return r.markers.Clear(ctx, locator)
	}

	if err := r.blobs.Delete(ctx, locator); err != nil {
		// Marker stays; the next sweep retries.
		log.Error().Err(err).Msg("Failed to delete orphaned blob")
		return err
	}

	log.Info().Msg("Orphaned blob deleted")
	return r.markers.Clear(ctx, locator)
}
