package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// enrichmentTask is one background unit of work: enrich the given titles and
// track the outcome on its own job record.
type enrichmentTask struct {
	jobID     uuid.UUID
	accountID uuid.UUID
	titleIDs  []uuid.UUID
}

// dispatchEnrichment queues background enrichment for newly created titles
// under its own metadata job. The caller never waits on the outcome; when
// the queue is full the work is skipped and can be redone via the manual
// metadata operations.
func (s *SyncService) dispatchEnrichment(ctx context.Context, accountID uuid.UUID, titleIDs []uuid.UUID) {
	job := &models.SyncJob{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      models.SyncJobKindMetadata,
		Status:    models.SyncJobStatusPending,
		StartedAt: time.Now(),
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Warn("Failed to create enrichment job", interfaces.Error(err))
		return
	}

	select {
	case s.enrichCh <- enrichmentTask{jobID: job.ID, accountID: accountID, titleIDs: titleIDs}:
	default:
		s.failJob(ctx, job, domain.ErrEnrichmentQueueFull)
		s.logger.Warn("Enrichment queue full, dropping task",
			interfaces.String("account_id", accountID.String()),
			interfaces.Int("titles", len(titleIDs)))
	}
}

func (s *SyncService) enrichmentWorker(ctx context.Context) {
	defer s.wg.Done()

	for task := range s.enrichCh {
		s.runEnrichment(ctx, task)
	}
}

func (s *SyncService) runEnrichment(ctx context.Context, task enrichmentTask) {
	job, err := s.repo.GetJob(ctx, task.jobID)
	if err != nil {
		s.logger.Warn("Enrichment job vanished", interfaces.Error(err))
		return
	}

	job.Status = models.SyncJobStatusRunning
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.logger.Warn("Failed to start enrichment job", interfaces.Error(err))
		return
	}

	// Each job gets its own provider call budget.
	ctx = metadata.WithSyncBudget(ctx)

	enriched := 0
	for _, titleID := range task.titleIDs {
		if ctx.Err() != nil {
			break
		}
		if err := s.enrichTitle(ctx, titleID, false); err != nil {
			// Provider errors degrade to partial enrichment, never to a
			// user-visible failure.
			s.logger.Debug("Title enrichment skipped",
				interfaces.String("title_id", titleID.String()),
				interfaces.Error(err))
			continue
		}
		enriched++
	}

	job.Status = models.SyncJobStatusCompleted
	job.Processed = len(task.titleIDs)
	job.Updated = enriched
	now := time.Now()
	job.CompletedAt = &now
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.logger.Warn("Failed to complete enrichment job", interfaces.Error(err))
	}

	s.logger.Info("Background enrichment finished",
		interfaces.String("account_id", task.accountID.String()),
		interfaces.Int("titles", len(task.titleIDs)),
		interfaces.Int("enriched", enriched))
}

// enrichTitle fetches metadata for one title and applies it.
func (s *SyncService) enrichTitle(ctx context.Context, titleID uuid.UUID, force bool) error {
	title, err := s.repo.GetTitle(ctx, titleID)
	if err != nil {
		return err
	}

	meta, err := s.pipeline.ProcessOneGame(ctx, metadata.Request{
		Name:     title.Name,
		GameType: title.Type,
	})
	if err != nil {
		return err
	}

	if !s.pipeline.ApplyToTitle(title, meta, force) {
		return nil
	}
	if err := s.repo.UpdateTitle(ctx, title); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.PublishAsync(ctx, domain.NewMetadataAppliedEvent(title.ID, meta.ProviderID))
	}
	return nil
}
