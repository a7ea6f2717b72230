// Package service implements the sync orchestrator: job lifecycle,
// scheduling, push imports, background enrichment and startup recovery.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/config"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/connector"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/processor"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

const syncStatusCacheTTL = 30 * time.Second

// SyncService orchestrates library syncs, push imports and metadata
// enrichment for external accounts.
type SyncService struct {
	repo       repository.Repository
	connectors *connector.Registry
	pipeline   *metadata.Pipeline
	processor  *processor.Processor
	cache      interfaces.Cache
	bus        interfaces.EventBus
	logger     interfaces.Logger
	cfg        config.SyncConfig

	schedMu   sync.Mutex
	schedules map[uuid.UUID]*scheduleEntry
	schedGen  uint64

	enrichCh chan enrichmentTask
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSyncService wires the orchestrator. Call Start to launch the
// enrichment workers and Stop to drain them.
func NewSyncService(
	repo repository.Repository,
	connectors *connector.Registry,
	pipeline *metadata.Pipeline,
	proc *processor.Processor,
	cache interfaces.Cache,
	bus interfaces.EventBus,
	logger interfaces.Logger,
	cfg config.SyncConfig,
) *SyncService {
	if cfg.EnrichmentWorkers <= 0 {
		cfg.EnrichmentWorkers = 1
	}
	if cfg.EnrichmentQueueSize <= 0 {
		cfg.EnrichmentQueueSize = 16
	}
	return &SyncService{
		repo:       repo,
		connectors: connectors,
		pipeline:   pipeline,
		processor:  proc,
		cache:      cache,
		bus:        bus,
		logger:     logger,
		cfg:        cfg,
		schedules:  make(map[uuid.UUID]*scheduleEntry),
		enrichCh:   make(chan enrichmentTask, cfg.EnrichmentQueueSize),
	}
}

// Start launches the background enrichment workers.
func (s *SyncService) Start(ctx context.Context) {
	for i := 0; i < s.cfg.EnrichmentWorkers; i++ {
		s.wg.Add(1)
		go s.enrichmentWorker(ctx)
	}
}

// Stop cancels all scheduled syncs and drains the enrichment workers.
// In-flight work finishes its current unit.
func (s *SyncService) Stop() {
	s.stopOnce.Do(func() {
		s.schedMu.Lock()
		for id, entry := range s.schedules {
			entry.timer.Stop()
			delete(s.schedules, id)
		}
		s.schedMu.Unlock()

		close(s.enrichCh)
		s.wg.Wait()
	})
}

// TriggerSync runs a pull-style sync for the account and returns the job ID.
// The sync itself is synchronous; only metadata enrichment for new titles is
// deferred to the background workers.
func (s *SyncService) TriggerSync(ctx context.Context, accountID, ownerID uuid.UUID) (uuid.UUID, error) {
	job := &models.SyncJob{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      models.SyncJobKindSync,
		Status:    models.SyncJobStatusPending,
		StartedAt: time.Now(),
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return uuid.Nil, err
	}

	account, pull, creds, err := s.resolvePullSync(ctx, accountID)
	if err != nil {
		s.failJob(ctx, job, err)
		return job.ID, err
	}

	job.Status = models.SyncJobStatusRunning
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.failJob(ctx, job, fmt.Errorf("failed to start sync job: %w", err))
		return job.ID, err
	}

	games, err := pull.SyncLibrary(ctx, creds)
	if err != nil {
		s.failJob(ctx, job, fmt.Errorf("connector sync failed: %w", err))
		return job.ID, err
	}

	result, err := s.processor.ProcessBatch(ctx, account, account.Provider, games, ownerID, false)
	if err != nil {
		s.failJob(ctx, job, fmt.Errorf("batch processing failed: %w", err))
		return job.ID, err
	}

	s.completeJob(ctx, job, result)
	s.touchAccount(ctx, account)
	s.invalidateStatus(ctx, accountID)

	if len(result.NewTitleIDs) > 0 {
		s.dispatchEnrichment(ctx, accountID, result.NewTitleIDs)
	}

	s.logger.Info("Sync completed",
		interfaces.String("account_id", accountID.String()),
		interfaces.Int("processed", result.Processed),
		interfaces.Int("titles_created", result.TitlesCreated))

	return job.ID, nil
}

func (s *SyncService) resolvePullSync(ctx context.Context, accountID uuid.UUID) (*models.ExternalAccount, connector.PullConnector, map[string]string, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil, nil, domain.ErrAccountNotFound
		}
		return nil, nil, nil, err
	}
	if !account.Enabled {
		return nil, nil, nil, domain.ErrAccountDisabled
	}

	c, err := s.connectors.ByProvider(account.Provider)
	if err != nil {
		return nil, nil, nil, err
	}
	pull, ok := c.(connector.PullConnector)
	if !ok {
		return nil, nil, nil, pkgerrors.BadRequest("connector " + c.Manifest().ID + " does not support pull syncs")
	}

	creds, err := s.repo.GetCredentials(ctx, accountID)
	if err != nil {
		return nil, nil, nil, err
	}
	return account, pull, creds, nil
}

// ImportSummary is returned to a push agent as soon as reconciliation is
// done; enrichment continues in the background.
type ImportSummary struct {
	JobID         uuid.UUID `json:"job_id"`
	Processed     int       `json:"processed"`
	Added         int       `json:"added"`
	Updated       int       `json:"updated"`
	TitlesCreated int       `json:"titles_created"`
	CopiesCreated int       `json:"copies_created"`
	Removed       int       `json:"removed"`
	NeedsReview   int       `json:"needs_review"`
	Warnings      []string  `json:"warnings,omitempty"`
}

// ProcessPushImport handles one batch pushed by a device agent. The device
// token was verified upstream; here the device's identity and revocation
// state are re-checked against the account. Every attempt gets a job record,
// rejected ones included.
func (s *SyncService) ProcessPushImport(ctx context.Context, deviceID, accountID, ownerID uuid.UUID, rawPayload []byte) (*ImportSummary, error) {
	job := &models.SyncJob{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      models.SyncJobKindPushImport,
		Status:    models.SyncJobStatusPending,
		StartedAt: time.Now(),
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	device, err := s.repo.GetDevice(ctx, deviceID)
	if err != nil || device.AccountID != accountID || device.Revoked {
		s.failJob(ctx, job, domain.ErrDeviceTokenInvalid)
		return nil, domain.ErrDeviceTokenInvalid
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			err = domain.ErrAccountNotFound
		}
		s.failJob(ctx, job, err)
		return nil, err
	}
	if !account.Enabled {
		s.failJob(ctx, job, domain.ErrAccountDisabled)
		return nil, domain.ErrAccountDisabled
	}

	c, err := s.connectors.ByProvider(account.Provider)
	if err != nil {
		s.failJob(ctx, job, err)
		return nil, err
	}
	push, ok := connector.IsPushConnector(c)
	if !ok {
		err = pkgerrors.BadRequest("connector " + c.Manifest().ID + " does not accept push imports")
		s.failJob(ctx, job, err)
		return nil, err
	}

	job.Status = models.SyncJobStatusRunning
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.failJob(ctx, job, fmt.Errorf("failed to start import job: %w", err))
		return nil, err
	}

	payload, err := push.PreprocessImport(ctx, rawPayload)
	if err != nil {
		s.failJob(ctx, job, fmt.Errorf("import preprocessing failed: %w", err))
		return nil, err
	}

	result, err := s.processor.ProcessBatch(ctx, account, account.Provider, payload.Games, ownerID, c.Manifest().IsAggregator)
	if err != nil {
		s.failJob(ctx, job, fmt.Errorf("batch processing failed: %w", err))
		return nil, err
	}

	reported := make(map[string]struct{}, len(payload.EntitlementKeys))
	for _, key := range payload.EntitlementKeys {
		reported[key] = struct{}{}
	}
	removed, err := s.processor.SoftRemoveMissing(ctx, accountID, reported)
	if err != nil {
		s.logger.Warn("Soft removal failed", interfaces.Error(err))
	}

	s.completeJob(ctx, job, result)
	s.touchAccount(ctx, account)
	s.invalidateStatus(ctx, accountID)

	if s.bus != nil {
		s.bus.PublishAsync(ctx, domain.NewImportCompletedEvent(accountID, result.Processed, removed))
	}
	if len(result.NewTitleIDs) > 0 {
		s.dispatchEnrichment(ctx, accountID, result.NewTitleIDs)
	}

	return &ImportSummary{
		JobID:         job.ID,
		Processed:     result.Processed,
		Added:         result.Added,
		Updated:       result.Updated,
		TitlesCreated: result.TitlesCreated,
		CopiesCreated: result.CopiesCreated,
		Removed:       removed,
		NeedsReview:   payload.NeedsReviewCount,
		Warnings:      payload.Warnings,
	}, nil
}

// SyncStatus summarizes an account's sync state.
type SyncStatus struct {
	AccountID    uuid.UUID       `json:"account_id"`
	LastSyncedAt *time.Time      `json:"last_synced_at,omitempty"`
	LatestJob    *models.SyncJob `json:"latest_job,omitempty"`
	IsScheduled  bool            `json:"is_scheduled"`
}

// GetSyncStatus reports the account's last sync time, latest job and whether
// a recurring sync is scheduled.
func (s *SyncService) GetSyncStatus(ctx context.Context, accountID uuid.UUID) (*SyncStatus, error) {
	cacheKey := "sync_status:" + accountID.String()
	if status := s.cachedStatus(ctx, cacheKey); status != nil {
		return status, nil
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	status := &SyncStatus{
		AccountID:    accountID,
		LastSyncedAt: account.LastSyncedAt,
		IsScheduled:  s.isScheduled(accountID),
	}

	job, err := s.repo.GetLatestJobByAccount(ctx, accountID)
	if err == nil {
		status.LatestJob = job
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, status, syncStatusCacheTTL); err != nil {
			s.logger.Debug("Failed to cache sync status", interfaces.Error(err))
		}
	}
	return status, nil
}

// cachedStatus reads a sync status back from the cache. The in-memory cache
// hands the stored value back directly; Redis returns the JSON payload it
// persisted, so both shapes are handled.
func (s *SyncService) cachedStatus(ctx context.Context, key string) *SyncStatus {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	switch v := cached.(type) {
	case *SyncStatus:
		return v
	case json.RawMessage:
		var status SyncStatus
		if err := json.Unmarshal(v, &status); err == nil {
			return &status
		}
	case []byte:
		var status SyncStatus
		if err := json.Unmarshal(v, &status); err == nil {
			return &status
		}
	}
	return nil
}

// RecoverStaleSyncJobs marks jobs left PENDING or RUNNING by a prior process
// lifetime as FAILED. Partial sync state cannot be safely resumed.
func (s *SyncService) RecoverStaleSyncJobs(ctx context.Context) error {
	jobs, err := s.repo.ListJobsByStatus(ctx, models.SyncJobStatusRunning)
	if err != nil {
		return err
	}
	pending, err := s.repo.ListJobsByStatus(ctx, models.SyncJobStatusPending)
	if err != nil {
		return err
	}
	jobs = append(jobs, pending...)

	for _, job := range jobs {
		job.Status = models.SyncJobStatusFailed
		job.ErrorMessage = "interrupted by service restart"
		now := time.Now()
		job.CompletedAt = &now
		if err := s.repo.UpdateJob(ctx, job); err != nil {
			s.logger.Warn("Failed to recover stale sync job",
				interfaces.String("job_id", job.ID.String()),
				interfaces.Error(err))
			continue
		}
		s.logger.Info("Recovered stale sync job",
			interfaces.String("job_id", job.ID.String()),
			interfaces.String("account_id", job.AccountID.String()))
	}
	return nil
}

func (s *SyncService) failJob(ctx context.Context, job *models.SyncJob, cause error) {
	job.Status = models.SyncJobStatusFailed
	job.ErrorMessage = cause.Error()
	now := time.Now()
	job.CompletedAt = &now
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.logger.Error("Failed to mark sync job failed",
			interfaces.String("job_id", job.ID.String()),
			interfaces.Error(err))
	}
}

func (s *SyncService) completeJob(ctx context.Context, job *models.SyncJob, result *processor.BatchResult) {
	job.Status = models.SyncJobStatusCompleted
	job.Processed = result.Processed
	job.Added = result.Added
	job.Updated = result.Updated
	job.TitlesCreated = result.TitlesCreated
	job.CopiesCreated = result.CopiesCreated
	now := time.Now()
	job.CompletedAt = &now
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.logger.Error("Failed to mark sync job completed",
			interfaces.String("job_id", job.ID.String()),
			interfaces.Error(err))
		return
	}
	if s.bus != nil {
		s.bus.PublishAsync(ctx, domain.NewSyncJobCompletedEvent(job))
	}
}

func (s *SyncService) touchAccount(ctx context.Context, account *models.ExternalAccount) {
	now := time.Now()
	account.LastSyncedAt = &now
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		s.logger.Warn("Failed to update account sync time",
			interfaces.String("account_id", account.ID.String()),
			interfaces.Error(err))
	}
}

func (s *SyncService) invalidateStatus(ctx context.Context, accountID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "sync_status:"+accountID.String()); err != nil {
		s.logger.Debug("Failed to invalidate sync status cache", interfaces.Error(err))
	}
}
