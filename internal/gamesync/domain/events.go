package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// TitleCreatedEvent is published when the processor creates a new catalog title
type TitleCreatedEvent struct {
	Title     *models.GameTitle
	timestamp int64
}

func NewTitleCreatedEvent(title *models.GameTitle) *TitleCreatedEvent {
	return &TitleCreatedEvent{
		Title:     title,
		timestamp: time.Now().Unix(),
	}
}

func (e *TitleCreatedEvent) EventType() string {
	return "catalog.title.created"
}

func (e *TitleCreatedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *TitleCreatedEvent) AggregateID() string {
	return e.Title.ID.String()
}

// SyncJobCompletedEvent is published when a sync job reaches a terminal state
type SyncJobCompletedEvent struct {
	Job       *models.SyncJob
	timestamp int64
}

func NewSyncJobCompletedEvent(job *models.SyncJob) *SyncJobCompletedEvent {
	return &SyncJobCompletedEvent{
		Job:       job,
		timestamp: time.Now().Unix(),
	}
}

func (e *SyncJobCompletedEvent) EventType() string {
	return "sync.job.completed"
}

func (e *SyncJobCompletedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *SyncJobCompletedEvent) AggregateID() string {
	return e.Job.ID.String()
}

// ImportCompletedEvent is published when a push import finished its fast path
type ImportCompletedEvent struct {
	AccountID uuid.UUID
	Processed int
	Removed   int
	timestamp int64
}

func NewImportCompletedEvent(accountID uuid.UUID, processed, removed int) *ImportCompletedEvent {
	return &ImportCompletedEvent{
		AccountID: accountID,
		Processed: processed,
		Removed:   removed,
		timestamp: time.Now().Unix(),
	}
}

func (e *ImportCompletedEvent) EventType() string {
	return "library.import.completed"
}

func (e *ImportCompletedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *ImportCompletedEvent) AggregateID() string {
	return e.AccountID.String()
}

// MetadataAppliedEvent is published when provider metadata was applied to a title
type MetadataAppliedEvent struct {
	TitleID    uuid.UUID
	ProviderID string
	timestamp  int64
}

func NewMetadataAppliedEvent(titleID uuid.UUID, providerID string) *MetadataAppliedEvent {
	return &MetadataAppliedEvent{
		TitleID:    titleID,
		ProviderID: providerID,
		timestamp:  time.Now().Unix(),
	}
}

func (e *MetadataAppliedEvent) EventType() string {
	return "catalog.metadata.applied"
}

func (e *MetadataAppliedEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *MetadataAppliedEvent) AggregateID() string {
	return e.TitleID.String()
}
