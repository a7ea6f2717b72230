// Package repository defines the persistence contracts of the sync service.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// TitleRepository persists canonical game titles.
type TitleRepository interface {
	CreateTitle(ctx context.Context, title *models.GameTitle) error
	GetTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error)
	GetTitleByNormalizedName(ctx context.Context, normalizedName string) (*models.GameTitle, error)
	UpdateTitle(ctx context.Context, title *models.GameTitle) error
	ListTitles(ctx context.Context, limit, offset int) ([]*models.GameTitle, error)
}

// ReleaseRepository persists platform editions of titles.
type ReleaseRepository interface {
	CreateRelease(ctx context.Context, release *models.GameRelease) error
	GetRelease(ctx context.Context, id uuid.UUID) (*models.GameRelease, error)
	GetReleaseByIdentity(ctx context.Context, titleID uuid.UUID, platform, edition string) (*models.GameRelease, error)
	ListReleasesByTitle(ctx context.Context, titleID uuid.UUID) ([]*models.GameRelease, error)
}

// MappingRepository persists provider-to-catalog mappings.
type MappingRepository interface {
	CreateMapping(ctx context.Context, mapping *models.ExternalMapping) error
	GetMappingByIdentity(ctx context.Context, provider, externalGameID string, ownerID uuid.UUID) (*models.ExternalMapping, error)
	UpdateMapping(ctx context.Context, mapping *models.ExternalMapping) error
}

// LibraryEntryRepository persists raw per-account library snapshots.
type LibraryEntryRepository interface {
	UpsertEntry(ctx context.Context, entry *models.LibraryEntry) error
	GetEntry(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.LibraryEntry, error)
	ListEntriesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.LibraryEntry, error)
}

// CopyRepository persists owned digital copies.
type CopyRepository interface {
	CreateCopy(ctx context.Context, copy *models.DigitalCopy) error
	UpdateCopy(ctx context.Context, copy *models.DigitalCopy) error
	GetCopyByIdentity(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.DigitalCopy, error)
	ListCopiesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.DigitalCopy, error)
}

// SyncJobRepository persists sync job lifecycle records.
type SyncJobRepository interface {
	CreateJob(ctx context.Context, job *models.SyncJob) error
	UpdateJob(ctx context.Context, job *models.SyncJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.SyncJob, error)
	GetLatestJobByAccount(ctx context.Context, accountID uuid.UUID) (*models.SyncJob, error)
	ListJobsByStatus(ctx context.Context, status models.SyncJobStatus) ([]*models.SyncJob, error)
}

// AccountRepository persists linked external accounts. Implementations
// encrypt credentials at rest.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.ExternalAccount) error
	GetAccount(ctx context.Context, id uuid.UUID) (*models.ExternalAccount, error)
	UpdateAccount(ctx context.Context, account *models.ExternalAccount) error
	ListEnabledAccounts(ctx context.Context) ([]*models.ExternalAccount, error)
	GetCredentials(ctx context.Context, id uuid.UUID) (map[string]string, error)
	SetCredentials(ctx context.Context, id uuid.UUID, credentials map[string]string) error
}

// DeviceRepository persists connector devices.
type DeviceRepository interface {
	CreateDevice(ctx context.Context, device *models.ConnectorDevice) error
	GetDevice(ctx context.Context, id uuid.UUID) (*models.ConnectorDevice, error)
	ListDevicesByAccount(ctx context.Context, accountID uuid.UUID, includeRevoked bool) ([]*models.ConnectorDevice, error)
	UpdateDevice(ctx context.Context, device *models.ConnectorDevice) error
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}

// Repository aggregates every persistence contract the service layer needs.
type Repository interface {
	TitleRepository
	ReleaseRepository
	MappingRepository
	LibraryEntryRepository
	CopyRepository
	SyncJobRepository
	AccountRepository
	DeviceRepository
}
