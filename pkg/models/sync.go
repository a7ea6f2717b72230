package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibraryEntry is the idempotent snapshot of the latest raw state an external
// source reported for one game. Entries are upserted on every sync and used
// to detect games no longer reported by a push agent.
type LibraryEntry struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID  `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_entry_identity"`
	ExternalGameID  string     `json:"external_game_id" gorm:"not null;uniqueIndex:idx_entry_identity"`
	Name            string     `json:"name"`
	RawPayload      string     `json:"raw_payload,omitempty" gorm:"type:text"`
	PlaytimeMinutes int        `json:"playtime_minutes"`
	Installed       bool       `json:"installed"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DigitalCopy is the user-visible inventory record for an owned digital
// license. One per (account, externalGameID); created once, updated on every
// subsequent sync.
type DigitalCopy struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID  `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_copy_identity"`
	ExternalGameID  string     `json:"external_game_id" gorm:"not null;uniqueIndex:idx_copy_identity"`
	OwnerID         uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	ReleaseID       uuid.UUID  `json:"release_id" gorm:"type:uuid;not null;index"`
	PlaytimeMinutes int        `json:"playtime_minutes"`
	Installed       bool       `json:"installed"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
	StoreURL        string     `json:"store_url,omitempty"`

	// Aggregator provenance: the provider the game originally came from when
	// it was re-exported through a local library manager.
	OriginalProvider       string `json:"original_provider,omitempty"`
	OriginalProviderGameID string `json:"original_provider_game_id,omitempty"`
	NeedsReview            bool   `json:"needs_review" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Release GameRelease `json:"-" gorm:"foreignKey:ReleaseID"`
}

// SyncJobKind distinguishes what a job record tracks.
type SyncJobKind string

const (
	SyncJobKindSync       SyncJobKind = "sync"
	SyncJobKindPushImport SyncJobKind = "push_import"
	SyncJobKindMetadata   SyncJobKind = "metadata"
)

// SyncJobStatus is the job state machine. Terminal states are final.
type SyncJobStatus string

const (
	SyncJobStatusPending   SyncJobStatus = "pending"
	SyncJobStatusRunning   SyncJobStatus = "running"
	SyncJobStatusCompleted SyncJobStatus = "completed"
	SyncJobStatusFailed    SyncJobStatus = "failed"
)

// SyncJob is one sync, push-import or background-enrichment attempt.
type SyncJob struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID     uuid.UUID     `json:"account_id" gorm:"type:uuid;not null;index"`
	Kind          SyncJobKind   `json:"kind" gorm:"type:varchar(20);not null;index"`
	Status        SyncJobStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Processed     int           `json:"processed" gorm:"default:0"`
	Added         int           `json:"added" gorm:"default:0"`
	Updated       int           `json:"updated" gorm:"default:0"`
	TitlesCreated int           `json:"titles_created" gorm:"default:0"`
	CopiesCreated int           `json:"copies_created" gorm:"default:0"`
	ErrorMessage  string        `json:"error_message,omitempty" gorm:"type:text"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsTerminal reports whether the job has reached a final state.
func (j *SyncJob) IsTerminal() bool {
	return j.Status == SyncJobStatusCompleted || j.Status == SyncJobStatusFailed
}

// ExternalAccount is a user's account on an external game source. Credentials
// are stored encrypted by the repository layer.
type ExternalAccount struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Provider     string     `json:"provider" gorm:"not null;index"`
	Credentials  string     `json:"-" gorm:"type:text"`
	Enabled      bool       `json:"enabled" gorm:"default:true"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ConnectorDevice is an authenticated push agent. Tokens are stored only as
// bcrypt hashes; the plaintext is shown once at registration.
type ConnectorDevice struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID  `json:"account_id" gorm:"type:uuid;not null;index"`
	Name       string     `json:"name" gorm:"not null"`
	TokenHash  string     `json:"-" gorm:"not null"`
	Revoked    bool       `json:"revoked" gorm:"default:false;index"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName customizations.
func (LibraryEntry) TableName() string {
	return "library_entries"
}

func (DigitalCopy) TableName() string {
	return "digital_copies"
}

func (SyncJob) TableName() string {
	return "sync_jobs"
}

func (ExternalAccount) TableName() string {
	return "external_accounts"
}

func (ConnectorDevice) TableName() string {
	return "connector_devices"
}
