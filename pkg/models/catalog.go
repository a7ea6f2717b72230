package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameType represents the kind of game a title describes.
type GameType string

const (
	GameTypeVideoGame     GameType = "video_game"
	GameTypeBoardGame     GameType = "board_game"
	GameTypeCardGame      GameType = "card_game"
	GameTypeTabletopRPG   GameType = "tabletop_rpg"
	GameTypeOtherPhysical GameType = "other_physical"
)

// IsPhysical reports whether the game type is played at a table rather than
// on a screen. Only physical types may carry physical-play player counts.
func (t GameType) IsPhysical() bool {
	switch t {
	case GameTypeBoardGame, GameTypeCardGame, GameTypeTabletopRPG, GameTypeOtherPhysical:
		return true
	default:
		return false
	}
}

// PlayerProfile describes how many players a title supports overall and per
// play mode. Mode bounds are pointers so that "unknown" is representable;
// a mode's bounds are only meaningful while its support flag is true.
type PlayerProfile struct {
	MinPlayers int `json:"min_players" gorm:"default:1"`
	MaxPlayers int `json:"max_players" gorm:"default:1"`

	SupportsOnline   bool `json:"supports_online" gorm:"default:false"`
	OnlineMinPlayers *int `json:"online_min_players,omitempty"`
	OnlineMaxPlayers *int `json:"online_max_players,omitempty"`

	SupportsLocal   bool `json:"supports_local" gorm:"default:false"`
	LocalMinPlayers *int `json:"local_min_players,omitempty"`
	LocalMaxPlayers *int `json:"local_max_players,omitempty"`

	SupportsPhysical   bool `json:"supports_physical" gorm:"default:false"`
	PhysicalMinPlayers *int `json:"physical_min_players,omitempty"`
	PhysicalMaxPlayers *int `json:"physical_max_players,omitempty"`
}

// GameTitle is the canonical, deduplicated game concept. Titles are created
// and merged by the game processor, enriched by metadata operations, and
// never deleted by this core.
type GameTitle struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"not null;index"`
	NormalizedName string         `json:"normalized_name" gorm:"not null;uniqueIndex"`
	Type           GameType       `json:"type" gorm:"type:varchar(50);not null;index"`
	Description    string         `json:"description,omitempty" gorm:"type:text"`
	CoverImageURL  string         `json:"cover_image_url,omitempty"`
	HeaderImageURL string         `json:"header_image_url,omitempty"`
	Genres         string         `json:"genres,omitempty"`
	Developers     string         `json:"developers,omitempty"`
	Publishers     string         `json:"publishers,omitempty"`
	Players        PlayerProfile  `json:"players" gorm:"embedded;embeddedPrefix:players_"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Releases []GameRelease `json:"releases,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE"`
}

// GameRelease is a (title, platform) pair carrying the detected edition.
// Multiple releases of the same title exist for different platforms/editions.
type GameRelease struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TitleID     uuid.UUID      `json:"title_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_release_identity"`
	Platform    string         `json:"platform" gorm:"not null;uniqueIndex:idx_release_identity"`
	Edition     string         `json:"edition,omitempty" gorm:"uniqueIndex:idx_release_identity"`
	ReleaseDate *time.Time     `json:"release_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Title GameTitle `json:"-" gorm:"foreignKey:TitleID"`
}

// MappingStatus is the lifecycle state of an external mapping.
type MappingStatus string

const (
	MappingStatusPending MappingStatus = "pending"
	MappingStatusMapped  MappingStatus = "mapped"
	MappingStatusIgnored MappingStatus = "ignored"
)

// ExternalMapping links one (provider, externalGameID, owner) tuple to the
// canonical title/release it was resolved to. IGNORED suppresses copy
// creation until reset by the owning user (outside this core).
type ExternalMapping struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Provider       string        `json:"provider" gorm:"not null;uniqueIndex:idx_mapping_identity"`
	ExternalGameID string        `json:"external_game_id" gorm:"not null;uniqueIndex:idx_mapping_identity"`
	OwnerID        uuid.UUID     `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_mapping_identity"`
	TitleID        *uuid.UUID    `json:"title_id,omitempty" gorm:"type:uuid;index"`
	ReleaseID      *uuid.UUID    `json:"release_id,omitempty" gorm:"type:uuid"`
	Status         MappingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName customizations.
func (GameTitle) TableName() string {
	return "game_titles"
}

func (GameRelease) TableName() string {
	return "game_releases"
}

func (ExternalMapping) TableName() string {
	return "external_mappings"
}
