package domain

import (
	"time"
)

// PlayerInfo is the partial player-count knowledge a connector or metadata
// provider reports for one game. Every field is optional; nil means the
// source does not know.
type PlayerInfo struct {
	MinPlayers *int `json:"min_players,omitempty"`
	MaxPlayers *int `json:"max_players,omitempty"`

	SupportsOnline   *bool `json:"supports_online,omitempty"`
	OnlineMinPlayers *int  `json:"online_min_players,omitempty"`
	OnlineMaxPlayers *int  `json:"online_max_players,omitempty"`

	SupportsLocal   *bool `json:"supports_local,omitempty"`
	LocalMinPlayers *int  `json:"local_min_players,omitempty"`
	LocalMaxPlayers *int  `json:"local_max_players,omitempty"`

	SupportsPhysical   *bool `json:"supports_physical,omitempty"`
	PhysicalMinPlayers *int  `json:"physical_min_players,omitempty"`
	PhysicalMaxPlayers *int  `json:"physical_max_players,omitempty"`
}

// RawExternalGame is one game as reported by a connector for a single sync
// run. Immutable within the run.
type RawExternalGame struct {
	ExternalGameID  string      `json:"external_game_id"`
	Name            string      `json:"name"`
	Platform        string      `json:"platform,omitempty"`
	PlaytimeMinutes int         `json:"playtime_minutes,omitempty"`
	Installed       bool        `json:"installed,omitempty"`
	LastPlayedAt    *time.Time  `json:"last_played_at,omitempty"`
	StoreURL        string      `json:"store_url,omitempty"`
	RawPayload      string      `json:"raw_payload,omitempty"`
	Players         *PlayerInfo `json:"players,omitempty"`

	// Provenance for aggregator connectors re-exporting other providers.
	OriginalProvider       string `json:"original_provider,omitempty"`
	OriginalProviderGameID string `json:"original_provider_game_id,omitempty"`
}

// FetchedMetadata is provider-sourced enrichment for one game.
type FetchedMetadata struct {
	ProviderID     string      `json:"provider_id"`
	ExternalID     string      `json:"external_id"`
	Name           string      `json:"name,omitempty"`
	Description    string      `json:"description,omitempty"`
	CoverImageURL  string      `json:"cover_image_url,omitempty"`
	HeaderImageURL string      `json:"header_image_url,omitempty"`
	Genres         []string    `json:"genres,omitempty"`
	Developers     []string    `json:"developers,omitempty"`
	Publishers     []string    `json:"publishers,omitempty"`
	ReleaseDate    *time.Time  `json:"release_date,omitempty"`
	Players        *PlayerInfo `json:"players,omitempty"`
}

// SearchOption is one candidate returned by a metadata provider search.
type SearchOption struct {
	ProviderID    string     `json:"provider_id"`
	ExternalID    string     `json:"external_id"`
	Name          string     `json:"name"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
}
