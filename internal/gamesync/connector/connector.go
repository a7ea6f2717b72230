package connector

import (
	"context"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
)

// SyncStyle describes how a connector delivers games.
type SyncStyle string

const (
	// SyncStylePull means the core calls out to the source on demand.
	SyncStylePull SyncStyle = "pull"
	// SyncStylePush means a local agent delivers payloads to the core.
	SyncStylePush SyncStyle = "push"
)

// Manifest is the plain data record every connector declares about itself.
type Manifest struct {
	ID           string
	Provider     string
	DisplayName  string
	SyncStyle    SyncStyle
	Capabilities []string

	// IsAggregator marks connectors that re-export games originally sourced
	// from multiple underlying providers, preserving per-game provenance.
	IsAggregator bool

	// SupportsDevices marks push connectors that manage authenticated agents.
	SupportsDevices bool
}

// Connector adapts one external game source to the canonical
// RawExternalGame shape.
type Connector interface {
	Manifest() Manifest
}

// PullConnector fetches a user's library directly from the source.
// Implementations perform their own bounded retry for transient network
// errors; everything else surfaces to the caller.
type PullConnector interface {
	Connector

	SyncLibrary(ctx context.Context, credentials map[string]string) ([]domain.RawExternalGame, error)
}

// ImportPayload is the result of a push connector preprocessing one raw
// agent payload. Every game is already normalized to RawExternalGame.
type ImportPayload struct {
	Games []domain.RawExternalGame

	// EntitlementKeys is the complete set of external game ids the agent
	// currently reports; snapshots outside this set are soft-removed.
	EntitlementKeys []string

	Warnings         []string
	NeedsReviewCount int
}

// PushConnector handles payloads delivered by authenticated local agents.
// PreprocessImport is the only connector-specific step in the push path.
type PushConnector interface {
	Connector

	PreprocessImport(ctx context.Context, rawPayload []byte) (*ImportPayload, error)
}

// IsPushConnector reports whether c takes the device-authenticated push
// path and, if so, returns its push interface.
func IsPushConnector(c Connector) (PushConnector, bool) {
	if c.Manifest().SyncStyle != SyncStylePush {
		return nil, false
	}
	pc, ok := c.(PushConnector)
	return pc, ok
}
