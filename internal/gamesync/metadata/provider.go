// Package metadata implements the rate-limited, fallback-chained enrichment
// pipeline that fills in title details from external metadata providers.
package metadata

import (
	"context"
	"time"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// RateLimit declares how politely a provider must be called.
type RateLimit struct {
	// MinDelay is the minimum spacing between consecutive calls.
	MinDelay time.Duration
	// MaxConsecutiveErrors marks the provider rate-limited for the rest of
	// the process lifetime once exceeded. Zero disables the circuit.
	MaxConsecutiveErrors int
	// BatchSize caps how many games a single batch phase may send to this
	// provider. Zero means no cap.
	BatchSize int
	// PerSyncCap caps total calls per sync job. Zero means no cap.
	PerSyncCap int
}

// Manifest describes a metadata provider's identity and capabilities.
type Manifest struct {
	ID        string
	Name      string
	GameTypes []models.GameType

	// SupportsSearch reports whether the provider can resolve free-text
	// names. Providers without search can only Fetch by external ID.
	SupportsSearch bool

	// HasAccuratePlayerCounts marks providers whose player numbers are
	// trustworthy enough to overwrite unknown values.
	HasAccuratePlayerCounts bool

	RateLimit RateLimit
}

// SupportsGameType reports whether the provider covers the given type. An
// empty GameTypes list means the provider covers everything.
func (m Manifest) SupportsGameType(t models.GameType) bool {
	if len(m.GameTypes) == 0 {
		return true
	}
	for _, gt := range m.GameTypes {
		if gt == t {
			return true
		}
	}
	return false
}

// Provider is one external metadata source.
type Provider interface {
	Manifest() Manifest

	// Search resolves a free-text name to candidate matches, best first.
	Search(ctx context.Context, name string, limit int) ([]domain.SearchOption, error)

	// Fetch loads the full metadata record for a provider-local ID.
	Fetch(ctx context.Context, externalID string) (*domain.FetchedMetadata, error)
}
