package metadata

import (
	"strings"
	"sync"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// Registry holds the registered metadata providers. Registration order is
// the fallback order: earlier providers are preferred.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	byID      map[string]Provider
	logger    interfaces.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger interfaces.Logger) *Registry {
	return &Registry{
		byID:   make(map[string]Provider),
		logger: logger,
	}
}

// Register adds a provider. Re-registering an ID replaces the previous
// provider but keeps its position in the fallback order.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.ToLower(p.Manifest().ID)
	if _, exists := r.byID[id]; exists {
		for i, existing := range r.providers {
			if strings.ToLower(existing.Manifest().ID) == id {
				r.providers[i] = p
				break
			}
		}
	} else {
		r.providers = append(r.providers, p)
	}
	r.byID[id] = p

	r.logger.Info("Registered metadata provider",
		interfaces.String("provider_id", id),
		interfaces.Bool("supports_search", p.Manifest().SupportsSearch))
}

// ByID returns the provider with the given ID.
func (r *Registry) ByID(id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return p, nil
}

// All returns every provider in fallback order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ForGameType returns the providers covering the given type, in fallback
// order.
func (r *Registry) ForGameType(t models.GameType) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Provider
	for _, p := range r.providers {
		if p.Manifest().SupportsGameType(t) {
			out = append(out, p)
		}
	}
	return out
}

// SearchCapable returns the providers that can resolve free-text names for
// the given type.
func (r *Registry) SearchCapable(t models.GameType) []Provider {
	var out []Provider
	for _, p := range r.ForGameType(t) {
		if p.Manifest().SupportsSearch {
			out = append(out, p)
		}
	}
	return out
}

// PlayerCountCapable returns the providers whose player counts may overwrite
// unknown values, for the given type.
func (r *Registry) PlayerCountCapable(t models.GameType) []Provider {
	var out []Provider
	for _, p := range r.ForGameType(t) {
		if p.Manifest().HasAccuratePlayerCounts {
			out = append(out, p)
		}
	}
	return out
}
