package connector

import (
	"strings"
	"sync"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

// Registry is the lookup table of game-source connectors, keyed by id and by
// provider name. It is populated once at process start.
type Registry struct {
	mu         sync.RWMutex
	byID       map[string]Connector
	byProvider map[string]Connector
	logger     interfaces.Logger
}

// NewRegistry creates an empty connector registry.
func NewRegistry(logger interfaces.Logger) *Registry {
	return &Registry{
		byID:       make(map[string]Connector),
		byProvider: make(map[string]Connector),
		logger:     logger,
	}
}

// Register adds a connector, replacing any prior registration with the same
// id or provider name.
func (r *Registry) Register(c Connector) {
	m := c.Manifest()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[m.ID] = c
	r.byProvider[strings.ToLower(m.Provider)] = c

	r.logger.Info("Registered connector",
		interfaces.String("id", m.ID),
		interfaces.String("provider", m.Provider),
		interfaces.String("style", string(m.SyncStyle)))
}

// ByID looks a connector up by id.
func (r *Registry) ByID(id string) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrConnectorNotFound
	}
	return c, nil
}

// ByProvider looks a connector up by provider name, case-insensitively.
func (r *Registry) ByProvider(provider string) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byProvider[strings.ToLower(provider)]
	if !ok {
		return nil, domain.ErrConnectorNotFound
	}
	return c, nil
}

// All returns every registered connector.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connectors := make([]Connector, 0, len(r.byID))
	for _, c := range r.byID {
		connectors = append(connectors, c)
	}
	return connectors
}
