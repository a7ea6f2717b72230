package connector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/connector"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/logger"
)

type fakePullConnector struct {
	manifest connector.Manifest
	games    []domain.RawExternalGame
}

func (c *fakePullConnector) Manifest() connector.Manifest {
	return c.manifest
}

func (c *fakePullConnector) SyncLibrary(ctx context.Context, credentials map[string]string) ([]domain.RawExternalGame, error) {
	return c.games, nil
}

type fakePushConnector struct {
	manifest connector.Manifest
}

func (c *fakePushConnector) Manifest() connector.Manifest {
	return c.manifest
}

func (c *fakePushConnector) PreprocessImport(ctx context.Context, rawPayload []byte) (*connector.ImportPayload, error) {
	return &connector.ImportPayload{}, nil
}

func TestRegistryLookup(t *testing.T) {
	registry := connector.NewRegistry(logger.NewNoopLogger())

	steam := &fakePullConnector{manifest: connector.Manifest{
		ID:        "steam",
		Provider:  "Steam",
		SyncStyle: connector.SyncStylePull,
	}}
	registry.Register(steam)

	got, err := registry.ByID("steam")
	require.NoError(t, err)
	assert.Equal(t, "steam", got.Manifest().ID)

	got, err = registry.ByProvider("STEAM")
	require.NoError(t, err)
	assert.Equal(t, "steam", got.Manifest().ID)

	_, err = registry.ByID("gog")
	assert.ErrorIs(t, err, domain.ErrConnectorNotFound)

	assert.Len(t, registry.All(), 1)
}

func TestIsPushConnector(t *testing.T) {
	pull := &fakePullConnector{manifest: connector.Manifest{ID: "steam", SyncStyle: connector.SyncStylePull}}
	push := &fakePushConnector{manifest: connector.Manifest{ID: "lutris", SyncStyle: connector.SyncStylePush}}

	_, ok := connector.IsPushConnector(pull)
	assert.False(t, ok)

	pc, ok := connector.IsPushConnector(push)
	assert.True(t, ok)
	assert.NotNil(t, pc)
}
