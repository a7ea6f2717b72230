package connector_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/connector"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/logger"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

type memDeviceRepo struct {
	devices map[uuid.UUID]*models.ConnectorDevice
}

func newMemDeviceRepo() *memDeviceRepo {
	return &memDeviceRepo{devices: make(map[uuid.UUID]*models.ConnectorDevice)}
}

func (r *memDeviceRepo) CreateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	clone := *device
	r.devices[device.ID] = &clone
	return nil
}

func (r *memDeviceRepo) GetDevice(ctx context.Context, id uuid.UUID) (*models.ConnectorDevice, error) {
	device, ok := r.devices[id]
	if !ok {
		return nil, pkgerrors.NotFound("device not found")
	}
	clone := *device
	return &clone, nil
}

func (r *memDeviceRepo) ListDevicesByAccount(ctx context.Context, accountID uuid.UUID, includeRevoked bool) ([]*models.ConnectorDevice, error) {
	var result []*models.ConnectorDevice
	for _, device := range r.devices {
		if device.AccountID != accountID {
			continue
		}
		if device.Revoked && !includeRevoked {
			continue
		}
		clone := *device
		result = append(result, &clone)
	}
	return result, nil
}

func (r *memDeviceRepo) UpdateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	clone := *device
	r.devices[device.ID] = &clone
	return nil
}

func (r *memDeviceRepo) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	delete(r.devices, id)
	return nil
}

func TestDeviceRegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	repo := newMemDeviceRepo()
	manager := connector.NewDeviceManager(repo, logger.NewNoopLogger())
	accountID := uuid.New()

	device, token, err := manager.Register(ctx, accountID, "living-room-pc")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, token, device.TokenHash)

	verified, err := manager.VerifyToken(ctx, accountID, token)
	require.NoError(t, err)
	assert.Equal(t, device.ID, verified.ID)
	assert.NotNil(t, verified.LastSeenAt)

	_, err = manager.VerifyToken(ctx, accountID, "wrong-token")
	assert.ErrorIs(t, err, domain.ErrDeviceTokenInvalid)
}

func TestDeviceVerifySkipsRevoked(t *testing.T) {
	ctx := context.Background()
	repo := newMemDeviceRepo()
	manager := connector.NewDeviceManager(repo, logger.NewNoopLogger())
	accountID := uuid.New()

	device, token, err := manager.Register(ctx, accountID, "laptop")
	require.NoError(t, err)

	require.NoError(t, manager.Revoke(ctx, device.ID))

	_, err = manager.VerifyToken(ctx, accountID, token)
	assert.ErrorIs(t, err, domain.ErrDeviceTokenInvalid)

	devices, err := manager.List(ctx, accountID, true)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.True(t, devices[0].Revoked)

	devices, err = manager.List(ctx, accountID, false)
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDeviceTokenScopedToAccount(t *testing.T) {
	ctx := context.Background()
	repo := newMemDeviceRepo()
	manager := connector.NewDeviceManager(repo, logger.NewNoopLogger())

	_, token, err := manager.Register(ctx, uuid.New(), "desktop")
	require.NoError(t, err)

	_, err = manager.VerifyToken(ctx, uuid.New(), token)
	assert.ErrorIs(t, err, domain.ErrDeviceTokenInvalid)
}
