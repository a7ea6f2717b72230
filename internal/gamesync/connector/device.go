package connector

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

const deviceTokenBytes = 32

// DeviceManager owns the authenticated agents of push connectors. Tokens are
// stored only as bcrypt hashes; the plaintext is returned exactly once at
// registration.
type DeviceManager struct {
	repo   repository.DeviceRepository
	logger interfaces.Logger
}

// NewDeviceManager creates a new device manager.
func NewDeviceManager(repo repository.DeviceRepository, logger interfaces.Logger) *DeviceManager {
	return &DeviceManager{
		repo:   repo,
		logger: logger,
	}
}

// Register creates a device for the account and returns it together with the
// one-time plaintext token.
func (m *DeviceManager) Register(ctx context.Context, accountID uuid.UUID, name string) (*models.ConnectorDevice, string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate device token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash device token: %w", err)
	}

	device := &models.ConnectorDevice{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		TokenHash: string(hash),
	}

	if err := m.repo.CreateDevice(ctx, device); err != nil {
		return nil, "", err
	}

	m.logger.Info("Registered connector device",
		interfaces.String("device_id", device.ID.String()),
		interfaces.String("account_id", accountID.String()))

	return device, token, nil
}

// List returns the devices of an account, optionally including revoked ones.
func (m *DeviceManager) List(ctx context.Context, accountID uuid.UUID, includeRevoked bool) ([]*models.ConnectorDevice, error) {
	return m.repo.ListDevicesByAccount(ctx, accountID, includeRevoked)
}

// Revoke marks a device as revoked. Revoked devices fail verification but
// stay visible for auditing.
func (m *DeviceManager) Revoke(ctx context.Context, deviceID uuid.UUID) error {
	device, err := m.repo.GetDevice(ctx, deviceID)
	if err != nil {
		return err
	}

	device.Revoked = true
	return m.repo.UpdateDevice(ctx, device)
}

// Delete removes a device entirely.
func (m *DeviceManager) Delete(ctx context.Context, deviceID uuid.UUID) error {
	return m.repo.DeleteDevice(ctx, deviceID)
}

// VerifyToken resolves a plaintext token to the device it belongs to.
// Verification iterates the account's non-revoked devices and compares
// hashes; O(active devices) per call, acceptable for expected device counts.
func (m *DeviceManager) VerifyToken(ctx context.Context, accountID uuid.UUID, token string) (*models.ConnectorDevice, error) {
	devices, err := m.repo.ListDevicesByAccount(ctx, accountID, false)
	if err != nil {
		return nil, err
	}

	for _, device := range devices {
		if bcrypt.CompareHashAndPassword([]byte(device.TokenHash), []byte(token)) == nil {
			now := time.Now()
			device.LastSeenAt = &now
			if err := m.repo.UpdateDevice(ctx, device); err != nil {
				m.logger.Warn("Failed to update device last-seen time",
					interfaces.String("device_id", device.ID.String()),
					interfaces.Error(err))
			}
			return device, nil
		}
	}

	return nil, domain.ErrDeviceTokenInvalid
}

func generateToken() (string, error) {
	buf := make([]byte, deviceTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
