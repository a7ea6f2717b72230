package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/database"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

func newTestRepo(t *testing.T) *repository.GormRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	repo, err := repository.NewGormRepository(db, "test-encryption-key")
	require.NoError(t, err)
	return repo
}

func TestTitleUniqueNormalizedName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	title := &models.GameTitle{
		ID:             uuid.New(),
		Name:           "Portal 2",
		NormalizedName: "portal 2",
		Type:           models.GameTypeVideoGame,
		Players:        models.PlayerProfile{MinPlayers: 1, MaxPlayers: 2},
	}
	require.NoError(t, repo.CreateTitle(ctx, title))

	dup := &models.GameTitle{
		ID:             uuid.New(),
		Name:           "Portal 2",
		NormalizedName: "portal 2",
		Type:           models.GameTypeVideoGame,
	}
	err := repo.CreateTitle(ctx, dup)
	require.Error(t, err)

	got, err := repo.GetTitleByNormalizedName(ctx, "portal 2")
	require.NoError(t, err)
	assert.Equal(t, title.ID, got.ID)

	_, err = repo.GetTitleByNormalizedName(ctx, "half life 3")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestReleaseIdentityLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	title := &models.GameTitle{
		ID:             uuid.New(),
		Name:           "The Sims 4",
		NormalizedName: "the sims 4",
		Type:           models.GameTypeVideoGame,
		Players:        models.PlayerProfile{MinPlayers: 1, MaxPlayers: 1},
	}
	require.NoError(t, repo.CreateTitle(ctx, title))

	release := &models.GameRelease{
		ID:       uuid.New(),
		TitleID:  title.ID,
		Platform: "windows",
		Edition:  "Premium Edition",
	}
	require.NoError(t, repo.CreateRelease(ctx, release))

	got, err := repo.GetReleaseByIdentity(ctx, title.ID, "windows", "Premium Edition")
	require.NoError(t, err)
	assert.Equal(t, release.ID, got.ID)

	_, err = repo.GetReleaseByIdentity(ctx, title.ID, "windows", "")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestEntryUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := uuid.New()

	entry := &models.LibraryEntry{
		ID:              uuid.New(),
		AccountID:       accountID,
		ExternalGameID:  "620",
		Name:            "Portal 2",
		PlaytimeMinutes: 60,
	}
	require.NoError(t, repo.UpsertEntry(ctx, entry))

	again := &models.LibraryEntry{
		ID:              uuid.New(),
		AccountID:       accountID,
		ExternalGameID:  "620",
		Name:            "Portal 2",
		PlaytimeMinutes: 120,
		Installed:       true,
	}
	require.NoError(t, repo.UpsertEntry(ctx, again))

	entries, err := repo.ListEntriesByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 120, entries[0].PlaytimeMinutes)
	assert.True(t, entries[0].Installed)
}

func TestCredentialsAreEncryptedAtRest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	account := &models.ExternalAccount{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Provider: "steam",
		Enabled:  true,
	}
	require.NoError(t, repo.CreateAccount(ctx, account))

	creds := map[string]string{"api_key": "very-secret", "steam_id": "7656119"}
	require.NoError(t, repo.SetCredentials(ctx, account.ID, creds))

	stored, err := repo.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Credentials, "very-secret")

	got, err := repo.GetCredentials(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestGetLatestJobByAccount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := uuid.New()

	first := &models.SyncJob{ID: uuid.New(), AccountID: accountID, Kind: models.SyncJobKindSync, Status: models.SyncJobStatusCompleted}
	require.NoError(t, repo.CreateJob(ctx, first))

	time.Sleep(5 * time.Millisecond)

	second := &models.SyncJob{ID: uuid.New(), AccountID: accountID, Kind: models.SyncJobKindSync, Status: models.SyncJobStatusPending}
	require.NoError(t, repo.CreateJob(ctx, second))

	latest, err := repo.GetLatestJobByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	running, err := repo.ListJobsByStatus(ctx, models.SyncJobStatusPending)
	require.NoError(t, err)
	assert.Len(t, running, 1)
}

func TestListDevicesFiltersRevoked(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := uuid.New()

	active := &models.ConnectorDevice{ID: uuid.New(), AccountID: accountID, Name: "pc", TokenHash: "h1"}
	revoked := &models.ConnectorDevice{ID: uuid.New(), AccountID: accountID, Name: "old", TokenHash: "h2", Revoked: true}
	require.NoError(t, repo.CreateDevice(ctx, active))
	require.NoError(t, repo.CreateDevice(ctx, revoked))

	devices, err := repo.ListDevicesByAccount(ctx, accountID, false)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, active.ID, devices[0].ID)

	devices, err = repo.ListDevicesByAccount(ctx, accountID, true)
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	require.NoError(t, repo.DeleteDevice(ctx, revoked.ID))
	devices, err = repo.ListDevicesByAccount(ctx, accountID, true)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}
