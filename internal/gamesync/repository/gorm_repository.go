package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/encryption"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
	pkgrepo "github.com/JulianiusM/InventoryManagement-sub000/pkg/repository"
)

// GormRepository implements Repository on a GORM database handle. Account
// credentials are encrypted at rest.
type GormRepository struct {
	db        *gorm.DB
	encryptor *encryption.Encryptor
}

// NewGormRepository creates the repository. encryptionKey protects account
// credentials; it must stay stable across restarts.
func NewGormRepository(db *gorm.DB, encryptionKey string) (*GormRepository, error) {
	encryptor, err := encryption.NewEncryptor(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential encryptor: %w", err)
	}
	return &GormRepository{db: db, encryptor: encryptor}, nil
}

var _ Repository = (*GormRepository)(nil)

// Titles

func (r *GormRepository) CreateTitle(ctx context.Context, title *models.GameTitle) error {
	return pkgrepo.Create(ctx, r.db, title)
}

func (r *GormRepository) GetTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error) {
	return pkgrepo.FindByID[models.GameTitle](ctx, r.db, id, "Releases")
}

func (r *GormRepository) GetTitleByNormalizedName(ctx context.Context, normalizedName string) (*models.GameTitle, error) {
	return pkgrepo.FindOneBy[models.GameTitle](ctx, r.db, "normalized_name = ?", normalizedName)
}

func (r *GormRepository) UpdateTitle(ctx context.Context, title *models.GameTitle) error {
	return pkgrepo.Update(ctx, r.db, title)
}

func (r *GormRepository) ListTitles(ctx context.Context, limit, offset int) ([]*models.GameTitle, error) {
	var titles []*models.GameTitle
	query := r.db.WithContext(ctx).Order("normalized_name")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

// Releases

func (r *GormRepository) CreateRelease(ctx context.Context, release *models.GameRelease) error {
	return pkgrepo.Create(ctx, r.db, release)
}

func (r *GormRepository) GetRelease(ctx context.Context, id uuid.UUID) (*models.GameRelease, error) {
	return pkgrepo.FindByID[models.GameRelease](ctx, r.db, id)
}

func (r *GormRepository) GetReleaseByIdentity(ctx context.Context, titleID uuid.UUID, platform, edition string) (*models.GameRelease, error) {
	return pkgrepo.FindOneBy[models.GameRelease](ctx, r.db,
		"title_id = ? AND platform = ? AND edition = ?", titleID, platform, edition)
}

func (r *GormRepository) ListReleasesByTitle(ctx context.Context, titleID uuid.UUID) ([]*models.GameRelease, error) {
	return pkgrepo.FindAllBy[models.GameRelease](ctx, r.db, "title_id = ?", titleID)
}

// Mappings

func (r *GormRepository) CreateMapping(ctx context.Context, mapping *models.ExternalMapping) error {
	return pkgrepo.Create(ctx, r.db, mapping)
}

func (r *GormRepository) GetMappingByIdentity(ctx context.Context, provider, externalGameID string, ownerID uuid.UUID) (*models.ExternalMapping, error) {
	return pkgrepo.FindOneBy[models.ExternalMapping](ctx, r.db,
		"provider = ? AND external_game_id = ? AND owner_id = ?", provider, externalGameID, ownerID)
}

func (r *GormRepository) UpdateMapping(ctx context.Context, mapping *models.ExternalMapping) error {
	return pkgrepo.Update(ctx, r.db, mapping)
}

// Library entries

func (r *GormRepository) UpsertEntry(ctx context.Context, entry *models.LibraryEntry) error {
	return pkgrepo.Upsert(ctx, r.db, entry,
		[]string{"account_id", "external_game_id"},
		[]string{"name", "raw_payload", "playtime_minutes", "installed", "last_played_at", "updated_at"})
}

func (r *GormRepository) GetEntry(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.LibraryEntry, error) {
	return pkgrepo.FindOneBy[models.LibraryEntry](ctx, r.db,
		"account_id = ? AND external_game_id = ?", accountID, externalGameID)
}

func (r *GormRepository) ListEntriesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.LibraryEntry, error) {
	return pkgrepo.FindAllBy[models.LibraryEntry](ctx, r.db, "account_id = ?", accountID)
}

// Copies

func (r *GormRepository) CreateCopy(ctx context.Context, copy *models.DigitalCopy) error {
	return pkgrepo.Create(ctx, r.db, copy)
}

func (r *GormRepository) UpdateCopy(ctx context.Context, copy *models.DigitalCopy) error {
	return pkgrepo.Update(ctx, r.db, copy)
}

func (r *GormRepository) GetCopyByIdentity(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.DigitalCopy, error) {
	return pkgrepo.FindOneBy[models.DigitalCopy](ctx, r.db,
		"account_id = ? AND external_game_id = ?", accountID, externalGameID)
}

func (r *GormRepository) ListCopiesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.DigitalCopy, error) {
	return pkgrepo.FindAllBy[models.DigitalCopy](ctx, r.db, "account_id = ?", accountID)
}

// Sync jobs

func (r *GormRepository) CreateJob(ctx context.Context, job *models.SyncJob) error {
	return pkgrepo.Create(ctx, r.db, job)
}

func (r *GormRepository) UpdateJob(ctx context.Context, job *models.SyncJob) error {
	return pkgrepo.Update(ctx, r.db, job)
}

func (r *GormRepository) GetJob(ctx context.Context, id uuid.UUID) (*models.SyncJob, error) {
	return pkgrepo.FindByID[models.SyncJob](ctx, r.db, id)
}

func (r *GormRepository) GetLatestJobByAccount(ctx context.Context, accountID uuid.UUID) (*models.SyncJob, error) {
	var job models.SyncJob
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("sync job not found")
		}
		return nil, err
	}
	return &job, nil
}

func (r *GormRepository) ListJobsByStatus(ctx context.Context, status models.SyncJobStatus) ([]*models.SyncJob, error) {
	return pkgrepo.FindAllBy[models.SyncJob](ctx, r.db, "status = ?", status)
}

// Accounts

func (r *GormRepository) CreateAccount(ctx context.Context, account *models.ExternalAccount) error {
	return pkgrepo.Create(ctx, r.db, account)
}

func (r *GormRepository) GetAccount(ctx context.Context, id uuid.UUID) (*models.ExternalAccount, error) {
	return pkgrepo.FindByID[models.ExternalAccount](ctx, r.db, id)
}

func (r *GormRepository) UpdateAccount(ctx context.Context, account *models.ExternalAccount) error {
	return pkgrepo.Update(ctx, r.db, account)
}

func (r *GormRepository) ListEnabledAccounts(ctx context.Context) ([]*models.ExternalAccount, error) {
	return pkgrepo.FindAllBy[models.ExternalAccount](ctx, r.db, "enabled = ?", true)
}

func (r *GormRepository) GetCredentials(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	account, err := r.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Credentials == "" {
		return map[string]string{}, nil
	}

	plaintext, err := r.encryptor.Decrypt(account.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	creds := map[string]string{}
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

func (r *GormRepository) SetCredentials(ctx context.Context, id uuid.UUID, credentials map[string]string) error {
	account, err := r.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	ciphertext, err := r.encryptor.Encrypt(string(plaintext))
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	account.Credentials = ciphertext
	return r.UpdateAccount(ctx, account)
}

// Devices

func (r *GormRepository) CreateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	return pkgrepo.Create(ctx, r.db, device)
}

func (r *GormRepository) GetDevice(ctx context.Context, id uuid.UUID) (*models.ConnectorDevice, error) {
	return pkgrepo.FindByID[models.ConnectorDevice](ctx, r.db, id)
}

func (r *GormRepository) ListDevicesByAccount(ctx context.Context, accountID uuid.UUID, includeRevoked bool) ([]*models.ConnectorDevice, error) {
	if includeRevoked {
		return pkgrepo.FindAllBy[models.ConnectorDevice](ctx, r.db, "account_id = ?", accountID)
	}
	return pkgrepo.FindAllBy[models.ConnectorDevice](ctx, r.db, "account_id = ? AND revoked = ?", accountID, false)
}

func (r *GormRepository) UpdateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	return pkgrepo.Update(ctx, r.db, device)
}

func (r *GormRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	return pkgrepo.Delete[models.ConnectorDevice](ctx, r.db, id)
}
