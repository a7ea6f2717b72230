// Package testutil provides shared test fixtures, including an in-memory
// repository implementation.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// FakeRepository is a map-backed repository.Repository for tests. It mirrors
// the unique indexes of the real schema by returning duplicate-key errors on
// identity collisions.
type FakeRepository struct {
	mu sync.Mutex

	Titles      map[uuid.UUID]*models.GameTitle
	Releases    map[uuid.UUID]*models.GameRelease
	Mappings    map[uuid.UUID]*models.ExternalMapping
	Entries     map[string]*models.LibraryEntry
	Copies      map[uuid.UUID]*models.DigitalCopy
	Jobs        map[uuid.UUID]*models.SyncJob
	Accounts    map[uuid.UUID]*models.ExternalAccount
	Devices     map[uuid.UUID]*models.ConnectorDevice
	Credentials map[uuid.UUID]map[string]string
}

// NewFakeRepository creates an empty fake repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		Titles:      make(map[uuid.UUID]*models.GameTitle),
		Releases:    make(map[uuid.UUID]*models.GameRelease),
		Mappings:    make(map[uuid.UUID]*models.ExternalMapping),
		Entries:     make(map[string]*models.LibraryEntry),
		Copies:      make(map[uuid.UUID]*models.DigitalCopy),
		Jobs:        make(map[uuid.UUID]*models.SyncJob),
		Accounts:    make(map[uuid.UUID]*models.ExternalAccount),
		Devices:     make(map[uuid.UUID]*models.ConnectorDevice),
		Credentials: make(map[uuid.UUID]map[string]string),
	}
}

var _ repository.Repository = (*FakeRepository)(nil)

func duplicate() error {
	return pkgerrors.Conflict("duplicate key value violates unique constraint")
}

func entryKey(accountID uuid.UUID, externalGameID string) string {
	return accountID.String() + "/" + externalGameID
}

// Titles

func (r *FakeRepository) CreateTitle(ctx context.Context, title *models.GameTitle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Titles {
		if t.NormalizedName == title.NormalizedName {
			return duplicate()
		}
	}
	clone := *title
	r.Titles[title.ID] = &clone
	return nil
}

func (r *FakeRepository) GetTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Titles[id]
	if !ok {
		return nil, pkgerrors.NotFound("title not found")
	}
	clone := *t
	return &clone, nil
}

func (r *FakeRepository) GetTitleByNormalizedName(ctx context.Context, normalizedName string) (*models.GameTitle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Titles {
		if t.NormalizedName == normalizedName {
			clone := *t
			return &clone, nil
		}
	}
	return nil, pkgerrors.NotFound("title not found")
}

func (r *FakeRepository) UpdateTitle(ctx context.Context, title *models.GameTitle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Titles[title.ID]; !ok {
		return pkgerrors.NotFound("title not found")
	}
	clone := *title
	r.Titles[title.ID] = &clone
	return nil
}

func (r *FakeRepository) ListTitles(ctx context.Context, limit, offset int) ([]*models.GameTitle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GameTitle
	for _, t := range r.Titles {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

// Releases

func (r *FakeRepository) CreateRelease(ctx context.Context, release *models.GameRelease) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.Releases {
		if rel.TitleID == release.TitleID && rel.Platform == release.Platform && rel.Edition == release.Edition {
			return duplicate()
		}
	}
	clone := *release
	r.Releases[release.ID] = &clone
	return nil
}

func (r *FakeRepository) GetRelease(ctx context.Context, id uuid.UUID) (*models.GameRelease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.Releases[id]
	if !ok {
		return nil, pkgerrors.NotFound("release not found")
	}
	clone := *rel
	return &clone, nil
}

func (r *FakeRepository) GetReleaseByIdentity(ctx context.Context, titleID uuid.UUID, platform, edition string) (*models.GameRelease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.Releases {
		if rel.TitleID == titleID && rel.Platform == platform && rel.Edition == edition {
			clone := *rel
			return &clone, nil
		}
	}
	return nil, pkgerrors.NotFound("release not found")
}

func (r *FakeRepository) ListReleasesByTitle(ctx context.Context, titleID uuid.UUID) ([]*models.GameRelease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GameRelease
	for _, rel := range r.Releases {
		if rel.TitleID == titleID {
			clone := *rel
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Mappings

func (r *FakeRepository) CreateMapping(ctx context.Context, mapping *models.ExternalMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Mappings {
		if m.Provider == mapping.Provider && m.ExternalGameID == mapping.ExternalGameID && m.OwnerID == mapping.OwnerID {
			return duplicate()
		}
	}
	clone := *mapping
	r.Mappings[mapping.ID] = &clone
	return nil
}

func (r *FakeRepository) GetMappingByIdentity(ctx context.Context, provider, externalGameID string, ownerID uuid.UUID) (*models.ExternalMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Mappings {
		if m.Provider == provider && m.ExternalGameID == externalGameID && m.OwnerID == ownerID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, pkgerrors.NotFound("mapping not found")
}

func (r *FakeRepository) UpdateMapping(ctx context.Context, mapping *models.ExternalMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Mappings[mapping.ID]; !ok {
		return pkgerrors.NotFound("mapping not found")
	}
	clone := *mapping
	r.Mappings[mapping.ID] = &clone
	return nil
}

// Library entries

func (r *FakeRepository) UpsertEntry(ctx context.Context, entry *models.LibraryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryKey(entry.AccountID, entry.ExternalGameID)
	if existing, ok := r.Entries[key]; ok {
		entry.ID = existing.ID
	}
	clone := *entry
	clone.UpdatedAt = time.Now()
	r.Entries[key] = &clone
	return nil
}

func (r *FakeRepository) GetEntry(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.LibraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.Entries[entryKey(accountID, externalGameID)]
	if !ok {
		return nil, pkgerrors.NotFound("library entry not found")
	}
	clone := *e
	return &clone, nil
}

func (r *FakeRepository) ListEntriesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.LibraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LibraryEntry
	for _, e := range r.Entries {
		if e.AccountID == accountID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Copies

func (r *FakeRepository) CreateCopy(ctx context.Context, copy *models.DigitalCopy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Copies {
		if c.AccountID == copy.AccountID && c.ExternalGameID == copy.ExternalGameID {
			return duplicate()
		}
	}
	clone := *copy
	r.Copies[copy.ID] = &clone
	return nil
}

func (r *FakeRepository) UpdateCopy(ctx context.Context, copy *models.DigitalCopy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Copies[copy.ID]; !ok {
		return pkgerrors.NotFound("copy not found")
	}
	clone := *copy
	r.Copies[copy.ID] = &clone
	return nil
}

func (r *FakeRepository) GetCopyByIdentity(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.DigitalCopy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Copies {
		if c.AccountID == accountID && c.ExternalGameID == externalGameID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pkgerrors.NotFound("copy not found")
}

func (r *FakeRepository) ListCopiesByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.DigitalCopy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DigitalCopy
	for _, c := range r.Copies {
		if c.AccountID == accountID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Sync jobs

func (r *FakeRepository) CreateJob(ctx context.Context, job *models.SyncJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	clone.CreatedAt = time.Now()
	r.Jobs[job.ID] = &clone
	return nil
}

func (r *FakeRepository) UpdateJob(ctx context.Context, job *models.SyncJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Jobs[job.ID]; !ok {
		return pkgerrors.NotFound("sync job not found")
	}
	clone := *job
	r.Jobs[job.ID] = &clone
	return nil
}

func (r *FakeRepository) GetJob(ctx context.Context, id uuid.UUID) (*models.SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.Jobs[id]
	if !ok {
		return nil, pkgerrors.NotFound("sync job not found")
	}
	clone := *j
	return &clone, nil
}

func (r *FakeRepository) GetLatestJobByAccount(ctx context.Context, accountID uuid.UUID) (*models.SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.SyncJob
	for _, j := range r.Jobs {
		if j.AccountID != accountID {
			continue
		}
		if latest == nil || j.CreatedAt.After(latest.CreatedAt) {
			latest = j
		}
	}
	if latest == nil {
		return nil, pkgerrors.NotFound("sync job not found")
	}
	clone := *latest
	return &clone, nil
}

func (r *FakeRepository) ListJobsByStatus(ctx context.Context, status models.SyncJobStatus) ([]*models.SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SyncJob
	for _, j := range r.Jobs {
		if j.Status == status {
			clone := *j
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Accounts

func (r *FakeRepository) CreateAccount(ctx context.Context, account *models.ExternalAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *account
	r.Accounts[account.ID] = &clone
	return nil
}

func (r *FakeRepository) GetAccount(ctx context.Context, id uuid.UUID) (*models.ExternalAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Accounts[id]
	if !ok {
		return nil, pkgerrors.NotFound("account not found")
	}
	clone := *a
	return &clone, nil
}

func (r *FakeRepository) UpdateAccount(ctx context.Context, account *models.ExternalAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Accounts[account.ID]; !ok {
		return pkgerrors.NotFound("account not found")
	}
	clone := *account
	r.Accounts[account.ID] = &clone
	return nil
}

func (r *FakeRepository) ListEnabledAccounts(ctx context.Context) ([]*models.ExternalAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ExternalAccount
	for _, a := range r.Accounts {
		if a.Enabled {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *FakeRepository) GetCredentials(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	creds, ok := r.Credentials[id]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(creds))
	for k, v := range creds {
		out[k] = v
	}
	return out, nil
}

func (r *FakeRepository) SetCredentials(ctx context.Context, id uuid.UUID, credentials map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := make(map[string]string, len(credentials))
	for k, v := range credentials {
		clone[k] = v
	}
	r.Credentials[id] = clone
	return nil
}

// Devices

func (r *FakeRepository) CreateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *device
	r.Devices[device.ID] = &clone
	return nil
}

func (r *FakeRepository) GetDevice(ctx context.Context, id uuid.UUID) (*models.ConnectorDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.Devices[id]
	if !ok {
		return nil, pkgerrors.NotFound("device not found")
	}
	clone := *d
	return &clone, nil
}

func (r *FakeRepository) ListDevicesByAccount(ctx context.Context, accountID uuid.UUID, includeRevoked bool) ([]*models.ConnectorDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ConnectorDevice
	for _, d := range r.Devices {
		if d.AccountID != accountID {
			continue
		}
		if d.Revoked && !includeRevoked {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *FakeRepository) UpdateDevice(ctx context.Context, device *models.ConnectorDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Devices[device.ID]; !ok {
		return pkgerrors.NotFound("device not found")
	}
	clone := *device
	r.Devices[device.ID] = &clone
	return nil
}

func (r *FakeRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Devices, id)
	return nil
}
