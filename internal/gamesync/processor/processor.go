// Package processor reconciles connector-reported games into the canonical
// catalog. It is the single reconciliation path shared by pull syncs and
// push imports.
package processor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/repository"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// isDuplicate matches both the typed conflict the repository layer returns
// and raw driver duplicate-key errors.
func isDuplicate(err error) bool {
	return pkgerrors.IsConflict(err) || pkgerrors.IsDuplicateError(err)
}

// BatchResult aggregates the counts of one reconciliation run.
type BatchResult struct {
	Processed     int
	Added         int
	Updated       int
	TitlesCreated int
	CopiesCreated int

	// NewTitleIDs lists the titles created during this run, in creation
	// order, for background enrichment.
	NewTitleIDs []uuid.UUID
}

// Processor reconciles raw external games into titles, releases, mappings,
// copies and snapshots.
type Processor struct {
	repo   repository.Repository
	bus    interfaces.EventBus
	logger interfaces.Logger
}

// NewProcessor creates a processor over the given repository.
func NewProcessor(repo repository.Repository, bus interfaces.EventBus, logger interfaces.Logger) *Processor {
	return &Processor{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// ProcessBatch reconciles one connector batch. Games are processed
// sequentially because title creation may merge later entries of the same
// run into titles created by earlier ones. A failure on one game is logged
// and skipped; the batch continues.
func (p *Processor) ProcessBatch(ctx context.Context, account *models.ExternalAccount, provider string, games []domain.RawExternalGame, ownerID uuid.UUID, isAggregator bool) (*BatchResult, error) {
	result := &BatchResult{}

	existing, err := p.prefetchCopies(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	for i := range games {
		game := &games[i]
		if err := p.processGame(ctx, account, provider, game, ownerID, isAggregator, existing, result); err != nil {
			p.logger.Warn("Failed to process game, skipping",
				interfaces.String("provider", provider),
				interfaces.String("external_game_id", game.ExternalGameID),
				interfaces.String("name", game.Name),
				interfaces.Error(err))
			continue
		}
		result.Processed++
	}

	return result, nil
}

// prefetchCopies loads the account's existing copies once so the per-game
// loop can take the fast path without a lookup per game.
func (p *Processor) prefetchCopies(ctx context.Context, accountID uuid.UUID) (map[string]*models.DigitalCopy, error) {
	copies, err := p.repo.ListCopiesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	byExternalID := make(map[string]*models.DigitalCopy, len(copies))
	for _, c := range copies {
		byExternalID[c.ExternalGameID] = c
	}
	return byExternalID, nil
}

func (p *Processor) processGame(ctx context.Context, account *models.ExternalAccount, provider string, game *domain.RawExternalGame, ownerID uuid.UUID, isAggregator bool, existing map[string]*models.DigitalCopy, result *BatchResult) error {
	if err := p.upsertSnapshot(ctx, account.ID, game); err != nil {
		return err
	}

	// Smart-sync fast path: a known copy only gets its volatile fields
	// refreshed, the catalog is left alone.
	if copy, ok := existing[game.ExternalGameID]; ok {
		copy.PlaytimeMinutes = game.PlaytimeMinutes
		copy.Installed = game.Installed
		copy.LastPlayedAt = game.LastPlayedAt
		if game.StoreURL != "" {
			copy.StoreURL = game.StoreURL
		}
		if err := p.repo.UpdateCopy(ctx, copy); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	mapping, err := p.resolveMapping(ctx, provider, game, ownerID, result)
	if err != nil {
		return err
	}
	if mapping.Status == models.MappingStatusIgnored {
		return nil
	}

	copy := &models.DigitalCopy{
		ID:              uuid.New(),
		AccountID:       account.ID,
		ExternalGameID:  game.ExternalGameID,
		OwnerID:         ownerID,
		ReleaseID:       *mapping.ReleaseID,
		PlaytimeMinutes: game.PlaytimeMinutes,
		Installed:       game.Installed,
		LastPlayedAt:    game.LastPlayedAt,
		StoreURL:        game.StoreURL,
	}
	if isAggregator {
		copy.OriginalProvider = game.OriginalProvider
		copy.OriginalProviderGameID = game.OriginalProviderGameID
		copy.NeedsReview = game.OriginalProviderGameID == ""
	}
	if err := p.repo.CreateCopy(ctx, copy); err != nil {
		return err
	}
	existing[game.ExternalGameID] = copy

	result.Added++
	result.CopiesCreated++
	return nil
}

func (p *Processor) upsertSnapshot(ctx context.Context, accountID uuid.UUID, game *domain.RawExternalGame) error {
	return p.repo.UpsertEntry(ctx, &models.LibraryEntry{
		ID:              uuid.New(),
		AccountID:       accountID,
		ExternalGameID:  game.ExternalGameID,
		Name:            game.Name,
		RawPayload:      game.RawPayload,
		PlaytimeMinutes: game.PlaytimeMinutes,
		Installed:       game.Installed,
		LastPlayedAt:    game.LastPlayedAt,
	})
}

// resolveMapping returns the game's mapping, creating it and the catalog
// records it points at when missing or still pending.
func (p *Processor) resolveMapping(ctx context.Context, provider string, game *domain.RawExternalGame, ownerID uuid.UUID, result *BatchResult) (*models.ExternalMapping, error) {
	mapping, err := p.repo.GetMappingByIdentity(ctx, provider, game.ExternalGameID, ownerID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			return nil, err
		}
		mapping = &models.ExternalMapping{
			ID:             uuid.New(),
			Provider:       provider,
			ExternalGameID: game.ExternalGameID,
			OwnerID:        ownerID,
			Status:         models.MappingStatusPending,
		}
		if err := p.repo.CreateMapping(ctx, mapping); err != nil {
			return nil, err
		}
	}

	if mapping.Status != models.MappingStatusPending {
		return mapping, nil
	}

	title, err := p.findOrCreateTitle(ctx, game, result)
	if err != nil {
		return nil, err
	}
	release, err := p.findOrCreateRelease(ctx, title, game)
	if err != nil {
		return nil, err
	}

	mapping.TitleID = &title.ID
	mapping.ReleaseID = &release.ID
	mapping.Status = models.MappingStatusMapped
	if err := p.repo.UpdateMapping(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// findOrCreateTitle reuses an existing title by normalized base name so that
// the same game reported by different sources merges instead of duplicating.
func (p *Processor) findOrCreateTitle(ctx context.Context, game *domain.RawExternalGame, result *BatchResult) (*models.GameTitle, error) {
	base, _ := domain.ExtractEdition(game.Name)
	normalized := domain.NormalizeName(base)
	if normalized == "" {
		normalized = domain.NormalizeName(game.Name)
		base = game.Name
	}

	title, err := p.repo.GetTitleByNormalizedName(ctx, normalized)
	if err == nil {
		return title, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	title = &models.GameTitle{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(base),
		NormalizedName: normalized,
		Type:           models.GameTypeVideoGame,
		Players:        domain.MergePlayerInfo(models.PlayerProfile{MinPlayers: 1, MaxPlayers: 1}, game.Players, false),
	}

	if err := p.createTitleWithFallback(ctx, title); err != nil {
		// Concurrent creation of the same normalized name resolves to the
		// winner's row.
		if isDuplicate(err) {
			return p.repo.GetTitleByNormalizedName(ctx, normalized)
		}
		return nil, err
	}

	result.TitlesCreated++
	result.NewTitleIDs = append(result.NewTitleIDs, title.ID)

	if p.bus != nil {
		if err := p.bus.Publish(ctx, domain.NewTitleCreatedEvent(title)); err != nil {
			p.logger.Debug("Failed to publish title created event", interfaces.Error(err))
		}
	}
	return title, nil
}

// createTitleWithFallback persists a title through the invariant fallback
// ladder: as-is, then with a clamped player profile, then with the safe
// single-player default. Inconsistent source data must never make title
// creation fail permanently.
func (p *Processor) createTitleWithFallback(ctx context.Context, title *models.GameTitle) error {
	if domain.ValidatePlayerProfile(title.Players) == nil {
		if err := p.repo.CreateTitle(ctx, title); err == nil || isDuplicate(err) {
			return err
		}
	}

	title.Players = domain.ClampPlayerProfile(title.Players)
	if domain.ValidatePlayerProfile(title.Players) == nil {
		err := p.repo.CreateTitle(ctx, title)
		if err == nil || isDuplicate(err) {
			return err
		}
		p.logger.Warn("Title creation with clamped player profile failed, using safe default",
			interfaces.String("name", title.Name),
			interfaces.Error(err))
	}

	title.Players = domain.SafePlayerProfile()
	return p.repo.CreateTitle(ctx, title)
}

func (p *Processor) findOrCreateRelease(ctx context.Context, title *models.GameTitle, game *domain.RawExternalGame) (*models.GameRelease, error) {
	_, edition := domain.ExtractEdition(game.Name)

	release, err := p.repo.GetReleaseByIdentity(ctx, title.ID, game.Platform, edition)
	if err == nil {
		return release, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	release = &models.GameRelease{
		ID:       uuid.New(),
		TitleID:  title.ID,
		Platform: game.Platform,
		Edition:  edition,
	}
	if err := p.repo.CreateRelease(ctx, release); err != nil {
		if isDuplicate(err) {
			return p.repo.GetReleaseByIdentity(ctx, title.ID, game.Platform, edition)
		}
		return nil, err
	}
	return release, nil
}

// SoftRemoveMissing clears the install flag on every copy of the account
// whose snapshot is not in the reported entitlement-key set. Nothing is
// deleted; ownership history survives the game disappearing from an agent's
// report.
func (p *Processor) SoftRemoveMissing(ctx context.Context, accountID uuid.UUID, reported map[string]struct{}) (int, error) {
	copies, err := p.repo.ListCopiesByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, copy := range copies {
		if _, ok := reported[copy.ExternalGameID]; ok {
			continue
		}
		if !copy.Installed {
			continue
		}
		copy.Installed = false
		if err := p.repo.UpdateCopy(ctx, copy); err != nil {
			p.logger.Warn("Failed to soft-remove copy",
				interfaces.String("external_game_id", copy.ExternalGameID),
				interfaces.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
