package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// FetchMetadataForTitle runs the full enrichment pipeline for one title on
// the caller's behalf. With force set, provider data overwrites existing
// values instead of only filling gaps.
func (s *SyncService) FetchMetadataForTitle(ctx context.Context, titleID uuid.UUID, force bool) error {
	if titleID == uuid.Nil {
		return pkgerrors.BadRequest("title id is required")
	}
	err := s.enrichTitle(metadata.WithSyncBudget(ctx), titleID, force)
	if pkgerrors.IsNotFound(err) {
		return pkgerrors.NotFound("title not found")
	}
	return err
}

// SearchMetadataOptions returns ranked candidates for a free-text name
// across every search-capable provider for the game type, in fallback order.
func (s *SyncService) SearchMetadataOptions(ctx context.Context, name string, gameType models.GameType, limit int) ([]domain.SearchOption, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.BadRequest("search name is required")
	}
	ctx = metadata.WithSyncBudget(ctx)

	var options []domain.SearchOption
	for _, provider := range s.pipeline.SearchCapableProviders(gameType) {
		results, err := s.pipeline.Search(ctx, provider, name, limit)
		if err != nil {
			continue
		}
		options = append(options, results...)
	}
	return metadata.RankSearchOptions(options, name, limit), nil
}

// ApplyMetadataOption fetches one concrete provider record and applies it to
// the title. Used after the user picked a search option.
func (s *SyncService) ApplyMetadataOption(ctx context.Context, titleID uuid.UUID, providerID, externalID string, force bool) error {
	if titleID == uuid.Nil {
		return pkgerrors.BadRequest("title id is required")
	}
	if providerID == "" || externalID == "" {
		return pkgerrors.BadRequest("provider id and external id are required")
	}

	title, err := s.repo.GetTitle(ctx, titleID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.NotFound("title not found")
		}
		return err
	}

	meta, err := s.pipeline.Fetch(metadata.WithSyncBudget(ctx), providerID, externalID)
	if err != nil {
		return err
	}

	if !s.pipeline.ApplyToTitle(title, meta, force) {
		return nil
	}
	if err := s.repo.UpdateTitle(ctx, title); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.PublishAsync(ctx, domain.NewMetadataAppliedEvent(title.ID, providerID))
	}
	return nil
}
