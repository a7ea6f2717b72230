package metadata

import (
	"strings"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// ApplyToTitle writes fetched metadata onto a title. Without force, existing
// hand-curated or previously enriched values win: the description is only
// replaced when empty, shorter than the configured minimum, or a placeholder
// equal to the title's own name, and images only fill empty slots. Player
// info always goes through the clamp rules, and physical-play fields are
// only written for physical game types. It reports whether the title
// changed.
func (p *Pipeline) ApplyToTitle(title *models.GameTitle, meta *domain.FetchedMetadata, force bool) bool {
	if title == nil || meta == nil {
		return false
	}

	changed := false

	if meta.Description != "" && (force || p.descriptionNeedsReplacing(title)) {
		title.Description = meta.Description
		changed = true
	}
	if meta.CoverImageURL != "" && (force || title.CoverImageURL == "") {
		title.CoverImageURL = meta.CoverImageURL
		changed = true
	}
	if meta.HeaderImageURL != "" && (force || title.HeaderImageURL == "") {
		title.HeaderImageURL = meta.HeaderImageURL
		changed = true
	}
	if len(meta.Genres) > 0 && (force || title.Genres == "") {
		title.Genres = strings.Join(meta.Genres, ", ")
		changed = true
	}
	if len(meta.Developers) > 0 && (force || title.Developers == "") {
		title.Developers = strings.Join(meta.Developers, ", ")
		changed = true
	}
	if len(meta.Publishers) > 0 && (force || title.Publishers == "") {
		title.Publishers = strings.Join(meta.Publishers, ", ")
		changed = true
	}

	if meta.Players != nil {
		merged := domain.MergePlayerInfo(title.Players, meta.Players, title.Type.IsPhysical())
		clamped := domain.ClampPlayerProfile(merged)
		if !profilesEqual(clamped, title.Players) {
			title.Players = clamped
			changed = true
		}
	}

	return changed
}

func profilesEqual(a, b models.PlayerProfile) bool {
	intEq := func(x, y *int) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	}
	return a.MinPlayers == b.MinPlayers &&
		a.MaxPlayers == b.MaxPlayers &&
		a.SupportsOnline == b.SupportsOnline &&
		intEq(a.OnlineMinPlayers, b.OnlineMinPlayers) &&
		intEq(a.OnlineMaxPlayers, b.OnlineMaxPlayers) &&
		a.SupportsLocal == b.SupportsLocal &&
		intEq(a.LocalMinPlayers, b.LocalMinPlayers) &&
		intEq(a.LocalMaxPlayers, b.LocalMaxPlayers) &&
		a.SupportsPhysical == b.SupportsPhysical &&
		intEq(a.PhysicalMinPlayers, b.PhysicalMinPlayers) &&
		intEq(a.PhysicalMaxPlayers, b.PhysicalMaxPlayers)
}

func (p *Pipeline) descriptionNeedsReplacing(title *models.GameTitle) bool {
	desc := strings.TrimSpace(title.Description)
	if desc == "" {
		return true
	}
	if p.opts.MinDescriptionLength > 0 && len(desc) < p.opts.MinDescriptionLength {
		return true
	}
	return strings.EqualFold(desc, strings.TrimSpace(title.Name))
}
