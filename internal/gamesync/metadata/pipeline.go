package metadata

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// Options tunes pipeline behavior.
type Options struct {
	// BatchTimeout bounds the wall-clock time one ProcessGameBatch call may
	// spend. Work already done is kept when the budget runs out.
	BatchTimeout time.Duration
	// SearchResultCap limits how many ranked options a search returns.
	SearchResultCap int
	// MinDescriptionLength is the threshold below which an existing
	// description is considered too thin to keep.
	MinDescriptionLength int
}

// Request identifies one game to enrich.
type Request struct {
	Name       string
	GameType   models.GameType
	ProviderID string
	ExternalID string
}

// Pipeline coordinates metadata providers with rate pacing and fallback.
type Pipeline struct {
	registry *Registry
	state    *RuntimeState
	logger   interfaces.Logger
	opts     Options
}

// NewPipeline creates a pipeline over the given registry and runtime state.
func NewPipeline(registry *Registry, state *RuntimeState, logger interfaces.Logger, opts Options) *Pipeline {
	if opts.SearchResultCap <= 0 {
		opts.SearchResultCap = 10
	}
	return &Pipeline{
		registry: registry,
		state:    state,
		logger:   logger,
		opts:     opts,
	}
}

// call runs one provider operation through the pacing and failure-tracking
// discipline shared by every pipeline entry point.
func (p *Pipeline) call(ctx context.Context, m Manifest, fn func() error) error {
	if err := p.state.Wait(ctx, m); err != nil {
		return err
	}
	if err := fn(); err != nil {
		p.state.RecordFailure(m, err)
		return err
	}
	p.state.RecordSuccess(m)
	return nil
}

// Search resolves a free-text name against one provider and returns ranked
// candidates.
func (p *Pipeline) Search(ctx context.Context, providerID, name string, limit int) ([]domain.SearchOption, error) {
	provider, err := p.registry.ByID(providerID)
	if err != nil {
		return nil, err
	}
	m := provider.Manifest()
	if !m.SupportsSearch {
		return nil, domain.ErrProviderNotFound
	}
	if limit <= 0 || limit > p.opts.SearchResultCap {
		limit = p.opts.SearchResultCap
	}

	var options []domain.SearchOption
	err = p.call(ctx, m, func() error {
		var callErr error
		options, callErr = provider.Search(ctx, name, limit)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return RankSearchOptions(options, name, limit), nil
}

// Fetch loads the full metadata record for a provider-local ID.
func (p *Pipeline) Fetch(ctx context.Context, providerID, externalID string) (*domain.FetchedMetadata, error) {
	provider, err := p.registry.ByID(providerID)
	if err != nil {
		return nil, err
	}

	var meta *domain.FetchedMetadata
	err = p.call(ctx, provider.Manifest(), func() error {
		var callErr error
		meta, callErr = provider.Fetch(ctx, externalID)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// EnrichPlayerCounts fills in missing player maxima from providers with
// trustworthy player counts. It only runs when a play mode is indicated
// without a specific maximum.
func (p *Pipeline) EnrichPlayerCounts(ctx context.Context, gameType models.GameType, name string, meta *domain.FetchedMetadata) {
	if meta == nil || !needsPlayerCounts(meta.Players) {
		return
	}

	for _, provider := range p.registry.PlayerCountCapable(gameType) {
		m := provider.Manifest()
		if m.ID == meta.ProviderID || !p.state.Available(m) || !m.SupportsSearch {
			continue
		}

		var options []domain.SearchOption
		err := p.call(ctx, m, func() error {
			var callErr error
			options, callErr = provider.Search(ctx, name, 1)
			return callErr
		})
		if err != nil || len(options) == 0 {
			continue
		}

		var extra *domain.FetchedMetadata
		err = p.call(ctx, m, func() error {
			var callErr error
			extra, callErr = provider.Fetch(ctx, options[0].ExternalID)
			return callErr
		})
		if err != nil || extra == nil || extra.Players == nil {
			continue
		}

		meta.Players = mergePlayerInfo(meta.Players, extra.Players)
		if !needsPlayerCounts(meta.Players) {
			return
		}
	}
}

// ProcessOneGame enriches a single game. With a known provider mapping it
// fetches directly; with only a provider it searches that provider for the
// best match; otherwise, and whenever the preferred route fails, it walks the
// applicable providers in fallback order.
func (p *Pipeline) ProcessOneGame(ctx context.Context, req Request) (*domain.FetchedMetadata, error) {
	var meta *domain.FetchedMetadata

	if req.ProviderID != "" && req.ExternalID != "" {
		fetched, err := p.Fetch(ctx, req.ProviderID, req.ExternalID)
		if err != nil {
			p.logger.Debug("Direct metadata fetch failed, falling back to search",
				interfaces.String("provider_id", req.ProviderID),
				interfaces.String("name", req.Name),
				interfaces.Error(err))
		} else {
			meta = fetched
		}
	}

	if meta == nil && req.ProviderID != "" {
		meta = p.searchOneProvider(ctx, req.ProviderID, req.Name)
	}
	if meta == nil {
		meta = p.searchAndFetch(ctx, req, req.ProviderID)
	}
	if meta == nil {
		return nil, domain.ErrNoMetadataFound
	}

	p.EnrichPlayerCounts(ctx, req.GameType, req.Name, meta)
	return meta, nil
}

// searchOneProvider resolves a name against a single named provider.
func (p *Pipeline) searchOneProvider(ctx context.Context, providerID, name string) *domain.FetchedMetadata {
	options, err := p.Search(ctx, providerID, name, 1)
	if err != nil || len(options) == 0 {
		return nil
	}
	meta, err := p.Fetch(ctx, providerID, options[0].ExternalID)
	if err != nil {
		return nil
	}
	return meta
}

// searchAndFetch walks the search-capable providers in fallback order,
// skipping skipID, which the caller has already tried.
func (p *Pipeline) searchAndFetch(ctx context.Context, req Request, skipID string) *domain.FetchedMetadata {
	for _, provider := range p.registry.SearchCapable(req.GameType) {
		m := provider.Manifest()
		if m.ID == skipID || !p.state.Available(m) {
			continue
		}

		options, err := p.Search(ctx, m.ID, req.Name, 1)
		if err != nil || len(options) == 0 {
			continue
		}

		meta, err := p.Fetch(ctx, m.ID, options[0].ExternalID)
		if err != nil {
			continue
		}
		return meta
	}
	return nil
}

// SearchCapableProviders returns the IDs of the search-capable providers
// still in rotation for the given game type, in fallback order.
func (p *Pipeline) SearchCapableProviders(gameType models.GameType) []string {
	var ids []string
	for _, provider := range p.registry.SearchCapable(gameType) {
		if m := provider.Manifest(); p.state.Available(m) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// BatchGame is one unit of work for ProcessGameBatch.
type BatchGame struct {
	ExternalID string
	Name       string
	GameType   models.GameType
}

// ProcessGameBatch enriches a batch of games in three phases: fetch by ID
// from the primary provider, search the remaining providers for the misses,
// then player-count enrichment. Each unit of work checks the elapsed time
// against BatchTimeout; partial results are returned when the budget runs
// out.
func (p *Pipeline) ProcessGameBatch(ctx context.Context, games []BatchGame, primaryProviderID string) map[string]*domain.FetchedMetadata {
	results := make(map[string]*domain.FetchedMetadata)
	started := time.Now()

	expired := func() bool {
		return p.opts.BatchTimeout > 0 && time.Since(started) >= p.opts.BatchTimeout
	}

	// Phase 1: direct fetch from the primary provider.
	if primary, err := p.registry.ByID(primaryProviderID); err == nil {
		m := primary.Manifest()
		fetched := 0
		for _, game := range games {
			if expired() || !p.state.Available(m) {
				break
			}
			if m.RateLimit.BatchSize > 0 && fetched >= m.RateLimit.BatchSize {
				break
			}
			meta, err := p.Fetch(ctx, m.ID, game.ExternalID)
			if err != nil {
				continue
			}
			fetched++
			results[game.ExternalID] = meta
		}
	}

	// Phase 2: search the remaining providers for the misses. The primary
	// already had its chance in phase 1.
	for _, game := range games {
		if expired() {
			break
		}
		if _, ok := results[game.ExternalID]; ok {
			continue
		}
		if meta := p.searchAndFetch(ctx, Request{Name: game.Name, GameType: game.GameType}, primaryProviderID); meta != nil {
			results[game.ExternalID] = meta
		}
	}

	// Phase 3: player-count enrichment for everything found so far.
	for _, game := range games {
		if expired() {
			break
		}
		if meta, ok := results[game.ExternalID]; ok {
			p.EnrichPlayerCounts(ctx, game.GameType, game.Name, meta)
		}
	}

	if expired() {
		p.logger.Warn("Metadata batch stopped at its time budget",
			interfaces.Int("games", len(games)),
			interfaces.Int("enriched", len(results)))
	}
	return results
}

// RankSearchOptions orders candidates by match quality: exact name matches
// first, then prefix matches, then ascending name length. Duplicate names
// are removed case-insensitively, keeping the first occurrence.
func RankSearchOptions(options []domain.SearchOption, query string, limit int) []domain.SearchOption {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	seen := make(map[string]bool, len(options))
	deduped := make([]domain.SearchOption, 0, len(options))
	for _, opt := range options {
		key := strings.ToLower(opt.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, opt)
	}

	score := func(opt domain.SearchOption) int {
		nameLower := strings.ToLower(opt.Name)
		switch {
		case nameLower == queryLower:
			return 0
		case strings.HasPrefix(nameLower, queryLower):
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		si, sj := score(deduped[i]), score(deduped[j])
		if si != sj {
			return si < sj
		}
		return len(deduped[i].Name) < len(deduped[j].Name)
	})

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

// needsPlayerCounts reports whether a play mode is indicated without a
// specific maximum. No multiplayer signal means no follow-up calls.
func needsPlayerCounts(info *domain.PlayerInfo) bool {
	if info == nil {
		return false
	}
	if info.SupportsOnline != nil && *info.SupportsOnline && info.OnlineMaxPlayers == nil {
		return true
	}
	if info.SupportsLocal != nil && *info.SupportsLocal && info.LocalMaxPlayers == nil {
		return true
	}
	return false
}

// mergePlayerInfo merges src into dst field-wise. The most specific non-nil
// value wins; known values are never overwritten by unknown ones.
func mergePlayerInfo(dst, src *domain.PlayerInfo) *domain.PlayerInfo {
	if src == nil {
		return dst
	}
	if dst == nil {
		clone := *src
		return &clone
	}

	mergeInt := func(d **int, s *int) {
		if *d == nil && s != nil && *s > 0 {
			v := *s
			*d = &v
		}
	}
	mergeBool := func(d **bool, s *bool) {
		if *d == nil && s != nil {
			v := *s
			*d = &v
		}
	}

	mergeInt(&dst.MinPlayers, src.MinPlayers)
	mergeInt(&dst.MaxPlayers, src.MaxPlayers)
	mergeBool(&dst.SupportsOnline, src.SupportsOnline)
	mergeInt(&dst.OnlineMinPlayers, src.OnlineMinPlayers)
	mergeInt(&dst.OnlineMaxPlayers, src.OnlineMaxPlayers)
	mergeBool(&dst.SupportsLocal, src.SupportsLocal)
	mergeInt(&dst.LocalMinPlayers, src.LocalMinPlayers)
	mergeInt(&dst.LocalMaxPlayers, src.LocalMaxPlayers)
	mergeBool(&dst.SupportsPhysical, src.SupportsPhysical)
	mergeInt(&dst.PhysicalMinPlayers, src.PhysicalMinPlayers)
	mergeInt(&dst.PhysicalMaxPlayers, src.PhysicalMaxPlayers)
	return dst
}
