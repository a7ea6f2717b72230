package metadata_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/logger"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

type fakeProvider struct {
	manifest    metadata.Manifest
	searchFn    func(name string) ([]domain.SearchOption, error)
	fetchFn     func(externalID string) (*domain.FetchedMetadata, error)
	searchCalls int
	fetchCalls  int
}

func (p *fakeProvider) Manifest() metadata.Manifest {
	return p.manifest
}

func (p *fakeProvider) Search(ctx context.Context, name string, limit int) ([]domain.SearchOption, error) {
	p.searchCalls++
	if p.searchFn == nil {
		return nil, nil
	}
	return p.searchFn(name)
}

func (p *fakeProvider) Fetch(ctx context.Context, externalID string) (*domain.FetchedMetadata, error) {
	p.fetchCalls++
	if p.fetchFn == nil {
		return nil, domain.ErrNoMetadataFound
	}
	return p.fetchFn(externalID)
}

func searchManifest(id string) metadata.Manifest {
	return metadata.Manifest{
		ID:             id,
		Name:           id,
		SupportsSearch: true,
	}
}

func newPipeline(t *testing.T, opts metadata.Options, providers ...metadata.Provider) (*metadata.Pipeline, *metadata.RuntimeState) {
	t.Helper()
	log := logger.NewNoopLogger()
	registry := metadata.NewRegistry(log)
	for _, p := range providers {
		registry.Register(p)
	}
	state := metadata.NewRuntimeState(log)
	return metadata.NewPipeline(registry, state, log, opts), state
}

func TestProcessOneGameFallsBackAfterRateLimit(t *testing.T) {
	primary := &fakeProvider{
		manifest: searchManifest("igdb"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return nil, pkgerrors.RateLimited("igdb", errors.New("429 too many requests"))
		},
	}
	fallback := &fakeProvider{
		manifest: searchManifest("steamdb"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "steamdb", ExternalID: "42", Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			return &domain.FetchedMetadata{ProviderID: "steamdb", ExternalID: externalID, Name: "Rocket League"}, nil
		},
	}

	pipeline, state := newPipeline(t, metadata.Options{}, primary, fallback)

	meta, err := pipeline.ProcessOneGame(context.Background(), metadata.Request{
		Name:     "Rocket League",
		GameType: models.GameTypeVideoGame,
	})
	require.NoError(t, err)
	assert.Equal(t, "steamdb", meta.ProviderID)

	// The rate-limited provider is out of rotation for good.
	assert.False(t, state.Available(primary.manifest))

	searchCalls := primary.searchCalls
	_, err = pipeline.ProcessOneGame(context.Background(), metadata.Request{
		Name:     "Portal 2",
		GameType: models.GameTypeVideoGame,
	})
	require.NoError(t, err)
	assert.Equal(t, searchCalls, primary.searchCalls)
}

func TestConsecutiveFailuresTripTheCircuit(t *testing.T) {
	flaky := &fakeProvider{
		manifest: metadata.Manifest{
			ID:             "flaky",
			SupportsSearch: true,
			RateLimit:      metadata.RateLimit{MaxConsecutiveErrors: 2},
		},
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return nil, errors.New("upstream unavailable")
		},
	}

	pipeline, state := newPipeline(t, metadata.Options{}, flaky)
	ctx := context.Background()

	_, err := pipeline.Search(ctx, "flaky", "Hades", 5)
	require.Error(t, err)
	assert.True(t, state.Available(flaky.manifest))

	_, err = pipeline.Search(ctx, "flaky", "Hades", 5)
	require.Error(t, err)
	assert.False(t, state.Available(flaky.manifest))

	// Subsequent calls are refused without touching the provider.
	calls := flaky.searchCalls
	_, err = pipeline.Search(ctx, "flaky", "Hades", 5)
	require.Error(t, err)
	assert.Equal(t, calls, flaky.searchCalls)
}

func TestPerSyncCapIsScopedToOneJob(t *testing.T) {
	capped := &fakeProvider{
		manifest: metadata.Manifest{
			ID:             "capped",
			SupportsSearch: true,
			RateLimit:      metadata.RateLimit{PerSyncCap: 1},
		},
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "capped", ExternalID: "1", Name: name}}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, capped)

	jobCtx := metadata.WithSyncBudget(context.Background())
	_, err := pipeline.Search(jobCtx, "capped", "Celeste", 5)
	require.NoError(t, err)

	_, err = pipeline.Search(jobCtx, "capped", "Celeste", 5)
	require.Error(t, err)

	// A second job runs against its own budget, even while the first one's
	// is exhausted.
	otherJobCtx := metadata.WithSyncBudget(context.Background())
	_, err = pipeline.Search(otherJobCtx, "capped", "Celeste", 5)
	require.NoError(t, err)
}

func TestProcessOneGamePrefersNamedProvider(t *testing.T) {
	first := &fakeProvider{
		manifest: searchManifest("first"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "first", ExternalID: "f-1", Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			return &domain.FetchedMetadata{ProviderID: "first", ExternalID: externalID}, nil
		},
	}
	second := &fakeProvider{
		manifest: searchManifest("second"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "second", ExternalID: "s-1", Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			return &domain.FetchedMetadata{ProviderID: "second", ExternalID: externalID, Name: "Dota 2"}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, first, second)

	meta, err := pipeline.ProcessOneGame(context.Background(), metadata.Request{
		Name:       "Dota 2",
		GameType:   models.GameTypeVideoGame,
		ProviderID: "second",
	})
	require.NoError(t, err)
	assert.Equal(t, "second", meta.ProviderID)
	assert.Zero(t, first.searchCalls)
	assert.Zero(t, first.fetchCalls)
}

func TestProcessOneGameFallsBackWhenNamedProviderMisses(t *testing.T) {
	named := &fakeProvider{
		manifest: searchManifest("named"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return nil, nil
		},
	}
	other := &fakeProvider{
		manifest: searchManifest("other"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "other", ExternalID: "o-1", Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			return &domain.FetchedMetadata{ProviderID: "other", ExternalID: externalID}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, named, other)

	meta, err := pipeline.ProcessOneGame(context.Background(), metadata.Request{
		Name:       "Factorio",
		GameType:   models.GameTypeVideoGame,
		ProviderID: "named",
	})
	require.NoError(t, err)
	assert.Equal(t, "other", meta.ProviderID)
	// The named provider was tried once and is not retried in the fallback
	// walk.
	assert.Equal(t, 1, named.searchCalls)
}

func TestEnrichPlayerCountsMergesWithoutOverwriting(t *testing.T) {
	online := true
	eight := 8
	counts := &fakeProvider{
		manifest: metadata.Manifest{
			ID:                      "counts",
			SupportsSearch:          true,
			HasAccuratePlayerCounts: true,
		},
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "counts", ExternalID: "7", Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			two := 2
			return &domain.FetchedMetadata{
				ProviderID: "counts",
				Players: &domain.PlayerInfo{
					MinPlayers:       &two,
					OnlineMaxPlayers: &eight,
				},
			}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, counts)

	one := 1
	meta := &domain.FetchedMetadata{
		ProviderID: "primary",
		Players: &domain.PlayerInfo{
			MinPlayers:     &one,
			SupportsOnline: &online,
		},
	}
	pipeline.EnrichPlayerCounts(context.Background(), models.GameTypeVideoGame, "Deep Rock Galactic", meta)

	require.NotNil(t, meta.Players.OnlineMaxPlayers)
	assert.Equal(t, 8, *meta.Players.OnlineMaxPlayers)
	// Known minimum stays as the primary reported it.
	assert.Equal(t, 1, *meta.Players.MinPlayers)
}

func TestEnrichPlayerCountsSkipsWithoutMultiplayerSignal(t *testing.T) {
	counts := &fakeProvider{
		manifest: metadata.Manifest{
			ID:                      "counts",
			SupportsSearch:          true,
			HasAccuratePlayerCounts: true,
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, counts)
	ctx := context.Background()

	// No player info at all.
	noInfo := &domain.FetchedMetadata{ProviderID: "primary"}
	pipeline.EnrichPlayerCounts(ctx, models.GameTypeVideoGame, "Stardew Valley", noInfo)

	// Player info without an online or local signal.
	one := 1
	soloOnly := &domain.FetchedMetadata{
		ProviderID: "primary",
		Players:    &domain.PlayerInfo{MinPlayers: &one},
	}
	pipeline.EnrichPlayerCounts(ctx, models.GameTypeVideoGame, "Stardew Valley", soloOnly)

	assert.Zero(t, counts.searchCalls)
	assert.Zero(t, counts.fetchCalls)
}

func TestProcessGameBatchStopsAtTimeBudget(t *testing.T) {
	slow := &fakeProvider{
		manifest: searchManifest("slow"),
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			time.Sleep(30 * time.Millisecond)
			return &domain.FetchedMetadata{ProviderID: "slow", ExternalID: externalID}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{BatchTimeout: 20 * time.Millisecond}, slow)

	games := []metadata.BatchGame{
		{ExternalID: "1", Name: "One", GameType: models.GameTypeVideoGame},
		{ExternalID: "2", Name: "Two", GameType: models.GameTypeVideoGame},
		{ExternalID: "3", Name: "Three", GameType: models.GameTypeVideoGame},
	}
	results := pipeline.ProcessGameBatch(context.Background(), games, "slow")

	// The first fetch lands after the budget is spent; everything after it
	// is skipped.
	assert.Len(t, results, 1)
}

func TestProcessGameBatchSearchesForMisses(t *testing.T) {
	primary := &fakeProvider{
		manifest: searchManifest("primary"),
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			if externalID == "1" {
				return &domain.FetchedMetadata{ProviderID: "primary", ExternalID: "1"}, nil
			}
			return nil, pkgerrors.NotFound("no such game")
		},
	}
	fallback := &fakeProvider{
		manifest: searchManifest("fallback"),
		searchFn: func(name string) ([]domain.SearchOption, error) {
			return []domain.SearchOption{{ProviderID: "fallback", ExternalID: "f-" + name, Name: name}}, nil
		},
		fetchFn: func(externalID string) (*domain.FetchedMetadata, error) {
			return &domain.FetchedMetadata{ProviderID: "fallback", ExternalID: externalID}, nil
		},
	}

	pipeline, _ := newPipeline(t, metadata.Options{}, primary, fallback)

	games := []metadata.BatchGame{
		{ExternalID: "1", Name: "Hit", GameType: models.GameTypeVideoGame},
		{ExternalID: "2", Name: "Miss", GameType: models.GameTypeVideoGame},
	}
	results := pipeline.ProcessGameBatch(context.Background(), games, "primary")

	require.Len(t, results, 2)
	assert.Equal(t, "primary", results["1"].ProviderID)
	assert.Equal(t, "fallback", results["2"].ProviderID)
	// The miss phase only consults the remaining providers; the primary had
	// its chance in the fetch phase.
	assert.Zero(t, primary.searchCalls)
}

func TestRankSearchOptions(t *testing.T) {
	options := []domain.SearchOption{
		{Name: "The Witcher 3: Wild Hunt - Game of the Year"},
		{Name: "The Witcher"},
		{Name: "the witcher"},
		{Name: "The Witcher 3: Wild Hunt"},
		{Name: "The Witcher 2"},
	}

	ranked := metadata.RankSearchOptions(options, "The Witcher", 10)

	require.Len(t, ranked, 4)
	assert.Equal(t, "The Witcher", ranked[0].Name)
	assert.Equal(t, "The Witcher 2", ranked[1].Name)
	assert.Equal(t, "The Witcher 3: Wild Hunt", ranked[2].Name)

	capped := metadata.RankSearchOptions(options, "The Witcher", 2)
	assert.Len(t, capped, 2)
}
