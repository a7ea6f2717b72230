package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/domain"
	"github.com/JulianiusM/InventoryManagement-sub000/internal/gamesync/metadata"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

func applyPipeline(t *testing.T) *metadata.Pipeline {
	t.Helper()
	pipeline, _ := newPipeline(t, metadata.Options{MinDescriptionLength: 20})
	return pipeline
}

func TestApplyToTitleFillsEmptyFields(t *testing.T) {
	pipeline := applyPipeline(t)

	title := &models.GameTitle{
		Name: "Hollow Knight",
		Type: models.GameTypeVideoGame,
	}
	meta := &domain.FetchedMetadata{
		Description:   "A challenging action adventure through a ruined kingdom of insects.",
		CoverImageURL: "https://img.example/hk.jpg",
		Genres:        []string{"Metroidvania", "Action"},
	}

	changed := pipeline.ApplyToTitle(title, meta, false)

	assert.True(t, changed)
	assert.Equal(t, meta.Description, title.Description)
	assert.Equal(t, meta.CoverImageURL, title.CoverImageURL)
	assert.Equal(t, "Metroidvania, Action", title.Genres)
}

func TestApplyToTitleKeepsCuratedValuesWithoutForce(t *testing.T) {
	pipeline := applyPipeline(t)

	curated := "A hand-written synopsis that is long enough to keep around."
	title := &models.GameTitle{
		Name:          "Hollow Knight",
		Type:          models.GameTypeVideoGame,
		Description:   curated,
		CoverImageURL: "https://img.example/curated.jpg",
	}
	meta := &domain.FetchedMetadata{
		Description:   "Provider blurb.",
		CoverImageURL: "https://img.example/provider.jpg",
	}

	pipeline.ApplyToTitle(title, meta, false)
	assert.Equal(t, curated, title.Description)
	assert.Equal(t, "https://img.example/curated.jpg", title.CoverImageURL)

	pipeline.ApplyToTitle(title, meta, true)
	assert.Equal(t, "Provider blurb.", title.Description)
	assert.Equal(t, "https://img.example/provider.jpg", title.CoverImageURL)
}

func TestApplyToTitleReplacesPlaceholderDescription(t *testing.T) {
	pipeline := applyPipeline(t)

	title := &models.GameTitle{
		Name:        "Hollow Knight",
		Type:        models.GameTypeVideoGame,
		Description: "hollow knight",
	}
	meta := &domain.FetchedMetadata{
		Description: "A challenging action adventure through a ruined kingdom of insects.",
	}

	changed := pipeline.ApplyToTitle(title, meta, false)
	assert.True(t, changed)
	assert.Equal(t, meta.Description, title.Description)
}

func TestApplyToTitleVideoGamesNeverGetPhysicalPlay(t *testing.T) {
	pipeline := applyPipeline(t)

	yes := true
	four := 4
	title := &models.GameTitle{
		Name: "Gloomhaven",
		Type: models.GameTypeVideoGame,
	}
	meta := &domain.FetchedMetadata{
		Players: &domain.PlayerInfo{
			SupportsPhysical:   &yes,
			PhysicalMaxPlayers: &four,
		},
	}

	pipeline.ApplyToTitle(title, meta, false)
	assert.False(t, title.Players.SupportsPhysical)
	assert.Nil(t, title.Players.PhysicalMaxPlayers)

	board := &models.GameTitle{
		Name: "Gloomhaven",
		Type: models.GameTypeBoardGame,
	}
	pipeline.ApplyToTitle(board, meta, false)
	assert.True(t, board.Players.SupportsPhysical)
	require.NotNil(t, board.Players.PhysicalMaxPlayers)
	assert.Equal(t, 4, *board.Players.PhysicalMaxPlayers)
}

func TestApplyToTitleClampsPlayerCounts(t *testing.T) {
	pipeline := applyPipeline(t)

	yes := true
	eight := 8
	title := &models.GameTitle{
		Name:    "Overcooked",
		Type:    models.GameTypeVideoGame,
		Players: models.PlayerProfile{MinPlayers: 1, MaxPlayers: 4},
	}
	meta := &domain.FetchedMetadata{
		Players: &domain.PlayerInfo{
			SupportsOnline:   &yes,
			OnlineMaxPlayers: &eight,
		},
	}

	pipeline.ApplyToTitle(title, meta, false)

	// The overall maximum is raised to cover the online mode.
	assert.True(t, title.Players.SupportsOnline)
	assert.GreaterOrEqual(t, title.Players.MaxPlayers, 8)
}
