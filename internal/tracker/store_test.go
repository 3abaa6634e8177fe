package tracker_test

import (
	"database/sql"
	"testing"

	"github.com/jkoenig-dev/commander-tracker/internal/database"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (tracker.Store, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return tracker.New(db), db
}

func intPtr(v int) *int { return &v }

func TestGetOrCreatePlayer(t *testing.T) {
	store, db := setupTestDB(t)

	first, err := store.GetOrCreatePlayer("discord-1", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, "Alice", first.DisplayName)

	t.Run("is idempotent", func(t *testing.T) {
		again, err := store.GetOrCreatePlayer("discord-1", "Alice")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("updates display name without changing identity", func(t *testing.T) {
		renamed, err := store.GetOrCreatePlayer("discord-1", "Alice the Bold")
		require.NoError(t, err)
		assert.Equal(t, first.ID, renamed.ID)
		assert.Equal(t, "Alice the Bold", renamed.DisplayName)

		var stored string
		require.NoError(t, db.QueryRow("SELECT display_name FROM players WHERE id = ?", first.ID).Scan(&stored))
		assert.Equal(t, "Alice the Bold", stored)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := store.GetOrCreatePlayer("", "Nobody")
		assert.True(t, tracker.IsValidation(err))

		_, err = store.GetOrCreatePlayer("discord-2", "")
		assert.True(t, tracker.IsValidation(err))
	})
}

func TestGetPlayerByExternalID(t *testing.T) {
	store, _ := setupTestDB(t)

	_, err := store.GetPlayerByExternalID("ghost")
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	created, err := store.GetOrCreatePlayer("discord-1", "Alice")
	require.NoError(t, err)

	found, err := store.GetPlayerByExternalID("discord-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestGetOrCreateDeck(t *testing.T) {
	store, db := setupTestDB(t)

	player, err := store.GetOrCreatePlayer("discord-1", "Alice")
	require.NoError(t, err)

	deck, err := store.GetOrCreateDeck(player.ID, "Atraxa")
	require.NoError(t, err)

	t.Run("reuses the deck for the same commander", func(t *testing.T) {
		again, err := store.GetOrCreateDeck(player.ID, "Atraxa")
		require.NoError(t, err)
		assert.Equal(t, deck.ID, again.ID)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		trimmed, err := store.GetOrCreateDeck(player.ID, "  Atraxa  ")
		require.NoError(t, err)
		assert.Equal(t, deck.ID, trimmed.ID)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM decks").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("lookup without create", func(t *testing.T) {
		found, err := store.GetDeck(player.ID, "Atraxa")
		require.NoError(t, err)
		assert.Equal(t, deck.ID, found.ID)

		_, err = store.GetDeck(player.ID, "Niv-Mizzet")
		assert.ErrorIs(t, err, tracker.ErrNotFound)
	})

	t.Run("same commander for another player is a distinct deck", func(t *testing.T) {
		other, err := store.GetOrCreatePlayer("discord-2", "Bob")
		require.NoError(t, err)

		otherDeck, err := store.GetOrCreateDeck(other.ID, "Atraxa")
		require.NoError(t, err)
		assert.NotEqual(t, deck.ID, otherDeck.ID)
	})

	t.Run("rejects blank commander name", func(t *testing.T) {
		_, err := store.GetOrCreateDeck(player.ID, "   ")
		assert.True(t, tracker.IsValidation(err))
	})
}

// seedPod registers n players with one deck each and returns the placement
// entries in seat order.
func seedPod(t *testing.T, store tracker.Store, n int) []tracker.PlacementEntry {
	t.Helper()

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	entries := make([]tracker.PlacementEntry, 0, n)
	for i := 0; i < n; i++ {
		player, err := store.GetOrCreatePlayer(names[i], names[i])
		require.NoError(t, err)
		deck, err := store.GetOrCreateDeck(player.ID, "Commander "+names[i])
		require.NoError(t, err)
		entries = append(entries, tracker.PlacementEntry{
			PlayerID:  player.ID,
			DeckID:    deck.ID,
			Placement: i + 1,
		})
	}
	return entries
}

func TestCreateGame(t *testing.T) {
	store, db := setupTestDB(t)

	entries := seedPod(t, store, 4)
	game, err := store.CreateGame(tracker.GameTypeMultiplayer, "Combat damage", entries, intPtr(75))
	require.NoError(t, err)
	require.NotEmpty(t, game.ID)
	assert.False(t, game.PlayedAt.IsZero())
	require.NotNil(t, game.DurationMinutes)
	assert.Equal(t, 75, *game.DurationMinutes)

	var placementCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM game_placements WHERE game_id = ?", game.ID).Scan(&placementCount))
	assert.Equal(t, 4, placementCount)
}

func TestCreateGame_Validation(t *testing.T) {
	store, _ := setupTestDB(t)
	entries := seedPod(t, store, 4)

	duplicatePlacement := []tracker.PlacementEntry{
		{PlayerID: entries[0].PlayerID, DeckID: entries[0].DeckID, Placement: 1},
		{PlayerID: entries[1].PlayerID, DeckID: entries[1].DeckID, Placement: 1},
		{PlayerID: entries[2].PlayerID, DeckID: entries[2].DeckID, Placement: 2},
	}
	duplicatePlayer := []tracker.PlacementEntry{
		{PlayerID: entries[0].PlayerID, DeckID: entries[0].DeckID, Placement: 1},
		{PlayerID: entries[0].PlayerID, DeckID: entries[1].DeckID, Placement: 2},
	}
	gapPlacement := []tracker.PlacementEntry{
		{PlayerID: entries[0].PlayerID, DeckID: entries[0].DeckID, Placement: 1},
		{PlayerID: entries[1].PlayerID, DeckID: entries[1].DeckID, Placement: 2},
		{PlayerID: entries[2].PlayerID, DeckID: entries[2].DeckID, Placement: 4},
	}

	tests := []struct {
		name       string
		gameType   tracker.GameType
		winCon     string
		placements []tracker.PlacementEntry
		duration   *int
	}{
		{"unknown game type", "commander-draft", "Combo", entries[:2], nil},
		{"1v1 with three players", tracker.GameType1v1, "Combo", entries[:3], nil},
		{"multiplayer with two players", tracker.GameTypeMultiplayer, "Combo", entries[:2], nil},
		{"duplicate placement", tracker.GameTypeMultiplayer, "Combo", duplicatePlacement, nil},
		{"duplicate player", tracker.GameType1v1, "Combo", duplicatePlayer, nil},
		{"placement gap", tracker.GameTypeMultiplayer, "Combo", gapPlacement, nil},
		{"empty win condition", tracker.GameTypeMultiplayer, "  ", entries[:3], nil},
		{"zero duration", tracker.GameTypeMultiplayer, "Combo", entries[:3], intPtr(0)},
		{"negative duration", tracker.GameTypeMultiplayer, "Combo", entries[:3], intPtr(-10)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateGame(tc.gameType, tc.winCon, tc.placements, tc.duration)
			assert.True(t, tracker.IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestCreateGame_Atomicity(t *testing.T) {
	store, db := setupTestDB(t)

	entries := seedPod(t, store, 4)
	// Sabotage the third entry with a deck that does not exist so the third
	// placement insert fails the foreign key check mid-transaction.
	entries[2].DeckID = "no-such-deck"

	_, err := store.CreateGame(tracker.GameTypeMultiplayer, "Combat damage", entries, nil)
	require.Error(t, err)
	assert.True(t, tracker.IsPersistence(err))

	var games, placements int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM games").Scan(&games))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM game_placements").Scan(&placements))
	assert.Zero(t, games, "failed game must not be visible")
	assert.Zero(t, placements, "no partial placements must survive")
}
