package stereotypes_test

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/jkoenig-dev/commander-tracker/internal/database"
	"github.com/jkoenig-dev/commander-tracker/internal/stereotypes"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (stereotypes.Ledger, tracker.Store, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return stereotypes.New(db), tracker.New(db), db
}

// recordDuel records a 1v1 between two external ids and returns the game id
// plus the winner's player id.
func recordDuel(t *testing.T, ts tracker.Store, winner, loser string) (string, string) {
	t.Helper()

	w, err := ts.GetOrCreatePlayer(winner, winner)
	require.NoError(t, err)
	l, err := ts.GetOrCreatePlayer(loser, loser)
	require.NoError(t, err)
	wd, err := ts.GetOrCreateDeck(w.ID, "Atraxa")
	require.NoError(t, err)
	ld, err := ts.GetOrCreateDeck(l.ID, "Korvold")
	require.NoError(t, err)

	game, err := ts.CreateGame(tracker.GameType1v1, "Commander damage", []tracker.PlacementEntry{
		{PlayerID: w.ID, DeckID: wd.ID, Placement: 1},
		{PlayerID: l.ID, DeckID: ld.ID, Placement: 2},
	}, nil)
	require.NoError(t, err)
	return game.ID, w.ID
}

func TestSeed(t *testing.T) {
	ledger, _, _ := setupTestDB(t)

	require.NoError(t, ledger.Seed())

	list, err := ledger.List()
	require.NoError(t, err)
	require.Len(t, list, 4)

	names := make([]string, 0, len(list))
	for _, st := range list {
		names = append(names, st.Name)
	}
	assert.Contains(t, names, "Claims to not be the threat")
	assert.Contains(t, names, "Never swings")
	assert.Contains(t, names, `Said "not optimal"`)
	assert.Contains(t, names, "Missed their triggers")

	t.Run("is a no-op on a non-empty catalogue", func(t *testing.T) {
		require.NoError(t, ledger.Seed())
		again, err := ledger.List()
		require.NoError(t, err)
		assert.Len(t, again, 4)
	})
}

func TestSeed_LeavesCustomCatalogueAlone(t *testing.T) {
	ledger, _, _ := setupTestDB(t)

	_, err := ledger.Add("Always politics")
	require.NoError(t, err)

	require.NoError(t, ledger.Seed())

	list, err := ledger.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Always politics", list[0].Name)
}

func TestAdd(t *testing.T) {
	ledger, _, _ := setupTestDB(t)

	st, err := ledger.Add("  Ramp player  ")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "Ramp player", st.Name, "name is trimmed")
	assert.NotEmpty(t, st.ID)

	t.Run("duplicate returns nil without error", func(t *testing.T) {
		dup, err := ledger.Add("Ramp player")
		require.NoError(t, err)
		assert.Nil(t, dup)

		list, err := ledger.List()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("rejects out-of-bounds names", func(t *testing.T) {
		_, err := ledger.Add("ab")
		assert.True(t, tracker.IsValidation(err))

		_, err = ledger.Add(strings.Repeat("x", 101))
		assert.True(t, tracker.IsValidation(err))

		_, err = ledger.Add("   a   ")
		assert.True(t, tracker.IsValidation(err), "length is checked after trimming")
	})

	t.Run("bounds count characters, not bytes", func(t *testing.T) {
		st, err := ledger.Add("süß")
		require.NoError(t, err)
		require.NotNil(t, st, "a three-character name passes even when it is more than three bytes")

		long, err := ledger.Add(strings.Repeat("ü", 100))
		require.NoError(t, err)
		assert.NotNil(t, long, "a hundred-character name passes even when it is two hundred bytes")
	})
}

func TestGetByName(t *testing.T) {
	ledger, _, _ := setupTestDB(t)
	require.NoError(t, ledger.Seed())

	st, err := ledger.GetByName("Never swings")
	require.NoError(t, err)
	assert.Equal(t, "Never swings", st.Name)

	_, err = ledger.GetByName("Galaxy brain")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestAssign(t *testing.T) {
	ledger, ts, db := setupTestDB(t)
	require.NoError(t, ledger.Seed())

	gameID, winnerID := recordDuel(t, ts, "A", "B")
	st, err := ledger.GetByName("Never swings")
	require.NoError(t, err)

	assignments, err := ledger.Assign(gameID, winnerID, []string{st.ID})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, gameID, assignments[0].GameID)

	t.Run("multiple stereotypes land in one call", func(t *testing.T) {
		threat, err := ledger.GetByName("Claims to not be the threat")
		require.NoError(t, err)
		triggers, err := ledger.GetByName("Missed their triggers")
		require.NoError(t, err)

		assignments, err := ledger.Assign(gameID, winnerID, []string{threat.ID, triggers.ID})
		require.NoError(t, err)
		require.Len(t, assignments, 2)
		assert.Equal(t, threat.ID, assignments[0].StereotypeID)
		assert.Equal(t, triggers.ID, assignments[1].StereotypeID)

		var count int
		err = db.QueryRow(
			"SELECT COUNT(*) FROM game_stereotypes WHERE game_id = ? AND player_id = ?",
			gameID, winnerID,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("one unknown id rolls back the whole batch", func(t *testing.T) {
		var before int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM game_stereotypes").Scan(&before))

		_, err := ledger.Assign(gameID, winnerID, []string{st.ID, "no-such-stereotype"})
		assert.ErrorIs(t, err, tracker.ErrNotFound)

		var after int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM game_stereotypes").Scan(&after))
		assert.Equal(t, before, after, "no row from the failed batch is applied")
	})

	t.Run("repeat assignments stack", func(t *testing.T) {
		_, err := ledger.Assign(gameID, winnerID, []string{st.ID})
		require.NoError(t, err)

		var count int
		err = db.QueryRow(
			"SELECT COUNT(*) FROM game_stereotypes WHERE game_id = ? AND player_id = ? AND stereotype_id = ?",
			gameID, winnerID, st.ID,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("unknown references are rejected", func(t *testing.T) {
		_, err := ledger.Assign("no-such-game", winnerID, []string{st.ID})
		assert.ErrorIs(t, err, tracker.ErrNotFound)

		_, err = ledger.Assign(gameID, "no-such-player", []string{st.ID})
		assert.ErrorIs(t, err, tracker.ErrNotFound)

		_, err = ledger.Assign(gameID, winnerID, []string{"no-such-stereotype"})
		assert.ErrorIs(t, err, tracker.ErrNotFound)
	})

	t.Run("empty ids are a caller error", func(t *testing.T) {
		_, err := ledger.Assign("", winnerID, []string{st.ID})
		assert.True(t, tracker.IsValidation(err))

		_, err = ledger.Assign(gameID, winnerID, nil)
		assert.True(t, tracker.IsValidation(err))

		_, err = ledger.Assign(gameID, winnerID, []string{st.ID, ""})
		assert.True(t, tracker.IsValidation(err))
	})
}

func TestLeaderboardAndForPlayer(t *testing.T) {
	ledger, ts, _ := setupTestDB(t)
	require.NoError(t, ledger.Seed())

	game1, aID := recordDuel(t, ts, "A", "B")
	game2, _ := recordDuel(t, ts, "A", "B")
	b, err := ts.GetPlayerByExternalID("B")
	require.NoError(t, err)

	swings, err := ledger.GetByName("Never swings")
	require.NoError(t, err)
	threat, err := ledger.GetByName("Claims to not be the threat")
	require.NoError(t, err)

	_, err = ledger.Assign(game1, aID, []string{swings.ID})
	require.NoError(t, err)
	_, err = ledger.Assign(game2, aID, []string{swings.ID})
	require.NoError(t, err)
	_, err = ledger.Assign(game1, b.ID, []string{threat.ID})
	require.NoError(t, err)

	board, err := ledger.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "A", board[0].PlayerName)
	assert.Equal(t, "Never swings", board[0].StereotypeName)
	assert.Equal(t, 2, board[0].Count)
	assert.Equal(t, "B", board[1].PlayerName)
	assert.Equal(t, 1, board[1].Count)

	counts, err := ledger.ForPlayer("A")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "Never swings", counts[0].StereotypeName)
	assert.Equal(t, 2, counts[0].Count)

	t.Run("player with no assignments gets an empty list", func(t *testing.T) {
		_, err := ts.GetOrCreatePlayer("C", "Carol")
		require.NoError(t, err)
		counts, err := ledger.ForPlayer("C")
		require.NoError(t, err)
		assert.Empty(t, counts)
		assert.NotNil(t, counts)
	})

	t.Run("unknown player yields nil", func(t *testing.T) {
		counts, err := ledger.ForPlayer("nobody")
		require.NoError(t, err)
		assert.Nil(t, counts)
	})
}
