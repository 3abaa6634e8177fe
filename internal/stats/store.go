package stats

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jkoenig-dev/commander-tracker/internal/scoring"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

// recentGamesMax caps how many games a recent-games query may return.
const recentGamesMax = 10

// bestDeckMinGames is the sample size a deck needs before its win rate
// counts for "best deck" and the unfiltered deck ranking.
const bestDeckMinGames = 3

// store computes statistics straight from the game history tables.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new stats Service reading from db.
func New(db *sql.DB) Service {
	return &store{
		db: db,
	}
}

// Leaderboard returns every player with at least one recorded game, sorted
// by points descending. The base query orders players by display name, and
// the points sort is stable, so equal-point players keep a deterministic
// alphabetical order across calls.
func (s *store) Leaderboard() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			p.id,
			p.external_id,
			p.display_name,
			COUNT(gp.id) AS total_games,
			COALESCE(SUM(CASE WHEN gp.placement = 1 THEN 1 ELSE 0 END), 0) AS wins
		FROM players p
		JOIN game_placements gp ON gp.player_id = p.id
		GROUP BY p.id
		ORDER BY p.display_name
	`)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "leaderboard", Err: err}
	}
	defer rows.Close()

	var board []PlayerStats
	for rows.Next() {
		var ps PlayerStats
		if err := rows.Scan(&ps.PlayerID, &ps.ExternalID, &ps.PlayerName, &ps.TotalGames, &ps.Wins); err != nil {
			return nil, &tracker.PersistenceError{Op: "leaderboard", Err: err}
		}
		if ps.TotalGames > 0 {
			ps.WinRate = float64(ps.Wins) / float64(ps.TotalGames) * 100
		}
		board = append(board, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, &tracker.PersistenceError{Op: "leaderboard", Err: err}
	}

	points, err := s.pointsByPlayer()
	if err != nil {
		return nil, err
	}
	for i := range board {
		board[i].Points = points[board[i].PlayerID]
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Points > board[j].Points
	})
	return board, nil
}

// pointsByPlayer walks every placement row once and scores it with the pure
// points table.
func (s *store) pointsByPlayer() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT gp.player_id, g.game_type, gp.placement
		FROM game_placements gp
		JOIN games g ON gp.game_id = g.id
	`)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "score placements", Err: err}
	}
	defer rows.Close()

	points := make(map[string]int)
	for rows.Next() {
		var playerID string
		var gameType tracker.GameType
		var placement int
		if err := rows.Scan(&playerID, &gameType, &placement); err != nil {
			return nil, &tracker.PersistenceError{Op: "score placements", Err: err}
		}
		points[playerID] += scoring.Points(gameType, placement)
	}
	return points, rows.Err()
}

// TotalPoints sums the points of every placement recorded for one player.
func (s *store) TotalPoints(playerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalPointsLocked(playerID)
}

func (s *store) totalPointsLocked(playerID string) (int, error) {
	rows, err := s.db.Query(`
		SELECT g.game_type, gp.placement
		FROM game_placements gp
		JOIN games g ON gp.game_id = g.id
		WHERE gp.player_id = ?
	`, playerID)
	if err != nil {
		return 0, &tracker.PersistenceError{Op: "total points", Err: err}
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var gameType tracker.GameType
		var placement int
		if err := rows.Scan(&gameType, &placement); err != nil {
			return 0, &tracker.PersistenceError{Op: "total points", Err: err}
		}
		total += scoring.Points(gameType, placement)
	}
	return total, rows.Err()
}

// PlayerStats returns the full profile for one player, or (nil, nil) when
// the player has never been recorded.
func (s *store) PlayerStats(externalID string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ps PlayerStats
	err := s.db.QueryRow(
		"SELECT id, external_id, display_name FROM players WHERE external_id = ?",
		externalID,
	).Scan(&ps.PlayerID, &ps.ExternalID, &ps.PlayerName)
	if err == sql.ErrNoRows {
		log.Debug("No player recorded for stats lookup", "externalID", externalID)
		return nil, nil
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "player stats", Err: err}
	}

	err = s.db.QueryRow(`
		SELECT COUNT(gp.id), COALESCE(SUM(CASE WHEN gp.placement = 1 THEN 1 ELSE 0 END), 0)
		FROM game_placements gp
		WHERE gp.player_id = ?
	`, ps.PlayerID).Scan(&ps.TotalGames, &ps.Wins)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "player stats", Err: err}
	}
	if ps.TotalGames > 0 {
		ps.WinRate = float64(ps.Wins) / float64(ps.TotalGames) * 100
	}

	if ps.Points, err = s.totalPointsLocked(ps.PlayerID); err != nil {
		return nil, err
	}

	// Favorite deck: most played, ties broken by commander name.
	err = s.db.QueryRow(`
		SELECT d.commander_name
		FROM game_placements gp
		JOIN decks d ON gp.deck_id = d.id
		WHERE gp.player_id = ?
		GROUP BY d.id
		ORDER BY COUNT(*) DESC, d.commander_name ASC
		LIMIT 1
	`, ps.PlayerID).Scan(&ps.FavoriteDeck)
	if err != nil && err != sql.ErrNoRows {
		return nil, &tracker.PersistenceError{Op: "favorite deck", Err: err}
	}

	// Best deck: highest win rate over at least bestDeckMinGames games.
	err = s.db.QueryRow(`
		SELECT d.commander_name
		FROM game_placements gp
		JOIN decks d ON gp.deck_id = d.id
		WHERE gp.player_id = ?
		GROUP BY d.id
		HAVING COUNT(*) >= ?
		ORDER BY (CAST(SUM(CASE WHEN gp.placement = 1 THEN 1 ELSE 0 END) AS REAL) / COUNT(*)) DESC,
			d.commander_name ASC
		LIMIT 1
	`, ps.PlayerID, bestDeckMinGames).Scan(&ps.BestDeck)
	if err != nil && err != sql.ErrNoRows {
		return nil, &tracker.PersistenceError{Op: "best deck", Err: err}
	}

	if ps.CurrentStreak, err = s.currentStreak(ps.PlayerID); err != nil {
		return nil, err
	}

	return &ps, nil
}

// currentStreak counts consecutive wins walking the player's games from most
// recent backwards, stopping at the first non-win. Games sharing a played_at
// timestamp order by id so the walk is consistent between calls.
func (s *store) currentStreak(playerID string) (int, error) {
	rows, err := s.db.Query(`
		SELECT gp.placement
		FROM game_placements gp
		JOIN games g ON gp.game_id = g.id
		WHERE gp.player_id = ?
		ORDER BY g.played_at DESC, g.id DESC
	`, playerID)
	if err != nil {
		return 0, &tracker.PersistenceError{Op: "current streak", Err: err}
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var placement int
		if err := rows.Scan(&placement); err != nil {
			return 0, &tracker.PersistenceError{Op: "current streak", Err: err}
		}
		if placement != 1 {
			break
		}
		streak++
	}
	return streak, rows.Err()
}

// HeadToHead compares two players across every game they shared. Either
// player unknown yields (nil, nil); comparing a player to themselves is a
// caller error.
func (s *store) HeadToHead(externalID1, externalID2 string) (*HeadToHeadStats, error) {
	if externalID1 == externalID2 {
		return nil, tracker.Validationf("cannot compare a player to themselves")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p1, err := s.lookupPlayer(externalID1)
	if err != nil {
		return nil, err
	}
	p2, err := s.lookupPlayer(externalID2)
	if err != nil {
		return nil, err
	}
	if p1 == nil || p2 == nil {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT g.game_type, w.player_id
		FROM games g
		LEFT JOIN game_placements w ON w.game_id = g.id AND w.placement = 1
		WHERE g.id IN (SELECT game_id FROM game_placements WHERE player_id = ?)
		  AND g.id IN (SELECT game_id FROM game_placements WHERE player_id = ?)
	`, p1.ID, p2.ID)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "head to head", Err: err}
	}
	defer rows.Close()

	h2h := &HeadToHeadStats{
		Player1Name: p1.DisplayName,
		Player2Name: p2.DisplayName,
	}
	for rows.Next() {
		var gameType tracker.GameType
		var winnerID sql.NullString
		if err := rows.Scan(&gameType, &winnerID); err != nil {
			return nil, &tracker.PersistenceError{Op: "head to head", Err: err}
		}
		h2h.GamesTogether++
		switch {
		case winnerID.Valid && winnerID.String == p1.ID:
			h2h.Player1Wins++
			if gameType == tracker.GameType1v1 {
				h2h.OneVOneRecord[0]++
			}
		case winnerID.Valid && winnerID.String == p2.ID:
			h2h.Player2Wins++
			if gameType == tracker.GameType1v1 {
				h2h.OneVOneRecord[1]++
			}
		}
	}
	return h2h, rows.Err()
}

// lookupPlayer returns (nil, nil) for an unknown external id.
func (s *store) lookupPlayer(externalID string) (*tracker.Player, error) {
	var p tracker.Player
	err := s.db.QueryRow(
		"SELECT id, external_id, display_name FROM players WHERE external_id = ?",
		externalID,
	).Scan(&p.ID, &p.ExternalID, &p.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "lookup player", Err: err}
	}
	return &p, nil
}

// DeckStats returns per-commander aggregates. With a filter it matches
// commander names case-insensitively as a substring with no minimum games;
// without one it ranks the top 10 decks with enough games by win rate.
func (s *store) DeckStats(commanderFilter string) ([]DeckStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if commanderFilter != "" {
		rows, err = s.db.Query(`
			SELECT
				d.commander_name,
				COUNT(gp.id) AS games,
				COALESCE(SUM(CASE WHEN gp.placement = 1 THEN 1 ELSE 0 END), 0) AS wins,
				COUNT(DISTINCT p.id) AS distinct_players,
				GROUP_CONCAT(DISTINCT p.display_name) AS players
			FROM decks d
			JOIN game_placements gp ON gp.deck_id = d.id
			JOIN players p ON d.player_id = p.id
			WHERE LOWER(d.commander_name) LIKE LOWER(?)
			GROUP BY d.commander_name
			ORDER BY d.commander_name
		`, "%"+commanderFilter+"%")
	} else {
		rows, err = s.db.Query(`
			SELECT
				d.commander_name,
				COUNT(gp.id) AS games,
				COALESCE(SUM(CASE WHEN gp.placement = 1 THEN 1 ELSE 0 END), 0) AS wins,
				COUNT(DISTINCT p.id) AS distinct_players,
				GROUP_CONCAT(DISTINCT p.display_name) AS players
			FROM decks d
			JOIN game_placements gp ON gp.deck_id = d.id
			JOIN players p ON d.player_id = p.id
			GROUP BY d.commander_name
			HAVING games >= ?
			ORDER BY (CAST(wins AS REAL) / games) DESC, d.commander_name ASC
			LIMIT 10
		`, bestDeckMinGames)
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "deck stats", Err: err}
	}
	defer rows.Close()

	var decks []DeckStats
	for rows.Next() {
		var ds DeckStats
		var players sql.NullString
		if err := rows.Scan(&ds.CommanderName, &ds.TotalGames, &ds.Wins, &ds.DistinctPlayers, &players); err != nil {
			return nil, &tracker.PersistenceError{Op: "deck stats", Err: err}
		}
		if ds.TotalGames > 0 {
			ds.WinRate = float64(ds.Wins) / float64(ds.TotalGames) * 100
		}
		if players.Valid && players.String != "" {
			ds.Players = strings.Split(players.String, ",")
		}
		decks = append(decks, ds)
	}
	return decks, rows.Err()
}

// RecentGames returns the most recently played games, newest first, with
// limit clamped to [1, recentGamesMax].
func (s *store) RecentGames(limit int) ([]GameSummary, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > recentGamesMax {
		limit = recentGamesMax
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, game_type, played_at, duration_minutes, win_condition
		FROM games
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "recent games", Err: err}
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		var playedAt int64
		var duration sql.NullInt64
		if err := rows.Scan(&g.GameID, &g.GameType, &playedAt, &duration, &g.WinCondition); err != nil {
			return nil, &tracker.PersistenceError{Op: "recent games", Err: err}
		}
		g.PlayedAt = time.Unix(playedAt, 0)
		if duration.Valid {
			minutes := int(duration.Int64)
			g.DurationMinutes = &minutes
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, &tracker.PersistenceError{Op: "recent games", Err: err}
	}

	for i := range games {
		if games[i].Placements, err = s.gamePlacements(games[i].GameID); err != nil {
			return nil, err
		}
		if games[i].Stereotypes, err = s.gameStereotypes(games[i].GameID); err != nil {
			return nil, err
		}
	}
	return games, nil
}

// Game returns one recorded game as a summary, or (nil, nil) when the id is
// unknown.
func (s *store) Game(gameID string) (*GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var g GameSummary
	var playedAt int64
	var duration sql.NullInt64
	err := s.db.QueryRow(
		"SELECT id, game_type, played_at, duration_minutes, win_condition FROM games WHERE id = ?",
		gameID,
	).Scan(&g.GameID, &g.GameType, &playedAt, &duration, &g.WinCondition)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "game summary", Err: err}
	}
	g.PlayedAt = time.Unix(playedAt, 0)
	if duration.Valid {
		minutes := int(duration.Int64)
		g.DurationMinutes = &minutes
	}

	if g.Placements, err = s.gamePlacements(g.GameID); err != nil {
		return nil, err
	}
	if g.Stereotypes, err = s.gameStereotypes(g.GameID); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *store) gamePlacements(gameID string) ([]PlacementLine, error) {
	rows, err := s.db.Query(`
		SELECT p.display_name, d.commander_name, gp.placement
		FROM game_placements gp
		JOIN players p ON gp.player_id = p.id
		JOIN decks d ON gp.deck_id = d.id
		WHERE gp.game_id = ?
		ORDER BY gp.placement
	`, gameID)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "game placements", Err: err}
	}
	defer rows.Close()

	var lines []PlacementLine
	for rows.Next() {
		var line PlacementLine
		if err := rows.Scan(&line.PlayerName, &line.CommanderName, &line.Placement); err != nil {
			return nil, &tracker.PersistenceError{Op: "game placements", Err: err}
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *store) gameStereotypes(gameID string) ([]StereotypeNote, error) {
	rows, err := s.db.Query(`
		SELECT p.display_name, st.name
		FROM game_stereotypes gs
		JOIN players p ON gs.player_id = p.id
		JOIN stereotypes st ON gs.stereotype_id = st.id
		WHERE gs.game_id = ?
		ORDER BY p.display_name, st.name
	`, gameID)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "game stereotypes", Err: err}
	}
	defer rows.Close()

	var notes []StereotypeNote
	for rows.Next() {
		var note StereotypeNote
		if err := rows.Scan(&note.PlayerName, &note.StereotypeName); err != nil {
			return nil, &tracker.PersistenceError{Op: "game stereotypes", Err: err}
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
