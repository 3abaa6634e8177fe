package stats

import (
	"time"

	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

// PlayerStats is a player's aggregate record. FavoriteDeck and BestDeck are
// empty when no deck qualifies.
type PlayerStats struct {
	PlayerID      string  `json:"player_id"`
	ExternalID    string  `json:"external_id"`
	PlayerName    string  `json:"player_name"`
	TotalGames    int     `json:"total_games"`
	Wins          int     `json:"wins"`
	Points        int     `json:"points"`
	WinRate       float64 `json:"win_rate"`
	FavoriteDeck  string  `json:"favorite_deck,omitempty"`
	BestDeck      string  `json:"best_deck,omitempty"`
	CurrentStreak int     `json:"current_streak"`
}

// DeckStats is an aggregate over every deck sharing a commander name.
type DeckStats struct {
	CommanderName   string   `json:"commander_name"`
	TotalGames      int      `json:"total_games"`
	Wins            int      `json:"wins"`
	WinRate         float64  `json:"win_rate"`
	DistinctPlayers int      `json:"distinct_players"`
	Players         []string `json:"players"`
}

// HeadToHeadStats is the record between two players across shared games.
// OneVOneRecord is restricted to 1v1 games: [player1 wins, player2 wins].
type HeadToHeadStats struct {
	Player1Name   string `json:"player1_name"`
	Player2Name   string `json:"player2_name"`
	Player1Wins   int    `json:"player1_wins"`
	Player2Wins   int    `json:"player2_wins"`
	GamesTogether int    `json:"games_together"`
	OneVOneRecord [2]int `json:"one_v_one_record"`
}

// PlacementLine is one seat of a game summary, ordered by placement.
type PlacementLine struct {
	PlayerName    string `json:"player_name"`
	CommanderName string `json:"commander_name"`
	Placement     int    `json:"placement"`
}

// StereotypeNote is one stereotype assignment within a game.
type StereotypeNote struct {
	PlayerName     string `json:"player_name"`
	StereotypeName string `json:"stereotype_name"`
}

// GameSummary is a recorded game with its ordered placements and any
// stereotypes handed out during it.
type GameSummary struct {
	GameID          string           `json:"game_id"`
	GameType        tracker.GameType `json:"game_type"`
	PlayedAt        time.Time        `json:"played_at"`
	WinCondition    string           `json:"win_condition"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Placements      []PlacementLine  `json:"placements"`
	Stereotypes     []StereotypeNote `json:"stereotypes,omitempty"`
}
