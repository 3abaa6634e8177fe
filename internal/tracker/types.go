package tracker

import "time"

// GameType distinguishes the two supported formats.
type GameType string

const (
	GameType1v1         GameType = "1v1"
	GameTypeMultiplayer GameType = "multiplayer"
)

// Participant counts allowed per game type.
const (
	OneVOnePlayers    = 2
	MultiplayerMin    = 3
	MultiplayerMax    = 4
	PlacementMin      = 1
	PlacementMaxLimit = 4
)

// Player is a tracked player. ExternalID is the stable chat-platform
// identifier; DisplayName follows whatever the platform last reported.
type Player struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Deck is one player's deck, keyed by commander name. The same commander
// used by different players is a different deck.
type Deck struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"player_id"`
	CommanderName string    `json:"commander_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Game is a finished, recorded game.
type Game struct {
	ID              string    `json:"id"`
	GameType        GameType  `json:"game_type"`
	PlayedAt        time.Time `json:"played_at"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	WinCondition    string    `json:"win_condition"`
}

// PlacementEntry is one player's finishing position in a game to be recorded.
type PlacementEntry struct {
	PlayerID  string `json:"player_id"`
	DeckID    string `json:"deck_id"`
	Placement int    `json:"placement"`
}
