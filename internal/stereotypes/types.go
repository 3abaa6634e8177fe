package stereotypes

import "time"

// Name length bounds for custom stereotypes.
const (
	NameMinLen = 3
	NameMaxLen = 100
)

// defaultStereotypes seed a fresh database so a pod can start tagging each
// other without inventing labels first.
var defaultStereotypes = []string{
	"Claims to not be the threat",
	"Never swings",
	`Said "not optimal"`,
	"Missed their triggers",
}

// Stereotype is a reusable label players pin on each other after games.
type Stereotype struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment records one stereotype handed to one player in one game.
type Assignment struct {
	ID           string `json:"id"`
	GameID       string `json:"game_id"`
	PlayerID     string `json:"player_id"`
	StereotypeID string `json:"stereotype_id"`
}

// LeaderboardEntry is one (player, stereotype) pair and how often it was
// handed out.
type LeaderboardEntry struct {
	PlayerName     string `json:"player_name"`
	StereotypeName string `json:"stereotype_name"`
	Count          int    `json:"count"`
}

// PlayerCount is how often one player has received a given stereotype.
type PlayerCount struct {
	StereotypeName string `json:"stereotype_name"`
	Count          int    `json:"count"`
}
