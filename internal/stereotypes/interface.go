package stereotypes

// Ledger manages the stereotype catalogue and per-game assignments.
type Ledger interface {
	// Seed inserts the default stereotypes into an empty catalogue. It is a
	// no-op once any stereotype exists.
	Seed() error
	// List returns the full catalogue ordered by name.
	List() ([]Stereotype, error)
	// Add creates a custom stereotype. It returns (nil, nil) when the name
	// is already taken.
	Add(name string) (*Stereotype, error)
	// GetByName looks a stereotype up by its exact name.
	GetByName(name string) (*Stereotype, error)
	// Assign pins one or more stereotypes on a player for a recorded game in
	// a single transaction. Repeat assignments stack.
	Assign(gameID, playerID string, stereotypeIDs []string) ([]Assignment, error)
	// Leaderboard returns every (player, stereotype) pair with its count,
	// most-assigned first.
	Leaderboard() ([]LeaderboardEntry, error)
	// ForPlayer returns one player's received stereotypes with counts, or
	// (nil, nil) when the player is unknown.
	ForPlayer(externalID string) ([]PlayerCount, error)
}
