package stats

// Service defines the read-only statistics queries. Every call re-derives
// its answer from the recorded history; nothing is cached.
type Service interface {
	Leaderboard() ([]PlayerStats, error)
	PlayerStats(externalID string) (*PlayerStats, error)
	TotalPoints(playerID string) (int, error)
	HeadToHead(externalID1, externalID2 string) (*HeadToHeadStats, error)
	DeckStats(commanderFilter string) ([]DeckStats, error)
	RecentGames(limit int) ([]GameSummary, error)
	Game(gameID string) (*GameSummary, error)
}
