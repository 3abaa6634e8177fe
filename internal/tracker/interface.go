package tracker

// Store defines identity resolution and game recording.
type Store interface {
	GetOrCreatePlayer(externalID, displayName string) (*Player, error)
	GetPlayerByExternalID(externalID string) (*Player, error)
	GetOrCreateDeck(playerID, commanderName string) (*Deck, error)
	GetDeck(playerID, commanderName string) (*Deck, error)
	CreateGame(gameType GameType, winCondition string, placements []PlacementEntry, durationMinutes *int) (*Game, error)
}
