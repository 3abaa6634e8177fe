package tracker

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	GetOrCreatePlayerFunc     func(externalID, displayName string) (*Player, error)
	GetPlayerByExternalIDFunc func(externalID string) (*Player, error)
	GetOrCreateDeckFunc       func(playerID, commanderName string) (*Deck, error)
	GetDeckFunc               func(playerID, commanderName string) (*Deck, error)
	CreateGameFunc            func(gameType GameType, winCondition string, placements []PlacementEntry, durationMinutes *int) (*Game, error)

	GetOrCreatePlayerCalls []struct {
		ExternalID  string
		DisplayName string
	}
	GetOrCreateDeckCalls []struct {
		PlayerID      string
		CommanderName string
	}
	CreateGameCalls []struct {
		GameType   GameType
		Placements []PlacementEntry
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetOrCreatePlayer(externalID, displayName string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetOrCreatePlayerCalls = append(m.GetOrCreatePlayerCalls, struct {
		ExternalID  string
		DisplayName string
	}{externalID, displayName})
	if m.GetOrCreatePlayerFunc != nil {
		return m.GetOrCreatePlayerFunc(externalID, displayName)
	}
	return &Player{ID: externalID, ExternalID: externalID, DisplayName: displayName}, nil
}

func (m *MockStore) GetPlayerByExternalID(externalID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByExternalIDFunc != nil {
		return m.GetPlayerByExternalIDFunc(externalID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetOrCreateDeck(playerID, commanderName string) (*Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetOrCreateDeckCalls = append(m.GetOrCreateDeckCalls, struct {
		PlayerID      string
		CommanderName string
	}{playerID, commanderName})
	if m.GetOrCreateDeckFunc != nil {
		return m.GetOrCreateDeckFunc(playerID, commanderName)
	}
	return &Deck{ID: playerID + "/" + commanderName, PlayerID: playerID, CommanderName: commanderName}, nil
}

func (m *MockStore) GetDeck(playerID, commanderName string) (*Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetDeckFunc != nil {
		return m.GetDeckFunc(playerID, commanderName)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CreateGame(gameType GameType, winCondition string, placements []PlacementEntry, durationMinutes *int) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = append(m.CreateGameCalls, struct {
		GameType   GameType
		Placements []PlacementEntry
	}{gameType, placements})
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(gameType, winCondition, placements, durationMinutes)
	}
	return &Game{ID: "mock-game", GameType: gameType, WinCondition: winCondition, DurationMinutes: durationMinutes}, nil
}
