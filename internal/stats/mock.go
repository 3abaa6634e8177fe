package stats

import "sync"

// MockService is a mock implementation of the Service interface for testing.
type MockService struct {
	mu sync.Mutex

	LeaderboardFunc func() ([]PlayerStats, error)
	PlayerStatsFunc func(externalID string) (*PlayerStats, error)
	TotalPointsFunc func(playerID string) (int, error)
	HeadToHeadFunc  func(externalID1, externalID2 string) (*HeadToHeadStats, error)
	DeckStatsFunc   func(commanderFilter string) ([]DeckStats, error)
	RecentGamesFunc func(limit int) ([]GameSummary, error)
	GameFunc        func(gameID string) (*GameSummary, error)

	PlayerStatsCalls []string
	RecentGamesCalls []int
	GameCalls        []string
}

// NewMock creates a new mock instance.
func NewMock() *MockService {
	return &MockService{}
}

func (m *MockService) Leaderboard() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc()
	}
	return nil, nil
}

func (m *MockService) PlayerStats(externalID string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerStatsCalls = append(m.PlayerStatsCalls, externalID)
	if m.PlayerStatsFunc != nil {
		return m.PlayerStatsFunc(externalID)
	}
	return nil, nil
}

func (m *MockService) TotalPoints(playerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TotalPointsFunc != nil {
		return m.TotalPointsFunc(playerID)
	}
	return 0, nil
}

func (m *MockService) HeadToHead(externalID1, externalID2 string) (*HeadToHeadStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HeadToHeadFunc != nil {
		return m.HeadToHeadFunc(externalID1, externalID2)
	}
	return nil, nil
}

func (m *MockService) DeckStats(commanderFilter string) ([]DeckStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeckStatsFunc != nil {
		return m.DeckStatsFunc(commanderFilter)
	}
	return nil, nil
}

func (m *MockService) Game(gameID string) (*GameSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameCalls = append(m.GameCalls, gameID)
	if m.GameFunc != nil {
		return m.GameFunc(gameID)
	}
	return nil, nil
}

func (m *MockService) RecentGames(limit int) ([]GameSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecentGamesCalls = append(m.RecentGamesCalls, limit)
	if m.RecentGamesFunc != nil {
		return m.RecentGamesFunc(limit)
	}
	return nil, nil
}
