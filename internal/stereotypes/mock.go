package stereotypes

import "sync"

// MockLedger is a mock implementation of the Ledger interface for testing.
type MockLedger struct {
	mu sync.Mutex

	SeedFunc        func() error
	ListFunc        func() ([]Stereotype, error)
	AddFunc         func(name string) (*Stereotype, error)
	GetByNameFunc   func(name string) (*Stereotype, error)
	AssignFunc      func(gameID, playerID string, stereotypeIDs []string) ([]Assignment, error)
	LeaderboardFunc func() ([]LeaderboardEntry, error)
	ForPlayerFunc   func(externalID string) ([]PlayerCount, error)

	AddCalls    []string
	AssignCalls []Assignment
}

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Seed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeedFunc != nil {
		return m.SeedFunc()
	}
	return nil
}

func (m *MockLedger) List() ([]Stereotype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockLedger) Add(name string) (*Stereotype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls = append(m.AddCalls, name)
	if m.AddFunc != nil {
		return m.AddFunc(name)
	}
	return nil, nil
}

func (m *MockLedger) GetByName(name string) (*Stereotype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(name)
	}
	return nil, nil
}

func (m *MockLedger) Assign(gameID, playerID string, stereotypeIDs []string) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range stereotypeIDs {
		m.AssignCalls = append(m.AssignCalls, Assignment{GameID: gameID, PlayerID: playerID, StereotypeID: id})
	}
	if m.AssignFunc != nil {
		return m.AssignFunc(gameID, playerID, stereotypeIDs)
	}
	return nil, nil
}

func (m *MockLedger) Leaderboard() ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc()
	}
	return nil, nil
}

func (m *MockLedger) ForPlayer(externalID string) ([]PlayerCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForPlayerFunc != nil {
		return m.ForPlayerFunc(externalID)
	}
	return nil, nil
}
