package notifier

import (
	"sync"

	"github.com/jkoenig-dev/commander-tracker/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendGameRecordedCalls   []*stats.GameSummary
	SendLeaderboardCalls    [][]stats.PlayerStats
	SendPlayerStatsCalls    []*stats.PlayerStats
	SendPlayerNotFoundCalls []string

	// Optional error injection
	SendGameRecordedErr error
	SendLeaderboardErr  error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendGameRecorded(game *stats.GameSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameRecordedCalls = append(m.SendGameRecordedCalls, game)
	return m.SendGameRecordedErr
}

func (m *Mock) SendLeaderboard(board []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, board)
	return m.SendLeaderboardErr
}

func (m *Mock) SendPlayerStats(ps *stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, ps)
	return nil
}

func (m *Mock) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	return nil
}

// GameRecordedCount returns how many game notifications were sent.
func (m *Mock) GameRecordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendGameRecordedCalls)
}
