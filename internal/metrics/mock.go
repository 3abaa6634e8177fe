package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	gamesRecorded         int
	playersCreated        int
	decksCreated          int
	stereotypeAssignments int
	recordingDurations    []float64
	slackNotifSent        int
	slackNotifFailed      int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncGamesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesRecorded++
}

func (m *Mock) IncPlayersCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersCreated++
}

func (m *Mock) IncDecksCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decksCreated++
}

func (m *Mock) IncStereotypeAssignments() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stereotypeAssignments++
}

func (m *Mock) ObserveRecordingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordingDurations = append(m.recordingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesRecorded returns the number of times IncGamesRecorded was called.
func (m *Mock) GamesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesRecorded
}

// PlayersCreated returns the number of times IncPlayersCreated was called.
func (m *Mock) PlayersCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersCreated
}

// DecksCreated returns the number of times IncDecksCreated was called.
func (m *Mock) DecksCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decksCreated
}

// StereotypeAssignments returns the number of times IncStereotypeAssignments was called.
func (m *Mock) StereotypeAssignments() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stereotypeAssignments
}

// RecordingDurations returns every observed recording duration.
func (m *Mock) RecordingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.recordingDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
