package scoring_test

import (
	"testing"

	"github.com/jkoenig-dev/commander-tracker/internal/scoring"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		name      string
		gameType  tracker.GameType
		placement int
		want      int
	}{
		{"multiplayer win", tracker.GameTypeMultiplayer, 1, 3},
		{"multiplayer second", tracker.GameTypeMultiplayer, 2, 2},
		{"multiplayer third", tracker.GameTypeMultiplayer, 3, 1},
		{"multiplayer last", tracker.GameTypeMultiplayer, 4, 0},
		{"1v1 win", tracker.GameType1v1, 1, 3},
		{"1v1 loss", tracker.GameType1v1, 2, 0},
		{"1v1 has no third place", tracker.GameType1v1, 3, 0},
		{"placement zero", tracker.GameTypeMultiplayer, 0, 0},
		{"placement out of range", tracker.GameTypeMultiplayer, 9, 0},
		{"unknown game type", tracker.GameType("archenemy"), 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoring.Points(tc.gameType, tc.placement))
		})
	}
}

func TestPoints_OneMultiplayerSecondPlusOneDuelWin(t *testing.T) {
	total := scoring.Points(tracker.GameTypeMultiplayer, 2) + scoring.Points(tracker.GameType1v1, 1)
	assert.Equal(t, 5, total)
}
