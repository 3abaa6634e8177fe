// Package scoring maps finishing placements to leaderboard points. It is
// pure: no storage access, no errors.
package scoring

import "github.com/jkoenig-dev/commander-tracker/internal/tracker"

// pointsTable is the scoring system agreed by the pod: multiplayer rewards
// every seat above last, 1v1 only rewards the winner.
var pointsTable = map[tracker.GameType]map[int]int{
	tracker.GameTypeMultiplayer: {1: 3, 2: 2, 3: 1, 4: 0},
	tracker.GameType1v1:         {1: 3, 2: 0},
}

// Points returns the points earned for a placement in a game of the given
// type. Unknown (type, placement) pairs score zero rather than failing, so a
// malformed history row never breaks an aggregate.
func Points(gameType tracker.GameType, placement int) int {
	return pointsTable[gameType][placement]
}
