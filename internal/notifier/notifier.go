package notifier

import "github.com/jkoenig-dev/commander-tracker/internal/stats"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For freshly recorded games
	SendGameRecorded(game *stats.GameSummary, dryRun bool) error
	// For leaderboard requests
	SendLeaderboard(board []stats.PlayerStats, dryRun bool) error
	// For player profile requests
	SendPlayerStats(ps *stats.PlayerStats, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error
}
