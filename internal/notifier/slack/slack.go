package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jkoenig-dev/commander-tracker/internal/metrics"
	"github.com/jkoenig-dev/commander-tracker/internal/notifier"
	"github.com/jkoenig-dev/commander-tracker/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// placementMedals decorate the top finishers in a game summary.
var placementMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉", 4: "💀"}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendGameRecorded(game *stats.GameSummary, dryRun bool) error {
	msg := s.formatGameRecorded(game)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(board []stats.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(board)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(ps *stats.PlayerStats, dryRun bool) error {
	msg := s.formatPlayerStats(ps)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatGameRecorded creates the Slack message for a freshly recorded game using Block Kit.
func (s *Notifier) formatGameRecorded(game *stats.GameSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Game recorded! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("Format: %s\nWon by: %s\nPlayed: %s",
		game.GameType,
		game.WinCondition,
		game.PlayedAt.Format("Monday 02 Jan, 15:04"),
	)
	if game.DurationMinutes != nil {
		details += fmt.Sprintf("\nDuration: %d min", *game.DurationMinutes)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, true, false), nil, nil))

	var lines []string
	for _, p := range game.Placements {
		medal := placementMedals[p.Placement]
		lines = append(lines, fmt.Sprintf("%s %s (%s)", medal, p.PlayerName, p.CommanderName))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	var contextElements []slack.MixedElement
	for _, note := range game.Stereotypes {
		contextElements = append(contextElements, slack.NewTextBlockObject(
			"plain_text",
			fmt.Sprintf("🏷️ %s: %s", note.PlayerName, note.StereotypeName),
			true, false,
		))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the points leaderboard using Block Kit.
func (s *Notifier) formatLeaderboard(board []stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Commander Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(board) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No games recorded yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, ps := range board {
		lines = append(lines, fmt.Sprintf("%d. %s — %d pts (%d wins, %.0f%%)",
			i+1, ps.PlayerName, ps.Points, ps.Wins, ps.WinRate))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates the Slack message for one player's profile using Block Kit.
func (s *Notifier) formatPlayerStats(ps *stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📊 %s", ps.PlayerName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("Games: %d\nWins: %d (%.0f%%)\nPoints: %d\nCurrent streak: %d",
		ps.TotalGames, ps.Wins, ps.WinRate, ps.Points, ps.CurrentStreak)
	if ps.FavoriteDeck != "" {
		details += fmt.Sprintf("\nFavorite deck: %s", ps.FavoriteDeck)
	}
	if ps.BestDeck != "" {
		details += fmt.Sprintf("\nBest deck: %s", ps.BestDeck)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a short message for a failed player lookup.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := slack.NewTextBlockObject("plain_text", fmt.Sprintf("No player found for %q. They need at least one recorded game.", query), false, false)
	return slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
}
