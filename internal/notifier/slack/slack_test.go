package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jkoenig-dev/commander-tracker/internal/metrics"
	"github.com/jkoenig-dev/commander-tracker/internal/stats"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleGame() *stats.GameSummary {
	duration := 95
	return &stats.GameSummary{
		GameID:          "g1",
		GameType:        tracker.GameTypeMultiplayer,
		PlayedAt:        time.Date(2026, 3, 14, 20, 0, 0, 0, time.Local),
		WinCondition:    "Commander damage",
		DurationMinutes: &duration,
		Placements: []stats.PlacementLine{
			{PlayerName: "Alice", CommanderName: "Atraxa", Placement: 1},
			{PlayerName: "Bob", CommanderName: "Korvold", Placement: 2},
			{PlayerName: "Carol", CommanderName: "Urza", Placement: 3},
		},
		Stereotypes: []stats.StereotypeNote{
			{PlayerName: "Bob", StereotypeName: "Never swings"},
		},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendGameRecorded_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendGameRecorded(sampleGame(), false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendGameRecorded")
}

func TestFormatGameRecorded(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatGameRecorded(sampleGame())
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "first block should be a header")
	assert.Contains(t, header.Text.Text, "Game recorded")

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "second block should be a section")
	assert.Contains(t, details.Text.Text, "multiplayer")
	assert.Contains(t, details.Text.Text, "Commander damage")
	assert.Contains(t, details.Text.Text, "95 min")

	placements, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok, "third block should be a section")
	assert.Contains(t, placements.Text.Text, "🥇 Alice (Atraxa)")
	assert.Contains(t, placements.Text.Text, "🥉 Carol (Urza)")

	_, ok = msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	assert.True(t, ok, "fourth block should be the stereotype context")
}

func TestFormatGameRecorded_NoStereotypes(t *testing.T) {
	game := sampleGame()
	game.Stereotypes = nil
	game.DurationMinutes = nil

	client := &Notifier{channelID: "C123"}
	msg := client.formatGameRecorded(game)
	require.Len(t, msg.Blocks.BlockSet, 3, "no context block without stereotypes")

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.NotContains(t, details.Text.Text, "Duration")
}

func TestFormatLeaderboard(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	board := []stats.PlayerStats{
		{PlayerName: "Alice", Points: 9, Wins: 3, WinRate: 60},
		{PlayerName: "Bob", Points: 4, Wins: 1, WinRate: 20},
	}
	msg := client.formatLeaderboard(board)
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "1. Alice — 9 pts")
	assert.Contains(t, section.Text.Text, "2. Bob — 4 pts")

	t.Run("empty board", func(t *testing.T) {
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "No games recorded yet")
	})
}

func TestFormatPlayerStats(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	ps := &stats.PlayerStats{
		PlayerName:    "Alice",
		TotalGames:    5,
		Wins:          3,
		WinRate:       60,
		Points:        9,
		CurrentStreak: 2,
		FavoriteDeck:  "Atraxa",
	}
	msg := client.formatPlayerStats(ps)
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Games: 5")
	assert.Contains(t, section.Text.Text, "Favorite deck: Atraxa")
	assert.NotContains(t, section.Text.Text, "Best deck", "omitted when no deck qualifies")
}
