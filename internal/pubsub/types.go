package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGameRecorded EventType = "game-recorded"
)

// GameRecordedEvent is the payload published after a game is persisted. The
// push handler re-reads the game by id, so the payload stays minimal.
type GameRecordedEvent struct {
	GameID string `msgpack:"game_id"`
}
