package http

import (
	"net/http"

	"github.com/jkoenig-dev/commander-tracker/internal/config"
	"github.com/jkoenig-dev/commander-tracker/internal/metrics"
	"github.com/jkoenig-dev/commander-tracker/internal/notifier"
	"github.com/jkoenig-dev/commander-tracker/internal/pubsub"
	"github.com/jkoenig-dev/commander-tracker/internal/stats"
	"github.com/jkoenig-dev/commander-tracker/internal/stereotypes"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

type Server struct {
	Tracker        tracker.Store
	Stats          stats.Service
	Stereotypes    stereotypes.Ledger
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// recordGameRequest is the JSON body for recording a finished game. Players
// are identified by their chat-platform id; unknown players and decks are
// registered on the fly.
type recordGameRequest struct {
	GameType        string             `json:"game_type"`
	WinCondition    string             `json:"win_condition"`
	DurationMinutes *int               `json:"duration_minutes,omitempty"`
	Players         []recordGamePlayer `json:"players"`
}

type recordGamePlayer struct {
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Commander   string `json:"commander"`
	Placement   int    `json:"placement"`
}

// addStereotypeRequest is the JSON body for adding a custom stereotype.
type addStereotypeRequest struct {
	Name string `json:"name"`
}

// assignStereotypeRequest is the JSON body for pinning stereotypes on a
// player for a game. Stereotypes are referenced by name and applied together.
type assignStereotypeRequest struct {
	GameID      string   `json:"game_id"`
	ExternalID  string   `json:"external_id"`
	Stereotypes []string `json:"stereotypes"`
}

type errorResponse struct {
	Error string `json:"error"`
}
