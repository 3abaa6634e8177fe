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

func NewServer(
	trackerStore tracker.Store,
	statsSvc stats.Service,
	ledger stereotypes.Ledger,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	counters metrics.MetricsStore,
	cfg config.Config,
	notifier notifier.Notifier,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Tracker:        trackerStore,
		Stats:          statsSvc,
		Stereotypes:    ledger,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/games", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("/games/recent", Chain(s.RecentGamesHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/players/stereotypes", Chain(s.PlayerStereotypesHandler(), paramsMiddleware))
	s.Router.Handle("/head-to-head", Chain(s.HeadToHeadHandler(), paramsMiddleware))
	s.Router.Handle("/decks", Chain(s.DeckStatsHandler(), paramsMiddleware))
	s.Router.Handle("/stereotypes", Chain(s.StereotypesHandler(), paramsMiddleware))
	s.Router.Handle("/stereotypes/assign", Chain(s.AssignStereotypeHandler(), paramsMiddleware))
	s.Router.Handle("/stereotypes/leaderboard", Chain(s.StereotypeLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/notify/leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/notify/player-stats", Chain(s.NotifyPlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/game-recorded", Chain(s.GameRecordedHandler(), paramsMiddleware))
	s.Router.Handle("/counters", Chain(s.CountersHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
