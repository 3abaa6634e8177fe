package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jkoenig-dev/commander-tracker/internal/pubsub"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// RecordGameHandler registers any unknown players and decks, then records the
// game atomically and publishes a game-recorded event for notification.
func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		start := time.Now()
		isDryRun := isDryRunFromContext(r)

		var req recordGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		entries := make([]tracker.PlacementEntry, 0, len(req.Players))
		for _, rp := range req.Players {
			if _, err := s.Tracker.GetPlayerByExternalID(rp.ExternalID); errors.Is(err, tracker.ErrNotFound) {
				s.Metrics.IncPlayersCreated()
				s.Counters.Increment("players_created")
			}
			player, err := s.Tracker.GetOrCreatePlayer(rp.ExternalID, rp.DisplayName)
			if err != nil {
				s.handleDomainError(w, err)
				return
			}

			if _, err := s.Tracker.GetDeck(player.ID, rp.Commander); errors.Is(err, tracker.ErrNotFound) {
				s.Metrics.IncDecksCreated()
				s.Counters.Increment("decks_created")
			}
			deck, err := s.Tracker.GetOrCreateDeck(player.ID, rp.Commander)
			if err != nil {
				s.handleDomainError(w, err)
				return
			}

			entries = append(entries, tracker.PlacementEntry{
				PlayerID:  player.ID,
				DeckID:    deck.ID,
				Placement: rp.Placement,
			})
		}

		game, err := s.Tracker.CreateGame(tracker.GameType(req.GameType), req.WinCondition, entries, req.DurationMinutes)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		s.Metrics.IncGamesRecorded()
		s.Metrics.ObserveRecordingDuration(time.Since(start).Seconds())
		s.Counters.Increment("games_recorded")

		if isDryRun {
			log.Info("[Dry Run] Would publish game-recorded event", "gameID", game.ID)
		} else if err := s.pubsub.SendMessage(pubsub.EventGameRecorded, pubsub.GameRecordedEvent{GameID: game.ID}); err != nil {
			// The game is already persisted; a lost notification is not
			// worth failing the request over.
			log.Error("Failed to publish game-recorded event", "error", err, "gameID", game.ID)
		}

		writeJSON(w, http.StatusCreated, game)
	}
}

func (s *Server) RecentGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 5
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "limit must be a number")
				return
			}
			limit = parsed
		}

		games, err := s.Stats.RecentGames(limit)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := s.Stats.Leaderboard()
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := r.URL.Query().Get("player")
		if externalID == "" {
			writeError(w, http.StatusBadRequest, "missing 'player' query parameter")
			return
		}

		ps, err := s.Stats.PlayerStats(externalID)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		if ps == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no recorded games for player %q", externalID))
			return
		}
		writeJSON(w, http.StatusOK, ps)
	}
}

func (s *Server) HeadToHeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player1 := r.URL.Query().Get("player1")
		player2 := r.URL.Query().Get("player2")
		if player1 == "" || player2 == "" {
			writeError(w, http.StatusBadRequest, "missing 'player1' or 'player2' query parameter")
			return
		}

		h2h, err := s.Stats.HeadToHead(player1, player2)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		if h2h == nil {
			writeError(w, http.StatusNotFound, "one or both players are unknown")
			return
		}
		writeJSON(w, http.StatusOK, h2h)
	}
}

func (s *Server) DeckStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := s.Stats.DeckStats(r.URL.Query().Get("commander"))
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, decks)
	}
}

// StereotypesHandler lists the catalogue on GET and adds a custom stereotype
// on POST.
func (s *Server) StereotypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list, err := s.Stereotypes.List()
			if err != nil {
				s.handleDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, list)
		case http.MethodPost:
			var req addStereotypeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			st, err := s.Stereotypes.Add(req.Name)
			if err != nil {
				s.handleDomainError(w, err)
				return
			}
			if st == nil {
				writeError(w, http.StatusConflict, fmt.Sprintf("stereotype %q already exists", req.Name))
				return
			}
			writeJSON(w, http.StatusCreated, st)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) AssignStereotypeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req assignStereotypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		player, err := s.Tracker.GetPlayerByExternalID(req.ExternalID)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		stereotypeIDs := make([]string, 0, len(req.Stereotypes))
		for _, name := range req.Stereotypes {
			st, err := s.Stereotypes.GetByName(name)
			if err != nil {
				s.handleDomainError(w, err)
				return
			}
			stereotypeIDs = append(stereotypeIDs, st.ID)
		}

		assignments, err := s.Stereotypes.Assign(req.GameID, player.ID, stereotypeIDs)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		for range assignments {
			s.Metrics.IncStereotypeAssignments()
			s.Counters.Increment("stereotype_assignments")
		}
		writeJSON(w, http.StatusCreated, assignments)
	}
}

func (s *Server) StereotypeLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := s.Stereotypes.Leaderboard()
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func (s *Server) PlayerStereotypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := r.URL.Query().Get("player")
		if externalID == "" {
			writeError(w, http.StatusBadRequest, "missing 'player' query parameter")
			return
		}

		counts, err := s.Stereotypes.ForPlayer(externalID)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		if counts == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown player %q", externalID))
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

// NotifyLeaderboardHandler posts the current leaderboard to the Slack
// channel. Used by the chat-platform glue for leaderboard commands.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		board, err := s.Stats.Leaderboard()
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(board, isDryRun); err != nil {
			log.Error("Failed to send leaderboard notification", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to send notification")
			return
		}
		w.Write([]byte("OK"))
	}
}

// NotifyPlayerStatsHandler posts one player's profile to the Slack channel,
// or a not-found message when the player has no recorded games.
func (s *Server) NotifyPlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := r.URL.Query().Get("player")
		if externalID == "" {
			writeError(w, http.StatusBadRequest, "missing 'player' query parameter")
			return
		}
		isDryRun := isDryRunFromContext(r)

		ps, err := s.Stats.PlayerStats(externalID)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		if ps == nil {
			err = s.Notifier.SendPlayerNotFound(externalID, isDryRun)
		} else {
			err = s.Notifier.SendPlayerStats(ps, isDryRun)
		}
		if err != nil {
			log.Error("Failed to send player stats notification", "error", err, "externalID", externalID)
			writeError(w, http.StatusInternalServerError, "failed to send notification")
			return
		}
		w.Write([]byte("OK"))
	}
}

// GameRecordedHandler receives the pub/sub push for a freshly recorded game
// and sends the Slack notification. Unknown game ids are acked so the
// subscription does not redeliver them forever.
func (s *Server) GameRecordedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received game recorded message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		event := pubsub.GameRecordedEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		game, err := s.Stats.Game(event.GameID)
		if err != nil {
			log.Error("Failed to load recorded game", "error", err, "gameID", event.GameID)
			http.Error(w, "Failed to load game", http.StatusInternalServerError)
			return
		}
		if game == nil {
			log.Warn("Game recorded event for unknown game", "gameID", event.GameID)
			w.Write([]byte("OK"))
			return
		}

		if err := s.Notifier.SendGameRecorded(game, isDryRun); err != nil {
			log.Error("Failed to send game notification", "error", err, "gameID", event.GameID)
			http.Error(w, "Failed to send notification", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to read counters", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read counters")
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

// handleDomainError maps store errors onto HTTP status codes: caller mistakes
// are 4xx, storage failures are 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case tracker.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tracker.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("Unhandled store error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
