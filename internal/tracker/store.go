package tracker

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// store handles all database operations for players, decks and games.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new tracker Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// GetOrCreatePlayer looks a player up by their stable external id, creating
// the row on first sighting. The display name is not an identity field: a
// changed name overwrites the stored one (last write wins).
func (s *store) GetOrCreatePlayer(externalID, displayName string) (*Player, error) {
	if externalID == "" {
		return nil, Validationf("external id must not be empty")
	}
	if displayName == "" {
		return nil, Validationf("display name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &PersistenceError{Op: "get-or-create player", Err: err}
	}
	defer tx.Rollback()

	player, err := scanPlayer(tx.QueryRow(
		"SELECT id, external_id, display_name, created_at FROM players WHERE external_id = ?",
		externalID,
	))
	switch {
	case err == nil:
		if player.DisplayName != displayName {
			if _, err := tx.Exec("UPDATE players SET display_name = ? WHERE id = ?", displayName, player.ID); err != nil {
				return nil, &PersistenceError{Op: "update player name", Err: err}
			}
			log.Info("Updated player display name", "externalID", externalID, "name", displayName)
			player.DisplayName = displayName
		}
	case err == sql.ErrNoRows:
		player = &Player{
			ID:          uuid.New().String(),
			ExternalID:  externalID,
			DisplayName: displayName,
			CreatedAt:   time.Now(),
		}
		_, err = tx.Exec(
			"INSERT INTO players (id, external_id, display_name, created_at) VALUES (?, ?, ?, ?)",
			player.ID, player.ExternalID, player.DisplayName, player.CreatedAt.Unix(),
		)
		if IsUniqueViolation(err) {
			// Lost a create race to a concurrent writer; the constraint is
			// the arbiter, so read back the winning row.
			player, err = scanPlayer(tx.QueryRow(
				"SELECT id, external_id, display_name, created_at FROM players WHERE external_id = ?",
				externalID,
			))
		}
		if err != nil {
			return nil, &PersistenceError{Op: "create player", Err: err}
		}
		log.Info("Registered new player", "externalID", externalID, "name", displayName)
	default:
		return nil, &PersistenceError{Op: "lookup player", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "get-or-create player", Err: err}
	}
	return player, nil
}

// GetPlayerByExternalID returns ErrNotFound for an unknown player.
func (s *store) GetPlayerByExternalID(externalID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := scanPlayer(s.db.QueryRow(
		"SELECT id, external_id, display_name, created_at FROM players WHERE external_id = ?",
		externalID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "lookup player", Err: err}
	}
	return player, nil
}

// GetOrCreateDeck resolves a deck by (player, commander name). The commander
// name is trimmed before lookup so " Atraxa " and "Atraxa" are the same deck.
func (s *store) GetOrCreateDeck(playerID, commanderName string) (*Deck, error) {
	commanderName = strings.TrimSpace(commanderName)
	if commanderName == "" {
		return nil, Validationf("commander name must not be empty")
	}
	if playerID == "" {
		return nil, Validationf("player id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &PersistenceError{Op: "get-or-create deck", Err: err}
	}
	defer tx.Rollback()

	deck, err := scanDeck(tx.QueryRow(
		"SELECT id, player_id, commander_name, created_at FROM decks WHERE player_id = ? AND commander_name = ?",
		playerID, commanderName,
	))
	switch {
	case err == nil:
		// Existing deck, nothing to update.
	case err == sql.ErrNoRows:
		deck = &Deck{
			ID:            uuid.New().String(),
			PlayerID:      playerID,
			CommanderName: commanderName,
			CreatedAt:     time.Now(),
		}
		_, err = tx.Exec(
			"INSERT INTO decks (id, player_id, commander_name, created_at) VALUES (?, ?, ?, ?)",
			deck.ID, deck.PlayerID, deck.CommanderName, deck.CreatedAt.Unix(),
		)
		if IsUniqueViolation(err) {
			deck, err = scanDeck(tx.QueryRow(
				"SELECT id, player_id, commander_name, created_at FROM decks WHERE player_id = ? AND commander_name = ?",
				playerID, commanderName,
			))
		}
		if err != nil {
			return nil, &PersistenceError{Op: "create deck", Err: err}
		}
		log.Info("Registered new deck", "playerID", playerID, "commander", commanderName)
	default:
		return nil, &PersistenceError{Op: "lookup deck", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "get-or-create deck", Err: err}
	}
	return deck, nil
}

// GetDeck returns ErrNotFound for an unknown (player, commander) pair.
func (s *store) GetDeck(playerID, commanderName string) (*Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deck, err := scanDeck(s.db.QueryRow(
		"SELECT id, player_id, commander_name, created_at FROM decks WHERE player_id = ? AND commander_name = ?",
		playerID, strings.TrimSpace(commanderName),
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "lookup deck", Err: err}
	}
	return deck, nil
}

// CreateGame validates and atomically persists a finished game: one game row
// plus one placement row per participant. Either everything is written or
// nothing is.
func (s *store) CreateGame(gameType GameType, winCondition string, placements []PlacementEntry, durationMinutes *int) (*Game, error) {
	if err := validateGame(gameType, winCondition, placements, durationMinutes); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &PersistenceError{Op: "create game", Err: err}
	}
	defer tx.Rollback()

	game := &Game{
		ID:              uuid.New().String(),
		GameType:        gameType,
		PlayedAt:        time.Now(),
		DurationMinutes: durationMinutes,
		WinCondition:    winCondition,
	}

	var duration sql.NullInt64
	if durationMinutes != nil {
		duration = sql.NullInt64{Int64: int64(*durationMinutes), Valid: true}
	}
	_, err = tx.Exec(
		"INSERT INTO games (id, game_type, played_at, duration_minutes, win_condition) VALUES (?, ?, ?, ?, ?)",
		game.ID, string(game.GameType), game.PlayedAt.Unix(), duration, game.WinCondition,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "insert game", Err: err}
	}

	for _, p := range placements {
		_, err = tx.Exec(
			"INSERT INTO game_placements (id, game_id, player_id, deck_id, placement) VALUES (?, ?, ?, ?, ?)",
			uuid.New().String(), game.ID, p.PlayerID, p.DeckID, p.Placement,
		)
		if err != nil {
			return nil, &PersistenceError{Op: "insert placement", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "create game", Err: err}
	}
	log.Info("Recorded game", "gameID", game.ID, "type", gameType, "players", len(placements))
	return game, nil
}

// validateGame enforces the recording preconditions before any storage is
// touched: known game type, participant count matching the type, placements
// forming exactly the set 1..N, distinct players, positive duration.
func validateGame(gameType GameType, winCondition string, placements []PlacementEntry, durationMinutes *int) error {
	switch gameType {
	case GameType1v1:
		if len(placements) != OneVOnePlayers {
			return Validationf("1v1 games need exactly %d players, got %d", OneVOnePlayers, len(placements))
		}
	case GameTypeMultiplayer:
		if len(placements) < MultiplayerMin || len(placements) > MultiplayerMax {
			return Validationf("multiplayer games need %d-%d players, got %d", MultiplayerMin, MultiplayerMax, len(placements))
		}
	default:
		return Validationf("unknown game type %q", gameType)
	}

	if strings.TrimSpace(winCondition) == "" {
		return Validationf("win condition must not be empty")
	}
	if durationMinutes != nil && *durationMinutes <= 0 {
		return Validationf("duration must be a positive number of minutes, got %d", *durationMinutes)
	}

	seenPlacements := make(map[int]bool, len(placements))
	seenPlayers := make(map[string]bool, len(placements))
	for _, p := range placements {
		if p.PlayerID == "" || p.DeckID == "" {
			return Validationf("placement entries need a player id and a deck id")
		}
		if p.Placement < PlacementMin || p.Placement > len(placements) {
			return Validationf("placement %d is outside 1-%d", p.Placement, len(placements))
		}
		if seenPlacements[p.Placement] {
			return Validationf("placement %d appears more than once", p.Placement)
		}
		seenPlacements[p.Placement] = true
		if seenPlayers[p.PlayerID] {
			return Validationf("player %s appears more than once", p.PlayerID)
		}
		seenPlayers[p.PlayerID] = true
	}
	return nil
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	var createdAt int64
	if err := row.Scan(&p.ID, &p.ExternalID, &p.DisplayName, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

func scanDeck(row *sql.Row) (*Deck, error) {
	var d Deck
	var createdAt int64
	if err := row.Scan(&d.ID, &d.PlayerID, &d.CommanderName, &createdAt); err != nil {
		return nil, err
	}
	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}
