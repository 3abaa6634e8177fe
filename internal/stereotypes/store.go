package stereotypes

import (
	"database/sql"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

// store handles all database operations for the stereotype catalogue and
// its per-game assignments.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new stereotype Ledger.
func New(db *sql.DB) Ledger {
	return &store{
		db: db,
	}
}

// Seed inserts the default stereotypes when the catalogue is empty. A
// non-empty catalogue, even a partially overlapping one, is left alone.
func (s *store) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM stereotypes").Scan(&count); err != nil {
		return &tracker.PersistenceError{Op: "seed stereotypes", Err: err}
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &tracker.PersistenceError{Op: "seed stereotypes", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, name := range defaultStereotypes {
		_, err := tx.Exec(
			"INSERT INTO stereotypes (id, name, created_at) VALUES (?, ?, ?)",
			uuid.New().String(), name, now,
		)
		if err != nil {
			return &tracker.PersistenceError{Op: "seed stereotypes", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &tracker.PersistenceError{Op: "seed stereotypes", Err: err}
	}
	log.Info("Seeded default stereotypes", "count", len(defaultStereotypes))
	return nil
}

// List returns the catalogue sorted by name.
func (s *store) List() ([]Stereotype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM stereotypes ORDER BY name")
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "list stereotypes", Err: err}
	}
	defer rows.Close()

	var list []Stereotype
	for rows.Next() {
		var st Stereotype
		var createdAt int64
		if err := rows.Scan(&st.ID, &st.Name, &createdAt); err != nil {
			return nil, &tracker.PersistenceError{Op: "list stereotypes", Err: err}
		}
		st.CreatedAt = time.Unix(createdAt, 0)
		list = append(list, st)
	}
	return list, rows.Err()
}

// Add creates a custom stereotype. The name is trimmed before anything else;
// a name already in the catalogue returns (nil, nil) so callers can tell
// "nothing new" apart from a failure.
func (s *store) Add(name string) (*Stereotype, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < NameMinLen || n > NameMaxLen {
		return nil, tracker.Validationf("stereotype name must be %d-%d characters, got %d", NameMinLen, NameMaxLen, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Stereotype{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO stereotypes (id, name, created_at) VALUES (?, ?, ?)",
		st.ID, st.Name, st.CreatedAt.Unix(),
	)
	if err != nil {
		if tracker.IsUniqueViolation(err) {
			log.Debug("Stereotype already exists", "name", name)
			return nil, nil
		}
		return nil, &tracker.PersistenceError{Op: "add stereotype", Err: err}
	}
	log.Info("Added stereotype", "name", name)
	return st, nil
}

// GetByName returns ErrNotFound for an unknown stereotype.
func (s *store) GetByName(name string) (*Stereotype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stereotype
	var createdAt int64
	err := s.db.QueryRow(
		"SELECT id, name, created_at FROM stereotypes WHERE name = ?",
		strings.TrimSpace(name),
	).Scan(&st.ID, &st.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, tracker.ErrNotFound
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "lookup stereotype", Err: err}
	}
	st.CreatedAt = time.Unix(createdAt, 0)
	return &st, nil
}

// Assign pins one or more stereotypes on a player for a recorded game. The
// game, the player and every stereotype must exist. All rows are written in
// one transaction so a multi-label submission lands in full or not at all.
// Assignments stack: the same pair in the same game records a second row
// rather than being deduplicated.
func (s *store) Assign(gameID, playerID string, stereotypeIDs []string) ([]Assignment, error) {
	if gameID == "" || playerID == "" {
		return nil, tracker.Validationf("assignment needs a game id and a player id")
	}
	if len(stereotypeIDs) == 0 {
		return nil, tracker.Validationf("assignment needs at least one stereotype id")
	}
	for _, id := range stereotypeIDs {
		if id == "" {
			return nil, tracker.Validationf("assignment contains an empty stereotype id")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "assign stereotypes", Err: err}
	}
	defer tx.Rollback()

	type ref struct {
		table string
		id    string
	}
	refs := []ref{
		{"games", gameID},
		{"players", playerID},
	}
	for _, id := range stereotypeIDs {
		refs = append(refs, ref{"stereotypes", id})
	}
	for _, ref := range refs {
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM "+ref.table+" WHERE id = ?", ref.id).Scan(&exists)
		if err != nil {
			return nil, &tracker.PersistenceError{Op: "assign stereotypes", Err: err}
		}
		if exists == 0 {
			return nil, tracker.ErrNotFound
		}
	}

	assignments := make([]Assignment, 0, len(stereotypeIDs))
	for _, stereotypeID := range stereotypeIDs {
		a := Assignment{
			ID:           uuid.New().String(),
			GameID:       gameID,
			PlayerID:     playerID,
			StereotypeID: stereotypeID,
		}
		_, err = tx.Exec(
			"INSERT INTO game_stereotypes (id, game_id, player_id, stereotype_id) VALUES (?, ?, ?, ?)",
			a.ID, a.GameID, a.PlayerID, a.StereotypeID,
		)
		if err != nil {
			return nil, &tracker.PersistenceError{Op: "assign stereotypes", Err: err}
		}
		assignments = append(assignments, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, &tracker.PersistenceError{Op: "assign stereotypes", Err: err}
	}
	log.Info("Assigned stereotypes", "gameID", gameID, "playerID", playerID, "count", len(assignments))
	return assignments, nil
}

// Leaderboard returns every (player, stereotype) pair with how often it was
// assigned, highest count first. Ties order by player then stereotype name so
// the board is stable.
func (s *store) Leaderboard() ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.display_name, st.name, COUNT(*) AS assignments
		FROM game_stereotypes gs
		JOIN players p ON gs.player_id = p.id
		JOIN stereotypes st ON gs.stereotype_id = st.id
		GROUP BY gs.player_id, gs.stereotype_id
		ORDER BY assignments DESC, p.display_name, st.name
	`)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "stereotype leaderboard", Err: err}
	}
	defer rows.Close()

	var board []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.StereotypeName, &e.Count); err != nil {
			return nil, &tracker.PersistenceError{Op: "stereotype leaderboard", Err: err}
		}
		board = append(board, e)
	}
	return board, rows.Err()
}

// ForPlayer returns one player's received stereotypes with counts, or
// (nil, nil) when the player is unknown.
func (s *store) ForPlayer(externalID string) ([]PlayerCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var playerID string
	err := s.db.QueryRow("SELECT id FROM players WHERE external_id = ?", externalID).Scan(&playerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "player stereotypes", Err: err}
	}

	rows, err := s.db.Query(`
		SELECT st.name, COUNT(*) AS assignments
		FROM game_stereotypes gs
		JOIN stereotypes st ON gs.stereotype_id = st.id
		WHERE gs.player_id = ?
		GROUP BY gs.stereotype_id
		ORDER BY assignments DESC, st.name
	`, playerID)
	if err != nil {
		return nil, &tracker.PersistenceError{Op: "player stereotypes", Err: err}
	}
	defer rows.Close()

	counts := []PlayerCount{}
	for rows.Next() {
		var pc PlayerCount
		if err := rows.Scan(&pc.StereotypeName, &pc.Count); err != nil {
			return nil, &tracker.PersistenceError{Op: "player stereotypes", Err: err}
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}
