package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jkoenig-dev/commander-tracker/internal/database"
	"github.com/jkoenig-dev/commander-tracker/internal/stereotypes"
	"github.com/jkoenig-dev/commander-tracker/internal/tracker"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "commander_tracker.db",
		"MIGRATIONS_DIR":    "./migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

type seedPlayer struct {
	externalID string
	name       string
	commanders []string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	store := tracker.New(db)
	ledger := stereotypes.New(db)
	if err := ledger.Seed(); err != nil {
		log.Fatalf("Failed to seed stereotypes: %s", err)
	}

	seedPlayers := []seedPlayer{
		{"seed-1", "Seeder Player A", []string{"Atraxa, Praetors' Voice", "Korvold, Fae-Cursed King"}},
		{"seed-2", "Seeder Player B", []string{"Urza, Lord High Artificer"}},
		{"seed-3", "Seeder Player C", []string{"Yuriko, the Tiger's Shadow", "Muldrotha, the Gravetide"}},
		{"seed-4", "Seeder Player D", []string{"Niv-Mizzet, Parun"}},
	}

	// Resolve every (player, deck) pair up front so game seeding is pure SQL.
	type seat struct {
		playerID string
		deckIDs  []string
	}
	seats := make([]seat, 0, len(seedPlayers))
	for _, sp := range seedPlayers {
		player, err := store.GetOrCreatePlayer(sp.externalID, sp.name)
		if err != nil {
			log.Fatalf("Failed to create seed player %s: %s", sp.name, err)
		}
		st := seat{playerID: player.ID}
		for _, commander := range sp.commanders {
			deck, err := store.GetOrCreateDeck(player.ID, commander)
			if err != nil {
				log.Fatalf("Failed to create seed deck %s: %s", commander, err)
			}
			st.deckIDs = append(st.deckIDs, deck.ID)
		}
		seats = append(seats, st)
	}
	log.Info("Ensured seed players and decks exist.")

	const batchSize = 100
	const numGames = 1000

	winConditions := []string{"Combat damage", "Commander damage", "Thoracle combo", "Mill", "Infinite squirrels"}

	log.Info("Preparing to insert seed games...", "total", numGames, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	gameValues := make([]string, 0, batchSize)
	gameArgs := make([]interface{}, 0, batchSize*5)
	placementValues := make([]string, 0, batchSize*4)
	placementArgs := make([]interface{}, 0, batchSize*4*5)

	for i := 0; i < numGames; i++ {
		playedAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		gameID := uuid.NewString()

		gameValues = append(gameValues, "(?, ?, ?, ?, ?)")
		gameArgs = append(gameArgs,
			gameID,
			"multiplayer",
			playedAt.Unix(),
			30+rand.Intn(150),
			winConditions[rand.Intn(len(winConditions))],
		)

		order := rand.Perm(len(seats))
		for place, idx := range order {
			st := seats[idx]
			placementValues = append(placementValues, "(?, ?, ?, ?, ?)")
			placementArgs = append(placementArgs,
				uuid.NewString(),
				gameID,
				st.playerID,
				st.deckIDs[rand.Intn(len(st.deckIDs))],
				place+1,
			)
		}

		if (i+1)%batchSize == 0 || (i+1) == numGames {
			gameStmt := fmt.Sprintf(`
				INSERT INTO games (id, game_type, played_at, duration_minutes, win_condition)
				VALUES %s;`, strings.Join(gameValues, ","))
			if _, err := tx.Exec(gameStmt, gameArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute game batch insert: %s", err)
			}

			placementStmt := fmt.Sprintf(`
				INSERT INTO game_placements (id, game_id, player_id, deck_id, placement)
				VALUES %s;`, strings.Join(placementValues, ","))
			if _, err := tx.Exec(placementStmt, placementArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute placement batch insert: %s", err)
			}

			// Reset for the next batch
			gameValues = make([]string, 0, batchSize)
			gameArgs = make([]interface{}, 0, batchSize*5)
			placementValues = make([]string, 0, batchSize*4)
			placementArgs = make([]interface{}, 0, batchSize*4*5)
			log.Info("Inserted batch", "completed", i+1, "total", numGames)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed transaction: %s", err)
	}

	log.Info("Seeding complete.", "games", numGames, "duration", time.Since(startTime))
}
