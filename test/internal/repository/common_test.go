package repository

import (
	"context"
	"log"
	"os"
	"seat-reservation/config"
	"seat-reservation/internal/database"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	var err error
	testDB, err = database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize test database: %v", err)
	}

	ctx := context.Background()
	if err := testDB.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping test database: %v", err)
	}

	if err := database.InitSchema(ctx, testDB); err != nil {
		log.Fatalf("Failed to initialize test schema: %v", err)
	}

	log.Println("Test database connected successfully")
	log.Println("Running repository tests...")

	code := m.Run()

	testDB.Close()
	log.Println("Test database closed")

	os.Exit(code)
}

// setupTestWithTruncate 清空資料並重新播種 80 席
func setupTestWithTruncate(t *testing.T) func() {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx, "TRUNCATE seats, users, booking_events RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	if err := database.InitSchema(ctx, testDB); err != nil {
		t.Fatalf("Failed to reseed seats: %v", err)
	}

	return func() {}
}

func getTestDB() *pgxpool.Pool {
	if testDB == nil {
		panic("testDB is not initialized. Make sure TestMain has run.")
	}
	return testDB
}

func createTestUser(t *testing.T, email string) int {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int
	err := testDB.QueryRow(ctx, query, email, "x").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

func bookTestSeats(t *testing.T, userID int, seatIDs []int) {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx,
		"UPDATE seats SET is_booked = TRUE, booked_by = $1, booking_time = NOW() WHERE id = ANY($2)",
		userID, seatIDs,
	)
	if err != nil {
		t.Fatalf("Failed to book test seats: %v", err)
	}
}
