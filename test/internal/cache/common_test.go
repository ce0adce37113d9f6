package cache_test

import (
	"log"
	"os"
	"seat-reservation/test/internal/testutil"
	"testing"

	"github.com/redis/go-redis/v9"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedisOnly()
	if err != nil {
		log.Fatalf("Failed to setup redis: %v", err)
	}
	testRdb = rdb

	log.Println("Running cache tests...")

	code := m.Run()

	cleanup()
	os.Exit(code)
}
