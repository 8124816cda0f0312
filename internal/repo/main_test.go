package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/rv-planner/testutil"
)

// TestMain migrates the Postgres test database once before the package
// runs. Without TEST_DATABASE_URL the integration tests skip themselves.
func TestMain(m *testing.M) {
	if dsn := os.Getenv(testutil.DSNEnv); dsn != "" {
		if err := testutil.Migrate(context.Background(), dsn); err != nil {
			log.Fatalf("TestMain: %v", err)
		}
	}
	os.Exit(m.Run())
}
