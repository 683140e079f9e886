package test

import (
	"os"
	"testing"

	constant "liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/db"
)

// Runs against a real PostgreSQL, e.g.
//
//	RUN_INTEGRATION_TESTS=true IOT_DB_DSN="host=localhost user=postgres dbname=containers sslmode=disable" go test ./pkg/db/...
func TestWithPostgres(t *testing.T) {
	constant.SetTestLoggerNop()

	if os.Getenv(constant.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	dsn := os.Getenv(constant.EnvKeyIOTDbDSN)
	if dsn == "" {
		t.Skip("Skipping postgres integration test: IOT_DB_DSN not set")
	}

	instance, err := db.Open(db.UsePostgresDialector(dsn))
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}

	if !instance.IsPostgres() {
		t.Error("Expected postgres dialector")
	}

	var count int64
	err = instance.Conn.Raw(
		`SELECT count(*) FROM pg_indexes WHERE indexname = 'uniq_alerts_active_device'`,
	).Scan(&count).Error
	if err != nil || count != 1 {
		t.Errorf("Expected active alert partial index to exist, count=%d err=%v", count, err)
	}
}
