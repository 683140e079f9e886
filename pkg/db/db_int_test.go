package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/config"
)

func TestSqliteFileDatabase(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(common.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	// t.TempDir also removes the -wal and -shm side files
	testPath := filepath.Join(t.TempDir(), "containers.db")
	t.Setenv(common.EnvKeyIOTDBType, "file")
	t.Setenv(common.EnvKeyIOTDbPath, testPath)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, testPath, cfg.DBPath)

	instance, err := Open(UseSqliteFileDialector(cfg.DBPath))
	require.NoError(t, err)
	require.NotNil(t, instance.Conn)
	assert.False(t, instance.IsPostgres())

	_, err = os.Stat(testPath)
	assert.NoError(t, err, "expected database file at %s", testPath)

	var mode string
	require.NoError(t, instance.Conn.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	var indexes int64
	require.NoError(t, instance.Conn.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'uniq_alerts_active_device'`,
	).Scan(&indexes).Error)
	assert.Equal(t, int64(1), indexes)

	// reopening an existing file must not fail the migration
	again, err := Open(UseSqliteFileDialector(testPath))
	require.NoError(t, err)
	assert.NotNil(t, again.Conn)
}
