package db

import (
	"fmt"
	"log"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	constant "liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// partial unique index backing the one-active-alert-per-device rule
const activeAlertIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_alerts_active_device ON alerts (device_id) WHERE active`

func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		db, err := Open(dialector)
		if err != nil {
			log.Fatal("Failed to open database: ", err)
		}
		instance = db
	})
	return instance
}

// Open connects and migrates without touching the process-wide instance.
func Open(dialector gorm.Dialector) (*DB, error) {
	var logger = constant.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if dialector.Name() == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		// one writer at a time, and PRAGMAs stick to the single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign key support: %w", err)
		}

		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("set sqlite journal mode: %w", err)
		}
	}

	err = conn.AutoMigrate(&models.Device{}, &models.Report{}, &models.Alert{}, &models.BackupBatch{})
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := conn.Exec(activeAlertIndexSQL).Error; err != nil {
		return nil, fmt.Errorf("create active alert index: %w", err)
	}

	logger.Info("Database migration completed")

	return &DB{Conn: conn}, nil
}

func (d *DB) IsPostgres() bool {
	return d.Conn.Dialector.Name() == "postgres"
}

func UseSqliteFileDialector(path string) gorm.Dialector {
	return sqlite.Open(path)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseNamedMemorySqliteDialector gives every distinct name its own private
// in-memory database.
func UseNamedMemorySqliteDialector(name string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}
