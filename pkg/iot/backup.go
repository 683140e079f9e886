package iot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

// BackupWindow is how far past the oldest report one backup reaches.
const BackupWindow = 60 * 24 * time.Hour

const backupTimestampLayout = "2006-01-02T15:04:05"

var errNoArchive = errors.New("backup archive not configured")

// BackupKey names the archive object of one batch. The batch id suffix
// keeps two backups taken in the same second apart.
func BackupKey(at time.Time, batchID string) string {
	return fmt.Sprintf("backup_%s_%s.json", at.Format("20060102_150405"), batchID)
}

type backupAlert struct {
	Message       string  `json:"message"`
	Active        bool    `json:"active"`
	ActivatedAt   string  `json:"activated_at"`
	DeactivatedAt *string `json:"deactivated_at"`
}

type backupRecord struct {
	ReportID  uint          `json:"report_id"`
	Device    string        `json:"device"`
	Level     int           `json:"level"`
	Door      string        `json:"door"`
	Timestamp string        `json:"timestamp"`
	Alerts    []backupAlert `json:"alerts"`
}

func toBackupRecord(r models.Report, loc *time.Location) backupRecord {
	rec := backupRecord{
		ReportID:  r.ID,
		Level:     r.Level,
		Door:      r.DoorLabel(),
		Timestamp: r.Timestamp.In(loc).Format(backupTimestampLayout),
		Alerts:    make([]backupAlert, 0, len(r.Alerts)),
	}
	if r.Device != nil {
		rec.Device = r.Device.Name
	}
	for _, a := range r.Alerts {
		ba := backupAlert{
			Message:     a.Message,
			Active:      a.Active,
			ActivatedAt: a.ActivatedAt.In(loc).Format(backupTimestampLayout),
		}
		if a.DeactivatedAt != nil {
			ba.DeactivatedAt = common.Ptr(a.DeactivatedAt.In(loc).Format(backupTimestampLayout))
		}
		rec.Alerts = append(rec.Alerts, ba)
	}
	return rec
}

func backupLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTBackup),
	)
}

// createBackup archives the reports in [oldest, oldest+BackupWindow] and
// records them as one batch so they can be purged later.
func (i *IOT) createBackup(ctx context.Context) (*models.BackupBatch, error) {
	if i.Archive == nil {
		return nil, errNoArchive
	}

	conn := i.Db.Conn.WithContext(ctx)

	var oldest models.Report
	if err := conn.Order("timestamp asc").Order("id asc").Take(&oldest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNothingToBackup
		}
		return nil, err
	}

	from, to := oldest.Timestamp.UTC(), oldest.Timestamp.Add(BackupWindow).UTC()
	reports, err := loadReports(conn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("reports.timestamp >= ? AND reports.timestamp <= ?", from, to)
	}, "timestamp asc", "id asc")
	if err != nil {
		return nil, err
	}

	clock := i.clock()
	loc := clock.Location()
	now := clock.Now()

	records := common.Mapper(reports, func(r models.Report) backupRecord { return toBackupRecord(r, loc) })
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	key := BackupKey(now, batchID)
	if err := i.Archive.Put(ctx, key, body); err != nil {
		return nil, fmt.Errorf("archive %s: %w", key, err)
	}

	batch := models.BackupBatch{
		ID:        batchID,
		Key:       key,
		ReportIDs: datatypes.JSONSlice[uint](common.Mapper(reports, func(r models.Report) uint { return r.ID })),
		CreatedAt: now.UTC(),
	}
	if err := conn.Create(&batch).Error; err != nil {
		if delErr := i.Archive.Delete(ctx, key); delErr != nil {
			backupLogger().Warn("Failed to remove orphan archive", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	backupLogger().Info("Created backup",
		zap.String("batch_id", batch.ID), zap.String("key", key), zap.Int("reports", len(reports)))
	return &batch, nil
}

// purgeBackup deletes the batch's reports (and their alerts), its archive
// object and the batch row.
func (i *IOT) purgeBackup(ctx context.Context, batchID string) error {
	conn := i.Db.Conn.WithContext(ctx)

	var batch models.BackupBatch
	if err := conn.First(&batch, "id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", common.ErrUnknownBackup, batchID)
		}
		return err
	}

	ids := []uint(batch.ReportIDs)
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := deleteReports(tx, ids); err != nil {
			return err
		}
		return tx.Delete(&batch).Error
	})
	if err != nil {
		return err
	}

	if i.Archive != nil {
		if err := i.Archive.Delete(ctx, batch.Key); err != nil {
			return fmt.Errorf("delete archive %s: %w", batch.Key, err)
		}
	}

	backupLogger().Info("Purged backup",
		zap.String("batch_id", batch.ID), zap.String("key", batch.Key), zap.Int("reports", len(ids)))
	return nil
}

type IBackupImpl struct {
	iot *IOT
}

func (ib *IBackupImpl) CreateBackup(ctx context.Context) (*models.BackupBatch, error) {
	return ib.iot.createBackup(ctx)
}

func (ib *IBackupImpl) PurgeBackup(ctx context.Context, batchID string) error {
	return ib.iot.purgeBackup(ctx, batchID)
}

func (i *IOT) GetIBackup() IBackup {
	return &IBackupImpl{iot: i}
}
