package iot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

const maxIngestAttempts = 3

// IngestRequest is the body every transport accepts for one sample. All
// three fields are required; pointers tell a missing field from a zero one.
type IngestRequest struct {
	DeviceID *uint `json:"device_id" binding:"required"`
	Level    *int  `json:"level" binding:"required"`
	Door     *bool `json:"door" binding:"required"`
}

func (r *IngestRequest) GetDeviceId() uint {
	if r == nil || r.DeviceID == nil {
		return 0
	}
	return *r.DeviceID
}

// Validate checks an already decoded request.
func (r *IngestRequest) Validate() error {
	if err := binding.Validator.ValidateStruct(r); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return nil
}

func DecodeIngestRequest(body []byte) (*IngestRequest, error) {
	var req IngestRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return &req, nil
}

type IngestResponse struct {
	Status   string `json:"status"`
	ReportID uint   `json:"report_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

func IngestOK(reportID uint) IngestResponse {
	return IngestResponse{Status: "ok", ReportID: reportID}
}

func IngestFailed(err error) IngestResponse {
	return IngestResponse{Status: "error", Message: err.Error()}
}

// retryable errors come from two writers racing on the same device, either
// through the active alert index or a busy database.
func retryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"database is locked", "database table is locked", "deadlock detected", "could not serialize access"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (i *IOT) ingest(ctx context.Context, deviceID uint, level int, door bool) (uint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTIngest),
	)

	logger.Info("Received report for device",
		zap.Uint("device_id", deviceID), zap.Int("level", level), zap.Bool("door", door))

	unlock := i.locks.Lock(deviceID)
	defer unlock()

	var err error
	for attempt := 1; attempt <= maxIngestAttempts; attempt++ {
		var report *models.Report
		report, err = i.ingestOnce(ctx, deviceID, level, door)
		if err == nil {
			logger.Info("Stored report for device", zap.Reflect("report", report))
			return report.ID, nil
		}
		if !retryable(err) {
			logger.Warn("Rejected report for device", zap.Uint("device_id", deviceID), zap.Error(err))
			return 0, err
		}
		logger.Warn("Report conflicted, retrying",
			zap.Uint("device_id", deviceID), zap.Int("attempt", attempt), zap.Error(err))
	}

	logger.Error("Giving up on report", zap.Uint("device_id", deviceID), zap.Error(err))
	return 0, fmt.Errorf("%w: device %d: %v", common.ErrTransient, deviceID, err)
}

func (i *IOT) ingestOnce(ctx context.Context, deviceID uint, level int, door bool) (*models.Report, error) {
	var report models.Report

	err := i.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx
		if i.Db.IsPostgres() {
			lookup = lookup.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var device models.Device
		if err := lookup.First(&device, deviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", common.ErrUnknownDevice, deviceID)
			}
			return err
		}

		now := i.clock().Now().UTC()
		report = models.Report{DeviceID: deviceID, Level: level, Door: door, Timestamp: now}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}

		return i.deriveAlert(tx, &report, now)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

type IIngestImpl struct {
	iot *IOT
}

func (ii *IIngestImpl) Ingest(ctx context.Context, deviceID uint, level int, door bool) (uint, error) {
	return ii.iot.ingest(ctx, deviceID, level, door)
}

func (i *IOT) GetIIngest() IIngest {
	return &IIngestImpl{iot: i}
}
