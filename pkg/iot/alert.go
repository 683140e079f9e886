package iot

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

// AlertThreshold is the fill level, in percent, at which a container needs
// emptying.
const AlertThreshold = 75

func AlertMessage(level int) string {
	return fmt.Sprintf("VACIAR CONTENEDOR - Nivel medido: %d%%", level)
}

func activeAlert(tx *gorm.DB, deviceID uint) (*models.Alert, error) {
	var alert models.Alert
	err := tx.
		Where("device_id = ? AND active = ?", deviceID, true).
		Order("activated_at desc").
		Order("id desc").
		Take(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// deriveAlert opens an alert on report when it crosses the threshold and
// none is active, and closes the active one when the level drops below it.
func (i *IOT) deriveAlert(tx *gorm.DB, report *models.Report, now time.Time) error {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTAlert),
	)

	active, err := activeAlert(tx, report.DeviceID)
	if err != nil {
		return err
	}

	switch {
	case report.Level >= AlertThreshold && active == nil:
		alert := models.Alert{
			ReportID:    report.ID,
			DeviceID:    report.DeviceID,
			Message:     AlertMessage(report.Level),
			Active:      true,
			ActivatedAt: now,
		}

		logger.Info("Alert found", zap.Reflect("alert", alert))

		if err := tx.Create(&alert).Error; err != nil {
			return err
		}
		report.Alerts = append(report.Alerts, alert)

		logger.Info("Alert saved", zap.Reflect("alert", alert))

	case report.Level < AlertThreshold && active != nil:
		err := tx.Model(active).Updates(map[string]any{
			"active":         false,
			"deactivated_at": now,
		}).Error
		if err != nil {
			return err
		}

		logger.Info("Alert cleared",
			zap.Uint("alert_id", active.ID),
			zap.Uint("device_id", active.DeviceID),
			zap.Duration("dwell", now.Sub(active.ActivatedAt)))
	}

	return nil
}
