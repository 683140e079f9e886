package iot

import (
	"context"

	"go.uber.org/zap"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	"liyu1981.xyz/container-monitor-service/pkg/stats"
)

// deviceDwell answers with every known device, including ones that never
// closed an alert.
func (i *IOT) deviceDwell(ctx context.Context) (map[uint]stats.DwellSummary, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTStats),
	)

	conn := i.Db.Conn.WithContext(ctx)

	var deviceIDs []uint
	if err := conn.Model(&models.Device{}).Order("id asc").Pluck("id", &deviceIDs).Error; err != nil {
		return nil, err
	}

	var closed []models.Alert
	err := conn.
		Where("active = ? AND deactivated_at IS NOT NULL", false).
		Find(&closed).Error
	if err != nil {
		return nil, err
	}

	clock := i.clock()
	summaries := stats.ByDevice(deviceIDs, closed, clock.Now(), clock.Location())

	logger.Debug("Computed dwell means", zap.Int("devices", len(deviceIDs)), zap.Int("closed_alerts", len(closed)))
	return summaries, nil
}

type IStatsImpl struct {
	iot *IOT
}

func (is *IStatsImpl) DeviceDwell(ctx context.Context) (map[uint]stats.DwellSummary, error) {
	return is.iot.deviceDwell(ctx)
}

func (i *IOT) GetIStats() IStats {
	return &IStatsImpl{iot: i}
}
