package iot

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

// queryReports pushes scope and the date window down to SQL, then lets the
// filter package apply the time and alert state predicates in memory.
func (i *IOT) queryReports(ctx context.Context, q filter.Query) ([]models.Report, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTReport),
	)

	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	loc := i.clock().Location()

	from, to := q.Window(loc)
	scope := func(tx *gorm.DB) *gorm.DB {
		if !q.Scope.All {
			tx = tx.Where("reports.device_id = ?", q.Scope.DeviceID)
		}
		if from != nil {
			tx = tx.Where("reports.timestamp >= ?", from.UTC())
		}
		if to != nil {
			tx = tx.Where("reports.timestamp < ?", to.UTC())
		}
		if q.Mode == filter.ModeAlert {
			tx = tx.Where("EXISTS (SELECT 1 FROM alerts WHERE alerts.report_id = reports.id)")
		}
		return tx
	}

	reports, err := loadReports(i.Db.Conn.WithContext(ctx), scope, "timestamp desc", "id desc")
	if err != nil {
		return nil, err
	}

	matched := q.Apply(reports, loc)

	logger.Debug("Queried reports",
		zap.String("scope", q.Scope.String()),
		zap.String("mode", string(q.Mode)),
		zap.Int("candidates", len(reports)),
		zap.Int("matched", len(matched)))

	return matched, nil
}

type IReportImpl struct {
	iot *IOT
}

func (ir *IReportImpl) QueryReports(ctx context.Context, q filter.Query) ([]models.Report, error) {
	return ir.iot.queryReports(ctx, q)
}

func (i *IOT) GetIReport() IReport {
	return &IReportImpl{iot: i}
}
