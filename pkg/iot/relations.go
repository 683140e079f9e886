package iot

import (
	"slices"

	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/models"
)

// deleteChunkSize keeps id lists well under SQLite's bound variable limit.
const deleteChunkSize = 500

// loadReports runs scope for the rows and again, as a subquery, to fetch
// their devices and alerts. Preload would bind every report id as a
// parameter, which SQLite refuses past a few tens of thousands.
func loadReports(conn *gorm.DB, scope func(*gorm.DB) *gorm.DB, order ...string) ([]models.Report, error) {
	var reports []models.Report
	tx := scope(conn.Model(&models.Report{}))
	for _, o := range order {
		tx = tx.Order(o)
	}
	if err := tx.Find(&reports).Error; err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return reports, nil
	}

	ids := func() *gorm.DB { return scope(conn.Model(&models.Report{})).Select("reports.id") }
	deviceIDs := func() *gorm.DB { return scope(conn.Model(&models.Report{})).Select("reports.device_id") }

	var alerts []models.Alert
	err := conn.
		Where("report_id IN (?)", ids()).
		Order("activated_at asc").Order("id asc").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	var devices []models.Device
	if err := conn.Where("id IN (?)", deviceIDs()).Find(&devices).Error; err != nil {
		return nil, err
	}

	alertsByReport := make(map[uint][]models.Alert, len(alerts))
	for _, a := range alerts {
		alertsByReport[a.ReportID] = append(alertsByReport[a.ReportID], a)
	}
	devicesByID := make(map[uint]*models.Device, len(devices))
	for k := range devices {
		devicesByID[devices[k].ID] = &devices[k]
	}

	for k := range reports {
		r := &reports[k]
		r.Device = devicesByID[r.DeviceID]
		r.Alerts = alertsByReport[r.ID]
		if r.Alerts == nil {
			r.Alerts = []models.Alert{}
		}
	}
	return reports, nil
}

// deleteReports removes reports and their alerts in chunks.
func deleteReports(tx *gorm.DB, ids []uint) error {
	for chunk := range slices.Chunk(ids, deleteChunkSize) {
		if err := tx.Where("report_id IN ?", chunk).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", chunk).Delete(&models.Report{}).Error; err != nil {
			return err
		}
	}
	return nil
}
