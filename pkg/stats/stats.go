// Package stats summarizes reports and alerts. A mean over nothing is nil,
// never zero.
package stats

import (
	"time"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

// DwellSummary is the mean time, in minutes, closed alerts stayed active.
type DwellSummary struct {
	Lifetime *float64 `json:"lifetime"`
	Today    *float64 `json:"today"`
}

// DwellMinutes is deactivation minus activation in fractional minutes. ok is
// false for alerts that are not closed.
func DwellMinutes(a models.Alert) (minutes float64, ok bool) {
	if !a.Closed() {
		return 0, false
	}
	return a.DeactivatedAt.Sub(a.ActivatedAt).Minutes(), true
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m *mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	v := m.sum / float64(m.count)
	return &v
}

func rounded(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return common.Ptr(common.Round2(*v))
}

// MeanDwell averages the dwell time of the closed alerts among alerts.
func MeanDwell(alerts []models.Alert) *float64 {
	var m mean
	for _, a := range alerts {
		if minutes, ok := DwellMinutes(a); ok {
			m.add(minutes)
		}
	}
	return m.value()
}

// MeanDwellOn is MeanDwell restricted to alerts activated on day's calendar
// date in loc.
func MeanDwellOn(alerts []models.Alert, day time.Time, loc *time.Location) *float64 {
	return MeanDwell(common.Filter(alerts, func(a models.Alert) bool {
		return common.SameDate(a.ActivatedAt, day, loc)
	}))
}

// Summarize computes the rounded lifetime and today means; "today" is the
// calendar date of now in loc.
func Summarize(alerts []models.Alert, now time.Time, loc *time.Location) DwellSummary {
	return DwellSummary{
		Lifetime: rounded(MeanDwell(alerts)),
		Today:    rounded(MeanDwellOn(alerts, now, loc)),
	}
}

// ByDevice summarizes alerts per device. Every id in deviceIDs gets an
// entry, even without alerts.
func ByDevice(deviceIDs []uint, alerts []models.Alert, now time.Time, loc *time.Location) map[uint]DwellSummary {
	grouped := make(map[uint][]models.Alert, len(deviceIDs))
	for _, id := range deviceIDs {
		grouped[id] = nil
	}
	for _, a := range alerts {
		grouped[a.DeviceID] = append(grouped[a.DeviceID], a)
	}

	summaries := make(map[uint]DwellSummary, len(grouped))
	for id, deviceAlerts := range grouped {
		summaries[id] = Summarize(deviceAlerts, now, loc)
	}
	return summaries
}

// Totals is the closing block of an exported document.
type Totals struct {
	MeanLevel        *float64 `json:"mean_level"`
	DoorOpenCount    int      `json:"door_open_count"`
	MeanAlertMinutes *float64 `json:"mean_alert_minutes"`
	// only set for report-mode documents
	TotalAlerts *int `json:"total_alerts,omitempty"`
}

// Accumulator builds Totals in a single pass over the rendered reports.
type Accumulator struct {
	level       mean
	doorOpen    int
	dwell       mean
	alertCount  int
	activeCount int
}

func (acc *Accumulator) Add(level int, doorOpen bool, alerts []models.Alert) {
	acc.level.add(float64(level))
	if doorOpen {
		acc.doorOpen++
	}
	for _, a := range alerts {
		acc.alertCount++
		if a.Active {
			acc.activeCount++
		}
		if minutes, ok := DwellMinutes(a); ok {
			acc.dwell.add(minutes)
		}
	}
}

func (acc *Accumulator) ActiveAlerts() int {
	return acc.activeCount
}

func (acc *Accumulator) Totals(withAlertCount bool) Totals {
	totals := Totals{
		MeanLevel:        rounded(acc.level.value()),
		DoorOpenCount:    acc.doorOpen,
		MeanAlertMinutes: rounded(acc.dwell.value()),
	}
	if withAlertCount {
		totals.TotalAlerts = common.Ptr(acc.alertCount)
	}
	return totals
}
