package export

import (
	"fmt"
	"time"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	"liyu1981.xyz/container-monitor-service/pkg/stats"
)

const GeneralTitle = "General"

// Source is everything Build needs: the filter result (newest first, alerts
// loaded) plus, for all-devices exports, every known device.
type Source struct {
	Mode       filter.Mode
	Scope      filter.Scope
	DeviceName string
	Reports    []models.Report
	Devices    []models.Device
	Now        time.Time
	Loc        *time.Location
}

func Title(mode filter.Mode, scope filter.Scope, deviceName string) string {
	kind := "Reports"
	if mode == filter.ModeAlert {
		kind = "Alerts"
	}
	name := deviceName
	if scope.All {
		name = GeneralTitle
	}
	return fmt.Sprintf("Report-%s-%s", kind, name)
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

func alertLine(a models.Alert, loc *time.Location) AlertLine {
	deactivated := NotAvailable
	if a.DeactivatedAt != nil {
		deactivated = formatTime(*a.DeactivatedAt, loc)
	}
	return AlertLine{
		Status:        a.StatusLabel(),
		Active:        a.Active,
		Message:       a.Message,
		ActivatedAt:   formatTime(a.ActivatedAt, loc),
		DeactivatedAt: deactivated,
	}
}

type builder struct {
	src       Source
	index     int
	realCount int
	acc       stats.Accumulator
}

func (b *builder) reportRow(r models.Report, deviceName string) RealReport {
	b.index++
	b.realCount++
	b.acc.Add(r.Level, r.Door, r.Alerts)

	lines := make([]AlertLine, 0, len(r.Alerts))
	for _, a := range r.Alerts {
		lines = append(lines, alertLine(a, b.src.Loc))
	}

	return RealReport{
		Index:      b.index,
		ReportID:   r.ID,
		DeviceID:   r.DeviceID,
		DeviceName: deviceName,
		Level:      r.Level,
		DoorOpen:   r.Door,
		DoorLabel:  r.DoorLabel(),
		Timestamp:  formatTime(r.Timestamp, b.src.Loc),
		Alerts:     lines,
	}
}

func (b *builder) placeholder(d models.Device) PlaceholderRow {
	b.index++
	return PlaceholderRow{Index: b.index, DeviceID: d.ID, DeviceName: d.Name}
}

// Build lays out the document. In an all-devices export every device in
// src.Devices gets a group, with a single PlaceholderRow when it has no
// matching report.
func Build(src Source) *Document {
	if src.Loc == nil {
		src.Loc = time.Local
	}
	b := &builder{src: src}

	var groups []Group
	if src.Scope.All {
		byDevice := make(map[uint][]models.Report, len(src.Devices))
		for _, r := range src.Reports {
			byDevice[r.DeviceID] = append(byDevice[r.DeviceID], r)
		}

		for _, d := range src.Devices {
			g := Group{DeviceID: d.ID, DeviceName: d.Name}
			reports := byDevice[d.ID]
			if len(reports) == 0 {
				g.Rows = []Row{b.placeholder(d)}
			}
			for _, r := range reports {
				g.Rows = append(g.Rows, b.reportRow(r, d.Name))
			}
			groups = append(groups, g)
		}
	} else if len(src.Reports) > 0 {
		g := Group{DeviceID: src.Scope.DeviceID, DeviceName: src.DeviceName}
		for _, r := range src.Reports {
			g.Rows = append(g.Rows, b.reportRow(r, src.DeviceName))
		}
		groups = append(groups, g)
	}

	if groups == nil {
		groups = []Group{}
	}

	return &Document{
		Title:          Title(src.Mode, src.Scope, src.DeviceName),
		Mode:           src.Mode,
		GeneratedAt:    src.Now.In(src.Loc),
		TotalResults:   b.realCount,
		Groups:         groups,
		Totals:         b.acc.Totals(src.Mode == filter.ModeReport),
		NoActiveAlerts: src.Mode == filter.ModeAlert && b.acc.ActiveAlerts() == 0,
	}
}
