package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

var (
	now     = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	devices = []models.Device{
		{ID: 1, Name: "north"},
		{ID: 2, Name: "south"},
		{ID: 3, Name: "east"},
	}
)

func southReports() []models.Report {
	deactivated := now.Add(-50 * time.Minute)
	return []models.Report{
		{
			ID: 2, DeviceID: 2, Level: 40, Door: false, Timestamp: now.Add(-30 * time.Minute),
		},
		{
			ID: 1, DeviceID: 2, Level: 80, Door: true, Timestamp: now.Add(-time.Hour),
			Alerts: []models.Alert{{
				ID: 1, ReportID: 1, DeviceID: 2, Message: "VACIAR CONTENEDOR - Nivel medido: 80%",
				ActivatedAt: now.Add(-time.Hour), DeactivatedAt: &deactivated,
			}},
		},
	}
}

func TestBuildAllScopeFillsPlaceholders(t *testing.T) {
	doc := Build(Source{
		Mode:    filter.ModeReport,
		Scope:   filter.AllDevices(),
		Reports: southReports(),
		Devices: devices,
		Now:     now,
		Loc:     time.UTC,
	})

	assert.Equal(t, "Report-Reports-General", doc.Title)
	require.Len(t, doc.Groups, 3)
	assert.Equal(t, 2, doc.TotalResults)

	north, south, east := doc.Groups[0], doc.Groups[1], doc.Groups[2]
	require.Len(t, north.Rows, 1)
	require.Len(t, east.Rows, 1)
	require.Len(t, south.Rows, 2)

	assert.Equal(t, RowKindPlaceholder, north.Rows[0].Kind())
	assert.Equal(t, RowKindPlaceholder, east.Rows[0].Kind())
	assert.Equal(t, RowKindReport, south.Rows[0].Kind())

	p := north.Rows[0].(PlaceholderRow)
	assert.Equal(t, 0, p.Level())
	assert.Equal(t, models.DoorLabelClosed, p.DoorLabel())
	assert.Equal(t, NotAvailable, p.Timestamp())

	// numbering runs across groups
	positions := []int{}
	for _, r := range doc.Rows() {
		positions = append(positions, r.Position())
	}
	assert.Equal(t, []int{1, 2, 3, 4}, positions)
}

func TestBuildTotalsSkipPlaceholders(t *testing.T) {
	doc := Build(Source{
		Mode:    filter.ModeReport,
		Scope:   filter.AllDevices(),
		Reports: southReports(),
		Devices: devices,
		Now:     now,
		Loc:     time.UTC,
	})

	require.NotNil(t, doc.Totals.MeanLevel)
	assert.Equal(t, 60.0, *doc.Totals.MeanLevel)
	assert.Equal(t, 1, doc.Totals.DoorOpenCount)
	require.NotNil(t, doc.Totals.MeanAlertMinutes)
	assert.Equal(t, 10.0, *doc.Totals.MeanAlertMinutes)
	require.NotNil(t, doc.Totals.TotalAlerts)
	assert.Equal(t, 1, *doc.Totals.TotalAlerts)
	assert.False(t, doc.NoActiveAlerts)
}

func TestBuildSingleDevice(t *testing.T) {
	doc := Build(Source{
		Mode:       filter.ModeReport,
		Scope:      filter.Device(2),
		DeviceName: "south",
		Reports:    southReports(),
		Now:        now,
		Loc:        time.UTC,
	})

	assert.Equal(t, "Report-Reports-south", doc.Title)
	require.Len(t, doc.Groups, 1)
	assert.Len(t, doc.Groups[0].Rows, 2)

	row := doc.Groups[0].Rows[1].(RealReport)
	assert.Equal(t, models.DoorLabelOpen, row.DoorLabel)
	assert.Equal(t, "2025-03-10 11:00:00", row.Timestamp)
	require.Len(t, row.Alerts, 1)
	assert.Equal(t, models.AlertLabelInactive, row.Alerts[0].Status)
	assert.Equal(t, "2025-03-10 11:10:00", row.Alerts[0].DeactivatedAt)
}

func TestBuildEmpty(t *testing.T) {
	doc := Build(Source{
		Mode:       filter.ModeReport,
		Scope:      filter.Device(2),
		DeviceName: "south",
		Now:        now,
		Loc:        time.UTC,
	})

	assert.NotNil(t, doc.Groups)
	assert.Empty(t, doc.Rows())
	assert.Equal(t, 0, doc.TotalResults)
	assert.Nil(t, doc.Totals.MeanLevel)
	assert.Nil(t, doc.Totals.MeanAlertMinutes)
}

func TestBuildAlertModeNoActive(t *testing.T) {
	doc := Build(Source{
		Mode:    filter.ModeAlert,
		Scope:   filter.AllDevices(),
		Reports: southReports()[1:],
		Devices: devices[1:2],
		Now:     now,
		Loc:     time.UTC,
	})

	assert.Equal(t, "Report-Alerts-General", doc.Title)
	assert.True(t, doc.NoActiveAlerts)
	assert.Nil(t, doc.Totals.TotalAlerts)

	reports := southReports()[1:]
	reports[0].Alerts[0].Active = true
	reports[0].Alerts[0].DeactivatedAt = nil
	doc = Build(Source{
		Mode:    filter.ModeAlert,
		Scope:   filter.AllDevices(),
		Reports: reports,
		Devices: devices[1:2],
		Now:     now,
		Loc:     time.UTC,
	})
	assert.False(t, doc.NoActiveAlerts)
	assert.Equal(t, NotAvailable, doc.Rows()[0].(RealReport).Alerts[0].DeactivatedAt)
}

func TestDocumentJSON(t *testing.T) {
	doc := Build(Source{
		Mode:    filter.ModeReport,
		Scope:   filter.AllDevices(),
		Reports: southReports(),
		Devices: devices,
		Now:     now,
		Loc:     time.UTC,
	})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded struct {
		Title  string `json:"title"`
		Groups []struct {
			Rows []struct {
				Kind      string `json:"kind"`
				Level     int    `json:"level"`
				DoorLabel string `json:"door_label"`
				Timestamp string `json:"timestamp"`
				Alerts    []any  `json:"alerts"`
			} `json:"rows"`
		} `json:"groups"`
		Totals map[string]any `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Len(t, decoded.Groups, 3)
	placeholder := decoded.Groups[0].Rows[0]
	assert.Equal(t, RowKindPlaceholder, placeholder.Kind)
	assert.Equal(t, "Closed", placeholder.DoorLabel)
	assert.Equal(t, NotAvailable, placeholder.Timestamp)
	assert.NotNil(t, placeholder.Alerts)

	assert.Equal(t, RowKindReport, decoded.Groups[1].Rows[0].Kind)
	assert.Equal(t, 40, decoded.Groups[1].Rows[0].Level)
	assert.Contains(t, decoded.Totals, "total_alerts")
}

func TestDocumentFilename(t *testing.T) {
	doc := &Document{Title: "Report-Alerts-south"}
	assert.Equal(t, "Report-Alerts-south.pdf", doc.Filename("pdf"))
}

func TestRenderPDF(t *testing.T) {
	for _, mode := range []filter.Mode{filter.ModeReport, filter.ModeAlert} {
		doc := Build(Source{
			Mode:    mode,
			Scope:   filter.AllDevices(),
			Reports: southReports(),
			Devices: devices,
			Now:     now,
			Loc:     time.UTC,
		})

		var buf bytes.Buffer
		require.NoError(t, RenderPDF(doc, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	}
}

func TestRenderPDFEmpty(t *testing.T) {
	doc := Build(Source{Mode: filter.ModeReport, Scope: filter.Device(9), DeviceName: "ghost", Now: now})

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, "application/pdf", PDFContentType())
}
