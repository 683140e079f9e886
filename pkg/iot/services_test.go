package iot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/export"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	_ "liyu1981.xyz/container-monitor-service/pkg/testing"
)

var minus5 = time.FixedZone("UTC-5", -5*3600)

func local(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, minus5)
}

type fixture struct {
	iot     *IOT
	clock   *common.FixedClock
	devices []models.Device
	reports map[string]models.Report
}

func seedReport(t *testing.T, i *IOT, deviceID uint, ts time.Time, level int, door bool) models.Report {
	r := models.Report{DeviceID: deviceID, Level: level, Door: door, Timestamp: ts}
	require.NoError(t, i.Db.Conn.Create(&r).Error)
	return r
}

func seedAlert(t *testing.T, i *IOT, r models.Report, activated time.Time, dwell time.Duration) models.Alert {
	a := models.Alert{
		ReportID:    r.ID,
		DeviceID:    r.DeviceID,
		Message:     AlertMessage(r.Level),
		Active:      dwell == 0,
		ActivatedAt: activated,
	}
	if dwell > 0 {
		a.DeactivatedAt = common.Ptr(activated.Add(dwell))
	}
	require.NoError(t, i.Db.Conn.Create(&a).Error)
	return a
}

// newFixture seeds three devices in a UTC-5 deployment:
//
//	r1 north 03-08 10:00 level 50
//	r2 north 03-09 08:00 level 80 door open, alert closed after 30m
//	r3 north 03-09 13:00 level 30
//	r4 south 03-09 23:30 level 90, alert still active
//	r5 south 03-10 01:00 level 20
//
// east has no reports.
func newFixture(t *testing.T) *fixture {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, clock := GetMockIOTWithMemorySqliteDialector(t, UseMocks{})
	t.Cleanup(ctrl.Finish)

	clock.Loc = minus5
	clock.At = local(9, 15, 0)

	f := &fixture{iot: iotObj, clock: clock, reports: map[string]models.Report{}}
	for _, name := range []string{"north", "south", "east"} {
		f.devices = append(f.devices, seedDevice(t, iotObj, name))
	}
	north, south := f.devices[0].ID, f.devices[1].ID

	f.reports["r1"] = seedReport(t, iotObj, north, local(8, 10, 0), 50, false)
	f.reports["r2"] = seedReport(t, iotObj, north, local(9, 8, 0), 80, true)
	seedAlert(t, iotObj, f.reports["r2"], local(9, 8, 0), 30*time.Minute)
	f.reports["r3"] = seedReport(t, iotObj, north, local(9, 13, 0), 30, false)
	f.reports["r4"] = seedReport(t, iotObj, south, local(9, 23, 30), 90, false)
	seedAlert(t, iotObj, f.reports["r4"], local(9, 23, 30), 0)
	f.reports["r5"] = seedReport(t, iotObj, south, local(10, 1, 0), 20, false)

	return f
}

func (f *fixture) ids(reports []models.Report) []string {
	byID := map[uint]string{}
	for name, r := range f.reports {
		byID[r.ID] = name
	}
	names := []string{}
	for _, r := range reports {
		names = append(names, byID[r.ID])
	}
	return names
}

func (f *fixture) query(t *testing.T, raw filter.RawQuery) []string {
	q, err := filter.Parse(raw)
	require.NoError(t, err)
	reports, err := f.iot.Report.QueryReports(context.Background(), q)
	require.NoError(t, err)
	return f.ids(reports)
}

func TestQueryReports(t *testing.T) {
	f := newFixture(t)
	north := f.devices[0].ID

	cases := []struct {
		name string
		raw  filter.RawQuery
		want []string
	}{
		{"everything", filter.RawQuery{}, []string{"r5", "r4", "r3", "r2", "r1"}},
		{"on local date", filter.RawQuery{DateOp: "on", Date: "2025-03-09"}, []string{"r4", "r3", "r2"}},
		{"before date", filter.RawQuery{DateOp: "before", Date: "2025-03-08"}, []string{"r1"}},
		{"after date", filter.RawQuery{DateOp: "after", Date: "2025-03-09"}, []string{"r5"}},
		{"on date after time", filter.RawQuery{DateOp: "on", Date: "2025-03-09", TimeOp: "after", Time1: "12:00"}, []string{"r4", "r3"}},
		{"between is exclusive", filter.RawQuery{DateOp: "on", Date: "2025-03-09", TimeOp: "between", Time1: "08:00", Time2: "13:00"}, []string{}},
		{"between", filter.RawQuery{DateOp: "on", Date: "2025-03-09", TimeOp: "between", Time1: "07:59", Time2: "13:01"}, []string{"r3", "r2"}},
		{"time without on date is ignored", filter.RawQuery{DateOp: "after", Date: "2025-03-08", TimeOp: "before", Time1: "00:01"}, []string{"r5", "r4", "r3", "r2"}},
		{"single device", filter.RawQuery{Device: "1"}, []string{"r3", "r2", "r1"}},
		{"alerts", filter.RawQuery{Mode: "alert"}, []string{"r4", "r2"}},
		{"active alerts", filter.RawQuery{Mode: "alert", AlertState: "active"}, []string{"r4"}},
		{"inactive alerts", filter.RawQuery{Mode: "alert", AlertState: "inactive"}, []string{"r2"}},
		{"unknown device", filter.RawQuery{Device: "99"}, []string{}},
	}

	require.EqualValues(t, 1, north)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, f.query(t, c.raw))
		})
	}
}

func TestQueryReportsLoadsAssociations(t *testing.T) {
	f := newFixture(t)

	q, err := filter.Parse(filter.RawQuery{Mode: "alert", AlertState: "active"})
	require.NoError(t, err)

	reports, err := f.iot.Report.QueryReports(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Device)
	assert.Equal(t, "south", reports[0].Device.Name)
	require.Len(t, reports[0].Alerts, 1)
	assert.True(t, reports[0].Alerts[0].Active)
}

func TestQueryReportsInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.iot.Report.QueryReports(context.Background(), filter.Query{Scope: filter.AllDevices(), DateOp: filter.DateOn})
	assert.ErrorIs(t, err, common.ErrInvalidFilterInput)

	_, err = f.iot.Report.QueryReports(context.Background(), filter.Query{Scope: filter.AllDevices(), Mode: "graph"})
	assert.ErrorIs(t, err, common.ErrInvalidFilterInput)
}

func TestDeviceDwell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dwell, err := f.iot.Stats.DeviceDwell(ctx)
	require.NoError(t, err)
	require.Len(t, dwell, 3)

	north, south, east := f.devices[0].ID, f.devices[1].ID, f.devices[2].ID
	require.NotNil(t, dwell[north].Lifetime)
	assert.Equal(t, 30.0, *dwell[north].Lifetime)
	require.NotNil(t, dwell[north].Today)
	assert.Equal(t, 30.0, *dwell[north].Today)
	assert.Nil(t, dwell[south].Lifetime)
	assert.Nil(t, dwell[east].Today)

	// the next day the same alert no longer counts as today
	f.clock.Advance(24 * time.Hour)
	dwell, err = f.iot.Stats.DeviceDwell(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, *dwell[north].Lifetime)
	assert.Nil(t, dwell[north].Today)
}

func TestBuildDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.iot.Export.BuildDocument(ctx, filter.Query{Scope: filter.AllDevices()})
	require.NoError(t, err)

	assert.Equal(t, "Report-Reports-General", doc.Title)
	assert.Equal(t, 5, doc.TotalResults)
	require.Len(t, doc.Groups, 3)
	assert.Len(t, doc.Groups[0].Rows, 3)
	assert.Len(t, doc.Groups[1].Rows, 2)
	require.Len(t, doc.Groups[2].Rows, 1)
	assert.Equal(t, export.RowKindPlaceholder, doc.Groups[2].Rows[0].Kind())

	require.NotNil(t, doc.Totals.MeanLevel)
	assert.Equal(t, 54.0, *doc.Totals.MeanLevel)
	assert.Equal(t, 1, doc.Totals.DoorOpenCount)
	assert.Equal(t, 30.0, *doc.Totals.MeanAlertMinutes)
	assert.Equal(t, 2, *doc.Totals.TotalAlerts)

	// timestamps render in the deployment's zone
	first := doc.Groups[0].Rows[0].(export.RealReport)
	assert.Equal(t, "2025-03-09 13:00:00", first.Timestamp)
}

func TestBuildDocumentSingleDevice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.iot.Export.BuildDocument(ctx, filter.Query{Scope: filter.Device(f.devices[1].ID), Mode: filter.ModeAlert})
	require.NoError(t, err)
	assert.Equal(t, "Report-Alerts-south", doc.Title)
	assert.Equal(t, 1, doc.TotalResults)
	assert.False(t, doc.NoActiveAlerts)

	doc, err = f.iot.Export.BuildDocument(ctx, filter.Query{Scope: filter.Device(99)})
	require.NoError(t, err)
	assert.Equal(t, "Report-Reports-99", doc.Title)
	assert.Empty(t, doc.Groups)

	_, err = f.iot.Export.BuildDocument(ctx, filter.Query{Scope: filter.AllDevices(), TimeOp: filter.TimeBetween})
	assert.ErrorIs(t, err, common.ErrInvalidFilterInput)
}

func TestDeviceCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.iot.Device

	created, err := svc.CreateDevice(ctx, "  west ")
	require.NoError(t, err)
	assert.Equal(t, "west", created.Name)

	_, err = svc.CreateDevice(ctx, " ")
	assert.ErrorIs(t, err, common.ErrMalformedPayload)

	renamed, err := svc.RenameDevice(ctx, created.ID, "far west")
	require.NoError(t, err)
	assert.Equal(t, "far west", renamed.Name)

	_, err = svc.RenameDevice(ctx, 999, "nobody")
	assert.ErrorIs(t, err, common.ErrUnknownDevice)

	got, err := svc.GetDevice(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "far west", got.Name)

	devices, err := svc.ListDevices(ctx)
	require.NoError(t, err)
	names := common.Mapper(devices, func(d models.Device) string { return d.Name })
	assert.Equal(t, []string{"north", "south", "east", "far west"}, names)

	// deleting south takes its reports and its active alert with it
	require.NoError(t, svc.DeleteDevice(ctx, f.devices[1].ID))
	assert.Equal(t, []string{"r3", "r2", "r1"}, f.query(t, filter.RawQuery{}))

	var alerts int64
	require.NoError(t, f.iot.Db.Conn.Model(&models.Alert{}).Where("device_id = ?", f.devices[1].ID).Count(&alerts).Error)
	assert.Zero(t, alerts)

	assert.ErrorIs(t, svc.DeleteDevice(ctx, f.devices[1].ID), common.ErrUnknownDevice)
	_, err = svc.GetDevice(ctx, f.devices[1].ID)
	assert.ErrorIs(t, err, common.ErrUnknownDevice)
}

func TestBackupAndPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// outside the 60 day window starting at r1
	late := seedReport(t, f.iot, f.devices[0].ID, local(8, 10, 0).AddDate(0, 0, 61), 10, false)

	batch, err := f.iot.Backup.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backup_20250309_150000_"+batch.ID+".json", batch.Key)
	assert.Len(t, batch.ReportIDs, 5)
	assert.NotContains(t, []uint(batch.ReportIDs), late.ID)

	body, err := f.iot.Archive.Get(ctx, batch.Key)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 5)
	assert.Equal(t, "north", records[0]["device"])
	assert.Equal(t, "2025-03-08T10:00:00", records[0]["timestamp"])
	assert.Equal(t, "Open", records[1]["door"])
	assert.Len(t, records[1]["alerts"], 1)

	require.NoError(t, f.iot.Backup.PurgeBackup(ctx, batch.ID))

	var left []models.Report
	require.NoError(t, f.iot.Db.Conn.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, late.ID, left[0].ID)

	var alerts int64
	require.NoError(t, f.iot.Db.Conn.Model(&models.Alert{}).Count(&alerts).Error)
	assert.Zero(t, alerts)

	_, err = f.iot.Archive.Get(ctx, batch.Key)
	assert.Error(t, err)

	assert.ErrorIs(t, f.iot.Backup.PurgeBackup(ctx, batch.ID), common.ErrUnknownBackup)
}

func TestBackupSameSecond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.iot.Backup.CreateBackup(ctx)
	require.NoError(t, err)
	second, err := f.iot.Backup.CreateBackup(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Key, second.Key)

	require.NoError(t, f.iot.Backup.PurgeBackup(ctx, first.ID))

	_, err = f.iot.Archive.Get(ctx, first.Key)
	assert.Error(t, err)

	body, err := f.iot.Archive.Get(ctx, second.Key)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	assert.Len(t, records, 5)
}

func TestBackupNothingToBackup(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, UseMocks{})
	defer ctrl.Finish()

	_, err := iotObj.Backup.CreateBackup(context.Background())
	assert.ErrorIs(t, err, common.ErrNothingToBackup)

	iotObj.Archive = nil
	seedReport(t, iotObj, seedDevice(t, iotObj, "plaza").ID, testStart, 10, false)
	_, err = iotObj.Backup.CreateBackup(context.Background())
	assert.ErrorIs(t, err, errNoArchive)
}
