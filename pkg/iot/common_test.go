package iot

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/container-monitor-service/pkg/archive"
	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/db"
	"liyu1981.xyz/container-monitor-service/pkg/iot/mocks"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

var testStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type MockServices struct {
	Ingestion *mocks.MockIIngest
	Device    *mocks.MockIDevice
	Report    *mocks.MockIReport
	Stats     *mocks.MockIStats
	Export    *mocks.MockIExport
	Backup    *mocks.MockIBackup
}

// UseMocks picks which services are replaced by their mocks.
type UseMocks struct {
	Ingestion, Device, Report, Stats, Export, Backup bool
}

// GetMockIOTWithMemorySqliteDialector builds an IOT on a private in-memory
// database with a fixed clock and a file archive in a temp dir.
func GetMockIOTWithMemorySqliteDialector(t *testing.T, use UseMocks) (
	*gomock.Controller,
	*IOT,
	*MockServices,
	*common.FixedClock,
) {
	ctrl := gomock.NewController(t)

	dbInstance, err := db.Open(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	require.NoError(t, err)

	sink, err := archive.NewFileSink(t.TempDir())
	require.NoError(t, err)

	clock := &common.FixedClock{At: testStart, Loc: time.UTC}
	iotInstance := New(dbInstance, clock, sink)

	m := &MockServices{
		Ingestion: mocks.NewMockIIngest(ctrl),
		Device:    mocks.NewMockIDevice(ctrl),
		Report:    mocks.NewMockIReport(ctrl),
		Stats:     mocks.NewMockIStats(ctrl),
		Export:    mocks.NewMockIExport(ctrl),
		Backup:    mocks.NewMockIBackup(ctrl),
	}

	opts := ServiceOpts{}
	if use.Ingestion {
		opts.Ingestion = m.Ingestion
	}
	if use.Device {
		opts.Device = m.Device
	}
	if use.Report {
		opts.Report = m.Report
	}
	if use.Stats {
		opts.Stats = m.Stats
	}
	if use.Export {
		opts.Export = m.Export
	}
	if use.Backup {
		opts.Backup = m.Backup
	}
	iotInstance.WithServices(opts)

	return ctrl, iotInstance, m, clock
}

func seedDevice(t *testing.T, i *IOT, name string) models.Device {
	device := models.Device{Name: name}
	require.NoError(t, i.Db.Conn.Create(&device).Error)
	return device
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
