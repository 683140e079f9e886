package iot

import (
	"context"

	"liyu1981.xyz/container-monitor-service/pkg/archive"
	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/db"
	"liyu1981.xyz/container-monitor-service/pkg/export"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	"liyu1981.xyz/container-monitor-service/pkg/stats"
)

type IIngest interface {
	Ingest(ctx context.Context, deviceID uint, level int, door bool) (uint, error)
}

type IDevice interface {
	CreateDevice(ctx context.Context, name string) (*models.Device, error)
	RenameDevice(ctx context.Context, deviceID uint, name string) (*models.Device, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDevice(ctx context.Context, deviceID uint) (*models.Device, error)
	DeleteDevice(ctx context.Context, deviceID uint) error
}

type IReport interface {
	QueryReports(ctx context.Context, q filter.Query) ([]models.Report, error)
}

type IStats interface {
	DeviceDwell(ctx context.Context) (map[uint]stats.DwellSummary, error)
}

type IExport interface {
	BuildDocument(ctx context.Context, q filter.Query) (*export.Document, error)
}

type IBackup interface {
	CreateBackup(ctx context.Context) (*models.BackupBatch, error)
	PurgeBackup(ctx context.Context, batchID string) error
}

type IOT struct {
	Db      db.DB
	Clock   common.Clock
	Archive archive.Sink

	Ingestion IIngest
	Device    IDevice
	Report    IReport
	Stats     IStats
	Export    IExport
	Backup    IBackup

	locks deviceLocker
}

type ServiceOpts struct {
	Ingestion IIngest
	Device    IDevice
	Report    IReport
	Stats     IStats
	Export    IExport
	Backup    IBackup
}

// New wires the real implementation of every service.
func New(database *db.DB, clock common.Clock, sink archive.Sink) *IOT {
	i := &IOT{Db: *database, Clock: clock, Archive: sink}
	return i.WithServices(ServiceOpts{
		Ingestion: i.GetIIngest(),
		Device:    i.GetIDevice(),
		Report:    i.GetIReport(),
		Stats:     i.GetIStats(),
		Export:    i.GetIExport(),
		Backup:    i.GetIBackup(),
	})
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Ingestion != nil {
		i.Ingestion = opts.Ingestion
	}
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Report != nil {
		i.Report = opts.Report
	}
	if opts.Stats != nil {
		i.Stats = opts.Stats
	}
	if opts.Export != nil {
		i.Export = opts.Export
	}
	if opts.Backup != nil {
		i.Backup = opts.Backup
	}
	return i
}

func (i *IOT) clock() common.Clock {
	if i.Clock == nil {
		return common.SystemClock{}
	}
	return i.Clock
}
