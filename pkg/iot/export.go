package iot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/export"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
)

func (i *IOT) buildDocument(ctx context.Context, q filter.Query) (*export.Document, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTExport),
	)

	q = q.WithDefaults()
	reports, err := i.queryReports(ctx, q)
	if err != nil {
		return nil, err
	}

	clock := i.clock()
	src := export.Source{
		Mode:    q.Mode,
		Scope:   q.Scope,
		Reports: reports,
		Now:     clock.Now(),
		Loc:     clock.Location(),
	}

	if q.Scope.All {
		if src.Devices, err = i.listDevices(ctx); err != nil {
			return nil, err
		}
	} else {
		device, err := i.getDevice(ctx, q.Scope.DeviceID)
		switch {
		case err == nil:
			src.DeviceName = device.Name
		case errors.Is(err, common.ErrUnknownDevice):
			// unknown devices export an empty document
			src.DeviceName = q.Scope.String()
		default:
			return nil, err
		}
	}

	doc := export.Build(src)

	logger.Info("Built document",
		zap.String("title", doc.Title),
		zap.Int("total_results", doc.TotalResults),
		zap.Int("groups", len(doc.Groups)))

	return doc, nil
}

type IExportImpl struct {
	iot *IOT
}

func (ie *IExportImpl) BuildDocument(ctx context.Context, q filter.Query) (*export.Document, error) {
	return ie.iot.buildDocument(ctx, q)
}

func (i *IOT) GetIExport() IExport {
	return &IExportImpl{iot: i}
}
