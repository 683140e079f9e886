package grpc

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"golang.org/x/time/rate"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
)

// Ingest reports failures in the response body, like the HTTP endpoint.
func (s *IOTServer) Ingest(ctx context.Context, req *iot.IngestRequest) (*iot.IngestResponse, error) {
	if err := req.Validate(); err != nil {
		resp := iot.IngestFailed(err)
		return &resp, nil
	}

	reportID, err := s.Iot.Ingestion.Ingest(ctx, *req.DeviceID, *req.Level, *req.Door)
	if err != nil {
		resp := iot.IngestFailed(err)
		return &resp, nil
	}

	resp := iot.IngestOK(reportID)
	return &resp, nil
}

func (s *IOTServer) QueryReports(ctx context.Context, req *QueryReportsRequest) (*QueryReportsResponse, error) {
	q, err := filter.Parse(req.Query)
	if err != nil {
		return nil, toStatus(err)
	}

	reports, err := s.Iot.Report.QueryReports(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}

	return &QueryReportsResponse{TotalResults: len(reports), Reports: reports}, nil
}

func (s *IOTServer) DeviceDwell(ctx context.Context, req *DeviceDwellRequest) (*DeviceDwellResponse, error) {
	devices, err := s.Iot.Stats.DeviceDwell(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DeviceDwellResponse{Devices: devices}, nil
}

func failed(format string, args ...any) *PostLimiterResponse {
	return &PostLimiterResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf(format, args...)}}
}

func (s *IOTServer) PostLimiter(ctx context.Context, req *PostLimiterRequest) (*PostLimiterResponse, error) {
	deviceID := int(req.DeviceId)
	var deviceIDValidator = z.Int().GT(0).Required()
	if err := deviceIDValidator.Validate(&deviceID); err != nil {
		return failed("validation error: %v", err), nil
	}

	var rateValidator = z.Float64().GT(0).Required()
	if err := rateValidator.Validate(&req.DeviceRate); err != nil {
		return failed("validation error: %v", err), nil
	}

	var burstValidator = z.Int32().GT(0).Required()
	if err := burstValidator.Validate(&req.DeviceBurst); err != nil {
		return failed("validation error: %v", err), nil
	}

	if s.RateLimiterStore == nil {
		return failed("RateLimiterStore is not used. No effect."), nil
	}

	s.RateLimiterStore.SetLimiter(req.DeviceId, rate.Limit(req.DeviceRate), int(req.DeviceBurst))
	return &PostLimiterResponse{Status: &StatusResponse{Success: true, Message: "OK"}}, nil
}
