package grpc

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
)

type IOTServer struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

var _ ContainerServiceServer = (*IOTServer)(nil)

func (i *IOTServer) GetLimiter(deviceID uint) *rate.Limiter {
	if i.RateLimiterStore == nil {
		return nil
	} else {
		return i.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (i *IOTServer) CheckDeviceLimiter(deviceID uint) bool {
	limiter := i.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameGrpcServer)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrMalformedPayload), errors.Is(err, common.ErrInvalidFilterInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrUnknownDevice), errors.Is(err, common.ErrUnknownBackup):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrNothingToBackup):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrTransient):
		return status.Error(codes.Unavailable, err.Error())
	}
	logger().Error("Call failed", zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}
