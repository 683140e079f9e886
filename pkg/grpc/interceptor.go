package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"liyu1981.xyz/container-monitor-service/pkg/common"
)

// deviceScoped is implemented by requests that act on a single device.
type deviceScoped interface {
	GetDeviceId() uint
}

func typeSet(reqs []any) map[reflect.Type]bool {
	return common.Reducer(reqs,
		func(m map[reflect.Type]bool, r any) map[reflect.Type]bool {
			m[reflect.TypeOf(r)] = true
			return m
		},
		map[reflect.Type]bool{},
	)
}

// CreateRateLimitInterceptor charges the device's bucket for every request
// whose type is listed in limited. Other calls pass through.
func (i *IOTServer) CreateRateLimitInterceptor(limited []any) grpc.UnaryServerInterceptor {
	limitedTypes := typeSet(limited)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		scoped, ok := req.(deviceScoped)
		if !ok || !limitedTypes[reflect.TypeOf(req)] {
			return handler(ctx, req)
		}

		// id 0 never reaches storage, the handler rejects it
		deviceID := scoped.GetDeviceId()
		if deviceID != 0 && !i.CheckDeviceLimiter(deviceID) {
			logger().Warn("Device over its rate limit",
				zap.Uint("device_id", deviceID),
				zap.String("method", info.FullMethod))
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
