package grpc

import (
	"context"

	"google.golang.org/grpc"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	"liyu1981.xyz/container-monitor-service/pkg/stats"
)

const (
	ServiceName = "container.v1.ContainerService"

	ContainerService_Ingest_FullMethodName       = "/" + ServiceName + "/Ingest"
	ContainerService_QueryReports_FullMethodName = "/" + ServiceName + "/QueryReports"
	ContainerService_DeviceDwell_FullMethodName  = "/" + ServiceName + "/DeviceDwell"
	ContainerService_PostLimiter_FullMethodName  = "/" + ServiceName + "/PostLimiter"
)

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type QueryReportsRequest struct {
	Query filter.RawQuery `json:"query"`
}

type QueryReportsResponse struct {
	TotalResults int             `json:"total_results"`
	Reports      []models.Report `json:"reports"`
}

type DeviceDwellRequest struct{}

type DeviceDwellResponse struct {
	Devices map[uint]stats.DwellSummary `json:"devices"`
}

type PostLimiterRequest struct {
	DeviceId    uint    `json:"device_id"`
	DeviceRate  float64 `json:"device_rate"`
	DeviceBurst int32   `json:"device_burst"`
}

func (r *PostLimiterRequest) GetDeviceId() uint {
	if r == nil {
		return 0
	}
	return r.DeviceId
}

type PostLimiterResponse struct {
	Status *StatusResponse `json:"status"`
}

type ContainerServiceServer interface {
	Ingest(context.Context, *iot.IngestRequest) (*iot.IngestResponse, error)
	QueryReports(context.Context, *QueryReportsRequest) (*QueryReportsResponse, error)
	DeviceDwell(context.Context, *DeviceDwellRequest) (*DeviceDwellResponse, error)
	PostLimiter(context.Context, *PostLimiterRequest) (*PostLimiterResponse, error)
}

func RegisterContainerServiceServer(s grpc.ServiceRegistrar, srv ContainerServiceServer) {
	s.RegisterService(&ContainerService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(ContainerServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ContainerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ContainerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ContainerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContainerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ingest",
			Handler:    unaryHandler(ContainerService_Ingest_FullMethodName, ContainerServiceServer.Ingest),
		},
		{
			MethodName: "QueryReports",
			Handler:    unaryHandler(ContainerService_QueryReports_FullMethodName, ContainerServiceServer.QueryReports),
		},
		{
			MethodName: "DeviceDwell",
			Handler:    unaryHandler(ContainerService_DeviceDwell_FullMethodName, ContainerServiceServer.DeviceDwell),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(ContainerService_PostLimiter_FullMethodName, ContainerServiceServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "container/v1/container_service",
}

type ContainerServiceClient interface {
	Ingest(ctx context.Context, in *iot.IngestRequest, opts ...grpc.CallOption) (*iot.IngestResponse, error)
	QueryReports(ctx context.Context, in *QueryReportsRequest, opts ...grpc.CallOption) (*QueryReportsResponse, error)
	DeviceDwell(ctx context.Context, in *DeviceDwellRequest, opts ...grpc.CallOption) (*DeviceDwellResponse, error)
	PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error)
}

type containerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContainerServiceClient(cc grpc.ClientConnInterface) ContainerServiceClient {
	return &containerServiceClient{cc}
}

// CallOptions selects the json codec for a call.
func CallOptions(opts ...grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *containerServiceClient) Ingest(ctx context.Context, in *iot.IngestRequest, opts ...grpc.CallOption) (*iot.IngestResponse, error) {
	out := new(iot.IngestResponse)
	if err := c.cc.Invoke(ctx, ContainerService_Ingest_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *containerServiceClient) QueryReports(ctx context.Context, in *QueryReportsRequest, opts ...grpc.CallOption) (*QueryReportsResponse, error) {
	out := new(QueryReportsResponse)
	if err := c.cc.Invoke(ctx, ContainerService_QueryReports_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *containerServiceClient) DeviceDwell(ctx context.Context, in *DeviceDwellRequest, opts ...grpc.CallOption) (*DeviceDwellResponse, error) {
	out := new(DeviceDwellResponse)
	if err := c.cc.Invoke(ctx, ContainerService_DeviceDwell_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *containerServiceClient) PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error) {
	out := new(PostLimiterResponse)
	if err := c.cc.Invoke(ctx, ContainerService_PostLimiter_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
