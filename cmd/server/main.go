package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/archive"
	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/config"
	"liyu1981.xyz/container-monitor-service/pkg/db"
	iotGrpc "liyu1981.xyz/container-monitor-service/pkg/grpc"
	iotHttp "liyu1981.xyz/container-monitor-service/pkg/http"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
	iotMqtt "liyu1981.xyz/container-monitor-service/pkg/mqtt"
)

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "file":
		return db.UseSqliteFileDialector(cfg.DBPath), nil
	case "memory":
		return db.UseMemorySqliteDialector(), nil
	case "postgres":
		return db.UsePostgresDialector(cfg.DBDSN), nil
	}
	return nil, fmt.Errorf("unknown IOT_DB_TYPE: %s", cfg.DBType)
}

func openSink(cfg *config.Config) (archive.Sink, error) {
	if cfg.BackupSink == "s3" {
		return archive.NewS3Sink(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
	}
	return archive.NewFileSink(cfg.BackupDir)
}

func newLimiterStore(cfg *config.Config) *iot.RateLimiterStore {
	return iot.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration, copy .env.example to .env first if in development: %v", err)
	}

	logger := common.GetLogger()

	dialector, err := dialectorFor(cfg)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance := db.GetInstance(dialector)

	sink, err := openSink(cfg)
	if err != nil {
		log.Fatalf("Failed to open backup sink: %v", err)
	}

	loc, _ := cfg.Location()
	iotCore := iot.New(dbInstance, common.SystemClock{Loc: loc}, sink)

	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst))

	if cfg.GrpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + cfg.GrpcHostPort)
		go func() {
			iotGrpcServer := iotGrpc.IOTServer{
				Iot:              iotCore,
				RateLimiterStore: newLimiterStore(cfg),
			}
			interceptor := iotGrpcServer.CreateRateLimitInterceptor([]any{
				&iot.IngestRequest{},
				&iotGrpc.PostLimiterRequest{},
			})
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			iotGrpc.RegisterContainerServiceServer(s, &iotGrpcServer)
			logger.Info("gRPC server created with:", defaultLimiter)

			listener, err := net.Listen("tcp", cfg.GrpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			logger.Info("start gRPC server on " + cfg.GrpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if cfg.MqttBroker != "" {
		hostname, _ := os.Hostname()
		subscriber := &iotMqtt.Subscriber{
			Iot:              iotCore,
			RateLimiterStore: newLimiterStore(cfg),
			Topic:            cfg.MqttTopic,
			QoS:              iotMqtt.DefaultQoS,
		}
		if err := subscriber.Start(cfg.MqttBroker, "container-monitor-"+hostname); err != nil {
			log.Fatalf("mqtt subscriber failed to start: %v", err)
		}
		defer subscriber.Stop()
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              iotCore,
		RateLimiterStore: newLimiterStore(cfg),
	}
	rs.Setup()

	logger.Info("http server created with:", defaultLimiter, zap.String("timezone", loc.String()))

	logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
	if err := rs.Server.Run(cfg.HttpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
