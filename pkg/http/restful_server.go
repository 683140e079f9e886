package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID uint) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID uint) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// SetLimiter reports false when no limiter store is in use.
func (rs *RestfulServer) SetLimiter(deviceID uint, deviceRate float64, deviceBurst int) (iot.LimiterSettings, bool) {
	if rs.RateLimiterStore == nil {
		return iot.LimiterSettings{}, false
	}
	return rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst), true
}

func (rs *RestfulServer) forgetLimiter(deviceID uint) {
	if rs.RateLimiterStore != nil {
		rs.RateLimiterStore.Forget(deviceID)
	}
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.POST("/ingest", rs.PostIngest)

	rs.Server.POST("/devices", rs.CreateDevice)
	rs.Server.GET("/devices", rs.ListDevices)

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.GET("", rs.GetDevice)
		devices.PATCH("", rs.RenameDevice)
		devices.DELETE("", rs.DeleteDevice)
		devices.POST("/limiter", rs.PostLimiter)
	}

	reports := rs.Server.Group("/reports")
	{
		reports.GET("", rs.GetReports)
		reports.GET("/export", rs.ExportReports)
	}

	rs.Server.GET("/stats/dwell", rs.GetDwell)

	backups := rs.Server.Group("/backups")
	{
		backups.POST("", rs.CreateBackup)
		backups.DELETE("/:batch_id", rs.PurgeBackup)
	}
}
