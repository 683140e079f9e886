package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/container-monitor-service/pkg/iot"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

var errRateLimited = errors.New("rate limit exceeded")

// PostIngest always answers with an iot.IngestResponse body.
func (rs *RestfulServer) PostIngest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, iot.IngestFailed(err))
		return
	}

	req, err := iot.DecodeIngestRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, iot.IngestFailed(err))
		return
	}

	deviceID := req.GetDeviceId()
	if !rs.CheckDeviceLimiter(deviceID) {
		logger().Warn("Device over its rate limit", zap.Uint("device_id", deviceID))
		c.JSON(http.StatusTooManyRequests, iot.IngestFailed(errRateLimited))
		return
	}

	reportID, err := rs.Iot.Ingestion.Ingest(c.Request.Context(), deviceID, *req.Level, *req.Door)
	if err != nil {
		c.JSON(statusOf(err), iot.IngestFailed(err))
		return
	}

	c.JSON(http.StatusOK, iot.IngestOK(reportID))
}

type DeviceRequest struct {
	Name string `json:"name"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"name": z.String().Min(1).Max(100).Required(),
})

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Iot.Device.CreateDevice(c.Request.Context(), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, device)
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	devices, err := rs.Iot.Device.ListDevices(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}

	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	device, err := rs.Iot.Device.GetDevice(c.Request.Context(), deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) RenameDevice(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Iot.Device.RenameDevice(c.Request.Context(), deviceID, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	if err := rs.Iot.Device.DeleteDevice(c.Request.Context(), deviceID); err != nil {
		abortWithError(c, err)
		return
	}
	rs.forgetLimiter(deviceID)

	c.Status(http.StatusNoContent)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().GT(0).Required(),
	"burst": z.Int().GT(0).Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	settings, ok := rs.SetLimiter(deviceID, req.Rate, req.Burst)
	if !ok {
		// accepted with no effect
		c.Status(http.StatusOK)
		return
	}

	logger().Info("Updated device limiter",
		zap.Uint("device_id", deviceID), zap.Float64("rate", req.Rate), zap.Int("burst", req.Burst))

	c.JSON(http.StatusOK, settings)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
