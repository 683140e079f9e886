package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liyu1981.xyz/container-monitor-service/pkg/common"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrMalformedPayload), errors.Is(err, common.ErrInvalidFilterInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnknownDevice), errors.Is(err, common.ErrUnknownBackup):
		return http.StatusNotFound
	case errors.Is(err, common.ErrNothingToBackup):
		return http.StatusConflict
	case errors.Is(err, common.ErrTransient):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}

func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func deviceIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("device_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
