package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/export"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

const (
	formatPDF  = "pdf"
	formatJSON = "json"
)

type pageQuery struct {
	Page int `form:"page,default=1"`
}

type alertView struct {
	ID            uint    `json:"id"`
	Status        string  `json:"status"`
	Active        bool    `json:"active"`
	Message       string  `json:"message"`
	ActivatedAt   string  `json:"activated_at"`
	DeactivatedAt *string `json:"deactivated_at"`
}

type reportView struct {
	ID         uint        `json:"id"`
	DeviceID   uint        `json:"device_id"`
	DeviceName string      `json:"device_name"`
	Level      int         `json:"level"`
	Door       bool        `json:"door"`
	DoorLabel  string      `json:"door_label"`
	Timestamp  string      `json:"timestamp"`
	Alerts     []alertView `json:"alerts"`
}

func toReportView(r models.Report, loc *time.Location) reportView {
	v := reportView{
		ID:        r.ID,
		DeviceID:  r.DeviceID,
		Level:     r.Level,
		Door:      r.Door,
		DoorLabel: r.DoorLabel(),
		Timestamp: r.Timestamp.In(loc).Format(export.TimestampLayout),
		Alerts:    make([]alertView, 0, len(r.Alerts)),
	}
	if r.Device != nil {
		v.DeviceName = r.Device.Name
	}
	for _, a := range r.Alerts {
		av := alertView{
			ID:          a.ID,
			Status:      a.StatusLabel(),
			Active:      a.Active,
			Message:     a.Message,
			ActivatedAt: a.ActivatedAt.In(loc).Format(export.TimestampLayout),
		}
		if a.DeactivatedAt != nil {
			av.DeactivatedAt = common.Ptr(a.DeactivatedAt.In(loc).Format(export.TimestampLayout))
		}
		v.Alerts = append(v.Alerts, av)
	}
	return v
}

func (rs *RestfulServer) location() *time.Location {
	if rs.Iot.Clock == nil {
		return time.Local
	}
	return rs.Iot.Clock.Location()
}

func bindFilter(c *gin.Context) (filter.Query, error) {
	var raw filter.RawQuery
	if err := c.ShouldBindQuery(&raw); err != nil {
		return filter.Query{}, fmt.Errorf("%w: %v", common.ErrInvalidFilterInput, err)
	}
	return filter.Parse(raw)
}

// GetReports is the paginated report browser.
func (rs *RestfulServer) GetReports(c *gin.Context) {
	var pq pageQuery
	if err := c.ShouldBindQuery(&pq); err != nil || pq.Page < 1 {
		abortWithError(c, fmt.Errorf("%w: page must be a positive integer", common.ErrInvalidFilterInput))
		return
	}

	q, err := bindFilter(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	reports, err := rs.Iot.Report.QueryReports(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	loc := rs.location()
	views := common.Mapper(reports, func(r models.Report) reportView { return toReportView(r, loc) })

	c.JSON(http.StatusOK, Paginate(views, pq.Page, ReportPageSize))
}

func (rs *RestfulServer) ExportReports(c *gin.Context) {
	format := c.DefaultQuery("format", formatPDF)
	if format != formatPDF && format != formatJSON {
		abortWithError(c, fmt.Errorf("%w: unknown format %q", common.ErrInvalidFilterInput, format))
		return
	}

	q, err := bindFilter(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	doc, err := rs.Iot.Export.BuildDocument(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if format == formatJSON {
		c.JSON(http.StatusOK, doc)
		return
	}

	var buf bytes.Buffer
	if err := export.RenderPDF(doc, &buf); err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename(formatPDF)))
	c.Data(http.StatusOK, export.PDFContentType(), buf.Bytes())
}

func (rs *RestfulServer) GetDwell(c *gin.Context) {
	dwell, err := rs.Iot.Stats.DeviceDwell(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dwell)
}

func (rs *RestfulServer) CreateBackup(c *gin.Context) {
	batch, err := rs.Iot.Backup.CreateBackup(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}

func (rs *RestfulServer) PurgeBackup(c *gin.Context) {
	if err := rs.Iot.Backup.PurgeBackup(c.Request.Context(), c.Param("batch_id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
