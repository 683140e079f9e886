// Package export turns a filtered report set into a printable document.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/models"
	"liyu1981.xyz/container-monitor-service/pkg/stats"
)

const (
	TimestampLayout = "2006-01-02 15:04:05"
	NotAvailable    = "N/A"

	RowKindReport      = "report"
	RowKindPlaceholder = "placeholder"
)

// Row is either a RealReport or a PlaceholderRow.
type Row interface {
	Kind() string
	Position() int
}

type AlertLine struct {
	Status        string `json:"status"`
	Active        bool   `json:"active"`
	Message       string `json:"message"`
	ActivatedAt   string `json:"activated_at"`
	DeactivatedAt string `json:"deactivated_at"`
}

type RealReport struct {
	Index      int         `json:"index"`
	ReportID   uint        `json:"report_id"`
	DeviceID   uint        `json:"device_id"`
	DeviceName string      `json:"device_name"`
	Level      int         `json:"level"`
	DoorOpen   bool        `json:"door_open"`
	DoorLabel  string      `json:"door_label"`
	Timestamp  string      `json:"timestamp"`
	Alerts     []AlertLine `json:"alerts"`
}

func (r RealReport) Kind() string  { return RowKindReport }
func (r RealReport) Position() int { return r.Index }

func (r RealReport) MarshalJSON() ([]byte, error) {
	type plain RealReport
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{r.Kind(), plain(r)})
}

// PlaceholderRow stands in for a device without matching reports in an
// all-devices export: level 0, door closed, no timestamp, no alerts.
type PlaceholderRow struct {
	Index      int    `json:"index"`
	DeviceID   uint   `json:"device_id"`
	DeviceName string `json:"device_name"`
}

func (p PlaceholderRow) Kind() string  { return RowKindPlaceholder }
func (p PlaceholderRow) Position() int { return p.Index }

func (p PlaceholderRow) Level() int        { return 0 }
func (p PlaceholderRow) DoorLabel() string { return models.DoorLabelClosed }
func (p PlaceholderRow) Timestamp() string { return NotAvailable }

func (p PlaceholderRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       string      `json:"kind"`
		Index      int         `json:"index"`
		DeviceID   uint        `json:"device_id"`
		DeviceName string      `json:"device_name"`
		Level      int         `json:"level"`
		DoorOpen   bool        `json:"door_open"`
		DoorLabel  string      `json:"door_label"`
		Timestamp  string      `json:"timestamp"`
		Alerts     []AlertLine `json:"alerts"`
	}{p.Kind(), p.Index, p.DeviceID, p.DeviceName, p.Level(), false, p.DoorLabel(), p.Timestamp(), []AlertLine{}})
}

type Group struct {
	DeviceID   uint   `json:"device_id"`
	DeviceName string `json:"device_name"`
	Rows       []Row  `json:"rows"`
}

type Document struct {
	Title          string       `json:"title"`
	Mode           filter.Mode  `json:"mode"`
	GeneratedAt    time.Time    `json:"generated_at"`
	TotalResults   int          `json:"total_results"`
	Groups         []Group      `json:"groups"`
	Totals         stats.Totals `json:"totals"`
	NoActiveAlerts bool         `json:"no_active_alerts"`
}

func (d *Document) Filename(ext string) string {
	return fmt.Sprintf("%s.%s", d.Title, ext)
}

// Rows flattens the groups in display order.
func (d *Document) Rows() []Row {
	var rows []Row
	for _, g := range d.Groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

func (d *Document) Description() []string {
	noun := "reports"
	if d.Mode == filter.ModeAlert {
		noun = "alerts"
	}
	return []string{
		fmt.Sprintf("This document contains %s.", noun),
		fmt.Sprintf("Total results: %d.", d.TotalResults),
		fmt.Sprintf("Generated at %s.", d.GeneratedAt.Format(TimestampLayout)),
	}
}
