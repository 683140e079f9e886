package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DoorLabelOpen   string = "Open"
	DoorLabelClosed string = "Closed"

	AlertLabelActive   string = "Active"
	AlertLabelInactive string = "Inactive"
)

type Device struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Report is one telemetry sample. Door is true when the door is open.
type Report struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceID  uint      `gorm:"not null;index:idx_reports_device_ts,priority:1" json:"device_id"`
	Level     int       `json:"level"`
	Door      bool      `json:"door"`
	Timestamp time.Time `gorm:"not null;index:idx_reports_device_ts,priority:2;index" json:"timestamp"`

	Device *Device `gorm:"constraint:OnDelete:CASCADE" json:"device,omitempty"`
	Alerts []Alert `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"alerts"`
}

// timestamps are compared as text by SQLite, so keep them all in UTC
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	r.Timestamp = r.Timestamp.UTC()
	return nil
}

func (r *Report) DoorLabel() string {
	return DoorLabel(r.Door)
}

func DoorLabel(open bool) string {
	if open {
		return DoorLabelOpen
	}
	return DoorLabelClosed
}

// Alert hangs off the report that raised it. DeviceID duplicates the
// report's device so that "one active alert per device" can be a unique
// partial index.
type Alert struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ReportID      uint       `gorm:"not null;index" json:"report_id"`
	DeviceID      uint       `gorm:"not null;index" json:"device_id"`
	Message       string     `gorm:"size:200" json:"message"`
	Active        bool       `gorm:"not null;default:false" json:"active"`
	ActivatedAt   time.Time  `gorm:"not null" json:"activated_at"`
	DeactivatedAt *time.Time `json:"deactivated_at"`

	Device *Device `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	a.ActivatedAt = a.ActivatedAt.UTC()
	if a.DeactivatedAt != nil {
		a.DeactivatedAt = ptrUTC(*a.DeactivatedAt)
	}
	return nil
}

func ptrUTC(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

func (a *Alert) StatusLabel() string {
	if a.Active {
		return AlertLabelActive
	}
	return AlertLabelInactive
}

// Closed reports whether the alert has a full activation/deactivation span.
func (a *Alert) Closed() bool {
	return !a.Active && a.DeactivatedAt != nil
}

type BackupBatch struct {
	ID        string                    `gorm:"primaryKey;size:36" json:"id"`
	Key       string                    `gorm:"not null" json:"key"`
	ReportIDs datatypes.JSONSlice[uint] `json:"report_ids"`
	CreatedAt time.Time                 `json:"created_at"`
}
