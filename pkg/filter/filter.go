// Package filter selects reports by device scope, calendar date, time of
// day and alert state. Everything here is pure; the iot package pushes the
// date window down to SQL and runs Apply over what comes back.
package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

type Mode string

const (
	ModeReport Mode = "report"
	ModeAlert  Mode = "alert"
)

type AlertState string

const (
	AlertAny      AlertState = "any"
	AlertActive   AlertState = "active"
	AlertInactive AlertState = "inactive"
)

type DateOp string

const (
	DateNone   DateOp = ""
	DateBefore DateOp = "before"
	DateOn     DateOp = "on"
	DateAfter  DateOp = "after"
)

type TimeOp string

const (
	TimeNone    TimeOp = ""
	TimeBefore  TimeOp = "before"
	TimeBetween TimeOp = "between"
	TimeAfter   TimeOp = "after"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	ScopeAll = "all"
)

type Scope struct {
	All      bool
	DeviceID uint
}

func AllDevices() Scope {
	return Scope{All: true}
}

func Device(id uint) Scope {
	return Scope{DeviceID: id}
}

func (s Scope) String() string {
	if s.All {
		return ScopeAll
	}
	return strconv.FormatUint(uint64(s.DeviceID), 10)
}

type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Query is a validated filter request. Date only carries a calendar date;
// its clock and zone are ignored.
type Query struct {
	Scope      Scope
	Mode       Mode
	AlertState AlertState

	DateOp DateOp
	Date   time.Time

	TimeOp TimeOp
	Time1  *TimeOfDay
	Time2  *TimeOfDay
}

// RawQuery is the wire form shared by the HTTP and gRPC transports.
type RawQuery struct {
	Device     string `form:"device" json:"device"`
	Mode       string `form:"mode" json:"mode"`
	AlertState string `form:"alert_state" json:"alert_state"`
	DateOp     string `form:"date_op" json:"date_op"`
	Date       string `form:"date" json:"date"`
	TimeOp     string `form:"time_op" json:"time_op"`
	Time1      string `form:"time1" json:"time1"`
	Time2      string `form:"time2" json:"time2"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidFilterInput, fmt.Sprintf(format, args...))
}

// Parse turns the wire form into a Query and validates it.
func Parse(raw RawQuery) (Query, error) {
	var q Query

	switch device := strings.TrimSpace(raw.Device); device {
	case "", ScopeAll:
		q.Scope = AllDevices()
	default:
		id, err := strconv.ParseUint(device, 10, 64)
		if err != nil {
			return Query{}, invalid("device must be %q or a numeric id, got %q", ScopeAll, device)
		}
		q.Scope = Device(uint(id))
	}

	q.Mode = Mode(strings.TrimSpace(raw.Mode))
	q.AlertState = AlertState(strings.TrimSpace(raw.AlertState))
	q.DateOp = DateOp(strings.TrimSpace(raw.DateOp))
	q.TimeOp = TimeOp(strings.TrimSpace(raw.TimeOp))

	if s := strings.TrimSpace(raw.Date); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return Query{}, invalid("date must look like %s, got %q", DateLayout, s)
		}
		q.Date = d
	}

	var err error
	if q.Time1, err = parseTimeOfDay(raw.Time1); err != nil {
		return Query{}, err
	}
	if q.Time2, err = parseTimeOfDay(raw.Time2); err != nil {
		return Query{}, err
	}

	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseTimeOfDay(s string) (*TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return nil, invalid("time must look like %s, got %q", TimeLayout, s)
	}
	return &TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (q Query) WithDefaults() Query {
	if q.Mode == "" {
		q.Mode = ModeReport
	}
	if q.AlertState == "" {
		q.AlertState = AlertAny
	}
	return q
}

func (q Query) Validate() error {
	switch q.Mode {
	case ModeReport, ModeAlert:
	default:
		return invalid("unknown mode %q", q.Mode)
	}

	switch q.AlertState {
	case AlertAny, AlertActive, AlertInactive:
	default:
		return invalid("unknown alert state %q", q.AlertState)
	}

	switch q.DateOp {
	case DateNone:
	case DateBefore, DateOn, DateAfter:
		if q.Date.IsZero() {
			return invalid("date operator %q needs a date", q.DateOp)
		}
	default:
		return invalid("unknown date operator %q", q.DateOp)
	}

	switch q.TimeOp {
	case TimeNone:
	case TimeBefore, TimeAfter:
		if q.Time1 == nil {
			return invalid("time operator %q needs a time", q.TimeOp)
		}
	case TimeBetween:
		if q.Time1 == nil || q.Time2 == nil {
			return invalid("time operator %q needs two times", q.TimeOp)
		}
	default:
		return invalid("unknown time operator %q", q.TimeOp)
	}

	if !q.Scope.All && q.Scope.DeviceID == 0 {
		return invalid("device id must be positive")
	}

	return nil
}

// Unfiltered reports whether neither a date nor a time predicate applies.
func (q Query) Unfiltered() bool {
	return q.DateOp == DateNone && q.TimeOp == TimeNone
}

func (q Query) dayStart(loc *time.Location) time.Time {
	y, m, d := q.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Window is the half-open instant range [from, to) equivalent to the date
// predicate in loc. A nil bound is open.
func (q Query) Window(loc *time.Location) (from, to *time.Time) {
	start := q.dayStart(loc)
	next := start.AddDate(0, 0, 1)

	switch q.DateOp {
	case DateBefore:
		return nil, &next
	case DateOn:
		return &start, &next
	case DateAfter:
		return &next, nil
	}
	return nil, nil
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func (q Query) MatchDate(ts time.Time, loc *time.Location) bool {
	if q.DateOp == DateNone {
		return true
	}

	got := dateKey(ts.In(loc))
	want := dateKey(q.Date)

	switch q.DateOp {
	case DateBefore:
		return got <= want
	case DateOn:
		return got == want
	case DateAfter:
		return got > want
	}
	return false
}

// MatchTime applies the time-of-day predicate; it only narrows an
// on(date) selection.
func (q Query) MatchTime(ts time.Time, loc *time.Location) bool {
	if q.DateOp != DateOn || q.TimeOp == TimeNone {
		return true
	}

	switch q.TimeOp {
	case TimeBefore:
		return ts.Before(q.Time1.On(q.Date, loc))
	case TimeBetween:
		return q.Time1.On(q.Date, loc).Before(ts) && ts.Before(q.Time2.On(q.Date, loc))
	case TimeAfter:
		return ts.After(q.Time1.On(q.Date, loc))
	}
	return true
}

func (q Query) MatchAlertState(alerts []models.Alert) bool {
	if q.Mode != ModeAlert {
		return true
	}

	switch q.AlertState {
	case AlertActive:
		return slices.ContainsFunc(alerts, func(a models.Alert) bool { return a.Active })
	case AlertInactive:
		return slices.ContainsFunc(alerts, func(a models.Alert) bool { return !a.Active })
	}
	return len(alerts) > 0
}

func (q Query) MatchScope(r *models.Report) bool {
	return q.Scope.All || r.DeviceID == q.Scope.DeviceID
}

func (q Query) Match(r *models.Report, loc *time.Location) bool {
	return q.MatchScope(r) &&
		q.MatchDate(r.Timestamp, loc) &&
		q.MatchTime(r.Timestamp, loc) &&
		q.MatchAlertState(r.Alerts)
}

// Apply returns the matching reports newest first. The input is not
// modified.
func (q Query) Apply(reports []models.Report, loc *time.Location) []models.Report {
	matched := common.Filter(reports, func(r models.Report) bool {
		return q.Match(&r, loc)
	})
	SortNewestFirst(matched)
	return matched
}

func SortNewestFirst(reports []models.Report) {
	slices.SortStableFunc(reports, func(a, b models.Report) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
