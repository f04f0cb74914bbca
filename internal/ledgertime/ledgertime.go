// Package ledgertime holds the fixed UTC+8 convention used for every stored
// and returned ledger timestamp.
//
// Values are true instants internally. The store keeps them as timestamps
// without time zone carrying the UTC+8 wall clock, and the wire form is that
// same wall clock without an offset suffix, so existing records keep their
// exact values.
package ledgertime

import (
	"time"
)

// Offset is the fixed display/storage offset from UTC.
const Offset = 8 * time.Hour

// Zone is the fixed-offset location all wall-clock values are read in.
var Zone = time.FixedZone("UTC+8", int(Offset/time.Second))

const (
	// DateLayout is the date-only form accepted from clients. Month and day
	// may be given with or without a leading zero.
	DateLayout = "2006-1-2"
	// AuditLayout is the audit log "time" format.
	AuditLayout = "2006-01-02 15:04:05"

	wireLayout      = "2006-01-02T15:04:05"
	wireLayoutMicro = "2006-01-02T15:04:05.000000"
)

// Clock returns the current instant. Tests substitute fixed clocks.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// Now returns the clock's instant in Zone at store precision.
func Now(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return clock().In(Zone).Truncate(time.Microsecond)
}

// ParseDate interprets a date supplied when a record is added. "YYYY-MM-DD"
// is midnight shifted by Offset; anything else, including the empty string
// and full timestamps, is now.
func ParseDate(s string, clock Clock) time.Time {
	if d, ok := parseDay(s); ok {
		return d
	}
	return Now(clock)
}

// ParseEditDate interprets a "when" value supplied in an edit. It follows
// ParseDate but also takes the serialized record form as-is, so a record
// read from the API can be written back unchanged.
func ParseEditDate(s string, clock Clock) time.Time {
	if d, ok := parseDay(s); ok {
		return d
	}
	if t, err := Parse(s); err == nil {
		return t
	}
	return Now(clock)
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Zone).Add(Offset), true
}

// Format renders t as the UTC+8 wall clock, microseconds only when non-zero.
func Format(t time.Time) string {
	t = t.In(Zone)
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(wireLayout)
	}
	return t.Format(wireLayoutMicro)
}

// Parse is the inverse of Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05.999999", s, Zone)
}

// FormatAudit renders t for the audit log "time" field.
func FormatAudit(t time.Time) string {
	return t.In(Zone).Format(AuditLayout)
}

// FromStore reinterprets a zone-less timestamp read from the store as a
// UTC+8 wall clock.
func FromStore(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), Zone)
}

// ToStore returns t in Zone at store precision, so the driver writes the
// UTC+8 wall clock into a timestamp without time zone column.
func ToStore(t time.Time) time.Time {
	return t.In(Zone).Truncate(time.Microsecond)
}
