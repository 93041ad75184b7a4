package hl7

import (
	"regexp"
	"strconv"
	"time"
)

// HL7 TS grammar: mandatory 4-digit year, then left-to-right truncatable
// 2-digit groups for month/day/hour/minute/second, optional fractional
// seconds and optional signed 4-digit UTC offset, e.g. 20250502130000+0600.
var tsRegexp = regexp.MustCompile(`^(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\.\d+)?([+-]\d{4})?$`)

// ParseTimestamp decodes an HL7 TS value into a timezone-aware instant.
// Missing month and day default to 01; missing time parts default to 00.
// When the value carries no UTC offset the instant is assumed UTC; the
// wire format gives no guarantee either way, so this is a documented
// assumption rather than spec behavior. The second return value is false
// when the input is empty or does not match the grammar; callers treat
// that as "field absent", not as a failure.
func ParseTimestamp(value string) (time.Time, bool) {
	m := tsRegexp.FindStringSubmatch(value)
	if value == "" || m == nil {
		return time.Time{}, false
	}

	year := mustAtoi(m[1])
	month := atoiOr(m[2], 1)
	day := atoiOr(m[3], 1)
	hour := atoiOr(m[4], 0)
	minute := atoiOr(m[5], 0)
	second := atoiOr(m[6], 0)

	var micro int
	if frac := m[7]; frac != "" {
		digits := frac[1:] + "000000"
		micro = mustAtoi(digits[:6])
	}

	loc := time.UTC
	if tz := m[8]; tz != "" {
		sign := 1
		if tz[0] == '-' {
			sign = -1
		}
		offset := sign * (mustAtoi(tz[1:3])*3600 + mustAtoi(tz[3:5])*60)
		loc = time.FixedZone(tz, offset)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, micro*1000, loc), true
}

// ParseDate shares the TS grammar but keeps only the calendar date, for
// DOB-style fields that may carry a stray time component.
func ParseDate(value string) (time.Time, bool) {
	t, ok := ParseTimestamp(value)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// ToISO8601Z renders an instant in UTC as an ISO-8601 string with a
// literal Z suffix, never a numeric +00:00 offset.
func ToISO8601Z(t time.Time) string {
	utc := t.UTC()
	if utc.Nanosecond() != 0 {
		return utc.Format("2006-01-02T15:04:05.000000Z")
	}
	return utc.Format("2006-01-02T15:04:05Z")
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	return mustAtoi(s)
}
