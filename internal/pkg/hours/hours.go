// Package hours holds the clock and duration helpers shared by the attendance
// parser, the reconciliation engine and the payroll calculator. Durations are
// decimal hours (float64) everywhere; they are only turned into H:MM for display.
package hours

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	MonthLayout    = "2006-01"
)

var (
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	durationRegex = regexp.MustCompile(`^(\d{1,3}):(\d{2})(?::\d{2})?$`)
)

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes after midnight.
func ParseClock(s string) (int, bool) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, false
	}
	return h*60 + min, true
}

// NormalizeClock returns s as zero-padded "HH:MM", dropping seconds.
func NormalizeClock(s string) (string, bool) {
	minutes, ok := ParseClock(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), true
}

// Between returns end-start in hours for two same-day clock strings.
// The result may be negative when end is before start.
func Between(start, end string) (float64, bool) {
	s, ok := ParseClock(start)
	if !ok {
		return 0, false
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0, false
	}
	return float64(e-s) / 60, true
}

// ParseDuration parses an "H:MM" total such as "3:11" into decimal hours.
// Seconds, when present, are ignored.
func ParseDuration(s string) (float64, bool) {
	m := durationRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if min > 59 {
		return 0, false
	}
	return float64(h) + float64(min)/60, true
}

// Format renders decimal hours as "H:MM", rounding to the nearest minute.
// Negative values keep their sign ("-0:30").
func Format(h float64) string {
	sign := ""
	if h < 0 {
		sign = "-"
		h = -h
	}
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%s%d:%02d", sign, total/60, total%60)
}

// Range renders a "start~end" display range.
func Range(start, end string) string {
	return start + "~" + end
}
