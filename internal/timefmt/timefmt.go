// Package timefmt renders session timestamps as coarse relative strings
// ("5 minutes ago", "1 hour ago", "3 days ago").
package timefmt

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Unknown is rendered for timestamps that cannot be parsed.
const Unknown = "unknown"

// magnitudes has no week, month or year units. Integer division floors each
// count, and the singular forms are spelled out.
var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: 24 * time.Hour, Format: "%d hours %s", DivBy: time.Hour},
	{D: 48 * time.Hour, Format: "1 day %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d days %s", DivBy: 24 * time.Hour},
}

// layouts accepted by Parse, tried in order. Layouts without a zone parse as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Parse reads a stored session timestamp.
func Parse(timestamp string) (time.Time, error) {
	s := strings.TrimSpace(timestamp)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", timestamp)
}

// RelativeTime describes how long before now t was. Times in the future are
// treated as now.
func RelativeTime(t, now time.Time) string {
	if t.After(now) {
		t = now
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", magnitudes)
}

// Relative parses timestamp and renders it relative to now, or Unknown.
func Relative(timestamp string, now time.Time) string {
	t, err := Parse(timestamp)
	if err != nil {
		return Unknown
	}
	return RelativeTime(t, now)
}
