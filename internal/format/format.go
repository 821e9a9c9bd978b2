// Package format renders API records as plain text for tool output.
// Every formatter is total: missing or mistyped fields render as a
// placeholder instead of failing.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

const na = "N/A"

// Field aliases shared by the formatters.
var (
	StartTime     = record.Field{"startTime", "start_date"}
	Duration      = record.Field{"duration", "elapsed_time"}
	ElevationGain = record.Field{"elevationGain", "total_elevation_gain"}
	AveragePower  = record.Field{"avgPower", "icu_average_watts", "average_watts"}
	TrainingLoad  = record.Field{"trainingLoad", "icu_training_load"}
	AverageHR     = record.Field{"avgHr", "average_heartrate"}
	RPE           = record.Field{"perceived_exertion", "icu_rpe"}
	EventDate     = record.Field{"start_date_local", "date"}
	Weight        = record.Field{"icu_weight", "weight"}
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// value renders the first present alias, or placeholder.
func value(r record.Record, placeholder string, keys ...string) string {
	v, ok := r.First(keys...)
	if !ok {
		return placeholder
	}
	return record.Text(v)
}

func field(r record.Record, f record.Field, placeholder string) string {
	return value(r, placeholder, f...)
}

// trimmed renders a string field with surrounding space removed.
func trimmed(r record.Record, key, placeholder string) string {
	s, ok := r.String(key)
	if !ok {
		return placeholder
	}
	return strings.TrimSpace(s)
}

// timestamp renders full ISO timestamps as "YYYY-MM-DD HH:MM:SS" and
// leaves anything else untouched.
func timestamp(v any) string {
	s, ok := v.(string)
	if !ok || len(s) <= 10 {
		return record.Text(v)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return s
}

// scaled renders a numeric value as "<n>/<scale>", or falls back to its
// text form.
func scaled(v any, scale int, integerOnly bool) string {
	n, ok := record.Number(v)
	if !ok || (integerOnly && n != float64(int64(n))) {
		return record.Text(v)
	}
	return record.Text(n) + "/" + strconv.Itoa(scale)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
