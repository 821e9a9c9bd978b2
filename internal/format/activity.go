package format

import (
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

// ActivitySummary renders one activity.
func ActivitySummary(a record.Record) string {
	start := "Unknown"
	if v, ok := StartTime.In(a); ok {
		start = timestamp(v)
	}

	rpe := na
	if v, ok := RPE.In(a); ok {
		rpe = scaled(v, 10, false)
	}

	feel := na
	if v, ok := a.Get("feel"); ok {
		feel = scaled(v, 5, true)
	}

	v := func(key string) string { return value(a, na, key) }

	var b strings.Builder
	fmt.Fprintf(&b, "\nActivity: %s\n", value(a, record.UnnamedPlaceholder, "name"))
	fmt.Fprintf(&b, "ID: %s\n", v("id"))
	fmt.Fprintf(&b, "Type: %s\n", value(a, "Unknown", "type"))
	fmt.Fprintf(&b, "Date: %s\n", start)
	fmt.Fprintf(&b, "Description: %s\n", v("description"))
	fmt.Fprintf(&b, "Distance: %s meters\n", value(a, "0", "distance"))
	fmt.Fprintf(&b, "Duration: %s seconds\n", field(a, Duration, "0"))
	fmt.Fprintf(&b, "Moving Time: %s seconds\n", v("moving_time"))
	fmt.Fprintf(&b, "Elevation Gain: %s meters\n", field(a, ElevationGain, "0"))
	fmt.Fprintf(&b, "Elevation Loss: %s meters\n", v("total_elevation_loss"))

	b.WriteString("\nPower Data:\n")
	fmt.Fprintf(&b, "Average Power: %s watts\n", field(a, AveragePower, na))
	fmt.Fprintf(&b, "Weighted Avg Power: %s watts\n", v("icu_weighted_avg_watts"))
	fmt.Fprintf(&b, "Training Load: %s\n", field(a, TrainingLoad, na))
	fmt.Fprintf(&b, "FTP: %s watts\n", v("icu_ftp"))
	fmt.Fprintf(&b, "Kilojoules: %s\n", v("icu_joules"))
	fmt.Fprintf(&b, "Intensity: %s\n", v("icu_intensity"))
	fmt.Fprintf(&b, "Power:HR Ratio: %s\n", v("icu_power_hr"))
	fmt.Fprintf(&b, "Variability Index: %s\n", v("icu_variability_index"))

	b.WriteString("\nHeart Rate Data:\n")
	fmt.Fprintf(&b, "Average Heart Rate: %s bpm\n", field(a, AverageHR, na))
	fmt.Fprintf(&b, "Max Heart Rate: %s bpm\n", v("max_heartrate"))
	fmt.Fprintf(&b, "LTHR: %s bpm\n", v("lthr"))
	fmt.Fprintf(&b, "Resting HR: %s bpm\n", v("icu_resting_hr"))
	fmt.Fprintf(&b, "Decoupling: %s\n", v("decoupling"))

	b.WriteString("\nOther Metrics:\n")
	fmt.Fprintf(&b, "Cadence: %s rpm\n", v("average_cadence"))
	fmt.Fprintf(&b, "Calories: %s\n", v("calories"))
	fmt.Fprintf(&b, "Average Speed: %s m/s\n", v("average_speed"))
	fmt.Fprintf(&b, "Max Speed: %s m/s\n", v("max_speed"))
	fmt.Fprintf(&b, "Average Stride: %s\n", v("average_stride"))
	fmt.Fprintf(&b, "L/R Balance: %s\n", v("avg_lr_balance"))
	fmt.Fprintf(&b, "Weight: %s kg\n", v("icu_weight"))
	fmt.Fprintf(&b, "RPE: %s\n", rpe)
	fmt.Fprintf(&b, "Session RPE: %s\n", v("session_rpe"))
	fmt.Fprintf(&b, "Feel: %s\n", feel)

	b.WriteString("\nEnvironment:\n")
	fmt.Fprintf(&b, "Trainer: %s\n", v("trainer"))
	fmt.Fprintf(&b, "Average Temp: %s°C\n", v("average_temp"))
	fmt.Fprintf(&b, "Min Temp: %s°C\n", v("min_temp"))
	fmt.Fprintf(&b, "Max Temp: %s°C\n", v("max_temp"))
	fmt.Fprintf(&b, "Avg Wind Speed: %s km/h\n", v("average_wind_speed"))
	fmt.Fprintf(&b, "Headwind %%: %s%%\n", v("headwind_percent"))
	fmt.Fprintf(&b, "Tailwind %%: %s%%\n", v("tailwind_percent"))

	b.WriteString("\nTraining Metrics:\n")
	fmt.Fprintf(&b, "Fitness (CTL): %s\n", v("icu_ctl"))
	fmt.Fprintf(&b, "Fatigue (ATL): %s\n", v("icu_atl"))
	fmt.Fprintf(&b, "TRIMP: %s\n", v("trimp"))
	fmt.Fprintf(&b, "Polarization Index: %s\n", v("polarization_index"))
	fmt.Fprintf(&b, "Power Load: %s\n", v("power_load"))
	fmt.Fprintf(&b, "HR Load: %s\n", v("hr_load"))
	fmt.Fprintf(&b, "Pace Load: %s\n", v("pace_load"))
	fmt.Fprintf(&b, "Efficiency Factor: %s\n", v("icu_efficiency_factor"))

	b.WriteString("\nDevice Info:\n")
	fmt.Fprintf(&b, "Device: %s\n", v("device_name"))
	fmt.Fprintf(&b, "Power Meter: %s\n", v("power_meter"))
	fmt.Fprintf(&b, "File Type: %s\n", v("file_type"))

	return b.String()
}

// ActivityDetail renders the summary followed by time in each power and
// heart rate zone when the activity carries zone data.
func ActivityDetail(a record.Record) string {
	out := ActivitySummary(a)
	zones := a.Map("zones")
	if zones == nil {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\nPower Zones:\n")
	for _, z := range zones.Records("power") {
		fmt.Fprintf(&b, "Zone %s: %s seconds\n", value(z, na, "number"), value(z, na, "secondsInZone"))
	}
	b.WriteString("\nHeart Rate Zones:\n")
	for _, z := range zones.Records("hr") {
		fmt.Fprintf(&b, "Zone %s: %s seconds\n", value(z, na, "number"), value(z, na, "secondsInZone"))
	}
	return b.String()
}

// Workout renders a planned workout.
func Workout(w record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nWorkout: %s\n", value(w, record.UnnamedPlaceholder, "name"))
	fmt.Fprintf(&b, "Description: %s\n", value(w, "No description", "description"))
	fmt.Fprintf(&b, "Sport: %s\n", value(w, "Unknown", "sport"))
	fmt.Fprintf(&b, "Duration: %s seconds\n", value(w, "0", "duration"))
	fmt.Fprintf(&b, "TSS: %s\n", value(w, na, "tss"))
	fmt.Fprintf(&b, "Intervals: %d\n", len(w.Slice("intervals")))
	return b.String()
}
