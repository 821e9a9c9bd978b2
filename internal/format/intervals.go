package format

import (
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

// Intervals renders an activity's interval analysis: each detected interval
// followed by any interval groups. Missing metrics render as 0.
func Intervals(data record.Record) string {
	var b strings.Builder
	b.WriteString("Intervals Analysis:\n\n")
	fmt.Fprintf(&b, "ID: %s\n", value(data, na, "id"))
	fmt.Fprintf(&b, "Analyzed: %s\n\n", value(data, na, "analyzed"))

	if list := data.Slice("icu_intervals"); len(list) > 0 {
		b.WriteString("Individual Intervals:\n\n")
		for i, item := range list {
			iv, _ := item.(map[string]any)
			writeInterval(&b, i+1, record.Record(iv))
		}
	}

	if list := data.Slice("icu_groups"); len(list) > 0 {
		b.WriteString("Interval Groups:\n\n")
		for i, item := range list {
			g, _ := item.(map[string]any)
			writeGroup(&b, i+1, record.Record(g))
		}
	}

	return b.String()
}

func writeInterval(b *strings.Builder, n int, iv record.Record) {
	z := func(key string) string { return value(iv, "0", key) }

	fmt.Fprintf(b, "[%d] %s (%s)\n", n, value(iv, fmt.Sprintf("Interval %d", n), "label"), value(iv, "Unknown", "type"))
	fmt.Fprintf(b, "Duration: %s seconds (moving: %s seconds)\n", z("elapsed_time"), z("moving_time"))
	fmt.Fprintf(b, "Distance: %s meters\n", z("distance"))
	fmt.Fprintf(b, "Start-End Indices: %s-%s\n", z("start_index"), z("end_index"))

	b.WriteString("\nPower Metrics:\n")
	fmt.Fprintf(b, "  Average Power: %s watts (%s W/kg)\n", z("average_watts"), z("average_watts_kg"))
	fmt.Fprintf(b, "  Max Power: %s watts (%s W/kg)\n", z("max_watts"), z("max_watts_kg"))
	fmt.Fprintf(b, "  Weighted Avg Power: %s watts\n", z("weighted_average_watts"))
	fmt.Fprintf(b, "  Intensity: %s\n", z("intensity"))
	fmt.Fprintf(b, "  Training Load: %s\n", z("training_load"))
	fmt.Fprintf(b, "  Joules: %s\n", z("joules"))
	fmt.Fprintf(b, "  Joules > FTP: %s\n", z("joules_above_ftp"))
	fmt.Fprintf(b, "  Power Zone: %s (%s-%s watts)\n", value(iv, na, "zone"), z("zone_min_watts"), z("zone_max_watts"))
	fmt.Fprintf(b, "  W' Balance: Start %s, End %s\n", z("wbal_start"), z("wbal_end"))
	fmt.Fprintf(b, "  L/R Balance: %s\n", z("avg_lr_balance"))
	fmt.Fprintf(b, "  Variability: %s\n", z("w5s_variability"))
	fmt.Fprintf(b, "  Torque: Avg %s, Min %s, Max %s\n", z("average_torque"), z("min_torque"), z("max_torque"))

	b.WriteString("\nHeart Rate & Metabolic:\n")
	fmt.Fprintf(b, "  Heart Rate: Avg %s, Min %s, Max %s bpm\n", z("average_heartrate"), z("min_heartrate"), z("max_heartrate"))
	fmt.Fprintf(b, "  Decoupling: %s\n", z("decoupling"))
	fmt.Fprintf(b, "  DFA α1: %s\n", z("average_dfa_a1"))
	fmt.Fprintf(b, "  Respiration: %s breaths/min\n", z("average_respiration"))
	fmt.Fprintf(b, "  EPOC: %s\n", z("average_epoc"))
	fmt.Fprintf(b, "  SmO2: %s%% / %s%%\n", z("average_smo2"), z("average_smo2_2"))
	fmt.Fprintf(b, "  THb: %s / %s\n", z("average_thb"), z("average_thb_2"))

	b.WriteString("\nSpeed & Cadence:\n")
	fmt.Fprintf(b, "  Speed: Avg %s, Min %s, Max %s m/s\n", z("average_speed"), z("min_speed"), z("max_speed"))
	fmt.Fprintf(b, "  GAP: %s m/s\n", z("gap"))
	fmt.Fprintf(b, "  Cadence: Avg %s, Min %s, Max %s rpm\n", z("average_cadence"), z("min_cadence"), z("max_cadence"))
	fmt.Fprintf(b, "  Stride: %s\n", z("average_stride"))

	b.WriteString("\nElevation & Environment:\n")
	fmt.Fprintf(b, "  Elevation Gain: %s meters\n", z("total_elevation_gain"))
	fmt.Fprintf(b, "  Altitude: Min %s, Max %s meters\n", z("min_altitude"), z("max_altitude"))
	fmt.Fprintf(b, "  Gradient: %s%%\n", z("average_gradient"))
	fmt.Fprintf(b, "  Temperature: %s°C (Weather: %s°C, Feels like: %s°C)\n", z("average_temp"), z("average_weather_temp"), z("average_feels_like"))
	fmt.Fprintf(b, "  Wind: Speed %s km/h, Gust %s km/h, Direction %s°\n", z("average_wind_speed"), z("average_wind_gust"), z("prevailing_wind_deg"))
	fmt.Fprintf(b, "  Headwind: %s%%, Tailwind: %s%%\n\n", z("headwind_percent"), z("tailwind_percent"))
}

func writeGroup(b *strings.Builder, n int, g record.Record) {
	z := func(key string) string { return value(g, "0", key) }

	fmt.Fprintf(b, "Group: %s (Contains %s intervals)\n", value(g, fmt.Sprintf("Group %d", n), "id"), z("count"))
	fmt.Fprintf(b, "Duration: %s seconds (moving: %s seconds)\n", z("elapsed_time"), z("moving_time"))
	fmt.Fprintf(b, "Distance: %s meters\n", z("distance"))
	fmt.Fprintf(b, "Start-End Indices: %s-N/A\n\n", z("start_index"))
	fmt.Fprintf(b, "Power: Avg %s watts (%s W/kg), Max %s watts\n", z("average_watts"), z("average_watts_kg"), z("max_watts"))
	fmt.Fprintf(b, "W. Avg Power: %s watts, Intensity: %s\n", z("weighted_average_watts"), z("intensity"))
	fmt.Fprintf(b, "Heart Rate: Avg %s, Max %s bpm\n", z("average_heartrate"), z("max_heartrate"))
	fmt.Fprintf(b, "Speed: Avg %s, Max %s m/s\n", z("average_speed"), z("max_speed"))
	fmt.Fprintf(b, "Cadence: Avg %s, Max %s rpm\n\n", z("average_cadence"), z("max_cadence"))
}
