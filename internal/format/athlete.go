package format

import (
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

// openZone marks the open-ended top zone in percentage zone tables.
const openZone = 999

// AthleteProfile renders an athlete as a Markdown profile with per-sport
// training zones.
func AthleteProfile(a record.Record) string {
	if len(a) == 0 {
		return "No athlete data available"
	}

	weight := na
	if v, ok := Weight.In(a); ok && record.Truthy(v) {
		weight = record.Text(v) + " kg"
	}
	height := na
	if a.Truthy("height") {
		height = value(a, na, "height") + " m"
	}

	var location []string
	for _, k := range []string{"city", "state", "country"} {
		if s, ok := a.String(k); ok && s != "" {
			location = append(location, s)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Athlete Profile: %s\n\n", value(a, "Unknown", "name"))
	b.WriteString("## Basic Information\n")
	fmt.Fprintf(&b, "- **ID**: %s\n", value(a, na, "id"))
	fmt.Fprintf(&b, "- **Gender**: %s\n", value(a, na, "sex"))
	fmt.Fprintf(&b, "- **Location**: %s\n", strings.Join(location, ", "))
	fmt.Fprintf(&b, "- **Height**: %s\n", height)
	fmt.Fprintf(&b, "- **Weight**: %s\n", weight)
	fmt.Fprintf(&b, "- **Resting HR**: %s bpm\n", value(a, na, "icu_resting_hr"))
	fmt.Fprintf(&b, "- **Date of Birth**: %s\n", value(a, na, "icu_date_of_birth"))
	fmt.Fprintf(&b, "- **Timezone**: %s\n", value(a, na, "timezone"))
	fmt.Fprintf(&b, "- **Units**: %s\n\n", value(a, na, "measurement_preference"))

	if settings := a.Records("sportSettings"); len(settings) > 0 {
		b.WriteString("## Sport-Specific Training Zones\n\n")
		for _, s := range settings {
			writeSportSetting(&b, s)
		}
	}

	if a.Truthy("bio") {
		fmt.Fprintf(&b, "## Bio\n%s\n\n", value(a, "", "bio"))
	}

	b.WriteString("## Additional Information\n")
	if a.Truthy("plan") {
		fmt.Fprintf(&b, "- **Plan**: %s\n", value(a, "", "plan"))
	}
	if s, ok := a.String("icu_activated"); ok && s != "" {
		if len(s) > 10 {
			s = s[:10]
		}
		fmt.Fprintf(&b, "- **Member Since**: %s\n", s)
	}
	if a.Truthy("website") {
		fmt.Fprintf(&b, "- **Website**: %s\n", value(a, "", "website"))
	}

	return strings.TrimRight(b.String(), " \t\r\n")
}

func sportName(primary string) string {
	switch {
	case strings.Contains(primary, "Ride"):
		return "Cycling"
	case strings.Contains(primary, "Run"):
		return "Running"
	case strings.Contains(primary, "Swim"):
		return "Swimming"
	case strings.Contains(primary, "Workout"):
		return "General Workout"
	}
	return primary
}

func writeSportSetting(b *strings.Builder, s record.Record) {
	var types []string
	for _, t := range s.Slice("types") {
		types = append(types, record.Text(t))
	}
	if len(types) == 0 {
		return
	}

	fmt.Fprintf(b, "### %s\n", sportName(types[0]))
	fmt.Fprintf(b, "**Activity Types**: %s\n\n", strings.Join(types, ", "))

	writeHeartRate(b, s)
	writePower(b, s)
	writePace(b, s)

	if s.Truthy("warmup_time") || s.Truthy("cooldown_time") {
		b.WriteString("**Training Settings**:\n")
		if secs, ok := s.Number("warmup_time"); ok && secs != 0 {
			fmt.Fprintf(b, "- Warmup Time: %d minutes\n", int64(secs)/60)
		}
		if secs, ok := s.Number("cooldown_time"); ok && secs != 0 {
			fmt.Fprintf(b, "- Cooldown Time: %d minutes\n", int64(secs)/60)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func numbers(list []any) ([]float64, bool) {
	out := make([]float64, 0, len(list))
	for _, v := range list {
		n, ok := record.Number(v)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func texts(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, record.Text(v))
	}
	return out
}

func num(f float64) string {
	return record.Text(f)
}

func writeHeartRate(b *strings.Builder, s record.Record) {
	if !s.Truthy("lthr") && !s.Truthy("max_hr") {
		return
	}
	b.WriteString("**Heart Rate**:\n")
	if s.Truthy("lthr") {
		fmt.Fprintf(b, "- LTHR: %s bpm\n", value(s, na, "lthr"))
	}
	if s.Truthy("max_hr") {
		fmt.Fprintf(b, "- Max HR: %s bpm\n", value(s, na, "max_hr"))
	}

	zones, ok := numbers(s.Slice("hr_zones"))
	names := texts(s.Slice("hr_zone_names"))
	if ok && len(zones) > 0 && len(names) > 0 {
		b.WriteString("- HR Zones:\n")
		for i := 0; i < len(zones) && i < len(names); i++ {
			lo := 0.0
			if i > 0 {
				lo = zones[i-1]
			}
			if i == len(zones)-1 {
				fmt.Fprintf(b, "  - **%s**: %s+ bpm\n", names[i], num(lo+1))
			} else {
				fmt.Fprintf(b, "  - **%s**: %s-%s bpm\n", names[i], num(lo+1), num(zones[i]))
			}
		}
	}
	b.WriteString("\n")
}

func writePower(b *strings.Builder, s record.Record) {
	if !s.Truthy("ftp") && !s.Truthy("power_zones") {
		return
	}
	b.WriteString("**Power**:\n")
	if s.Truthy("ftp") {
		fmt.Fprintf(b, "- FTP: %s watts\n", value(s, na, "ftp"))
	}
	if s.Truthy("w_prime") {
		fmt.Fprintf(b, "- W': %s joules\n", value(s, na, "w_prime"))
	}
	if s.Truthy("sweet_spot_min") && s.Truthy("sweet_spot_max") {
		fmt.Fprintf(b, "- Sweet Spot: %s-%s%% FTP\n", value(s, na, "sweet_spot_min"), value(s, na, "sweet_spot_max"))
	}

	zones, ok := numbers(s.Slice("power_zones"))
	names := texts(s.Slice("power_zone_names"))
	if ok && len(zones) > 0 && len(names) > 0 {
		ftp, _ := s.Number("ftp")
		watts := func(pct float64) int64 {
			if ftp == 0 {
				return 0
			}
			return int64(ftp * pct / 100)
		}
		b.WriteString("- Power Zones:\n")
		for i := 0; i < len(zones) && i < len(names); i++ {
			lo := 0.0
			if i > 0 {
				lo = zones[i-1]
			}
			if zones[i] >= openZone {
				fmt.Fprintf(b, "  - **%s**: %s%%+ FTP (%d+ watts)\n", names[i], num(lo+1), watts(lo))
				continue
			}
			hi := "∞"
			if ftp != 0 {
				hi = fmt.Sprintf("%d", watts(zones[i]))
			}
			fmt.Fprintf(b, "  - **%s**: %s-%s%% FTP (%d-%s watts)\n", names[i], num(lo+1), num(zones[i]), watts(lo), hi)
		}
	}
	b.WriteString("\n")
}

func writePace(b *strings.Builder, s record.Record) {
	if !s.Truthy("threshold_pace") && !s.Truthy("pace_zones") {
		return
	}
	b.WriteString("**Pace**:\n")
	if pace, ok := s.Number("threshold_pace"); ok && pace != 0 {
		units := "MINS_KM"
		if u, ok := s.String("pace_units"); ok {
			units = u
		}
		var display string
		switch units {
		case "MINS_KM":
			perKm := 0.0
			if pace > 0 {
				perKm = 1000 / (pace * 60)
			}
			display = fmt.Sprintf("%.2f min/km", perKm)
		case "SECS_100M":
			per100 := 0.0
			if pace > 0 {
				per100 = 100 / pace
			}
			display = fmt.Sprintf("%.1f sec/100m", per100)
		default:
			display = fmt.Sprintf("%.2f %s", pace, units)
		}
		fmt.Fprintf(b, "- Threshold Pace: %s\n", display)
	}

	zones, ok := numbers(s.Slice("pace_zones"))
	names := texts(s.Slice("pace_zone_names"))
	if ok && len(zones) > 0 && len(names) > 0 {
		b.WriteString("- Pace Zones:\n")
		for i := 0; i < len(zones) && i < len(names); i++ {
			lo := 0.0
			if i > 0 {
				lo = zones[i-1]
			}
			if zones[i] >= openZone {
				fmt.Fprintf(b, "  - **%s**: %s%%+ threshold\n", names[i], num(lo+1))
			} else {
				fmt.Fprintf(b, "  - **%s**: %s-%.1f%% threshold\n", names[i], num(lo+1), zones[i])
			}
		}
	}
	b.WriteString("\n")
}
