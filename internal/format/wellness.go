package format

import (
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

// WellnessEntry renders one day of wellness data.
func WellnessEntry(e record.Record) string {
	sleep := na
	if secs, ok := e.Number("sleepSecs"); ok {
		sleep = fmt.Sprintf("%.2f", secs/3600)
	} else if v, ok := e.Get("sleepHours"); ok {
		sleep = record.Text(v)
	}

	phase := func(key string) string {
		s, ok := e.String(key)
		if !ok || s == "" {
			return na
		}
		return capitalize(s)
	}

	var sports []string
	for _, s := range e.Records("sportInfo") {
		sports = append(sports, fmt.Sprintf("  * %s: eFTP = %s", value(s, "Unknown", "type"), value(s, na, "eftp")))
	}
	sportInfo := "  None available"
	if len(sports) > 0 {
		sportInfo = strings.Join(sports, "\n")
	}

	status := "Unlocked"
	if e.Truthy("locked") {
		status = "Locked"
	}

	v := func(key string) string { return value(e, na, key) }

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", value(e, "Unknown date", "date"))
	fmt.Fprintf(&b, "ID: %s\n", v("id"))

	b.WriteString("\nTraining Metrics:\n")
	fmt.Fprintf(&b, "  Fitness (CTL): %s\n", v("ctl"))
	fmt.Fprintf(&b, "  Fatigue (ATL): %s\n", v("atl"))
	fmt.Fprintf(&b, "  Ramp Rate: %s\n", v("rampRate"))
	fmt.Fprintf(&b, "  CTL Load: %s\n", v("ctlLoad"))
	fmt.Fprintf(&b, "  ATL Load: %s\n", v("atlLoad"))

	fmt.Fprintf(&b, "\nSport-Specific Info:\n%s\n", sportInfo)

	b.WriteString("\nVital Signs:\n")
	fmt.Fprintf(&b, "  Weight: %s kg\n", v("weight"))
	fmt.Fprintf(&b, "  Resting HR: %s bpm\n", v("restingHR"))
	fmt.Fprintf(&b, "  HRV: %s\n", v("hrv"))
	fmt.Fprintf(&b, "  HRV SDNN: %s\n", v("hrvSDNN"))
	fmt.Fprintf(&b, "  Average Sleeping HR: %s bpm\n", v("avgSleepingHR"))
	fmt.Fprintf(&b, "  SpO2: %s%%\n", v("spO2"))
	fmt.Fprintf(&b, "  Blood Pressure: %s/%s mmHg\n", v("systolic"), v("diastolic"))
	fmt.Fprintf(&b, "  Respiration: %s breaths/min\n", v("respiration"))
	fmt.Fprintf(&b, "  Blood Glucose: %s mmol/L\n", v("bloodGlucose"))
	fmt.Fprintf(&b, "  Lactate: %s mmol/L\n", v("lactate"))
	fmt.Fprintf(&b, "  VO2 Max: %s ml/kg/min\n", v("vo2max"))
	fmt.Fprintf(&b, "  Body Fat: %s%%\n", v("bodyFat"))
	fmt.Fprintf(&b, "  Abdomen: %s cm\n", v("abdomen"))
	fmt.Fprintf(&b, "  Baevsky Stress Index: %s\n", v("baevskySI"))

	b.WriteString("\nSleep & Recovery:\n")
	fmt.Fprintf(&b, "  Sleep: %s hours\n", sleep)
	fmt.Fprintf(&b, "  Sleep Score: %s\n", v("sleepScore"))
	fmt.Fprintf(&b, "  Sleep Quality: %s/4\n", v("sleepQuality"))
	fmt.Fprintf(&b, "  Readiness Score: %s\n", v("readiness"))

	b.WriteString("\nMenstrual Tracking:\n")
	fmt.Fprintf(&b, "  Menstrual Phase: %s\n", phase("menstrualPhase"))
	fmt.Fprintf(&b, "  Predicted Phase: %s\n", phase("menstrualPhasePredicted"))

	b.WriteString("\nSubjective Feelings:\n")
	fmt.Fprintf(&b, "  Soreness: %s/14\n", v("soreness"))
	fmt.Fprintf(&b, "  Fatigue: %s/4\n", v("fatigue"))
	fmt.Fprintf(&b, "  Stress: %s/4\n", v("stress"))
	fmt.Fprintf(&b, "  Mood: %s/4\n", v("mood"))
	fmt.Fprintf(&b, "  Motivation: %s/4\n", v("motivation"))
	fmt.Fprintf(&b, "  Injury Level: %s/4\n", v("injury"))

	b.WriteString("\nNutrition & Hydration:\n")
	fmt.Fprintf(&b, "  Calories Consumed: %s kcal\n", v("kcalConsumed"))
	fmt.Fprintf(&b, "  Hydration Score: %s/4\n", v("hydration"))
	fmt.Fprintf(&b, "  Hydration Volume: %s ml\n", v("hydrationVolume"))

	b.WriteString("\nActivity:\n")
	fmt.Fprintf(&b, "  Steps: %s\n", v("steps"))

	fmt.Fprintf(&b, "\nComments: %s\n", value(e, "No comments", "comments"))
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Last Updated: %s", value(e, "Unknown", "updated"))

	return b.String()
}
