package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/format"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

// CurvesArgs defines the input for the athlete power and pace curve tools.
type CurvesArgs struct {
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	Curves    string `json:"curves,omitempty" jsonschema:"Comma separated curves: 1y, 2y, 42d, s0 (current season), s1, all, or r.2023-10-01.2023-10-31 (optional, defaults to 42d)"`
	Type      string `json:"type,omitempty" jsonschema:"The sport, e.g. Ride, Run, Swim (optional)"`
}

// AthleteProfileArgs defines the input for get_athlete.
type AthleteProfileArgs struct {
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	Format    string `json:"format,omitempty" jsonschema:"Output format: 'json' (default) or 'markdown' for a readable profile"`
}

// Wellness renders wellness entries, by default for the last 30 days.
func (t *Toolset) Wellness(ctx context.Context, args RangeArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	start, end := t.window(args.StartDate, args.EndDate, -30, 0)

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/wellness", athleteID), intervals.Params{"oldest": start, "newest": end}, args.APIKey)
	if !res.OK() {
		return failed("wellness data", res.Failure)
	}
	if res.Payload.IsEmpty() {
		return textf("No wellness data found for athlete %s in the specified date range.", athleteID)
	}

	var b strings.Builder
	b.WriteString("Wellness Data:\n\n")
	for _, entry := range record.ProjectByDate(res.Payload) {
		b.WriteString(format.WellnessEntry(entry))
		b.WriteString("\n\n")
	}
	return text(b.String())
}

// Athlete returns the athlete profile as JSON, or as Markdown on request.
func (t *Toolset) Athlete(ctx context.Context, args AthleteProfileArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	res := t.send(ctx, "/athlete/"+athleteID, nil, args.APIKey)
	if !res.OK() {
		return failed("athlete data", res.Failure)
	}
	profile := objectOrEmpty(res)
	if strings.EqualFold(args.Format, "markdown") {
		return text(format.AthleteProfile(profile))
	}
	return data(profile)
}

// PowerCurves returns the athlete's best power curves.
func (t *Toolset) PowerCurves(ctx context.Context, args CurvesArgs) Reply {
	return t.curves(ctx, args, "power-curves", "Ride", "power curves")
}

// PaceCurves returns the athlete's best pace curves.
func (t *Toolset) PaceCurves(ctx context.Context, args CurvesArgs) Reply {
	return t.curves(ctx, args, "pace-curves", "Run", "pace curves")
}

func (t *Toolset) curves(ctx context.Context, args CurvesArgs, endpoint, sport, noun string) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	curves := args.Curves
	if curves == "" {
		curves = "42d"
	}
	if args.Type != "" {
		sport = args.Type
	}

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/%s", athleteID, endpoint), intervals.Params{"curves": curves, "type": sport}, args.APIKey)
	if !res.OK() {
		return failed(noun, res.Failure)
	}
	return data(listField(res, "list"))
}

// PowerHRCurve returns the athlete's power against heart rate curve, by
// default for the last 30 days.
func (t *Toolset) PowerHRCurve(ctx context.Context, args RangeArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	start, end := t.window(args.StartDate, args.EndDate, -30, 0)

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/power-hr-curve", athleteID), intervals.Params{"start": start, "end": end}, args.APIKey)
	if !res.OK() {
		return failed("power-HR curve", res.Failure)
	}
	return data(objectOrEmpty(res))
}
