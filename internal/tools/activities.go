package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/activity"
	"github.com/kokistudios/intervals-mcp/internal/format"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
)

// DefaultActivityLimit is the number of activities listed when the caller
// does not ask for a specific count.
const DefaultActivityLimit = 10

// ActivitiesArgs defines the input for get_activities.
type ActivitiesArgs struct {
	AthleteID      string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey         string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	StartDate      string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional, defaults to 30 days ago)"`
	EndDate        string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional, defaults to today)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum number of activities to return (optional, defaults to 10)"`
	IncludeUnnamed bool   `json:"include_unnamed,omitempty" jsonschema:"Whether to include unnamed activities (optional, defaults to false)"`
}

// ActivityArgs identifies a single activity.
type ActivityArgs struct {
	ActivityID string `json:"activity_id" jsonschema:"The Intervals.icu activity ID"`
	APIKey     string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
}

// ActivityPowerCurvesArgs defines the input for get_activity_power_curves.
type ActivityPowerCurvesArgs struct {
	ActivityID string `json:"activity_id" jsonschema:"The Intervals.icu activity ID"`
	APIKey     string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	Type       string `json:"type,omitempty" jsonschema:"The curve type (optional, defaults to power)"`
}

// ActivityPaceCurveArgs defines the input for get_activity_pace_curve.
type ActivityPaceCurveArgs struct {
	ActivityID string `json:"activity_id" jsonschema:"The Intervals.icu activity ID"`
	APIKey     string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	GAP        bool   `json:"gap,omitempty" jsonschema:"Use gradient adjusted pace (optional, defaults to false)"`
}

// ErrNoAthlete is returned when neither the call nor the toolset names an
// athlete.
var ErrNoAthlete = errors.New("no athlete ID provided and no default ATHLETE_ID configured")

// ActivityRequest resolves the athlete, the date window (default the last 30
// days) and the limit (default DefaultActivityLimit) for an activities query.
func (t *Toolset) ActivityRequest(args ActivitiesArgs) (activity.Request, error) {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return activity.Request{}, ErrNoAthlete
	}
	start, end := t.window(args.StartDate, args.EndDate, -30, 0)
	w, err := activity.ParseWindow(start, end)
	if err != nil {
		return activity.Request{}, err
	}
	limit := args.Limit
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return activity.Request{
		AthleteID:      athleteID,
		Window:         w,
		TargetCount:    limit,
		IncludeUnnamed: args.IncludeUnnamed,
		APIKey:         args.APIKey,
	}, nil
}

// Activities lists named activities in a date window, backfilling from
// earlier dates when too few are named.
func (t *Toolset) Activities(ctx context.Context, args ActivitiesArgs) Reply {
	req, err := t.ActivityRequest(args)
	if errors.Is(err, ErrNoAthlete) {
		return text(missingAthlete)
	}
	if err != nil {
		return textf("Error: %v", err)
	}

	activities, f := t.aggregator.Aggregate(ctx, req)
	if f != nil {
		return failed("activities", f)
	}
	if len(activities) == 0 {
		if args.IncludeUnnamed {
			return textf("No valid activities found for athlete %s in the specified date range.", req.AthleteID)
		}
		return textf("No named activities found for athlete %s in the specified date range. Try with include_unnamed=true to see all activities.", req.AthleteID)
	}

	var b strings.Builder
	b.WriteString("Activities:\n\n")
	for _, a := range activities {
		b.WriteString(format.ActivitySummary(a))
		b.WriteString("\n")
	}
	return text(b.String())
}

// ActivityDetails renders one activity with its zone breakdown.
func (t *Toolset) ActivityDetails(ctx context.Context, args ActivityArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	res := t.send(ctx, "/activity/"+args.ActivityID, nil, args.APIKey)
	if !res.OK() {
		return failed("activity details", res.Failure)
	}
	if res.Payload.IsEmpty() {
		return textf("No details found for activity %s.", args.ActivityID)
	}

	a, ok := res.Payload.Object()
	if list, isList := res.Payload.List(); isList {
		a, ok = first(list)
	}
	if !ok {
		return textf("Invalid activity format for activity %s.", args.ActivityID)
	}
	return text(format.ActivityDetail(a))
}

// ActivityIntervals renders the interval analysis of an activity.
func (t *Toolset) ActivityIntervals(ctx context.Context, args ActivityArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	res := t.send(ctx, fmt.Sprintf("/activity/%s/intervals", args.ActivityID), nil, args.APIKey)
	if !res.OK() {
		return failed("intervals", res.Failure)
	}
	if res.Payload.IsEmpty() {
		return textf("No interval data found for activity %s.", args.ActivityID)
	}
	obj, ok := res.Payload.Object()
	if !ok || (!obj.Has("icu_intervals") && !obj.Has("icu_groups")) {
		return textf("No interval data or unrecognized format for activity %s.", args.ActivityID)
	}
	return text(format.Intervals(obj))
}

// ActivityPowerCurves returns the raw power curve list of an activity.
func (t *Toolset) ActivityPowerCurves(ctx context.Context, args ActivityPowerCurvesArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	curveType := args.Type
	if curveType == "" {
		curveType = "power"
	}
	res := t.send(ctx, fmt.Sprintf("/activity/%s/power-curves", args.ActivityID), intervals.Params{"type": curveType}, args.APIKey)
	if !res.OK() {
		return failed("activity power curve", res.Failure)
	}
	return data(listOrEmpty(res))
}

// ActivityPaceCurve returns the raw pace curve of an activity.
func (t *Toolset) ActivityPaceCurve(ctx context.Context, args ActivityPaceCurveArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	res := t.send(ctx, fmt.Sprintf("/activity/%s/pace-curve.json", args.ActivityID), intervals.Params{"gap": args.GAP}, args.APIKey)
	if !res.OK() {
		return failed("activity pace curve", res.Failure)
	}
	return data(objectOrEmpty(res))
}

// ActivityPowerVsHR returns power against heart rate buckets for an activity.
func (t *Toolset) ActivityPowerVsHR(ctx context.Context, args ActivityArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	res := t.send(ctx, fmt.Sprintf("/activity/%s/power-vs-hr", args.ActivityID), nil, args.APIKey)
	if !res.OK() {
		return failed("activity power vs HR data", res.Failure)
	}
	return data(objectOrEmpty(res))
}

// ActivityHRCurve returns the heart rate curve of an activity.
func (t *Toolset) ActivityHRCurve(ctx context.Context, args ActivityArgs) Reply {
	if args.ActivityID == "" {
		return text(missingActivity)
	}
	res := t.send(ctx, fmt.Sprintf("/activity/%s/hr-curve.json", args.ActivityID), nil, args.APIKey)
	if !res.OK() {
		return failed("activity HR curve", res.Failure)
	}
	return data(objectOrEmpty(res))
}
