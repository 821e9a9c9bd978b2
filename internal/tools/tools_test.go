package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokistudios/intervals-mcp/internal/activity"
	"github.com/kokistudios/intervals-mcp/internal/dateinfo"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// routedSender answers by path. Each path serves its results in order and
// repeats the last one; unknown paths get an empty list.
type routedSender struct {
	routes map[string][]intervals.Result
	specs  []intervals.RequestSpec
}

func (s *routedSender) Send(_ context.Context, spec intervals.RequestSpec) intervals.Result {
	s.specs = append(s.specs, spec)
	queue := s.routes[spec.Path]
	if len(queue) == 0 {
		return intervals.Result{Payload: record.NewPayload([]any{})}
	}
	res := queue[0]
	if len(queue) > 1 {
		s.routes[spec.Path] = queue[1:]
	}
	return res
}

func (s *routedSender) paths() []string {
	var out []string
	for _, spec := range s.specs {
		out = append(out, spec.Path)
	}
	return out
}

func body(t *testing.T, raw string) intervals.Result {
	t.Helper()
	p, err := record.DecodePayload([]byte(raw))
	require.NoError(t, err)
	return intervals.Result{Payload: p}
}

func boom() intervals.Result {
	return intervals.Result{Failure: &intervals.Failure{Kind: intervals.RequestError, Message: "Request error: boom"}}
}

func newToolset(routes map[string][]intervals.Result) (*Toolset, *routedSender) {
	if routes == nil {
		routes = map[string][]intervals.Result{}
	}
	s := &routedSender{routes: routes}
	return New(s, "i1", nil, WithClock(func() time.Time { return fixedNow })), s
}

func TestActivities(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/activities": {
			body(t, `[{"name":"Morning Ride","id":1,"startTime":"2024-03-14T07:00:00Z","distance":1000},{"name":"Unnamed"}]`),
			body(t, `[]`),
		},
	})

	out := ts.Activities(context.Background(), ActivitiesArgs{}).String()

	assert.True(t, strings.HasPrefix(out, "Activities:\n\n"))
	assert.Contains(t, out, "Activity: Morning Ride")
	assert.Equal(t, 1, strings.Count(out, "Activity: "))
	require.Len(t, s.specs, 2)
	assert.Equal(t, intervals.Params{"oldest": "2024-02-14", "newest": "2024-03-15", "limit": 30}, s.specs[0].Params)
	assert.Equal(t, intervals.Params{"oldest": "2023-12-16", "newest": "2024-02-13", "limit": 30}, s.specs[1].Params)
}

func TestActivitiesEmpty(t *testing.T) {
	ts, _ := newToolset(map[string][]intervals.Result{
		"/athlete/i1/activities": {body(t, `[{"name":"Unnamed"}]`), body(t, `[]`)},
	})
	out := ts.Activities(context.Background(), ActivitiesArgs{Limit: 2}).String()
	assert.Equal(t, "No named activities found for athlete i1 in the specified date range. Try with include_unnamed=true to see all activities.", out)

	ts, _ = newToolset(nil)
	out = ts.Activities(context.Background(), ActivitiesArgs{IncludeUnnamed: true}).String()
	assert.Equal(t, "No valid activities found for athlete i1 in the specified date range.", out)
}

func TestActivitiesOverridesAndErrors(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{"/athlete/42/activities": {boom()}})
	out := ts.Activities(context.Background(), ActivitiesArgs{AthleteID: "42", APIKey: "other", StartDate: "2024-01-01", EndDate: "2024-01-31"}).String()
	assert.Equal(t, "Error fetching activities: Request error: boom", out)
	require.Len(t, s.specs, 1)
	assert.Equal(t, "other", s.specs[0].APIKey)

	out = ts.Activities(context.Background(), ActivitiesArgs{StartDate: "01/01/2024"}).String()
	assert.True(t, strings.HasPrefix(out, "Error: invalid oldest date"))
}

func TestActivityRequest(t *testing.T) {
	ts, _ := newToolset(nil)

	req, err := ts.ActivityRequest(ActivitiesArgs{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, "i1", req.AthleteID)
	assert.Equal(t, DefaultActivityLimit, req.TargetCount)
	assert.Equal(t, "2024-02-14", req.Window.Oldest.Format(activity.DateLayout))
	assert.Equal(t, "2024-03-15", req.Window.Newest.Format(activity.DateLayout))

	req, err = ts.ActivityRequest(ActivitiesArgs{AthleteID: "i9", StartDate: "2024-01-01", EndDate: "2024-01-31", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, "i9", req.AthleteID)
	assert.Equal(t, 3, req.TargetCount)
	assert.Equal(t, "2024-01-01", req.Window.Oldest.Format(activity.DateLayout))

	_, err = ts.ActivityRequest(ActivitiesArgs{StartDate: "yesterday"})
	assert.Error(t, err)

	noDefault := New(&routedSender{routes: map[string][]intervals.Result{}}, "", nil)
	_, err = noDefault.ActivityRequest(ActivitiesArgs{})
	assert.ErrorIs(t, err, ErrNoAthlete)
}

func TestMissingAthlete(t *testing.T) {
	s := &routedSender{routes: map[string][]intervals.Result{}}
	ts := New(s, "", nil)
	ctx := context.Background()

	replies := []Reply{
		ts.Activities(ctx, ActivitiesArgs{}),
		ts.Events(ctx, RangeArgs{}),
		ts.ListEvents(ctx, ListEventsArgs{}),
		ts.EventByID(ctx, EventArgs{EventID: "e1"}),
		ts.Races(ctx, AthleteArgs{}),
		ts.Wellness(ctx, RangeArgs{}),
		ts.Athlete(ctx, AthleteProfileArgs{}),
		ts.PowerCurves(ctx, CurvesArgs{}),
		ts.PaceCurves(ctx, CurvesArgs{}),
		ts.PowerHRCurve(ctx, RangeArgs{}),
	}
	for _, r := range replies {
		assert.Equal(t, missingAthlete, r.String())
	}
	assert.Empty(t, s.specs)
}

func TestMissingActivityID(t *testing.T) {
	ts, s := newToolset(nil)
	ctx := context.Background()

	replies := []Reply{
		ts.ActivityDetails(ctx, ActivityArgs{}),
		ts.ActivityIntervals(ctx, ActivityArgs{}),
		ts.ActivityPowerCurves(ctx, ActivityPowerCurvesArgs{}),
		ts.ActivityPaceCurve(ctx, ActivityPaceCurveArgs{}),
		ts.ActivityPowerVsHR(ctx, ActivityArgs{}),
		ts.ActivityHRCurve(ctx, ActivityArgs{}),
	}
	for _, r := range replies {
		assert.Equal(t, missingActivity, r.String())
	}
	assert.Empty(t, s.specs)
}

func TestActivityDetails(t *testing.T) {
	tests := []struct {
		name string
		res  intervals.Result
		want string
	}{
		{"object", body(t, `{"name":"Morning Ride","zones":{"power":[{"number":1,"secondsInZone":600}]}}`), "Power Zones:\nZone 1: 600 seconds"},
		{"list", body(t, `[{"name":"Morning Ride"}]`), "Activity: Morning Ride"},
		{"empty", body(t, `{}`), "No details found for activity a1."},
		{"scalar list", body(t, `["x"]`), "Invalid activity format for activity a1."},
		{"failure", boom(), "Error fetching activity details: Request error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newToolset(map[string][]intervals.Result{"/activity/a1": {tt.res}})
			assert.Contains(t, ts.ActivityDetails(context.Background(), ActivityArgs{ActivityID: "a1"}).String(), tt.want)
		})
	}
}

func TestActivityIntervals(t *testing.T) {
	tests := []struct {
		name string
		res  intervals.Result
		want string
	}{
		{"intervals", body(t, `{"id":"a1","icu_intervals":[{"label":"Rep 1","type":"WORK"}]}`), "[1] Rep 1 (WORK)"},
		{"groups only", body(t, `{"icu_groups":[]}`), "Intervals Analysis:"},
		{"empty", body(t, `[]`), "No interval data found for activity a1."},
		{"unrecognized", body(t, `{"foo":1}`), "No interval data or unrecognized format for activity a1."},
		{"failure", boom(), "Error fetching intervals: Request error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newToolset(map[string][]intervals.Result{"/activity/a1/intervals": {tt.res}})
			assert.Contains(t, ts.ActivityIntervals(context.Background(), ActivityArgs{ActivityID: "a1"}).String(), tt.want)
		})
	}
}

func TestEvents(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/events": {body(t, `[{"date":"2024-03-20","id":"e1","name":"Test Event","race":true},"junk"]`)},
	})
	out := ts.Events(context.Background(), RangeArgs{}).String()

	assert.Equal(t, "Events:\n\nDate: 2024-03-20\nID: e1\nType: Race\nName: Test Event\nDescription: No description\n\n", out)
	assert.Equal(t, intervals.Params{"oldest": "2024-03-15", "newest": "2024-04-14"}, s.specs[0].Params)
}

func TestEventsNotAList(t *testing.T) {
	ts, _ := newToolset(map[string][]intervals.Result{"/athlete/i1/events": {body(t, `{"events":[]}`)}})
	assert.Equal(t, "No events found for athlete i1 in the specified date range.", ts.Events(context.Background(), RangeArgs{}).String())
}

func TestListEvents(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/events": {body(t, `[{"id":"e1"}]`), body(t, `{"oops":true}`)},
	})

	r := ts.ListEvents(context.Background(), ListEventsArgs{})
	assert.Equal(t, []any{map[string]any{"id": "e1"}}, r.Data)
	assert.Equal(t, intervals.Params{"limit": 30}, s.specs[0].Params)

	r = ts.ListEvents(context.Background(), ListEventsArgs{StartDate: "2024-01-01", Category: "RACE_A", Limit: 5})
	assert.Equal(t, "No events found or invalid response format", r.String())
	assert.Equal(t, intervals.Params{"limit": 5, "oldest": "2024-01-01", "category": "RACE_A"}, s.specs[1].Params)
}

func TestEventByID(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/event/e1": {body(t, `{"id":"e1","name":"Test Event"}`), body(t, `[]`), body(t, `[1]`)},
	})
	ctx := context.Background()

	out := ts.EventByID(ctx, EventArgs{EventID: "e1"}).String()
	assert.True(t, strings.HasPrefix(out, "Event Details:\n\nID: e1\n"))
	assert.Equal(t, "No details found for event e1.", ts.EventByID(ctx, EventArgs{EventID: "e1"}).String())
	assert.Equal(t, "Invalid event format for event e1.", ts.EventByID(ctx, EventArgs{EventID: "e1"}).String())
	assert.Equal(t, []string{"/athlete/i1/event/e1", "/athlete/i1/event/e1", "/athlete/i1/event/e1"}, s.paths())
}

func TestRaces(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/events": {body(t, `[
			{"id":"r1","name":"City Marathon","category":"RACE_A","shared_event_id":77},
			{"id":"w1","name":"Tempo","category":"WORKOUT"},
			{"id":"r2","name":"Park Run","category":"RACE_C","shared_event_id":88}
		]`)},
		"/shared-event/77": {body(t, `{"description":"Big city race","country":"NL"}`)},
		"/shared-event/88": {boom()},
	})

	out := ts.Races(context.Background(), AthleteArgs{}).String()

	assert.True(t, strings.HasPrefix(out, "Races:\n\n"))
	assert.Contains(t, out, "Name: City Marathon")
	assert.Contains(t, out, "Shared Event Description: Big city race")
	assert.Contains(t, out, "Name: Park Run")
	assert.NotContains(t, out, "Tempo")
	assert.Equal(t, 1, strings.Count(out, "Shared Event Description"))
	assert.Equal(t, intervals.Params{"oldest": "2024-03-15", "newest": "2025-03-06"}, s.specs[0].Params)
	assert.Equal(t, []string{"/athlete/i1/events", "/shared-event/77", "/shared-event/88"}, s.paths())
}

func TestRacesFailure(t *testing.T) {
	ts, _ := newToolset(map[string][]intervals.Result{"/athlete/i1/events": {boom()}})
	assert.Equal(t, "Error fetching events: Request error: boom", ts.Races(context.Background(), AthleteArgs{}).String())
}

func TestWellness(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/wellness": {body(t, `{"2024-01-01":{"ctl":75},"2024-01-02":{"date":"2024-01-02","ctl":76}}`), body(t, `[]`)},
	})
	ctx := context.Background()

	out := ts.Wellness(ctx, RangeArgs{}).String()
	assert.True(t, strings.HasPrefix(out, "Wellness Data:\n\nDate: 2024-01-01\n"))
	assert.Contains(t, out, "Date: 2024-01-02\n")
	assert.Contains(t, out, "  Fitness (CTL): 76\n")
	assert.Equal(t, intervals.Params{"oldest": "2024-02-14", "newest": "2024-03-15"}, s.specs[0].Params)

	assert.Equal(t, "No wellness data found for athlete i1 in the specified date range.", ts.Wellness(ctx, RangeArgs{}).String())
}

func TestCurves(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/power-curves": {body(t, `{"list":[{"secs":[1,5]}],"activities":{}}`)},
		"/athlete/i1/pace-curves":  {body(t, `{"nothing":true}`)},
	})
	ctx := context.Background()

	r := ts.PowerCurves(ctx, CurvesArgs{})
	assert.Len(t, r.Data, 1)
	assert.Equal(t, intervals.Params{"curves": "42d", "type": "Ride"}, s.specs[0].Params)

	r = ts.PaceCurves(ctx, CurvesArgs{Curves: "1y", Type: "Swim"})
	assert.Equal(t, "[]", r.String())
	assert.Equal(t, intervals.Params{"curves": "1y", "type": "Swim"}, s.specs[1].Params)
}

func TestCurvesFailure(t *testing.T) {
	ts, _ := newToolset(map[string][]intervals.Result{"/athlete/i1/pace-curves": {boom()}})
	assert.Equal(t, "Error fetching pace curves: Request error: boom", ts.PaceCurves(context.Background(), CurvesArgs{}).String())
}

func TestActivityCurves(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/activity/a1/power-curves":    {body(t, `[{"type":"power"}]`)},
		"/activity/a1/pace-curve.json": {boom()},
		"/activity/a1/hr-curve.json":   {body(t, `[1,2]`)},
		"/activity/a1/power-vs-hr":     {body(t, `{"decoupling":3.2}`)},
	})
	ctx := context.Background()

	assert.Len(t, ts.ActivityPowerCurves(ctx, ActivityPowerCurvesArgs{ActivityID: "a1"}).Data, 1)
	assert.Equal(t, intervals.Params{"type": "power"}, s.specs[0].Params)

	assert.Equal(t, "Error fetching activity pace curve: Request error: boom",
		ts.ActivityPaceCurve(ctx, ActivityPaceCurveArgs{ActivityID: "a1", GAP: true}).String())
	assert.Equal(t, intervals.Params{"gap": true}, s.specs[1].Params)

	assert.Equal(t, "{}", ts.ActivityHRCurve(ctx, ActivityArgs{ActivityID: "a1"}).String())
	assert.Equal(t, record.Record{"decoupling": 3.2}, ts.ActivityPowerVsHR(ctx, ActivityArgs{ActivityID: "a1"}).Data)
}

func TestAthlete(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1": {body(t, `{"name":"Jane","id":"i1"}`)},
	})
	ctx := context.Background()

	r := ts.Athlete(ctx, AthleteProfileArgs{})
	assert.Equal(t, record.Record{"name": "Jane", "id": "i1"}, r.Data)

	r = ts.Athlete(ctx, AthleteProfileArgs{Format: "markdown"})
	assert.Nil(t, r.Data)
	assert.True(t, strings.HasPrefix(r.Text, "# Athlete Profile: Jane\n"))
	assert.Nil(t, s.specs[0].Params)
}

func TestPowerHRCurve(t *testing.T) {
	ts, s := newToolset(map[string][]intervals.Result{
		"/athlete/i1/power-hr-curve": {body(t, `{"ftp":250}`), boom()},
	})
	ctx := context.Background()

	assert.Equal(t, record.Record{"ftp": 250.0}, ts.PowerHRCurve(ctx, RangeArgs{}).Data)
	assert.Equal(t, intervals.Params{"start": "2024-02-14", "end": "2024-03-15"}, s.specs[0].Params)
	assert.Equal(t, "Error fetching power-HR curve: Request error: boom", ts.PowerHRCurve(ctx, RangeArgs{}).String())
}

func TestDateTools(t *testing.T) {
	ts, s := newToolset(nil)

	current, ok := ts.CurrentDateInfo().Data.(dateinfo.Current)
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", current.CurrentDate)
	assert.Equal(t, "Friday", current.DayOfWeek)

	info, ok := ts.CalculateDateInfo(DateArgs{Date: "2024-03-16"}).Data.(dateinfo.Info)
	require.True(t, ok)
	assert.True(t, info.IsWeekend)
	assert.Equal(t, 1, info.DaysFromToday)

	out := ts.CalculateDateInfo(DateArgs{Date: "invalid-date"}).String()
	assert.Contains(t, out, `"error": true`)
	assert.Contains(t, out, "Invalid date format. Expected YYYY-MM-DD, got: invalid-date.")
	assert.Empty(t, s.specs)
}

func TestReplyString(t *testing.T) {
	assert.Equal(t, "plain", Reply{Text: "plain"}.String())
	assert.Equal(t, "{\n  \"a\": 1\n}", Reply{Data: map[string]int{"a": 1}}.String())
}
