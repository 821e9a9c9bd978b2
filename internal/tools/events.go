package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/format"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

const (
	// DefaultEventLimit caps list_events when no limit is given.
	DefaultEventLimit = 30

	raceCategoryPrefix = "RACE_"
	raceHorizonDays    = 356
)

// AthleteArgs names an athlete and an optional key override.
type AthleteArgs struct {
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
}

// RangeArgs selects an athlete and a date window.
type RangeArgs struct {
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional)"`
}

// ListEventsArgs defines the input for list_events.
type ListEventsArgs struct {
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional)"`
	Category  string `json:"category,omitempty" jsonschema:"Comma separated event categories (optional, e.g. WORKOUT,RACE_A,RACE_B,RACE_C)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of events to return (optional, defaults to 30)"`
}

// EventArgs identifies a single calendar event.
type EventArgs struct {
	EventID   string `json:"event_id" jsonschema:"The Intervals.icu event ID"`
	AthleteID string `json:"athlete_id,omitempty" jsonschema:"The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"The Intervals.icu API key (optional, defaults to API_KEY)"`
}

// Events renders calendar events, by default for the next 30 days.
func (t *Toolset) Events(ctx context.Context, args RangeArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	start, end := t.window(args.StartDate, args.EndDate, 0, 30)

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/events", athleteID), intervals.Params{"oldest": start, "newest": end}, args.APIKey)
	if !res.OK() {
		return failed("events", res.Failure)
	}
	events := eventList(res)
	if len(events) == 0 {
		return textf("No events found for athlete %s in the specified date range.", athleteID)
	}

	var b strings.Builder
	b.WriteString("Events:\n\n")
	for _, ev := range events {
		b.WriteString(format.EventSummary(ev, nil))
		b.WriteString("\n\n")
	}
	return text(b.String())
}

// ListEvents returns the raw event list. Only the filters the caller sets
// are sent.
func (t *Toolset) ListEvents(ctx context.Context, args ListEventsArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	limit := args.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	params := intervals.Params{"limit": limit}
	if args.StartDate != "" {
		params["oldest"] = args.StartDate
	}
	if args.EndDate != "" {
		params["newest"] = args.EndDate
	}
	if args.Category != "" {
		params["category"] = args.Category
	}

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/events", athleteID), params, args.APIKey)
	if !res.OK() {
		return failed("events", res.Failure)
	}
	list, ok := res.Payload.List()
	if !ok {
		return text("No events found or invalid response format")
	}
	return data(list)
}

// EventByID renders the full details of one event.
func (t *Toolset) EventByID(ctx context.Context, args EventArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	if args.EventID == "" {
		return text("Error: Event ID is required.")
	}
	res := t.send(ctx, fmt.Sprintf("/athlete/%s/event/%s", athleteID, args.EventID), nil, args.APIKey)
	if !res.OK() {
		return failed("event details", res.Failure)
	}
	if res.Payload.IsEmpty() {
		return textf("No details found for event %s.", args.EventID)
	}
	ev, ok := res.Payload.Object()
	if !ok {
		return textf("Invalid event format for event %s.", args.EventID)
	}
	return text(format.EventDetails(ev))
}

// Races renders upcoming race events, enriched with the shared event
// record when one is linked.
func (t *Toolset) Races(ctx context.Context, args AthleteArgs) Reply {
	athleteID, ok := t.athlete(args.AthleteID)
	if !ok {
		return text(missingAthlete)
	}
	start, end := t.window("", "", 0, raceHorizonDays)

	res := t.send(ctx, fmt.Sprintf("/athlete/%s/events", athleteID), intervals.Params{"oldest": start, "newest": end}, args.APIKey)
	if !res.OK() {
		return failed("events", res.Failure)
	}
	events := eventList(res)
	if len(events) == 0 {
		return textf("No events found for athlete %s in the specified date range.", athleteID)
	}

	var b strings.Builder
	b.WriteString("Races:\n\n")
	for _, ev := range events {
		category, _ := ev.String("category")
		if !strings.HasPrefix(category, raceCategoryPrefix) {
			continue
		}
		b.WriteString(format.EventSummary(ev, t.sharedEvent(ctx, ev, args.APIKey)))
		b.WriteString("\n\n\n")
	}
	return text(b.String())
}

// sharedEvent resolves the shared event linked from ev. A failed or
// malformed lookup yields nil so the race is still listed.
func (t *Toolset) sharedEvent(ctx context.Context, ev record.Record, apiKey string) record.Record {
	id, ok := ev.Get("shared_event_id")
	if !ok || !record.Truthy(id) {
		return nil
	}
	sharedID := record.Text(id)
	res := t.send(ctx, "/shared-event/"+sharedID, nil, apiKey)
	if !res.OK() {
		t.log(ctx).Warn("shared event lookup failed", "shared_event_id", sharedID, "err", res.Failure)
		return nil
	}
	shared, ok := res.Payload.Object()
	if !ok {
		t.log(ctx).Warn("shared event is not an object", "shared_event_id", sharedID)
		return nil
	}
	return shared
}

// eventList keeps the object elements of a list payload.
func eventList(res intervals.Result) []record.Record {
	list, ok := res.Payload.List()
	if !ok {
		return nil
	}
	return record.Project(record.NewPayload(list), nil)
}
