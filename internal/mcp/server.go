package mcp

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kokistudios/intervals-mcp/internal/metrics"
	"github.com/kokistudios/intervals-mcp/internal/tools"
)

// Server wraps the MCP server with the Intervals.icu toolset.
type Server struct {
	tools  *tools.Toolset
	logger *log.Logger
	server *mcp.Server
}

// NewServer creates a new intervals-mcp MCP server.
func NewServer(ts *tools.Toolset, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{tools: ts, logger: logger}

	impl := &mcp.Implementation{
		Name:    "intervals-icu",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func boolPtr(b bool) *bool { return &b }

// remote marks tools that read from the Intervals.icu API.
func remote(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{Title: title, ReadOnlyHint: true, OpenWorldHint: boolPtr(true)}
}

// registerTools adds all Intervals.icu tools to the MCP server.
func (s *Server) registerTools() {
	// Activities
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activities",
		Description: "Get a list of activities for an athlete from Intervals.icu. Unnamed activities are skipped unless include_unnamed is set; when too few named activities fall in the date range, earlier activities are included to reach the limit.",
		Annotations: remote("List Activities"),
	}, instrumented(s, "get_activities", s.tools.Activities))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activity_details",
		Description: "Get detailed information for a specific activity from Intervals.icu, including time in power and heart rate zones.",
		Annotations: remote("Activity Details"),
	}, instrumented(s, "get_activity_details", s.tools.ActivityDetails))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activity_intervals",
		Description: "Get interval data for a specific activity from Intervals.icu: power, heart rate, cadence, speed and environmental metrics per interval, plus interval groups.",
		Annotations: remote("Activity Intervals"),
	}, instrumented(s, "get_activity_intervals", s.tools.ActivityIntervals))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activity_power_curves",
		Description: "Get the power curve data for a specific activity from Intervals.icu. Returns a JSON list.",
		Annotations: remote("Activity Power Curves"),
	}, instrumented(s, "get_activity_power_curves", s.tools.ActivityPowerCurves))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activity_pace_curve",
		Description: "Get the pace curve for a specific activity from Intervals.icu, optionally gradient adjusted. Returns a JSON object.",
		Annotations: remote("Activity Pace Curve"),
	}, instrumented(s, "get_activity_pace_curve", s.tools.ActivityPaceCurve))

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_activity_power_vs_hr",
		Description: "Get power vs heart rate data for a specific activity from Intervals.icu: bucketed power, HR and cadence series, " +
			"power/HR ratios for each half, decoupling (cardiac drift) and zone 2 metrics. Returns a JSON object.",
		Annotations: remote("Activity Power vs HR"),
	}, instrumented(s, "get_activity_power_vs_hr", s.tools.ActivityPowerVsHR))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_activity_hr_curve",
		Description: "Get the heart rate curve for a specific activity from Intervals.icu: best heart rate held for each duration. Returns a JSON object.",
		Annotations: remote("Activity HR Curve"),
	}, instrumented(s, "get_activity_hr_curve", s.tools.ActivityHRCurve))

	// Calendar
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_events",
		Description: "Get calendar events (planned workouts, races, notes) for an athlete from Intervals.icu. Defaults to the next 30 days.",
		Annotations: remote("Calendar Events"),
	}, instrumented(s, "get_events", s.tools.Events))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_events",
		Description: "List calendar events for an athlete as raw JSON, optionally filtered by date range and category (e.g. WORKOUT,RACE_A,RACE_B,RACE_C).",
		Annotations: remote("List Events"),
	}, instrumented(s, "list_events", s.tools.ListEvents))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_event_by_id",
		Description: "Get detailed information for a specific calendar event from Intervals.icu.",
		Annotations: remote("Event Details"),
	}, instrumented(s, "get_event_by_id", s.tools.EventByID))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_races",
		Description: "Get upcoming races (RACE_A, RACE_B, RACE_C events) for the next year, including shared event details such as location and website when linked.",
		Annotations: remote("Upcoming Races"),
	}, instrumented(s, "get_races", s.tools.Races))

	// Athlete
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_wellness_data",
		Description: "Get wellness data (fitness, fatigue, HRV, sleep, weight, subjective scores) for an athlete from Intervals.icu. Defaults to the last 30 days.",
		Annotations: remote("Wellness Data"),
	}, instrumented(s, "get_wellness_data", s.tools.Wellness))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_athlete",
		Description: "Get the athlete profile from Intervals.icu, including sport settings with heart rate, power and pace zones. Set format to 'markdown' for a readable summary.",
		Annotations: remote("Athlete Profile"),
	}, instrumented(s, "get_athlete", s.tools.Athlete))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_power_curves",
		Description: "Get the athlete's best power curves for a sport (default Ride) over one or more periods (default 42d). Returns a JSON list.",
		Annotations: remote("Power Curves"),
	}, instrumented(s, "get_power_curves", s.tools.PowerCurves))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_pace_curves",
		Description: "Get the athlete's best pace curves for a sport (default Run) over one or more periods (default 42d). Returns a JSON list.",
		Annotations: remote("Pace Curves"),
	}, instrumented(s, "get_pace_curves", s.tools.PaceCurves))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_power_hr_curve",
		Description: "Get the athlete's power vs heart rate curve over a date range (default the last 30 days), with LTHR, max HR and FTP. Returns a JSON object.",
		Annotations: remote("Power vs HR Curve"),
	}, instrumented(s, "get_power_hr_curve", s.tools.PowerHRCurve))

	// Dates
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_current_date_info",
		Description: "Get today's date, day of week, week number and days until the weekend. Use this to resolve relative dates like 'next Saturday' before querying other tools.",
		Annotations: &mcp.ToolAnnotations{Title: "Current Date", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, instrumented(s, "get_current_date_info", func(context.Context, struct{}) tools.Reply {
		return s.tools.CurrentDateInfo()
	}))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "calculate_date_info",
		Description: "Describe a YYYY-MM-DD date relative to today: day of week, days from today, weekend and past/future flags.",
		Annotations: &mcp.ToolAnnotations{Title: "Date Info", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, instrumented(s, "calculate_date_info", func(_ context.Context, args tools.DateArgs) tools.Reply {
		return s.tools.CalculateDateInfo(args)
	}))
}

// instrumented adapts a tool operation to an MCP handler. Each call gets a
// logger tagged with a fresh call ID, carried on the context so the
// mediator's error logs can be correlated.
func instrumented[In any](s *Server, name string, call func(context.Context, In) tools.Reply) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		logger := s.logger.With("tool", name, "call_id", uuid.NewString())
		ctx = log.WithContext(ctx, logger)

		reply := call(ctx, args)

		elapsed := time.Since(start)
		metrics.RecordToolCall(name, elapsed)
		logger.Debug("tool call finished", "elapsed", elapsed)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: reply.String()}},
		}, nil, nil
	}
}
