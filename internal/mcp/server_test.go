package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
	"github.com/kokistudios/intervals-mcp/internal/tools"
)

type stubSender struct {
	payload string
	specs   []intervals.RequestSpec
}

func (s *stubSender) Send(_ context.Context, spec intervals.RequestSpec) intervals.Result {
	s.specs = append(s.specs, spec)
	p, err := record.DecodePayload([]byte(s.payload))
	if err != nil {
		return intervals.Result{Failure: &intervals.Failure{Kind: intervals.InvalidResponse, Message: "Invalid JSON in response"}}
	}
	return intervals.Result{Payload: p}
}

func connect(t *testing.T, sender intervals.Sender) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) }
	s := NewServer(tools.New(sender, "i1", nil, tools.WithClock(now)), nil, "test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, &stubSender{payload: "[]"})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range res.Tools {
		names[tool.Name] = true
		require.NotNil(t, tool.Annotations, tool.Name)
		assert.True(t, tool.Annotations.ReadOnlyHint, tool.Name)
	}
	for _, want := range []string{
		"get_activities", "get_activity_details", "get_activity_intervals",
		"get_activity_power_curves", "get_activity_pace_curve", "get_activity_power_vs_hr",
		"get_activity_hr_curve", "get_events", "list_events", "get_event_by_id", "get_races",
		"get_wellness_data", "get_athlete", "get_power_curves", "get_pace_curves",
		"get_power_hr_curve", "get_current_date_info", "calculate_date_info",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.Len(t, res.Tools, 18)
}

func TestCallEvents(t *testing.T) {
	sender := &stubSender{payload: `[{"date":"2025-06-14","id":"e1","name":"Long Ride","workout":{"id":1}}]`}
	cs := connect(t, sender)

	out := callText(t, cs, "get_events", map[string]any{"athlete_id": "i7"})

	assert.Contains(t, out, "Events:\n\n")
	assert.Contains(t, out, "Name: Long Ride")
	assert.Contains(t, out, "Type: Workout")
	require.Len(t, sender.specs, 1)
	assert.Equal(t, "/athlete/i7/events", sender.specs[0].Path)
	assert.Equal(t, intervals.Params{"oldest": "2025-06-09", "newest": "2025-07-09"}, sender.specs[0].Params)
}

func TestCallFailureIsText(t *testing.T) {
	cs := connect(t, &stubSender{payload: "<html>"})

	out := callText(t, cs, "get_activity_details", map[string]any{"activity_id": "a1"})
	assert.Equal(t, "Error fetching activity details: Invalid JSON in response", out)
}

func TestCallDateInfo(t *testing.T) {
	sender := &stubSender{payload: "{}"}
	cs := connect(t, sender)

	out := callText(t, cs, "calculate_date_info", map[string]any{"date": "2025-06-14"})
	assert.Contains(t, out, `"day_of_week": "Saturday"`)
	assert.Contains(t, out, `"days_from_today": 5`)

	out = callText(t, cs, "get_current_date_info", map[string]any{})
	assert.Contains(t, out, `"current_date": "2025-06-09"`)
	assert.Empty(t, sender.specs)
}
