package activity

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

// scriptedSender answers requests in order and records what it was asked.
type scriptedSender struct {
	results []intervals.Result
	specs   []intervals.RequestSpec
}

func (s *scriptedSender) Send(_ context.Context, spec intervals.RequestSpec) intervals.Result {
	s.specs = append(s.specs, spec)
	if len(s.specs) > len(s.results) {
		return intervals.Result{Payload: record.NewPayload([]any{})}
	}
	return s.results[len(s.specs)-1]
}

func ok(t *testing.T, body string) intervals.Result {
	t.Helper()
	p, err := record.DecodePayload([]byte(body))
	require.NoError(t, err)
	return intervals.Result{Payload: p}
}

func failed(status int) intervals.Result {
	return intervals.Result{Failure: &intervals.Failure{
		Kind:    intervals.HTTPError,
		Status:  status,
		Message: intervals.Classify(status, ""),
	}}
}

func activities(names ...string) string {
	body := "["
	for i, n := range names {
		if i > 0 {
			body += ","
		}
		if n == "" {
			body += `{"id":"x"}`
			continue
		}
		body += fmt.Sprintf(`{"name":%q}`, n)
	}
	return body + "]"
}

func names(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		n, _ := r.String("name")
		out = append(out, n)
	}
	return out
}

func window(t *testing.T, oldest, newest string) Window {
	t.Helper()
	w, err := ParseWindow(oldest, newest)
	require.NoError(t, err)
	return w
}

func newAggregator(s intervals.Sender) *Aggregator {
	return NewAggregator(s, log.New(io.Discard))
}

func TestAggregate_EnoughNamedSkipsBackfill(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities("a", "Unnamed", "b", "c"))}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 2,
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"a", "b"}, names(got))
	require.Len(t, sender.specs, 1)
	assert.Equal(t, "/athlete/i1/activities", sender.specs[0].Path)
	assert.Equal(t, 6, sender.specs[0].Params["limit"])
	assert.Equal(t, "2024-03-01", sender.specs[0].Params["oldest"])
	assert.Equal(t, "2024-03-31", sender.specs[0].Params["newest"])
}

func TestAggregate_BackfillWindow(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{
		ok(t, activities("a", "Unnamed", "")),
		ok(t, activities("old1", "Unnamed", "old2", "old3")),
	}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 3,
		APIKey:      "override",
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"a", "old1", "old2"}, names(got))
	require.Len(t, sender.specs, 2)

	back := sender.specs[1]
	assert.Equal(t, "2024-01-01", back.Params["oldest"])
	assert.Equal(t, "2024-02-29", back.Params["newest"])
	assert.Equal(t, 9, back.Params["limit"])
	assert.Equal(t, "override", back.APIKey)
}

func TestAggregate_BackfillSkippedAtFloor(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities("Unnamed"))}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "1970-01-02", "1970-01-10"),
		TargetCount: 5,
	})

	require.Nil(t, failure)
	assert.Empty(t, got)
	assert.Len(t, sender.specs, 1)
}

func TestAggregate_CustomFloor(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities()), ok(t, activities("old"))}}
	floor := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	got, failure := NewAggregator(sender, log.New(io.Discard), WithFloor(floor)).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 1,
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"old"}, names(got))
	require.Len(t, sender.specs, 2)
	assert.Equal(t, "2024-02-20", sender.specs[1].Params["oldest"])
}

func TestAggregate_IncludeUnnamed(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities("a", "Unnamed", "", "b"))}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:      "i1",
		Window:         window(t, "2024-03-01", "2024-03-31"),
		TargetCount:    3,
		IncludeUnnamed: true,
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"a", "Unnamed", ""}, names(got))
	require.Len(t, sender.specs, 1)
	assert.Equal(t, 3, sender.specs[0].Params["limit"])
}

func TestAggregate_PrimaryFailurePropagates(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{failed(401)}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 3,
	})

	assert.Nil(t, got)
	require.NotNil(t, failure)
	assert.Equal(t, 401, failure.Status)
	assert.Len(t, sender.specs, 1)
}

func TestAggregate_BackfillFailureSwallowed(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities("a")), failed(500)}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 3,
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"a"}, names(got))
	assert.Len(t, sender.specs, 2)
}

func TestAggregate_NoDedup(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, activities("a")), ok(t, activities("a"))}}

	got, _ := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-31"),
		TargetCount: 2,
	})

	assert.Equal(t, []string{"a", "a"}, names(got))
}

func TestAggregate_EmptyWindowMakesNoCall(t *testing.T) {
	sender := &scriptedSender{}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-31", "2024-03-01"),
		TargetCount: 3,
	})

	assert.Nil(t, failure)
	assert.Empty(t, got)
	assert.Empty(t, sender.specs)
}

func TestAggregate_Idempotent(t *testing.T) {
	req := Request{AthleteID: "i1", Window: window(t, "2024-03-01", "2024-03-31"), TargetCount: 2}
	run := func() []string {
		sender := &scriptedSender{results: []intervals.Result{ok(t, activities("a", "Unnamed")), ok(t, activities("b", "c"))}}
		got, failure := newAggregator(sender).Aggregate(context.Background(), req)
		require.Nil(t, failure)
		return names(got)
	}
	assert.Equal(t, run(), run())
}

func TestAggregate_SingleActivityObject(t *testing.T) {
	sender := &scriptedSender{results: []intervals.Result{ok(t, `{"name":"Morning Ride","distance":1000}`)}}

	got, failure := newAggregator(sender).Aggregate(context.Background(), Request{
		AthleteID:   "i1",
		Window:      window(t, "2024-03-01", "2024-03-01"),
		TargetCount: 1,
	})

	require.Nil(t, failure)
	assert.Equal(t, []string{"Morning Ride"}, names(got))
	assert.Len(t, sender.specs, 1)
}

func TestParseWindowRejectsBadDates(t *testing.T) {
	_, err := ParseWindow("2024-13-01", "2024-03-01")
	assert.Error(t, err)
	_, err = ParseWindow("2024-03-01", "tomorrow")
	assert.Error(t, err)
}
