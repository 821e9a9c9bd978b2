// Package tools implements the Intervals.icu tool surface on top of the
// request mediator. Every operation returns a Reply; API failures become
// user-facing text and never surface as Go errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kokistudios/intervals-mcp/internal/activity"
	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

const (
	missingAthlete  = "Error: No athlete ID provided and no default ATHLETE_ID found in environment variables."
	missingActivity = "Error: Activity ID is required."
)

// Reply is the outcome of one tool call: either rendered text or a value
// to be returned as JSON.
type Reply struct {
	Text string
	Data any
}

// String renders the reply as tool output. Data is pretty-printed JSON.
func (r Reply) String() string {
	if r.Data == nil {
		return r.Text
	}
	out, err := json.MarshalIndent(r.Data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error encoding response: %v", err)
	}
	return string(out)
}

func text(s string) Reply {
	return Reply{Text: s}
}

func textf(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

func data(v any) Reply {
	return Reply{Data: v}
}

func failed(noun string, f *intervals.Failure) Reply {
	return Reply{Text: fmt.Sprintf("Error fetching %s: %s", noun, f.Error())}
}

// Toolset holds the process-wide collaborators shared by all tool calls.
type Toolset struct {
	sender     intervals.Sender
	aggregator *activity.Aggregator
	athleteID  string
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a Toolset.
type Option func(*Toolset)

// WithClock overrides the time source used for default date windows.
func WithClock(now func() time.Time) Option {
	return func(t *Toolset) { t.now = now }
}

// WithAggregator replaces the activity aggregator built from the sender.
func WithAggregator(a *activity.Aggregator) Option {
	return func(t *Toolset) { t.aggregator = a }
}

// New builds a Toolset. athleteID is the default used when a call does not
// name one.
func New(sender intervals.Sender, athleteID string, logger *log.Logger, opts ...Option) *Toolset {
	if logger == nil {
		logger = log.Default()
	}
	t := &Toolset{
		sender:    sender,
		athleteID: athleteID,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.aggregator == nil {
		t.aggregator = activity.NewAggregator(sender, logger)
	}
	return t
}

// athlete resolves the athlete for a call, falling back to the default.
func (t *Toolset) athlete(id string) (string, bool) {
	if id == "" {
		id = t.athleteID
	}
	return id, id != ""
}

func (t *Toolset) today() time.Time {
	now := t.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// window fills missing bounds with today shifted by the given day offsets.
func (t *Toolset) window(start, end string, startOffset, endOffset int) (string, string) {
	today := t.today()
	if start == "" {
		start = today.AddDate(0, 0, startOffset).Format(activity.DateLayout)
	}
	if end == "" {
		end = today.AddDate(0, 0, endOffset).Format(activity.DateLayout)
	}
	return start, end
}

func (t *Toolset) send(ctx context.Context, path string, params intervals.Params, apiKey string) intervals.Result {
	return t.sender.Send(ctx, intervals.RequestSpec{Path: path, Params: params, APIKey: apiKey})
}

func (t *Toolset) log(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && l != nil {
		return l
	}
	return t.logger
}

// first returns the leading element of list when it is an object.
func first(list []any) (record.Record, bool) {
	if len(list) == 0 {
		return nil, false
	}
	m, ok := list[0].(map[string]any)
	return record.Record(m), ok
}

func listOrEmpty(res intervals.Result) []any {
	if list, ok := res.Payload.List(); ok {
		return list
	}
	return []any{}
}

func objectOrEmpty(res intervals.Result) record.Record {
	if obj, ok := res.Payload.Object(); ok {
		return obj
	}
	return record.Record{}
}

// listField returns the list stored under key of an object payload.
func listField(res intervals.Result, key string) []any {
	obj, ok := res.Payload.Object()
	if !ok {
		return []any{}
	}
	if list, ok := obj[key].([]any); ok {
		return list
	}
	return []any{}
}
