// Package activity assembles activity lists from the Intervals.icu API,
// filtering out unnamed entries and backfilling from an older window when
// too few named activities are found.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kokistudios/intervals-mcp/internal/intervals"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

const (
	// DateLayout is the API's calendar date format.
	DateLayout = "2006-01-02"

	// OverFetchFactor multiplies the target when unnamed activities are
	// filtered out, so the first call usually yields enough.
	OverFetchFactor = 3

	// BackfillDays is how far before the window the backfill reaches.
	BackfillDays = 60
)

// Window is an inclusive range of calendar dates.
type Window struct {
	Oldest time.Time
	Newest time.Time
}

// ParseWindow parses YYYY-MM-DD bounds.
func ParseWindow(oldest, newest string) (Window, error) {
	o, err := time.Parse(DateLayout, oldest)
	if err != nil {
		return Window{}, fmt.Errorf("invalid oldest date %q: %w", oldest, err)
	}
	n, err := time.Parse(DateLayout, newest)
	if err != nil {
		return Window{}, fmt.Errorf("invalid newest date %q: %w", newest, err)
	}
	return Window{Oldest: o, Newest: n}, nil
}

// Empty reports whether the window contains no dates.
func (w Window) Empty() bool {
	return w.Oldest.After(w.Newest)
}

// Request asks for up to TargetCount activities inside Window.
type Request struct {
	AthleteID      string
	Window         Window
	TargetCount    int
	IncludeUnnamed bool
	APIKey         string
}

// Aggregator builds activity lists on top of a Sender.
type Aggregator struct {
	sender intervals.Sender
	logger *log.Logger
	floor  time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFloor sets the earliest date a backfill may reach.
func WithFloor(t time.Time) Option {
	return func(a *Aggregator) { a.floor = t }
}

// NewAggregator returns an Aggregator sending through sender.
func NewAggregator(sender intervals.Sender, logger *log.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	a := &Aggregator{
		sender: sender,
		logger: logger,
		floor:  time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns at most req.TargetCount activities in API order. It
// makes at most two requests: the primary fetch and one backfill. A failed
// primary fetch is returned; a failed backfill is logged and ignored.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) ([]record.Record, *intervals.Failure) {
	if req.TargetCount <= 0 || req.Window.Empty() {
		return nil, nil
	}

	limit := req.TargetCount
	if !req.IncludeUnnamed {
		limit = req.TargetCount * OverFetchFactor
	}

	res := a.fetch(ctx, req, req.Window, limit)
	if !res.OK() {
		return nil, res.Failure
	}
	activities := record.Project(res.Payload, record.ActivityMarkers)

	if req.IncludeUnnamed {
		return truncate(activities, req.TargetCount), nil
	}

	named := record.FilterNamed(activities)
	if len(named) < req.TargetCount {
		named = append(named, a.backfill(ctx, req, limit)...)
	}
	return truncate(named, req.TargetCount), nil
}

func (a *Aggregator) backfill(ctx context.Context, req Request, limit int) []record.Record {
	back := Window{
		Oldest: req.Window.Oldest.AddDate(0, 0, -BackfillDays),
		Newest: req.Window.Oldest.AddDate(0, 0, -1),
	}
	if back.Oldest.Before(a.floor) {
		back.Oldest = a.floor
	}
	if !back.Oldest.Before(back.Newest) {
		return nil
	}

	res := a.fetch(ctx, req, back, limit)
	if !res.OK() {
		a.logger.Warn("backfill request failed", "athlete", req.AthleteID, "err", res.Failure)
		return nil
	}
	return record.FilterNamed(record.Project(res.Payload, record.ActivityMarkers))
}

func (a *Aggregator) fetch(ctx context.Context, req Request, w Window, limit int) intervals.Result {
	return a.sender.Send(ctx, intervals.RequestSpec{
		Path: fmt.Sprintf("/athlete/%s/activities", req.AthleteID),
		Params: intervals.Params{
			"oldest": w.Oldest.Format(DateLayout),
			"newest": w.Newest.Format(DateLayout),
			"limit":  limit,
		},
		APIKey: req.APIKey,
	})
}

func truncate(in []record.Record, n int) []record.Record {
	if len(in) > n {
		return in[:n]
	}
	return in
}
