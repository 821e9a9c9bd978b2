package tools

import "github.com/kokistudios/intervals-mcp/internal/dateinfo"

// DateArgs defines the input for calculate_date_info.
type DateArgs struct {
	Date string `json:"date" jsonschema:"Date in YYYY-MM-DD format (e.g. 2025-06-09)"`
}

// CurrentDateInfo describes today.
func (t *Toolset) CurrentDateInfo() Reply {
	return data(dateinfo.Today(t.now()))
}

// CalculateDateInfo describes a date relative to today.
func (t *Toolset) CalculateDateInfo(args DateArgs) Reply {
	info, err := dateinfo.Calculate(args.Date, t.now())
	if err != nil {
		return data(dateinfo.InvalidDate(args.Date, err))
	}
	return data(info)
}
