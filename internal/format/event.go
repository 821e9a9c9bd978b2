package format

import (
	"fmt"
	"strings"

	"github.com/kokistudios/intervals-mcp/internal/record"
)

// EventSummary renders a calendar event. When shared is non-empty its
// public race details are appended.
func EventSummary(ev, shared record.Record) string {
	kind := "Other"
	switch {
	case ev.Truthy("workout"):
		kind = "Workout"
	case ev.Truthy("race"):
		kind = "Race"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", field(ev, EventDate, "Unknown"))
	fmt.Fprintf(&b, "ID: %s\n", value(ev, na, "id"))
	fmt.Fprintf(&b, "Type: %s\n", kind)
	fmt.Fprintf(&b, "Name: %s\n", value(ev, record.UnnamedPlaceholder, "name"))
	fmt.Fprintf(&b, "Description: %s\n", value(ev, "No description", "description"))
	b.WriteString(sharedEventSummary(shared))

	return strings.TrimRight(b.String(), " \t\r\n")
}

func sharedEventSummary(shared record.Record) string {
	if len(shared) == 0 {
		return ""
	}

	types := "Unknown"
	if list := shared.Slice("types"); list != nil {
		types = record.Text(list)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shared Event Description: %s\n", trimmed(shared, "description", "Unknown"))
	fmt.Fprintf(&b, "Sport Types: %s\n", types)
	fmt.Fprintf(&b, "Event Website: %s\n", trimmed(shared, "website", "Unknown"))
	fmt.Fprintf(&b, "Location: %s\n", trimmed(shared, "location", "Unknown"))
	fmt.Fprintf(&b, "Address: %s\n", trimmed(shared, "address", "Unknown"))
	fmt.Fprintf(&b, "Country: %s", trimmed(shared, "country", "Unknown"))
	return b.String()
}

// EventDetails renders one event with its workout, race and calendar
// sections when present.
func EventDetails(ev record.Record) string {
	var b strings.Builder
	b.WriteString("Event Details:\n\n")
	fmt.Fprintf(&b, "ID: %s\n", value(ev, na, "id"))
	fmt.Fprintf(&b, "Date: %s\n", value(ev, "Unknown", "date"))
	fmt.Fprintf(&b, "Name: %s\n", value(ev, record.UnnamedPlaceholder, "name"))
	fmt.Fprintf(&b, "Description: %s", value(ev, "No description", "description"))

	if w := ev.Map("workout"); len(w) > 0 {
		b.WriteString("\n\nWorkout Information:\n")
		fmt.Fprintf(&b, "Workout ID: %s", value(w, na, "id"))
		b.WriteString(strings.TrimSuffix(Workout(w), "\n"))
	}

	if ev.Truthy("race") {
		b.WriteString("\n\nRace Information:\n")
		fmt.Fprintf(&b, "Priority: %s\n", value(ev, na, "priority"))
		fmt.Fprintf(&b, "Result: %s", value(ev, na, "result"))
	}

	if cal := ev.Map("calendar"); cal != nil {
		fmt.Fprintf(&b, "\n\nCalendar: %s", value(cal, na, "name"))
	}

	return b.String()
}
