// Package calendar lays out a month of bill events as a Monday-start grid.
package calendar

import (
	"fmt"
	"time"

	"github.com/mmynk/billcal/internal/models"
)

// MonthLayout is the wire format of a calendar month.
const MonthLayout = "2006-01"

// Weekdays are the column headers, Monday first.
var Weekdays = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Cell is one day in the grid.
type Cell struct {
	Date time.Time

	// InMonth is false for filler cells borrowed from the previous or next month.
	// Filler cells never carry events.
	InMonth bool

	// IsToday compares calendar dates, never timestamps.
	IsToday bool

	Events []*models.CalendarEvent
}

// Grid is a month laid out in rows of exactly 7 cells.
type Grid struct {
	// Month is the first day of the displayed month.
	Month time.Time
	Weeks [][]Cell
}

// ParseMonth parses a "YYYY-MM" string into the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}

// FormatMonth renders a month as "YYYY-MM".
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// isoOffset maps a weekday to its Monday-based index (Monday=0..Sunday=6).
func isoOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Build lays out the month containing ref. Events are attached to the cell
// of their due date; events outside the month are ignored.
func Build(ref time.Time, events []*models.CalendarEvent, today time.Time) *Grid {
	first := models.FirstOfMonth(ref)
	days := models.DaysIn(first)
	offset := isoOffset(first.Weekday())

	byDay := make(map[int][]*models.CalendarEvent)
	for _, e := range events {
		y, m, d := e.DueDate.Date()
		if y == first.Year() && m == first.Month() {
			byDay[d] = append(byDay[d], e)
		}
	}

	cells := make([]Cell, 0, ((offset+days+6)/7)*7)

	// Leading filler from the end of the previous month.
	for i := offset; i > 0; i-- {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, -i)})
	}

	for day := 1; day <= days; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
		cells = append(cells, Cell{
			Date:    date,
			InMonth: true,
			IsToday: sameDate(date, today),
			Events:  byDay[day],
		})
	}

	// Trailing filler from the start of the next month.
	next := first.AddDate(0, 1, 0)
	for i := 0; len(cells)%7 != 0; i++ {
		cells = append(cells, Cell{Date: next.AddDate(0, 0, i)})
	}

	g := &Grid{Month: first}
	for i := 0; i < len(cells); i += 7 {
		g.Weeks = append(g.Weeks, cells[i:i+7])
	}
	return g
}

// Prev returns the first day of the previous month.
func (g *Grid) Prev() time.Time {
	return g.Month.AddDate(0, -1, 0)
}

// Next returns the first day of the next month.
func (g *Grid) Next() time.Time {
	return g.Month.AddDate(0, 1, 0)
}

// Events returns every event in the grid in cell order.
func (g *Grid) Events() []*models.CalendarEvent {
	var out []*models.CalendarEvent
	for _, week := range g.Weeks {
		for _, c := range week {
			out = append(out, c.Events...)
		}
	}
	return out
}
