package calendar

import (
	"testing"
	"time"

	"github.com/mmynk/billcal/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildOctober2024(t *testing.T) {
	events := []*models.CalendarEvent{
		{ID: "a", BillName: "Electricity", DueDate: date(2024, time.October, 3)},
		{ID: "b", BillName: "Water", DueDate: date(2024, time.October, 3)},
		{ID: "c", BillName: "Rent", DueDate: date(2024, time.October, 31)},
		{ID: "d", BillName: "Next month", DueDate: date(2024, time.November, 1)},
	}

	g := Build(date(2024, time.October, 15), events, date(2024, time.October, 22))

	if got := g.Month; !got.Equal(date(2024, time.October, 1)) {
		t.Fatalf("Month = %v, want 2024-10-01", got)
	}

	first := g.Weeks[0]
	if first[0].InMonth {
		t.Error("expected the first cell to be a filler cell")
	}
	if !first[0].Date.Equal(date(2024, time.September, 30)) {
		t.Errorf("leading filler = %v, want 2024-09-30", first[0].Date)
	}
	if !first[1].InMonth || first[1].Date.Day() != 1 {
		t.Errorf("expected October 1 in the second column, got %+v", first[1])
	}

	leading := 0
	for _, c := range first {
		if !c.InMonth {
			leading++
		}
	}
	if leading != 1 {
		t.Errorf("leading fillers = %d, want 1", leading)
	}

	// (1 + 31) / 7 rounded up
	if len(g.Weeks) != 5 {
		t.Errorf("rows = %d, want 5", len(g.Weeks))
	}

	last := g.Weeks[len(g.Weeks)-1]
	if !last[6].Date.Equal(date(2024, time.November, 3)) {
		t.Errorf("last cell = %v, want 2024-11-03", last[6].Date)
	}

	cell3 := first[3]
	if cell3.Date.Day() != 3 || len(cell3.Events) != 2 {
		t.Errorf("October 3 should carry 2 events, got %d", len(cell3.Events))
	}
	if n := len(g.Events()); n != 3 {
		t.Errorf("events in grid = %d, want 3 (November event dropped)", n)
	}

	for _, week := range g.Weeks {
		for _, c := range week {
			if c.IsToday != (c.InMonth && c.Date.Day() == 22) {
				t.Errorf("IsToday wrong for %v", c.Date)
			}
		}
	}
}

func TestBuildInvariants(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			g := Build(date(year, m, 1), nil, time.Time{})
			days := models.DaysIn(g.Month)
			offset := isoOffset(g.Month.Weekday())

			wantRows := (offset + days + 6) / 7
			if len(g.Weeks) != wantRows {
				t.Errorf("%d-%02d: rows = %d, want %d", year, m, len(g.Weeks), wantRows)
			}

			seen := make(map[int]int)
			for _, week := range g.Weeks {
				if len(week) != 7 {
					t.Fatalf("%d-%02d: row has %d cells", year, m, len(week))
				}
				for i, c := range week {
					if c.Date.Weekday() != Weekdays[i] {
						t.Errorf("%d-%02d: %v in column %d", year, m, c.Date, i)
					}
					if c.InMonth {
						seen[c.Date.Day()]++
					} else if len(c.Events) > 0 {
						t.Errorf("%d-%02d: filler cell carries events", year, m)
					}
				}
			}
			for d := 1; d <= days; d++ {
				if seen[d] != 1 {
					t.Errorf("%d-%02d: day %d appears %d times", year, m, d, seen[d])
				}
			}
		}
	}
}

func TestBuildMonthStartingMonday(t *testing.T) {
	// July 2024 starts on a Monday and ends on a Wednesday.
	g := Build(date(2024, time.July, 10), nil, time.Time{})
	if !g.Weeks[0][0].InMonth {
		t.Error("expected no leading filler for a month starting on Monday")
	}
	if len(g.Weeks) != 5 {
		t.Errorf("rows = %d, want 5", len(g.Weeks))
	}
}

func TestBuildMonthEndingSunday(t *testing.T) {
	// March 2024 ends on a Sunday: no extra all-filler row.
	g := Build(date(2024, time.March, 1), nil, time.Time{})
	last := g.Weeks[len(g.Weeks)-1]
	if !last[6].InMonth || last[6].Date.Day() != 31 {
		t.Errorf("expected March 31 in the final cell, got %v", last[6].Date)
	}
}

func TestTodayComparesDates(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	today := time.Date(2024, time.October, 5, 23, 59, 0, 0, loc)
	g := Build(date(2024, time.October, 1), nil, today)

	count := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.IsToday {
				count++
				if c.Date.Day() != 5 {
					t.Errorf("today highlighted on day %d, want 5", c.Date.Day())
				}
			}
		}
	}
	if count != 1 {
		t.Errorf("today highlighted %d times, want 1", count)
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-10")
	if err != nil {
		t.Fatalf("ParseMonth failed: %v", err)
	}
	if !m.Equal(date(2024, time.October, 1)) {
		t.Errorf("ParseMonth = %v", m)
	}
	if FormatMonth(m) != "2024-10" {
		t.Errorf("FormatMonth = %s", FormatMonth(m))
	}

	g := Build(m, nil, time.Time{})
	if FormatMonth(g.Prev()) != "2024-09" || FormatMonth(g.Next()) != "2024-11" {
		t.Errorf("navigation = %s / %s", FormatMonth(g.Prev()), FormatMonth(g.Next()))
	}

	for _, bad := range []string{"", "2024-13", "2024/10", "Oct 2024"} {
		if _, err := ParseMonth(bad); err == nil {
			t.Errorf("ParseMonth(%q) expected error", bad)
		}
	}
}
