package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billcal/pkg/api"
)

func findDay(resp *api.GetCalendarResponse, date string) *api.CalendarDay {
	for _, week := range resp.Weeks {
		for _, day := range week {
			if day.Date == date {
				return day
			}
		}
	}
	return nil
}

func TestGetCalendar(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ana := env.register(t, "ana@example.com")
	ivo := env.register(t, "ivo@example.com")
	home := env.createProfile(t, ana, "Home")
	water := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: home.ID, Name: "Water"})

	env.calendarSvc.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC) }

	if _, err := env.instances.CreateBillInstance(ctx, authed(ana, &api.CreateBillInstanceRequest{
		BillID: water.ID, Month: "2024-03", DueDate: "2024-03-20", Amount: decimal.RequireFromString("31.40"),
	})); err != nil {
		t.Fatalf("CreateBillInstance failed: %v", err)
	}

	t.Run("month layout", func(t *testing.T) {
		resp, err := env.calendar.GetCalendar(ctx, authed(ana, &api.GetCalendarRequest{Month: "2024-03"}))
		if err != nil {
			t.Fatalf("GetCalendar failed: %v", err)
		}
		cal := resp.Msg
		if cal.Month != "2024-03" || cal.PrevMonth != "2024-02" || cal.NextMonth != "2024-04" {
			t.Errorf("unexpected navigation: %s %s %s", cal.PrevMonth, cal.Month, cal.NextMonth)
		}
		if cal.MonthLabel != "March 2024" {
			t.Errorf("label: expected 'March 2024', got '%s'", cal.MonthLabel)
		}
		if cal.Weekdays[0] != "Mon" || cal.Weekdays[6] != "Sun" {
			t.Errorf("expected Monday-first headers, got %v", cal.Weekdays)
		}
		// 1 March 2024 is a Friday.
		if first := cal.Weeks[0][0]; first.Date != "2024-02-26" || first.InMonth {
			t.Errorf("first cell: expected filler 2024-02-26, got %+v", first)
		}
		for i, week := range cal.Weeks {
			if len(week) != 7 {
				t.Errorf("week %d has %d days", i, len(week))
			}
		}

		due := findDay(cal, "2024-03-20")
		if due == nil || len(due.Events) != 1 {
			t.Fatalf("expected one event on 2024-03-20, got %+v", due)
		}
		ev := due.Events[0]
		if ev.BillName != "Water" || ev.ProfileName != "Home" || !ev.Amount.Equal(decimal.RequireFromString("31.4")) {
			t.Errorf("unexpected event: %+v", ev)
		}
		if today := findDay(cal, "2024-03-15"); today == nil || !today.IsToday {
			t.Errorf("expected 2024-03-15 to be marked today, got %+v", today)
		}
	})

	t.Run("defaults to current month", func(t *testing.T) {
		resp, err := env.calendar.GetCalendar(ctx, authed(ana, &api.GetCalendarRequest{}))
		if err != nil {
			t.Fatalf("GetCalendar failed: %v", err)
		}
		if resp.Msg.Month != "2024-03" {
			t.Errorf("expected 2024-03, got %s", resp.Msg.Month)
		}
	})

	t.Run("other users see nothing", func(t *testing.T) {
		resp, err := env.calendar.GetCalendar(ctx, authed(ivo, &api.GetCalendarRequest{Month: "2024-03"}))
		if err != nil {
			t.Fatalf("GetCalendar failed: %v", err)
		}
		for _, week := range resp.Msg.Weeks {
			for _, day := range week {
				if len(day.Events) != 0 {
					t.Errorf("unexpected event on %s for another user", day.Date)
				}
			}
		}
	})

	t.Run("croatian headers", func(t *testing.T) {
		req := authed(ana, &api.GetCalendarRequest{Month: "2024-03"})
		req.Header().Set("Accept-Language", "hr-HR,hr;q=0.9")
		resp, err := env.calendar.GetCalendar(ctx, req)
		if err != nil {
			t.Fatalf("GetCalendar failed: %v", err)
		}
		if resp.Msg.Weekdays[0] != "pon" {
			t.Errorf("expected 'pon', got '%s'", resp.Msg.Weekdays[0])
		}
		if resp.Msg.MonthLabel != "ožujak 2024" {
			t.Errorf("expected 'ožujak 2024', got '%s'", resp.Msg.MonthLabel)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := env.calendar.GetCalendar(ctx, authed(ana, &api.GetCalendarRequest{Month: "March"}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("requires auth", func(t *testing.T) {
		_, err := env.calendar.GetCalendar(ctx, connect.NewRequest(&api.GetCalendarRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestGetCalendarConcurrentLoads(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	tokens := []string{env.register(t, "ana@example.com"), env.register(t, "ivo@example.com")}
	for i, token := range tokens {
		home := env.createProfile(t, token, "Home")
		for _, name := range []string{"Rent", "Power"} {
			env.createBill(t, token, &api.CreateBillRequest{
				ProfileID: home.ID, Name: name, IsRecurring: true, RecurringDay: 10 + i,
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		token := tokens[i%len(tokens)]
		g.Go(func() error {
			_, err := env.calendar.GetCalendar(gctx, authed(token, &api.GetCalendarRequest{}))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent GetCalendar failed: %v", err)
	}

	for _, token := range tokens {
		resp, err := env.calendar.GetCalendar(ctx, authed(token, &api.GetCalendarRequest{}))
		if err != nil {
			t.Fatalf("GetCalendar failed: %v", err)
		}
		events := 0
		for _, week := range resp.Msg.Weeks {
			for _, day := range week {
				events += len(day.Events)
			}
		}
		if events != 2 {
			t.Errorf("expected one instance per bill this month, got %d events", events)
		}
	}
}
