package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/internal/calculator"
	"github.com/mmynk/billcal/internal/calendar"
	"github.com/mmynk/billcal/internal/locale"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

// CalendarService implements the Connect CalendarService.
type CalendarService struct {
	apiconnect.UnimplementedCalendarServiceHandler
	store storage.Store
	now   func() time.Time
}

// NewCalendarService creates a new CalendarService with the given storage backend.
func NewCalendarService(store storage.Store) *CalendarService {
	return &CalendarService{store: store, now: time.Now}
}

// GetCalendar backfills recurring bills through the current month, then
// lays out the requested month of the caller's bill instances.
func (s *CalendarService) GetCalendar(ctx context.Context, req *connect.Request[api.GetCalendarRequest]) (*connect.Response[api.GetCalendarResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	now := s.now()
	month := parseMonth(req.Msg.Month, now)
	slog.Info("GetCalendar request received", "user_id", userID, "month", month.Format(api.MonthLayout))

	if _, err := backfill(ctx, s.store, now); err != nil {
		return nil, err
	}

	events, err := s.store.ListCalendarEvents(ctx, userID, month, month.AddDate(0, 1, 0))
	if err != nil {
		return nil, storeError("get calendar", err, "user_id", userID)
	}

	grid := calendar.Build(month, events, now)
	tag := locale.FromContext(ctx)

	resp := &api.GetCalendarResponse{
		Month:      calendar.FormatMonth(grid.Month),
		MonthLabel: calculator.MonthLabel(tag, grid.Month),
		PrevMonth:  calendar.FormatMonth(grid.Prev()),
		NextMonth:  calendar.FormatMonth(grid.Next()),
		Weekdays:   make([]string, len(calendar.Weekdays)),
		Weeks:      make([][]*api.CalendarDay, len(grid.Weeks)),
	}
	for i, d := range calendar.Weekdays {
		resp.Weekdays[i] = locale.WeekdayName(tag, d)
	}
	for i, week := range grid.Weeks {
		days := make([]*api.CalendarDay, len(week))
		for j, cell := range week {
			days[j] = toAPIDay(cell)
		}
		resp.Weeks[i] = days
	}

	slog.Info("GetCalendar successful", "user_id", userID, "events", len(events))
	return connect.NewResponse(resp), nil
}

func toAPIDay(c calendar.Cell) *api.CalendarDay {
	day := &api.CalendarDay{
		Date:    c.Date.Format(api.DateLayout),
		Day:     c.Date.Day(),
		InMonth: c.InMonth,
		IsToday: c.IsToday,
		Events:  make([]*api.CalendarEvent, len(c.Events)),
	}
	for i, e := range c.Events {
		day.Events[i] = toAPIEvent(e)
	}
	return day
}

func toAPIEvent(e *models.CalendarEvent) *api.CalendarEvent {
	return &api.CalendarEvent{
		InstanceID:  e.ID,
		BillID:      e.BillID,
		BillName:    e.BillName,
		ProfileName: e.ProfileName,
		DueDate:     e.DueDate.Format(api.DateLayout),
		Amount:      e.Amount,
		IsPaid:      e.IsPaid,
		Description: e.Description,
	}
}
