package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billcal/internal/calculator"
	"github.com/mmynk/billcal/internal/locale"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

// maxConcurrentLoads bounds the per-profile bill queries of one dashboard request.
const maxConcurrentLoads = 4

// DashboardService implements the Connect DashboardService.
type DashboardService struct {
	apiconnect.UnimplementedDashboardServiceHandler
	store storage.Store
}

// NewDashboardService creates a new DashboardService with the given storage backend.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

// GetDashboard summarises the caller's profiles, bills and bill instances.
func (s *DashboardService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.ListProfiles(ctx, userID)
	if err != nil {
		return nil, storeError("get dashboard", err, "user_id", userID)
	}

	// One query per profile, all settled before aggregation.
	bills := make([][]*models.Bill, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range profiles {
		g.Go(func() error {
			list, err := s.store.ListBills(gctx, p.ID)
			bills[i] = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("get dashboard", err, "user_id", userID)
	}

	billsByProfile := make(map[string][]*models.Bill, len(profiles))
	for i, p := range profiles {
		billsByProfile[p.ID] = bills[i]
	}

	events, err := s.store.ListCalendarEvents(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, storeError("get dashboard", err, "user_id", userID)
	}

	summary := calculator.Summarize(profiles, billsByProfile, events, locale.FromContext(ctx))

	resp := &api.GetDashboardResponse{
		TotalProfiles: summary.TotalProfiles,
		TotalBills:    summary.TotalBills,
		PaidCount:     summary.PaidCount,
		UnpaidCount:   summary.UnpaidCount,
		TotalAmount:   summary.TotalAmount,
		PaidAmount:    summary.PaidAmount,
		UnpaidAmount:  summary.UnpaidAmount,
		Monthly:       make([]*api.MonthlyAmount, len(summary.Monthly)),
	}
	for i, m := range summary.Monthly {
		resp.Monthly[i] = &api.MonthlyAmount{
			Month:  m.Month.Format(api.MonthLayout),
			Label:  m.Label,
			Amount: m.Amount,
		}
	}

	slog.Info("GetDashboard successful", "user_id", userID, "profiles", summary.TotalProfiles, "bills", summary.TotalBills)
	return connect.NewResponse(resp), nil
}
