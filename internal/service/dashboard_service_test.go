package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billcal/pkg/api"
)

func TestGetDashboard(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ana := env.register(t, "ana@example.com")
	ivo := env.register(t, "ivo@example.com")

	home := env.createProfile(t, ana, "Home")
	cottage := env.createProfile(t, ana, "Cottage")
	power := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: home.ID, Name: "Power"})
	water := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: home.ID, Name: "Water"})
	gas := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: cottage.ID, Name: "Gas"})

	instances := []*api.CreateBillInstanceRequest{
		{BillID: power.ID, Month: "2024-01", Amount: decimal.RequireFromString("10.50"), IsPaid: true},
		{BillID: water.ID, Month: "2024-01", Amount: decimal.NewFromInt(5)},
		{BillID: gas.ID, Month: "2024-03", Amount: decimal.RequireFromString("7.25")},
	}
	for _, in := range instances {
		if _, err := env.instances.CreateBillInstance(ctx, authed(ana, in)); err != nil {
			t.Fatalf("CreateBillInstance failed: %v", err)
		}
	}

	t.Run("totals", func(t *testing.T) {
		resp, err := env.dashboard.GetDashboard(ctx, authed(ana, &api.GetDashboardRequest{}))
		if err != nil {
			t.Fatalf("GetDashboard failed: %v", err)
		}
		d := resp.Msg
		if d.TotalProfiles != 2 || d.TotalBills != 3 {
			t.Errorf("expected 2 profiles and 3 bills, got %d and %d", d.TotalProfiles, d.TotalBills)
		}
		if d.PaidCount != 1 || d.UnpaidCount != 2 {
			t.Errorf("expected 1 paid and 2 unpaid, got %d and %d", d.PaidCount, d.UnpaidCount)
		}
		if !d.TotalAmount.Equal(decimal.RequireFromString("22.75")) {
			t.Errorf("total: expected 22.75, got %s", d.TotalAmount)
		}
		if !d.PaidAmount.Equal(decimal.RequireFromString("10.5")) {
			t.Errorf("paid: expected 10.5, got %s", d.PaidAmount)
		}
		if !d.UnpaidAmount.Equal(decimal.RequireFromString("12.25")) {
			t.Errorf("unpaid: expected 12.25, got %s", d.UnpaidAmount)
		}

		if len(d.Monthly) != 2 {
			t.Fatalf("expected 2 monthly entries, got %d", len(d.Monthly))
		}
		if d.Monthly[0].Month != "2024-01" || d.Monthly[0].Label != "January 2024" || !d.Monthly[0].Amount.Equal(decimal.RequireFromString("15.5")) {
			t.Errorf("unexpected first month: %+v", d.Monthly[0])
		}
		if d.Monthly[1].Month != "2024-03" || !d.Monthly[1].Amount.Equal(decimal.RequireFromString("7.25")) {
			t.Errorf("unexpected second month: %+v", d.Monthly[1])
		}
	})

	t.Run("empty account", func(t *testing.T) {
		resp, err := env.dashboard.GetDashboard(ctx, authed(ivo, &api.GetDashboardRequest{}))
		if err != nil {
			t.Fatalf("GetDashboard failed: %v", err)
		}
		if resp.Msg.TotalProfiles != 0 || resp.Msg.TotalBills != 0 || len(resp.Msg.Monthly) != 0 {
			t.Errorf("expected empty dashboard, got %+v", resp.Msg)
		}
		if !resp.Msg.TotalAmount.IsZero() {
			t.Errorf("expected zero total, got %s", resp.Msg.TotalAmount)
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		_, err := env.dashboard.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})
}
