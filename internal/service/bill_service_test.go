package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/pkg/api"
)

func TestBillService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ana := env.register(t, "ana@example.com")
	ivo := env.register(t, "ivo@example.com")
	home := env.createProfile(t, ana, "Home")

	var billID string

	t.Run("CreateBill encrypts credentials at rest", func(t *testing.T) {
		bill := env.createBill(t, ana, &api.CreateBillRequest{
			ProfileID:   home.ID,
			Name:        "Electricity",
			IsRecurring: true,
			Link:        "https://ebill.example.com",
			Username:    "ana",
			Password:    "s3cret",
		})
		billID = bill.ID

		if bill.Username != "ana" || bill.Password != "s3cret" {
			t.Errorf("expected decrypted credentials in response, got %q/%q", bill.Username, bill.Password)
		}
		if bill.RecurringDay != models.DefaultRecurringDay {
			t.Errorf("recurring day: expected default %d, got %d", models.DefaultRecurringDay, bill.RecurringDay)
		}

		stored, err := env.store.GetBill(ctx, billID)
		if err != nil {
			t.Fatalf("GetBill from store failed: %v", err)
		}
		if stored.Username == "ana" || stored.Password == "s3cret" || stored.Password == "" {
			t.Errorf("credentials stored in plain text: %q/%q", stored.Username, stored.Password)
		}
	})

	t.Run("empty credentials stay empty", func(t *testing.T) {
		bill := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: home.ID, Name: "Water"})

		stored, err := env.store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill from store failed: %v", err)
		}
		if stored.Username != "" || stored.Password != "" {
			t.Errorf("expected empty stored credentials, got %q/%q", stored.Username, stored.Password)
		}
	})

	t.Run("CreateBill validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.CreateBillRequest
			code connect.Code
		}{
			{"missing name", &api.CreateBillRequest{ProfileID: home.ID}, connect.CodeInvalidArgument},
			{"day out of range", &api.CreateBillRequest{ProfileID: home.ID, Name: "Gas", RecurringDay: 32}, connect.CodeInvalidArgument},
			{"bad link", &api.CreateBillRequest{ProfileID: home.ID, Name: "Gas", Link: "not a url"}, connect.CodeInvalidArgument},
			{"unknown profile", &api.CreateBillRequest{ProfileID: "missing", Name: "Gas"}, connect.CodeNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.bills.CreateBill(ctx, authed(ana, tt.req))
				expectCode(t, err, tt.code)
			})
		}
	})

	t.Run("other users see NotFound", func(t *testing.T) {
		_, err := env.bills.GetBill(ctx, authed(ivo, &api.GetBillRequest{BillID: billID}))
		expectCode(t, err, connect.CodeNotFound)

		_, err = env.bills.ListBills(ctx, authed(ivo, &api.ListBillsRequest{ProfileID: home.ID}))
		expectCode(t, err, connect.CodeNotFound)

		_, err = env.bills.CreateBill(ctx, authed(ivo, &api.CreateBillRequest{ProfileID: home.ID, Name: "Sneaky"}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("UpdateBill", func(t *testing.T) {
		resp, err := env.bills.UpdateBill(ctx, authed(ana, &api.UpdateBillRequest{
			BillID:       billID,
			Name:         "Power",
			IsRecurring:  true,
			RecurringDay: 31,
			Username:     "ana2",
		}))
		if err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}
		b := resp.Msg.Bill
		if b.Name != "Power" || b.RecurringDay != 31 || b.Username != "ana2" || b.Password != "" {
			t.Errorf("unexpected bill after update: %+v", b)
		}

		get, err := env.bills.GetBill(ctx, authed(ana, &api.GetBillRequest{BillID: billID}))
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if get.Msg.Bill.Username != "ana2" {
			t.Errorf("username: expected 'ana2', got '%s'", get.Msg.Bill.Username)
		}
	})

	t.Run("ListBills", func(t *testing.T) {
		resp, err := env.bills.ListBills(ctx, authed(ana, &api.ListBillsRequest{ProfileID: home.ID}))
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(resp.Msg.Bills) != 2 {
			t.Fatalf("expected 2 bills, got %d", len(resp.Msg.Bills))
		}
		if resp.Msg.Bills[0].Name != "Power" {
			t.Errorf("expected bills ordered by name, got '%s' first", resp.Msg.Bills[0].Name)
		}
	})

	t.Run("DeleteBill", func(t *testing.T) {
		if _, err := env.bills.DeleteBill(ctx, authed(ana, &api.DeleteBillRequest{BillID: billID})); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		_, err := env.bills.GetBill(ctx, authed(ana, &api.GetBillRequest{BillID: billID}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("deleting a profile removes its bills", func(t *testing.T) {
		flat := env.createProfile(t, ana, "Flat")
		bill := env.createBill(t, ana, &api.CreateBillRequest{ProfileID: flat.ID, Name: "Internet"})

		if _, err := env.profiles.DeleteProfile(ctx, authed(ana, &api.DeleteProfileRequest{ProfileID: flat.ID})); err != nil {
			t.Fatalf("DeleteProfile failed: %v", err)
		}
		_, err := env.bills.GetBill(ctx, authed(ana, &api.GetBillRequest{BillID: bill.ID}))
		expectCode(t, err, connect.CodeNotFound)
	})
}
