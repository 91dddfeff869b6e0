// Package storagetest holds the behaviour every storage.Store backend must
// share. Backend packages run it from their own tests.
package storagetest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func date(year int, m time.Month, day int) time.Time {
	return time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
}

// Run exercises store. It creates its own user so it can share a database
// with earlier runs.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()

	user := models.NewUser(uuid.NewString()+"@example.com", "Ana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("users", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, user.Email)
		if err != nil || byEmail == nil || byEmail.ID != user.ID {
			t.Fatalf("GetUserByEmail: expected %s, got %+v (%v)", user.ID, byEmail, err)
		}
		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil || byID == nil || byID.DisplayName != "Ana" {
			t.Fatalf("GetUserByID: unexpected %+v (%v)", byID, err)
		}
		missing, err := store.GetUserByEmail(ctx, "nobody-"+uuid.NewString()+"@example.com")
		if err != nil || missing != nil {
			t.Errorf("expected nil user without error, got %+v (%v)", missing, err)
		}
		dup := models.NewUser(user.Email, "Copy", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected duplicate email to fail")
		}
	})

	home := &models.Profile{UserID: user.ID, Name: "Home", City: "Zagreb", Country: "HR"}
	cottage := &models.Profile{UserID: user.ID, Name: "Cottage"}
	for _, p := range []*models.Profile{home, cottage} {
		if err := store.CreateProfile(ctx, p); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
	}
	t.Cleanup(func() {
		for _, p := range []*models.Profile{home, cottage} {
			_ = store.DeleteProfile(context.Background(), p.ID)
		}
	})

	t.Run("profiles", func(t *testing.T) {
		if home.ID == "" || home.CreatedAt == 0 {
			t.Fatalf("expected ID and CreatedAt to be set, got %+v", home)
		}

		list, err := store.ListProfiles(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListProfiles failed: %v", err)
		}
		if len(list) != 2 || list[0].Name != "Cottage" || list[1].Name != "Home" {
			t.Fatalf("expected [Cottage Home], got %d profiles", len(list))
		}

		home.Street = "Ilica 1"
		if err := store.UpdateProfile(ctx, home); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		got, err := store.GetProfile(ctx, home.ID)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.Street != "Ilica 1" || got.Country != "HR" || got.UserID != user.ID {
			t.Errorf("unexpected profile: %+v", got)
		}

		if _, err := store.GetProfile(ctx, uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteProfile(ctx, uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting a missing profile, got %v", err)
		}
	})

	// A recurring bill created in January 2024 drives the backfill below.
	rent := &models.Bill{
		ProfileID:    home.ID,
		Name:         "Rent",
		IsRecurring:  true,
		RecurringDay: 31,
		Username:     "sealed-user",
		Password:     "sealed-pass",
		CreatedAt:    date(2024, time.January, 10).Unix(),
	}
	power := &models.Bill{ProfileID: home.ID, Name: "Power", RecurringDay: 5}
	for _, b := range []*models.Bill{rent, power} {
		if err := store.CreateBill(ctx, b); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
	}

	t.Run("bills", func(t *testing.T) {
		got, err := store.GetBill(ctx, rent.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if !got.IsRecurring || got.RecurringDay != 31 || got.Password != "sealed-pass" || got.CreatedAt != rent.CreatedAt {
			t.Errorf("unexpected bill: %+v", got)
		}

		list, err := store.ListBills(ctx, home.ID)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(list) != 2 || list[0].Name != "Power" || list[1].Name != "Rent" {
			t.Errorf("expected [Power Rent], got %d bills", len(list))
		}

		power.Link = "https://power.example.com"
		if err := store.UpdateBill(ctx, power); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}
		got, err = store.GetBill(ctx, power.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Link != "https://power.example.com" {
			t.Errorf("expected link to be updated, got %q", got.Link)
		}

		if _, err := store.GetBill(ctx, uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	feb := &models.BillInstance{
		BillID:  rent.ID,
		Month:   date(2024, time.February, 17),
		DueDate: date(2024, time.February, 29),
		Amount:  decimal.RequireFromString("450.25"),
	}
	march := &models.BillInstance{
		BillID:      power.ID,
		Month:       month(2024, time.March),
		DueDate:     date(2024, time.March, 5),
		Amount:      decimal.RequireFromString("61.10"),
		IsPaid:      true,
		Description: "card",
	}

	t.Run("bill instances", func(t *testing.T) {
		for _, in := range []*models.BillInstance{feb, march} {
			if err := store.CreateBillInstance(ctx, in); err != nil {
				t.Fatalf("CreateBillInstance failed: %v", err)
			}
		}
		if !feb.Month.Equal(month(2024, time.February)) {
			t.Errorf("expected month to be normalised, got %s", feb.Month)
		}

		got, err := store.GetBillInstance(ctx, march.ID)
		if err != nil {
			t.Fatalf("GetBillInstance failed: %v", err)
		}
		if !got.Amount.Equal(march.Amount) || !got.IsPaid || got.Description != "card" || !got.DueDate.Equal(march.DueDate) {
			t.Errorf("unexpected instance: %+v", got)
		}

		march.IsPaid = false
		march.Amount = decimal.RequireFromString("59.90")
		if err := store.UpdateBillInstance(ctx, march); err != nil {
			t.Fatalf("UpdateBillInstance failed: %v", err)
		}
		got, err = store.GetBillInstance(ctx, march.ID)
		if err != nil {
			t.Fatalf("GetBillInstance failed: %v", err)
		}
		if got.IsPaid || !got.Amount.Equal(decimal.RequireFromString("59.9")) {
			t.Errorf("expected update to persist, got %+v", got)
		}

		if _, err := store.GetBillInstance(ctx, uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("calendar events", func(t *testing.T) {
		events, err := store.ListCalendarEvents(ctx, user.ID, month(2024, time.February), month(2024, time.March))
		if err != nil {
			t.Fatalf("ListCalendarEvents failed: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("expected 1 event in February, got %d", len(events))
		}
		if ev := events[0]; ev.BillName != "Rent" || ev.ProfileName != "Home" || !ev.DueDate.Equal(feb.DueDate) {
			t.Errorf("unexpected event: %+v", ev)
		}

		all, err := store.ListCalendarEvents(ctx, user.ID, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ListCalendarEvents failed: %v", err)
		}
		if len(all) != 2 || all[0].ID != feb.ID || all[1].ID != march.ID {
			t.Errorf("expected both instances by due date, got %d", len(all))
		}

		others, err := store.ListCalendarEvents(ctx, uuid.NewString(), time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ListCalendarEvents failed: %v", err)
		}
		if len(others) != 0 {
			t.Errorf("expected no events for another user, got %d", len(others))
		}
	})

	t.Run("generate missing bill instances", func(t *testing.T) {
		if _, err := store.GenerateMissingBillInstances(ctx, date(2024, time.April, 20)); err != nil {
			t.Fatalf("GenerateMissingBillInstances failed: %v", err)
		}

		list, err := store.ListBillInstances(ctx, rent.ID, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ListBillInstances failed: %v", err)
		}
		want := []struct {
			month  time.Time
			due    time.Time
			amount string
		}{
			{month(2024, time.January), date(2024, time.January, 31), "0"},
			{month(2024, time.February), date(2024, time.February, 29), "450.25"},
			{month(2024, time.March), date(2024, time.March, 31), "450.25"},
			{month(2024, time.April), date(2024, time.April, 30), "450.25"},
		}
		if len(list) != len(want) {
			t.Fatalf("expected %d instances, got %d", len(want), len(list))
		}
		for i, w := range want {
			in := list[i]
			if !in.Month.Equal(w.month) || !in.DueDate.Equal(w.due) || !in.Amount.Equal(decimal.RequireFromString(w.amount)) {
				t.Errorf("instance %d: expected %s due %s amount %s, got %s due %s amount %s",
					i, w.month.Format("2006-01"), w.due.Format("2006-01-02"), w.amount,
					in.Month.Format("2006-01"), in.DueDate.Format("2006-01-02"), in.Amount)
			}
			if in.IsPaid && i != 1 {
				t.Errorf("instance %d: generated instances must be unpaid", i)
			}
		}

		ranged, err := store.ListBillInstances(ctx, rent.ID, month(2024, time.February), month(2024, time.April))
		if err != nil {
			t.Fatalf("ListBillInstances failed: %v", err)
		}
		if len(ranged) != 2 {
			t.Errorf("expected February and March, got %d instances", len(ranged))
		}

		again, err := store.GenerateMissingBillInstances(ctx, date(2024, time.April, 1))
		if err != nil {
			t.Fatalf("GenerateMissingBillInstances failed: %v", err)
		}
		if again != 0 {
			t.Errorf("expected a second run to create nothing, got %d", again)
		}

		oneOff, err := store.ListBillInstances(ctx, power.ID, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ListBillInstances failed: %v", err)
		}
		if len(oneOff) != 1 {
			t.Errorf("expected one-off bill to be left alone, got %d instances", len(oneOff))
		}
	})

	t.Run("concurrent generate missing bill instances", func(t *testing.T) {
		var bills []*models.Bill
		for _, name := range []string{"Gas", "Internet", "Water"} {
			b := &models.Bill{
				ProfileID:    cottage.ID,
				Name:         name,
				IsRecurring:  true,
				RecurringDay: 15,
				CreatedAt:    date(2024, time.January, 3).Unix(),
			}
			if err := store.CreateBill(ctx, b); err != nil {
				t.Fatalf("CreateBill failed: %v", err)
			}
			bills = append(bills, b)
		}

		const callers = 8
		var created atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < callers; i++ {
			g.Go(func() error {
				n, err := store.GenerateMissingBillInstances(gctx, date(2024, time.April, 1))
				created.Add(int64(n))
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("concurrent GenerateMissingBillInstances failed: %v", err)
		}
		if got := created.Load(); got != int64(4*len(bills)) {
			t.Errorf("expected %d instances created in total, got %d", 4*len(bills), got)
		}

		for _, b := range bills {
			list, err := store.ListBillInstances(ctx, b.ID, time.Time{}, time.Time{})
			if err != nil {
				t.Fatalf("ListBillInstances failed: %v", err)
			}
			seen := make(map[time.Time]int)
			for _, in := range list {
				seen[in.Month]++
			}
			for m := month(2024, time.January); !m.After(month(2024, time.April)); m = m.AddDate(0, 1, 0) {
				if seen[m] != 1 {
					t.Errorf("%s %s: expected exactly one instance, got %d", b.Name, m.Format("2006-01"), seen[m])
				}
			}
			if len(list) != 4 {
				t.Errorf("%s: expected 4 instances, got %d", b.Name, len(list))
			}
		}
	})

	t.Run("deletes cascade", func(t *testing.T) {
		if err := store.DeleteBillInstance(ctx, march.ID); err != nil {
			t.Fatalf("DeleteBillInstance failed: %v", err)
		}
		if err := store.DeleteBillInstance(ctx, march.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}

		if err := store.DeleteBill(ctx, power.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if err := store.DeleteProfile(ctx, home.ID); err != nil {
			t.Fatalf("DeleteProfile failed: %v", err)
		}
		if _, err := store.GetBill(ctx, rent.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected bill to be removed with its profile, got %v", err)
		}
		if _, err := store.GetBillInstance(ctx, feb.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected instance to be removed with its profile, got %v", err)
		}
	})
}
