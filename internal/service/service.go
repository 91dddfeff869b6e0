// Package service implements the billcal.v1 Connect services.
//
// Every record is reached through its owner chain (user -> profile -> bill
// -> instance). Records owned by someone else are reported as NotFound so
// their existence is not disclosed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/internal/auth"
	"github.com/mmynk/billcal/internal/calendar"
	"github.com/mmynk/billcal/internal/middleware"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/internal/validation"
	"github.com/mmynk/billcal/pkg/api"
)

// validate checks a request message against its validate tags.
func validate(msg any) error {
	if err := validation.Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// currentUser returns the authenticated user ID set by middleware.RequireAuth.
func currentUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// storeError logs err and converts it to a Connect error. Missing records
// become NotFound; everything else is reported as a generic Internal error.
func storeError(op string, err error, args ...any) error {
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info(op+" not found", append(args, "error", err)...)
		return connect.NewError(connect.CodeNotFound, errors.New("not found"))
	}
	slog.Error(op+" failed", append(args, "error", err)...)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to %s", op))
}

// owned resolves records through their owner chain.
type owned struct {
	store storage.Store
}

func (o owned) profile(ctx context.Context, userID, profileID string) (*models.Profile, error) {
	profile, err := o.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, fmt.Errorf("profile %s: %w", profileID, storage.ErrNotFound)
	}
	return profile, nil
}

func (o owned) bill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill, err := o.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if _, err := o.profile(ctx, userID, bill.ProfileID); err != nil {
		return nil, fmt.Errorf("bill %s: %w", billID, err)
	}
	return bill, nil
}

func (o owned) instance(ctx context.Context, userID, instanceID string) (*models.BillInstance, *models.Bill, error) {
	instance, err := o.store.GetBillInstance(ctx, instanceID)
	if err != nil {
		return nil, nil, err
	}
	bill, err := o.bill(ctx, userID, instance.BillID)
	if err != nil {
		return nil, nil, fmt.Errorf("instance %s: %w", instanceID, err)
	}
	return instance, bill, nil
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIProfile(p *models.Profile) *api.Profile {
	return &api.Profile{
		ID:        p.ID,
		Name:      p.Name,
		Street:    p.Street,
		City:      p.City,
		Country:   p.Country,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIInstance(i *models.BillInstance) *api.BillInstance {
	return &api.BillInstance{
		ID:          i.ID,
		BillID:      i.BillID,
		Month:       i.Month.Format(api.MonthLayout),
		DueDate:     i.DueDate.Format(api.DateLayout),
		Amount:      i.Amount,
		IsPaid:      i.IsPaid,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
	}
}

// parseMonth parses a validated YYYY-MM string; an empty string yields def.
func parseMonth(s string, def time.Time) time.Time {
	if s == "" {
		return models.FirstOfMonth(def)
	}
	t, err := calendar.ParseMonth(s)
	if err != nil {
		return models.FirstOfMonth(def)
	}
	return t
}
