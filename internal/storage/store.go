// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/billcal/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for bill tracker storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateUser inserts a new user. The email must be unique.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns the user with the given email, or nil if none exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the user with the given ID, or nil if none exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateProfile persists a new profile.
	// The profile.ID and CreatedAt fields are populated by the store when empty.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	// GetProfile retrieves a profile by ID. Returns ErrNotFound if missing.
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)

	// ListProfiles returns the profiles owned by a user, ordered by name.
	ListProfiles(ctx context.Context, userID string) ([]*models.Profile, error)

	// UpdateProfile updates name and address fields. Returns ErrNotFound if missing.
	UpdateProfile(ctx context.Context, profile *models.Profile) error

	// DeleteProfile removes a profile. Returns ErrNotFound if missing.
	DeleteProfile(ctx context.Context, profileID string) error

	// CreateBill persists a new bill.
	// The bill.ID and CreatedAt fields are populated by the store when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID. Returns ErrNotFound if missing.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns the bills of a profile, ordered by name.
	ListBills(ctx context.Context, profileID string) ([]*models.Bill, error)

	// UpdateBill updates an existing bill. Returns ErrNotFound if missing.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill. Returns ErrNotFound if missing.
	DeleteBill(ctx context.Context, billID string) error

	// CreateBillInstance persists a new bill instance.
	// The instance.ID and CreatedAt fields are populated by the store when empty.
	CreateBillInstance(ctx context.Context, instance *models.BillInstance) error

	// GetBillInstance retrieves an instance by ID. Returns ErrNotFound if missing.
	GetBillInstance(ctx context.Context, instanceID string) (*models.BillInstance, error)

	// ListBillInstances returns the instances of a bill whose month lies in
	// [from, to), ordered by month. Zero times leave that side open.
	ListBillInstances(ctx context.Context, billID string, from, to time.Time) ([]*models.BillInstance, error)

	// UpdateBillInstance updates month, due date, amount, paid flag and description.
	// Returns ErrNotFound if missing.
	UpdateBillInstance(ctx context.Context, instance *models.BillInstance) error

	// DeleteBillInstance removes an instance. Returns ErrNotFound if missing.
	DeleteBillInstance(ctx context.Context, instanceID string) error

	// ListCalendarEvents returns the instances of all bills owned by userID whose
	// due date lies in [from, to), joined with bill and profile names and
	// ordered by due date.
	ListCalendarEvents(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error)

	// GenerateMissingBillInstances backfills one instance per month for every
	// recurring bill, from the bill's creation month through the month of
	// `through`. Returns the number of instances created.
	GenerateMissingBillInstances(ctx context.Context, through time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
