package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
)

const billColumns = `id, profile_id, name, is_recurring, recurring_day, link, username, password, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var recurring int
	if err := row.Scan(&bill.ID, &bill.ProfileID, &bill.Name, &recurring, &bill.RecurringDay,
		&bill.Link, &bill.Username, &bill.Password, &bill.CreatedAt); err != nil {
		return nil, err
	}
	bill.IsRecurring = recurring != 0
	return bill, nil
}

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.RecurringDay == 0 {
		bill.RecurringDay = models.DefaultRecurringDay
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.ProfileID, bill.Name, boolToInt(bill.IsRecurring), bill.RecurringDay,
		bill.Link, bill.Username, bill.Password, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ?`, billID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBills returns the bills of a profile.
func (s *SQLiteStore) ListBills(ctx context.Context, profileID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE profile_id = ? ORDER BY name, created_at`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// UpdateBill updates an existing bill. The owning profile cannot change.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.RecurringDay == 0 {
		bill.RecurringDay = models.DefaultRecurringDay
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, is_recurring = ?, recurring_day = ?, link = ?, username = ?, password = ?
		 WHERE id = ?`,
		bill.Name, boolToInt(bill.IsRecurring), bill.RecurringDay, bill.Link, bill.Username, bill.Password, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return checkAffected(res, "bill", bill.ID)
}

// DeleteBill removes a bill and, via ON DELETE CASCADE, its instances.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return checkAffected(res, "bill", billID)
}
