package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
)

const billColumns = `id, profile_id, name, is_recurring, recurring_day, link, username, password, created_at`

func scanBill(row rowScanner) (*models.Bill, error) {
	b := &models.Bill{}
	err := row.Scan(&b.ID, &b.ProfileID, &b.Name, &b.IsRecurring, &b.RecurringDay,
		&b.Link, &b.Username, &b.Password, &b.CreatedAt)
	return b, err
}

// CreateBill persists a new bill.
func (s *PostgresStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	bill.ID = newID(bill.ID)
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.RecurringDay == 0 {
		bill.RecurringDay = models.DefaultRecurringDay
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		bill.ID, bill.ProfileID, bill.Name, bill.IsRecurring, bill.RecurringDay,
		bill.Link, bill.Username, bill.Password, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *PostgresStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1`, billID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBills returns the bills of a profile.
func (s *PostgresStore) ListBills(ctx context.Context, profileID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE profile_id = $1 ORDER BY name, created_at`, profileID)
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

// UpdateBill updates an existing bill.
func (s *PostgresStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.RecurringDay == 0 {
		bill.RecurringDay = models.DefaultRecurringDay
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET name = $1, is_recurring = $2, recurring_day = $3, link = $4, username = $5, password = $6
		 WHERE id = $7`,
		bill.Name, bill.IsRecurring, bill.RecurringDay, bill.Link, bill.Username, bill.Password, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return checkAffected(res, "bill", bill.ID)
}

// DeleteBill removes a bill and, by cascade, its instances.
func (s *PostgresStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return checkAffected(res, "bill", billID)
}
