package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
)

const instanceColumns = `id, bill_id, month, due_date, amount, is_paid, description, created_at`

func scanInstance(row rowScanner) (*models.BillInstance, error) {
	instance := &models.BillInstance{}
	var month, due string
	var paid int
	if err := row.Scan(&instance.ID, &instance.BillID, &month, &due, &instance.Amount,
		&paid, &instance.Description, &instance.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if instance.Month, err = parseDate(month); err != nil {
		return nil, err
	}
	if instance.DueDate, err = parseDate(due); err != nil {
		return nil, err
	}
	instance.IsPaid = paid != 0
	return instance, nil
}

// CreateBillInstance persists a new bill instance.
// Month is normalised to the first day of its month.
func (s *SQLiteStore) CreateBillInstance(ctx context.Context, instance *models.BillInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.New().String()
	}
	if instance.CreatedAt == 0 {
		instance.CreatedAt = time.Now().Unix()
	}
	instance.Month = models.FirstOfMonth(instance.Month)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_instances (`+instanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		instance.ID, instance.BillID, formatDate(instance.Month), formatDate(instance.DueDate),
		instance.Amount, boolToInt(instance.IsPaid), instance.Description, instance.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill instance: %w", err)
	}
	return nil
}

// GetBillInstance retrieves a bill instance by ID.
func (s *SQLiteStore) GetBillInstance(ctx context.Context, instanceID string) (*models.BillInstance, error) {
	instance, err := scanInstance(s.db.QueryRowContext(ctx,
		`SELECT `+instanceColumns+` FROM bill_instances WHERE id = ?`, instanceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill instance %s: %w", instanceID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill instance: %w", err)
	}
	return instance, nil
}

// ListBillInstances returns a bill's instances with month in [from, to).
func (s *SQLiteStore) ListBillInstances(ctx context.Context, billID string, from, to time.Time) ([]*models.BillInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM bill_instances WHERE bill_id = ?`
	args := []any{billID}
	if !from.IsZero() {
		query += ` AND month >= ?`
		args = append(args, formatDate(from))
	}
	if !to.IsZero() {
		query += ` AND month < ?`
		args = append(args, formatDate(to))
	}
	query += ` ORDER BY month, due_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill instances: %w", err)
	}
	defer rows.Close()

	var instances []*models.BillInstance
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill instance: %w", err)
		}
		instances = append(instances, instance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill instances: %w", err)
	}
	return instances, nil
}

// UpdateBillInstance updates the editable fields of an instance.
func (s *SQLiteStore) UpdateBillInstance(ctx context.Context, instance *models.BillInstance) error {
	instance.Month = models.FirstOfMonth(instance.Month)
	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_instances SET month = ?, due_date = ?, amount = ?, is_paid = ?, description = ?
		 WHERE id = ?`,
		formatDate(instance.Month), formatDate(instance.DueDate), instance.Amount,
		boolToInt(instance.IsPaid), instance.Description, instance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill instance: %w", err)
	}
	return checkAffected(res, "bill instance", instance.ID)
}

// DeleteBillInstance removes a bill instance.
func (s *SQLiteStore) DeleteBillInstance(ctx context.Context, instanceID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bill_instances WHERE id = ?`, instanceID)
	if err != nil {
		return fmt.Errorf("failed to delete bill instance: %w", err)
	}
	return checkAffected(res, "bill instance", instanceID)
}

// ListCalendarEvents joins instances with their bill and profile for one user.
func (s *SQLiteStore) ListCalendarEvents(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT i.id, i.bill_id, i.month, i.due_date, i.amount, i.is_paid, i.description, b.name, p.name
		FROM bill_instances i
		JOIN bills b ON b.id = i.bill_id
		JOIN profiles p ON p.id = b.profile_id
		WHERE p.user_id = ?`)
	args := []any{userID}
	if !from.IsZero() {
		b.WriteString(` AND i.due_date >= ?`)
		args = append(args, formatDate(from))
	}
	if !to.IsZero() {
		b.WriteString(` AND i.due_date < ?`)
		args = append(args, formatDate(to))
	}
	b.WriteString(` ORDER BY i.due_date, b.name`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		event := &models.CalendarEvent{}
		var month, due string
		var paid int
		if err := rows.Scan(&event.ID, &event.BillID, &month, &due, &event.Amount, &paid,
			&event.Description, &event.BillName, &event.ProfileName); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		if event.Month, err = parseDate(month); err != nil {
			return nil, err
		}
		if event.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		event.IsPaid = paid != 0
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}
	return events, nil
}

type recurringBill struct {
	id        string
	day       int
	createdAt int64
}

type knownMonth struct {
	month  string
	amount decimal.Decimal
}

// GenerateMissingBillInstances backfills monthly instances of recurring bills.
// The whole backfill runs in one transaction.
func (s *SQLiteStore) GenerateMissingBillInstances(ctx context.Context, through time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bills, err := recurringBills(ctx, tx)
	if err != nil {
		return 0, err
	}

	last := models.FirstOfMonth(through)
	now := time.Now().Unix()
	created := 0

	for _, bill := range bills {
		known, err := knownMonths(ctx, tx, bill.id)
		if err != nil {
			return 0, err
		}

		amount := decimal.Zero
		next := 0
		for month := models.FirstOfMonth(time.Unix(bill.createdAt, 0).UTC()); !month.After(last); month = month.AddDate(0, 1, 0) {
			key := formatDate(month)
			exists := false
			for next < len(known) && known[next].month <= key {
				amount = known[next].amount
				exists = exists || known[next].month == key
				next++
			}
			if exists {
				continue
			}

			_, err := tx.ExecContext(ctx,
				`INSERT INTO bill_instances (`+instanceColumns+`) VALUES (?, ?, ?, ?, ?, 0, '', ?)`,
				uuid.New().String(), bill.id, key, formatDate(models.DueDateIn(month, bill.day)), amount, now,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert generated bill instance: %w", err)
			}
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func recurringBills(ctx context.Context, tx *sql.Tx) ([]recurringBill, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, recurring_day, created_at FROM bills WHERE is_recurring = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring bills: %w", err)
	}
	defer rows.Close()

	var bills []recurringBill
	for rows.Next() {
		var b recurringBill
		if err := rows.Scan(&b.id, &b.day, &b.createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recurring bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// knownMonths returns the existing months of a bill in ascending order,
// each with the amount of its latest instance.
func knownMonths(ctx context.Context, tx *sql.Tx, billID string) ([]knownMonth, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT month, amount FROM bill_instances WHERE bill_id = ? ORDER BY month, created_at`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill months: %w", err)
	}
	defer rows.Close()

	var months []knownMonth
	for rows.Next() {
		var m knownMonth
		if err := rows.Scan(&m.month, &m.amount); err != nil {
			return nil, fmt.Errorf("failed to scan bill month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}
