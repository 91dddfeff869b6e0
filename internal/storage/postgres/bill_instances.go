package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
)

const instanceColumns = `id, bill_id, month, due_date, amount, is_paid, description, created_at`

func scanInstance(row rowScanner) (*models.BillInstance, error) {
	i := &models.BillInstance{}
	if err := row.Scan(&i.ID, &i.BillID, &i.Month, &i.DueDate, &i.Amount, &i.IsPaid, &i.Description, &i.CreatedAt); err != nil {
		return nil, err
	}
	i.Month = i.Month.UTC()
	i.DueDate = i.DueDate.UTC()
	return i, nil
}

// CreateBillInstance persists a new bill instance.
func (s *PostgresStore) CreateBillInstance(ctx context.Context, instance *models.BillInstance) error {
	instance.ID = newID(instance.ID)
	if instance.CreatedAt == 0 {
		instance.CreatedAt = time.Now().Unix()
	}
	instance.Month = models.FirstOfMonth(instance.Month)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_instances (`+instanceColumns+`) VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8)`,
		instance.ID, instance.BillID, formatDate(instance.Month), formatDate(instance.DueDate), instance.Amount,
		instance.IsPaid, instance.Description, instance.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill instance: %w", err)
	}
	return nil
}

// GetBillInstance retrieves a bill instance by ID.
func (s *PostgresStore) GetBillInstance(ctx context.Context, instanceID string) (*models.BillInstance, error) {
	instance, err := scanInstance(s.db.QueryRowContext(ctx,
		`SELECT `+instanceColumns+` FROM bill_instances WHERE id = $1`, instanceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill instance %s: %w", instanceID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill instance: %w", err)
	}
	return instance, nil
}

// rangeFilter appends "AND column >= $n" / "AND column < $n" for non-zero bounds.
func rangeFilter(b *strings.Builder, args []any, column string, from, to time.Time) []any {
	if !from.IsZero() {
		args = append(args, formatDate(from))
		b.WriteString(" AND " + column + " >= $" + strconv.Itoa(len(args)) + "::date")
	}
	if !to.IsZero() {
		args = append(args, formatDate(to))
		b.WriteString(" AND " + column + " < $" + strconv.Itoa(len(args)) + "::date")
	}
	return args
}

// ListBillInstances returns a bill's instances with month in [from, to).
func (s *PostgresStore) ListBillInstances(ctx context.Context, billID string, from, to time.Time) ([]*models.BillInstance, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + instanceColumns + ` FROM bill_instances WHERE bill_id = $1`)
	args := rangeFilter(&b, []any{billID}, "month", from, to)
	b.WriteString(` ORDER BY month, due_date`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
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
func (s *PostgresStore) UpdateBillInstance(ctx context.Context, instance *models.BillInstance) error {
	instance.Month = models.FirstOfMonth(instance.Month)
	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_instances SET month = $1::date, due_date = $2::date, amount = $3, is_paid = $4, description = $5
		 WHERE id = $6`,
		formatDate(instance.Month), formatDate(instance.DueDate), instance.Amount, instance.IsPaid, instance.Description, instance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill instance: %w", err)
	}
	return checkAffected(res, "bill instance", instance.ID)
}

// DeleteBillInstance removes a bill instance.
func (s *PostgresStore) DeleteBillInstance(ctx context.Context, instanceID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bill_instances WHERE id = $1`, instanceID)
	if err != nil {
		return fmt.Errorf("failed to delete bill instance: %w", err)
	}
	return checkAffected(res, "bill instance", instanceID)
}

// ListCalendarEvents joins instances with their bill and profile for one user.
func (s *PostgresStore) ListCalendarEvents(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT i.id, i.bill_id, i.month, i.due_date, i.amount, i.is_paid, i.description, b.name, p.name
		FROM bill_instances i
		JOIN bills b ON b.id = i.bill_id
		JOIN profiles p ON p.id = b.profile_id
		WHERE p.user_id = $1`)
	args := rangeFilter(&b, []any{userID}, "i.due_date", from, to)
	b.WriteString(` ORDER BY i.due_date, b.name`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		e := &models.CalendarEvent{}
		if err := rows.Scan(&e.ID, &e.BillID, &e.Month, &e.DueDate, &e.Amount, &e.IsPaid,
			&e.Description, &e.BillName, &e.ProfileName); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		e.Month = e.Month.UTC()
		e.DueDate = e.DueDate.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}
	return events, nil
}
