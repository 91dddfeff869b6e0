package postgres

import (
	"context"
	"database/sql"
)

// schema mirrors the SQLite schema using native Postgres types and adds the
// backfill function called before each calendar load.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    street TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    country TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
    recurring_day INTEGER NOT NULL DEFAULT 1 CHECK (recurring_day BETWEEN 1 AND 31),
    link TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL DEFAULT '',
    password TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_instances (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
    month DATE NOT NULL,
    due_date DATE NOT NULL,
    amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
    is_paid BOOLEAN NOT NULL DEFAULT FALSE,
    description TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_bills_profile_id ON bills(profile_id);
CREATE INDEX IF NOT EXISTS idx_bill_instances_bill_month ON bill_instances(bill_id, month);
CREATE INDEX IF NOT EXISTS idx_bill_instances_due_date ON bill_instances(due_date);

CREATE OR REPLACE FUNCTION generate_missing_bill_instances(through DATE DEFAULT CURRENT_DATE)
RETURNS INTEGER AS $$
DECLARE
    inserted INTEGER;
BEGIN
    -- Concurrent backfills would both pass NOT EXISTS; run them one at a time.
    PERFORM pg_advisory_xact_lock(hashtext('generate_missing_bill_instances'));

    INSERT INTO bill_instances (id, bill_id, month, due_date, amount, is_paid, description, created_at)
    SELECT
        gen_random_uuid()::text,
        b.id,
        m.month,
        m.month + (LEAST(b.recurring_day,
            EXTRACT(DAY FROM (m.month + INTERVAL '1 month' - INTERVAL '1 day'))::int) - 1),
        COALESCE((
            SELECT prev.amount FROM bill_instances prev
            WHERE prev.bill_id = b.id AND prev.month < m.month
            ORDER BY prev.month DESC, prev.created_at DESC
            LIMIT 1
        ), 0),
        FALSE,
        '',
        EXTRACT(EPOCH FROM now())::bigint
    FROM bills b
    CROSS JOIN LATERAL (
        SELECT gs::date AS month
        FROM generate_series(
            date_trunc('month', to_timestamp(b.created_at) AT TIME ZONE 'UTC'),
            date_trunc('month', through::timestamp),
            INTERVAL '1 month'
        ) AS gs
    ) m
    WHERE b.is_recurring
      AND NOT EXISTS (
        SELECT 1 FROM bill_instances existing
        WHERE existing.bill_id = b.id AND existing.month = m.month
      );

    GET DIAGNOSTICS inserted = ROW_COUNT;
    RETURN inserted;
END;
$$ LANGUAGE plpgsql;
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
