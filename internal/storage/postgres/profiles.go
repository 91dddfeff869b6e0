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

const profileColumns = `id, user_id, name, street, city, country, created_at`

func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Street, &p.City, &p.Country, &p.CreatedAt)
	return p, err
}

// CreateProfile persists a new profile.
func (s *PostgresStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.ID = newID(profile.ID)
	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.ID, profile.UserID, profile.Name, profile.Street, profile.City, profile.Country, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID.
func (s *PostgresStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	profile, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", profileID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// ListProfiles returns the profiles owned by userID.
func (s *PostgresStore) ListProfiles(ctx context.Context, userID string) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 ORDER BY name, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile updates the name and address of a profile.
func (s *PostgresStore) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET name = $1, street = $2, city = $3, country = $4 WHERE id = $5`,
		profile.Name, profile.Street, profile.City, profile.Country, profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return checkAffected(res, "profile", profile.ID)
}

// DeleteProfile removes a profile and, by cascade, its bills and instances.
func (s *PostgresStore) DeleteProfile(ctx context.Context, profileID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return checkAffected(res, "profile", profileID)
}
