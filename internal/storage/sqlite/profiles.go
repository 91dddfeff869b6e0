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

const profileColumns = `id, user_id, name, street, city, country, created_at`

// CreateProfile persists a new profile to the database.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.UserID, profile.Name, profile.Street, profile.City, profile.Country, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID.
func (s *SQLiteStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`,
		profileID,
	).Scan(&profile.ID, &profile.UserID, &profile.Name, &profile.Street, &profile.City, &profile.Country, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", profileID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// ListProfiles returns all profiles owned by a user.
func (s *SQLiteStore) ListProfiles(ctx context.Context, userID string) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ? ORDER BY name, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(&profile.ID, &profile.UserID, &profile.Name, &profile.Street, &profile.City, &profile.Country, &profile.CreatedAt); err != nil {
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
func (s *SQLiteStore) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET name = ?, street = ?, city = ?, country = ? WHERE id = ?`,
		profile.Name, profile.Street, profile.City, profile.Country, profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return checkAffected(res, "profile", profile.ID)
}

// DeleteProfile removes a profile. Bills and instances go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteProfile(ctx context.Context, profileID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return checkAffected(res, "profile", profileID)
}
