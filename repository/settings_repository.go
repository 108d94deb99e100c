package repository

import (
	"context"
	"errors"
	"fmt"

	"caselens-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository handles database operations for user settings
type SettingsRepository struct {
	db DBTX
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the user's settings, or nil when none have been saved yet.
func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	s := &models.UserSettings{}
	err := r.db.QueryRow(ctx, `
		SELECT user_id, api_key_encrypted, api_key_masked, model_preference, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1`, userID).Scan(
		&s.UserID,
		&s.APIKeyEncrypted,
		&s.APIKeyMasked,
		&s.ModelPreference,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Upsert creates or replaces the user's settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, api_key_encrypted, api_key_masked, model_preference)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			api_key_encrypted = EXCLUDED.api_key_encrypted,
			api_key_masked = EXCLUDED.api_key_masked,
			model_preference = EXCLUDED.model_preference,
			updated_at = NOW()
		RETURNING created_at, updated_at`,
		s.UserID, s.APIKeyEncrypted, s.APIKeyMasked, s.ModelPreference,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
