package repository

import (
	"context"
	"fmt"

	"caselens-backend/models"
	"caselens-backend/personalization"

	"github.com/google/uuid"
)

// PreferenceRepository handles database operations for learned user
// preference weights
type PreferenceRepository struct {
	db DBTX
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db DBTX) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListByUser retrieves all preference weights for a user
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPreference, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, feature_key, feature_value, weight
		FROM user_preferences
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []models.UserPreference
	for rows.Next() {
		var p models.UserPreference
		if err := rows.Scan(&p.ID, &p.UserID, &p.FeatureKey, &p.FeatureValue, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// ApplyDeltas folds reaction deltas into the user's weights. The upsert adds
// to the existing weight atomically at the SQL level, so concurrent
// reactions to the same feature value can't lose updates.
func (r *PreferenceRepository) ApplyDeltas(ctx context.Context, userID uuid.UUID, deltas []personalization.WeightDelta) error {
	return applyWeightDeltas(ctx, r.db, userID, deltas)
}

func applyWeightDeltas(ctx context.Context, db DBTX, userID uuid.UUID, deltas []personalization.WeightDelta) error {
	for _, d := range deltas {
		if d.Delta == 0 {
			continue
		}
		_, err := db.Exec(ctx, `
			INSERT INTO user_preferences (user_id, feature_key, feature_value, weight)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, feature_key, feature_value)
			DO UPDATE SET weight = user_preferences.weight + EXCLUDED.weight`,
			userID, d.Key, d.Value, d.Delta)
		if err != nil {
			return fmt.Errorf("failed to apply weight delta for %s=%s: %w", d.Key, d.Value, err)
		}
	}
	return nil
}
