package repository

import (
	"context"
	"errors"
	"fmt"

	"caselens-backend/models"
	"caselens-backend/personalization"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReactionRepository handles database operations for user reactions.
// Transition runs its own transaction, so it holds the pool rather than a
// DBTX.
type ReactionRepository struct {
	db *pgxpool.Pool
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Get returns the user's reaction on a case, or nil when none exists.
func (r *ReactionRepository) Get(ctx context.Context, userID uuid.UUID, caseID string) (*int, error) {
	var reaction int
	err := r.db.QueryRow(ctx,
		`SELECT reaction FROM user_reactions WHERE user_id = $1 AND case_id = $2`,
		userID, caseID).Scan(&reaction)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}
	return &reaction, nil
}

// ListForCases returns the user's reactions on the given cases, keyed by
// case id, for hydrating search results.
func (r *ReactionRepository) ListForCases(ctx context.Context, userID uuid.UUID, caseIDs []string) (map[string]*models.UserReaction, error) {
	if len(caseIDs) == 0 {
		return map[string]*models.UserReaction{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, case_id, reaction, created_at
		FROM user_reactions
		WHERE user_id = $1 AND case_id = ANY($2)`, userID, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	reactions := make(map[string]*models.UserReaction)
	for rows.Next() {
		ur := &models.UserReaction{}
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.CaseID, &ur.Reaction, &ur.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions[ur.CaseID] = ur
	}
	return reactions, rows.Err()
}

// Transition applies a reaction change and its preference deltas as one
// atomic unit: lock the (user, case) pair, read the previous reaction,
// write or delete the reaction, compute deltas from the previous value, and
// fold them into the user's weights. Either everything commits or nothing
// does, so the reaction state and the learned weights can never diverge.
func (r *ReactionRepository) Transition(
	ctx context.Context,
	userID uuid.UUID,
	caseID string,
	newReaction *int,
	compute func(previous *int) []personalization.WeightDelta,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reaction transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row locks cannot cover a reaction that does not exist yet, so two
	// concurrent first votes could both read "no previous reaction" and
	// double-apply their deltas. An advisory lock on the (user, case) pair
	// serializes transitions; it is released at commit or rollback.
	_, err = tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text), hashtext($2))`,
		userID, caseID)
	if err != nil {
		return fmt.Errorf("failed to lock reaction: %w", err)
	}

	var previous *int
	var prev int
	err = tx.QueryRow(ctx,
		`SELECT reaction FROM user_reactions WHERE user_id = $1 AND case_id = $2`,
		userID, caseID).Scan(&prev)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		previous = nil
	case err != nil:
		return fmt.Errorf("failed to read previous reaction: %w", err)
	default:
		previous = &prev
	}

	if newReaction == nil {
		_, err = tx.Exec(ctx,
			`DELETE FROM user_reactions WHERE user_id = $1 AND case_id = $2`,
			userID, caseID)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_reactions (user_id, case_id, reaction)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, case_id)
			DO UPDATE SET reaction = EXCLUDED.reaction, created_at = NOW()`,
			userID, caseID, *newReaction)
	}
	if err != nil {
		return fmt.Errorf("failed to write reaction: %w", err)
	}

	if err := applyWeightDeltas(ctx, tx, userID, compute(previous)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reaction transaction: %w", err)
	}
	return nil
}
