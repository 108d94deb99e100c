package service

import (
	"context"

	"caselens-backend/models"
	"caselens-backend/personalization"

	"github.com/google/uuid"
)

// ReactionTransitioner applies a reaction change and its preference deltas
// atomically. The compute callback receives the previous reaction read
// inside the same transaction, so transitions are always deltas against the
// actual prior state.
type ReactionTransitioner interface {
	Transition(ctx context.Context, userID uuid.UUID, caseID string, newReaction *int,
		compute func(previous *int) []personalization.WeightDelta) error
}

// ReactionService records like/dislike feedback and feeds it into the
// user's preference profile.
type ReactionService struct {
	cases     CaseStore
	reactions ReactionTransitioner
}

// ReactionServiceOption is a functional option for ReactionService
type ReactionServiceOption func(*ReactionService)

// ReactionWithCaseStore sets the case store
func ReactionWithCaseStore(s CaseStore) ReactionServiceOption {
	return func(svc *ReactionService) { svc.cases = s }
}

// ReactionWithTransitioner sets the reaction store
func ReactionWithTransitioner(t ReactionTransitioner) ReactionServiceOption {
	return func(svc *ReactionService) { svc.reactions = t }
}

// NewReactionService creates a new reaction service
func NewReactionService(opts ...ReactionServiceOption) *ReactionService {
	s := &ReactionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReactRequest represents a reaction change. A nil Reaction clears the
// user's existing vote.
type ReactRequest struct {
	UserID   uuid.UUID
	CaseID   string
	Reaction *int
}

// ReactResult reports the reaction now stored for the (user, case) pair.
type ReactResult struct {
	Reaction *int `json:"reaction"`
}

// React validates and applies a reaction transition. The reaction row and
// the preference deltas it implies are committed as one unit.
func (s *ReactionService) React(ctx context.Context, req ReactRequest) (*ReactResult, error) {
	if s.cases == nil || s.reactions == nil {
		return nil, ErrStoreUnavailable
	}
	if !models.ValidReaction(req.Reaction) {
		return nil, ErrInvalidReaction
	}

	c, err := s.cases.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	err = s.reactions.Transition(ctx, req.UserID, req.CaseID, req.Reaction,
		func(previous *int) []personalization.WeightDelta {
			return personalization.ComputeDeltas(c, req.Reaction, previous)
		})
	if err != nil {
		return nil, err
	}

	return &ReactResult{Reaction: req.Reaction}, nil
}
