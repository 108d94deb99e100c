package models

import (
	"time"

	"github.com/google/uuid"
)

// FeatureKey identifies one of the categorical case attributes used as a
// personalization signal.
type FeatureKey string

const (
	FeatureNatureOfSuit  FeatureKey = "nature_of_suit"
	FeatureCauseOfAction FeatureKey = "cause_of_action"
	FeatureEntity        FeatureKey = "entity"
	FeatureSource        FeatureKey = "source"
	FeatureCourtName     FeatureKey = "court_name"
	FeatureJudge         FeatureKey = "judge"
)

// FeatureKeys is the fixed extraction order for case features.
var FeatureKeys = []FeatureKey{
	FeatureNatureOfSuit,
	FeatureCauseOfAction,
	FeatureEntity,
	FeatureSource,
	FeatureCourtName,
	FeatureJudge,
}

// Feature is a single extracted (key, value) pair from a case record.
type Feature struct {
	Key   FeatureKey `json:"key"`
	Value string     `json:"value"`
}

// UserPreference is a learned per-user weight for one feature value. The
// weight is a running sum of every reaction delta ever applied to it.
type UserPreference struct {
	ID           int64      `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	FeatureKey   FeatureKey `json:"feature_key"`
	FeatureValue string     `json:"feature_value"`
	Weight       float64    `json:"weight"`
}

// ReactionLike and ReactionDislike are the only valid reaction values.
const (
	ReactionLike    = 1
	ReactionDislike = -1
)

// UserReaction is a user's like/dislike signal on a case. At most one row
// exists per (user, case) pair; clearing a vote deletes the row.
type UserReaction struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CaseID    string    `json:"case_id"`
	Reaction  int       `json:"reaction"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidReaction reports whether a reaction value is one of {+1, -1, nil}.
// nil means the user is clearing an existing vote.
func ValidReaction(reaction *int) bool {
	if reaction == nil {
		return true
	}
	return *reaction == ReactionLike || *reaction == ReactionDislike
}
