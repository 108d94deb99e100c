package personalization

import "caselens-backend/models"

// WeightDelta is a signed adjustment to one preference weight, produced by a
// reaction transition. Deltas are additive: applying a reaction and then
// clearing it returns every affected weight to its prior value.
type WeightDelta struct {
	Key   models.FeatureKey
	Value string
	Delta int
}

// ComputeDeltas translates a reaction transition on a case into per-feature
// weight deltas.
//
// Transition rules:
//   - clearing a vote (newReaction nil): delta = -previous, or 0 if there
//     was no previous vote
//   - changing a vote: delta = new - previous (magnitude 2 on a flip)
//   - first-time vote: delta = new
//
// Zero deltas are dropped. A case with no extractable features yields nil.
func ComputeDeltas(c *models.Case, newReaction, previousReaction *int) []WeightDelta {
	features := ExtractFeatures(c)
	if len(features) == 0 {
		return nil
	}

	var delta int
	switch {
	case newReaction == nil:
		if previousReaction == nil {
			return nil
		}
		delta = -*previousReaction
	case previousReaction != nil:
		delta = *newReaction - *previousReaction
	default:
		delta = *newReaction
	}

	if delta == 0 {
		return nil
	}

	deltas := make([]WeightDelta, 0, len(features))
	for _, f := range features {
		deltas = append(deltas, WeightDelta{Key: f.Key, Value: f.Value, Delta: delta})
	}
	return deltas
}
