package personalization

import (
	"math"
	"sort"

	"caselens-backend/models"
)

// PrefKey identifies one preference weight within a user's profile.
type PrefKey struct {
	Key   models.FeatureKey
	Value string
}

// blendTier maps a total feedback magnitude ceiling to the (alpha, beta)
// blend weights used below it. Tiers are checked in order; personalization
// gains influence as a user accumulates feedback, but alpha never reaches 0
// so base relevance always carries weight.
type blendTier struct {
	maxMagnitude float64
	alpha        float64
	beta         float64
}

var blendTiers = []blendTier{
	{maxMagnitude: 20, alpha: 0.8, beta: 0.2},
	{maxMagnitude: 50, alpha: 0.7, beta: 0.3},
	{maxMagnitude: math.Inf(1), alpha: 0.6, beta: 0.4},
}

// BlendWeights returns the (alpha, beta) pair for a given total feedback
// magnitude.
func BlendWeights(magnitude float64) (alpha, beta float64) {
	for _, tier := range blendTiers {
		if magnitude <= tier.maxMagnitude {
			return tier.alpha, tier.beta
		}
	}
	last := blendTiers[len(blendTiers)-1]
	return last.alpha, last.beta
}

// PrefMap indexes preference weights by (feature key, feature value).
func PrefMap(prefs []models.UserPreference) map[PrefKey]float64 {
	m := make(map[PrefKey]float64, len(prefs))
	for _, p := range prefs {
		m[PrefKey{Key: p.FeatureKey, Value: p.FeatureValue}] = p.Weight
	}
	return m
}

// Score sums the preference weights matching a case's extracted features.
// Features with no matching preference contribute 0.
func Score(c *models.Case, prefs map[PrefKey]float64) float64 {
	var score float64
	for _, f := range ExtractFeatures(c) {
		score += prefs[PrefKey{Key: f.Key, Value: f.Value}]
	}
	return score
}

// Rerank orders cases by a linear blend of base retrieval relevance and the
// user's personalization score.
//
// With no preferences the input is returned unchanged: base order is the
// only signal. Otherwise each case at position i of N gets
// base = (N-i)/N, its personalization score is normalized by the largest
// absolute score in the batch (floored at 1), and the final score is
// alpha*base + beta*normalized. The sort is stable so ties keep their
// retrieval order.
func Rerank(cases []*models.RankedCase, prefs []models.UserPreference) []*models.RankedCase {
	if len(prefs) == 0 || len(cases) == 0 {
		return cases
	}

	var magnitude float64
	for _, p := range prefs {
		magnitude += math.Abs(p.Weight)
	}
	alpha, beta := BlendWeights(magnitude)

	prefMap := PrefMap(prefs)
	scores := make([]float64, len(cases))
	norm := 1.0
	for i, c := range cases {
		scores[i] = Score(&c.Case, prefMap)
		if abs := math.Abs(scores[i]); abs > norm {
			norm = abs
		}
	}

	n := float64(len(cases))
	for i, c := range cases {
		base := (n - float64(i)) / n
		relevance := alpha*base + beta*(scores[i]/norm)
		c.RelevanceScore = &relevance
	}

	ranked := make([]*models.RankedCase, len(cases))
	copy(ranked, cases)
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].RelevanceScore > *ranked[j].RelevanceScore
	})
	return ranked
}
