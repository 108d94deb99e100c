package personalization

import (
	"testing"

	"caselens-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func rankedCase(id string, fields func(*models.Case)) *models.RankedCase {
	rc := &models.RankedCase{Case: models.Case{ID: id}}
	if fields != nil {
		fields(&rc.Case)
	}
	return rc
}

func pref(key models.FeatureKey, value string, weight float64) models.UserPreference {
	return models.UserPreference{
		UserID:       uuid.Nil,
		FeatureKey:   key,
		FeatureValue: value,
		Weight:       weight,
	}
}

func ids(cases []*models.RankedCase) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.ID
	}
	return out
}

func TestBlendWeights(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		alpha     float64
		beta      float64
	}{
		{"no feedback", 0, 0.8, 0.2},
		{"at first boundary", 20, 0.8, 0.2},
		{"just past first boundary", 20.5, 0.7, 0.3},
		{"at second boundary", 50, 0.7, 0.3},
		{"heavy feedback", 51, 0.6, 0.4},
		{"very heavy feedback", 1000, 0.6, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alpha, beta := BlendWeights(tt.magnitude)
			assert.Equal(t, tt.alpha, alpha)
			assert.Equal(t, tt.beta, beta)
		})
	}
}

func TestRerankIdentityWithoutPreferences(t *testing.T) {
	cases := []*models.RankedCase{
		rankedCase("a", nil),
		rankedCase("b", nil),
		rankedCase("c", nil),
	}

	ranked := Rerank(cases, nil)
	assert.Equal(t, cases, ranked)
	for _, c := range ranked {
		assert.Nil(t, c.RelevanceScore, "identity path must not score")
	}
}

func TestRerankIsPermutation(t *testing.T) {
	cases := []*models.RankedCase{
		rankedCase("a", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("b", func(c *models.Case) { c.Entity = "Globex" }),
		rankedCase("c", func(c *models.Case) { c.Entity = "Initech" }),
	}
	prefs := []models.UserPreference{pref(models.FeatureEntity, "Globex", 5)}

	ranked := Rerank(cases, prefs)
	require.Len(t, ranked, len(cases))
	assert.ElementsMatch(t, ids(cases), ids(ranked))
}

func TestRerankPromotesPreferredFeatures(t *testing.T) {
	cases := []*models.RankedCase{
		rankedCase("a", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("b", func(c *models.Case) { c.Entity = "Globex" }),
		rankedCase("c", func(c *models.Case) { c.Entity = "Globex" }),
	}
	prefs := []models.UserPreference{pref(models.FeatureEntity, "Globex", 10)}

	ranked := Rerank(cases, prefs)

	// Base scores: a=1.0, b=2/3, c=1/3. Personalization (normalized):
	// a=0, b=1, c=1. With alpha=0.8, beta=0.2: a=0.8, b=0.7333, c=0.4667.
	assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
	require.NotNil(t, ranked[0].RelevanceScore)
	assert.InDelta(t, 0.8, *ranked[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.7333333333, *ranked[1].RelevanceScore, 1e-9)

	// A stronger profile shifts the blend and flips the top result.
	heavy := []models.UserPreference{pref(models.FeatureEntity, "Globex", 60)}
	ranked = Rerank(cases, heavy)
	// alpha=0.6, beta=0.4: a=0.6, b=0.8, c=0.6. Tie between a and c breaks
	// on input order.
	assert.Equal(t, []string{"b", "a", "c"}, ids(ranked))
}

func TestRerankStability(t *testing.T) {
	// Cases with identical relevance scores must keep their input order.
	cases := []*models.RankedCase{
		rankedCase("a", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("b", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("c", func(c *models.Case) { c.Entity = "Acme" }),
	}
	// Every case scores identically on personalization; base decay still
	// separates them, so also check the degenerate single-position case.
	prefs := []models.UserPreference{pref(models.FeatureEntity, "Acme", 4)}
	ranked := Rerank(cases, prefs)
	assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
}

func TestRerankNormalization(t *testing.T) {
	// Normalization divides by the largest absolute score in the batch,
	// floored at 1, so tiny profiles cannot dominate the blend.
	cases := []*models.RankedCase{
		rankedCase("a", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("b", func(c *models.Case) { c.Entity = "Globex" }),
	}
	prefs := []models.UserPreference{pref(models.FeatureEntity, "Globex", 0.5)}

	ranked := Rerank(cases, prefs)
	// norm = max(1, 0.5) = 1. b = 0.8*0.5 + 0.2*0.5 = 0.5; a = 0.8.
	assert.Equal(t, []string{"a", "b"}, ids(ranked))
	assert.InDelta(t, 0.5, *ranked[1].RelevanceScore, 1e-9)
}

func TestRerankNegativeWeightsDemote(t *testing.T) {
	cases := []*models.RankedCase{
		rankedCase("a", func(c *models.Case) { c.Entity = "Acme" }),
		rankedCase("b", func(c *models.Case) { c.Entity = "Globex" }),
	}
	prefs := []models.UserPreference{pref(models.FeatureEntity, "Acme", -8)}

	ranked := Rerank(cases, prefs)
	// a = 0.8*1.0 + 0.2*(-1) = 0.6; b = 0.8*0.5 = 0.4. Order holds, but
	// the disliked case's score is pulled down.
	assert.Equal(t, []string{"a", "b"}, ids(ranked))
	assert.InDelta(t, 0.6, *ranked[0].RelevanceScore, 1e-9)
}

func TestScore(t *testing.T) {
	c := &models.Case{
		Entity:       "Acme",
		NatureOfSuit: strptr("Contract"),
		Judge:        strptr("Hon. J. Smith"),
	}
	prefs := PrefMap([]models.UserPreference{
		pref(models.FeatureEntity, "Acme", 2),
		pref(models.FeatureNatureOfSuit, "Contract", -1),
		pref(models.FeatureNatureOfSuit, "Tort", 100), // no match
	})

	assert.Equal(t, 1.0, Score(c, prefs))
	assert.Equal(t, 0.0, Score(&models.Case{}, prefs))
}
