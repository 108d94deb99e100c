// Package personalization implements the preference-learning core: feature
// extraction from case records, reaction-driven weight updates, and the
// relevance reranking that blends retrieval order with learned preferences.
package personalization

import (
	"strings"

	"caselens-backend/models"
)

// ExtractFeatures derives the categorical features of a case used for
// preference matching. Extraction follows the fixed order of
// models.FeatureKeys; attributes that are nil or blank after trimming
// produce no feature.
func ExtractFeatures(c *models.Case) []models.Feature {
	var features []models.Feature
	for _, key := range models.FeatureKeys {
		value := featureValue(c, key)
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			continue
		}
		features = append(features, models.Feature{Key: key, Value: trimmed})
	}
	return features
}

func featureValue(c *models.Case, key models.FeatureKey) *string {
	switch key {
	case models.FeatureNatureOfSuit:
		return c.NatureOfSuit
	case models.FeatureCauseOfAction:
		return c.CauseOfAction
	case models.FeatureEntity:
		return &c.Entity
	case models.FeatureSource:
		return &c.Source
	case models.FeatureCourtName:
		return c.CourtName
	case models.FeatureJudge:
		return c.Judge
	}
	return nil
}
