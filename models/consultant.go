package models

import "time"

// Viability represents a consultant's overall assessment of a case
type Viability string

const (
	ViabilityHigh   Viability = "high"
	ViabilityMedium Viability = "medium"
	ViabilityLow    Viability = "low"
)

// ConsultantResult holds the consultant scoring annotations attached to a
// case: an overall viability call plus up to three individually scored
// assessments.
type ConsultantResult struct {
	ID                 int64      `json:"id"`
	CaseID             string     `json:"case_id"`
	CaseViability      *Viability `json:"case_viability"`
	ViabilityReasoning *string    `json:"viability_reasoning"`
	Person1            *string    `json:"person_1"`
	Score1             *float64   `json:"score_1"`
	Explanation1       *string    `json:"explanation_1"`
	Person2            *string    `json:"person_2"`
	Score2             *float64   `json:"score_2"`
	Explanation2       *string    `json:"explanation_2"`
	Person3            *string    `json:"person_3"`
	Score3             *float64   `json:"score_3"`
	Explanation3       *string    `json:"explanation_3"`
	CreatedAt          time.Time  `json:"created_at"`
}
