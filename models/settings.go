package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSynthesisModel is used when a user has not picked a model.
const DefaultSynthesisModel = "gemini-2.0-flash"

// GeminiModel describes one selectable synthesis model.
type GeminiModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GeminiModels is the catalog of models users may choose for synthesis.
var GeminiModels = []GeminiModel{
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Fast and affordable"},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Latest fast model"},
	{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash Lite", Description: "Lightest and cheapest"},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Most capable, higher cost"},
}

// UserSettings holds per-user synthesis configuration. The Gemini API key is
// stored encrypted; APIKeyMasked is the only form ever returned to clients.
type UserSettings struct {
	UserID          uuid.UUID `json:"user_id"`
	APIKeyEncrypted *string   `json:"-"`
	APIKeyMasked    *string   `json:"masked_key"`
	ModelPreference string    `json:"model_preference"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
