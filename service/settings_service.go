package service

import (
	"context"
	"errors"
	"strings"

	"caselens-backend/models"
	"caselens-backend/secrets"

	"github.com/google/uuid"
)

var ErrUnknownModel = errors.New("unknown model preference")

// SettingsService manages per-user synthesis settings. API keys are
// encrypted at rest and only their masked form ever leaves this service.
type SettingsService struct {
	settings SettingsStore
	cipher   *secrets.Cipher
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings SettingsStore, cipher *secrets.Cipher) *SettingsService {
	return &SettingsService{settings: settings, cipher: cipher}
}

// SettingsView is the client-facing shape of a user's settings.
type SettingsView struct {
	HasAPIKey       bool    `json:"has_api_key"`
	MaskedKey       *string `json:"masked_key"`
	ModelPreference string  `json:"model_preference"`
}

// Get returns the user's settings, defaulting the model preference for
// users who have never saved any.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*SettingsView, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &SettingsView{ModelPreference: models.DefaultSynthesisModel}, nil
	}

	view := &SettingsView{
		HasAPIKey:       settings.APIKeyMasked != nil,
		MaskedKey:       settings.APIKeyMasked,
		ModelPreference: settings.ModelPreference,
	}
	if view.ModelPreference == "" {
		view.ModelPreference = models.DefaultSynthesisModel
	}
	return view, nil
}

// UpdateSettingsRequest carries a settings change. APIKey semantics follow
// the client contract: nil leaves the stored key alone, an empty string
// removes it, anything else replaces it.
type UpdateSettingsRequest struct {
	UserID          uuid.UUID
	APIKey          *string
	ModelPreference string
}

// Update validates and persists a settings change.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsView, error) {
	modelID := req.ModelPreference
	if modelID == "" {
		modelID = models.DefaultSynthesisModel
	}
	if !knownModel(modelID) {
		return nil, ErrUnknownModel
	}

	settings, err := s.settings.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &models.UserSettings{UserID: req.UserID}
	}
	settings.ModelPreference = modelID

	if req.APIKey != nil {
		key := strings.TrimSpace(*req.APIKey)
		if key == "" {
			settings.APIKeyEncrypted = nil
			settings.APIKeyMasked = nil
		} else {
			sealed, err := s.cipher.Encrypt(key)
			if err != nil {
				return nil, err
			}
			masked := secrets.MaskAPIKey(key)
			settings.APIKeyEncrypted = &sealed
			settings.APIKeyMasked = &masked
		}
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return &SettingsView{
		HasAPIKey:       settings.APIKeyMasked != nil,
		MaskedKey:       settings.APIKeyMasked,
		ModelPreference: settings.ModelPreference,
	}, nil
}

// AvailableModels lists the synthesis models users may choose from.
func AvailableModels() []models.GeminiModel {
	return models.GeminiModels
}

func knownModel(id string) bool {
	for _, m := range models.GeminiModels {
		if m.ID == id {
			return true
		}
	}
	return false
}
