package service

import (
	"context"
	"fmt"
	"strings"

	"caselens-backend/models"
	"caselens-backend/secrets"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const (
	synthesisCaseCount    = 5
	synthesisSummaryChars = 500
	synthesisMaxTokens    = 512
	synthesisTemperature  = 0.3
)

// SettingsStore loads per-user synthesis settings.
type SettingsStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	Upsert(ctx context.Context, s *models.UserSettings) error
}

// SynthesisService produces a short cross-case synthesis with the user's
// own Gemini key. Users without a stored key simply get no synthesis.
type SynthesisService struct {
	settings SettingsStore
	cipher   *secrets.Cipher
}

// NewSynthesisService creates a new synthesis service
func NewSynthesisService(settings SettingsStore, cipher *secrets.Cipher) *SynthesisService {
	return &SynthesisService{settings: settings, cipher: cipher}
}

// Synthesize generates 2-3 paragraphs across the top results. A nil string
// with nil error means the user has no key configured.
func (s *SynthesisService) Synthesize(
	ctx context.Context,
	userID uuid.UUID,
	query string,
	cases []*models.RankedCase,
) (*string, error) {
	if s.settings == nil || s.cipher == nil || len(cases) == 0 {
		return nil, nil
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.APIKeyEncrypted == nil {
		return nil, nil
	}

	apiKey, err := s.cipher.Decrypt(*settings.APIKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt API key: %w", err)
	}

	modelID := settings.ModelPreference
	if modelID == "" {
		modelID = models.DefaultSynthesisModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelID)
	model.SetTemperature(synthesisTemperature)
	model.SetMaxOutputTokens(synthesisMaxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(s.buildPrompt(query, cases)))
	if err != nil {
		return nil, fmt.Errorf("synthesis generation failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, nil
	}
	return &text, nil
}

func (s *SynthesisService) buildPrompt(query string, cases []*models.RankedCase) string {
	top := cases
	if len(top) > synthesisCaseCount {
		top = top[:synthesisCaseCount]
	}

	var context strings.Builder
	for i, c := range top {
		court := "N/A"
		if c.CourtName != nil {
			court = *c.CourtName
		}
		nature := "N/A"
		if c.NatureOfSuit != nil {
			nature = *c.NatureOfSuit
		}
		summary := ""
		if c.ComplaintSummary != nil {
			summary = *c.ComplaintSummary
			if len(summary) > synthesisSummaryChars {
				summary = summary[:synthesisSummaryChars]
			}
		}
		fmt.Fprintf(&context, "Case %d: %s\nCourt: %s\nNature: %s\nSummary: %s\n\n",
			i+1, c.CaseName, court, nature, summary)
	}

	return fmt.Sprintf(`You are a legal research assistant. Based on the following search query and matching cases, provide a brief synthesis (2-3 paragraphs) that highlights key themes, common elements, and notable differences across these cases. Be concise and professional.

Search query: %q

%s`, query, context.String())
}
