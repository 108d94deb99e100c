package service

import (
	"context"
	"strings"
	"testing"

	"caselens-backend/models"
	"caselens-backend/secrets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeSkipsUsersWithoutKey(t *testing.T) {
	cipher, err := secrets.NewCipher(testCipherKey)
	require.NoError(t, err)
	svc := NewSynthesisService(newFakeSettingsStore(), cipher)

	cases := []*models.RankedCase{{Case: *testCase("A", nil)}}
	text, err := svc.Synthesize(context.Background(), uuid.New(), "FCRA", cases)
	require.NoError(t, err)
	assert.Nil(t, text)
}

func TestSynthesizeSkipsEmptyResults(t *testing.T) {
	cipher, err := secrets.NewCipher(testCipherKey)
	require.NoError(t, err)
	svc := NewSynthesisService(newFakeSettingsStore(), cipher)

	text, err := svc.Synthesize(context.Background(), uuid.New(), "FCRA", nil)
	require.NoError(t, err)
	assert.Nil(t, text)
}

func TestBuildPrompt(t *testing.T) {
	svc := &SynthesisService{}

	var cases []*models.RankedCase
	for i := 0; i < 7; i++ {
		id := string(rune('A' + i))
		c := testCase(id, func(c *models.Case) {
			c.CourtName = strptr("S.D.N.Y.")
			c.NatureOfSuit = strptr("Fair Credit Reporting")
		})
		cases = append(cases, &models.RankedCase{Case: *c})
	}
	// A summary past the cap must be truncated in the prompt.
	long := strings.Repeat("x", 800)
	cases[0].ComplaintSummary = &long

	prompt := svc.buildPrompt("credit report errors", cases)

	assert.Contains(t, prompt, `"credit report errors"`)
	assert.Contains(t, prompt, "Case 5:")
	assert.NotContains(t, prompt, "Case 6:")
	assert.Contains(t, prompt, strings.Repeat("x", 500))
	assert.NotContains(t, prompt, strings.Repeat("x", 501))
	assert.Contains(t, prompt, "Court: S.D.N.Y.")
	assert.Contains(t, prompt, "Nature: Fair Credit Reporting")
}
