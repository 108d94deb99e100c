package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestValidSummary(t *testing.T) {
	assert.True(t, ValidSummary(strptr("Plaintiff alleges FCRA violations.")))

	assert.False(t, ValidSummary(nil))
	for _, sentinel := range SentinelSummaries {
		assert.False(t, ValidSummary(strptr(sentinel)), "sentinel %q must be rejected", sentinel)
	}
}

func TestValidReaction(t *testing.T) {
	assert.True(t, ValidReaction(nil))
	assert.True(t, ValidReaction(intptr(1)))
	assert.True(t, ValidReaction(intptr(-1)))

	for _, v := range []int{0, 2, -2, 42} {
		assert.False(t, ValidReaction(intptr(v)))
	}
}
