package service

import (
	"context"
	"sync"
	"testing"

	"caselens-backend/models"
	"caselens-backend/personalization"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intptr(i int) *int { return &i }

// fakeTransitioner mimics the transactional reaction store in memory: it
// hands the stored previous reaction to the compute callback, applies the
// returned deltas to a weight map, and records the new reaction with a
// write sequence number. Transitions are serialized the way the store's
// per-pair lock serializes them.
type fakeTransitioner struct {
	mu        sync.Mutex
	reactions map[string]*int
	votedAt   map[string]int
	writes    int
	weights   map[personalization.PrefKey]float64
}

func newFakeTransitioner() *fakeTransitioner {
	return &fakeTransitioner{
		reactions: make(map[string]*int),
		votedAt:   make(map[string]int),
		weights:   make(map[personalization.PrefKey]float64),
	}
}

func (f *fakeTransitioner) Transition(ctx context.Context, userID uuid.UUID, caseID string, newReaction *int,
	compute func(previous *int) []personalization.WeightDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID.String() + "/" + caseID

	for _, d := range compute(f.reactions[key]) {
		f.weights[personalization.PrefKey{Key: d.Key, Value: d.Value}] += float64(d.Delta)
	}

	f.writes++
	if newReaction == nil {
		delete(f.reactions, key)
		delete(f.votedAt, key)
	} else {
		v := *newReaction
		f.reactions[key] = &v
		f.votedAt[key] = f.writes
	}
	return nil
}

func newReactionService(store *fakeCaseStore, tr *fakeTransitioner) *ReactionService {
	return NewReactionService(
		ReactionWithCaseStore(store),
		ReactionWithTransitioner(tr),
	)
}

func TestReactValidation(t *testing.T) {
	store := newFakeCaseStore(testCase("A", nil))
	svc := newReactionService(store, newFakeTransitioner())

	t.Run("rejects out-of-range reactions", func(t *testing.T) {
		for _, v := range []int{0, 2, -2, 100} {
			_, err := svc.React(context.Background(), ReactRequest{
				UserID:   uuid.New(),
				CaseID:   "A",
				Reaction: intptr(v),
			})
			assert.ErrorIs(t, err, ErrInvalidReaction)
		}
	})

	t.Run("rejects unknown case", func(t *testing.T) {
		_, err := svc.React(context.Background(), ReactRequest{
			UserID:   uuid.New(),
			CaseID:   "missing",
			Reaction: intptr(1),
		})
		assert.ErrorIs(t, err, ErrCaseNotFound)
	})
}

func TestReactFirstVote(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) {
		c.Entity = "Acme Corp"
		c.NatureOfSuit = strptr("Fair Credit Reporting")
	}))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()

	result, err := svc.React(context.Background(), ReactRequest{
		UserID:   userID,
		CaseID:   "A",
		Reaction: intptr(1),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Reaction)
	assert.Equal(t, 1, *result.Reaction)

	assert.Equal(t, 1.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])
	assert.Equal(t, 1.0, tr.weights[personalization.PrefKey{Key: models.FeatureNatureOfSuit, Value: "Fair Credit Reporting"}])
}

func TestReactFlipHasMagnitudeTwo(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) { c.Entity = "Acme Corp" }))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()

	_, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(1)})
	require.NoError(t, err)

	_, err = svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(-1)})
	require.NoError(t, err)

	// +1 then a flip of -2 lands at -1, as if the dislike came first.
	assert.Equal(t, -1.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])
}

func TestReactClearRestoresWeights(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) { c.Entity = "Acme Corp" }))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()

	_, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(1)})
	require.NoError(t, err)

	result, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: nil})
	require.NoError(t, err)
	assert.Nil(t, result.Reaction)

	assert.Equal(t, 0.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])
}

func TestReactClearWithoutPriorVote(t *testing.T) {
	store := newFakeCaseStore(testCase("A", nil))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)

	result, err := svc.React(context.Background(), ReactRequest{
		UserID:   uuid.New(),
		CaseID:   "A",
		Reaction: nil,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Reaction)
	assert.Empty(t, tr.weights)
}

func TestReactRepeatedVoteIsIdempotent(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) { c.Entity = "Acme Corp" }))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(1)})
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])
}

func TestReactConcurrentFirstVotesApplyOnce(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) { c.Entity = "Acme Corp" }))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()

	// Serialized transitions mean the second identical vote sees the first
	// as its previous reaction and contributes a zero delta, never a
	// doubled weight.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(1)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])
	stored := tr.reactions[userID.String()+"/A"]
	require.NotNil(t, stored)
	assert.Equal(t, 1, *stored)
}

func TestReactVoteChangeRefreshesTimestamp(t *testing.T) {
	store := newFakeCaseStore(testCase("A", nil))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)
	userID := uuid.New()
	key := userID.String() + "/A"

	_, err := svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(1)})
	require.NoError(t, err)
	first := tr.votedAt[key]

	_, err = svc.React(context.Background(), ReactRequest{UserID: userID, CaseID: "A", Reaction: intptr(-1)})
	require.NoError(t, err)

	// The recorded vote time tracks the latest vote, not the first.
	assert.Greater(t, tr.votedAt[key], first)
}

func TestReactionsAreIndependentAcrossUsers(t *testing.T) {
	store := newFakeCaseStore(testCase("A", func(c *models.Case) { c.Entity = "Acme Corp" }))
	tr := newFakeTransitioner()
	svc := newReactionService(store, tr)

	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.React(context.Background(), ReactRequest{UserID: alice, CaseID: "A", Reaction: intptr(1)})
	require.NoError(t, err)
	_, err = svc.React(context.Background(), ReactRequest{UserID: bob, CaseID: "A", Reaction: intptr(-1)})
	require.NoError(t, err)

	// Weights here are shared across the fake, so the votes cancel; what
	// matters is that bob's transition saw no previous reaction from alice.
	assert.Equal(t, 0.0, tr.weights[personalization.PrefKey{Key: models.FeatureEntity, Value: "Acme Corp"}])

	aliceReaction := tr.reactions[alice.String()+"/A"]
	require.NotNil(t, aliceReaction)
	assert.Equal(t, 1, *aliceReaction)
}
