package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"caselens-backend/models"
	"caselens-backend/personalization"

	"github.com/google/uuid"
)

var (
	ErrEmptyQuery       = errors.New("query is required")
	ErrCaseNotFound     = errors.New("case not found")
	ErrInvalidReaction  = errors.New("reaction must be +1, -1, or null")
	ErrStoreUnavailable = errors.New("case store unavailable")
)

const (
	// DefaultCandidateLimit is how many chunks the vector index is asked
	// for before grouping by case.
	DefaultCandidateLimit = 20
	// DefaultResultLimit caps the number of cases returned per search.
	DefaultResultLimit = 10
	// DefaultSimilarityFloor is the minimum chunk similarity considered a
	// semantic match.
	DefaultSimilarityFloor = 0.3
)

// CaseStore hydrates case records from the relational store.
type CaseStore interface {
	GetByID(ctx context.Context, id string) (*models.Case, error)
	GetByIDsWithResults(ctx context.Context, ids []string) ([]*models.RankedCase, error)
	LexicalSearch(ctx context.Context, query string, limit int) ([]string, error)
}

// ChunkIndex searches the vector index over case content chunks.
type ChunkIndex interface {
	Search(ctx context.Context, embedding []float64, similarityFloor float64, limit int) ([]models.ChunkMatch, error)
}

// ReactionReader loads a user's reactions for result hydration.
type ReactionReader interface {
	ListForCases(ctx context.Context, userID uuid.UUID, caseIDs []string) (map[string]*models.UserReaction, error)
}

// PreferenceReader loads a user's learned preference weights.
type PreferenceReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPreference, error)
}

// Synthesizer produces an optional natural-language summary across the top
// results. Best effort: a nil text with nil error means "nothing to say".
type Synthesizer interface {
	Synthesize(ctx context.Context, userID uuid.UUID, query string, cases []*models.RankedCase) (*string, error)
}

// SearchService runs the retrieval and rerank pipeline: semantic retrieval
// with lexical fallback, hydration, personalization, and optional synthesis.
type SearchService struct {
	cases       CaseStore
	chunks      ChunkIndex
	reactions   ReactionReader
	preferences PreferenceReader
	embedder    Embedder
	synthesizer Synthesizer

	candidateLimit  int
	resultLimit     int
	similarityFloor float64
}

// SearchServiceOption is a functional option for SearchService
type SearchServiceOption func(*SearchService)

// SearchWithCaseStore sets the case store
func SearchWithCaseStore(s CaseStore) SearchServiceOption {
	return func(svc *SearchService) { svc.cases = s }
}

// SearchWithChunkIndex sets the vector index
func SearchWithChunkIndex(idx ChunkIndex) SearchServiceOption {
	return func(svc *SearchService) { svc.chunks = idx }
}

// SearchWithReactionReader sets the reaction reader
func SearchWithReactionReader(r ReactionReader) SearchServiceOption {
	return func(svc *SearchService) { svc.reactions = r }
}

// SearchWithPreferenceReader sets the preference reader
func SearchWithPreferenceReader(p PreferenceReader) SearchServiceOption {
	return func(svc *SearchService) { svc.preferences = p }
}

// SearchWithEmbedder sets the query embedder. Leaving it unset disables
// semantic retrieval entirely; lexical search takes over.
func SearchWithEmbedder(e Embedder) SearchServiceOption {
	return func(svc *SearchService) { svc.embedder = e }
}

// SearchWithSynthesizer sets the optional result synthesizer
func SearchWithSynthesizer(s Synthesizer) SearchServiceOption {
	return func(svc *SearchService) { svc.synthesizer = s }
}

// SearchWithLimits overrides the retrieval tunables.
func SearchWithLimits(candidateLimit, resultLimit int, similarityFloor float64) SearchServiceOption {
	return func(svc *SearchService) {
		svc.candidateLimit = candidateLimit
		svc.resultLimit = resultLimit
		svc.similarityFloor = similarityFloor
	}
}

// NewSearchService creates a new search service
func NewSearchService(opts ...SearchServiceOption) *SearchService {
	s := &SearchService{
		candidateLimit:  DefaultCandidateLimit,
		resultLimit:     DefaultResultLimit,
		similarityFloor: DefaultSimilarityFloor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchRequest represents a search request
type SearchRequest struct {
	UserID uuid.UUID
	Query  string
}

// SearchResult represents the ordered search response
type SearchResult struct {
	Cases      []*models.RankedCase `json:"cases"`
	Synthesis  *string              `json:"synthesis"`
	Query      string               `json:"query"`
	TotalCount int                  `json:"total_count"`
}

// Search runs the full pipeline for one query.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if s.cases == nil {
		return nil, ErrStoreUnavailable
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ids, err := s.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &SearchResult{Cases: []*models.RankedCase{}, Query: query}, nil
	}

	cases, err := s.cases.GetByIDsWithResults(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Sentinel-summary cases are filtered at the store for lexical search,
	// but semantic hits may still point at them.
	valid := cases[:0]
	for _, c := range cases {
		if models.ValidSummary(c.ComplaintSummary) {
			valid = append(valid, c)
		}
	}
	cases = valid

	// Restore retrieval rank: it is the base relevance order.
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	sort.SliceStable(cases, func(i, j int) bool {
		return rank[cases[i].ID] < rank[cases[j].ID]
	})

	if s.reactions != nil {
		reactions, err := s.reactions.ListForCases(ctx, req.UserID, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range cases {
			c.UserReaction = reactions[c.ID]
		}
	}

	if s.preferences != nil {
		prefs, err := s.preferences.ListByUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		cases = personalization.Rerank(cases, prefs)
	}

	result := &SearchResult{
		Cases:      cases,
		Query:      query,
		TotalCount: len(cases),
	}

	if s.synthesizer != nil && len(cases) > 0 {
		synthesis, err := s.synthesizer.Synthesize(ctx, req.UserID, query, cases)
		if err != nil {
			// Synthesis is best effort; results stand on their own.
			log.Printf("Warning: synthesis failed: %v", err)
		} else {
			result.Synthesis = synthesis
		}
	}

	return result, nil
}

// retrieve produces the candidate case ids for a query, most relevant
// first. Semantic retrieval is attempted first; any failure there degrades
// silently to lexical matching. Only lexical store errors are fatal.
func (s *SearchService) retrieve(ctx context.Context, query string) ([]string, error) {
	ids := s.semanticRetrieve(ctx, query)
	if len(ids) > 0 {
		return ids, nil
	}
	return s.cases.LexicalSearch(ctx, query, s.resultLimit)
}

func (s *SearchService) semanticRetrieve(ctx context.Context, query string) []string {
	if s.embedder == nil || s.chunks == nil {
		return nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("Warning: query embedding failed, falling back to lexical search: %v", err)
		return nil
	}

	matches, err := s.chunks.Search(ctx, embedding, s.similarityFloor, s.candidateLimit)
	if err != nil {
		log.Printf("Warning: vector search failed, falling back to lexical search: %v", err)
		return nil
	}

	// A case may match on several chunks; rank it by its single best one.
	best := make(map[string]float64)
	order := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, seen := best[m.CaseID]; !seen {
			order = append(order, m.CaseID)
		}
		if m.Similarity > best[m.CaseID] {
			best[m.CaseID] = m.Similarity
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return best[order[i]] > best[order[j]]
	})

	if len(order) > s.resultLimit {
		order = order[:s.resultLimit]
	}
	return order
}
