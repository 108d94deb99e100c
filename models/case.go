package models

import (
	"strings"
	"time"
)

// CaseStatus represents the docket status of a case
type CaseStatus string

const (
	StatusOpen       CaseStatus = "open"
	StatusClosed     CaseStatus = "closed"
	StatusTerminated CaseStatus = "terminated"
)

// SentinelSummaries are placeholder values written by the ingestion pipeline
// when pleadings could not be fetched or summarized. Cases carrying one of
// these must never appear in search results.
var SentinelSummaries = []string{
	"",
	"No complaint found",
	"ERROR",
	"Failed to fetch pleadings.",
}

// ValidSummary reports whether a complaint summary holds real content
// rather than a sentinel placeholder.
func ValidSummary(summary *string) bool {
	if summary == nil {
		return false
	}
	s := strings.TrimSpace(*summary)
	for _, sentinel := range SentinelSummaries {
		if s == sentinel {
			return false
		}
	}
	return true
}

// Case represents a litigation case record as ingested from the docket feed.
// Records are owned by the ingestion pipeline; this service only reads them.
type Case struct {
	ID               string     `json:"id"`
	Entity           string     `json:"entity"`
	Source           string     `json:"source"`
	DocketNumber     string     `json:"docket_number"`
	Filed            time.Time  `json:"filed"`
	Updated          time.Time  `json:"updated"`
	CaseName         string     `json:"case_name"`
	CaseType         *string    `json:"case_type"`
	CourtName        *string    `json:"court_name"`
	Status           CaseStatus `json:"status"`
	NatureOfSuit     *string    `json:"nature_of_suit"`
	CauseOfAction    *string    `json:"cause_of_action"`
	Demand           *string    `json:"demand"`
	Judge            *string    `json:"judge"`
	Plaintiffs       []string   `json:"plaintiffs"`
	Defendants       []string   `json:"defendants"`
	Attorneys        []string   `json:"attorneys"`
	ComplaintText    *string    `json:"complaint_text,omitempty"`
	ComplaintSummary *string    `json:"complaint_summary"`
	ComplaintDocPath *string    `json:"-"`
	BlawURL          *string    `json:"blaw_url"`
	DateLogged       time.Time  `json:"date_logged"`
}

// RankedCase is a case annotated with per-request context: the consultant
// viability assessment, the requesting user's reaction, and the relevance
// score computed by reranking. None of this is persisted.
type RankedCase struct {
	Case
	Consultant     *ConsultantResult `json:"consultant_results,omitempty"`
	UserReaction   *UserReaction     `json:"user_reaction,omitempty"`
	RelevanceScore *float64          `json:"relevance_score,omitempty"`
}

// CaseChunk is a fragment of case content stored in the vector index.
type CaseChunk struct {
	ID         int64   `json:"id"`
	CaseID     string  `json:"case_id"`
	ChunkIndex int     `json:"chunk_index"`
	ChunkText  string  `json:"chunk_text"`
	Embedding  []float64 `json:"-"`
}

// ChunkMatch is a vector search hit: a case chunk's parent case and its
// cosine similarity to the query embedding.
type ChunkMatch struct {
	CaseID     string  `json:"case_id"`
	Similarity float64 `json:"similarity"`
}
