package repository

import (
	"context"
	"fmt"

	"caselens-backend/models"
)

// EmbeddingDimensions is the width of the vector column; query embeddings
// must match it.
const EmbeddingDimensions = 768

// CaseChunkRepository handles the pgvector index over case content chunks
type CaseChunkRepository struct {
	db DBTX
}

// NewCaseChunkRepository creates a new case chunk repository
func NewCaseChunkRepository(db DBTX) *CaseChunkRepository {
	return &CaseChunkRepository{db: db}
}

// Search returns chunks whose cosine similarity to the query embedding
// clears the floor, nearest first. Similarity is 1 - cosine distance, so it
// lives on the same scale the ingestion side indexed with.
func (r *CaseChunkRepository) Search(
	ctx context.Context,
	embedding []float64,
	similarityFloor float64,
	limit int,
) ([]models.ChunkMatch, error) {
	if len(embedding) != EmbeddingDimensions {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDimensions, len(embedding))
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			case_id,
			1 - (embedding <=> $1::vector) AS similarity
		FROM case_chunks
		WHERE 1 - (embedding <=> $1::vector) >= $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, vectorStr, similarityFloor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query case chunks: %w", err)
	}
	defer rows.Close()

	var matches []models.ChunkMatch
	for rows.Next() {
		var m models.ChunkMatch
		if err := rows.Scan(&m.CaseID, &m.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunk matches: %w", err)
	}
	return matches, nil
}

// Insert stores a chunk and its embedding in the vector index.
func (r *CaseChunkRepository) Insert(ctx context.Context, chunk *models.CaseChunk) error {
	if len(chunk.Embedding) != EmbeddingDimensions {
		return fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDimensions, len(chunk.Embedding))
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO case_chunks (case_id, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4::vector)
		RETURNING id`,
		chunk.CaseID, chunk.ChunkIndex, chunk.ChunkText, formatVector(chunk.Embedding),
	).Scan(&chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to insert case chunk: %w", err)
	}
	return nil
}

// DeleteByCase removes all indexed chunks for a case, used before
// re-embedding its content.
func (r *CaseChunkRepository) DeleteByCase(ctx context.Context, caseID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM case_chunks WHERE case_id = $1`, caseID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for case %s: %w", caseID, err)
	}
	return nil
}

// CasesMissingChunks lists ids of cases that have a usable summary but no
// indexed chunks yet.
func (r *CaseChunkRepository) CasesMissingChunks(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT c.id FROM cases c
		WHERE %s
		AND NOT EXISTS (SELECT 1 FROM case_chunks ch WHERE ch.case_id = c.id)
		ORDER BY c.filed DESC
		LIMIT $1`, sentinelSummaryFilter), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unindexed cases: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan case id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
