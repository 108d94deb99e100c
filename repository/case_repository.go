package repository

import (
	"context"
	"fmt"
	"time"

	"caselens-backend/models"

	"github.com/jackc/pgx/v5"
)

// caseColumns is the scan list shared by every case query.
const caseColumns = `c.id, c.entity, c.source, c.docket_number, c.filed, c.updated,
	c.case_name, c.case_type, c.court_name, c.status, c.nature_of_suit,
	c.cause_of_action, c.demand, c.judge, c.plaintiffs, c.defendants,
	c.attorneys, c.complaint_text, c.complaint_summary, c.complaint_doc_path,
	c.blaw_url, c.date_logged`

// sentinelSummaryFilter excludes cases whose summary is a placeholder
// written by a failed ingestion run.
const sentinelSummaryFilter = `c.complaint_summary IS NOT NULL
	AND c.complaint_summary NOT IN ('', 'No complaint found', 'ERROR', 'Failed to fetch pleadings.')`

// CaseRepository handles database operations for case records
type CaseRepository struct {
	db DBTX
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db DBTX) *CaseRepository {
	return &CaseRepository{db: db}
}

func scanCase(row pgx.Row) (*models.Case, error) {
	c := &models.Case{}
	err := row.Scan(
		&c.ID,
		&c.Entity,
		&c.Source,
		&c.DocketNumber,
		&c.Filed,
		&c.Updated,
		&c.CaseName,
		&c.CaseType,
		&c.CourtName,
		&c.Status,
		&c.NatureOfSuit,
		&c.CauseOfAction,
		&c.Demand,
		&c.Judge,
		&c.Plaintiffs,
		&c.Defendants,
		&c.Attorneys,
		&c.ComplaintText,
		&c.ComplaintSummary,
		&c.ComplaintDocPath,
		&c.BlawURL,
		&c.DateLogged,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a single case record
func (r *CaseRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases c WHERE c.id = $1`, caseColumns)
	c, err := scanCase(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get case %s: %w", id, err)
	}
	return c, nil
}

// GetByIDsWithResults hydrates case records together with their consultant
// viability annotations. Row order is unspecified; callers reorder by
// retrieval rank.
func (r *CaseRepository) GetByIDsWithResults(ctx context.Context, ids []string) ([]*models.RankedCase, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s,
			r.id, r.case_viability, r.viability_reasoning,
			r.person_1, r.score_1, r.explanation_1,
			r.person_2, r.score_2, r.explanation_2,
			r.person_3, r.score_3, r.explanation_3,
			r.created_at
		FROM cases c
		LEFT JOIN consultant_results r ON r.case_id = c.id
		WHERE c.id = ANY($1)`, caseColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.RankedCase
	for rows.Next() {
		rc := &models.RankedCase{}
		var (
			resultID  *int64
			viability *models.Viability
			reasoning *string
			p1, e1    *string
			p2, e2    *string
			p3, e3    *string
			s1, s2    *float64
			s3        *float64
			createdAt *time.Time
		)
		err := rows.Scan(
			&rc.ID,
			&rc.Entity,
			&rc.Source,
			&rc.DocketNumber,
			&rc.Filed,
			&rc.Updated,
			&rc.CaseName,
			&rc.CaseType,
			&rc.CourtName,
			&rc.Status,
			&rc.NatureOfSuit,
			&rc.CauseOfAction,
			&rc.Demand,
			&rc.Judge,
			&rc.Plaintiffs,
			&rc.Defendants,
			&rc.Attorneys,
			&rc.ComplaintText,
			&rc.ComplaintSummary,
			&rc.ComplaintDocPath,
			&rc.BlawURL,
			&rc.DateLogged,
			&resultID,
			&viability,
			&reasoning,
			&p1, &s1, &e1,
			&p2, &s2, &e2,
			&p3, &s3, &e3,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}

		rc.Consultant = buildConsultantResult(rc.ID, resultID, viability, reasoning,
			p1, s1, e1, p2, s2, e2, p3, s3, e3, createdAt)
		cases = append(cases, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}
	return cases, nil
}

// buildConsultantResult assembles the LEFT JOINed consultant columns. A nil
// result id means the case has no consultant row; the remaining columns are
// NULL and ignored.
func buildConsultantResult(
	caseID string,
	resultID *int64,
	viability *models.Viability,
	reasoning *string,
	p1 *string, s1 *float64, e1 *string,
	p2 *string, s2 *float64, e2 *string,
	p3 *string, s3 *float64, e3 *string,
	createdAt *time.Time,
) *models.ConsultantResult {
	if resultID == nil {
		return nil
	}
	result := &models.ConsultantResult{
		ID:                 *resultID,
		CaseID:             caseID,
		CaseViability:      viability,
		ViabilityReasoning: reasoning,
		Person1:            p1,
		Score1:             s1,
		Explanation1:       e1,
		Person2:            p2,
		Score2:             s2,
		Explanation2:       e2,
		Person3:            p3,
		Score3:             s3,
		Explanation3:       e3,
	}
	if createdAt != nil {
		result.CreatedAt = *createdAt
	}
	return result
}

// LexicalSearch returns ids of cases whose name, summary, nature of suit,
// cause of action, or entity contains the query substring, case-insensitive.
// Sentinel-summary cases are excluded. This is the fallback path when
// semantic retrieval yields nothing.
func (r *CaseRepository) LexicalSearch(ctx context.Context, query string, limit int) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT c.id FROM cases c
		WHERE %s
		AND (
			c.case_name ILIKE '%%' || $1 || '%%'
			OR c.complaint_summary ILIKE '%%' || $1 || '%%'
			OR c.nature_of_suit ILIKE '%%' || $1 || '%%'
			OR c.cause_of_action ILIKE '%%' || $1 || '%%'
			OR c.entity ILIKE '%%' || $1 || '%%'
		)
		LIMIT $2`, sentinelSummaryFilter)

	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run lexical search: %w", err)
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

// List retrieves recently filed cases for the dashboard view.
func (r *CaseRepository) List(ctx context.Context, limit, offset int) ([]*models.Case, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cases c
		ORDER BY c.filed DESC
		LIMIT $1 OFFSET $2`, caseColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// SetComplaintDocPath records where a case's archived pleadings document
// lives in blob storage.
func (r *CaseRepository) SetComplaintDocPath(ctx context.Context, id string, path string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE cases SET complaint_doc_path = $2, updated = NOW() WHERE id = $1`,
		id, path)
	if err != nil {
		return fmt.Errorf("failed to update complaint document path: %w", err)
	}
	return nil
}
