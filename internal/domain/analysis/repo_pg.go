package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genedetective/genedetective/internal/platform/db"
	"github.com/genedetective/genedetective/pkg/pagination"
)

// -- Expression Repository --

type expressionRepoPG struct {
	pool *pgxpool.Pool
}

func NewExpressionRepo(pool *pgxpool.Pool) ExpressionRepository {
	return &expressionRepoPG{pool: pool}
}

func (r *expressionRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *expressionRepoPG) Create(ctx context.Context, e *GeneExpression) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO gene_expressions (id, patient_id, result)
		VALUES ($1, $2, $3)`,
		e.ID, e.PatientID, e.Result,
	)
	if err != nil {
		return fmt.Errorf("expression create: %w", err)
	}
	return nil
}

func (r *expressionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*GeneExpression, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM gene_expressions WHERE patient_id = $1`, patientID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("expression count: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, result, analysis_date FROM gene_expressions
		WHERE patient_id = $1
		ORDER BY analysis_date DESC
		LIMIT $2 OFFSET $3`, patientID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("expression list: %w", err)
	}
	defer rows.Close()

	var out []*GeneExpression
	for rows.Next() {
		e := &GeneExpression{}
		if err := rows.Scan(&e.ID, &e.PatientID, &e.Result, &e.AnalysisDate); err != nil {
			return nil, 0, fmt.Errorf("expression scan: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *expressionRepoPG) ListAll(ctx context.Context, p pagination.Params) ([]*Expression, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM gene_expressions`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("expression count: %w", err)
	}

	// The patient id is deliberately not selected.
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, result, analysis_date FROM gene_expressions
		ORDER BY analysis_date DESC
		LIMIT $1 OFFSET $2`, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("expression list: %w", err)
	}
	defer rows.Close()

	var out []*Expression
	for rows.Next() {
		e := &Expression{}
		if err := rows.Scan(&e.ID, &e.Result, &e.AnalysisDate); err != nil {
			return nil, 0, fmt.Errorf("expression scan: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// -- Recommendation Repository --

type recommendationRepoPG struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) RecommendationRepository {
	return &recommendationRepoPG{pool: pool}
}

func (r *recommendationRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *recommendationRepoPG) Create(ctx context.Context, rec *Recommendation) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO recommendations (id, patient_id, counselor_id, recommendation_results)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.PatientID, rec.CounselorID, rec.Results,
	)
	if err != nil {
		return fmt.Errorf("recommendation create: %w", err)
	}
	return nil
}

func (r *recommendationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*Recommendation, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM recommendations WHERE patient_id = $1`, patientID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("recommendation count: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, counselor_id, recommendation_results, created_at
		FROM recommendations
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, patientID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("recommendation list: %w", err)
	}
	defer rows.Close()

	var out []*Recommendation
	for rows.Next() {
		rec := &Recommendation{}
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.CounselorID, &rec.Results, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("recommendation scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}
