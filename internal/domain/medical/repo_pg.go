package medical

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genedetective/genedetective/internal/platform/db"
)

type sampleRepoPG struct {
	pool *pgxpool.Pool
}

func NewSampleRepo(pool *pgxpool.Pool) SampleRepository {
	return &sampleRepoPG{pool: pool}
}

func (r *sampleRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const sampleCols = `id, patient_id, genetic_data_raw, ancestry_data, created_at`

func (r *sampleRepoPG) Create(ctx context.Context, s *GeneticSample) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO genetic_samples (id, patient_id, genetic_data_raw, ancestry_data)
		VALUES ($1, $2, $3, $4)`,
		s.ID, s.PatientID, s.RawData, s.AncestryData,
	)
	if err != nil {
		return fmt.Errorf("sample create: %w", err)
	}
	return nil
}

func (r *sampleRepoPG) Latest(ctx context.Context, patientID uuid.UUID) (*GeneticSample, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+sampleCols+` FROM genetic_samples
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, patientID)

	s := &GeneticSample{}
	err := row.Scan(&s.ID, &s.PatientID, &s.RawData, &s.AncestryData, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sample scan: %w", err)
	}
	return s, nil
}
