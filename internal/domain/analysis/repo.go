package analysis

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/pkg/pagination"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("analysis: not found")

// ExpressionRepository stores analysis results per patient and serves
// the de-identified research export.
type ExpressionRepository interface {
	Create(ctx context.Context, e *GeneExpression) error
	// ListByPatient returns the patient's results newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*GeneExpression, int, error)
	// ListAll returns all results newest first with the patient link
	// withheld.
	ListAll(ctx context.Context, p pagination.Params) ([]*Expression, int, error)
}

// RecommendationRepository stores counselor recommendations.
type RecommendationRepository interface {
	Create(ctx context.Context, r *Recommendation) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*Recommendation, int, error)
}
