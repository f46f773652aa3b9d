package medical

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a sample lookup matches no row.
var ErrNotFound = errors.New("medical: not found")

// SampleRepository stores genetic samples keyed by patient.
type SampleRepository interface {
	Create(ctx context.Context, s *GeneticSample) error
	// Latest returns the newest sample for the patient.
	Latest(ctx context.Context, patientID uuid.UUID) (*GeneticSample, error)
}
