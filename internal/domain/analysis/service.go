package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/genedetective/genedetective/internal/domain/identity"
	"github.com/genedetective/genedetective/internal/domain/medical"
	"github.com/genedetective/genedetective/internal/platform/auth"
	"github.com/genedetective/genedetective/pkg/pagination"
)

var (
	// ErrNoSampleData means the patient has no genetic sample to analyze.
	ErrNoSampleData = errors.New("analysis: no genetic data for analysis")
	// ErrCounselorRecordMissing means the calling counselor has no
	// counselor record.
	ErrCounselorRecordMissing = errors.New("analysis: counselor record not found")
)

// Service runs analyses over patient samples and manages the resulting
// expression and recommendation streams.
type Service struct {
	scope           *medical.ScopeResolver
	samples         medical.SampleRepository
	patients        identity.PatientRepository
	counselors      identity.CounselorRepository
	expressions     ExpressionRepository
	recommendations RecommendationRepository
	analyzer        *Analyzer
}

func NewService(
	scope *medical.ScopeResolver,
	samples medical.SampleRepository,
	patients identity.PatientRepository,
	counselors identity.CounselorRepository,
	expressions ExpressionRepository,
	recommendations RecommendationRepository,
	analyzer *Analyzer,
) *Service {
	return &Service{
		scope:           scope,
		samples:         samples,
		patients:        patients,
		counselors:      counselors,
		expressions:     expressions,
		recommendations: recommendations,
		analyzer:        analyzer,
	}
}

// Analyze runs the analyzer over the current sample in the resolved
// patient scope and appends the result to the expression stream.
func (s *Service) Analyze(ctx context.Context, ident *auth.Identity, explicitPatientID string) (*Result, error) {
	patientID, err := s.scope.PatientID(ctx, ident, explicitPatientID)
	if err != nil {
		return nil, err
	}

	sample, err := s.samples.Latest(ctx, patientID)
	if errors.Is(err, medical.ErrNotFound) {
		return nil, ErrNoSampleData
	}
	if err != nil {
		return nil, err
	}

	ancestry, err := sample.Ancestry()
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	var history string
	if rec, err := s.patients.GetByID(ctx, patientID); err == nil {
		history = rec.MedicalHistory
	}

	result := s.analyzer.Analyze(sample.RawData, ancestry, history)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	err = s.expressions.Create(ctx, &GeneExpression{
		PatientID: patientID,
		Result:    payload,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Results lists stored analysis results for the resolved patient scope,
// newest first.
func (s *Service) Results(ctx context.Context, ident *auth.Identity, explicitPatientID string, p pagination.Params) ([]*GeneExpression, int, error) {
	patientID, err := s.scope.PatientID(ctx, ident, explicitPatientID)
	if err != nil {
		return nil, 0, err
	}
	return s.expressions.ListByPatient(ctx, patientID, p)
}

// SaveRecommendations stores counselor guidance for a patient. The
// caller must have a counselor record.
func (s *Service) SaveRecommendations(ctx context.Context, ident *auth.Identity, explicitPatientID string, results json.RawMessage) error {
	counselor, err := s.counselors.GetByUserID(ctx, ident.ID)
	if errors.Is(err, identity.ErrNotFound) {
		return ErrCounselorRecordMissing
	}
	if err != nil {
		return err
	}

	patientID, err := s.scope.PatientID(ctx, ident, explicitPatientID)
	if err != nil {
		return err
	}

	return s.recommendations.Create(ctx, &Recommendation{
		PatientID:   patientID,
		CounselorID: counselor.ID,
		Results:     results,
	})
}

// Recommendations lists guidance for the resolved patient scope, newest
// first.
func (s *Service) Recommendations(ctx context.Context, ident *auth.Identity, explicitPatientID string, p pagination.Params) ([]*Recommendation, int, error) {
	patientID, err := s.scope.PatientID(ctx, ident, explicitPatientID)
	if err != nil {
		return nil, 0, err
	}
	return s.recommendations.ListByPatient(ctx, patientID, p)
}

// Expressions serves the de-identified research export, newest first.
func (s *Service) Expressions(ctx context.Context, p pagination.Params) ([]*Expression, int, error) {
	return s.expressions.ListAll(ctx, p)
}
