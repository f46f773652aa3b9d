package medical

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/domain/identity"
	"github.com/genedetective/genedetective/internal/platform/auth"
)

// Service owns patient medical records: the free-text history on the
// patient row and the append-only genetic sample stream.
type Service struct {
	patients identity.PatientRepository
	samples  SampleRepository
	scope    *ScopeResolver
}

func NewService(patients identity.PatientRepository, samples SampleRepository, scope *ScopeResolver) *Service {
	return &Service{patients: patients, samples: samples, scope: scope}
}

// GetHistory returns the caller's own medical history.
func (s *Service) GetHistory(ctx context.Context, ident *auth.Identity) (string, error) {
	rec, err := s.patients.GetByUserID(ctx, ident.ID)
	if errors.Is(err, identity.ErrNotFound) {
		return "", ErrPatientScopeMissing
	}
	if err != nil {
		return "", err
	}
	return rec.MedicalHistory, nil
}

// UpdateHistory replaces the caller's own medical history.
func (s *Service) UpdateHistory(ctx context.Context, ident *auth.Identity, history string) error {
	err := s.patients.UpdateHistory(ctx, ident.ID, history)
	if errors.Is(err, identity.ErrNotFound) {
		return ErrPatientScopeMissing
	}
	return err
}

// UploadSample appends a genetic sample for the calling patient.
func (s *Service) UploadSample(ctx context.Context, ident *auth.Identity, raw, ancestry json.RawMessage) (*GeneticSample, error) {
	patientID, err := s.scope.PatientID(ctx, ident, "")
	if err != nil {
		return nil, err
	}
	sample := &GeneticSample{
		PatientID:    patientID,
		RawData:      raw,
		AncestryData: ancestry,
	}
	if err := s.samples.Create(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// CurrentSample returns the newest sample in the resolved patient scope.
// explicitID addresses the patient for counselor callers.
func (s *Service) CurrentSample(ctx context.Context, ident *auth.Identity, explicitID string) (*GeneticSample, error) {
	patientID, err := s.scope.PatientID(ctx, ident, explicitID)
	if err != nil {
		return nil, err
	}
	return s.samples.Latest(ctx, patientID)
}

// HistoryByPatientID reads the history on a patient row directly. Used
// by analysis when it already holds a resolved patient id.
func (s *Service) HistoryByPatientID(ctx context.Context, patientID uuid.UUID) (string, error) {
	rec, err := s.patients.GetByID(ctx, patientID)
	if errors.Is(err, identity.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.MedicalHistory, nil
}
