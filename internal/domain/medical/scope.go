package medical

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/domain/identity"
	"github.com/genedetective/genedetective/internal/platform/auth"
)

var (
	// ErrPatientScopeMissing means the caller is a patient with no
	// patient record to derive a scope from.
	ErrPatientScopeMissing = errors.New("medical: patient record not found")
	// ErrPatientIDRequired means a counselor call omitted the target
	// patient id.
	ErrPatientIDRequired = errors.New("medical: patient id required")
	// ErrPatientIDInvalid means the supplied patient id does not parse.
	ErrPatientIDInvalid = errors.New("medical: invalid patient id")
)

// ScopeResolver turns a caller into the patient id its request operates
// on. Patients always resolve to their own patient record; counselors
// address any patient by explicit id.
type ScopeResolver struct {
	patients identity.PatientRepository
}

func NewScopeResolver(patients identity.PatientRepository) *ScopeResolver {
	return &ScopeResolver{patients: patients}
}

// PatientID resolves the patient scope for ident. explicitID is only
// consulted for counselor callers; patient callers cannot widen their
// scope by supplying one.
func (r *ScopeResolver) PatientID(ctx context.Context, ident *auth.Identity, explicitID string) (uuid.UUID, error) {
	if ident.Role == auth.RolePatient {
		rec, err := r.patients.GetByUserID(ctx, ident.ID)
		if errors.Is(err, identity.ErrNotFound) {
			return uuid.Nil, ErrPatientScopeMissing
		}
		if err != nil {
			return uuid.Nil, err
		}
		return rec.ID, nil
	}

	if explicitID == "" {
		return uuid.Nil, ErrPatientIDRequired
	}
	id, err := uuid.Parse(explicitID)
	if err != nil {
		return uuid.Nil, ErrPatientIDInvalid
	}
	return id, nil
}
