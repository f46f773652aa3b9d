package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *PatientRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
	UpdateHistory(ctx context.Context, userID uuid.UUID, history string) error
}

type CounselorRepository interface {
	Create(ctx context.Context, c *CounselorRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CounselorRecord, error)
}

type ResearcherRepository interface {
	Create(ctx context.Context, r *ResearcherRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ResearcherRecord, error)
}
