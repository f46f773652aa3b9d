package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/platform/auth"
)

var (
	// ErrEmailTaken signals a registration attempt with an email that
	// already belongs to a user.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// login callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingField signals a required registration field left empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidRole signals an unknown role code at registration.
	ErrInvalidRole = errors.New("invalid user role")
)

// TxRunner runs fn within a single storage transaction, so that a user row
// and its role extension record exist or fail together.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn directly, for wiring the service over storage that
// needs no transaction (in-memory repositories in tests).
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	users       UserRepository
	patients    PatientRepository
	counselors  CounselorRepository
	researchers ResearcherRepository
	issuer      *auth.TokenIssuer
	inTx        TxRunner
}

func NewService(
	users UserRepository,
	patients PatientRepository,
	counselors CounselorRepository,
	researchers ResearcherRepository,
	issuer *auth.TokenIssuer,
	inTx TxRunner,
) *Service {
	return &Service{
		users:       users,
		patients:    patients,
		counselors:  counselors,
		researchers: researchers,
		issuer:      issuer,
		inTx:        inTx,
	}
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Role        auth.Role  `json:"userRole"`
}

// Register creates a user and its role extension record in one transaction
// and returns the user with a freshly issued token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingField
	}
	if in.Role == 0 {
		in.Role = auth.RolePatient
	}
	if !in.Role.Valid() {
		return nil, "", ErrInvalidRole
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", fmt.Errorf("register email check: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	user := &User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		DateOfBirth:  in.DateOfBirth,
		Role:         in.Role,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		switch in.Role {
		case auth.RolePatient:
			return s.patients.Create(ctx, &PatientRecord{UserID: user.ID})
		case auth.RoleCounselor:
			return s.counselors.Create(ctx, &CounselorRecord{UserID: user.ID})
		case auth.RoleResearcher:
			return s.researchers.Create(ctx, &ResearcherRecord{UserID: user.ID})
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. The
// error for an unknown email is identical to the error for a wrong
// password.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	return user, token, nil
}

// Profile is a user with its role extension fields merged in.
type Profile struct {
	User
	MedicalHistory *string `json:"medicalHistory,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	ResearchArea   *string `json:"researchArea,omitempty"`
}

// GetProfile loads the user row and the extension record matching its role.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: *user}
	switch user.Role {
	case auth.RolePatient:
		rec, err := s.patients.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p.MedicalHistory = &rec.MedicalHistory
	case auth.RoleCounselor:
		rec, err := s.counselors.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p.Specialization = &rec.Specialization
	case auth.RoleResearcher:
		rec, err := s.researchers.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p.Institution = &rec.Institution
		p.ResearchArea = &rec.ResearchArea
	}
	return p, nil
}

// DeleteAccount removes the user row; the storage engine cascades the
// deletion to the role extension record and all patient-scoped children.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}
