package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/platform/auth"
)

// User maps to the users table. Role is fixed at registration; the password
// hash never leaves the server.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DateOfBirth  *time.Time `db:"date_birth" json:"dateOfBirth,omitempty"`
	Role         auth.Role  `db:"user_role" json:"userRole"`
	CreatedAt    time.Time  `db:"created_at" json:"-"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`
}

// PatientRecord is the role extension record for patients. It also anchors
// the patient scope: every genetic sample, expression result, and
// recommendation hangs off its id.
type PatientRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	MedicalHistory string    `db:"medical_history" json:"medicalHistory"`
}

// CounselorRecord is the role extension record for genetic counselors.
type CounselorRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	Specialization string    `db:"specialization" json:"specialization"`
}

// ResearcherRecord is the role extension record for researchers.
type ResearcherRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Institution  string    `db:"institution" json:"institution"`
	ResearchArea string    `db:"research_area" json:"researchArea"`
}
