package analysis

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GeneExpression is one stored analysis run for a patient.
type GeneExpression struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PatientID    uuid.UUID       `db:"patient_id" json:"patientId"`
	Result       json.RawMessage `db:"result" json:"result"`
	AnalysisDate time.Time       `db:"analysis_date" json:"analysisDate"`
}

// Expression is a de-identified expression row for the research export.
// The patient link is withheld.
type Expression struct {
	ID           uuid.UUID       `json:"id"`
	Result       json.RawMessage `json:"result"`
	AnalysisDate time.Time       `json:"analysisDate"`
}

// Recommendation is counselor-authored guidance attached to a patient.
type Recommendation struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	PatientID   uuid.UUID       `db:"patient_id" json:"patientId"`
	CounselorID uuid.UUID       `db:"counselor_id" json:"counselorId"`
	Results     json.RawMessage `db:"recommendation_results" json:"recommendations"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}
