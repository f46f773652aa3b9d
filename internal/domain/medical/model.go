package medical

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GeneticSample is one uploaded genotype payload for a patient. Samples
// are append-only; the newest one is the patient's current sample.
type GeneticSample struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PatientID    uuid.UUID       `db:"patient_id" json:"patientId"`
	RawData      json.RawMessage `db:"genetic_data_raw" json:"geneticDataRaw"`
	AncestryData json.RawMessage `db:"ancestry_data" json:"ancestryData"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}

// AncestryFractions is the decoded form of a sample's ancestry payload.
// Unknown populations are ignored on decode.
type AncestryFractions struct {
	European float64 `json:"european"`
	Asian    float64 `json:"asian"`
	African  float64 `json:"african"`
	Other    float64 `json:"other"`
}

// Ancestry decodes the sample's ancestry payload. A missing or empty
// payload decodes to all-zero fractions.
func (s *GeneticSample) Ancestry() (AncestryFractions, error) {
	var a AncestryFractions
	if len(s.AncestryData) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(s.AncestryData, &a); err != nil {
		return AncestryFractions{}, err
	}
	return a, nil
}
