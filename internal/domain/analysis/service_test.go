package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/domain/identity"
	"github.com/genedetective/genedetective/internal/domain/medical"
	"github.com/genedetective/genedetective/internal/platform/auth"
	"github.com/genedetective/genedetective/pkg/pagination"
)

// ── Mock Repositories ──

type mockPatients struct {
	data map[uuid.UUID]*identity.PatientRecord
}

func newMockPatients() *mockPatients {
	return &mockPatients{data: make(map[uuid.UUID]*identity.PatientRecord)}
}

func (m *mockPatients) add(userID uuid.UUID, history string) *identity.PatientRecord {
	p := &identity.PatientRecord{ID: uuid.New(), UserID: userID, MedicalHistory: history}
	m.data[p.ID] = p
	return p
}

func (m *mockPatients) Create(_ context.Context, p *identity.PatientRecord) error {
	p.ID = uuid.New()
	m.data[p.ID] = p
	return nil
}
func (m *mockPatients) GetByUserID(_ context.Context, userID uuid.UUID) (*identity.PatientRecord, error) {
	for _, p := range m.data {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, identity.ErrNotFound
}
func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*identity.PatientRecord, error) {
	if p, ok := m.data[id]; ok {
		return p, nil
	}
	return nil, identity.ErrNotFound
}
func (m *mockPatients) UpdateHistory(_ context.Context, userID uuid.UUID, history string) error {
	for _, p := range m.data {
		if p.UserID == userID {
			p.MedicalHistory = history
			return nil
		}
	}
	return identity.ErrNotFound
}

type mockCounselors struct {
	data map[uuid.UUID]*identity.CounselorRecord
}

func newMockCounselors() *mockCounselors {
	return &mockCounselors{data: make(map[uuid.UUID]*identity.CounselorRecord)}
}

func (m *mockCounselors) add(userID uuid.UUID) *identity.CounselorRecord {
	c := &identity.CounselorRecord{ID: uuid.New(), UserID: userID}
	m.data[c.ID] = c
	return c
}

func (m *mockCounselors) Create(_ context.Context, c *identity.CounselorRecord) error {
	c.ID = uuid.New()
	m.data[c.ID] = c
	return nil
}
func (m *mockCounselors) GetByUserID(_ context.Context, userID uuid.UUID) (*identity.CounselorRecord, error) {
	for _, c := range m.data {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, identity.ErrNotFound
}

type mockSamples struct {
	data []*medical.GeneticSample
}

func (m *mockSamples) Create(_ context.Context, s *medical.GeneticSample) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().Add(time.Duration(len(m.data)) * time.Second)
	m.data = append(m.data, s)
	return nil
}
func (m *mockSamples) Latest(_ context.Context, patientID uuid.UUID) (*medical.GeneticSample, error) {
	var latest *medical.GeneticSample
	for _, s := range m.data {
		if s.PatientID != patientID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, medical.ErrNotFound
	}
	return latest, nil
}

type mockExpressions struct {
	data []*GeneExpression
}

func (m *mockExpressions) Create(_ context.Context, e *GeneExpression) error {
	e.ID = uuid.New()
	e.AnalysisDate = time.Now().Add(time.Duration(len(m.data)) * time.Second)
	m.data = append(m.data, e)
	return nil
}
func (m *mockExpressions) ListByPatient(_ context.Context, patientID uuid.UUID, p pagination.Params) ([]*GeneExpression, int, error) {
	var matches []*GeneExpression
	for _, e := range m.data {
		if e.PatientID == patientID {
			matches = append(matches, e)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].AnalysisDate.After(matches[j].AnalysisDate)
	})
	return page(matches, p), len(matches), nil
}
func (m *mockExpressions) ListAll(_ context.Context, p pagination.Params) ([]*Expression, int, error) {
	all := make([]*GeneExpression, len(m.data))
	copy(all, m.data)
	sort.Slice(all, func(i, j int) bool {
		return all[i].AnalysisDate.After(all[j].AnalysisDate)
	})
	out := make([]*Expression, 0, len(all))
	for _, e := range page(all, p) {
		out = append(out, &Expression{ID: e.ID, Result: e.Result, AnalysisDate: e.AnalysisDate})
	}
	return out, len(all), nil
}

type mockRecommendations struct {
	data []*Recommendation
}

func (m *mockRecommendations) Create(_ context.Context, r *Recommendation) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().Add(time.Duration(len(m.data)) * time.Second)
	m.data = append(m.data, r)
	return nil
}
func (m *mockRecommendations) ListByPatient(_ context.Context, patientID uuid.UUID, p pagination.Params) ([]*Recommendation, int, error) {
	var matches []*Recommendation
	for _, r := range m.data {
		if r.PatientID == patientID {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return page(matches, p), len(matches), nil
}

func page[T any](items []*T, p pagination.Params) []*T {
	if p.Offset >= len(items) {
		return nil
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

type analysisEnv struct {
	svc             *Service
	patients        *mockPatients
	counselors      *mockCounselors
	samples         *mockSamples
	expressions     *mockExpressions
	recommendations *mockRecommendations
}

func newAnalysisEnv() *analysisEnv {
	env := &analysisEnv{
		patients:        newMockPatients(),
		counselors:      newMockCounselors(),
		samples:         &mockSamples{},
		expressions:     &mockExpressions{},
		recommendations: &mockRecommendations{},
	}
	env.svc = NewService(
		medical.NewScopeResolver(env.patients),
		env.samples,
		env.patients,
		env.counselors,
		env.expressions,
		env.recommendations,
		NewAnalyzer(),
	)
	return env
}

func patientIdent(userID uuid.UUID) *auth.Identity {
	return &auth.Identity{ID: userID, Role: auth.RolePatient}
}

func counselorIdent(userID uuid.UUID) *auth.Identity {
	return &auth.Identity{ID: userID, Role: auth.RoleCounselor}
}

func (env *analysisEnv) addSample(t *testing.T, patientID uuid.UUID, ancestry string) {
	t.Helper()
	err := env.samples.Create(context.Background(), &medical.GeneticSample{
		PatientID:    patientID,
		RawData:      json.RawMessage(`{"rs4988235":"CC"}`),
		AncestryData: json.RawMessage(ancestry),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ── Analyze ──

func TestAnalyze_PatientOwnSample(t *testing.T) {
	env := newAnalysisEnv()
	userID := uuid.New()
	rec := env.patients.add(userID, "")
	env.addSample(t, rec.ID, `{"european":0.8}`)

	result, err := env.svc.Analyze(context.Background(), patientIdent(userID), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasRiskGene(result, "BRCA1") {
		t.Error("expected a BRCA1 variant for a european-majority sample")
	}

	// The result was appended to the expression stream.
	stored, total, err := env.expressions.ListByPatient(context.Background(), rec.ID, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(stored) != 1 {
		t.Fatalf("expected one stored expression, got %d", total)
	}
	var decoded Result
	if err := json.Unmarshal(stored[0].Result, &decoded); err != nil {
		t.Fatalf("stored result does not decode: %v", err)
	}
}

func TestAnalyze_NoSample(t *testing.T) {
	env := newAnalysisEnv()
	userID := uuid.New()
	env.patients.add(userID, "")

	_, err := env.svc.Analyze(context.Background(), patientIdent(userID), "")
	if !errors.Is(err, ErrNoSampleData) {
		t.Errorf("expected ErrNoSampleData, got %v", err)
	}
}

func TestAnalyze_CounselorAddressesPatient(t *testing.T) {
	env := newAnalysisEnv()
	rec := env.patients.add(uuid.New(), "")
	env.addSample(t, rec.ID, `{"asian":0.4}`)

	result, err := env.svc.Analyze(context.Background(), counselorIdent(uuid.New()), rec.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasRiskGene(result, "APOE") {
		t.Error("expected an APOE variant")
	}

	_, err = env.svc.Analyze(context.Background(), counselorIdent(uuid.New()), "")
	if !errors.Is(err, medical.ErrPatientIDRequired) {
		t.Errorf("expected ErrPatientIDRequired, got %v", err)
	}
}

// ── Results ──

func TestResults_NewestFirstAndPaged(t *testing.T) {
	env := newAnalysisEnv()
	userID := uuid.New()
	rec := env.patients.add(userID, "")
	env.addSample(t, rec.ID, `{"european":0.6}`)

	for i := 0; i < 3; i++ {
		if _, err := env.svc.Analyze(context.Background(), patientIdent(userID), ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	results, total, err := env.svc.Results(context.Background(), patientIdent(userID), "", pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results in the page, got %d", len(results))
	}
	if results[0].AnalysisDate.Before(results[1].AnalysisDate) {
		t.Error("expected newest-first ordering")
	}
}

// ── Recommendations ──

func TestRecommendations_RoundTrip(t *testing.T) {
	env := newAnalysisEnv()
	patientUser := uuid.New()
	rec := env.patients.add(patientUser, "")
	counselorUser := uuid.New()
	counselor := env.counselors.add(counselorUser)

	payload := json.RawMessage(`[{"category":"screening","text":"Annual MRI from age 30"}]`)
	err := env.svc.SaveRecommendations(context.Background(), counselorIdent(counselorUser), rec.ID.String(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The patient reads what was written for them.
	recs, total, err := env.svc.Recommendations(context.Background(), patientIdent(patientUser), "", pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(recs) != 1 {
		t.Fatalf("expected one recommendation, got %d", total)
	}
	if recs[0].CounselorID != counselor.ID {
		t.Errorf("expected counselor id %s, got %s", counselor.ID, recs[0].CounselorID)
	}
}

func TestRecommendations_CounselorRecordRequired(t *testing.T) {
	env := newAnalysisEnv()
	rec := env.patients.add(uuid.New(), "")

	err := env.svc.SaveRecommendations(context.Background(), counselorIdent(uuid.New()), rec.ID.String(), json.RawMessage(`[]`))
	if !errors.Is(err, ErrCounselorRecordMissing) {
		t.Errorf("expected ErrCounselorRecordMissing, got %v", err)
	}
}

// ── Research export ──

func TestExpressions_DeIdentified(t *testing.T) {
	env := newAnalysisEnv()
	userID := uuid.New()
	rec := env.patients.add(userID, "")
	env.addSample(t, rec.ID, `{"european":0.6}`)
	if _, err := env.svc.Analyze(context.Background(), patientIdent(userID), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exprs, total, err := env.svc.Expressions(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(exprs) != 1 {
		t.Fatalf("expected one expression, got %d", total)
	}

	// The export row carries no patient linkage.
	raw, err := json.Marshal(exprs[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := asMap["patientId"]; ok {
		t.Error("export must not expose the patient id")
	}
}
