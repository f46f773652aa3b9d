package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genedetective/genedetective/internal/platform/db"
)

// -- User Repository --

type userRepoPG struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, full_name, email, password_hash, date_birth, user_role, created_at, updated_at`

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, date_birth, user_role)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.DateOfBirth, u.Role,
	)
	if err != nil {
		// The unique index on email is the authority; the service's
		// pre-check can lose a race with a concurrent insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Extension records and patient-scoped rows go with the user via
	// ON DELETE CASCADE.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash,
		&u.DateOfBirth, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user scan: %w", err)
	}
	return u, nil
}

// -- Patient Repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientRecord) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, user_id, medical_history)
		VALUES ($1, $2, $3)`,
		p.ID, p.UserID, p.MedicalHistory,
	)
	if err != nil {
		return fmt.Errorf("patient create: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientRecord, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT id, user_id, medical_history FROM patients WHERE user_id = $1`, userID))
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT id, user_id, medical_history FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) UpdateHistory(ctx context.Context, userID uuid.UUID, history string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET medical_history = $2 WHERE user_id = $1`, userID, history)
	if err != nil {
		return fmt.Errorf("patient history update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*PatientRecord, error) {
	p := &PatientRecord{}
	err := row.Scan(&p.ID, &p.UserID, &p.MedicalHistory)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patient scan: %w", err)
	}
	return p, nil
}

// -- Counselor Repository --

type counselorRepoPG struct {
	pool *pgxpool.Pool
}

func NewCounselorRepo(pool *pgxpool.Pool) CounselorRepository {
	return &counselorRepoPG{pool: pool}
}

func (r *counselorRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *counselorRepoPG) Create(ctx context.Context, c *CounselorRecord) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO genetic_counselors (id, user_id, specialization)
		VALUES ($1, $2, $3)`,
		c.ID, c.UserID, c.Specialization,
	)
	if err != nil {
		return fmt.Errorf("counselor create: %w", err)
	}
	return nil
}

func (r *counselorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*CounselorRecord, error) {
	c := &CounselorRecord{}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, user_id, specialization FROM genetic_counselors WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &c.Specialization)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("counselor scan: %w", err)
	}
	return c, nil
}

// -- Researcher Repository --

type researcherRepoPG struct {
	pool *pgxpool.Pool
}

func NewResearcherRepo(pool *pgxpool.Pool) ResearcherRepository {
	return &researcherRepoPG{pool: pool}
}

func (r *researcherRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *researcherRepoPG) Create(ctx context.Context, rec *ResearcherRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO researchers (id, user_id, institution, research_area)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.UserID, rec.Institution, rec.ResearchArea,
	)
	if err != nil {
		return fmt.Errorf("researcher create: %w", err)
	}
	return nil
}

func (r *researcherRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*ResearcherRecord, error) {
	rec := &ResearcherRecord{}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, user_id, institution, research_area FROM researchers WHERE user_id = $1`, userID).
		Scan(&rec.ID, &rec.UserID, &rec.Institution, &rec.ResearchArea)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("researcher scan: %w", err)
	}
	return rec, nil
}
