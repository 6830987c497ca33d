// Package repository persists candidates and their OTP challenge.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
	"github.com/allisson/hireflow/internal/database"
	apperrors "github.com/allisson/hireflow/internal/errors"
)

const candidateColumns = `id, name, email, otp_code, otp_created_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLCandidateRepository implements candidate persistence for PostgreSQL.
type PostgreSQLCandidateRepository struct {
	db *sql.DB
}

// NewPostgreSQLCandidateRepository creates a new PostgreSQL candidate repository.
func NewPostgreSQLCandidateRepository(db *sql.DB) *PostgreSQLCandidateRepository {
	return &PostgreSQLCandidateRepository{db: db}
}

// Create inserts candidate. A duplicate email yields ErrDuplicateCandidateEmail.
func (p *PostgreSQLCandidateRepository) Create(ctx context.Context, candidate *candidateDomain.Candidate) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO candidates (` + candidateColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		candidate.ID,
		candidate.Name,
		candidate.Email,
		candidate.OTPCode,
		candidate.OTPCreatedAt,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return candidateDomain.ErrDuplicateCandidateEmail
		}
		return apperrors.Wrap(err, "failed to create candidate")
	}
	return nil
}

// GetByEmail retrieves a candidate by its exact email.
func (p *PostgreSQLCandidateRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*candidateDomain.Candidate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE email = $1`

	return p.scan(querier.QueryRowContext(ctx, query, email))
}

// GetByIDForUpdate locks the candidate row until the surrounding transaction ends.
func (p *PostgreSQLCandidateRepository) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*candidateDomain.Candidate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 FOR UPDATE`

	return p.scan(querier.QueryRowContext(ctx, query, id))
}

// UpdateOTP writes the candidate's current challenge, which may be cleared.
func (p *PostgreSQLCandidateRepository) UpdateOTP(ctx context.Context, candidate *candidateDomain.Candidate) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE candidates SET otp_code = $1, otp_created_at = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		candidate.OTPCode,
		candidate.OTPCreatedAt,
		candidate.UpdatedAt,
		candidate.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update candidate otp")
	}
	return requireOneRow(result)
}

func (p *PostgreSQLCandidateRepository) scan(row rowScanner) (*candidateDomain.Candidate, error) {
	var candidate candidateDomain.Candidate

	err := row.Scan(
		&candidate.ID,
		&candidate.Name,
		&candidate.Email,
		&candidate.OTPCode,
		&candidate.OTPCreatedAt,
		&candidate.CreatedAt,
		&candidate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidateDomain.ErrCandidateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get candidate")
	}
	return &candidate, nil
}

func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return candidateDomain.ErrCandidateNotFound
	}
	return nil
}
