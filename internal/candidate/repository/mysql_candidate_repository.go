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

// MySQLCandidateRepository implements candidate persistence for MySQL using
// BINARY(16) ids.
type MySQLCandidateRepository struct {
	db *sql.DB
}

// NewMySQLCandidateRepository creates a new MySQL candidate repository.
func NewMySQLCandidateRepository(db *sql.DB) *MySQLCandidateRepository {
	return &MySQLCandidateRepository{db: db}
}

// Create inserts candidate. A duplicate email yields ErrDuplicateCandidateEmail.
func (m *MySQLCandidateRepository) Create(ctx context.Context, candidate *candidateDomain.Candidate) error {
	querier := database.GetTx(ctx, m.db)

	id, err := candidate.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal candidate id")
	}

	query := `INSERT INTO candidates (` + candidateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLCandidateRepository) GetByEmail(ctx context.Context, email string) (*candidateDomain.Candidate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE email = ?`

	return m.scan(querier.QueryRowContext(ctx, query, email))
}

// GetByIDForUpdate locks the candidate row until the surrounding transaction ends.
func (m *MySQLCandidateRepository) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*candidateDomain.Candidate, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal candidate id")
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = ? FOR UPDATE`

	return m.scan(querier.QueryRowContext(ctx, query, idBytes))
}

// UpdateOTP writes the candidate's current challenge, which may be cleared.
func (m *MySQLCandidateRepository) UpdateOTP(ctx context.Context, candidate *candidateDomain.Candidate) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := candidate.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal candidate id")
	}

	query := `UPDATE candidates SET otp_code = ?, otp_created_at = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		candidate.OTPCode,
		candidate.OTPCreatedAt,
		candidate.UpdatedAt,
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update candidate otp")
	}
	return requireOneRow(result)
}

func (m *MySQLCandidateRepository) scan(row rowScanner) (*candidateDomain.Candidate, error) {
	var candidate candidateDomain.Candidate
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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

	if err := candidate.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal candidate id")
	}
	return &candidate, nil
}
