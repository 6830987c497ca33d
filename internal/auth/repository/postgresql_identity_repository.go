// Package repository persists identities in PostgreSQL and MySQL.
//
// Both implementations join the caller's transaction through database.GetTx.
// PostgreSQL stores ids as native UUID, MySQL as BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	"github.com/allisson/hireflow/internal/database"
	apperrors "github.com/allisson/hireflow/internal/errors"
)

const identityColumns = `id, name, username, email, password_hash, role, company_name, company_website,
company_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLIdentityRepository implements identity persistence for PostgreSQL.
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQL identity repository.
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{db: db}
}

// Create inserts identity. A duplicate email yields ErrDuplicateEmail.
func (p *PostgreSQLIdentityRepository) Create(ctx context.Context, identity *authDomain.Identity) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (` + identityColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		identity.ID,
		identity.Name,
		identity.Username,
		identity.Email,
		identity.PasswordHash,
		string(identity.Role),
		identity.CompanyName,
		identity.CompanyWebsite,
		identity.CompanyID,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrDuplicateEmail
		}
		return apperrors.Wrap(err, "failed to create identity")
	}
	return nil
}

// GetByID retrieves an identity by id.
func (p *PostgreSQLIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + identityColumns + ` FROM users WHERE id = $1`

	return p.scan(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an identity by its exact email.
func (p *PostgreSQLIdentityRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Identity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + identityColumns + ` FROM users WHERE email = $1`

	return p.scan(querier.QueryRowContext(ctx, query, email))
}

// UpdatePasswordHash replaces the stored hash of identity id.
func (p *PostgreSQLIdentityRepository) UpdatePasswordHash(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, passwordHash, updatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update password hash")
	}
	return requireOneRow(result)
}

// List returns identities ordered by id descending.
func (p *PostgreSQLIdentityRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Identity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + identityColumns + ` FROM users ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer func() {
		_ = rows.Close()
	}()

	identities := make([]*authDomain.Identity, 0)
	for rows.Next() {
		identity, err := p.scan(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identities")
	}
	return identities, nil
}

func (p *PostgreSQLIdentityRepository) scan(row rowScanner) (*authDomain.Identity, error) {
	var identity authDomain.Identity
	var role string

	err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Username,
		&identity.Email,
		&identity.PasswordHash,
		&role,
		&identity.CompanyName,
		&identity.CompanyWebsite,
		&identity.CompanyID,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}

	identity.Role = authDomain.Role(role)
	return &identity, nil
}

func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return authDomain.ErrIdentityNotFound
	}
	return nil
}
