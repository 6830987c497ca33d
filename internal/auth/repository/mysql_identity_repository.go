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

// MySQLIdentityRepository implements identity persistence for MySQL using
// BINARY(16) ids.
type MySQLIdentityRepository struct {
	db *sql.DB
}

// NewMySQLIdentityRepository creates a new MySQL identity repository.
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{db: db}
}

// Create inserts identity. A duplicate email yields ErrDuplicateEmail.
func (m *MySQLIdentityRepository) Create(ctx context.Context, identity *authDomain.Identity) error {
	querier := database.GetTx(ctx, m.db)

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	var companyID any
	if identity.CompanyID != nil {
		b, err := identity.CompanyID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal company id")
		}
		companyID = b
	}

	query := `INSERT INTO users (` + identityColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		identity.Name,
		identity.Username,
		identity.Email,
		identity.PasswordHash,
		string(identity.Role),
		identity.CompanyName,
		identity.CompanyWebsite,
		companyID,
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
func (m *MySQLIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `SELECT ` + identityColumns + ` FROM users WHERE id = ?`

	return m.scan(querier.QueryRowContext(ctx, query, idBytes))
}

// GetByEmail retrieves an identity by its exact email.
func (m *MySQLIdentityRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Identity, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + identityColumns + ` FROM users WHERE email = ?`

	return m.scan(querier.QueryRowContext(ctx, query, email))
}

// UpdatePasswordHash replaces the stored hash of identity id.
func (m *MySQLIdentityRepository) UpdatePasswordHash(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, passwordHash, updatedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update password hash")
	}
	return requireOneRow(result)
}

// List returns identities ordered by id descending.
func (m *MySQLIdentityRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Identity, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + identityColumns + ` FROM users ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer func() {
		_ = rows.Close()
	}()

	identities := make([]*authDomain.Identity, 0)
	for rows.Next() {
		identity, err := m.scan(rows)
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

func (m *MySQLIdentityRepository) scan(row rowScanner) (*authDomain.Identity, error) {
	var identity authDomain.Identity
	var idBytes, companyID []byte
	var role string

	err := row.Scan(
		&idBytes,
		&identity.Name,
		&identity.Username,
		&identity.Email,
		&identity.PasswordHash,
		&role,
		&identity.CompanyName,
		&identity.CompanyWebsite,
		&companyID,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}

	if err := identity.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal identity id")
	}
	if companyID != nil {
		var cid uuid.UUID
		if err := cid.UnmarshalBinary(companyID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal company id")
		}
		identity.CompanyID = &cid
	}

	identity.Role = authDomain.Role(role)
	return &identity, nil
}
