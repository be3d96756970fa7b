package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/contract-portal/internal/auth"
	"github.com/jmoiron/sqlx"
)

const identityColumns = `id, email, name, password_hash, role, is_active`

// Repository reads identities with plain SQL; it sits on the hot path of every
// authenticated request.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := r.db.Rebind(`SELECT ` + identityColumns + ` FROM users WHERE LOWER(email) = LOWER(?)`)
	return r.get(ctx, query, email)
}

func (r *Repository) GetIdentityByID(ctx context.Context, id int64) (*auth.Identity, error) {
	query := r.db.Rebind(`SELECT ` + identityColumns + ` FROM users WHERE id = ?`)
	return r.get(ctx, query, id)
}

func (r *Repository) get(ctx context.Context, query string, arg interface{}) (*auth.Identity, error) {
	var identity auth.Identity
	if err := r.db.GetContext(ctx, &identity, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return &identity, nil
}
