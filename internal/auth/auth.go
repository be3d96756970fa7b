package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Identity is the slice of a users row needed to authenticate and authorize.
type Identity struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
}

func (i *Identity) Caller() access.Caller {
	return access.Caller{
		UserID: i.ID,
		Email:  i.Email,
		Role:   access.Role(i.Role),
	}
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Claims represents JWT token claims. Role is informational; authorization always
// uses the role currently stored for the user.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(identity *Identity) (token string, expiresAt time.Time, err error)
	GenerateRefreshToken(identity *Identity) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type RepositoryAPI interface {
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	GetIdentityByID(ctx context.Context, id int64) (*Identity, error)
}
