package auth

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	identity, err := s.repo.GetIdentityByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load identity", "error", err)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if identity == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(identity.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !identity.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(identity)
}

// RefreshTokens validates the refresh token against the current user row and
// rotates both tokens.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	identity, err := s.activeIdentity(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issue(identity)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// ResolveToken turns a bearer token into the caller for this request. The role is
// re-read from storage so demotions and deactivations apply immediately.
func (s *Service) ResolveToken(ctx context.Context, token string) (access.Caller, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(token)
	if err != nil {
		return access.Caller{}, err
	}

	identity, err := s.activeIdentity(ctx, claims.UserID)
	if err != nil {
		return access.Caller{}, err
	}

	caller := identity.Caller()
	if !caller.Role.Valid() {
		s.logger.Warn("user has unknown role", "user_id", identity.ID, "role", identity.Role)
		return access.Caller{}, internal.ErrInvalidToken
	}
	return caller, nil
}

func (s *Service) activeIdentity(ctx context.Context, userID int64) (*Identity, error) {
	identity, err := s.repo.GetIdentityByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if identity == nil {
		return nil, internal.ErrInvalidToken
	}
	if !identity.IsActive {
		return nil, internal.ErrUserInactive
	}
	return identity, nil
}

func (s *Service) issue(identity *Identity) (AuthTokens, error) {
	accessToken, expiresAt, err := s.tokenGenerator.GenerateAccessToken(identity)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(identity)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// GenerateTemporaryPassword returns a random password for admin resets.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 12 {
		length = 12
	}
	max := big.NewInt(int64(len(temporaryPasswordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = temporaryPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
