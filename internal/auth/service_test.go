package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository keyed by id; lookups by email scan the map.
type mockIdentityRepository struct {
	byID          map[int64]*Identity
	errorToReturn error
}

func newMockIdentityRepository() *mockIdentityRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockIdentityRepository{
		byID: map[int64]*Identity{
			1: {ID: 1, Email: "client@example.com", Name: "Client", PasswordHash: string(hash), Role: "client", IsActive: true},
			2: {ID: 2, Email: "admin@example.com", Name: "Admin", PasswordHash: string(hash), Role: "admin", IsActive: true},
			3: {ID: 3, Email: "gone@example.com", Name: "Gone", PasswordHash: string(hash), Role: "employee", IsActive: false},
		},
	}
}

func (m *mockIdentityRepository) GetIdentityByEmail(_ context.Context, email string) (*Identity, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	for _, identity := range m.byID {
		if strings.EqualFold(identity.Email, email) {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockIdentityRepository) GetIdentityByID(_ context.Context, id int64) (*Identity, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	if identity, ok := m.byID[id]; ok {
		copied := *identity
		return &copied, nil
	}
	return nil, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service       *Service
		mockRepo      *mockIdentityRepository
		tokenGen      *JWTTokenGenerator
		ctx           context.Context
		accessSecret  = "test-access-secret-0123456789abcdef"
		refreshSecret = "test-refresh-secret-0123456789abcdef"
		accessTTL     = 15 * time.Minute
		refreshTTL    = 24 * time.Hour
	)

	login := func(email string) AuthTokens {
		tokens, err := service.Authenticate(ctx, LoginDTO{Email: email, Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return tokens
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockIdentityRepository()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost, nil)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return distinct access and refresh tokens", func() {
				tokens := login("client@example.com")

				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
				gomega.Expect(tokens.TokenType).To(gomega.Equal("Bearer"))
			})

			ginkgo.It("should carry id, email and role in the access token", func() {
				// Given
				tokens := login(" Admin@Example.com ")

				// When
				claims, err := service.ValidateAccessToken(tokens.AccessToken)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Email).To(gomega.Equal("admin@example.com"))
				gomega.Expect(claims.Role).To(gomega.Equal("admin"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject an unknown email", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@example.com", Password: "x"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should reject a wrong password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "client@example.com", Password: "wrong_password"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject inactive users", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "gone@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should require an email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Password: "password"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should require a password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "client@example.com"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should hide it behind invalid credentials", func() {
				mockRepo.errorToReturn = errors.New("database error")

				_, err := service.Authenticate(ctx, LoginDTO{Email: "client@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate tokens for an active user", func() {
			tokens := login("client@example.com")

			newTokens, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			claims, err := service.ValidateAccessToken(newTokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should not accept an access token as refresh token", func() {
			tokens := login("client@example.com")

			_, err := service.RefreshTokens(ctx, tokens.AccessToken)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("should refuse users deactivated after login", func() {
			tokens := login("client@example.com")
			mockRepo.byID[1].IsActive = false

			_, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
		})

		ginkgo.It("should report expired tokens", func() {
			expiredGen := NewJWTTokenGenerator(accessSecret, refreshSecret, -time.Hour, -time.Hour)
			expired, err := expiredGen.GenerateRefreshToken(mockRepo.byID[1])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, expired)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})
	})

	ginkgo.Describe("ResolveToken", func() {
		ginkgo.It("should return the caller with the stored role", func() {
			tokens := login("client@example.com")

			caller, err := service.ResolveToken(ctx, tokens.AccessToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(caller).To(gomega.Equal(access.Caller{UserID: 1, Email: "client@example.com", Role: access.RoleClient}))
		})

		ginkgo.It("should pick up a role change on the very next request", func() {
			tokens := login("admin@example.com")
			mockRepo.byID[2].Role = "employee"

			caller, err := service.ResolveToken(ctx, tokens.AccessToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(caller.Role).To(gomega.Equal(access.RoleEmployee))
			gomega.Expect(caller.IsAdmin()).To(gomega.BeFalse())
		})

		ginkgo.It("should reject tokens of deleted users", func() {
			tokens := login("client@example.com")
			delete(mockRepo.byID, 1)

			_, err := service.ResolveToken(ctx, tokens.AccessToken)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("should reject tokens signed with another secret", func() {
			other := NewJWTTokenGenerator("another-access-secret-0123456789ab", refreshSecret, accessTTL, refreshTTL)
			forged, _, err := other.GenerateAccessToken(mockRepo.byID[2])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ResolveToken(ctx, forged)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("should surface storage failures as internal errors", func() {
			tokens := login("client@example.com")
			mockRepo.errorToReturn = errors.New("connection reset")

			_, err := service.ResolveToken(ctx, tokens.AccessToken)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("Passwords", func() {
		ginkgo.It("should hash and verify", func() {
			hash, err := service.HashPassword("s3cretpass")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(VerifyPassword(hash, "s3cretpass")).To(gomega.Succeed())
			gomega.Expect(VerifyPassword(hash, "other")).ToNot(gomega.Succeed())
		})

		ginkgo.It("should generate temporary passwords of at least twelve characters", func() {
			short, err := GenerateTemporaryPassword(4)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(short).To(gomega.HaveLen(12))

			a, _ := GenerateTemporaryPassword(16)
			b, _ := GenerateTemporaryPassword(16)
			gomega.Expect(a).To(gomega.HaveLen(16))
			gomega.Expect(a).ToNot(gomega.Equal(b))
		})
	})
})
