package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/auth"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/common/dberrors"
	"github.com/frahmantamala/contract-portal/internal/core/events"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	List(ctx context.Context, filters ListFilters) ([]*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role access.Role) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, u *User) error
	CountActiveAdmins(ctx context.Context) (int64, error)
	CountContractReferences(ctx context.Context, id int64) (int64, error)
	ContractRoleReferences(ctx context.Context, id int64) (ContractReferences, error)
	DeleteGrants(ctx context.Context, employeeID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher is satisfied by auth.Service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo         Repository
	hasher       PasswordHasher
	publisher    events.Publisher
	logger       *slog.Logger
	tempPassword func() (string, error)
}

func NewService(repo Repository, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		tempPassword: func() (string, error) {
			return auth.GenerateTemporaryPassword(TemporaryPasswordLength)
		},
	}
}

func (s *Service) ListUsers(ctx context.Context, caller access.Caller, filters ListFilters) ([]*User, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	users, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("Failed to list users", err)
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, caller access.Caller, id int64) (*User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, internal.ErrAdminRequired
	}
	return s.load(ctx, s.repo, id)
}

func (s *Service) GetProfile(ctx context.Context, caller access.Caller) (*User, error) {
	return s.load(ctx, s.repo, caller.UserID)
}

func (s *Service) RegisterUser(ctx context.Context, caller access.Caller, dto RegisterUserDTO) (*User, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("Failed to register user", err)
	}

	u := &User{
		Email:         dto.Email,
		Name:          dto.Name,
		Role:          access.Role(dto.Role),
		Phone:         optional(dto.Phone),
		CompanyName:   optional(dto.CompanyName),
		Address:       optional(dto.Address),
		PANNumber:     optional(dto.PANNumber),
		AadhaarNumber: optional(dto.AadhaarNumber),
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, u, hash); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, internal.ErrDuplicateEmail.WithCause(err)
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("Failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role, "actor_id", caller.UserID)
	s.publish(ctx, events.NewUserEvent(events.UserRegistered, u.ID, caller.UserID, map[string]interface{}{"role": string(u.Role)}))
	return u, nil
}

// UpdateUserRole refuses to demote the last active admin and to move a user out
// of a role that contracts still reference them in. An employee leaving the
// employee role loses their contract grants in the same transaction.
func (s *Service) UpdateUserRole(ctx context.Context, caller access.Caller, id int64, dto UpdateRoleDTO) (*User, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	newRole := access.Role(dto.Role)

	var (
		updated       *User
		oldRole       access.Role
		grantsRemoved int64
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		u, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		oldRole = u.Role
		updated = u
		if oldRole == newRole {
			return nil
		}
		if u.IsActiveAdmin() {
			if err := guardLastAdmin(ctx, repo); err != nil {
				return err
			}
		}
		if err := guardRoleReferences(ctx, repo, id, newRole); err != nil {
			return err
		}
		if oldRole == access.RoleEmployee {
			if grantsRemoved, err = repo.DeleteGrants(ctx, id); err != nil {
				return err
			}
		}
		if err := repo.UpdateRole(ctx, id, newRole); err != nil {
			return err
		}
		u.Role = newRole
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to update user role", id)
	}

	if oldRole != newRole {
		s.logger.Info("user role changed", "user_id", id, "from", oldRole, "to", newRole,
			"grants_removed", grantsRemoved, "actor_id", caller.UserID)
		s.publish(ctx, events.NewUserEvent(events.UserRoleChanged, id, caller.UserID, map[string]interface{}{
			"from":           string(oldRole),
			"to":             string(newRole),
			"grants_removed": grantsRemoved,
		}))
	}
	return updated, nil
}

// ResetPassword stores a fresh random password and returns it once.
func (s *Service) ResetPassword(ctx context.Context, caller access.Caller, id int64) (*ResetPasswordResponse, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}

	password, err := s.tempPassword()
	if err != nil {
		return nil, internal.NewInternalError("Failed to generate password", err)
	}
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, internal.NewInternalError("Failed to reset password", err)
	}

	err = s.repo.WithTx(ctx, func(repo Repository) error {
		if _, err := s.load(ctx, repo, id); err != nil {
			return err
		}
		return repo.UpdatePassword(ctx, id, hash)
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to reset password", id)
	}

	s.logger.Info("user password reset", "user_id", id, "actor_id", caller.UserID)
	s.publish(ctx, events.NewUserEvent(events.UserPasswordReset, id, caller.UserID, nil))
	return &ResetPasswordResponse{UserID: id, TemporaryPassword: password}, nil
}

// DeleteUser removes an account. It is refused for the caller's own account, for
// the last active admin and for users still referenced by contracts. Grants held
// by the user are removed and their comments lose the author link.
func (s *Service) DeleteUser(ctx context.Context, caller access.Caller, id int64) error {
	if !caller.IsAdmin() {
		return internal.ErrAdminRequired
	}
	if caller.UserID == id {
		return internal.ErrSelfDelete
	}

	var deleted *User
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		u, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if u.IsActiveAdmin() {
			if err := guardLastAdmin(ctx, repo); err != nil {
				return err
			}
		}

		refs, err := repo.CountContractReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return internal.ErrUserReferenced.WithDetails(map[string]int64{"contracts": refs})
		}

		deleted = u
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return s.wrap(err, "Failed to delete user", id)
	}

	s.logger.Info("user deleted", "user_id", id, "role", deleted.Role, "actor_id", caller.UserID)
	s.publish(ctx, events.NewUserEvent(events.UserDeleted, id, caller.UserID, map[string]interface{}{"role": string(deleted.Role)}))
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller access.Caller, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *User
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		u, err := s.load(ctx, repo, caller.UserID)
		if err != nil {
			return err
		}
		dto.Apply(u)
		if err := repo.UpdateProfile(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to update profile", caller.UserID)
	}
	return updated, nil
}

func (s *Service) load(ctx context.Context, repo Repository, id int64) (*User, error) {
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "Failed to load user", id)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// guardLastAdmin runs before an active admin stops being one.
func guardLastAdmin(ctx context.Context, repo Repository) error {
	admins, err := repo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return internal.ErrLastAdmin
	}
	return nil
}

// guardRoleReferences keeps client_id pointing at a client and
// assigned_employee_id at an employee.
func guardRoleReferences(ctx context.Context, repo Repository, id int64, newRole access.Role) error {
	refs, err := repo.ContractRoleReferences(ctx, id)
	if err != nil {
		return err
	}
	details := make(map[string]int64)
	if refs.AsClient > 0 && newRole != access.RoleClient {
		details["client_contracts"] = refs.AsClient
	}
	if refs.AsAssignee > 0 && newRole != access.RoleEmployee {
		details["assigned_contracts"] = refs.AsAssignee
	}
	if len(details) > 0 {
		return internal.ErrRoleReferenced.WithDetails(details)
	}
	return nil
}

func (s *Service) wrap(err error, message string, userID int64) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, "error", err, "user_id", userID)
	return internal.NewInternalError(message, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
