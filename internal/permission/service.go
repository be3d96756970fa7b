package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/common/dberrors"
	"github.com/frahmantamala/contract-portal/internal/core/events"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	List(ctx context.Context, filters ListFilters) ([]*Permission, error)
	GetByID(ctx context.Context, id int64) (*Permission, error)
	FindByPair(ctx context.Context, employeeID, contractID int64) (*Permission, error)
	Create(ctx context.Context, p *Permission) error
	Update(ctx context.Context, p *Permission) error
	Delete(ctx context.Context, id int64) error
	UserRole(ctx context.Context, userID int64) (access.Role, bool, error)
	ContractExists(ctx context.Context, contractID int64) (bool, error)
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListPermissions(ctx context.Context, caller access.Caller, filters ListFilters) ([]*Permission, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	perms, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, internal.NewInternalError("Failed to list permissions", err)
	}
	return perms, nil
}

// GrantPermission links an employee to a contract. A second grant for the same
// pair is a Conflict.
func (s *Service) GrantPermission(ctx context.Context, caller access.Caller, dto GrantPermissionDTO) (*Permission, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("grant permission denied", "user_id", caller.UserID, "role", caller.Role)
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	grantedBy := caller.UserID
	p := &Permission{
		EmployeeID: dto.EmployeeID,
		ContractID: dto.ContractID,
		Flags:      dto.Flags(),
		GrantedBy:  &grantedBy,
	}

	err := s.repo.WithTx(ctx, func(repo Repository) error {
		role, ok, err := repo.UserRole(ctx, dto.EmployeeID)
		if err != nil {
			return err
		}
		if !ok || role != access.RoleEmployee {
			return internal.NewValidationFieldError("employee_id", "employee_id must reference an existing employee", internal.ErrCodeInvalidReference)
		}

		exists, err := repo.ContractExists(ctx, dto.ContractID)
		if err != nil {
			return err
		}
		if !exists {
			return internal.NewValidationFieldError("contract_id", "contract_id must reference an existing contract", internal.ErrCodeInvalidReference)
		}

		existing, err := repo.FindByPair(ctx, dto.EmployeeID, dto.ContractID)
		if err != nil {
			return err
		}
		if existing != nil {
			return internal.ErrDuplicatePermission
		}
		return repo.Create(ctx, p)
	})
	if err != nil {
		// the unique index still catches a concurrent grant for the same pair
		if dberrors.IsUniqueViolation(err) {
			return nil, internal.ErrDuplicatePermission.WithCause(err)
		}
		return nil, s.wrap(err, "Failed to grant permission")
	}

	s.logger.Info("permission granted", "permission_id", p.ID, "employee_id", p.EmployeeID, "contract_id", p.ContractID, "actor_id", caller.UserID)
	s.publish(ctx, events.NewPermissionEvent(events.PermissionGranted, p.ID, p.EmployeeID, p.ContractID, caller.UserID))
	return p, nil
}

func (s *Service) UpdatePermission(ctx context.Context, caller access.Caller, id int64, dto UpdatePermissionDTO) (*Permission, error) {
	if !caller.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var (
		updated *Permission
		changed bool
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return internal.ErrPermissionNotFound
		}
		updated = p
		if changed = dto.ApplyTo(&p.Flags); !changed {
			return nil
		}
		return repo.Update(ctx, p)
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to update permission")
	}

	if changed {
		s.logger.Info("permission updated", "permission_id", id, "actor_id", caller.UserID)
		s.publish(ctx, events.NewPermissionEvent(events.PermissionUpdated, updated.ID, updated.EmployeeID, updated.ContractID, caller.UserID))
	}
	return updated, nil
}

// RevokePermission deletes the grant. Removing an employee's last grant for a
// contract hides it from their next listing.
func (s *Service) RevokePermission(ctx context.Context, caller access.Caller, id int64) error {
	if !caller.IsAdmin() {
		return internal.ErrAdminRequired
	}

	var revoked *Permission
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return internal.ErrPermissionNotFound
		}
		revoked = p
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return s.wrap(err, "Failed to revoke permission")
	}

	s.logger.Info("permission revoked", "permission_id", id, "employee_id", revoked.EmployeeID, "contract_id", revoked.ContractID, "actor_id", caller.UserID)
	s.publish(ctx, events.NewPermissionEvent(events.PermissionRevoked, id, revoked.EmployeeID, revoked.ContractID, caller.UserID))
	return nil
}

func (s *Service) wrap(err error, message string) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, "error", err)
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
