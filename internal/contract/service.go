package contract

import (
	"context"
	"log/slog"
	"slices"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	"github.com/frahmantamala/contract-portal/internal/core/events"
)

// Repository is the storage side of the contract service. Every read that takes a
// caller applies access.VisibleContracts.
type Repository interface {
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	List(ctx context.Context, caller access.Caller, filters ListFilters) ([]*Contract, error)
	GetVisible(ctx context.Context, id int64, caller access.Caller) (*Contract, error)
	GetByID(ctx context.Context, id int64) (*Contract, error)
	ScopedStatusValues(ctx context.Context, caller access.Caller) ([]contractDatamodel.StatusValue, error)
	Recent(ctx context.Context, caller access.Caller, limit int) ([]*Contract, error)
	Create(ctx context.Context, c *Contract) error
	Update(ctx context.Context, c *Contract) error
	UserRole(ctx context.Context, userID int64) (access.Role, bool, error)
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

func (s *Service) ListContracts(ctx context.Context, caller access.Caller, filters ListFilters) ([]*Contract, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	contracts, err := s.repo.List(ctx, caller, filters)
	if err != nil {
		s.logger.Error("failed to list contracts", "error", err, "user_id", caller.UserID, "role", caller.Role)
		return nil, internal.NewInternalError("Failed to list contracts", err)
	}

	if filters.Sort == SortDuration {
		SortByDuration(contracts, filters.Descending())
	}
	return contracts, nil
}

// GetContract returns NotFound both for missing ids and for contracts outside the
// caller's scope.
func (s *Service) GetContract(ctx context.Context, id int64, caller access.Caller) (*Contract, error) {
	c, err := s.repo.GetVisible(ctx, id, caller)
	if err != nil {
		s.logger.Error("failed to get contract", "error", err, "contract_id", id)
		return nil, internal.NewInternalError("Failed to get contract", err)
	}
	if c == nil {
		return nil, internal.ErrContractNotFound
	}
	return c, nil
}

func (s *Service) GetSummary(ctx context.Context, caller access.Caller) (*Summary, error) {
	rows, err := s.repo.ScopedStatusValues(ctx, caller)
	if err != nil {
		s.logger.Error("failed to load contract summary", "error", err, "user_id", caller.UserID)
		return nil, internal.NewInternalError("Failed to load contract summary", err)
	}
	summary := Summarize(rows)
	return &summary, nil
}

func (s *Service) GetRecent(ctx context.Context, caller access.Caller, limit int) ([]*Contract, error) {
	if limit <= 0 {
		return []*Contract{}, nil
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	contracts, err := s.repo.Recent(ctx, caller, limit)
	if err != nil {
		s.logger.Error("failed to load recent contracts", "error", err, "user_id", caller.UserID)
		return nil, internal.NewInternalError("Failed to load recent contracts", err)
	}
	return contracts, nil
}

func (s *Service) CreateContract(ctx context.Context, caller access.Caller, dto CreateContractDTO) (*Contract, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("create contract denied", "user_id", caller.UserID, "role", caller.Role)
		return nil, internal.ErrAdminRequired
	}

	c, appErr := dto.ToContract()
	if appErr != nil {
		return nil, appErr
	}
	createdBy := caller.UserID
	c.CreatedBy = &createdBy

	err := s.repo.WithTx(ctx, func(repo Repository) error {
		if err := checkReferences(ctx, repo, c, true, c.AssignedEmployeeID != nil); err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to create contract", "client_id", c.ClientID)
	}

	s.logger.Info("contract created", "contract_id", c.ID, "client_id", c.ClientID, "actor_id", caller.UserID)
	s.publish(ctx, events.NewContractCreated(c.ID, caller.UserID, c.ClientID, string(c.Status)))
	return c, nil
}

// UpdateContract applies a partial update inside one transaction. Concurrent
// updates are last-write-wins.
func (s *Service) UpdateContract(ctx context.Context, caller access.Caller, id int64, dto UpdateContractDTO) (*Contract, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("update contract denied", "user_id", caller.UserID, "role", caller.Role, "contract_id", id)
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var (
		updated *Contract
		changed []string
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return internal.ErrContractNotFound
		}

		fields, appErr := dto.Apply(c)
		if appErr != nil {
			return appErr
		}
		if len(fields) == 0 {
			updated = c
			return nil
		}
		clientChanged := slices.Contains(fields, "client_id")
		assigneeChanged := slices.Contains(fields, "assigned_employee_id") && c.AssignedEmployeeID != nil
		if err := checkReferences(ctx, repo, c, clientChanged, assigneeChanged); err != nil {
			return err
		}
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		updated, changed = c, fields
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to update contract", "contract_id", id)
	}

	if len(changed) > 0 {
		s.logger.Info("contract updated", "contract_id", id, "fields", changed, "actor_id", caller.UserID)
		s.publish(ctx, events.NewContractUpdated(id, caller.UserID, changed))
	}
	return updated, nil
}

// checkReferences enforces that client_id points at a client and
// assigned_employee_id at an employee. Only the references being written are
// checked, so a partial update never fails on a field it does not touch.
func checkReferences(ctx context.Context, repo Repository, c *Contract, client, assignee bool) error {
	if client {
		role, ok, err := repo.UserRole(ctx, c.ClientID)
		if err != nil {
			return err
		}
		if !ok || role != access.RoleClient {
			return internal.NewValidationFieldError("client_id", "client_id must reference an existing client", internal.ErrCodeInvalidReference)
		}
	}

	if !assignee {
		return nil
	}
	role, ok, err := repo.UserRole(ctx, *c.AssignedEmployeeID)
	if err != nil {
		return err
	}
	if !ok || role != access.RoleEmployee {
		return internal.NewValidationFieldError("assigned_employee_id", "assigned_employee_id must reference an existing employee", internal.ErrCodeInvalidReference)
	}
	return nil
}

func (s *Service) wrap(err error, message string, args ...any) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, append(args, "error", err)...)
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
