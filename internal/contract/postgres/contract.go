package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/contract-portal/internal/contract"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/common/sqlutil"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// ContractRepository implements contract.Repository using GORM
type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// WithTx runs fn against a repository bound to a single transaction.
func (r *ContractRepository) WithTx(ctx context.Context, fn func(repo contract.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ContractRepository{db: tx})
	})
}

func (r *ContractRepository) scoped(ctx context.Context, caller access.Caller) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&contractDatamodel.Contract{})
	return access.VisibleContracts(q, caller).Select("contracts.*")
}

func (r *ContractRepository) List(ctx context.Context, caller access.Caller, f contract.ListFilters) ([]*contract.Contract, error) {
	q := r.scoped(ctx, caller)

	if f.Search != "" {
		like := sqlutil.ContainsPattern(f.Search)
		q = q.Where("(LOWER(contracts.name) LIKE ? "+sqlutil.LikeEscape+
			" OR LOWER(COALESCE(contracts.description, '')) LIKE ? "+sqlutil.LikeEscape+")", like, like)
	}
	if f.Status != "" {
		q = q.Where("contracts.status = ?", string(f.Status))
	}
	if f.CreatedFrom != nil {
		q = q.Where("contracts.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("contracts.created_at <= ?", *f.CreatedTo)
	}

	q = orderBy(q, f)

	var rows []*contractDatamodel.Contract
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return contract.FromDataModels(rows), nil
}

// orderBy applies the sort key. Without one the newest contracts come first;
// with one, ties fall back to insertion order. Duration is sorted by the service.
func orderBy(q *gorm.DB, f contract.ListFilters) *gorm.DB {
	dir := "ASC"
	if f.Descending() {
		dir = "DESC"
	}

	switch f.Sort {
	case contract.SortName:
		q = q.Order("LOWER(contracts.name) " + dir)
	case contract.SortStatus:
		q = q.Order("contracts.status " + dir)
	case contract.SortClient:
		q = q.Joins("LEFT JOIN users cu ON cu.id = contracts.client_id").
			Order("LOWER(cu.name) " + dir)
	case contract.SortDuration:
	default:
		return q.Order("contracts.created_at DESC").Order("contracts.id DESC")
	}
	return q.Order("contracts.created_at ASC").Order("contracts.id ASC")
}

func (r *ContractRepository) GetVisible(ctx context.Context, id int64, caller access.Caller) (*contract.Contract, error) {
	var row contractDatamodel.Contract
	err := r.scoped(ctx, caller).Where("contracts.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return contract.FromDataModel(&row), nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*contract.Contract, error) {
	var row contractDatamodel.Contract
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return contract.FromDataModel(&row), nil
}

// ScopedStatusValues returns status and value for every visible contract, the
// same set List returns without filters.
func (r *ContractRepository) ScopedStatusValues(ctx context.Context, caller access.Caller) ([]contractDatamodel.StatusValue, error) {
	q := access.VisibleContracts(r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}), caller)

	var rows []contractDatamodel.StatusValue
	if err := q.Select("contracts.status, contracts.contract_value").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContractRepository) Recent(ctx context.Context, caller access.Caller, limit int) ([]*contract.Contract, error) {
	var rows []*contractDatamodel.Contract
	err := r.scoped(ctx, caller).
		Order("contracts.created_at DESC").
		Order("contracts.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return contract.FromDataModels(rows), nil
}

func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	row := contract.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*c = *contract.FromDataModel(row)
	return nil
}

func (r *ContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	row := contract.ToDataModel(c)
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	*c = *contract.FromDataModel(row)
	return nil
}

// UserRole reports the stored role of a user; ok is false when the user does not exist.
func (r *ContractRepository) UserRole(ctx context.Context, userID int64) (access.Role, bool, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", userID).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return access.Role(u.Role), true, nil
}
