package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/contract-portal/internal/core/access"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/contract-portal/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) WithTx(ctx context.Context, fn func(repo permission.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PermissionRepository{db: tx})
	})
}

func (r *PermissionRepository) List(ctx context.Context, f permission.ListFilters) ([]*permission.Permission, error) {
	q := r.db.WithContext(ctx).Model(&permissionDatamodel.EmployeePermission{})
	if f.ContractID != nil {
		q = q.Where("contract_id = ?", *f.ContractID)
	}
	if f.EmployeeID != nil {
		q = q.Where("employee_id = ?", *f.EmployeeID)
	}

	var rows []*permissionDatamodel.EmployeePermission
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return permission.FromDataModels(rows), nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (*permission.Permission, error) {
	return r.take(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PermissionRepository) FindByPair(ctx context.Context, employeeID, contractID int64) (*permission.Permission, error) {
	return r.take(r.db.WithContext(ctx).Where("employee_id = ? AND contract_id = ?", employeeID, contractID))
}

func (r *PermissionRepository) take(q *gorm.DB) (*permission.Permission, error) {
	var row permissionDatamodel.EmployeePermission
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return permission.FromDataModel(&row), nil
}

func (r *PermissionRepository) Create(ctx context.Context, p *permission.Permission) error {
	row := permission.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*p = *permission.FromDataModel(row)
	return nil
}

// Update writes the flag columns; the employee/contract pair never changes.
func (r *PermissionRepository) Update(ctx context.Context, p *permission.Permission) error {
	return r.db.WithContext(ctx).
		Model(&permissionDatamodel.EmployeePermission{ID: p.ID}).
		Select("can_read", "can_write", "can_edit", "can_delete", "is_reviewer", "is_preparer", "updated_at").
		Updates(permission.ToDataModel(p)).Error
}

func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&permissionDatamodel.EmployeePermission{}, id).Error
}

func (r *PermissionRepository) UserRole(ctx context.Context, userID int64) (access.Role, bool, error) {
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

func (r *PermissionRepository) ContractExists(ctx context.Context, contractID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}).Where("id = ?", contractID).Count(&count).Error
	return count > 0, err
}
