package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/common/sqlutil"
	commentDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/comment"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/contract-portal/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(ctx context.Context, fn func(repo user.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepository{db: tx})
	})
}

func (r *UserRepository) List(ctx context.Context, f user.ListFilters) ([]*user.User, error) {
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{})
	if f.Search != "" {
		like := sqlutil.ContainsPattern(f.Search)
		q = q.Where("(LOWER(name) LIKE ? "+sqlutil.LikeEscape+" OR LOWER(email) LIKE ? "+sqlutil.LikeEscape+")", like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}

	var rows []*userDatamodel.User
	if err := q.Order("LOWER(name) ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return user.FromDataModels(rows), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User, passwordHash string) error {
	row := user.ToDataModel(u, passwordHash)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*u = *user.FromDataModel(row)
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role access.Role) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{ID: id}).Update("role", string(role)).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{ID: id}).Update("password_hash", passwordHash).Error
}

// UpdateProfile writes the self-service columns, including NULLs for cleared fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u, "")
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{ID: u.ID}).
		Select("name", "phone", "company_name", "address", "pan_number", "aadhaar_number", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("role = ? AND is_active = ?", string(access.RoleAdmin), true).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) CountContractReferences(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}).
		Where("client_id = ? OR assigned_employee_id = ?", id, id).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) ContractRoleReferences(ctx context.Context, id int64) (user.ContractReferences, error) {
	var refs user.ContractReferences
	err := r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}).
		Where("client_id = ?", id).
		Count(&refs.AsClient).Error
	if err != nil {
		return refs, err
	}
	err = r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}).
		Where("assigned_employee_id = ?", id).
		Count(&refs.AsAssignee).Error
	return refs, err
}

func (r *UserRepository) DeleteGrants(ctx context.Context, employeeID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).Delete(&permissionDatamodel.EmployeePermission{})
	return res.RowsAffected, res.Error
}

// Delete removes the user's grants, detaches authorship and audit columns that
// point at the user, then deletes the row. Call it inside WithTx.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	steps := []func() error{
		func() error {
			return db.Where("employee_id = ?", id).Delete(&permissionDatamodel.EmployeePermission{}).Error
		},
		func() error {
			return db.Model(&permissionDatamodel.EmployeePermission{}).Where("granted_by = ?", id).Update("granted_by", nil).Error
		},
		func() error {
			return db.Model(&commentDatamodel.Comment{}).Where("author_id = ?", id).Update("author_id", nil).Error
		},
		func() error {
			return db.Model(&commentDatamodel.Comment{}).Where("resolved_by = ?", id).Update("resolved_by", nil).Error
		},
		func() error {
			return db.Model(&contractDatamodel.Contract{}).Where("created_by = ?", id).Update("created_by", nil).Error
		},
		func() error {
			return db.Delete(&userDatamodel.User{}, id).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
