package permission

import (
	"time"

	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
)

type EmployeePermission struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;not null;uniqueIndex:idx_employee_contract"`
	ContractID int64     `gorm:"column:contract_id;not null;uniqueIndex:idx_employee_contract;index"`
	CanRead    bool      `gorm:"column:can_read;not null"`
	CanWrite   bool      `gorm:"column:can_write;not null"`
	CanEdit    bool      `gorm:"column:can_edit;not null"`
	CanDelete  bool      `gorm:"column:can_delete;not null"`
	IsReviewer bool      `gorm:"column:is_reviewer;not null"`
	IsPreparer bool      `gorm:"column:is_preparer;not null"`
	GrantedBy  *int64    `gorm:"column:granted_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Employee *userDatamodel.User         `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Contract *contractDatamodel.Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
	Granter  *userDatamodel.User         `gorm:"foreignKey:GrantedBy;constraint:OnDelete:SET NULL"`
}

func (EmployeePermission) TableName() string {
	return "employee_permissions"
}
