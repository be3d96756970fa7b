package permission

import (
	"time"

	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
)

// Flags are stored per grant. Visibility comes from the grant existing; the flags
// describe what the employee does on the contract.
type Flags struct {
	CanRead    bool `json:"can_read"`
	CanWrite   bool `json:"can_write"`
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	IsReviewer bool `json:"is_reviewer"`
	IsPreparer bool `json:"is_preparer"`
}

type Permission struct {
	ID         int64 `json:"id"`
	EmployeeID int64 `json:"employee_id"`
	ContractID int64 `json:"contract_id"`
	Flags
	GrantedBy *int64    `json:"granted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(p *Permission) *permissionDatamodel.EmployeePermission {
	return &permissionDatamodel.EmployeePermission{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		ContractID: p.ContractID,
		CanRead:    p.CanRead,
		CanWrite:   p.CanWrite,
		CanEdit:    p.CanEdit,
		CanDelete:  p.CanDelete,
		IsReviewer: p.IsReviewer,
		IsPreparer: p.IsPreparer,
		GrantedBy:  p.GrantedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func FromDataModel(row *permissionDatamodel.EmployeePermission) *Permission {
	return &Permission{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		ContractID: row.ContractID,
		Flags: Flags{
			CanRead:    row.CanRead,
			CanWrite:   row.CanWrite,
			CanEdit:    row.CanEdit,
			CanDelete:  row.CanDelete,
			IsReviewer: row.IsReviewer,
			IsPreparer: row.IsPreparer,
		},
		GrantedBy: row.GrantedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func FromDataModels(rows []*permissionDatamodel.EmployeePermission) []*Permission {
	out := make([]*Permission, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
