package user

import (
	"time"

	"github.com/frahmantamala/contract-portal/internal/core/access"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
)

// User is the directory view of an account. The password hash never leaves the
// repository.
type User struct {
	ID            int64       `json:"id"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          access.Role `json:"role"`
	Phone         *string     `json:"phone,omitempty"`
	CompanyName   *string     `json:"company_name,omitempty"`
	Address       *string     `json:"address,omitempty"`
	PANNumber     *string     `json:"pan_number,omitempty"`
	AadhaarNumber *string     `json:"aadhaar_number,omitempty"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ContractReferences counts the contracts naming a user as client or as assigned employee.
type ContractReferences struct {
	AsClient   int64
	AsAssignee int64
}

func (u *User) IsActiveAdmin() bool {
	return u.IsActive && u.Role == access.RoleAdmin
}

func ToDataModel(u *User, passwordHash string) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  passwordHash,
		Role:          string(u.Role),
		Phone:         u.Phone,
		CompanyName:   u.CompanyName,
		Address:       u.Address,
		PANNumber:     u.PANNumber,
		AadhaarNumber: u.AadhaarNumber,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          access.Role(u.Role),
		Phone:         u.Phone,
		CompanyName:   u.CompanyName,
		Address:       u.Address,
		PANNumber:     u.PANNumber,
		AadhaarNumber: u.AadhaarNumber,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModels(rows []*userDatamodel.User) []*User {
	out := make([]*User, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
