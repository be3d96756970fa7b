package permission

import (
	"net/url"
	"strconv"

	errors "github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/common/validation"
)

// FlagsPatch carries optional flag values. Nil leaves the flag as it is.
type FlagsPatch struct {
	CanRead    *bool `json:"can_read,omitempty"`
	CanWrite   *bool `json:"can_write,omitempty"`
	CanEdit    *bool `json:"can_edit,omitempty"`
	CanDelete  *bool `json:"can_delete,omitempty"`
	IsReviewer *bool `json:"is_reviewer,omitempty"`
	IsPreparer *bool `json:"is_preparer,omitempty"`
}

func (p FlagsPatch) Empty() bool {
	return p.CanRead == nil && p.CanWrite == nil && p.CanEdit == nil &&
		p.CanDelete == nil && p.IsReviewer == nil && p.IsPreparer == nil
}

// ApplyTo overwrites the provided flags and reports whether anything changed.
func (p FlagsPatch) ApplyTo(f *Flags) bool {
	changed := false
	set := func(dst *bool, src *bool) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&f.CanRead, p.CanRead)
	set(&f.CanWrite, p.CanWrite)
	set(&f.CanEdit, p.CanEdit)
	set(&f.CanDelete, p.CanDelete)
	set(&f.IsReviewer, p.IsReviewer)
	set(&f.IsPreparer, p.IsPreparer)
	return changed
}

// GrantPermissionDTO creates a grant. can_read defaults to true; the other flags
// default to false.
type GrantPermissionDTO struct {
	EmployeeID int64 `json:"employee_id"`
	ContractID int64 `json:"contract_id"`
	FlagsPatch
}

func (d GrantPermissionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("contract_id", d.ContractID).Required().MinInt(1, errors.ErrCodeInvalidReference)
	return v.Validate()
}

func (d GrantPermissionDTO) Flags() Flags {
	f := Flags{CanRead: true}
	d.FlagsPatch.ApplyTo(&f)
	return f
}

type UpdatePermissionDTO struct {
	FlagsPatch
}

func (d UpdatePermissionDTO) Validate() *errors.AppError {
	if d.Empty() {
		return errors.NewValidationError("At least one flag must be provided", errors.ErrCodeValidationFailed)
	}
	return nil
}

type ListFilters struct {
	ContractID *int64
	EmployeeID *int64
}

func ParseListFilters(q url.Values) (ListFilters, *errors.AppError) {
	var f ListFilters
	for _, p := range []struct {
		name string
		dst  **int64
	}{
		{"contract_id", &f.ContractID},
		{"employee_id", &f.EmployeeID},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilters{}, errors.NewValidationFieldError(p.name, p.name+" must be a positive integer", errors.ErrCodeInvalidFormat)
		}
		*p.dst = &id
	}
	return f, nil
}

type ListResponse struct {
	Permissions []*Permission `json:"permissions"`
	Count       int           `json:"count"`
}
