package contract

import (
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	SortName     = "name"
	SortClient   = "client"
	SortStatus   = "status"
	SortDuration = "duration"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultRecentLimit = 5
	MaxRecentLimit     = 100
)

var (
	SortKeys = []string{SortName, SortClient, SortStatus, SortDuration}
	Orders   = []string{OrderAsc, OrderDesc}
)

// ListFilters are ANDed on top of the caller's visibility scope.
type ListFilters struct {
	Search      string
	Status      Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Sort        string
	Order       string
}

// Descending reports the effective direction; a sort key without an order is ascending.
func (f ListFilters) Descending() bool {
	return f.Order == OrderDesc
}

// ParseListFilters reads search, status, created_from, created_to, sort and order
// from a query string.
func ParseListFilters(q url.Values) (ListFilters, *errors.AppError) {
	f := ListFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Status: Status(strings.TrimSpace(q.Get("status"))),
		Sort:   strings.ToLower(strings.TrimSpace(q.Get("sort"))),
		Order:  strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}

	if raw := q.Get("created_from"); raw != "" {
		t, err := validation.ParseTimestamp("created_from", raw, false)
		if err != nil {
			return ListFilters{}, err
		}
		f.CreatedFrom = &t
	}
	if raw := q.Get("created_to"); raw != "" {
		t, err := validation.ParseTimestamp("created_to", raw, true)
		if err != nil {
			return ListFilters{}, err
		}
		f.CreatedTo = &t
	}

	return f, f.Validate()
}

func (f ListFilters) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("search", f.Search).MaxLength(200)
	v.Field("status", string(f.Status)).OneOf(Statuses, errors.ErrCodeInvalidStatus)
	v.Field("sort", f.Sort).OneOf(SortKeys, errors.ErrCodeValidationFailed)
	v.Field("order", f.Order).OneOf(Orders, errors.ErrCodeValidationFailed)
	v.Field("created_to", f.CreatedTo).NotBefore(f.CreatedFrom, "created_from")
	return v.Validate()
}

// CreateContractDTO is the request body for POST /contracts. Dates are YYYY-MM-DD.
type CreateContractDTO struct {
	Name               string           `json:"name"`
	Description        *string          `json:"description,omitempty"`
	ClientID           int64            `json:"client_id"`
	AssignedEmployeeID *int64           `json:"assigned_employee_id,omitempty"`
	Status             string           `json:"status,omitempty"`
	ContractDate       string           `json:"contract_date"`
	StartDate          *string          `json:"start_date,omitempty"`
	EndDate            *string          `json:"end_date,omitempty"`
	ContractValue      *decimal.Decimal `json:"contract_value,omitempty"`
	DocumentURL        *string          `json:"document_url,omitempty"`
	DocumentContent    *string          `json:"document_content,omitempty"`
}

// ToContract validates the payload and builds an unsaved contract.
func (d CreateContractDTO) ToContract() (*Contract, *errors.AppError) {
	name := strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(255)
	v.Field("client_id", d.ClientID).Required().MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("assigned_employee_id", d.AssignedEmployeeID).MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("status", d.Status).OneOf(Statuses, errors.ErrCodeInvalidStatus)
	v.Field("contract_date", d.ContractDate).Required()
	v.Field("contract_value", d.ContractValue).NonNegative()
	v.Field("document_url", d.DocumentURL).MaxLength(2048)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	contractDate, err := validation.ParseDate("contract_date", d.ContractDate)
	if err != nil {
		return nil, err
	}
	start, err := validation.ParseOptionalDate("start_date", d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseOptionalDate("end_date", d.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	status := StatusDraft
	if d.Status != "" {
		status = Status(d.Status)
	}

	return &Contract{
		Name:               name,
		Description:        d.Description,
		ClientID:           d.ClientID,
		AssignedEmployeeID: d.AssignedEmployeeID,
		Status:             status,
		ContractDate:       contractDate,
		StartDate:          start,
		EndDate:            end,
		ContractValue:      d.ContractValue,
		DocumentURL:        d.DocumentURL,
		DocumentContent:    d.DocumentContent,
	}, nil
}

// UpdateContractDTO is a partial update: nil fields are left alone. An
// assigned_employee_id of 0 unassigns; an empty start_date or end_date clears it.
type UpdateContractDTO struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	ClientID           *int64           `json:"client_id,omitempty"`
	AssignedEmployeeID *int64           `json:"assigned_employee_id,omitempty"`
	Status             *string          `json:"status,omitempty"`
	ContractDate       *string          `json:"contract_date,omitempty"`
	StartDate          *string          `json:"start_date,omitempty"`
	EndDate            *string          `json:"end_date,omitempty"`
	ContractValue      *decimal.Decimal `json:"contract_value,omitempty"`
	DocumentURL        *string          `json:"document_url,omitempty"`
	DocumentContent    *string          `json:"document_content,omitempty"`
}

func (d UpdateContractDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", strings.TrimSpace(*d.Name)).Required().MaxLength(255)
	}
	v.Field("client_id", d.ClientID).MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("assigned_employee_id", d.AssignedEmployeeID).MinInt(0, errors.ErrCodeInvalidReference)
	if d.Status != nil {
		v.Field("status", *d.Status).Required().OneOf(Statuses, errors.ErrCodeInvalidStatus)
	}
	if d.ContractDate != nil {
		v.Field("contract_date", *d.ContractDate).Required()
	}
	v.Field("contract_value", d.ContractValue).NonNegative()
	v.Field("document_url", d.DocumentURL).MaxLength(2048)
	return v.Validate()
}

// Apply writes the provided fields onto c and returns the names of the fields it touched.
func (d UpdateContractDTO) Apply(c *Contract) ([]string, *errors.AppError) {
	var changed []string

	if d.Name != nil {
		c.Name = strings.TrimSpace(*d.Name)
		changed = append(changed, "name")
	}
	if d.Description != nil {
		c.Description = d.Description
		changed = append(changed, "description")
	}
	if d.ClientID != nil {
		c.ClientID = *d.ClientID
		changed = append(changed, "client_id")
	}
	if d.AssignedEmployeeID != nil {
		if *d.AssignedEmployeeID == 0 {
			c.AssignedEmployeeID = nil
		} else {
			id := *d.AssignedEmployeeID
			c.AssignedEmployeeID = &id
		}
		changed = append(changed, "assigned_employee_id")
	}
	if d.Status != nil {
		c.Status = Status(*d.Status)
		changed = append(changed, "status")
	}
	if d.ContractDate != nil {
		t, err := validation.ParseDate("contract_date", *d.ContractDate)
		if err != nil {
			return nil, err
		}
		c.ContractDate = t
		changed = append(changed, "contract_date")
	}
	if d.StartDate != nil {
		t, err := validation.ParseOptionalDate("start_date", d.StartDate)
		if err != nil {
			return nil, err
		}
		c.StartDate = t
		changed = append(changed, "start_date")
	}
	if d.EndDate != nil {
		t, err := validation.ParseOptionalDate("end_date", d.EndDate)
		if err != nil {
			return nil, err
		}
		c.EndDate = t
		changed = append(changed, "end_date")
	}
	if d.ContractValue != nil {
		v := *d.ContractValue
		c.ContractValue = &v
		changed = append(changed, "contract_value")
	}
	if d.DocumentURL != nil {
		c.DocumentURL = d.DocumentURL
		changed = append(changed, "document_url")
	}
	if d.DocumentContent != nil {
		c.DocumentContent = d.DocumentContent
		changed = append(changed, "document_content")
	}

	if err := validateWindow(c.StartDate, c.EndDate); err != nil {
		return nil, err
	}
	return changed, nil
}

func validateWindow(start, end *time.Time) *errors.AppError {
	v := validation.NewValidator()
	v.Field("end_date", end).NotBefore(start, "start_date")
	return v.Validate()
}

type ListResponse struct {
	Contracts []*Contract `json:"contracts"`
	Count     int         `json:"count"`
}
