package contract

import (
	"sort"
	"time"

	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []string{
	string(StatusDraft),
	string(StatusActive),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if string(s) == v {
			return true
		}
	}
	return false
}

type Contract struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Description        *string          `json:"description,omitempty"`
	ClientID           int64            `json:"client_id"`
	AssignedEmployeeID *int64           `json:"assigned_employee_id,omitempty"`
	Status             Status           `json:"status"`
	ContractDate       time.Time        `json:"contract_date"`
	StartDate          *time.Time       `json:"start_date,omitempty"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	ContractValue      *decimal.Decimal `json:"contract_value,omitempty"`
	DocumentURL        *string          `json:"document_url,omitempty"`
	DocumentContent    *string          `json:"document_content,omitempty"`
	CreatedBy          *int64           `json:"created_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Duration is the span of the contract window; ok is false when either end is missing.
func (c *Contract) Duration() (time.Duration, bool) {
	if c.StartDate == nil || c.EndDate == nil {
		return 0, false
	}
	return c.EndDate.Sub(*c.StartDate), true
}

type Summary struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	InProgress int             `json:"in_progress"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Summarize counts and sums over an already scoped set. Missing values count as zero.
func Summarize(rows []contractDatamodel.StatusValue) Summary {
	s := Summary{TotalValue: decimal.Zero}
	for _, row := range rows {
		s.Total++
		switch Status(row.Status) {
		case StatusActive:
			s.Active++
		case StatusInProgress:
			s.InProgress++
		}
		if row.ContractValue.Valid {
			s.TotalValue = s.TotalValue.Add(row.ContractValue.Decimal)
		}
	}
	return s
}

// SortByDuration orders contracts by window length. Contracts without a window go
// last in either direction; the sort is stable so ties keep the incoming order.
func SortByDuration(contracts []*Contract, desc bool) {
	sort.SliceStable(contracts, func(i, j int) bool {
		di, iok := contracts[i].Duration()
		dj, jok := contracts[j].Duration()
		switch {
		case iok && !jok:
			return true
		case !iok:
			return false
		case desc:
			return di > dj
		default:
			return di < dj
		}
	})
}

func ToDataModel(c *Contract) *contractDatamodel.Contract {
	row := &contractDatamodel.Contract{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		ClientID:           c.ClientID,
		AssignedEmployeeID: c.AssignedEmployeeID,
		Status:             string(c.Status),
		ContractDate:       c.ContractDate,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		DocumentURL:        c.DocumentURL,
		DocumentContent:    c.DocumentContent,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if c.ContractValue != nil {
		row.ContractValue = decimal.NewNullDecimal(*c.ContractValue)
	}
	return row
}

func FromDataModel(row *contractDatamodel.Contract) *Contract {
	c := &Contract{
		ID:                 row.ID,
		Name:               row.Name,
		Description:        row.Description,
		ClientID:           row.ClientID,
		AssignedEmployeeID: row.AssignedEmployeeID,
		Status:             Status(row.Status),
		ContractDate:       row.ContractDate,
		StartDate:          row.StartDate,
		EndDate:            row.EndDate,
		DocumentURL:        row.DocumentURL,
		DocumentContent:    row.DocumentContent,
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.ContractValue.Valid {
		v := row.ContractValue.Decimal
		c.ContractValue = &v
	}
	return c
}

func FromDataModels(rows []*contractDatamodel.Contract) []*Contract {
	out := make([]*Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
