package contract

import (
	"time"

	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

type Contract struct {
	ID                 int64               `gorm:"primaryKey"`
	Name               string              `gorm:"column:name;not null"`
	Description        *string             `gorm:"column:description"`
	ClientID           int64               `gorm:"column:client_id;not null;index"`
	AssignedEmployeeID *int64              `gorm:"column:assigned_employee_id;index"`
	Status             string              `gorm:"column:status;not null;default:draft"`
	ContractDate       time.Time           `gorm:"column:contract_date;type:date;not null"`
	StartDate          *time.Time          `gorm:"column:start_date;type:date"`
	EndDate            *time.Time          `gorm:"column:end_date;type:date"`
	ContractValue      decimal.NullDecimal `gorm:"column:contract_value;type:numeric(14,2)"`
	DocumentURL        *string             `gorm:"column:document_url"`
	DocumentContent    *string             `gorm:"column:document_content"`
	CreatedBy          *int64              `gorm:"column:created_by"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Client           *userDatamodel.User `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	AssignedEmployee *userDatamodel.User `gorm:"foreignKey:AssignedEmployeeID;constraint:OnDelete:RESTRICT"`
	Creator          *userDatamodel.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

func (Contract) TableName() string {
	return "contracts"
}

// StatusValue is the projection used for summary aggregation.
type StatusValue struct {
	Status        string              `gorm:"column:status"`
	ContractValue decimal.NullDecimal `gorm:"column:contract_value"`
}
