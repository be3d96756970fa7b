package comment

import (
	"time"

	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
)

type Comment struct {
	ID              int64      `gorm:"primaryKey"`
	ContractID      int64      `gorm:"column:contract_id;not null;index"`
	AuthorID        *int64     `gorm:"column:author_id;index"`
	ParentCommentID *int64     `gorm:"column:parent_comment_id"`
	LineNumber      *int       `gorm:"column:line_number"`
	Body            string     `gorm:"column:body;not null"`
	IsResolved      bool       `gorm:"column:is_resolved;not null"`
	ResolvedBy      *int64     `gorm:"column:resolved_by"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Contract *contractDatamodel.Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
	Author   *userDatamodel.User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Parent   *Comment                    `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE"`
	Resolver *userDatamodel.User         `gorm:"foreignKey:ResolvedBy;constraint:OnDelete:SET NULL"`
}

func (Comment) TableName() string {
	return "contract_comments"
}
