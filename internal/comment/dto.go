package comment

import (
	"strings"

	errors "github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/common/validation"
)

const MaxBodyLength = 10000

type AddCommentDTO struct {
	Body            string `json:"body"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
	LineNumber      *int   `json:"line_number,omitempty"`
}

func (d *AddCommentDTO) Validate() *errors.AppError {
	d.Body = strings.TrimSpace(d.Body)

	v := validation.NewValidator()
	v.Field("body", d.Body).Required().MaxLength(MaxBodyLength)
	v.Field("parent_comment_id", d.ParentCommentID).MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("line_number", d.LineNumber).MinInt(1, errors.ErrCodeInvalidValue)
	return v.Validate()
}

type ListResponse struct {
	Comments []*Comment `json:"comments"`
	Count    int        `json:"count"`
}
