package comment

import (
	"time"

	commentDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/comment"
)

type Comment struct {
	ID              int64      `json:"id"`
	ContractID      int64      `json:"contract_id"`
	AuthorID        *int64     `json:"author_id"`
	ParentCommentID *int64     `json:"parent_comment_id,omitempty"`
	LineNumber      *int       `json:"line_number,omitempty"`
	Body            string     `json:"body"`
	IsResolved      bool       `json:"is_resolved"`
	ResolvedBy      *int64     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// Resolve marks the comment resolved by actorID. It reports false when the
// comment was already resolved, leaving the original resolver in place.
func (c *Comment) Resolve(actorID int64, now time.Time) bool {
	if c.IsResolved {
		return false
	}
	c.IsResolved = true
	c.ResolvedBy = &actorID
	c.ResolvedAt = &now
	return true
}

func ToDataModel(c *Comment) *commentDatamodel.Comment {
	return &commentDatamodel.Comment{
		ID:              c.ID,
		ContractID:      c.ContractID,
		AuthorID:        c.AuthorID,
		ParentCommentID: c.ParentCommentID,
		LineNumber:      c.LineNumber,
		Body:            c.Body,
		IsResolved:      c.IsResolved,
		ResolvedBy:      c.ResolvedBy,
		ResolvedAt:      c.ResolvedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func FromDataModel(row *commentDatamodel.Comment) *Comment {
	return &Comment{
		ID:              row.ID,
		ContractID:      row.ContractID,
		AuthorID:        row.AuthorID,
		ParentCommentID: row.ParentCommentID,
		LineNumber:      row.LineNumber,
		Body:            row.Body,
		IsResolved:      row.IsResolved,
		ResolvedBy:      row.ResolvedBy,
		ResolvedAt:      row.ResolvedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func FromDataModels(rows []*commentDatamodel.Comment) []*Comment {
	out := make([]*Comment, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
