package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/contract-portal/internal/comment"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	commentDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/comment"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) WithTx(ctx context.Context, fn func(repo comment.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CommentRepository{db: tx})
	})
}

// ContractVisible applies the same scope as contract reads.
func (r *CommentRepository) ContractVisible(ctx context.Context, contractID int64, caller access.Caller) (bool, error) {
	var count int64
	q := access.VisibleContracts(r.db.WithContext(ctx).Model(&contractDatamodel.Contract{}), caller)
	if err := q.Where("contracts.id = ?", contractID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CommentRepository) ListByContract(ctx context.Context, contractID int64) ([]*comment.Comment, error) {
	var rows []*commentDatamodel.Comment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return comment.FromDataModels(rows), nil
}

func (r *CommentRepository) GetInContract(ctx context.Context, contractID, commentID int64) (*comment.Comment, error) {
	var row commentDatamodel.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND contract_id = ?", commentID, contractID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return comment.FromDataModel(&row), nil
}

func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	row := comment.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*c = *comment.FromDataModel(row)
	return nil
}

func (r *CommentRepository) MarkResolved(ctx context.Context, c *comment.Comment) error {
	return r.db.WithContext(ctx).
		Model(&commentDatamodel.Comment{ID: c.ID}).
		Updates(map[string]interface{}{
			"is_resolved": c.IsResolved,
			"resolved_by": c.ResolvedBy,
			"resolved_at": c.ResolvedAt,
		}).Error
}
