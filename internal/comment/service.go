package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/events"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	ContractVisible(ctx context.Context, contractID int64, caller access.Caller) (bool, error)
	ListByContract(ctx context.Context, contractID int64) ([]*Comment, error)
	GetInContract(ctx context.Context, contractID, commentID int64) (*Comment, error)
	Create(ctx context.Context, c *Comment) error
	MarkResolved(ctx context.Context, c *Comment) error
}

// Service gates every comment operation on the caller seeing the parent contract.
// The visibility check and the write share one transaction.
type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListComments(ctx context.Context, caller access.Caller, contractID int64) ([]*Comment, error) {
	var comments []*Comment
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		if err := requireVisible(ctx, repo, contractID, caller); err != nil {
			return err
		}
		var err error
		comments, err = repo.ListByContract(ctx, contractID)
		return err
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to list comments", contractID)
	}
	return comments, nil
}

func (s *Service) AddComment(ctx context.Context, caller access.Caller, contractID int64, dto AddCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	authorID := caller.UserID
	c := &Comment{
		ContractID:      contractID,
		AuthorID:        &authorID,
		ParentCommentID: dto.ParentCommentID,
		LineNumber:      dto.LineNumber,
		Body:            dto.Body,
	}

	err := s.repo.WithTx(ctx, func(repo Repository) error {
		if err := requireVisible(ctx, repo, contractID, caller); err != nil {
			return err
		}
		if c.ParentCommentID != nil {
			parent, err := repo.GetInContract(ctx, contractID, *c.ParentCommentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return internal.NewValidationFieldError("parent_comment_id",
					"parent_comment_id must reference a comment on the same contract", internal.ErrCodeInvalidReference)
			}
			if parent.IsReply() {
				return internal.NewValidationFieldError("parent_comment_id",
					"replies can only be added to top-level comments", internal.ErrCodeInvalidReference)
			}
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to add comment", contractID)
	}

	s.logger.Info("comment added", "contract_id", contractID, "comment_id", c.ID, "author_id", authorID)
	s.publish(ctx, events.NewCommentAdded(contractID, c.ID, authorID))
	return c, nil
}

// ResolveComment is idempotent: resolving a resolved comment returns it unchanged.
// Any caller who can see the contract may resolve any of its comments.
func (s *Service) ResolveComment(ctx context.Context, caller access.Caller, contractID, commentID int64) (*Comment, error) {
	var (
		resolved *Comment
		changed  bool
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		if err := requireVisible(ctx, repo, contractID, caller); err != nil {
			return err
		}
		c, err := repo.GetInContract(ctx, contractID, commentID)
		if err != nil {
			return err
		}
		if c == nil {
			return internal.ErrCommentNotFound
		}
		resolved = c
		if changed = c.Resolve(caller.UserID, s.now()); !changed {
			return nil
		}
		return repo.MarkResolved(ctx, c)
	})
	if err != nil {
		return nil, s.wrap(err, "Failed to resolve comment", contractID)
	}

	if changed {
		s.logger.Info("comment resolved", "contract_id", contractID, "comment_id", commentID, "actor_id", caller.UserID)
		s.publish(ctx, events.NewCommentResolved(contractID, commentID, caller.UserID))
	}
	return resolved, nil
}

func requireVisible(ctx context.Context, repo Repository, contractID int64, caller access.Caller) error {
	ok, err := repo.ContractVisible(ctx, contractID, caller)
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrContractNotFound
	}
	return nil
}

func (s *Service) wrap(err error, message string, contractID int64) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, "error", err, "contract_id", contractID)
	return internal.NewInternalError(message, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
