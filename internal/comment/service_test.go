package comment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/comment"
	commentPostgres "github.com/frahmantamala/contract-portal/internal/comment/postgres"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
	"github.com/frahmantamala/contract-portal/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/contract-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestComment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Comment Suite")
}

var _ = Describe("Comment Service", func() {
	var (
		db  *gorm.DB
		svc *comment.Service
		bus *events.EventBus
		ctx context.Context

		owner, stranger, reviewer access.Caller
		contractID, otherContract int64
		resolvedEvents            []events.Event
	)

	newUser := func(email, role string) access.Caller {
		u := &userDatamodel.User{Email: email, Name: email, PasswordHash: "x", Role: role, IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		return access.Caller{UserID: u.ID, Email: email, Role: access.Role(role)}
	}

	newContract := func(clientID int64) int64 {
		row := &contractDatamodel.Contract{
			Name:         "Supply agreement",
			ClientID:     clientID,
			Status:       "active",
			ContractDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		Expect(db.Create(row).Error).NotTo(HaveOccurred())
		return row.ID
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		bus = events.NewEventBus(slogger)
		resolvedEvents = nil
		bus.Subscribe(events.CommentResolved, func(_ context.Context, e events.Event) error {
			resolvedEvents = append(resolvedEvents, e)
			return nil
		})
		svc = comment.NewService(commentPostgres.NewCommentRepository(db), bus, slogger)

		owner = newUser("owner@client.test", "client")
		stranger = newUser("stranger@client.test", "client")
		reviewer = newUser("reviewer@staff.test", "employee")

		contractID = newContract(owner.UserID)
		otherContract = newContract(stranger.UserID)

		grant := &permissionDatamodel.EmployeePermission{EmployeeID: reviewer.UserID, ContractID: contractID, CanRead: true, IsReviewer: true}
		Expect(db.Create(grant).Error).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		bus.Wait()
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	Describe("AddComment", func() {
		It("should add a comment for a caller who can see the contract", func() {
			line := 12
			c, err := svc.AddComment(ctx, reviewer, contractID, comment.AddCommentDTO{Body: "  Clause 4 is vague ", LineNumber: &line})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.Body).To(Equal("Clause 4 is vague"))
			Expect(*c.AuthorID).To(Equal(reviewer.UserID))
			Expect(*c.LineNumber).To(Equal(12))
			Expect(c.IsResolved).To(BeFalse())
		})

		It("should answer NotFound when the contract is not visible", func() {
			_, err := svc.AddComment(ctx, stranger, contractID, comment.AddCommentDTO{Body: "hello"})
			Expect(err).To(MatchError(internal.ErrContractNotFound))

			var count int64
			Expect(db.Table("contract_comments").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should accept a reply to a comment on the same contract", func() {
			parent, err := svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "question"})
			Expect(err).NotTo(HaveOccurred())

			reply, err := svc.AddComment(ctx, reviewer, contractID, comment.AddCommentDTO{Body: "answer", ParentCommentID: &parent.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(*reply.ParentCommentID).To(Equal(parent.ID))
		})

		It("should reject a parent comment from another contract", func() {
			foreign, err := svc.AddComment(ctx, stranger, otherContract, comment.AddCommentDTO{Body: "elsewhere"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "reply", ParentCommentID: &foreign.ID})
			Expect(err).To(MatchError(ContainSubstring("parent_comment_id must reference a comment on the same contract")))
		})

		It("should reject replies to replies", func() {
			parent, err := svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "top"})
			Expect(err).NotTo(HaveOccurred())
			reply, err := svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "reply", ParentCommentID: &parent.ID})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "nested", ParentCommentID: &reply.ID})
			Expect(err).To(MatchError(ContainSubstring("top-level")))
		})

		It("should require a body", func() {
			_, err := svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "   "})
			Expect(err).To(MatchError(ContainSubstring("body is required")))
		})
	})

	Describe("ResolveComment", func() {
		var target *comment.Comment

		BeforeEach(func() {
			var err error
			target, err = svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "please fix"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be idempotent", func() {
			first, err := svc.ResolveComment(ctx, reviewer, contractID, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.IsResolved).To(BeTrue())
			Expect(*first.ResolvedBy).To(Equal(reviewer.UserID))

			second, err := svc.ResolveComment(ctx, owner, contractID, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.IsResolved).To(BeTrue())
			Expect(*second.ResolvedBy).To(Equal(reviewer.UserID))

			bus.Wait()
			Expect(resolvedEvents).To(HaveLen(1))
		})

		It("should answer NotFound for an invisible contract", func() {
			_, err := svc.ResolveComment(ctx, stranger, contractID, target.ID)
			Expect(err).To(MatchError(internal.ErrContractNotFound))
		})

		It("should answer NotFound for a comment on another contract", func() {
			_, err := svc.ResolveComment(ctx, stranger, otherContract, target.ID)
			Expect(err).To(MatchError(internal.ErrCommentNotFound))
		})
	})

	Describe("ListComments", func() {
		It("should list comments oldest first for visible contracts only", func() {
			a, err := svc.AddComment(ctx, owner, contractID, comment.AddCommentDTO{Body: "a"})
			Expect(err).NotTo(HaveOccurred())
			b, err := svc.AddComment(ctx, reviewer, contractID, comment.AddCommentDTO{Body: "b"})
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.ListComments(ctx, reviewer, contractID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].ID).To(Equal(a.ID))
			Expect(got[1].ID).To(Equal(b.ID))

			_, err = svc.ListComments(ctx, stranger, contractID)
			Expect(err).To(MatchError(internal.ErrContractNotFound))
		})
	})
})
