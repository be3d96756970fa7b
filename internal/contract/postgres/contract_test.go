package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/contract-portal/internal/contract"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	"github.com/frahmantamala/contract-portal/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestContractRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ContractRepository Suite")
}

var _ = Describe("ContractRepository", func() {
	var (
		db    *gorm.DB
		repo  *ContractRepository
		ctx   context.Context
		admin access.Caller

		zed, amy int64
		base     time.Time
	)

	newUser := func(name, role string) int64 {
		u := &userDatamodel.User{Email: name + "@test.local", Name: name, PasswordHash: "x", Role: role, IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		return u.ID
	}

	newContract := func(name string, description *string, clientID int64, status string, createdAt time.Time) int64 {
		row := &contractDatamodel.Contract{
			Name:         name,
			Description:  description,
			ClientID:     clientID,
			Status:       status,
			ContractDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:    createdAt,
		}
		Expect(db.Create(row).Error).NotTo(HaveOccurred())
		return row.ID
	}

	list := func(f contract.ListFilters) []int64 {
		got, err := repo.List(ctx, admin, f)
		Expect(err).NotTo(HaveOccurred())
		out := make([]int64, 0, len(got))
		for _, c := range got {
			out = append(out, c.ID)
		}
		return out
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		repo = NewContractRepository(db)
		ctx = context.Background()
		admin = access.Caller{UserID: 1, Role: access.RoleAdmin}
		base = time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)

		zed = newUser("Zed Corp", "client")
		amy = newUser("Amy Ltd", "client")
	})

	AfterEach(func() {
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	Describe("List filters", func() {
		var lease, audit, promo int64

		BeforeEach(func() {
			desc := "Annual AUDIT of the books"
			lease = newContract("Office Lease", nil, zed, "active", base)
			audit = newContract("Finance review", &desc, amy, "draft", base.Add(24*time.Hour))
			promo = newContract("100% promo", nil, amy, "active", base.Add(48*time.Hour))
		})

		It("should match search case-insensitively on name or description", func() {
			Expect(list(contract.ListFilters{Search: "LEASE"})).To(Equal([]int64{lease}))
			Expect(list(contract.ListFilters{Search: "audit"})).To(Equal([]int64{audit}))
		})

		It("should treat LIKE wildcards in search literally", func() {
			Expect(list(contract.ListFilters{Search: "100%"})).To(Equal([]int64{promo}))
			Expect(list(contract.ListFilters{Search: "%"})).To(Equal([]int64{promo}))
		})

		It("should filter by status", func() {
			Expect(list(contract.ListFilters{Status: contract.StatusActive})).To(Equal([]int64{promo, lease}))
		})

		It("should treat the created range as inclusive whole days", func() {
			from := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
			Expect(list(contract.ListFilters{CreatedFrom: &from, CreatedTo: &to})).To(Equal([]int64{audit}))
		})

		It("should AND filters together", func() {
			Expect(list(contract.ListFilters{Search: "promo", Status: contract.StatusDraft})).To(BeEmpty())
		})
	})

	Describe("List ordering", func() {
		It("should break sort ties by insertion order", func() {
			first := newContract("Same", nil, zed, "active", base)
			second := newContract("same", nil, zed, "active", base.Add(time.Hour))
			third := newContract("Alpha", nil, zed, "active", base.Add(2*time.Hour))

			Expect(list(contract.ListFilters{Sort: contract.SortName})).To(Equal([]int64{third, first, second}))
			Expect(list(contract.ListFilters{Sort: contract.SortName, Order: contract.OrderDesc})).To(Equal([]int64{first, second, third}))
		})

		It("should sort by client name", func() {
			forZed := newContract("x", nil, zed, "active", base)
			forAmy := newContract("y", nil, amy, "active", base.Add(time.Hour))

			Expect(list(contract.ListFilters{Sort: contract.SortClient})).To(Equal([]int64{forAmy, forZed}))
		})

		It("should sort by status", func() {
			active := newContract("a", nil, zed, "active", base)
			cancelled := newContract("c", nil, zed, "cancelled", base.Add(time.Hour))

			Expect(list(contract.ListFilters{Sort: contract.SortStatus, Order: contract.OrderDesc})).To(Equal([]int64{cancelled, active}))
		})
	})

	Describe("Create and Update", func() {
		It("should round-trip a contract and keep created_at on update", func() {
			c := &contract.Contract{
				Name:         "Cleaning",
				ClientID:     zed,
				Status:       contract.StatusDraft,
				ContractDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			}
			Expect(repo.Create(ctx, c)).To(Succeed())
			Expect(c.ID).To(BeNumerically(">", 0))
			createdAt := c.CreatedAt

			c.Status = contract.StatusActive
			Expect(repo.Update(ctx, c)).To(Succeed())

			got, err := repo.GetByID(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(contract.StatusActive))
			Expect(got.CreatedAt.Equal(createdAt)).To(BeTrue())
		})

		It("should return nil for a missing contract", func() {
			got, err := repo.GetByID(ctx, 404)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("UserRole", func() {
		It("should report the stored role and absence", func() {
			role, ok, err := repo.UserRole(ctx, zed)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(role).To(Equal(access.RoleClient))

			_, ok, err = repo.UserRole(ctx, 999)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("WithTx", func() {
		It("should roll back when the callback fails", func() {
			err := repo.WithTx(ctx, func(tx contract.Repository) error {
				c := &contract.Contract{Name: "Temp", ClientID: zed, Status: contract.StatusDraft, ContractDate: base}
				Expect(tx.Create(ctx, c)).To(Succeed())
				return gorm.ErrInvalidData
			})
			Expect(err).To(MatchError(gorm.ErrInvalidData))

			var count int64
			Expect(db.Model(&contractDatamodel.Contract{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
