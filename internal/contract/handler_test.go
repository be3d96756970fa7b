package contract_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/contract"
	contractPostgres "github.com/frahmantamala/contract-portal/internal/contract/postgres"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/datamodel/sqlitetest"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Contract Handler Integration", func() {
	var (
		db      *gorm.DB
		router  chi.Router
		fx      *fixture
		caller  access.Caller
		clientA int64
		clientK int64
		adminID int64
		owned   int64
		foreign int64
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(access.WithCaller(req.Context(), caller))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorEnvelope {
		var env errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return env
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := contract.NewService(contractPostgres.NewContractRepository(db), nil, slogger)
		handler := contract.NewHandler(transport.NewBaseHandler(slogger), svc)

		router = chi.NewRouter()
		router.Get("/contracts", handler.ListContracts)
		router.Post("/contracts", handler.CreateContract)
		router.Get("/contracts/summary", handler.GetSummary)
		router.Get("/contracts/recent", handler.GetRecent)
		router.Get("/contracts/recent/{limit}", handler.GetRecent)
		router.Get("/contracts/{id}", handler.GetContract)
		router.Patch("/contracts/{id}", handler.UpdateContract)

		fx = &fixture{db: db, base: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
		clientA = fx.user("a@client.test", "client")
		clientK = fx.user("k@client.test", "client")
		adminID = fx.user("root@staff.test", "admin")
		owned = fx.contract("Owned", clientA, withValue("10"))
		foreign = fx.contract("Foreign", clientK)

		caller = access.Caller{UserID: clientA, Role: access.RoleClient}
	})

	AfterEach(func() {
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	It("should list only the caller's contracts", func() {
		w := do(http.MethodGet, "/contracts", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var resp contract.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Contracts[0].ID).To(Equal(owned))
	})

	It("should answer 404 for a contract outside the caller's scope", func() {
		w := do(http.MethodGet, "/contracts/"+itoa(foreign), nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeContractNotFound)))
	})

	It("should reject malformed filters with field details", func() {
		w := do(http.MethodGet, "/contracts?created_from=yesterday", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
	})

	It("should serve the summary", func() {
		w := do(http.MethodGet, "/contracts/summary", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var summary map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&summary)).To(Succeed())
		Expect(summary["total"]).To(BeEquivalentTo(1))
		Expect(summary["total_value"]).To(Equal("10"))
	})

	It("should serve recent contracts by path or query limit", func() {
		fx.contract("Newer", clientA)

		w := do(http.MethodGet, "/contracts/recent/1", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp contract.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Contracts[0].Name).To(Equal("Newer"))

		w = do(http.MethodGet, "/contracts/recent", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(2))

		w = do(http.MethodGet, "/contracts/recent/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should forbid contract creation for non-admins", func() {
		w := do(http.MethodPost, "/contracts", map[string]interface{}{
			"name": "Sneaky", "client_id": clientA, "contract_date": "2024-05-01",
		})
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeAdminRequired)))
	})

	It("should let an admin create and patch a contract", func() {
		caller = access.Caller{UserID: adminID, Role: access.RoleAdmin}

		w := do(http.MethodPost, "/contracts", map[string]interface{}{
			"name": "Catering", "client_id": clientA, "contract_date": "2024-05-01", "contract_value": "1200.00",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created contract.Contract
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Status).To(Equal(contract.StatusDraft))

		w = do(http.MethodPatch, "/contracts/"+itoa(created.ID), map[string]interface{}{"status": "active"})
		Expect(w.Code).To(Equal(http.StatusOK))
		var patched contract.Contract
		Expect(json.NewDecoder(w.Body).Decode(&patched)).To(Succeed())
		Expect(patched.Status).To(Equal(contract.StatusActive))
		Expect(patched.Name).To(Equal("Catering"))
	})

	It("should reject unknown body fields", func() {
		caller = access.Caller{UserID: adminID, Role: access.RoleAdmin}
		w := do(http.MethodPatch, "/contracts/"+itoa(owned), map[string]interface{}{"colour": "red"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should require an authenticated caller", func() {
		req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
