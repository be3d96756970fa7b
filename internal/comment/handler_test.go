package comment_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/contract-portal/internal/comment"
	commentPostgres "github.com/frahmantamala/contract-portal/internal/comment/postgres"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	"github.com/frahmantamala/contract-portal/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Comment Handler Integration", func() {
	var (
		db         *gorm.DB
		router     chi.Router
		caller     access.Caller
		contractID int64
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader = http.NoBody
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		req = req.WithContext(access.WithCaller(req.Context(), caller))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := comment.NewHandler(transport.NewBaseHandler(slogger),
			comment.NewService(commentPostgres.NewCommentRepository(db), nil, slogger))

		router = chi.NewRouter()
		router.Get("/contracts/{id}/comments", handler.ListComments)
		router.Post("/contracts/{id}/comments", handler.AddComment)
		router.Patch("/contracts/{id}/comments/{cid}/resolve", handler.ResolveComment)

		u := &userDatamodel.User{Email: "c@client.test", Name: "C", PasswordHash: "x", Role: "client", IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		row := &contractDatamodel.Contract{Name: "NDA", ClientID: u.ID, Status: "draft", ContractDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		Expect(db.Create(row).Error).NotTo(HaveOccurred())

		contractID = row.ID
		caller = access.Caller{UserID: u.ID, Role: access.RoleClient}
	})

	AfterEach(func() {
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	It("should add, list and resolve comments", func() {
		base := "/contracts/" + strconv.FormatInt(contractID, 10) + "/comments"

		w := do(http.MethodPost, base, map[string]interface{}{"body": "Check the fee table", "line_number": 3})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created comment.Comment
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(http.MethodPatch, base+"/"+strconv.FormatInt(created.ID, 10)+"/resolve", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, base, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp comment.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Comments[0].IsResolved).To(BeTrue())
	})

	It("should answer 404 for a contract the caller cannot see", func() {
		caller = access.Caller{UserID: 555, Role: access.RoleEmployee}
		w := do(http.MethodGet, "/contracts/"+strconv.FormatInt(contractID, 10)+"/comments", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a non-numeric comment id", func() {
		w := do(http.MethodPatch, "/contracts/"+strconv.FormatInt(contractID, 10)+"/comments/abc/resolve", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
