package contract

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListContracts(ctx context.Context, caller access.Caller, filters ListFilters) ([]*Contract, error)
	GetContract(ctx context.Context, id int64, caller access.Caller) (*Contract, error)
	GetSummary(ctx context.Context, caller access.Caller) (*Summary, error)
	GetRecent(ctx context.Context, caller access.Caller, limit int) ([]*Contract, error)
	CreateContract(ctx context.Context, caller access.Caller, dto CreateContractDTO) (*Contract, error)
	UpdateContract(ctx context.Context, caller access.Caller, id int64, dto UpdateContractDTO) (*Contract, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	filters, appErr := ParseListFilters(r.URL.Query())
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	contracts, err := h.Service.ListContracts(r.Context(), caller, filters)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Contracts: contracts, Count: len(contracts)})
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	id, appErr := h.PathID(r, "id")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	c, err := h.Service.GetContract(r.Context(), id, caller)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.GetSummary(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// GetRecent serves both /contracts/recent?limit=N and /contracts/recent/{limit}.
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	raw := chi.URLParam(r, "limit")
	if raw == "" {
		raw = r.URL.Query().Get("limit")
	}
	limit := DefaultRecentLimit
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("limit", "limit must be an integer", internal.ErrCodeInvalidFormat))
			return
		}
		limit = n
	}

	contracts, err := h.Service.GetRecent(r.Context(), caller, limit)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Contracts: contracts, Count: len(contracts)})
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	var dto CreateContractDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	c, err := h.Service.CreateContract(r.Context(), caller, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	id, appErr := h.PathID(r, "id")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	var dto UpdateContractDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	c, err := h.Service.UpdateContract(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
