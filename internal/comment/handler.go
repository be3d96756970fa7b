package comment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/transport"
)

type ServiceAPI interface {
	ListComments(ctx context.Context, caller access.Caller, contractID int64) ([]*Comment, error)
	AddComment(ctx context.Context, caller access.Caller, contractID int64, dto AddCommentDTO) (*Comment, error)
	ResolveComment(ctx context.Context, caller access.Caller, contractID, commentID int64) (*Comment, error)
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

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	contractID, appErr := h.PathID(r, "id")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	comments, err := h.Service.ListComments(r.Context(), caller, contractID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Comments: comments, Count: len(comments)})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	contractID, appErr := h.PathID(r, "id")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	var dto AddCommentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	c, err := h.Service.AddComment(r.Context(), caller, contractID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ResolveComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	contractID, appErr := h.PathID(r, "id")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}
	commentID, appErr := h.PathID(r, "cid")
	if appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	c, err := h.Service.ResolveComment(r.Context(), caller, contractID, commentID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
