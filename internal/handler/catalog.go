package handler

import (
	"net/http"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

type CatalogHandler struct {
	svc     *service.CatalogService
	manager *state.Manager
}

func NewCatalogHandler(svc *service.CatalogService, manager *state.Manager) *CatalogHandler {
	return &CatalogHandler{svc: svc, manager: manager}
}

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, sess *state.Session, err error) {
	if gateway.KindOf(err) == gateway.KindAuth {
		h.manager.Logout(sess.Token())
	}
	writeError(w, r, err)
}

// HandleList returns the approved catalog names held by the session.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	writeJSON(w, sess.Catalog())
}

// HandlePending refreshes the pending proposals from the remote store and
// returns them. Admin only.
func (h *CatalogHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	if err := h.svc.RefreshPending(r.Context(), sess); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, sess.Pending())
}

// HandlePropose submits a new chargeable task name for review.
func (h *CatalogHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
		return
	}
	if err := h.svc.Propose(r.Context(), sess, req.Name); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (h *CatalogHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	if err := h.svc.Approve(r.Context(), sess, r.PathValue("id")); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "catalog": sess.Catalog()})
}

func (h *CatalogHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	if err := h.svc.Reject(r.Context(), sess, r.PathValue("id")); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// RegisterRoutes registers all catalog routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", h.HandleList)
	mux.HandleFunc("GET /api/catalog/pending", h.HandlePending)
	mux.HandleFunc("POST /api/catalog", h.HandlePropose)
	mux.HandleFunc("POST /api/catalog/{id}/approve", h.HandleApprove)
	mux.HandleFunc("POST /api/catalog/{id}/reject", h.HandleReject)
}
