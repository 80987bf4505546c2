package handler

import (
	"net/http"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

type AuthHandler struct {
	gw         *gateway.Client
	manager    *state.Manager
	timesheets *service.TimesheetService
	catalog    *service.CatalogService
}

func NewAuthHandler(gw *gateway.Client, manager *state.Manager, timesheets *service.TimesheetService, catalog *service.CatalogService) *AuthHandler {
	return &AuthHandler{gw: gw, manager: manager, timesheets: timesheets, catalog: catalog}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	View  sessionView `json:"view"`
}

// HandleLogin signs the user in against the remote store, then loads the
// full session state: profile, catalog, the role-dependent timesheet slice,
// and the pending proposals for admins.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
		return
	}

	ctx := r.Context()
	auth, err := h.gw.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if gateway.KindOf(err) == gateway.KindAuth {
			writeStatusJSON(w, http.StatusUnauthorized, ErrorResponse{Error: i18n.T(ctx, "login.failed")})
			return
		}
		writeError(w, r, err)
		return
	}

	sess := h.manager.Login(auth.AccessToken, auth.User.ID, auth.User.Email)

	names, err := h.catalog.ApprovedNames(ctx, sess.Token())
	if err != nil {
		h.manager.Logout(sess.Token())
		writeError(w, r, err)
		return
	}
	if err := h.timesheets.Bootstrap(ctx, sess, names); err != nil {
		h.manager.Logout(sess.Token())
		writeError(w, r, err)
		return
	}

	if profile, ok := sess.Profile(); ok && profile.Role == model.RoleAdmin {
		if err := h.catalog.RefreshPending(ctx, sess); err != nil {
			h.manager.Logout(sess.Token())
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, loginResponse{Token: sess.Token(), View: viewOf(sess)})
}

// HandleLogout revokes the remote session and drops the local one. The local
// session goes away even when the remote call fails.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, map[string]bool{"ok": true})
		return
	}
	_ = h.gw.SignOut(r.Context(), token)
	h.manager.Logout(token)
	writeJSON(w, map[string]bool{"ok": true})
}

// HandleSession returns the current session view.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	writeJSON(w, viewOf(sess))
}

// RegisterRoutes registers all auth routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/session", h.HandleSession)
}
