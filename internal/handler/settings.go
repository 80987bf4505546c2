package handler

import (
	"net/http"
	"strings"

	"feuilletemps/internal/config"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

// SettingsHandler exposes the persisted remote-store override. The anon key
// is write-only.
type SettingsHandler struct {
	cfg     *config.Config
	manager *state.Manager
}

func NewSettingsHandler(cfg *config.Config, manager *state.Manager) *SettingsHandler {
	return &SettingsHandler{cfg: cfg, manager: manager}
}

func (h *SettingsHandler) HandleGetStore(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.manager); !ok {
		return
	}
	writeJSON(w, map[string]string{"storeUrl": h.cfg.StoreURL})
}

// HandleSetStore persists a new endpoint and key. Admin only. The gateway
// client keeps its endpoint for the life of the process, so the override
// applies on the next start.
func (h *SettingsHandler) HandleSetStore(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	profile, found := sess.Profile()
	if !found || profile.Role != model.RoleAdmin {
		writeError(w, r, service.ErrForbidden)
		return
	}

	var req struct {
		StoreURL     string `json:"storeUrl"`
		StoreAnonKey string `json:"storeAnonKey"`
	}
	if err := decode(r, &req); err != nil {
		writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
		return
	}
	if strings.TrimSpace(req.StoreURL) == "" || strings.TrimSpace(req.StoreAnonKey) == "" {
		writeError(w, r, service.ErrEmptyField)
		return
	}
	if err := h.cfg.SaveOverrides(req.StoreURL, req.StoreAnonKey); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "restartRequired": true})
}

// RegisterRoutes registers the settings routes on the given mux.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/settings/store", h.HandleGetStore)
	mux.HandleFunc("POST /api/settings/store", h.HandleSetStore)
}
