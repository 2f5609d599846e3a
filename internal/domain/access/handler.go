package access

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pass-breeding/internal/middleware"
	"pass-breeding/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

// RegisterAdminRoutes monta las rutas bajo el subrouter /admin (compartido con passes).
func RegisterAdminRoutes(ar chi.Router, svc *Service) {
	ar.Get("/paused", getPausedHandler(svc))
	ar.Post("/pause", pauseHandler(svc, true))
	ar.Post("/unpause", pauseHandler(svc, false))

	ar.Get("/roles/{role}/members", listMembersHandler(svc))
	ar.Post("/roles/{role}/members", grantRoleHandler(svc))
	ar.Delete("/roles/{role}/members/{account}", revokeRoleHandler(svc))
}

type grantRoleRequest struct {
	Account string `json:"account"`
}

type grantResponse struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Account   string    `json:"account"`
	GrantedBy string    `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

type pausedResponse struct {
	Paused bool `json:"paused"`
}

// getPausedHandler godoc
// @Summary Estado de pausa
// @Tags admin
// @Produce json
// @Success 200 {object} pausedResponse
// @Router /admin/paused [get]
func getPausedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paused, err := svc.IsPaused(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pausedResponse{Paused: paused})
	}
}

// pauseHandler godoc
// @Summary Pausar / reanudar el sistema
// @Description Requiere DEFAULT_ADMIN_ROLE. Pausado, se rechazan mints, crías, nacimientos y transferencias.
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} pausedResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Failure 503 {object} apperr.Body
// @Router /admin/pause [post]
// @Router /admin/unpause [post]
func pauseHandler(svc *Service, pause bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var err error
		if pause {
			err = svc.Pause(r.Context(), claims.UserID)
		} else {
			err = svc.Unpause(r.Context(), claims.UserID)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pausedResponse{Paused: pause})
	}
}

// listMembersHandler godoc
// @Summary Listar miembros de un rol
// @Tags admin
// @Produce json
// @Param role path string true "DEFAULT_ADMIN_ROLE o MINTER_ROLE"
// @Success 200 {array} grantResponse
// @Failure 400 {object} apperr.Body
// @Router /admin/roles/{role}/members [get]
func listMembersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListMembers(r.Context(), Role(chi.URLParam(r, "role")))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// grantRoleHandler godoc
// @Summary Otorgar un rol
// @Description Requiere DEFAULT_ADMIN_ROLE. Idempotente.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param role path string true "DEFAULT_ADMIN_ROLE o MINTER_ROLE"
// @Param payload body grantRoleRequest true "Cuenta destino"
// @Success 201 {object} grantResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Router /admin/roles/{role}/members [post]
func grantRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req grantRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Grant(r.Context(), claims.UserID, Role(chi.URLParam(r, "role")), req.Account)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGrantResponse(g))
	}
}

// revokeRoleHandler godoc
// @Summary Revocar un rol
// @Description Requiere DEFAULT_ADMIN_ROLE. Un admin no puede revocarse a sí mismo.
// @Tags admin
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param role path string true "DEFAULT_ADMIN_ROLE o MINTER_ROLE"
// @Param account path string true "Cuenta"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Router /admin/roles/{role}/members/{account} [delete]
func revokeRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Revoke(r.Context(), claims.UserID, Role(chi.URLParam(r, "role")), chi.URLParam(r, "account"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toGrantResponse(g Grant) grantResponse {
	return grantResponse{
		ID:        g.ID,
		Role:      g.Role,
		Account:   g.Account,
		GrantedBy: g.GrantedBy,
		CreatedAt: g.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToBody(err))
}
