package launchpad

import (
	"encoding/json"
	"net/http"
	"strings"

	"pass-breeding/internal/domain/passes"
	"pass-breeding/internal/middleware"
	"pass-breeding/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/launchpad/purchases", purchaseHandler(svc))
}

type purchaseRequest struct {
	Count int `json:"count"`
}

type purchaseResponse struct {
	Buyer   string          `json:"buyer"`
	PassIDs []passes.PassID `json:"pass_ids"`
}

// purchaseHandler godoc
// @Summary Comprar passes de launchpad
// @Description Mintea un lote de passes Silver para el caller. El lote entero se rechaza si excede el max supply de launchpad.
// @Tags launchpad
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta compradora"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body purchaseRequest true "Cantidad de passes"
// @Success 201 {object} purchaseResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Failure 503 {object} apperr.Body
// @Router /launchpad/purchases [post]
func purchaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Purchase(r.Context(), claims.UserID, req.Count)
		if err != nil {
			writeJSON(w, apperr.HTTPStatus(err), apperr.ToBody(err))
			return
		}

		ids := make([]passes.PassID, 0, len(out))
		for _, p := range out {
			ids = append(ids, p.ID)
		}
		writeJSON(w, http.StatusCreated, purchaseResponse{Buyer: claims.UserID, PassIDs: ids})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
