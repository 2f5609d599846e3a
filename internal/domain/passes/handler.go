package passes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/middleware"
	"pass-breeding/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/passes", func(pr chi.Router) {
		pr.Post("/", mintPassHandler(svc))
		pr.Get("/{id}", getPassHandler(svc))
		pr.Get("/{id}/ready", readyHandler(svc))
		pr.Get("/{id}/uri", tokenURIHandler(svc))

		pr.Post("/{id}/transfer", transferHandler(svc))
		pr.Get("/{id}/siring-approval", getSiringApprovalHandler(svc))
		pr.Post("/{id}/siring-approval", approveSiringHandler(svc))
		pr.Post("/{id}/birth", giveBirthHandler(svc))
	})

	r.Post("/breedings", breedHandler(svc))
	r.Get("/owners/{owner}/passes", listOwnerPassesHandler(svc))
	r.Get("/supply", supplyHandler(svc))
}

// mintPassRequest crea un pass génesis. Se acepta genes empaquetado o traits (7 slots).
type mintPassRequest struct {
	To       string  `json:"to"`
	SingerID uint32  `json:"singer_id"`
	Genes    *uint64 `json:"genes,omitempty"`
	Traits   []uint8 `json:"traits,omitempty"`
	Class    int     `json:"class"`
}

type passResponse struct {
	ID              PassID         `json:"id"`
	Owner           string         `json:"owner"`
	Genes           genetics.Genes `json:"genes"`
	Traits          []uint8        `json:"traits"`
	MatronID        PassID         `json:"matron_id"`
	SireID          PassID         `json:"sire_id"`
	SingerID        uint32         `json:"singer_id"`
	Class           genetics.Class `json:"class"`
	ClassName       string         `json:"class_name"`
	Generation      uint32         `json:"generation"`
	CooldownIndex   uint32         `json:"cooldown_index"`
	CooldownEndTime *time.Time     `json:"cooldown_end_time,omitempty"`
	SiringWithID    PassID         `json:"siring_with_id"`
	BirthTime       time.Time      `json:"birth_time"`
	Channel         Channel        `json:"channel"`
	State           State          `json:"state"`
}

type readyResponse struct {
	ID    PassID `json:"id"`
	Ready bool   `json:"ready"`
	State State  `json:"state"`
}

type uriResponse struct {
	URI string `json:"uri"`
}

type transferRequest struct {
	To string `json:"to"`
}

type siringApprovalRequest struct {
	Grantee string `json:"grantee"`
}

type siringApprovalResponse struct {
	SireID  PassID `json:"sire_id"`
	Grantee string `json:"grantee"`
}

type breedRequest struct {
	MatronID PassID `json:"matron_id"`
	SireID   PassID `json:"sire_id"`
}

type supplyResponse struct {
	Total              uint64 `json:"total"`
	Genesis            uint64 `json:"genesis"`
	Launchpad          uint64 `json:"launchpad"`
	Births             uint64 `json:"births"`
	GenesisCap         uint64 `json:"genesis_cap"`
	LaunchpadMaxSupply uint64 `json:"launchpad_max_supply"`
}

// mintPassHandler godoc
// @Summary Mintear un pass génesis
// @Description Requiere MINTER_ROLE. Falla al alcanzar el cap de génesis (300 por defecto). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags passes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body mintPassRequest true "Destino, singer, genes o traits y clase"
// @Success 201 {object} passResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /passes [post]
func mintPassHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}

		var req mintPassRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		class, err := genetics.ParseClass(req.Class)
		if err != nil {
			writeError(w, err)
			return
		}

		var genes genetics.Genes
		switch {
		case req.Genes != nil && len(req.Traits) > 0:
			http.Error(w, "send genes or traits, not both", http.StatusBadRequest)
			return
		case req.Genes != nil:
			genes = genetics.Genes(*req.Genes)
		default:
			if len(req.Traits) != genetics.TraitCount {
				http.Error(w, "traits must have 7 slots", http.StatusBadRequest)
				return
			}
			var t genetics.Traits
			copy(t[:], req.Traits)
			genes, err = genetics.Encode(t)
			if err != nil {
				writeError(w, err)
				return
			}
		}

		p, err := svc.MintSingle(r.Context(), caller, MintInput{
			To:       req.To,
			SingerID: req.SingerID,
			Genes:    genes,
			Class:    class,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writePass(w, r, svc, http.StatusCreated, p)
	}
}

// getPassHandler godoc
// @Summary Obtener un pass
// @Tags passes
// @Produce json
// @Param id path int true "ID del pass"
// @Success 200 {object} passResponse
// @Failure 400 {object} apperr.Body
// @Failure 404 {object} apperr.Body
// @Router /passes/{id} [get]
func getPassHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}
		p, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writePass(w, r, svc, http.StatusOK, p)
	}
}

// readyHandler godoc
// @Summary Consultar si un pass puede criar
// @Description Id 0 devuelve 400 ("Id 0 is invalid").
// @Tags passes
// @Produce json
// @Param id path int true "ID del pass"
// @Success 200 {object} readyResponse
// @Failure 400 {object} apperr.Body
// @Failure 404 {object} apperr.Body
// @Router /passes/{id}/ready [get]
func readyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}
		st, err := svc.State(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, readyResponse{ID: id, Ready: st == StateAvailable, State: st})
	}
}

// tokenURIHandler godoc
// @Summary URI de metadata
// @Description baseURI/singerId/class/id/genes
// @Tags passes
// @Produce json
// @Param id path int true "ID del pass"
// @Success 200 {object} uriResponse
// @Failure 404 {object} apperr.Body
// @Router /passes/{id}/uri [get]
func tokenURIHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}
		uri, err := svc.TokenURI(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, uriResponse{URI: uri})
	}
}

// transferHandler godoc
// @Summary Transferir un pass
// @Description Solo el dueño. Bloqueado mientras el sistema está pausado. Borra la aprobación de siring del pass.
// @Tags passes
// @Accept json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path int true "ID del pass"
// @Param payload body transferRequest true "Cuenta destino"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 503 {object} apperr.Body
// @Router /passes/{id}/transfer [post]
func transferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.Transfer(r.Context(), caller, req.To, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// getSiringApprovalHandler godoc
// @Summary Aprobación de siring vigente
// @Tags passes
// @Produce json
// @Param id path int true "ID del sire"
// @Success 200 {object} siringApprovalResponse
// @Failure 404 {object} apperr.Body
// @Router /passes/{id}/siring-approval [get]
func getSiringApprovalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}
		grantee, err := svc.SiringApproval(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, siringApprovalResponse{SireID: id, Grantee: grantee})
	}
}

// approveSiringHandler godoc
// @Summary Aprobar un sire para otra cuenta
// @Description El dueño del sire permite que grantee lo use en un único breeding. grantee vacío retira la aprobación.
// @Tags passes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path int true "ID del sire"
// @Param payload body siringApprovalRequest true "Cuenta aprobada"
// @Success 200 {object} siringApprovalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 404 {object} apperr.Body
// @Router /passes/{id}/siring-approval [post]
func approveSiringHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}

		var req siringApprovalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.ApproveSiring(r.Context(), caller, id, req.Grantee); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, siringApprovalResponse{SireID: id, Grantee: strings.TrimSpace(req.Grantee)})
	}
}

// giveBirthHandler godoc
// @Summary Dar a luz
// @Description Cualquier cuenta puede disparar el nacimiento cuando la matrona cumplió su cooldown. El hijo va al dueño de la matrona.
// @Tags breeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path int true "ID de la matrona"
// @Success 201 {object} passResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Failure 503 {object} apperr.Body
// @Router /passes/{id}/birth [post]
func giveBirthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		id, ok := passIDParam(w, r)
		if !ok {
			return
		}
		child, err := svc.GiveBirth(r.Context(), caller, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writePass(w, r, svc, http.StatusCreated, child)
	}
}

// breedHandler godoc
// @Summary Criar dos passes
// @Description Cobra el fee del tier de la matrona al caller y deja a la matrona preñada.
// @Tags breeding
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body breedRequest true "Par matrona/sire"
// @Success 200 {object} passResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Failure 503 {object} apperr.Body
// @Router /breedings [post]
func breedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}

		var req breedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		matron, err := svc.BreedWith(r.Context(), caller, req.MatronID, req.SireID)
		if err != nil {
			writeError(w, err)
			return
		}
		writePass(w, r, svc, http.StatusOK, matron)
	}
}

// listOwnerPassesHandler godoc
// @Summary Listar passes de una cuenta
// @Tags passes
// @Produce json
// @Param owner path string true "Cuenta"
// @Success 200 {array} passResponse
// @Router /owners/{owner}/passes [get]
func listOwnerPassesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := chi.URLParam(r, "owner")
		items, err := svc.TokensOf(r.Context(), owner)
		if err != nil {
			writeError(w, err)
			return
		}

		now := svc.now()
		maxBreed := svc.Settings().Schedule.MaxBreedTimes()
		out := make([]passResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPassResponse(p, owner, now, maxBreed))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// supplyHandler godoc
// @Summary Contadores de supply
// @Tags passes
// @Produce json
// @Success 200 {object} supplyResponse
// @Router /supply [get]
func supplyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sup, err := svc.Supply(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, supplyResponse(sup))
	}
}

func writePass(w http.ResponseWriter, r *http.Request, svc *Service, status int, p Pass) {
	owner, err := svc.OwnerOf(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	maxBreed := svc.Settings().Schedule.MaxBreedTimes()
	writeJSON(w, status, toPassResponse(p, owner, svc.now(), maxBreed))
}

func toPassResponse(p Pass, owner string, now time.Time, maxBreed int) passResponse {
	traits := p.Genes.Traits()
	out := passResponse{
		ID:            p.ID,
		Owner:         owner,
		Genes:         p.Genes,
		Traits:        traits[:],
		MatronID:      p.MatronID,
		SireID:        p.SireID,
		SingerID:      p.SingerID,
		Class:         p.Class,
		ClassName:     p.Class.String(),
		Generation:    p.Generation,
		CooldownIndex: p.CooldownIndex,
		SiringWithID:  p.SiringWithID,
		BirthTime:     p.BirthTime,
		Channel:       p.Channel,
		State:         StateOf(p, now, maxBreed),
	}
	if !p.CooldownEndTime.IsZero() {
		t := p.CooldownEndTime
		out.CooldownEndTime = &t
	}
	return out
}

func callerOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func passIDParam(w http.ResponseWriter, r *http.Request) (PassID, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "id must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return PassID(v), true
}

// writeJSON está duplicado en los handlers de cada módulo (passes/access/events).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToBody(err))
}
