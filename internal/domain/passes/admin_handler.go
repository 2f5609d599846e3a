package passes

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"pass-breeding/internal/domain/genetics"

	"github.com/go-chi/chi/v5"
)

// RegisterAdminRoutes monta la configuración de cría bajo /admin (requiere DEFAULT_ADMIN_ROLE).
func RegisterAdminRoutes(ar chi.Router, svc *Service) {
	ar.Get("/settings", getSettingsHandler(svc))

	ar.Put("/base-uri", adminValueHandler(svc, func(r *http.Request, caller string, v valueRequest) error {
		return svc.UpdateBaseURI(r.Context(), caller, v.Value)
	}))
	ar.Put("/treasury", adminValueHandler(svc, func(r *http.Request, caller string, v valueRequest) error {
		return svc.UpdateTreasury(r.Context(), caller, v.Value)
	}))
	ar.Put("/random-service", adminValueHandler(svc, func(r *http.Request, caller string, v valueRequest) error {
		return svc.UpdateRandomService(r.Context(), caller, v.Value)
	}))
	ar.Put("/launchpad", adminValueHandler(svc, func(r *http.Request, caller string, v valueRequest) error {
		return svc.UpdateLaunchpad(r.Context(), caller, v.Value)
	}))

	ar.Put("/fee-tokens", updateFeeTokensHandler(svc))
	ar.Put("/launchpad/max-supply", updateLaunchpadMaxSupplyHandler(svc))
	ar.Put("/max-breed-times", updateMaxBreedTimesHandler(svc))
	ar.Put("/tiers/{idx}/fees", updateTierFeesHandler(svc))
	ar.Put("/tiers/{idx}/cooldown", updateTierCooldownHandler(svc))
	ar.Put("/class-rates/same", updateClassRateHandler(svc, true))
	ar.Put("/class-rates/diff", updateClassRateHandler(svc, false))
}

type valueRequest struct {
	Value string `json:"value"`
}

type feeTokensRequest struct {
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`
}

type maxSupplyRequest struct {
	MaxSupply uint64 `json:"max_supply"`
}

type maxBreedTimesRequest struct {
	MaxBreedTimes int `json:"max_breed_times"`
}

// Fees en wei como string decimal (no entran en un int64).
type tierFeesRequest struct {
	FeeA string `json:"fee_a"`
	FeeB string `json:"fee_b"`
}

type tierCooldownRequest struct {
	Seconds int64 `json:"seconds"`
}

// classRateRequest: en /same "from" es la clase de los padres y "to" la del hijo;
// en /diff "from" es la matrona y "to" el sire.
type classRateRequest struct {
	From int   `json:"from"`
	To   int   `json:"to"`
	Rate uint8 `json:"rate"`
}

type tierResponse struct {
	Index           int    `json:"index"`
	CooldownSeconds int64  `json:"cooldown_seconds"`
	FeeA            string `json:"fee_a"`
	FeeB            string `json:"fee_b"`
}

type settingsResponse struct {
	MaxBreedTimes      int            `json:"max_breed_times"`
	Tiers              []tierResponse `json:"tiers"`
	SameClassRates     [3][3]uint8    `json:"same_class_rates"`
	DiffClassRates     [3][3]uint8    `json:"diff_class_rates"`
	Treasury           string         `json:"treasury"`
	RandomService      string         `json:"random_service"`
	FeeTokenA          string         `json:"fee_token_a"`
	FeeTokenB          string         `json:"fee_token_b"`
	BaseURI            string         `json:"base_uri"`
	LaunchpadAccount   string         `json:"launchpad_account"`
	LaunchpadMaxSupply uint64         `json:"launchpad_max_supply"`
	GenesisCap         uint64         `json:"genesis_cap"`
	SingerCount        uint32         `json:"singer_count"`
	LaunchpadClass     genetics.Class `json:"launchpad_class"`
}

// getSettingsHandler godoc
// @Summary Configuración de cría vigente
// @Tags admin
// @Produce json
// @Success 200 {object} settingsResponse
// @Router /admin/settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toSettingsResponse(svc.Settings()))
	}
}

// adminValueHandler godoc
// @Summary Actualizar un valor escalar (base-uri, treasury, random-service, launchpad)
// @Description Requiere DEFAULT_ADMIN_ROLE. Vacío falla con zero_address/empty_uri; repetir el valor falla con already_set.
// @Tags admin
// @Accept json
// @Param X-Debug-User-ID header string false "Solo en modo dev, cuenta que opera"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body valueRequest true "Nuevo valor"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Router /admin/base-uri [put]
// @Router /admin/treasury [put]
// @Router /admin/random-service [put]
// @Router /admin/launchpad [put]
func adminValueHandler(svc *Service, apply func(r *http.Request, caller string, v valueRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		var req valueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := apply(r, caller, req); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateFeeTokensHandler godoc
// @Summary Actualizar los tokens de fee
// @Tags admin
// @Accept json
// @Param payload body feeTokensRequest true "Tokens A y B"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/fee-tokens [put]
func updateFeeTokensHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		var req feeTokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.UpdateFeeTokens(r.Context(), caller, req.TokenA, req.TokenB); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateLaunchpadMaxSupplyHandler godoc
// @Summary Actualizar el max supply de launchpad
// @Description No puede quedar por debajo de lo ya minteado por launchpad.
// @Tags admin
// @Accept json
// @Param payload body maxSupplyRequest true "Nuevo máximo"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/launchpad/max-supply [put]
func updateLaunchpadMaxSupplyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		var req maxSupplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.UpdateLaunchpadMaxSupply(r.Context(), caller, req.MaxSupply); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateMaxBreedTimesHandler godoc
// @Summary Redimensionar la tabla de tiers
// @Tags admin
// @Accept json
// @Param payload body maxBreedTimesRequest true "Cantidad de tiers"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/max-breed-times [put]
func updateMaxBreedTimesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		var req maxBreedTimesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.UpdateMaxBreedTimes(r.Context(), caller, req.MaxBreedTimes); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateTierFeesHandler godoc
// @Summary Actualizar los fees de un tier
// @Tags admin
// @Accept json
// @Param idx path int true "Índice del tier"
// @Param payload body tierFeesRequest true "Fees en wei"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/tiers/{idx}/fees [put]
func updateTierFeesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		idx, ok := tierIndexParam(w, r)
		if !ok {
			return
		}
		var req tierFeesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		feeA, okA := new(big.Int).SetString(req.FeeA, 10)
		feeB, okB := new(big.Int).SetString(req.FeeB, 10)
		if !okA || !okB {
			http.Error(w, "fees must be decimal integers", http.StatusBadRequest)
			return
		}
		if err := svc.UpdateBreedingFees(r.Context(), caller, idx, feeA, feeB); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateTierCooldownHandler godoc
// @Summary Actualizar el cooldown de un tier
// @Tags admin
// @Accept json
// @Param idx path int true "Índice del tier"
// @Param payload body tierCooldownRequest true "Duración en segundos"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/tiers/{idx}/cooldown [put]
func updateTierCooldownHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		idx, ok := tierIndexParam(w, r)
		if !ok {
			return
		}
		var req tierCooldownRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.UpdateCooldown(r.Context(), caller, idx, time.Duration(req.Seconds)*time.Second); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateClassRateHandler godoc
// @Summary Actualizar una tasa de clase
// @Description /same: padres de la misma clase, probabilidad de que el hijo sea "to". /diff: probabilidad de heredar la clase de la matrona.
// @Tags admin
// @Accept json
// @Param payload body classRateRequest true "Clases y tasa (0-100)"
// @Success 204 {string} string "no content"
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /admin/class-rates/same [put]
// @Router /admin/class-rates/diff [put]
func updateClassRateHandler(svc *Service, same bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerOf(w, r)
		if !ok {
			return
		}
		var req classRateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		from, err := genetics.ParseClass(req.From)
		if err != nil {
			writeError(w, err)
			return
		}
		to, err := genetics.ParseClass(req.To)
		if err != nil {
			writeError(w, err)
			return
		}

		if same {
			err = svc.UpdateSameClassRate(r.Context(), caller, from, to, req.Rate)
		} else {
			err = svc.UpdateDiffClassRate(r.Context(), caller, from, to, req.Rate)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func tierIndexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		http.Error(w, "idx must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return idx, true
}

func toSettingsResponse(s Settings) settingsResponse {
	tiers := s.Schedule.Tiers()
	out := settingsResponse{
		MaxBreedTimes:      len(tiers),
		Tiers:              make([]tierResponse, 0, len(tiers)),
		SameClassRates:     s.ClassRates.Same,
		DiffClassRates:     s.ClassRates.Diff,
		Treasury:           s.Treasury,
		RandomService:      s.RandomService,
		FeeTokenA:          s.FeeTokenA,
		FeeTokenB:          s.FeeTokenB,
		BaseURI:            s.BaseURI,
		LaunchpadAccount:   s.LaunchpadAccount,
		LaunchpadMaxSupply: s.LaunchpadMaxSupply,
		GenesisCap:         s.GenesisCap,
		SingerCount:        s.SingerCount,
		LaunchpadClass:     LaunchpadClass,
	}
	for i, t := range tiers {
		out.Tiers = append(out.Tiers, tierResponse{
			Index:           i,
			CooldownSeconds: int64(t.Cooldown / time.Second),
			FeeA:            t.FeeA.String(),
			FeeB:            t.FeeB.String(),
		})
	}
	return out
}
