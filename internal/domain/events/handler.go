package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pass-breeding/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/passes/{id}/events", listPassEventsHandler(svc))

	r.Route("/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc))
		er.Get("/{eventID}", getEventHandler(svc))
	})
}

// eventResponse es una entrada del log devuelta por la API.
type eventResponse struct {
	ID         string          `json:"id"`
	PassID     uint64          `json:"pass_id"`
	Type       EventType       `json:"type"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// listPassEventsHandler godoc
// @Summary Listar eventos de un pass
// @Description Eventos BIRTH, PREGNANT, SIRING_APPROVED y TRANSFER, más recientes primero. Lectura pública.
// @Tags events
// @Produce json
// @Param id path int true "ID del pass"
// @Param limit query int false "Máximo de eventos a devolver (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: BIRTH,PREGNANT)"
// @Param actor query string false "Cuenta que originó el evento"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Success 200 {array} eventResponse
// @Failure 400 {object} apperr.Body
// @Router /passes/{id}/events [get]
func listPassEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "id must be a positive integer", http.StatusBadRequest)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPass(r.Context(), id, filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos
// @Tags events
// @Produce json
// @Param limit query int false "Máximo de eventos a devolver (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos"
// @Param actor query string false "Cuenta que originó el evento"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Success 200 {array} eventResponse
// @Failure 400 {object} apperr.Body
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// getEventHandler godoc
// @Summary Obtener un evento
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {object} apperr.Body
// @Router /events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	filter := ListFilter{Limit: DefaultLimit}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			filter.Limit = n
		}
	}

	// types=BIRTH,PREGNANT
	if v := strings.TrimSpace(q.Get("types")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if t := EventType(strings.TrimSpace(p)); t != "" {
				filter.Types = append(filter.Types, t)
			}
		}
	}

	filter.Actor = strings.TrimSpace(q.Get("actor"))

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, ErrInvalidInput.WithMessage("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, ErrInvalidInput.WithMessage("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func toEventResponse(e PassEvent) eventResponse {
	return eventResponse{
		ID:         e.ID,
		PassID:     e.PassID,
		Type:       e.Type,
		Actor:      e.Actor,
		OccurredAt: e.OccurredAt,
		Payload:    e.Payload,
	}
}

func toEventResponses(items []PassEvent) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEventResponse(e))
	}
	return out
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
