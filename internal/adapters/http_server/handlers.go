package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ibe_backend/internal/app"
	"ibe_backend/internal/domain"
)

// BlobLinks are static asset locations echoed in property configuration responses.
type BlobLinks struct {
	En string
	De string
}

type Handlers struct {
	Config     *app.ConfigurationService
	Properties *app.PropertyService
	Links      BlobLinks
	// Ping reports store health on /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
}

type errorBody struct {
	Message    string `json:"message"`
	HTTPStatus int    `json:"httpStatus"`
}

type propertyRequest struct {
	ID         int64 `json:"id"`
	PropertyID int64 `json:"propertyId"`
}

type dateRangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type propertyConfigurationResponse struct {
	Global            json.RawMessage `json:"global"`
	Property          json.RawMessage `json:"property"`
	BlobStorageLinkEn string          `json:"blobStorageLinkEn"`
	BlobStorageLinkDe string          `json:"blobStorageLinkDe"`
}

type tenantResponse struct {
	Properties []domain.PropertySummary `json:"properties"`
	Global     json.RawMessage          `json:"global"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.health)
	s.mux.Route("/api/v1", func(r chi.Router) {
		r.Use(s.cors)
		r.Post("/configuration", h.saveConfiguration)
		r.Post("/configuration/property", h.propertyConfiguration)
		r.Get("/configuration/{id}", h.getConfiguration)
		r.Put("/configuration/{id}", h.updateConfiguration)
		r.Post("/calendar/{id}", h.minimumNightRates)
		r.Get("/tenant/{id}", h.tenant)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg, HTTPStatus: status})
}

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
}

// fail maps pipeline errors to the response: not found is a bare 404, anything else a 500.
func fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg(what)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) saveConfiguration(w http.ResponseWriter, r *http.Request) {
	var cfg domain.Configuration
	if err := decode(r, &cfg); err != nil {
		badRequest(w, err)
		return
	}
	saved, err := h.Config.Save(r.Context(), cfg)
	if err != nil {
		fail(w, r, "save configuration failed", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handlers) getConfiguration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	cfg, err := h.Config.Get(r.Context(), id)
	if err != nil {
		fail(w, r, "get configuration failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handlers) updateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var cfg domain.Configuration
	if err := decode(r, &cfg); err != nil {
		badRequest(w, err)
		return
	}
	updated, err := h.Config.Update(r.Context(), id, cfg)
	if err != nil {
		fail(w, r, "update configuration failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) propertyConfiguration(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	pc, err := h.Config.GetProperty(r.Context(), req.ID, req.PropertyID)
	if err != nil {
		fail(w, r, "get property configuration failed", err)
		return
	}
	writeJSON(w, http.StatusOK, propertyConfigurationResponse{
		Global:            pc.Global,
		Property:          pc.Property,
		BlobStorageLinkEn: h.Links.En,
		BlobStorageLinkDe: h.Links.De,
	})
}

func (h *Handlers) minimumNightRates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var req dateRangeRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	// unparseable request dates are a pipeline failure, not a bad request
	rng, err := app.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		fail(w, r, "minimum night rate failed", err)
		return
	}
	rates, err := h.Properties.MinimumNightRate(r.Context(), id, rng)
	if err != nil {
		fail(w, r, "minimum night rate failed", err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// tenant lists the tenant's properties; global is null when no configuration
// is stored under the tenant id.
func (h *Handlers) tenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	props, err := h.Properties.ListProperties(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("tenant", id).Msg("list properties failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	global, err := h.Config.GetGlobal(r.Context(), id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Int64("tenant", id).Msg("get global configuration failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tenantResponse{Properties: props, Global: global})
}
