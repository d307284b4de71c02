// Package chi is the HTTP transport for the selection engine: a thin JSON
// layer over the engine and itinerary services.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/trip"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/engine"
	healthuc "github.com/kaiyu-cloud/tripdex/internal/usecase/health"
	itineraryuc "github.com/kaiyu-cloud/tripdex/internal/usecase/itinerary"
)

// Server exposes the engine over HTTP.
type Server struct {
	engine    *engine.Service
	itinerary *itineraryuc.Service // nil when generation is not configured
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates the HTTP API server. itinerary may be nil; the
// /v1/itinerary route is then not registered.
func NewServer(
	eng *engine.Service,
	itin *itineraryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{engine: eng, itinerary: itin, health: health, logger: logger}
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/v1/context/select", s.handleSelectContext)
	if s.itinerary != nil {
		r.Post("/v1/itinerary", s.handleItinerary)
	}
}

// tripParamsBody is the optional explicit trip parameters of a request.
type tripParamsBody struct {
	Cities    []string `json:"cities,omitempty"`
	StartDate string   `json:"start_date,omitempty"` // DD/MM/YYYY
	EndDate   string   `json:"end_date,omitempty"`   // DD/MM/YYYY
	DayCount  int      `json:"day_count,omitempty"`
}

type selectRequest struct {
	Query      string         `json:"query"`
	TripParams tripParamsBody `json:"trip_params"`
}

type selectedDocBody struct {
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Relevance  float64 `json:"relevance"`
	Gain       float64 `json:"gain"`
}

type selectResponse struct {
	Documents []selectedDocBody `json:"documents"`
	KUpper    int               `json:"k_upper"`
	Strategy  string            `json:"strategy,omitempty"`
}

func (s *Server) handleSelectContext(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query is required")
		return
	}

	params, err := parseTripParams(req.TripParams)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_trip_params", err.Error())
		return
	}

	res, err := s.engine.SelectContext(r.Context(), req.Query, params)
	if err != nil {
		s.logger.Error("context selection failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "context selection failed")
		return
	}

	resp := selectResponse{
		Documents: make([]selectedDocBody, 0, len(res.Selected)),
		KUpper:    res.KUpper,
		Strategy:  res.Strategy,
	}
	for _, sel := range res.Selected {
		resp.Documents = append(resp.Documents, selectedDocBody{
			DocumentID: sel.Document.ID(),
			Text:       sel.Document.Text(),
			Relevance:  sel.Relevance,
			Gain:       sel.Gain,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type itineraryRequest struct {
	Query      string         `json:"query"`
	TripParams tripParamsBody `json:"trip_params"`
}

type itineraryResponse struct {
	Plan        json.RawMessage `json:"plan"`
	ContextUsed int             `json:"context_used"`
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query is required")
		return
	}

	params, err := parseTripParams(req.TripParams)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_trip_params", err.Error())
		return
	}

	plan, chunks, err := s.itinerary.Generate(r.Context(), req.Query, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTripParams):
			writeError(w, http.StatusBadRequest, "invalid_trip_params", err.Error())
		case errors.Is(err, domain.ErrGeneratorBadJSON):
			writeError(w, http.StatusBadGateway, "generator_bad_json", "generator returned unparseable itinerary")
		default:
			s.logger.Error("itinerary generation failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "generator_error", "itinerary generation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, itineraryResponse{Plan: plan, ContextUsed: len(chunks)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.health.Check(r.Context())
	code := http.StatusOK
	if !st.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, st)
}

func parseTripParams(b tripParamsBody) (trip.Params, error) {
	return trip.NewParams(b.Cities, b.StartDate, b.EndDate, b.DayCount)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
