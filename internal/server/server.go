// Package server exposes the scenario engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/iwvelando/scenario-engine/internal/metrics"
	"github.com/iwvelando/scenario-engine/internal/scenario"
	"github.com/iwvelando/scenario-engine/internal/store"
	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	service     *scenario.Service
	maxBodySize int64
	version     string
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler constructs the HTTP handler that serves the engine API. Extra
// middleware runs inside the metrics instrumentation for every matched route.
func NewHandler(logger *zap.Logger, service *scenario.Service, maxBodySize int64, version string, middleware ...mux.MiddlewareFunc) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if service == nil {
		service = scenario.NewService(logger, nil, scenario.Options{})
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, service: service, maxBodySize: maxBodySize, version: trimmedVersion}

	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)
	router.Use(middleware...)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such endpoint"})
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Handle("/npv", serve[npvBody](h, "server.handleNPV", h.service.NPV)).Methods(http.MethodPost)
	api.Handle("/irr", serve[irrBody](h, "server.handleIRR", h.service.IRR)).Methods(http.MethodPost)
	api.Handle("/cashflow", serve[cashflowBody](h, "server.handleCashflow", h.service.Cashflow)).Methods(http.MethodPost)
	api.Handle("/rehab", serve[rehabBody](h, "server.handleRehab", h.service.Rehab)).Methods(http.MethodPost)
	api.Handle("/sensitivity", serve[sensitivityBody](h, "server.handleSensitivity", h.service.Sensitivity)).Methods(http.MethodPost)
	api.Handle("/ratios", serve[ratiosBody](h, "server.handleRatios", h.service.Ratios)).Methods(http.MethodPost)
	api.HandleFunc("/buildings/{id}/cashflow", h.handleBuildingCashflow).Methods(http.MethodGet)
	api.HandleFunc("/buildings/{id}/snapshots", h.handleCreateSnapshot).Methods(http.MethodPost)
	api.HandleFunc("/snapshots/{id}", h.handleGetSnapshot).Methods(http.MethodGet)

	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(handlers.CompressHandler(router)))
}

// serve decodes a JSON body, checks its required fields, runs call and writes
// the {"data": ...} envelope.
func serve[Body request[Req], Req, Resp any](h *handler, op string, call func(context.Context, Req) (Resp, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body Body
		if !h.decode(w, r, &body, op) {
			return
		}
		req, err := body.input()
		if err != nil {
			h.respondServiceError(w, err, op)
			return
		}

		result, err := call(r.Context(), req)
		if err != nil {
			h.respondServiceError(w, err, op)
			return
		}
		h.writeJSON(w, http.StatusOK, dataResponse{Data: result})
	})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err), op)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.respondErrorWithOp(w, http.StatusBadRequest, "request body must contain a single JSON object", op)
		return false
	}
	return true
}

func (h *handler) handleBuildingCashflow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBuildingCashflow"

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}

	query := r.URL.Query()
	var req scenario.BuildingProjectionRequest
	var err error
	if req.Years, err = strconv.Atoi(query.Get("years")); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "years: must be an integer", op)
		return
	}
	if raw := query.Get("discountRate"); raw != "" {
		if req.DiscountRate, err = strconv.ParseFloat(raw, 64); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, "discountRate: must be a number", op)
			return
		}
	}
	req.Escalation = query.Get("escalation")

	result, err := h.service.ProjectBuilding(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse{Data: result})
}

func (h *handler) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateSnapshot"

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}
	var req scenario.BuildingProjectionRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	snap, err := h.service.SnapshotBuilding(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, dataResponse{Data: snap})
}

func (h *handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSnapshot"

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}
	snap, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse{Data: snap})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) pathID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "id: must be a UUID", op)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors onto HTTP statuses.
func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, scenario.ErrStoreUnavailable):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Info("request rejected",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
