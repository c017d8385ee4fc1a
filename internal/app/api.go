package app

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/assistant"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/mutation"
)

// API обрабатывает HTTP-запросы чата и заказов.
type API struct {
	assistant *assistant.Assistant
	engine    *mutation.Engine
	logger    *log.Entry
}

// NewAPI создаёт HTTP API поверх ассистента и движка.
func NewAPI(asst *assistant.Assistant, engine *mutation.Engine) *API {
	return &API{
		assistant: asst,
		engine:    engine,
		logger:    log.WithField("component", "http-api"),
	}
}

// Register добавляет маршруты API в mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", a.handleChat)
	mux.HandleFunc("GET /api/orders", a.handleListOrders)
	mux.HandleFunc("POST /api/orders", a.handleReplaceOrders)
	mux.HandleFunc("GET /api/orders/{id}", a.handleGetOrder)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a \"message\" field")
		return
	}

	reply := a.assistant.Handle(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply.Text, Source: reply.Source})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.engine.List(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (a *API) handleReplaceOrders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Orders == nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with an \"orders\" array")
		return
	}

	if err := a.engine.Replace(r.Context(), req.Orders); err != nil {
		if errors.Is(err, domain.ErrStorageWriteFailed) || errors.Is(err, domain.ErrStorageUnavailable) {
			a.writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"orders": len(req.Orders)})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		a.logger.WithError(err).Error("storage unavailable")
		writeError(w, http.StatusServiceUnavailable, "order storage is unavailable")
	case errors.Is(err, domain.ErrStorageWriteFailed):
		a.logger.WithError(err).Error("storage write failed")
		writeError(w, http.StatusServiceUnavailable, "order storage write failed")
	default:
		a.logger.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
