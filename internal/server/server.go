//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/service"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*repository.Order, error)
	ListOrders(ctx context.Context) ([]repository.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (string, error)
}

type Server struct {
	service OrderService
	logger  *zap.Logger
	server  *http.Server
}

func New(svc OrderService, logger *zap.Logger) *Server {
	return &Server{
		service: svc,
		logger:  logger,
	}
}

func (s *Server) Run(port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /orders/{$}", s.handleCreateOrder)
	mux.HandleFunc("GET /orders/{$}", s.handleListOrders)
	mux.HandleFunc("PUT /orders/{id}/status", s.handleUpdateStatus)

	return s.requestLogMiddleware(mux)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"api":     "orders",
		"version": "1.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var orderRequest struct {
		Customer string   `json:"customer"`
		Product  string   `json:"product"`
		Quantity *int     `json:"quantity"`
		Price    *float64 `json:"price"`
	}

	if err := json.NewDecoder(r.Body).Decode(&orderRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if orderRequest.Price == nil {
		respondError(w, http.StatusBadRequest, "price is required")
		return
	}

	order, err := s.service.CreateOrder(r.Context(), service.CreateOrderRequest{
		Customer: orderRequest.Customer,
		Product:  orderRequest.Product,
		Quantity: orderRequest.Quantity,
		Price:    *orderRequest.Price,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.service.ListOrders(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// [] rather than null when the store is empty
	if orders == nil {
		orders = []repository.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	// Status comes as a query parameter; a JSON body {"status": ...} is
	// accepted as a fallback.
	status := r.URL.Query().Get("status")
	if status == "" {
		var statusRequest struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&statusRequest); err == nil {
			status = statusRequest.Status
		}
	}
	if status == "" {
		respondError(w, http.StatusBadRequest, "Missing status")
		return
	}

	message, err := s.service.SetStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Нет заказа")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}
