//go:generate mockgen -source ./service.go -destination=./mocks/service.go -package=mock_service
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository"
)

var (
	// ErrOrderNotFound means the referenced order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrValidation means a required field is missing.
	ErrValidation = errors.New("validation failed")
)

type OrderRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	List(ctx context.Context) ([]repository.Order, error)
	GetByID(ctx context.Context, id int64) (*repository.Order, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, id int64, status string) error
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

type OrderService struct {
	db         db.DB
	orders     OrderRepository
	outbox     OutboxRepository
	eventTopic string
	logger     *zap.Logger
}

func New(database db.DB, orders OrderRepository, outbox OutboxRepository, eventTopic string, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:         database,
		orders:     orders,
		outbox:     outbox,
		eventTopic: eventTopic,
		logger:     logger,
	}
}

type CreateOrderRequest struct {
	Customer string
	Product  string
	Quantity *int
	Price    float64
}

// CreateOrder validates the request, inserts the order and enqueues an
// order.created event in the same transaction. Quantity defaults to 1 when
// omitted; no lower bound is enforced on quantity or price.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*repository.Order, error) {
	if req.Customer == "" {
		return nil, fmt.Errorf("%w: customer is required", ErrValidation)
	}
	if req.Product == "" {
		return nil, fmt.Errorf("%w: product is required", ErrValidation)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	order := &repository.Order{
		Customer: req.Customer,
		Product:  req.Product,
		Quantity: quantity,
		Price:    req.Price,
		Status:   repository.StatusNew,
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.enqueueEvent(ctx, tx, repository.OrderEventPayload{
		Event:     repository.EventOrderCreated,
		OrderID:   order.ID,
		Customer:  order.Customer,
		Product:   order.Product,
		Quantity:  order.Quantity,
		Price:     order.Price,
		NewStatus: order.Status,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.Int64("id", order.ID),
		zap.String("customer", order.Customer),
		zap.String("product", order.Product))

	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]repository.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_orders").Inc()
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// SetStatus overwrites the status of an existing order and returns a
// confirmation message. Status is an unconstrained label, any string is
// accepted.
func (s *OrderService) SetStatus(ctx context.Context, id int64, status string) (string, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return "", ErrOrderNotFound
		}
		metrics.OperationErrorsTotal.WithLabelValues("set_status").Inc()
		return "", fmt.Errorf("get order %d: %w", id, err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := s.orders.UpdateStatusTx(ctx, tx, id, status); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return "", ErrOrderNotFound
		}
		metrics.OperationErrorsTotal.WithLabelValues("set_status").Inc()
		return "", fmt.Errorf("update status of order %d: %w", id, err)
	}

	if err := s.enqueueEvent(ctx, tx, repository.OrderEventPayload{
		Event:     repository.EventOrderStatusChanged,
		OrderID:   id,
		OldStatus: order.Status,
		NewStatus: status,
	}); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	metrics.StatusUpdatesTotal.Inc()
	s.logger.Info("order status updated",
		zap.Int64("id", id),
		zap.String("old_status", order.Status),
		zap.String("new_status", status))

	return fmt.Sprintf("Статус %d изменен на %s", id, status), nil
}

func (s *OrderService) enqueueEvent(ctx context.Context, tx db.Tx, payload repository.OrderEventPayload) error {
	payload.OccurredAt = time.Now().UTC()

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	task := &repository.OutboxTask{
		Payload: raw,
		Topic:   s.eventTopic,
	}
	if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("enqueue %s event: %w", payload.Event, err)
	}
	return nil
}
