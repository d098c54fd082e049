package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

// StatusNew is the label every order starts with. Status is free text, any
// string may be written over it later.
const StatusNew = "новый"

// Order is the single persisted entity. created_at is assigned by the store,
// drives list ordering and is not part of the API response shape.
type Order struct {
	ID        int64     `db:"id" json:"id"`
	Customer  string    `db:"customer" json:"customer"`
	Product   string    `db:"product" json:"product"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Price     float64   `db:"price" json:"price"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEventPayload is what ends up in the outbox task payload and, later,
// on the order events topic.
type OrderEventPayload struct {
	Event      string    `json:"event"`
	OrderID    int64     `json:"order_id"`
	Customer   string    `json:"customer,omitempty"`
	Product    string    `json:"product,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Price      float64   `json:"price,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
