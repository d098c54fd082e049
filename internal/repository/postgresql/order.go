package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(database db.DB) *OrderRepo {
	return &OrderRepo{db: database}
}

const insertOrderQuery = `
        INSERT INTO orders (customer, product, quantity, price, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, customer, product, quantity, price, status, created_at
    `

// Create persists a new order. The store assigns id and created_at; the
// returned row is scanned back into order.
func (r *OrderRepo) Create(ctx context.Context, order *repository.Order) error {
	return r.db.Get(ctx, order, insertOrderQuery,
		order.Customer, order.Product, order.Quantity, order.Price, order.Status)
}

// CreateTx is Create inside an already opened transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	return tx.Get(ctx, order, insertOrderQuery,
		order.Customer, order.Product, order.Quantity, order.Price, order.Status)
}

// List returns every order, newest first. Rows with the same created_at keep
// insertion order.
func (r *OrderRepo) List(ctx context.Context) ([]repository.Order, error) {
	var orders []repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT id, customer, product, quantity, price, status, created_at
        FROM orders
        ORDER BY created_at DESC, id ASC
    `)
	return orders, err
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, `
        SELECT id, customer, product, quantity, price, status, created_at
        FROM orders
        WHERE id = $1
    `, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

const updateStatusQuery = `
        UPDATE orders
        SET status = $2
        WHERE id = $1
    `

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, updateStatusQuery, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id int64, status string) error {
	tag, err := tx.Exec(ctx, updateStatusQuery, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
