package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/domain/repository"
)

const orderColumns = `id, order_number, user_id, user_email, user_name, items, total_amount, total_items,
                   status, shipping_address, payment_method, payment_status, notes, created_at, updated_at`

// OrderRepository stores orders in the orders table.
type OrderRepository struct {
	storage *Storage
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

type itemRecord struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type addressRecord struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

func encodeItems(items []model.OrderItem) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		records = append(records, itemRecord(it))
	}
	return json.Marshal(records)
}

func decodeItems(data []byte) ([]model.OrderItem, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]model.OrderItem, 0, len(records))
	for _, r := range records {
		items = append(items, model.OrderItem(r))
	}
	return items, nil
}

func decodeAddress(data []byte) (model.ShippingAddress, error) {
	var r addressRecord
	if len(data) == 0 {
		return model.ShippingAddress{}, nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return model.ShippingAddress{}, fmt.Errorf("decode shipping address: %w", err)
	}
	return model.ShippingAddress(r), nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o       model.Order
		items   []byte
		address []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserEmail, &o.UserName, &items, &o.TotalAmount, &o.TotalItems,
		&o.Status, &address, &o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	if o.ShippingAddress, err = decodeAddress(address); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts order. A taken id or order number yields ErrAlreadyExists.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	address, err := json.Marshal(addressRecord(order.ShippingAddress))
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	const query = `INSERT INTO orders (` + orderColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.storage.pool.Exec(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.UserEmail, order.UserName, items, order.TotalAmount, order.TotalItems,
		order.Status, address, order.PaymentMethod, order.PaymentStatus, order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s: %w", order.OrderNumber, domainErrors.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// GetForUser loads order id when it belongs to userID.
func (r *OrderRepository) GetForUser(ctx context.Context, id, userID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 AND user_id=$2`
	return r.getOne(ctx, query, id, userID)
}

// GetByNumberForUser loads order by number when it belongs to userID.
func (r *OrderRepository) GetByNumberForUser(ctx context.Context, number, userID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_number=$1 AND user_id=$2`
	return r.getOne(ctx, query, number, userID)
}

func (r *OrderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func whereClause(filter model.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, "user_id=$"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of matching orders, newest first, and the total match count.
// Both reads share a read-only transaction so the page and the total agree.
func (r *OrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	where, args := whereClause(filter)

	var (
		orders []model.Order
		total  int64
	)
	err := r.storage.WithinTransaction(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
			return err
		}

		pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)
		query := `SELECT ` + orderColumns + ` FROM orders` + where +
			` ORDER BY created_at DESC, id LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		rows, err := tx.Query(ctx, query, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus sets status on order id. With expected set the write only
// applies while the stored status still equals it; otherwise ErrNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, expected *model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	args := []any{status, id}
	if expected != nil {
		query += ` AND status=$3`
		args = append(args, *expected)
	}
	query += ` RETURNING ` + orderColumns
	return r.getOne(ctx, query, args...)
}

// Stats groups every order by status.
func (r *OrderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	const query = `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
                   FROM orders GROUP BY status ORDER BY status`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &model.OrderStats{ByStatus: []model.StatusStat{}}
	for rows.Next() {
		var s model.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, err
		}
		stats.TotalOrders += s.Count
		stats.TotalRevenue += s.TotalAmount
		stats.ByStatus = append(stats.ByStatus, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Ping checks database connectivity.
func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.storage.HealthCheck(ctx)
}
