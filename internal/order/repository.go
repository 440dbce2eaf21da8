package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order, its line items and an order.placed
	// outbox event, and deducts catalog stock, all in one transaction.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, id string) (*Order, error)
	ListByShopper(ctx context.Context, shopper string) ([]*Order, error)
	Update(ctx context.Context, id string, patch UpdateOrderInput) (*Order, error)

	// GetByIdempotencyKey returns nil, nil when no order matches.
	GetByIdempotencyKey(ctx context.Context, shopper, key string) (*Order, error)

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id,
	shopper_id,
	total,
	status,
	shipping_name,
	shipping_email,
	shipping_phone,
	shipping_street,
	shipping_city,
	shipping_state,
	shipping_zip,
	idempotency_key,
	created_at,
	updated_at
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	var idemKey sql.NullString
	err := row.Scan(
		&o.ID,
		&o.Shopper,
		&o.Total,
		&o.Status,
		&o.Shipping.Name,
		&o.Shipping.Email,
		&o.Shipping.Phone,
		&o.Shipping.Street,
		&o.Shipping.City,
		&o.Shipping.State,
		&o.Shipping.Zip,
		&idemKey,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.IdempotencyKey = idemKey.String
	return &o, nil
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.String("shopper", o.Shopper),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	var idemKey any
	if o.IdempotencyKey != "" {
		idemKey = o.IdempotencyKey
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, shopper_id, total, status,
			shipping_name, shipping_email, shipping_phone,
			shipping_street, shipping_city, shipping_state, shipping_zip,
			idempotency_key, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`,
		o.ID,
		o.Shopper,
		o.Total,
		o.Status,
		o.Shipping.Name,
		o.Shipping.Email,
		o.Shipping.Phone,
		o.Shipping.Street,
		o.Shipping.City,
		o.Shipping.State,
		o.Shipping.Zip,
		idemKey,
		o.CreatedAt,
	)
	if err != nil {
		return err
	}

	// 2. Insert line items + deduct stock
	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, name, price, quantity
			) VALUES ($1,$2,$3,$4,$5)
		`,
			o.ID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return err
		}

		// Conditional deduct so concurrent checkouts cannot oversell.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
	}

	// 3. Write the order.placed outbox event
	payload, err := json.Marshal(map[string]any{
		"order_id":   o.ID,
		"shopper_id": o.Shopper,
		"items":      o.Items,
		"total":      o.Total,
		"created_at": o.CreatedAt,
	})
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_outbox (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)
	`, o.ID, "order.placed", payload)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	log.Info("order persisted",
		zap.Float64("total", o.Total),
		zap.Int("items", len(o.Items)),
	)
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE id = $1
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) ListByShopper(ctx context.Context, shopper string) ([]*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE shopper_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, shopper)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	items := make([]Line, 0)
	for rows.Next() {
		var item Line
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	o.Items = items
	return nil
}

func (r *repository) Update(ctx context.Context, id string, patch UpdateOrderInput) (*Order, error) {
	set := []string{}
	args := []any{}

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ShippingName != nil {
		add("shipping_name", *patch.ShippingName)
	}
	if patch.ShippingEmail != nil {
		add("shipping_email", *patch.ShippingEmail)
	}
	if patch.ShippingPhone != nil {
		add("shipping_phone", *patch.ShippingPhone)
	}
	if patch.ShippingStreet != nil {
		add("shipping_street", *patch.ShippingStreet)
	}
	if patch.ShippingCity != nil {
		add("shipping_city", *patch.ShippingCity)
	}
	if patch.ShippingState != nil {
		add("shipping_state", *patch.ShippingState)
	}
	if patch.ShippingZip != nil {
		add("shipping_zip", *patch.ShippingZip)
	}

	if len(set) == 0 {
		return nil, ErrEmptyPatch
	}

	set = append(set, "updated_at = NOW()")

	query := `
	UPDATE orders
	SET ` + strings.Join(set, ", ") + `
	WHERE id = $` + fmt.Sprint(len(args)+1) + `
	RETURNING ` + orderColumns

	args = append(args, id)

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, shopper, key string) (*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE shopper_id = $1 AND idempotency_key = $2
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, shopper, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM order_outbox
		WHERE processed_at IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*OutboxEvent, 0)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *repository) MarkEventAsProcessed(ctx context.Context, eventID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE order_outbox
		SET processed_at = NOW()
		WHERE id = $1 AND processed_at IS NULL
	`, eventID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("outbox event %d already processed or missing", eventID)
	}

	return nil
}
