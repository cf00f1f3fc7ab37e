// Package sqlite persists orders in the embedded SQLite store through sqlx.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	platformsqlite "github.com/devsuperior/dscommerce/internal/platform/sqlite"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type orderRow struct {
	ID         int64  `db:"id"`
	Moment     string `db:"moment"`
	Status     string `db:"status"`
	ClientID   int64  `db:"client_id"`
	ClientName string `db:"client_name"`
}

type itemRow struct {
	ProductID int64           `db:"product_id"`
	Name      string          `db:"name"`
	ImgURL    sql.NullString  `db:"img_url"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

// Save inserts the order header and every item in one transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	id := order.ID
	moment := platformsqlite.FormatTime(order.Moment)
	if id == 0 {
		res, err := tx.ExecContext(ctx, `INSERT INTO tb_order(moment, status, client_id) VALUES (?, ?, ?)`,
			moment, string(order.Status), order.Client.ID)
		if err != nil {
			return nil, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	} else {
		_, err := tx.ExecContext(ctx, `INSERT INTO tb_order(id, moment, status, client_id) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET moment = excluded.moment, status = excluded.status, client_id = excluded.client_id`,
			id, moment, string(order.Status), order.Client.ID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tb_order_item WHERE order_id = ?`, id); err != nil {
			return nil, err
		}
	}
	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, `INSERT INTO tb_order_item(order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
			id, item.ProductID, item.Quantity, item.Price.String())
		if err != nil {
			return nil, fmt.Errorf("insert item %d: %w", item.ProductID, err)
		}
	}
	saved, err := findOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return findOrder(ctx, r.db, id)
}

func findOrder(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Order, error) {
	var head orderRow
	err := sqlx.GetContext(ctx, q, &head, `
		SELECT o.id, o.moment, o.status, o.client_id, u.name AS client_name
		FROM tb_order o JOIN tb_user u ON u.id = o.client_id
		WHERE o.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	moment, err := platformsqlite.ParseTime(head.Moment)
	if err != nil {
		return nil, fmt.Errorf("order %d moment: %w", id, err)
	}
	var items []itemRow
	err = sqlx.SelectContext(ctx, q, &items, `
		SELECT oi.product_id, p.name, p.img_url, oi.quantity, oi.price
		FROM tb_order_item oi JOIN tb_product p ON p.id = oi.product_id
		WHERE oi.order_id = ? ORDER BY oi.product_id`, id)
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		ID:     head.ID,
		Moment: moment,
		Status: domain.Status(head.Status),
		Client: domain.Client{ID: head.ClientID, Name: head.ClientName},
		Items:  make([]domain.Item, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImgURL:    item.ImgURL.String,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return order, nil
}

// ReferencesProduct reports whether any order item points at productID.
func (r *Repository) ReferencesProduct(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tb_order_item WHERE product_id = ?)`, productID)
	return exists, err
}
