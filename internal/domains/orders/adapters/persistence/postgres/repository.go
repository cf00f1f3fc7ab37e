// Package postgres persists orders through GORM. The schema is owned by platform/migrations.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID       int64     `gorm:"primaryKey;column:id"`
	Moment   time.Time `gorm:"column:moment"`
	Status   string    `gorm:"column:status"`
	ClientID int64     `gorm:"column:client_id"`
}

func (orderRecord) TableName() string { return "tb_order" }

type orderItemRecord struct {
	OrderID   int64           `gorm:"primaryKey;column:order_id"`
	ProductID int64           `gorm:"primaryKey;column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	Price     decimal.Decimal `gorm:"column:price"`
}

func (orderItemRecord) TableName() string { return "tb_order_item" }

type orderRow struct {
	ID         int64
	Moment     time.Time
	Status     string
	ClientID   int64
	ClientName string
}

type itemRow struct {
	ProductID int64
	Name      string
	ImgURL    string
	Quantity  int
	Price     decimal.Decimal
}

// Save inserts the order header and every item in one transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	var saved *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := orderRecord{
			ID:       order.ID,
			Moment:   order.Moment.UTC(),
			Status:   string(order.Status),
			ClientID: order.Client.ID,
		}
		if rec.ID == 0 {
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", rec.ID).Delete(&orderItemRecord{}).Error; err != nil {
				return err
			}
		}
		items := make([]orderItemRecord, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemRecord{
				OrderID:   rec.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		var err error
		saved, err = findOrder(tx, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return findOrder(r.db.WithContext(ctx), id)
}

func findOrder(db *gorm.DB, id int64) (*domain.Order, error) {
	var head orderRow
	res := db.Table("tb_order").
		Select("tb_order.id, tb_order.moment, tb_order.status, tb_order.client_id, tb_user.name AS client_name").
		Joins("JOIN tb_user ON tb_user.id = tb_order.client_id").
		Where("tb_order.id = ?", id).
		Limit(1).
		Scan(&head)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	var items []itemRow
	err := db.Table("tb_order_item").
		Select("tb_order_item.product_id, tb_product.name, tb_product.img_url, tb_order_item.quantity, tb_order_item.price").
		Joins("JOIN tb_product ON tb_product.id = tb_order_item.product_id").
		Where("tb_order_item.order_id = ?", id).
		Order("tb_order_item.product_id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		ID:     head.ID,
		Moment: head.Moment.UTC(),
		Status: domain.Status(head.Status),
		Client: domain.Client{ID: head.ClientID, Name: head.ClientName},
		Items:  make([]domain.Item, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.Item(item))
	}
	return order, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository not configured")
	}
	return nil
}
