// Package types holds the transfer representations used by order services and workflows.
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
)

type ClientDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OrderItemDTO struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name,omitempty"`
	ImgURL    string          `json:"imgUrl,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SubTotal  decimal.Decimal `json:"subTotal"`
}

// OrderDTO is both the order representation and the insert input; on input
// only the item product ids and quantities are read.
type OrderDTO struct {
	ID     int64           `json:"id"`
	Moment time.Time       `json:"moment"`
	Status string          `json:"status"`
	Client ClientDTO       `json:"client"`
	Items  []OrderItemDTO  `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func FromOrder(o *domain.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:     o.ID,
		Moment: o.Moment,
		Status: string(o.Status),
		Client: ClientDTO{ID: o.Client.ID, Name: o.Client.Name},
		Items:  make([]OrderItemDTO, 0, len(o.Items)),
		Total:  o.Total(),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImgURL:    item.ImgURL,
			Quantity:  item.Quantity,
			Price:     item.Price,
			SubTotal:  item.SubTotal(),
		})
	}
	return dto
}
