package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/shared/validation"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusWaitingPayment Status = "WAITING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusWaitingPayment, StatusPaid, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

var (
	ErrNoItems         = errors.New("order must have at least one item")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNoClient        = errors.New("order must have a client")
)

// Client is the user owning an order.
type Client struct {
	ID   int64
	Name string
}

// Item is one line of an order. Price is the product's price when the order
// was placed and never changes afterwards.
type Item struct {
	ProductID int64
	Name      string
	ImgURL    string
	Quantity  int
	Price     decimal.Decimal
}

// SubTotal is price times quantity.
func (i Item) SubTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductSnapshot is what an order needs to know about a product.
type ProductSnapshot struct {
	ID     int64
	Name   string
	ImgURL string
	Price  decimal.Decimal
}

// Order is the aggregate placed by a client.
type Order struct {
	ID     int64
	Moment time.Time
	Status Status
	Client Client
	Items  []Item
}

// NewOrder starts an order for client, waiting for payment.
func NewOrder(client Client, moment time.Time) *Order {
	return &Order{
		Moment: moment.UTC(),
		Status: StatusWaitingPayment,
		Client: client,
	}
}

// AddItem captures the product's current price. A product already on the
// order has its quantity increased instead of getting a second line.
func (o *Order) AddItem(product ProductSnapshot, quantity int) {
	for i := range o.Items {
		if o.Items[i].ProductID == product.ID {
			o.Items[i].Quantity += quantity
			return
		}
	}
	o.Items = append(o.Items, Item{
		ProductID: product.ID,
		Name:      product.Name,
		ImgURL:    product.ImgURL,
		Quantity:  quantity,
		Price:     product.Price,
	})
}

// Total sums the item subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.SubTotal())
	}
	return total
}

// ReferencesProduct reports whether any line points at productID.
func (o *Order) ReferencesProduct(productID int64) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Validate checks the order invariants.
func (o *Order) Validate() error {
	var c validation.Collector
	c.Check(o.Client.ID != 0, "client", ErrNoClient)
	c.Check(len(o.Items) > 0, "items", ErrNoItems)
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			c.Add("items", ErrInvalidQuantity)
			break
		}
	}
	return c.Err()
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp
}
