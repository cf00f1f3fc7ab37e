// Package seed loads the reference data set used by local runs and demos.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	ordersdomain "github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	usersdomain "github.com/devsuperior/dscommerce/internal/domains/users/domain"
)

// DefaultPassword is the raw password of every seeded account.
const DefaultPassword = "123456"

// Data is a complete, internally consistent data set. User passwords are raw
// and get encoded by the loaders.
type Data struct {
	Categories []catalogdomain.Category
	Products   []*catalogdomain.Product
	Roles      []usersdomain.Role
	Users      []*usersdomain.User
	Orders     []*ordersdomain.Order
}

var (
	books     = catalogdomain.Category{ID: 1, Name: "Livros"}
	electrics = catalogdomain.Category{ID: 2, Name: "Eletrônicos"}
	computers = catalogdomain.Category{ID: 3, Name: "Computadores"}

	roleClient = usersdomain.Role{ID: 1, Authority: usersdomain.RoleClient}
	roleAdmin  = usersdomain.Role{ID: 2, Authority: usersdomain.RoleAdmin}
)

const lorem = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."

const imgBase = "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/"

func product(id int64, name, price, img string, categories ...catalogdomain.Category) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:          id,
		Name:        name,
		Description: lorem,
		Price:       decimal.RequireFromString(price),
		ImgURL:      imgBase + img,
		Categories:  categories,
	}
}

// Reference returns a fresh copy of the reference data set.
func Reference() Data {
	products := []*catalogdomain.Product{
		product(1, "The Lord of the Rings", "90.5", "1-big.jpg", books),
		product(2, "Smart TV", "2190.0", "2-big.jpg", electrics, computers),
		product(3, "Macbook Pro", "1250.0", "3-big.jpg", computers),
		product(4, "PC Gamer", "1200.0", "4-big.jpg", computers),
		product(5, "Rails for Dummies", "100.99", "5-big.jpg", books),
		product(6, "PC Gamer Ex", "1350.0", "6-big.jpg", computers),
		product(7, "PC Gamer X", "1350.0", "7-big.jpg", computers),
		product(8, "PC Gamer Alfa", "1850.0", "8-big.jpg", computers),
		product(9, "PC Gamer Tera", "1950.0", "9-big.jpg", computers),
		product(10, "PC Gamer Y", "1700.0", "10-big.jpg", computers),
		product(11, "PC Gamer Nitro", "1450.0", "11-big.jpg", computers),
		product(12, "PC Gamer Card", "1850.0", "12-big.jpg", computers),
		product(13, "PC Gamer Plus", "1350.0", "13-big.jpg", computers),
		product(14, "PC Gamer Hera", "2250.0", "14-big.jpg", computers),
		product(15, "PC Gamer Weed", "2200.0", "15-big.jpg", computers),
	}

	maria := &usersdomain.User{
		ID:        1,
		Name:      "Maria Brown",
		Email:     "maria@gmail.com",
		Phone:     "988888888",
		BirthDate: time.Date(2001, time.July, 25, 0, 0, 0, 0, time.UTC),
		Password:  DefaultPassword,
		Roles:     []usersdomain.Role{roleClient},
	}
	alex := &usersdomain.User{
		ID:        2,
		Name:      "Alex Green",
		Email:     "alex@gmail.com",
		Phone:     "977777777",
		BirthDate: time.Date(1987, time.December, 13, 0, 0, 0, 0, time.UTC),
		Password:  DefaultPassword,
		Roles:     []usersdomain.Role{roleClient, roleAdmin},
	}

	order := func(id int64, client *usersdomain.User, status ordersdomain.Status, moment time.Time, lines ...line) *ordersdomain.Order {
		o := &ordersdomain.Order{
			ID:     id,
			Moment: moment,
			Status: status,
			Client: ordersdomain.Client{ID: client.ID, Name: client.Name},
		}
		for _, l := range lines {
			p := products[l.productID-1]
			o.Items = append(o.Items, ordersdomain.Item{
				ProductID: p.ID,
				Name:      p.Name,
				ImgURL:    p.ImgURL,
				Quantity:  l.quantity,
				Price:     p.Price,
			})
		}
		return o
	}

	return Data{
		Categories: []catalogdomain.Category{books, electrics, computers},
		Products:   products,
		Roles:      []usersdomain.Role{roleClient, roleAdmin},
		Users:      []*usersdomain.User{maria, alex},
		Orders: []*ordersdomain.Order{
			order(1, maria, ordersdomain.StatusPaid, time.Date(2022, time.July, 25, 13, 0, 0, 0, time.UTC), line{1, 2}, line{3, 1}),
			order(2, alex, ordersdomain.StatusDelivered, time.Date(2022, time.July, 29, 15, 50, 0, 0, time.UTC), line{3, 1}),
			order(3, maria, ordersdomain.StatusWaitingPayment, time.Date(2022, time.August, 3, 14, 20, 0, 0, time.UTC), line{1, 1}),
		},
	}
}

type line struct {
	productID int64
	quantity  int
}
