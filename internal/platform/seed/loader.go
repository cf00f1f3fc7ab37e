package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	catalogmemory "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/memory"
	ordersmemory "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/memory"
	usersmemory "github.com/devsuperior/dscommerce/internal/domains/users/adapters/memory"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/platform/sqlite"
)

var sequencedTables = []string{"tb_category", "tb_product", "tb_role", "tb_user", "tb_order"}

// LoadSQL writes data into an empty relational store in one transaction. It
// reports false without writing when roles already exist. db may wrap a gorm
// connection; its driver name selects placeholders and column encodings.
func LoadSQL(ctx context.Context, db *sqlx.DB, data Data, encoder ports.PasswordEncoder) (bool, error) {
	var roles int
	if err := db.GetContext(ctx, &roles, `SELECT COUNT(*) FROM tb_role`); err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	if roles > 0 {
		return false, nil
	}

	embedded := db.DriverName() == sqlite.DriverName
	moment := func(t time.Time) any {
		if embedded {
			return sqlite.FormatTime(t)
		}
		return t.UTC()
	}
	birth := func(t time.Time) any {
		if t.IsZero() {
			return nil
		}
		if embedded {
			return t.Format("2006-01-02")
		}
		return t
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}

	for _, c := range data.Categories {
		if err := exec(`INSERT INTO tb_category(id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
			return false, fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}
	for _, p := range data.Products {
		if err := exec(`INSERT INTO tb_product(id, name, description, price, img_url) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, p.Price.String(), p.ImgURL); err != nil {
			return false, fmt.Errorf("seed product %d: %w", p.ID, err)
		}
		for _, categoryID := range p.CategoryIDs() {
			if err := exec(`INSERT INTO tb_product_category(product_id, category_id) VALUES (?, ?)`, p.ID, categoryID); err != nil {
				return false, fmt.Errorf("seed product %d category %d: %w", p.ID, categoryID, err)
			}
		}
	}
	for _, r := range data.Roles {
		if err := exec(`INSERT INTO tb_role(id, authority) VALUES (?, ?)`, r.ID, r.Authority); err != nil {
			return false, fmt.Errorf("seed role %s: %w", r.Authority, err)
		}
	}
	for _, u := range data.Users {
		hash, err := encoder.Encode(u.Password)
		if err != nil {
			return false, fmt.Errorf("encode password for %s: %w", u.Email, err)
		}
		if err := exec(`INSERT INTO tb_user(id, name, email, phone, birth_date, password) VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.Phone, birth(u.BirthDate), hash); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		for _, r := range u.Roles {
			if err := exec(`INSERT INTO tb_user_role(user_id, role_id) VALUES (?, ?)`, u.ID, r.ID); err != nil {
				return false, fmt.Errorf("seed user %s role %s: %w", u.Email, r.Authority, err)
			}
		}
	}
	for _, o := range data.Orders {
		if err := exec(`INSERT INTO tb_order(id, moment, status, client_id) VALUES (?, ?, ?, ?)`,
			o.ID, moment(o.Moment), string(o.Status), o.Client.ID); err != nil {
			return false, fmt.Errorf("seed order %d: %w", o.ID, err)
		}
		for _, item := range o.Items {
			if err := exec(`INSERT INTO tb_order_item(order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
				o.ID, item.ProductID, item.Quantity, item.Price.String()); err != nil {
				return false, fmt.Errorf("seed order %d item %d: %w", o.ID, item.ProductID, err)
			}
		}
	}

	// Explicit ids leave PostgreSQL sequences behind the data.
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		for _, table := range sequencedTables {
			query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`, table, table)
			if err := exec(query); err != nil {
				return false, fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Memory groups the in-memory repositories seeded together.
type Memory struct {
	Catalog *catalogmemory.Repository
	Users   *usersmemory.Repository
	Orders  *ordersmemory.Repository
}

// LoadMemory writes data into the in-memory repositories.
func LoadMemory(ctx context.Context, stores Memory, data Data, encoder ports.PasswordEncoder) error {
	if stores.Catalog != nil {
		for _, c := range data.Categories {
			stores.Catalog.PutCategory(c)
		}
		for _, p := range data.Products {
			stores.Catalog.Put(p)
		}
	}
	if stores.Users != nil {
		for _, u := range data.Users {
			hash, err := encoder.Encode(u.Password)
			if err != nil {
				return fmt.Errorf("encode password for %s: %w", u.Email, err)
			}
			seeded := u.Clone()
			seeded.Password = hash
			if _, err := stores.Users.Save(ctx, seeded); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}
	}
	if stores.Orders != nil {
		for _, o := range data.Orders {
			if _, err := stores.Orders.Save(ctx, o); err != nil {
				return fmt.Errorf("seed order %d: %w", o.ID, err)
			}
		}
	}
	return nil
}
