// Package sqlite persists the catalog in the embedded SQLite store through sqlx.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/platform/database"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

var (
	_ ports.ProductRepository  = (*Repository)(nil)
	_ ports.CategoryRepository = (*Repository)(nil)
)

// Repository persists products and categories with hand-written SQL.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type categoryRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type productRow struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Price       decimal.Decimal `db:"price"`
	ImgURL      sql.NullString  `db:"img_url"`
}

type productCategoryRow struct {
	ProductID int64  `db:"product_id"`
	ID        int64  `db:"id"`
	Name      string `db:"name"`
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM tb_category ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return findProduct(ctx, r.db, id)
}

func (r *Repository) GetReference(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *Repository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tb_product WHERE id = ?)`, id)
	return exists, err
}

func (r *Repository) SearchByName(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[*domain.Product], error) {
	page = page.Normalize()
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tb_product WHERE LOWER(name) LIKE ?`, pattern); err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	var rows []productRow
	query := `SELECT id, name, description, price, img_url FROM tb_product
		WHERE LOWER(name) LIKE ? ORDER BY ` + orderBy(page.Sort) + ` LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &rows, query, pattern, page.Size, page.Offset()); err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	if err := attachCategories(ctx, r.db, products); err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return pagination.NewPage(products, page, total), nil
}

// orderBy only ever emits whitelisted column names.
func orderBy(sort pagination.Sort) string {
	field := "id"
	for _, allowed := range ports.ProductSortFields {
		if sort.Field == allowed {
			field = allowed
		}
	}
	if field == "price" {
		field = "CAST(price AS REAL)"
	}
	if sort.Direction == pagination.Desc {
		return field + " DESC, id"
	}
	return field + " ASC, id"
}

// Save writes the product row and rewrites its category links in one transaction.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := product.CategoryIDs()
	if len(ids) > 0 {
		query, args, err := sqlx.In(`SELECT COUNT(*) FROM tb_category WHERE id IN (?)`, ids)
		if err != nil {
			return nil, err
		}
		var known int
		if err := tx.GetContext(ctx, &known, tx.Rebind(query), args...); err != nil {
			return nil, err
		}
		if known != len(ids) {
			return nil, ports.ErrCategoryNotFound
		}
	}

	id := product.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tb_product(name, description, price, img_url) VALUES (?, ?, ?, ?)`,
			product.Name, product.Description, product.Price.String(), product.ImgURL)
		if err != nil {
			return nil, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE tb_product SET name = ?, description = ?, price = ?, img_url = ? WHERE id = ?`,
			product.Name, product.Description, product.Price.String(), product.ImgURL, id)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, ports.ErrNotFound
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tb_product_category WHERE product_id = ?`, id); err != nil {
		return nil, err
	}
	for _, categoryID := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tb_product_category(product_id, category_id) VALUES (?, ?)`, id, categoryID); err != nil {
			return nil, err
		}
	}

	saved, err := findProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteByID removes the product; its category links cascade. Order items
// still pointing at it make the delete fail with ErrIntegrityViolation.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tb_product WHERE id = ?`, id)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", ports.ErrIntegrityViolation, err)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func findProduct(ctx context.Context, q queryer, id int64) (*domain.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT id, name, description, price, img_url FROM tb_product WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	product := row.toDomain()
	if err := attachCategories(ctx, q, []*domain.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func attachCategories(ctx context.Context, q queryer, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Product, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	query, args, err := sqlx.In(`SELECT pc.product_id, c.id, c.name
		FROM tb_product_category pc JOIN tb_category c ON c.id = pc.category_id
		WHERE pc.product_id IN (?) ORDER BY c.id`, ids)
	if err != nil {
		return err
	}
	var rows []productCategoryRow
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return err
	}
	for _, row := range rows {
		p := byID[row.ProductID]
		p.Categories = append(p.Categories, domain.Category{ID: row.ID, Name: row.Name})
	}
	return nil
}

func (r productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		Price:       r.Price,
		ImgURL:      r.ImgURL.String,
		Categories:  []domain.Category{},
	}
}
