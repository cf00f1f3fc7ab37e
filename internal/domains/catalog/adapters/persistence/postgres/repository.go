// Package postgres persists the catalog through GORM. The same records serve
// PostgreSQL and MySQL; the schema is owned by platform/migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/platform/database"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

var (
	_ ports.ProductRepository  = (*Repository)(nil)
	_ ports.CategoryRepository = (*Repository)(nil)
)

// Repository persists products and categories using GORM. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name"`
}

func (categoryRecord) TableName() string { return "tb_category" }

type productRecord struct {
	ID          int64            `gorm:"primaryKey;column:id"`
	Name        string           `gorm:"column:name"`
	Description string           `gorm:"column:description"`
	Price       decimal.Decimal  `gorm:"column:price"`
	ImgURL      string           `gorm:"column:img_url"`
	Categories  []categoryRecord `gorm:"many2many:tb_product_category;joinForeignKey:ProductID;joinReferences:CategoryID"`
}

func (productRecord) TableName() string { return "tb_product" }

type productCategoryRecord struct {
	ProductID  int64 `gorm:"primaryKey;column:product_id"`
	CategoryID int64 `gorm:"primaryKey;column:category_id"`
}

func (productCategoryRecord) TableName() string { return "tb_product_category" }

func (r *Repository) FindAll(ctx context.Context) ([]domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return findProduct(r.db.WithContext(ctx), id)
}

func (r *Repository) GetReference(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *Repository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) SearchByName(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	page = page.Normalize()
	byName := func(db *gorm.DB) *gorm.DB {
		if name == "" {
			return db
		}
		return db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Scopes(byName).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	var records []productRecord
	err := r.db.WithContext(ctx).
		Scopes(byName).
		Order(orderBy(page.Sort)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return pagination.NewPage(products, page, total), nil
}

func orderBy(sort pagination.Sort) clause.OrderByColumn {
	field := "id"
	for _, allowed := range ports.ProductSortFields {
		if sort.Field == allowed {
			field = allowed
		}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: sort.Direction == pagination.Desc}
}

// Save writes the product row and rewrites its category links in one transaction.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	var saved *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := product.CategoryIDs()
		if len(ids) > 0 {
			var known int64
			if err := tx.Model(&categoryRecord{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
				return err
			}
			if known != int64(len(ids)) {
				return ports.ErrCategoryNotFound
			}
		}

		rec := toRecord(product)
		if rec.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&productRecord{ID: rec.ID}).Select("name", "description", "price", "img_url").Updates(&rec)
			if res.Error != nil {
				return res.Error
			}
		}

		if err := tx.Where("product_id = ?", rec.ID).Delete(&productCategoryRecord{}).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			links := make([]productCategoryRecord, 0, len(ids))
			for _, id := range ids {
				links = append(links, productCategoryRecord{ProductID: rec.ID, CategoryID: id})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		var err error
		saved, err = findProduct(tx, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteByID removes the product and its category links. Order items still
// pointing at the product make the delete fail with ErrIntegrityViolation.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&productCategoryRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&productRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", ports.ErrIntegrityViolation, err)
	}
	return err
}

func findProduct(db *gorm.DB, id int64) (*domain.Product, error) {
	var rec productRecord
	err := db.Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("tb_category.id") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("catalog repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
	}
}

func (r categoryRecord) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name}
}

func (r productRecord) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImgURL:      r.ImgURL,
		Categories:  make([]domain.Category, 0, len(r.Categories)),
	}
	for _, c := range r.Categories {
		p.Categories = append(p.Categories, c.toDomain())
	}
	return p
}
