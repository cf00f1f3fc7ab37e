package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

var (
	_ ports.ProductRepository  = (*Repository)(nil)
	_ ports.CategoryRepository = (*Repository)(nil)
)

// ReferenceChecker reports whether other records still point at a product.
type ReferenceChecker func(ctx context.Context, productID int64) (bool, error)

// Repository is an in-memory catalog used for demos/tests.
type Repository struct {
	mu         sync.RWMutex
	products   map[int64]*domain.Product
	categories map[int64]domain.Category
	nextID     int64
	references ReferenceChecker
}

// Option customises the repository.
type Option func(*Repository)

// WithReferenceChecker installs the lookup consulted before a product is
// deleted; a positive answer fails the delete with ErrIntegrityViolation.
func WithReferenceChecker(check ReferenceChecker) Option {
	return func(r *Repository) { r.references = check }
}

// WithCategories seeds the category table.
func WithCategories(categories ...domain.Category) Option {
	return func(r *Repository) {
		for _, c := range categories {
			r.categories[c.ID] = c
		}
	}
}

// NewRepository constructs an empty in-memory store.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		products:   map[int64]*domain.Product{},
		categories: map[int64]domain.Category{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetReferenceChecker replaces the reference lookup after construction,
// for wiring where the referencing store is built later.
func (r *Repository) SetReferenceChecker(check ReferenceChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.references = check
}

func (r *Repository) FindAll(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *Repository) GetReference(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *Repository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok, nil
}

func (r *Repository) SearchByName(_ context.Context, name string, page pagination.Pageable) (pagination.Page[*domain.Product], error) {
	r.mu.RLock()
	matches := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.MatchesName(name) {
			matches = append(matches, p.Clone())
		}
	}
	r.mu.RUnlock()

	page = page.Normalize()
	slices.SortStableFunc(matches, productOrder(page.Sort))
	return pagination.Slice(matches, page), nil
}

func productOrder(sort pagination.Sort) func(a, b *domain.Product) int {
	var by func(a, b *domain.Product) int
	switch sort.Field {
	case "name":
		by = func(a, b *domain.Product) int { return strings.Compare(a.Name, b.Name) }
	case "price":
		by = func(a, b *domain.Product) int { return a.Price.Cmp(b.Price) }
	default:
		by = func(a, b *domain.Product) int { return cmp.Compare(a.ID, b.ID) }
	}
	if sort.Direction == pagination.Desc {
		return func(a, b *domain.Product) int { return by(b, a) }
	}
	return by
}

// Save inserts or replaces a product, resolving category names.
func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := product.Clone()
	for i, c := range stored.Categories {
		known, ok := r.categories[c.ID]
		if !ok {
			return nil, ports.ErrCategoryNotFound
		}
		stored.Categories[i] = known
	}
	if stored.ID == 0 {
		r.nextID++
		stored.ID = r.nextID
	} else if _, ok := r.products[stored.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	if stored.ID > r.nextID {
		r.nextID = stored.ID
	}
	r.products[stored.ID] = stored
	return stored.Clone(), nil
}

// Put stores a product with an explicit id, bypassing the insert/update split.
// Used to load seed data.
func (r *Repository) Put(product *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := product.Clone()
	for i, c := range stored.Categories {
		if known, ok := r.categories[c.ID]; ok {
			stored.Categories[i] = known
		}
	}
	r.products[stored.ID] = stored
	if stored.ID > r.nextID {
		r.nextID = stored.ID
	}
}

// PutCategory stores a category.
func (r *Repository) PutCategory(category domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.RLock()
	check := r.references
	r.mu.RUnlock()
	if check != nil {
		referenced, err := check(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return ports.ErrIntegrityViolation
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}
