package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/shared/validation"
)

var (
	ErrInvalidName        = errors.New("name must have 3 to 80 characters")
	ErrInvalidDescription = errors.New("description must have at least 10 characters")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrNoCategories       = errors.New("product must have at least one category")
)

// Product is the catalog aggregate. Categories are referenced by id; names
// are filled in by repositories on read.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImgURL      string
	Categories  []Category
}

// Validate checks every product invariant and reports all violations at once.
func (p *Product) Validate() error {
	var c validation.Collector
	nameLen := utf8.RuneCountInString(strings.TrimSpace(p.Name))
	c.Check(nameLen >= 3 && nameLen <= 80, "name", ErrInvalidName)
	c.Check(utf8.RuneCountInString(strings.TrimSpace(p.Description)) >= 10, "description", ErrInvalidDescription)
	c.Check(p.Price.IsPositive(), "price", ErrInvalidPrice)
	c.Check(len(p.Categories) > 0, "categories", ErrNoCategories)
	return c.Err()
}

// ReplaceCategories swaps the category set, dropping duplicate ids.
func (p *Product) ReplaceCategories(categories []Category) {
	seen := make(map[int64]struct{}, len(categories))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	p.Categories = out
}

// CategoryIDs lists the referenced category ids.
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// MatchesName reports whether name appears in the product name, ignoring case.
func (p *Product) MatchesName(name string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(name)))
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Categories = append([]Category(nil), p.Categories...)
	return &cp
}
