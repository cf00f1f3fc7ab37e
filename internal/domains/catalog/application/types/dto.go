// Package types holds the transfer representations returned by catalog services.
package types

import (
	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImgURL      string          `json:"imgUrl"`
	Categories  []CategoryDTO   `json:"categories"`
}

// ProductMinDTO is the listing projection of a product.
type ProductMinDTO struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	ImgURL string          `json:"imgUrl"`
}

func FromCategory(c domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func FromProduct(p *domain.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Categories:  make([]CategoryDTO, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, FromCategory(c))
	}
	return dto
}

func MinFromProduct(p *domain.Product) ProductMinDTO {
	return ProductMinDTO{ID: p.ID, Name: p.Name, Price: p.Price, ImgURL: p.ImgURL}
}

// CopyTo writes the editable fields onto an entity, replacing its categories.
func (d ProductDTO) CopyTo(p *domain.Product) {
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	p.ImgURL = d.ImgURL
	categories := make([]domain.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name})
	}
	p.ReplaceCategories(categories)
}
