package domain

// Category groups products in the catalog.
type Category struct {
	ID   int64
	Name string
}
