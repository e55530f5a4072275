package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog snapshot. Cart lines embed it by reference.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	ImageURL    string   // Already resolved against the store origin.
	Images      []string // Already resolved against the store origin.
	Sizes       []string
	Colors      []string
	Stock       int
	Featured    bool
	CreatedAt   time.Time
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}

// Testimonial is a customer review shown on the storefront.
type Testimonial struct {
	ID        string
	Name      string
	AvatarURL string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
