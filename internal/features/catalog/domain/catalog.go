package domain

import (
	"fmt"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/money"
)

var (
	// ErrDuplicateSKU is returned when two variants of a product share a SKU.
	ErrDuplicateSKU = apperror.NewDomain("DUPLICATE_SKU", "Each variant of a product needs its own SKU.")
	// ErrVariantRequired is returned when a product with variants is picked without one.
	ErrVariantRequired = apperror.NewDomain("VARIANT_REQUIRED", "Please choose a color and storage option first.")
	// ErrVariantNotFound is returned when the chosen options match no variant.
	ErrVariantNotFound = apperror.NewDomain("VARIANT_NOT_FOUND", "This option is not available.")
)

// Variant is one sellable configuration of a product.
type Variant struct {
	SKU     string       `json:"sku"`
	Color   string       `json:"color"`
	Storage string       `json:"storage"`
	Price   money.Amount `json:"price"`
	Stock   int          `json:"stock"`
}

// Product is a catalog entry. Destroy marks a soft-deleted product.
type Product struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Description string            `json:"description,omitempty"`
	Price       money.Amount      `json:"price"`
	Stock       int               `json:"stock"`
	Sold        int               `json:"sold"`
	CategoryID  string            `json:"categoryId"`
	Image       string            `json:"image"`
	Specs       map[string]string `json:"specs,omitempty"`
	Variants    []Variant         `json:"variants"`
	Destroy     bool              `json:"_destroy"`
}

// HasVariants reports whether a variant must be chosen before purchase.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantBySKU finds a variant by SKU.
func (p *Product) VariantBySKU(sku string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// FindVariant finds the variant with the given color and storage.
func (p *Product) FindVariant(color, storage string) (*Variant, bool) {
	for i := range p.Variants {
		v := &p.Variants[i]
		if strings.EqualFold(v.Color, color) && strings.EqualFold(v.Storage, storage) {
			return v, true
		}
	}
	return nil, false
}

// ResolveVariant picks the variant for a purchase. A SKU wins over a
// color/storage pair. A product without variants resolves to nil.
func (p *Product) ResolveVariant(sku, color, storage string) (*Variant, error) {
	if !p.HasVariants() {
		return nil, nil
	}

	if sku != "" {
		if v, ok := p.VariantBySKU(sku); ok {
			return v, nil
		}
		return nil, ErrVariantNotFound
	}

	if color == "" || storage == "" {
		return nil, ErrVariantRequired
	}
	if v, ok := p.FindVariant(color, storage); ok {
		return v, nil
	}
	return nil, ErrVariantNotFound
}

// UnitPrice returns the variant price for sku, or the base price for a
// product without variants.
func (p *Product) UnitPrice(sku string) (money.Amount, error) {
	v, err := p.ResolveVariant(sku, "", "")
	if err != nil {
		return 0, err
	}
	if v == nil {
		return p.Price, nil
	}
	return v.Price, nil
}

// ValidateVariants checks every variant has a unique SKU and a positive price.
func (p *Product) ValidateVariants() error {
	fields := map[string]string{}
	seen := make(map[string]bool, len(p.Variants))

	for i, v := range p.Variants {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			fields[fmt.Sprintf("variants[%d].sku", i)] = "This field is required."
			continue
		}
		if seen[sku] {
			return ErrDuplicateSKU
		}
		seen[sku] = true

		if v.Price <= 0 {
			fields[fmt.Sprintf("variants[%d].price", i)] = "Must be greater than 0."
		}
		if v.Stock < 0 {
			fields[fmt.Sprintf("variants[%d].stock", i)] = "Must not be negative."
		}
	}

	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

// Category groups products. Destroy marks a soft-deleted category.
type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Products    []Product `json:"products,omitempty"`
	Destroy     bool      `json:"_destroy"`
}

// Visible drops soft-deleted records from a storefront listing.
func Visible[T any](items []T, destroyed func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !destroyed(item) {
			out = append(out, item)
		}
	}
	return out
}

// VisibleProducts drops soft-deleted products.
func VisibleProducts(products []Product) []Product {
	return Visible(products, func(p Product) bool { return p.Destroy })
}

// VisibleCategories drops soft-deleted categories and their soft-deleted products.
func VisibleCategories(categories []Category) []Category {
	out := Visible(categories, func(c Category) bool { return c.Destroy })
	for i := range out {
		if out[i].Products != nil {
			out[i].Products = VisibleProducts(out[i].Products)
		}
	}
	return out
}
