package domain

import (
	"fmt"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/money"
	catalog "storefront-gateway/internal/features/catalog/domain"
)

// LineItem is one product (and variant) in the cart.
type LineItem struct {
	ProductID string       `json:"productId"`
	SKU       string       `json:"sku,omitempty"`
	Name      string       `json:"name"`
	Color     string       `json:"color,omitempty"`
	Storage   string       `json:"storage,omitempty"`
	Image     string       `json:"image"`
	Price     money.Amount `json:"price"`
	Quantity  int          `json:"quantity"`
	LineTotal money.Amount `json:"totalPriceItem"`
}

// Total is price times quantity.
func (l LineItem) Total() money.Amount {
	return l.Price.Mul(l.Quantity)
}

// Matches reports whether the line holds productID with sku.
func (l LineItem) Matches(productID, sku string) bool {
	return l.ProductID == productID && l.SKU == sku
}

// Cart is the signed-in user's cart as returned by the backend.
type Cart struct {
	Products   []LineItem   `json:"products"`
	TotalPrice money.Amount `json:"totalPrice"`
}

// Normalize recomputes every line total and the cart total.
func (c *Cart) Normalize() {
	if c.Products == nil {
		c.Products = []LineItem{}
	}

	var total money.Amount
	for i := range c.Products {
		c.Products[i].LineTotal = c.Products[i].Total()
		total += c.Products[i].LineTotal
	}
	c.TotalPrice = total
}

// Find returns the line for productID and sku.
func (c *Cart) Find(productID, sku string) (*LineItem, bool) {
	for i := range c.Products {
		if c.Products[i].Matches(productID, sku) {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Products) == 0
}

// AddItem is a request to put a product in the cart. A product with variants
// needs either SKU or both Color and Storage.
type AddItem struct {
	ProductID string `json:"productId" validate:"required"`
	SKU       string `json:"sku"`
	Color     string `json:"color"`
	Storage   string `json:"storage"`
	Quantity  int    `json:"quantity"`
}

// Mutation is the body the backend accepts for add and update.
type Mutation struct {
	ProductID string
	SKU       string
	Quantity  int
}

// PrepareAdd applies the variant gate and resolves the SKU to send.
// Soft-deleted products cannot be added.
func PrepareAdd(product *catalog.Product, in AddItem) (Mutation, error) {
	if product.Destroy {
		return Mutation{}, fmt.Errorf("product %s: %w", product.ID, apperror.ErrNotFound)
	}
	if in.Quantity < 1 {
		return Mutation{}, apperror.NewValidation("quantity", "Must be at least 1.")
	}

	variant, err := product.ResolveVariant(in.SKU, in.Color, in.Storage)
	if err != nil {
		return Mutation{}, err
	}

	m := Mutation{ProductID: product.ID, Quantity: in.Quantity}
	if variant != nil {
		m.SKU = variant.SKU
	}
	return m, nil
}

// CheckQuantity rejects negative line quantities.
func CheckQuantity(quantity int) error {
	if quantity < 0 {
		return apperror.NewValidation("quantity", "Must not be negative.")
	}
	return nil
}

// PrepareSetQuantity checks a quantity change against the current cart.
// Quantity 0 removes the line. The bool result is false when nothing needs
// to be sent because the line is already gone.
func PrepareSetQuantity(current *Cart, productID, sku string, quantity int) (Mutation, bool, error) {
	if err := CheckQuantity(quantity); err != nil {
		return Mutation{}, false, err
	}

	m := Mutation{ProductID: productID, SKU: sku, Quantity: quantity}

	var found bool
	if current != nil {
		_, found = current.Find(productID, sku)
	}
	if found {
		return m, true, nil
	}
	if quantity == 0 {
		return m, false, nil
	}
	return Mutation{}, false, fmt.Errorf("cart line %s/%s: %w", productID, sku, apperror.ErrNotFound)
}
