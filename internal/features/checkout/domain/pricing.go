// Package domain prices a cart at checkout, applying at most one coupon.
// All amounts are whole đồng and no computation can go below zero.
package domain

import (
	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/money"
	cart "storefront-gateway/internal/features/cart/domain"
	coupons "storefront-gateway/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrCouponInapplicable is returned when the cart does not meet the coupon's conditions.
	ErrCouponInapplicable = apperror.NewDomain("COUPON_INAPPLICABLE", "This coupon cannot be applied to your order.")
	// ErrCouponUnavailable is returned for a coupon that is unknown, inactive, not started or expired.
	ErrCouponUnavailable = apperror.NewDomain("COUPON_UNAVAILABLE", "This coupon is no longer available.")
	// ErrCartEmpty is returned when placing an order with an empty cart.
	ErrCartEmpty = apperror.NewDomain("CART_EMPTY", "Your cart is empty.")
)

// Discount is the outcome of applying a coupon to a subtotal.
type Discount struct {
	// Amount is the reduction in đồng. It is 0 when the coupon does not apply.
	Amount money.Amount `json:"amount"`
	// Applicable is false when no coupon was given or its conditions are not met.
	Applicable bool `json:"applicable"`
	// Reason explains why a given coupon does not apply.
	Reason string `json:"reason,omitempty"`
}

// ComputeLineTotal is unit price times quantity. The unit price on a cart
// line is already the variant price when a variant was chosen.
func ComputeLineTotal(item cart.LineItem) money.Amount {
	return item.Total()
}

// Subtotal sums the line totals.
func Subtotal(items []cart.LineItem) money.Amount {
	var total money.Amount
	for _, item := range items {
		total += ComputeLineTotal(item)
	}
	return total
}

// ComputeDiscount applies coupon to subtotal. A nil coupon grants nothing.
func ComputeDiscount(subtotal money.Amount, coupon *coupons.Coupon) Discount {
	if coupon == nil {
		return Discount{}
	}

	d := coupon.Discount
	if subtotal < d.MinOrder {
		return Discount{Reason: "Requires a minimum order of " + money.FormatVND(d.MinOrder) + "."}
	}

	var amount money.Amount
	switch d.Type {
	case coupons.DiscountFixed:
		amount = money.FromDecimal(decimal.NewFromFloat(d.Value))
	case coupons.DiscountPercentage:
		amount = money.Percent(subtotal, d.Value)
		// A zero cap means no cap.
		if d.MaxAmount != nil && *d.MaxAmount > 0 {
			amount = money.Min(amount, *d.MaxAmount)
		}
	default:
		return Discount{Reason: "Unsupported discount type."}
	}

	amount = money.Min(money.Max(amount, 0), subtotal)
	return Discount{Amount: amount, Applicable: true}
}

// FinalTotal is subtotal minus discount, never below zero.
func FinalTotal(subtotal, discount money.Amount) money.Amount {
	return money.Max(0, subtotal-discount)
}

// Quote is the priced cart shown on the checkout page.
type Quote struct {
	Items     []cart.LineItem `json:"items"`
	Subtotal  money.Amount    `json:"subtotal"`
	CouponID  string          `json:"couponId,omitempty"`
	Discount  Discount        `json:"discount"`
	Total     money.Amount    `json:"total"`
	Formatted Formatted       `json:"formatted"`
}

// Formatted holds the display strings of a Quote.
type Formatted struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// NewQuote prices items with an optional coupon.
func NewQuote(items []cart.LineItem, coupon *coupons.Coupon) Quote {
	if items == nil {
		items = []cart.LineItem{}
	}

	subtotal := Subtotal(items)
	discount := ComputeDiscount(subtotal, coupon)
	total := FinalTotal(subtotal, discount.Amount)

	q := Quote{
		Items:    items,
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
		Formatted: Formatted{
			Subtotal: money.FormatVND(subtotal),
			Discount: money.FormatVND(discount.Amount),
			Total:    money.FormatVND(total),
		},
	}
	if coupon != nil {
		q.CouponID = coupon.ID
	}
	return q
}
