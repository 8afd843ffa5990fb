package domain

import (
	"strings"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/money"
)

// DiscountType selects how a coupon's value is applied.
type DiscountType string

const (
	// DiscountFixed subtracts Value đồng.
	DiscountFixed DiscountType = "FIXED"
	// DiscountPercentage subtracts Value percent of the subtotal.
	DiscountPercentage DiscountType = "PERCENTAGE"
)

// State is where a coupon sits in its applicability lifecycle.
type State string

const (
	// StateEditable means the coupon was never redeemed; every field may change.
	StateEditable State = "EDITABLE"
	// StatePartiallyLocked means the coupon was redeemed; only endDate, quantity and the active flag may change.
	StatePartiallyLocked State = "PARTIALLY_LOCKED"
	// StateExpired means the coupon ran out of time or stock and is not offered at checkout.
	StateExpired State = "EXPIRED"
)

var (
	// ErrCouponLocked is returned when an edit touches a field frozen by redemptions.
	ErrCouponLocked = apperror.NewDomain("COUPON_LOCKED", "This coupon has already been used; only the end date, quantity and active flag can change.")
)

// Discount describes the reduction a coupon grants.
type Discount struct {
	// Type is FIXED or PERCENTAGE.
	Type DiscountType `json:"type"`
	// Value is đồng for FIXED and percent for PERCENTAGE.
	Value float64 `json:"value"`
	// MaxAmount caps a PERCENTAGE discount when set.
	MaxAmount *money.Amount `json:"maxAmount"`
	// MinOrder is the smallest subtotal the coupon applies to.
	MinOrder money.Amount `json:"minOrder"`
}

// Equal reports whether d and o grant the same discount.
func (d Discount) Equal(o Discount) bool {
	if d.Type != o.Type || d.Value != o.Value || d.MinOrder != o.MinOrder {
		return false
	}
	if d.MaxAmount == nil || o.MaxAmount == nil {
		return d.MaxAmount == nil && o.MaxAmount == nil
	}
	return *d.MaxAmount == *o.MaxAmount
}

// Coupon is a discount code issued by an admin.
type Coupon struct {
	ID        string    `json:"_id,omitempty"`
	Code      string    `json:"code"`
	Discount  Discount  `json:"discount"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Quantity  int       `json:"quantity"`
	UsedCount int       `json:"usedCount"`
	Active    bool      `json:"isActive"`
}

// State returns the lifecycle state at now. Running out of time or stock wins
// over the redemption lock.
func (c *Coupon) State(now time.Time) State {
	switch {
	case now.After(c.EndDate) || c.UsedCount >= c.Quantity:
		return StateExpired
	case c.UsedCount == 0:
		return StateEditable
	default:
		return StatePartiallyLocked
	}
}

// Locked reports whether redemptions have frozen the discount terms.
func (c *Coupon) Locked() bool {
	return c.UsedCount > 0
}

// Selectable reports whether the coupon may be offered at checkout at now.
func (c *Coupon) Selectable(now time.Time) bool {
	return c.Active && !now.Before(c.StartDate) && c.State(now) != StateExpired
}

// UsagePercent returns usedCount/quantity for the admin progress bar.
func (c *Coupon) UsagePercent() float64 {
	return money.UsagePercent(c.UsedCount, c.Quantity)
}

// Validate checks the cross-field rules of a coupon definition.
func (c *Coupon) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(c.Code) == "" {
		fields["code"] = "This field is required."
	}
	switch c.Discount.Type {
	case DiscountFixed:
	case DiscountPercentage:
		if c.Discount.Value > 100 {
			fields["discount.value"] = "A percentage cannot exceed 100."
		}
	default:
		fields["discount.type"] = "Must be one of: FIXED PERCENTAGE."
	}
	if c.Discount.Value <= 0 {
		fields["discount.value"] = "Must be greater than 0."
	}
	if c.Discount.MaxAmount != nil && *c.Discount.MaxAmount < 0 {
		fields["discount.maxAmount"] = "Must not be negative."
	}
	if c.Discount.MinOrder < 0 {
		fields["discount.minOrder"] = "Must not be negative."
	}
	if !c.EndDate.After(c.StartDate) {
		fields["endDate"] = "The end date must be after the start date."
	}
	if c.Quantity < 1 {
		fields["quantity"] = "Must be at least 1."
	}
	if c.UsedCount > c.Quantity && c.Quantity >= 1 {
		fields["quantity"] = "Cannot be lower than the number of coupons already used."
	}

	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

// CouponEdit is a partial update. Nil fields are left unchanged.
type CouponEdit struct {
	Code      *string    `json:"code,omitempty"`
	Discount  *Discount  `json:"discount,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
	Active    *bool      `json:"isActive,omitempty"`
}

// ApplyEdit returns the coupon with edit applied. Once the coupon is locked a
// change to the code, discount terms or start date fails with ErrCouponLocked;
// resending the current value is accepted.
func (c Coupon) ApplyEdit(edit CouponEdit) (Coupon, error) {
	if c.Locked() {
		if edit.Code != nil && normalizeCode(*edit.Code) != c.Code {
			return c, ErrCouponLocked
		}
		if edit.Discount != nil && !edit.Discount.Equal(c.Discount) {
			return c, ErrCouponLocked
		}
		if edit.StartDate != nil && !edit.StartDate.Equal(c.StartDate) {
			return c, ErrCouponLocked
		}
	}

	updated := c
	if edit.Code != nil {
		updated.Code = normalizeCode(*edit.Code)
	}
	if edit.Discount != nil {
		updated.Discount = *edit.Discount
	}
	if edit.StartDate != nil {
		updated.StartDate = *edit.StartDate
	}
	if edit.EndDate != nil {
		updated.EndDate = *edit.EndDate
	}
	if edit.Quantity != nil {
		updated.Quantity = *edit.Quantity
	}
	if edit.Active != nil {
		updated.Active = *edit.Active
	}

	if err := updated.Validate(); err != nil {
		return c, err
	}
	return updated, nil
}

// View is a coupon with the fields the admin table derives from it.
type View struct {
	Coupon
	State        State   `json:"state"`
	Locked       bool    `json:"locked"`
	UsagePercent float64 `json:"usagePercent"`
}

// NewView derives the admin fields at now.
func NewView(c Coupon, now time.Time) View {
	return View{
		Coupon:       c,
		State:        c.State(now),
		Locked:       c.Locked(),
		UsagePercent: c.UsagePercent(),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
