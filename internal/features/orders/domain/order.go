package domain

import (
	"sort"
	"strings"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/money"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	// OrderStatusPending is a placed order awaiting confirmation.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed is an order accepted by the shop.
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusShipping is an order handed to the carrier.
	OrderStatusShipping OrderStatus = "SHIPPING"
	// OrderStatusDelivered is a completed order. Terminal.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled is a cancelled order. Terminal.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var (
	// ErrInvalidTransition is returned when the target status is not reachable from the current one.
	ErrInvalidTransition = apperror.NewDomain("INVALID_TRANSITION", "This status change is not allowed.")
	// ErrOrderNotCancellable is returned when a customer cancels an order that is no longer pending.
	ErrOrderNotCancellable = apperror.NewDomain("ORDER_NOT_CANCELLABLE", "Only pending orders can be cancelled.")
)

// levels orders the statuses for comparison only.
var levels = map[OrderStatus]int{
	OrderStatusPending:   1,
	OrderStatusConfirmed: 2,
	OrderStatusShipping:  3,
	OrderStatusDelivered: 4,
	OrderStatusCancelled: 99,
}

// Statuses lists every status by level.
func Statuses() []OrderStatus {
	all := make([]OrderStatus, 0, len(levels))
	for s := range levels {
		all = append(all, s)
	}
	sortByLevel(all)
	return all
}

// ParseStatus accepts any letter case and surrounding spaces.
func ParseStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	_, ok := levels[s]
	return ok
}

// Level returns the comparison level, or 0 for an unknown status.
func (s OrderStatus) Level() int {
	return levels[s]
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// AllowedNextStates returns the statuses a user may pick next, ordered by level.
// A terminal status only offers itself. Any other status offers every status at
// or above its level plus CANCELLED. The current status is always included so
// it can be re-displayed unchanged.
func AllowedNextStates(current OrderStatus) []OrderStatus {
	if !current.IsValid() {
		return []OrderStatus{}
	}
	if current.IsTerminal() {
		return []OrderStatus{current}
	}

	next := make([]OrderStatus, 0, len(levels))
	for s, level := range levels {
		if level >= current.Level() || s == OrderStatusCancelled {
			next = append(next, s)
		}
	}
	sortByLevel(next)
	return next
}

// CanTransition reports whether to is offered from from.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range AllowedNextStates(from) {
		if s == to {
			return true
		}
	}
	return false
}

func sortByLevel(statuses []OrderStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Level() < statuses[j].Level()
	})
}

// ShippingAddress is the delivery contact captured at checkout.
type ShippingAddress struct {
	// Fullname is the recipient's name.
	Fullname string `json:"fullname" validate:"required"`
	// Phone is the recipient's phone number.
	Phone string `json:"phone" validate:"required"`
	// Address is the free-text delivery address.
	Address string `json:"address" validate:"required"`
	// Note is an optional message for the shop.
	Note string `json:"note,omitempty"`
}

// OrderItem is one purchased line.
type OrderItem struct {
	ProductID  string       `json:"productId"`
	Name       string       `json:"name"`
	Image      string       `json:"image,omitempty"`
	SKU        string       `json:"sku"`
	Price      money.Amount `json:"price"`
	Quantity   int          `json:"quantity"`
	TotalPrice money.Amount `json:"totalPrice"`
}

// Order is the client's read copy of a backend order.
type Order struct {
	// ID is the backend identifier.
	ID string `json:"_id"`
	// UserID is the customer who placed the order.
	UserID string `json:"userId,omitempty"`
	// Products holds the purchased lines.
	Products []OrderItem `json:"products"`
	// ShippingAddress is where the order is delivered.
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	// PaymentMethod is COD, MOMO or VNPAY.
	PaymentMethod string `json:"paymentMethod,omitempty"`
	// Status is the fulfillment state.
	Status OrderStatus `json:"status"`
	// TotalPrice is the subtotal before discount.
	TotalPrice money.Amount `json:"totalPrice"`
	// DiscountAmount is the coupon discount applied by the backend.
	DiscountAmount money.Amount `json:"discountAmount"`
	// FinalPrice is the amount payable.
	FinalPrice money.Amount `json:"finalPrice"`
	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the last backend change.
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CheckTransition validates a move of the order to status to.
// It does not change the order: the backend's answer replaces the copy.
func (o *Order) CheckTransition(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}
	return nil
}

// CustomerCancellable reports whether the customer may still cancel the order.
func (o *Order) CustomerCancellable() bool {
	return o.Status == OrderStatusPending
}

// StatusOption describes a status for building selection lists.
type StatusOption struct {
	Status   OrderStatus   `json:"status"`
	Level    int           `json:"level"`
	Next     []OrderStatus `json:"next"`
	Terminal bool          `json:"terminal"`
}

// StatusOptions returns every status with the transitions it offers.
func StatusOptions() []StatusOption {
	statuses := Statuses()
	options := make([]StatusOption, 0, len(statuses))
	for _, s := range statuses {
		options = append(options, StatusOption{
			Status:   s,
			Level:    s.Level(),
			Next:     AllowedNextStates(s),
			Terminal: s.IsTerminal(),
		})
	}
	return options
}
