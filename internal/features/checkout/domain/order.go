package domain

import (
	orders "storefront-gateway/internal/features/orders/domain"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentMoMo  PaymentMethod = "MOMO"
	PaymentVNPay PaymentMethod = "VNPAY"
)

// PlaceOrderInput is the checkout form.
type PlaceOrderInput struct {
	ShippingAddress orders.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod          `json:"paymentMethod" validate:"required,oneof=COD MOMO VNPAY"`
	CouponID        string                 `json:"couponId,omitempty"`
}

// Placement is the backend's answer to a new order. PaymentURL is set for
// online payment methods and is where the customer must be sent next.
type Placement struct {
	orders.Order
	PaymentURL string `json:"paymentUrl,omitempty"`
}
