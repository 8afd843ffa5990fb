package ports

import (
	"context"

	"storefront-gateway/internal/features/cart/domain"
	catalog "storefront-gateway/internal/features/catalog/domain"
)

// CartService defines the cart operations exposed to handlers and checkout.
type CartService interface {
	Get(ctx context.Context, token, userID string) (*domain.Cart, error)
	Add(ctx context.Context, token, userID string, in domain.AddItem) (*domain.Cart, error)
	SetQuantity(ctx context.Context, token, userID, productID, sku string, quantity int) (*domain.Cart, error)
	Forget(ctx context.Context, userID string)
}

// CartGateway is the backend cart API.
type CartGateway interface {
	Fetch(ctx context.Context, token string) (*domain.Cart, error)
	Add(ctx context.Context, token string, m domain.Mutation) (*domain.Cart, error)
	Update(ctx context.Context, token string, m domain.Mutation) (*domain.Cart, error)
}

// CartMirror keeps the last confirmed cart per user.
type CartMirror interface {
	Load(ctx context.Context, userID string) (*domain.Cart, bool, error)
	Store(ctx context.Context, userID string, c *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}

// ProductReader looks up the product being added.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}
