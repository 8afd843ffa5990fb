package service

import (
	"context"
	"errors"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/features/cart/domain"
	"storefront-gateway/internal/features/cart/ports"

	"go.uber.org/zap"
)

// CartService implements ports.CartService.
type CartService struct {
	gateway  ports.CartGateway
	mirror   ports.CartMirror
	products ports.ProductReader
	locker   inflight.Locker
}

// NewCartService creates a new CartService.
func NewCartService(gateway ports.CartGateway, mirror ports.CartMirror, products ports.ProductReader, locker inflight.Locker) *CartService {
	return &CartService{
		gateway:  gateway,
		mirror:   mirror,
		products: products,
		locker:   locker,
	}
}

// Get fetches the cart and refreshes the mirror. While the backend is
// unreachable the last mirrored cart is served instead.
func (s *CartService) Get(ctx context.Context, token, userID string) (*domain.Cart, error) {
	cart, err := s.gateway.Fetch(ctx, token)
	if err != nil {
		if errors.Is(err, httpclient.ErrBackendUnavailable) {
			if mirrored, ok := s.load(ctx, userID); ok {
				logger.Ctx(ctx).Warn("Serving mirrored cart", zap.String("user_id", userID), zap.Error(err))
				return mirrored, nil
			}
		}
		return nil, err
	}

	s.store(ctx, userID, cart)
	return cart, nil
}

// Add puts a product in the cart after the variant gate.
func (s *CartService) Add(ctx context.Context, token, userID string, in domain.AddItem) (*domain.Cart, error) {
	product, err := s.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	m, err := domain.PrepareAdd(product, in)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "cart-add:"+userID+":"+m.ProductID+":"+m.SKU)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.gateway.Add(ctx, token, m)
	if err != nil {
		return nil, err
	}

	s.store(ctx, userID, cart)
	return cart, nil
}

// SetQuantity changes a line's quantity. Quantity 0 removes the line, and
// removing a line that is not in the cart returns the cart unchanged.
// The line is looked up in a fresh backend cart, never in the mirror.
func (s *CartService) SetQuantity(ctx context.Context, token, userID, productID, sku string, quantity int) (*domain.Cart, error) {
	if err := domain.CheckQuantity(quantity); err != nil {
		return nil, err
	}

	current, err := s.gateway.Fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, current)

	m, send, err := domain.PrepareSetQuantity(current, productID, sku, quantity)
	if err != nil {
		return nil, err
	}
	if !send {
		return current, nil
	}

	release, err := s.locker.Acquire(ctx, "cart-update:"+userID+":"+productID+":"+sku)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.gateway.Update(ctx, token, m)
	if err != nil {
		return nil, err
	}

	s.store(ctx, userID, cart)
	return cart, nil
}

// Forget drops the mirrored cart, e.g. after an order was placed.
func (s *CartService) Forget(ctx context.Context, userID string) {
	if err := s.mirror.Clear(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn("Failed to clear cart mirror", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, bool) {
	cart, ok, err := s.mirror.Load(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Warn("Failed to load cart mirror", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return cart, ok
}

func (s *CartService) store(ctx context.Context, userID string, cart *domain.Cart) {
	if err := s.mirror.Store(ctx, userID, cart); err != nil {
		logger.Ctx(ctx).Warn("Failed to store cart mirror", zap.String("user_id", userID), zap.Error(err))
	}
}
