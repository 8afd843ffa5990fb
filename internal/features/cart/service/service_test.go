package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/features/cart/domain"
	catalog "storefront-gateway/internal/features/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartGateway is a mock implementation of ports.CartGateway
type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) Fetch(ctx context.Context, token string) (*domain.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartGateway) Add(ctx context.Context, token string, mu domain.Mutation) (*domain.Cart, error) {
	args := m.Called(ctx, token, mu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartGateway) Update(ctx context.Context, token string, mu domain.Mutation) (*domain.Cart, error) {
	args := m.Called(ctx, token, mu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

// memoryMirror is an in-memory ports.CartMirror.
type memoryMirror struct {
	carts map[string]*domain.Cart
	err   error
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{carts: map[string]*domain.Cart{}}
}

func (m *memoryMirror) Load(ctx context.Context, userID string) (*domain.Cart, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	c, ok := m.carts[userID]
	return c, ok, nil
}

func (m *memoryMirror) Store(ctx context.Context, userID string, c *domain.Cart) error {
	if m.err != nil {
		return m.err
	}
	m.carts[userID] = c
	return nil
}

func (m *memoryMirror) Clear(ctx context.Context, userID string) error {
	delete(m.carts, userID)
	return m.err
}

type stubProducts map[string]*catalog.Product

func (s stubProducts) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, apperror.ErrNotFound)
}

type stubLocker struct {
	busy     bool
	acquired []string
}

func (l *stubLocker) Acquire(ctx context.Context, action string) (func(), error) {
	if l.busy {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRequestInFlight, action)
	}
	l.acquired = append(l.acquired, action)
	return func() {}, nil
}

var products = stubProducts{
	"p1": {ID: "p1", Variants: []catalog.Variant{{SKU: "IP15-BLACK-256", Color: "Black", Storage: "256GB", Price: 29000000}}},
	"p2": {ID: "p2", Price: 150000},
}

func cartWith(lines ...domain.LineItem) *domain.Cart {
	c := &domain.Cart{Products: lines}
	c.Normalize()
	return c
}

func TestCartService_Get(t *testing.T) {
	t.Run("RefreshesMirror", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		fresh := cartWith(domain.LineItem{ProductID: "p2", Price: 150000, Quantity: 1})
		gateway.On("Fetch", mock.Anything, "tok").Return(fresh, nil).Once()

		cart, err := svc.Get(context.Background(), "tok", "u1")

		require.NoError(t, err)
		assert.Equal(t, fresh, cart)
		assert.Equal(t, fresh, mirror.carts["u1"])
	})

	t.Run("BackendDownServesMirror", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		mirrored := cartWith(domain.LineItem{ProductID: "p2", Price: 150000, Quantity: 2})
		mirror.carts["u1"] = mirrored
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(nil, fmt.Errorf("failed to fetch cart: %w", httpclient.ErrBackendUnavailable)).Once()

		cart, err := svc.Get(context.Background(), "tok", "u1")

		require.NoError(t, err)
		assert.Equal(t, mirrored, cart)
	})

	t.Run("SessionExpiredNotMasked", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		mirror.carts["u1"] = cartWith()
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(nil, &httpclient.APIError{StatusCode: 401, Message: "Unauthorized"}).Once()

		_, err := svc.Get(context.Background(), "tok", "u1")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestCartService_Add(t *testing.T) {
	t.Run("VariantResolved", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		locker := &stubLocker{}
		svc := NewCartService(gateway, mirror, products, locker)

		updated := cartWith(domain.LineItem{ProductID: "p1", SKU: "IP15-BLACK-256", Price: 29000000, Quantity: 1})
		gateway.On("Add", mock.Anything, "tok", domain.Mutation{ProductID: "p1", SKU: "IP15-BLACK-256", Quantity: 1}).Return(updated, nil).Once()

		cart, err := svc.Add(context.Background(), "tok", "u1", domain.AddItem{ProductID: "p1", Color: "Black", Storage: "256GB", Quantity: 1})

		require.NoError(t, err)
		assert.EqualValues(t, 29000000, cart.TotalPrice)
		assert.Equal(t, updated, mirror.carts["u1"])
		assert.Equal(t, []string{"cart-add:u1:p1:IP15-BLACK-256"}, locker.acquired)
	})

	t.Run("VariantRequiredBeforeCall", func(t *testing.T) {
		gateway := new(MockCartGateway)
		svc := NewCartService(gateway, newMemoryMirror(), products, &stubLocker{})

		_, err := svc.Add(context.Background(), "tok", "u1", domain.AddItem{ProductID: "p1", Quantity: 1})

		assert.ErrorIs(t, err, catalog.ErrVariantRequired)
		gateway.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		gateway := new(MockCartGateway)
		svc := NewCartService(gateway, newMemoryMirror(), products, &stubLocker{})

		_, err := svc.Add(context.Background(), "tok", "u1", domain.AddItem{ProductID: "nope", Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("InFlight", func(t *testing.T) {
		gateway := new(MockCartGateway)
		svc := NewCartService(gateway, newMemoryMirror(), products, &stubLocker{busy: true})

		_, err := svc.Add(context.Background(), "tok", "u1", domain.AddItem{ProductID: "p2", Quantity: 1})

		assert.ErrorIs(t, err, apperror.ErrRequestInFlight)
		gateway.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartService_SetQuantity(t *testing.T) {
	line := domain.LineItem{ProductID: "p1", SKU: "IP15-BLACK-256", Price: 29000000, Quantity: 2}

	t.Run("RemoveLine", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(cartWith(line), nil).Once()
		gateway.On("Update", mock.Anything, "tok", domain.Mutation{ProductID: "p1", SKU: "IP15-BLACK-256", Quantity: 0}).Return(cartWith(), nil).Once()

		cart, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", 0)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.True(t, mirror.carts["u1"].IsEmpty())
		gateway.AssertExpectations(t)
	})

	t.Run("RemoveTwiceIsIdempotent", func(t *testing.T) {
		gateway := new(MockCartGateway)
		svc := NewCartService(gateway, newMemoryMirror(), products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(cartWith(), nil).Once()

		cart, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", 0)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		gateway.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StaleMirrorWithoutLine", func(t *testing.T) {
		for _, quantity := range []int{0, 3} {
			gateway := new(MockCartGateway)
			mirror := newMemoryMirror()
			mirror.carts["u1"] = cartWith()
			svc := NewCartService(gateway, mirror, products, &stubLocker{})

			updated := cartWith(domain.LineItem{ProductID: "p1", SKU: "IP15-BLACK-256", Price: 29000000, Quantity: quantity})
			gateway.On("Fetch", mock.Anything, "tok").Return(cartWith(line), nil).Once()
			gateway.On("Update", mock.Anything, "tok", domain.Mutation{ProductID: "p1", SKU: "IP15-BLACK-256", Quantity: quantity}).Return(updated, nil).Once()

			cart, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", quantity)

			require.NoError(t, err, "quantity %d", quantity)
			assert.Equal(t, updated, cart)
			gateway.AssertExpectations(t)
		}
	})

	t.Run("StaleMirrorWithRemovedLine", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		mirror.carts["u1"] = cartWith(line)
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(cartWith(), nil).Once()

		_, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", 3)

		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.True(t, mirror.carts["u1"].IsEmpty())
		gateway.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BackendDownIsNotMaskedByMirror", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		mirror.carts["u1"] = cartWith(line)
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(nil, fmt.Errorf("failed to fetch cart: %w", httpclient.ErrBackendUnavailable)).Once()

		_, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", 0)

		assert.ErrorIs(t, err, httpclient.ErrBackendUnavailable)
		gateway.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NegativeQuantitySkipsBackend", func(t *testing.T) {
		gateway := new(MockCartGateway)
		svc := NewCartService(gateway, newMemoryMirror(), products, &stubLocker{})

		_, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "", -1)

		_, ok := apperror.AsValidation(err)
		assert.True(t, ok)
		gateway.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("BackendRejectionKeepsFetchedCart", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		fetched := cartWith(line)
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(fetched, nil).Once()
		gateway.On("Update", mock.Anything, "tok", mock.Anything).Return(nil, &httpclient.APIError{StatusCode: 400, Message: "Not enough stock"}).Once()

		_, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "IP15-BLACK-256", 50)

		assert.Error(t, err)
		assert.Equal(t, fetched, mirror.carts["u1"])
	})

	t.Run("MirrorErrorDoesNotBlock", func(t *testing.T) {
		gateway := new(MockCartGateway)
		mirror := newMemoryMirror()
		mirror.err = errors.New("redis down")
		svc := NewCartService(gateway, mirror, products, &stubLocker{})

		gateway.On("Fetch", mock.Anything, "tok").Return(cartWith(), nil).Once()

		cart, err := svc.SetQuantity(context.Background(), "tok", "u1", "p1", "", 0)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCartService_Forget(t *testing.T) {
	mirror := newMemoryMirror()
	mirror.carts["u1"] = cartWith()
	svc := NewCartService(new(MockCartGateway), mirror, products, &stubLocker{})

	svc.Forget(context.Background(), "u1")

	assert.NotContains(t, mirror.carts, "u1")
}
