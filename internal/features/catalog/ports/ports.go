package ports

import (
	"context"

	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/features/catalog/domain"
)

// Upload is an image attached to an admin product or category form.
type Upload = upload.File

// ProductInput is the admin product form. Image is optional on update.
type ProductInput struct {
	Name        string            `json:"name" validate:"required"`
	Brand       string            `json:"brand" validate:"required"`
	Description string            `json:"description"`
	Price       int64             `json:"price" validate:"gt=0"`
	Stock       int               `json:"stock" validate:"gte=0"`
	CategoryID  string            `json:"categoryId" validate:"required"`
	Specs       map[string]string `json:"specs"`
	Variants    []domain.Variant  `json:"variants"`
	Image       *Upload           `json:"-"`
}

// CategoryInput is the admin category form. Image is optional.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Image       *Upload `json:"-"`
}

// CatalogService defines the catalog operations exposed to handlers.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)

	ListAllProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	CreateCategory(ctx context.Context, token string, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token, id string, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
}

// CatalogReader serves the public catalog reads.
// Both the backend adapter and the cached repository implement it.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
}

// CatalogWriter performs the admin catalog calls.
type CatalogWriter interface {
	ListAllProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	CreateCategory(ctx context.Context, token string, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token, id string, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
}

// CatalogCache is a CatalogReader whose entries can be dropped after a write.
type CatalogCache interface {
	CatalogReader
	Invalidate(ctx context.Context, productIDs []string, categoryIDs []string)
}
