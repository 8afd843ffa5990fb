package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/features/catalog/domain"
	"storefront-gateway/internal/features/catalog/ports"
)

// BackendAdapter implements ports.CatalogReader and ports.CatalogWriter
// against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// ListProducts fetches GET /v1/products.
func (a *BackendAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := a.backend.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/v1/products"}, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct fetches GET /v1/products/:id.
func (a *BackendAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   httpclient.Pathf("/v1/products/%s", id),
	}, &product); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// ListCategories fetches GET /v1/categories.
func (a *BackendAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := a.backend.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/v1/categories"}, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches GET /v1/categories/:id, which embeds the category's products.
func (a *BackendAdapter) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   httpclient.Pathf("/v1/categories/%s", id),
	}, &category); err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return &category, nil
}

// ListAllProducts fetches GET /v1/products/admin/all, soft-deleted products included.
func (a *BackendAdapter) ListAllProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var products []domain.Product
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/products/admin/all",
		Token:  token,
	}, &products); err != nil {
		return nil, fmt.Errorf("failed to list all products: %w", err)
	}
	return products, nil
}

// CreateProduct sends POST /v1/products as multipart/form-data.
func (a *BackendAdapter) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (*domain.Product, error) {
	form, err := productForm(in)
	if err != nil {
		return nil, err
	}

	var created domain.Product
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/products",
		Token:  token,
		Form:   form,
	}, &created); err != nil {
		return nil, fmt.Errorf("failed to create product %s: %w", in.Name, err)
	}
	return &created, nil
}

// UpdateProduct sends PUT /v1/products/:id as multipart/form-data.
func (a *BackendAdapter) UpdateProduct(ctx context.Context, token, id string, in ports.ProductInput) (*domain.Product, error) {
	form, err := productForm(in)
	if err != nil {
		return nil, err
	}

	var updated domain.Product
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   httpclient.Pathf("/v1/products/%s", id),
		Token:  token,
		Form:   form,
	}, &updated); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteProduct sends DELETE /v1/products/:id.
func (a *BackendAdapter) DeleteProduct(ctx context.Context, token, id string) error {
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   httpclient.Pathf("/v1/products/%s", id),
		Token:  token,
	}, nil); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// CreateCategory sends POST /v1/categories as multipart/form-data.
func (a *BackendAdapter) CreateCategory(ctx context.Context, token string, in ports.CategoryInput) (*domain.Category, error) {
	var created domain.Category
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/categories",
		Token:  token,
		Form:   categoryForm(in),
	}, &created); err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", in.Name, err)
	}
	return &created, nil
}

// UpdateCategory sends PUT /v1/categories/:id as multipart/form-data.
func (a *BackendAdapter) UpdateCategory(ctx context.Context, token, id string, in ports.CategoryInput) (*domain.Category, error) {
	var updated domain.Category
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   httpclient.Pathf("/v1/categories/%s", id),
		Token:  token,
		Form:   categoryForm(in),
	}, &updated); err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteCategory sends DELETE /v1/categories/:id.
func (a *BackendAdapter) DeleteCategory(ctx context.Context, token, id string) error {
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   httpclient.Pathf("/v1/categories/%s", id),
		Token:  token,
	}, nil); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

func productForm(in ports.ProductInput) (*httpclient.MultipartForm, error) {
	variants := in.Variants
	if variants == nil {
		variants = []domain.Variant{}
	}
	variantsJSON, err := json.Marshal(variants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode variants: %w", err)
	}

	fields := map[string]string{
		"name":        in.Name,
		"brand":       in.Brand,
		"description": in.Description,
		"price":       strconv.FormatInt(in.Price, 10),
		"stock":       strconv.Itoa(in.Stock),
		"categoryId":  in.CategoryID,
		"variants":    string(variantsJSON),
	}
	if len(in.Specs) > 0 {
		specsJSON, err := json.Marshal(in.Specs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode specs: %w", err)
		}
		fields["specs"] = string(specsJSON)
	}

	return &httpclient.MultipartForm{Fields: fields, File: imagePart(in.Image)}, nil
}

func categoryForm(in ports.CategoryInput) *httpclient.MultipartForm {
	return &httpclient.MultipartForm{
		Fields: map[string]string{
			"name":        in.Name,
			"description": in.Description,
		},
		File: imagePart(in.Image),
	}
}

func imagePart(u *ports.Upload) *httpclient.FilePart {
	if u == nil {
		return nil
	}
	return &httpclient.FilePart{
		Field:       "image",
		Filename:    u.Filename,
		ContentType: u.ContentType,
		Data:        u.Data,
	}
}
