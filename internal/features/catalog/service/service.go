package service

import (
	"context"
	"fmt"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/money"
	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/core/validation"
	"storefront-gateway/internal/features/catalog/domain"
	"storefront-gateway/internal/features/catalog/ports"

	"go.uber.org/zap"
)

// CatalogService implements ports.CatalogService.
type CatalogService struct {
	reader    ports.CatalogCache
	writer    ports.CatalogWriter
	locker    inflight.Locker
	maxUpload int64
}

// NewCatalogService creates a new CatalogService. Public reads go through
// reader; admin writes go to writer and then invalidate reader.
func NewCatalogService(reader ports.CatalogCache, writer ports.CatalogWriter, locker inflight.Locker, maxUpload int64) *CatalogService {
	return &CatalogService{
		reader:    reader,
		writer:    writer,
		locker:    locker,
		maxUpload: maxUpload,
	}
}

// ListProducts returns the storefront products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return domain.VisibleProducts(products), nil
}

// GetProduct returns a storefront product. Soft-deleted products are not found.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.reader.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Destroy {
		return nil, fmt.Errorf("product %s: %w", id, apperror.ErrNotFound)
	}
	return product, nil
}

// ListCategories returns the storefront categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.reader.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return domain.VisibleCategories(categories), nil
}

// GetCategory returns a category with its visible products.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.reader.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.Destroy {
		return nil, fmt.Errorf("category %s: %w", id, apperror.ErrNotFound)
	}

	visible := *category
	if category.Products != nil {
		visible.Products = domain.VisibleProducts(category.Products)
	}
	return &visible, nil
}

// ListAllProducts returns every product for the admin table, soft-deleted included.
func (s *CatalogService) ListAllProducts(ctx context.Context, token string) ([]domain.Product, error) {
	return s.writer.ListAllProducts(ctx, token)
}

// CreateProduct validates the form and image, then creates the product.
func (s *CatalogService) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (*domain.Product, error) {
	if in.Image == nil {
		return nil, apperror.NewValidation("image", validation.FieldRequiredMessage)
	}
	if err := s.validateProduct(in); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "product-create:"+strings.ToLower(strings.TrimSpace(in.Name)))
	if err != nil {
		return nil, err
	}
	defer release()

	created, err := s.writer.CreateProduct(ctx, token, in)
	if err != nil {
		return nil, err
	}

	s.reader.Invalidate(ctx, []string{created.ID}, []string{in.CategoryID, created.CategoryID})
	logger.Ctx(ctx).Info("Product created", zap.String("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateProduct validates the form and replaces the product.
func (s *CatalogService) UpdateProduct(ctx context.Context, token, id string, in ports.ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(in); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "product-update:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.writer.UpdateProduct(ctx, token, id, in)
	if err != nil {
		return nil, err
	}

	// The product may have moved, so drop every category detail that held it.
	s.reader.Invalidate(ctx, []string{id}, s.categoryIDs(ctx, in.CategoryID, updated.CategoryID))
	return updated, nil
}

// DeleteProduct soft-deletes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, token, id string) error {
	release, err := s.locker.Acquire(ctx, "product-delete:"+id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.writer.DeleteProduct(ctx, token, id); err != nil {
		return err
	}

	s.reader.Invalidate(ctx, []string{id}, s.categoryIDs(ctx))
	return nil
}

// CreateCategory validates the form and creates the category.
func (s *CatalogService) CreateCategory(ctx context.Context, token string, in ports.CategoryInput) (*domain.Category, error) {
	if err := s.validateCategory(in); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "category-create:"+strings.ToLower(strings.TrimSpace(in.Name)))
	if err != nil {
		return nil, err
	}
	defer release()

	created, err := s.writer.CreateCategory(ctx, token, in)
	if err != nil {
		return nil, err
	}

	s.reader.Invalidate(ctx, nil, []string{created.ID})
	return created, nil
}

// UpdateCategory validates the form and replaces the category.
func (s *CatalogService) UpdateCategory(ctx context.Context, token, id string, in ports.CategoryInput) (*domain.Category, error) {
	if err := s.validateCategory(in); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "category-update:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.writer.UpdateCategory(ctx, token, id, in)
	if err != nil {
		return nil, err
	}

	s.reader.Invalidate(ctx, nil, []string{id})
	return updated, nil
}

// DeleteCategory soft-deletes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, token, id string) error {
	release, err := s.locker.Acquire(ctx, "category-delete:"+id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.writer.DeleteCategory(ctx, token, id); err != nil {
		return err
	}

	s.reader.Invalidate(ctx, nil, []string{id})
	return nil
}

func (s *CatalogService) validateProduct(in ports.ProductInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	product := domain.Product{Name: in.Name, Price: money.Amount(in.Price), Variants: in.Variants}
	if err := product.ValidateVariants(); err != nil {
		return err
	}
	return s.validateUpload(in.Image)
}

func (s *CatalogService) validateCategory(in ports.CategoryInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	return s.validateUpload(in.Image)
}

// validateUpload accepts jpg, jpeg and png images up to maxUpload bytes.
// A missing image is accepted; callers that need one check first.
func (s *CatalogService) validateUpload(u *ports.Upload) error {
	return upload.ValidateImage(u, "image", s.maxUpload)
}

// categoryIDs lists the categories whose cached detail may embed a product.
// When the listing is unavailable only the known ids are returned.
func (s *CatalogService) categoryIDs(ctx context.Context, known ...string) []string {
	ids := append([]string{}, known...)

	categories, err := s.reader.ListCategories(ctx)
	if err != nil {
		logger.Ctx(ctx).Warn("Failed to list categories for cache invalidation", zap.Error(err))
		return ids
	}
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}
