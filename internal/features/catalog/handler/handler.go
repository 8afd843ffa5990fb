package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/features/catalog/ports"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	service ports.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts returns the storefront products.
// @Summary List products
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(products)
}

// GetProduct returns one product with its variants.
// @Summary Get product
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(product)
}

// ListCategories returns the storefront categories.
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Category
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(categories)
}

// GetCategory returns a category and its products.
// @Summary Get category
// @Tags Catalog
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(category)
}

// ListAllProducts returns every product for the admin table.
// @Summary List all products (admin)
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.Product
// @Router /api/admin/products [get]
func (h *CatalogHandler) ListAllProducts(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	products, err := h.service.ListAllProducts(c.UserContext(), session.Token)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(products)
}

// CreateProduct adds a product from a multipart form.
// @Summary Create product (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param brand formData string true "Brand"
// @Param price formData int true "Base price (VND)"
// @Param stock formData int false "Stock"
// @Param categoryId formData string true "Category ID"
// @Param variants formData string false "Variants as a JSON array"
// @Param specs formData string false "Specs as a JSON object"
// @Param image formData file true "Product image (jpg, jpeg, png)"
// @Success 201 {object} domain.Product
// @Failure 400 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/admin/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	in, err := parseProductForm(c)
	if err != nil {
		return respond.Error(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), session.Token, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusCreated).JSON(product)
}

// UpdateProduct replaces a product from a multipart form. The image is optional.
// @Summary Update product (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	in, err := parseProductForm(c)
	if err != nil {
		return respond.Error(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), session.Token, c.Params("id"), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(product)
}

// DeleteProduct removes a product.
// @Summary Delete product (admin)
// @Tags Admin
// @Param id path string true "Product ID"
// @Success 204
// @Router /api/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), session.Token, c.Params("id")); err != nil {
		return respond.Error(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateCategory adds a category from a multipart form.
// @Summary Create category (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param image formData file false "Category image (jpg, jpeg, png)"
// @Success 201 {object} domain.Category
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	in, err := parseCategoryForm(c)
	if err != nil {
		return respond.Error(c, err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), session.Token, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusCreated).JSON(category)
}

// UpdateCategory replaces a category from a multipart form.
// @Summary Update category (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} domain.Category
// @Router /api/admin/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	in, err := parseCategoryForm(c)
	if err != nil {
		return respond.Error(c, err)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), session.Token, c.Params("id"), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(category)
}

// DeleteCategory removes a category.
// @Summary Delete category (admin)
// @Tags Admin
// @Param id path string true "Category ID"
// @Success 204
// @Router /api/admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.service.DeleteCategory(c.UserContext(), session.Token, c.Params("id")); err != nil {
		return respond.Error(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseProductForm(c *fiber.Ctx) (ports.ProductInput, error) {
	in := ports.ProductInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Brand:       strings.TrimSpace(c.FormValue("brand")),
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("categoryId"),
	}

	fields := map[string]string{}

	if raw := c.FormValue("price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["price"] = "Must be a whole number."
		}
		in.Price = price
	}
	if raw := c.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			fields["stock"] = "Must be a whole number."
		}
		in.Stock = stock
	}
	if raw := c.FormValue("variants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Variants); err != nil {
			fields["variants"] = "Must be a JSON array of variants."
		}
	}
	if raw := c.FormValue("specs"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Specs); err != nil {
			fields["specs"] = "Must be a JSON object."
		}
	}

	image, err := upload.FromForm(c, "image")
	if err != nil {
		fields["image"] = "Could not read the uploaded image."
	}
	in.Image = image

	if len(fields) > 0 {
		return in, &apperror.ValidationError{Fields: fields}
	}
	return in, nil
}

func parseCategoryForm(c *fiber.Ctx) (ports.CategoryInput, error) {
	image, err := upload.FromForm(c, "image")
	if err != nil {
		return ports.CategoryInput{}, apperror.NewValidation("image", "Could not read the uploaded image.")
	}

	return ports.CategoryInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: c.FormValue("description"),
		Image:       image,
	}, nil
}
