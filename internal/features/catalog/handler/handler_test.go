package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/catalog/domain"
	"storefront-gateway/internal/features/catalog/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of ports.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCatalogService) ListAllProducts(ctx context.Context, token string) ([]domain.Product, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, token, id string, in ports.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, token string, in ports.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, token, id string, in ports.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func token(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"_id": "u1", "role": role}).SignedString([]byte("s"))
	require.NoError(t, err)
	return signed
}

func setupApp(service *MockCatalogService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.FiberErrorHandler})
	h := NewCatalogHandler(service)

	api := app.Group("/api")
	api.Get("/products", h.ListProducts)
	api.Get("/products/:id", h.GetProduct)
	api.Get("/categories", h.ListCategories)
	api.Get("/categories/:id", h.GetCategory)

	admin := api.Group("/admin", auth.New("s").Middleware(), auth.RequireAdmin())
	admin.Get("/products", h.ListAllProducts)
	admin.Post("/products", h.CreateProduct)
	admin.Put("/products/:id", h.UpdateProduct)
	admin.Delete("/products/:id", h.DeleteProduct)
	admin.Post("/categories", h.CreateCategory)
	admin.Put("/categories/:id", h.UpdateCategory)
	admin.Delete("/categories/:id", h.DeleteCategory)
	return app
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("image", "phone.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCatalogHandler_PublicReads(t *testing.T) {
	svc := new(MockCatalogService)
	app := setupApp(svc)

	svc.On("ListProducts", mock.Anything).Return([]domain.Product{{ID: "p1"}}, nil).Once()
	svc.On("GetProduct", mock.Anything, "missing").Return(nil, apperror.ErrNotFound).Once()
	svc.On("ListCategories", mock.Anything).Return([]domain.Category{{ID: "c1"}}, nil).Once()
	svc.On("GetCategory", mock.Anything, "c1").Return(&domain.Category{ID: "c1"}, nil).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.Len(t, products, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/products/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/categories", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/categories/c1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	svc.AssertExpectations(t)
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockCatalogService)
		app := setupApp(svc)
		admin := token(t, "ADMIN")

		svc.On("CreateProduct", mock.Anything, admin, mock.MatchedBy(func(in ports.ProductInput) bool {
			return in.Name == "Galaxy S24" &&
				in.Price == 22000000 &&
				in.Stock == 3 &&
				len(in.Variants) == 1 && in.Variants[0].SKU == "S24-GRAY-256" &&
				in.Specs["chip"] == "Snapdragon" &&
				in.Image != nil && in.Image.Filename == "phone.png" && string(in.Image.Data) == "png-bytes"
		})).Return(&domain.Product{ID: "p9"}, nil).Once()

		req := multipartRequest(t, "POST", "/api/admin/products", map[string]string{
			"name":       " Galaxy S24 ",
			"brand":      "Samsung",
			"price":      "22000000",
			"stock":      "3",
			"categoryId": "c1",
			"variants":   `[{"sku":"S24-GRAY-256","color":"Gray","storage":"256GB","price":22000000}]`,
			"specs":      `{"chip":"Snapdragon"}`,
		}, []byte("png-bytes"))
		req.Header.Set("Authorization", "Bearer "+admin)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("MalformedFields", func(t *testing.T) {
		svc := new(MockCatalogService)
		app := setupApp(svc)

		req := multipartRequest(t, "POST", "/api/admin/products", map[string]string{
			"name":     "Galaxy S24",
			"price":    "22tr",
			"variants": "not json",
		}, nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "ADMIN"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp respond.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Contains(t, errResp.Fields, "price")
		assert.Contains(t, errResp.Fields, "variants")
		svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ClientForbidden", func(t *testing.T) {
		svc := new(MockCatalogService)
		app := setupApp(svc)

		req := multipartRequest(t, "POST", "/api/admin/products", map[string]string{"name": "x"}, nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "CLIENT"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCatalogHandler_UpdateCategory_NoImage(t *testing.T) {
	svc := new(MockCatalogService)
	app := setupApp(svc)
	admin := token(t, "ADMIN")

	svc.On("UpdateCategory", mock.Anything, admin, "c1", ports.CategoryInput{Name: "Phones", Description: "Smartphones"}).
		Return(&domain.Category{ID: "c1", Name: "Phones"}, nil).Once()

	req := multipartRequest(t, "PUT", "/api/admin/categories/c1", map[string]string{"name": "Phones", "description": "Smartphones"}, nil)
	req.Header.Set("Authorization", "Bearer "+admin)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"Phones"`)
	svc.AssertExpectations(t)
}

func TestCatalogHandler_DeleteProduct(t *testing.T) {
	svc := new(MockCatalogService)
	app := setupApp(svc)
	admin := token(t, "ADMIN")

	svc.On("DeleteProduct", mock.Anything, admin, "p1").Return(nil).Once()

	req := httptest.NewRequest("DELETE", "/api/admin/products/p1", nil)
	req.Header.Set("Authorization", "Bearer "+admin)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	svc.AssertExpectations(t)
}
