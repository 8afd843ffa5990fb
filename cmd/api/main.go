package main

import (
	"context"
	"log"
	"time"

	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/core/config"
	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/server"
	banneradapter "storefront-gateway/internal/features/banners/adapters"
	bannerhandler "storefront-gateway/internal/features/banners/handler"
	bannerservice "storefront-gateway/internal/features/banners/service"
	cartadapter "storefront-gateway/internal/features/cart/adapters"
	carthandler "storefront-gateway/internal/features/cart/handler"
	cartservice "storefront-gateway/internal/features/cart/service"
	catalogadapter "storefront-gateway/internal/features/catalog/adapters"
	cataloghandler "storefront-gateway/internal/features/catalog/handler"
	catalogservice "storefront-gateway/internal/features/catalog/service"
	checkoutadapter "storefront-gateway/internal/features/checkout/adapters"
	checkouthandler "storefront-gateway/internal/features/checkout/handler"
	checkoutservice "storefront-gateway/internal/features/checkout/service"
	couponadapter "storefront-gateway/internal/features/coupons/adapters"
	couponhandler "storefront-gateway/internal/features/coupons/handler"
	couponservice "storefront-gateway/internal/features/coupons/service"
	dashboardadapter "storefront-gateway/internal/features/dashboard/adapters"
	dashboardhandler "storefront-gateway/internal/features/dashboard/handler"
	dashboardservice "storefront-gateway/internal/features/dashboard/service"
	orderadapter "storefront-gateway/internal/features/orders/adapters"
	orderhandler "storefront-gateway/internal/features/orders/handler"
	orderservice "storefront-gateway/internal/features/orders/service"
	useradapter "storefront-gateway/internal/features/users/adapters"
	userhandler "storefront-gateway/internal/features/users/handler"
	userservice "storefront-gateway/internal/features/users/service"

	"go.uber.org/zap"
)

//go:generate swag init -g cmd/api/main.go -d ../.. -o ../../docs/swagger

// @title Storefront Gateway API
// @version 1.0
// @description Backend-for-frontend of the storefront and its admin back-office. Business data lives in the commerce REST API.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_root", cfg.Backend.URL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Redis holds every piece of shared client state.
	redis, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redis.Close()
	if err := redis.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	backend := httpclient.NewBackend(cfg.Backend)
	if err := backend.Ping(ctx); err != nil {
		l.Fatal("Backend Health Check Failed", zap.Error(err))
	}
	l.Info("Backend connection verified")

	guard := inflight.NewGuard(redis, cfg.Redis.InFlightTTL)
	authn := auth.New(cfg.Auth.AccessSecret)

	// Catalog
	catalogBackend := catalogadapter.NewBackendAdapter(backend)
	catalogCache := catalogadapter.NewCachedRepository(catalogBackend, redis, cfg.Redis.CatalogTTL)
	catalogSvc := catalogservice.NewCatalogService(catalogCache, catalogBackend, guard, cfg.Uploads.MaxBytes)
	catalogHdl := cataloghandler.NewCatalogHandler(catalogSvc)

	// Cart
	cartMirror := cartadapter.NewRedisMirror(redis, cfg.Redis.CartTTL)
	cartSvc := cartservice.NewCartService(cartadapter.NewBackendAdapter(backend), cartMirror, catalogSvc, guard)
	cartHdl := carthandler.NewCartHandler(cartSvc)

	// Coupons
	couponBackend := couponadapter.NewBackendAdapter(backend)
	couponSvc := couponservice.NewCouponService(couponBackend, guard)
	couponHdl := couponhandler.NewCouponHandler(couponSvc)

	// Checkout
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, couponBackend, checkoutadapter.NewBackendAdapter(backend), guard)
	checkoutHdl := checkouthandler.NewCheckoutHandler(checkoutSvc)

	// Orders
	orderSvc := orderservice.NewOrderService(orderadapter.NewBackendAdapter(backend), guard)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Users
	userSvc := userservice.NewUserService(useradapter.NewBackendAdapter(backend), guard, cfg.Uploads.MaxBytes)
	userHdl := userhandler.NewUserHandler(userSvc)

	// Dashboard
	dashboardGateway := dashboardadapter.NewCachedGateway(dashboardadapter.NewBackendAdapter(backend), redis, cfg.Redis.DashboardTTL)
	dashboardHdl := dashboardhandler.NewDashboardHandler(dashboardservice.NewDashboardService(dashboardGateway))

	// Home carousel
	bannerSvc := bannerservice.NewBannerService(banneradapter.NewRedisBannerRepository(redis))
	bannerHdl := bannerhandler.NewBannerHandler(bannerSvc)

	srv := server.New(cfg)

	// Register Routes
	api := srv.App.Group("/api")

	api.Get("/products", catalogHdl.ListProducts)
	api.Get("/products/:id", catalogHdl.GetProduct)
	api.Get("/categories", catalogHdl.ListCategories)
	api.Get("/categories/:id", catalogHdl.GetCategory)
	api.Get("/banner", bannerHdl.Get)
	api.Get("/orders/statuses", orderHdl.ListStatuses)

	api.Post("/auth/register", userHdl.Register)
	api.Put("/auth/verify", userHdl.Verify)
	api.Get("/auth/refresh_token", userHdl.Refresh)
	api.Post("/auth/login", userHdl.Login)
	api.Delete("/auth/logout", userHdl.Logout)

	signedIn := api.Group("", authn.Middleware())
	signedIn.Get("/auth/me", userHdl.Me)
	signedIn.Put("/auth/account", userHdl.UpdateAccount)
	signedIn.Get("/cart", cartHdl.Get)
	signedIn.Post("/cart/items", cartHdl.AddItem)
	signedIn.Put("/cart/items", cartHdl.SetQuantity)
	signedIn.Get("/checkout/coupons", checkoutHdl.Coupons)
	signedIn.Get("/checkout/quote", checkoutHdl.Quote)
	signedIn.Post("/checkout/orders", checkoutHdl.PlaceOrder)
	signedIn.Get("/orders/me", orderHdl.ListMine)
	signedIn.Put("/orders/:id/cancel", orderHdl.CancelMine)

	admin := signedIn.Group("/admin", auth.RequireAdmin())
	admin.Get("/dashboard", dashboardHdl.Get)
	admin.Get("/products", catalogHdl.ListAllProducts)
	admin.Post("/products", catalogHdl.CreateProduct)
	admin.Put("/products/:id", catalogHdl.UpdateProduct)
	admin.Delete("/products/:id", catalogHdl.DeleteProduct)
	admin.Post("/categories", catalogHdl.CreateCategory)
	admin.Put("/categories/:id", catalogHdl.UpdateCategory)
	admin.Delete("/categories/:id", catalogHdl.DeleteCategory)
	admin.Get("/coupons", couponHdl.List)
	admin.Get("/coupons/:id", couponHdl.Get)
	admin.Post("/coupons", couponHdl.Create)
	admin.Put("/coupons/:id", couponHdl.Update)
	admin.Delete("/coupons/:id", couponHdl.Delete)
	admin.Get("/orders", orderHdl.ListAdmin)
	admin.Patch("/orders/:id/status", orderHdl.UpdateStatus)
	admin.Get("/users", userHdl.List)
	admin.Patch("/users/:id/status", userHdl.ChangeStatus)
	admin.Put("/banner", bannerHdl.Set)
	admin.Delete("/banner", bannerHdl.Remove)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
