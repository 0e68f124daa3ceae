package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ezzshop/ezzshop-backend/api/controllers"
	"github.com/ezzshop/ezzshop-backend/api/middleware"
	authsvc "github.com/ezzshop/ezzshop-backend/internal/auth"
	cartsvc "github.com/ezzshop/ezzshop-backend/internal/cart"
	categorysvc "github.com/ezzshop/ezzshop-backend/internal/categories"
	chatsvc "github.com/ezzshop/ezzshop-backend/internal/chat"
	checkoutsvc "github.com/ezzshop/ezzshop-backend/internal/checkout"
	contactsvc "github.com/ezzshop/ezzshop-backend/internal/contact"
	dashboardsvc "github.com/ezzshop/ezzshop-backend/internal/dashboard"
	ordersvc "github.com/ezzshop/ezzshop-backend/internal/orders"
	productsvc "github.com/ezzshop/ezzshop-backend/internal/products"
	trackingsvc "github.com/ezzshop/ezzshop-backend/internal/tracking"
	usersvc "github.com/ezzshop/ezzshop-backend/internal/users"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/db"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/metrics"
	"github.com/ezzshop/ezzshop-backend/pkg/redis"
)

const (
	loginRateLimit     = 10
	registerRateLimit  = 5
	authRateWindow     = time.Minute
	contactRateLimit   = 5
	contactRateWindow  = 10 * time.Minute
	trackingRateLimit  = 30
	trackingRateWindow = time.Minute
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth       authsvc.Service
	Users      usersvc.Service
	Products   productsvc.Service
	Categories categorysvc.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Contact    contactsvc.Service
	Dashboard  dashboardsvc.Service
	Chat       chatsvc.Service
	Tracking   trackingsvc.Service
}

// NewRouter wires the full route table.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Redis, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, deps.Redis, logg)
	session := middleware.Session(logg)
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit("register", deps.Redis, registerRateLimit, authRateWindow, logg)).
				Post("/register", controllers.Register(deps.Auth, logg))
			r.With(middleware.RateLimit("login", deps.Redis, loginRateLimit, authRateWindow, logg)).
				Post("/login", controllers.Login(deps.Auth, logg))
			r.With(requireAuth, session).Post("/logout", controllers.Logout(deps.Auth, logg))
			r.Get("/confirm-email", controllers.ConfirmEmail(deps.Auth, logg))
			r.Post("/send-token/verify", controllers.SendVerificationToken(deps.Auth, logg))
			r.With(middleware.RateLimit("reset", deps.Redis, loginRateLimit, authRateWindow, logg)).
				Post("/send-token/reset", controllers.SendResetToken(deps.Auth, logg))
			r.Post("/reset-password", controllers.ResetPassword(deps.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(deps.Categories, logg))
			r.Get("/{id}", controllers.GetCategory(deps.Categories, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(optionalAuth, session)
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, deps.Products, logg))
			r.Put("/items/{productId}", controllers.UpdateCartItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(optionalAuth, session)
			r.Post("/", controllers.Checkout(deps.Checkout, logg))
			r.Post("/paypal/capture", controllers.CapturePayPal(deps.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/mine", controllers.MyOrders(deps.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{id}/cancel", controllers.CancelOrder(deps.Orders, logg))
			r.Post("/{id}/refund-request", controllers.RequestRefund(deps.Orders, logg))
		})

		r.With(middleware.RateLimit("contact", deps.Redis, contactRateLimit, contactRateWindow, logg)).
			Post("/contact", controllers.SubmitContact(deps.Contact, logg))

		r.Route("/chat", func(r chi.Router) {
			r.Use(optionalAuth, session)
			r.Post("/ask", controllers.Ask(deps.Chat, logg))
			r.Get("/history", controllers.ChatHistory(deps.Chat, logg))
			r.Delete("/history", controllers.ClearChatHistory(deps.Chat, logg))
		})

		r.With(middleware.RateLimit("tracking", deps.Redis, trackingRateLimit, trackingRateWindow, logg)).
			Get("/tracking", controllers.TrackShipment(deps.Tracking, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(deps.Products, logg))
				r.Put("/{id}", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/{id}", controllers.DeleteProduct(deps.Products, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.CreateCategory(deps.Categories, logg))
				r.Put("/{id}", controllers.UpdateCategory(deps.Categories, logg))
				r.Delete("/{id}", controllers.DeleteCategory(deps.Categories, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/reconciliations", controllers.AdminListReconciliations(deps.Orders, logg))
				r.Put("/reconciliations/{id}/resolve", controllers.AdminResolveReconciliation(deps.Orders, logg))
				r.Put("/{id}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
				r.Post("/{id}/refund", controllers.AdminRefundOrder(deps.Orders, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(deps.Users, logg))
				r.Post("/", controllers.AdminCreateUser(deps.Users, logg))
				r.Put("/{id}/role", controllers.AdminUpdateUserRole(deps.Users, logg))
				r.Delete("/{id}", controllers.AdminDeleteUser(deps.Users, logg))
			})

			r.Route("/contact-messages", func(r chi.Router) {
				r.Get("/", controllers.AdminListContactMessages(deps.Contact, logg))
				r.Delete("/{id}", controllers.AdminDeleteContactMessage(deps.Contact, logg))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/statistics", controllers.DashboardStatistics(deps.Dashboard, logg))
				r.Post("/statistics/date-range", controllers.DashboardStatisticsForRange(deps.Dashboard, logg))
				r.Get("/revenue-chart", controllers.DashboardRevenueChart(deps.Dashboard, logg))
				r.Get("/order-status-chart", controllers.DashboardOrderStatusChart(deps.Dashboard, logg))
				r.Get("/top-products", controllers.DashboardTopProducts(deps.Dashboard, logg))
			})
		})
	})

	return r
}
