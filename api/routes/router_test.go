package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

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
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuth struct{}

func (stubAuth) Register(context.Context, authsvc.RegisterInput) (*authsvc.RegisterResponse, error) {
	return &authsvc.RegisterResponse{}, nil
}
func (stubAuth) Login(context.Context, authsvc.LoginInput) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}
func (stubAuth) Logout(context.Context, string, string) error { return nil }
func (stubAuth) ConfirmEmail(context.Context, string) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}
func (stubAuth) ResendVerification(context.Context, string) (string, error) { return "t", nil }
func (stubAuth) RequestPasswordReset(context.Context, string) (string, error) {
	return "t", nil
}
func (stubAuth) ResetPassword(context.Context, authsvc.ResetPasswordInput) error { return nil }

type stubUsers struct{}

func (stubUsers) ListPaginated(context.Context, usersvc.ListInput) (pagination.Envelope[usersvc.UserDTO], error) {
	return pagination.Envelope[usersvc.UserDTO]{}, nil
}
func (stubUsers) Get(context.Context, uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}
func (stubUsers) Create(context.Context, usersvc.CreateInput) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}
func (stubUsers) UpdateRole(context.Context, uuid.UUID, enums.UserRole) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}
func (stubUsers) Delete(context.Context, uuid.UUID) error { return nil }

type stubProducts struct{}

func (stubProducts) List(context.Context) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}
func (stubProducts) ListPaginated(context.Context, productsvc.ListInput) (pagination.Envelope[productsvc.ProductDTO], error) {
	return pagination.Envelope[productsvc.ProductDTO]{}, nil
}
func (stubProducts) Get(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) Create(context.Context, productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) Update(context.Context, uuid.UUID, productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) Delete(context.Context, uuid.UUID) error { return nil }

type stubCategories struct{}

func (stubCategories) List(context.Context) ([]categorysvc.CategoryDTO, error) {
	return []categorysvc.CategoryDTO{}, nil
}
func (stubCategories) Get(context.Context, uuid.UUID) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) Create(context.Context, categorysvc.CreateInput) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) Update(context.Context, uuid.UUID, categorysvc.UpdateInput) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) Delete(context.Context, uuid.UUID) error { return nil }

type stubCart struct{}

func (stubCart) Get(context.Context, string) ([]cartsvc.Item, error) {
	return []cartsvc.Item{}, nil
}
func (stubCart) AddItem(context.Context, string, cartsvc.Item) ([]cartsvc.Item, error) {
	return []cartsvc.Item{}, nil
}
func (stubCart) UpdateQuantity(context.Context, string, uuid.UUID, int) ([]cartsvc.Item, error) {
	return []cartsvc.Item{}, nil
}
func (stubCart) RemoveItem(context.Context, string, uuid.UUID) ([]cartsvc.Item, error) {
	return []cartsvc.Item{}, nil
}
func (stubCart) Clear(context.Context, string) error   { return nil }
func (stubCart) Destroy(context.Context, string) error { return nil }
func (stubCart) Totals(context.Context, string) (cartsvc.Totals, error) {
	return cartsvc.Totals{}, nil
}
func (stubCart) Subscribe(context.Context, string, cartsvc.Subscriber) error { return nil }

type stubCheckout struct{}

func (stubCheckout) Checkout(context.Context, string, checkoutsvc.Input) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{}, nil
}
func (stubCheckout) CapturePayPal(context.Context, string, string) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

type stubOrders struct{}

func (stubOrders) Create(context.Context, ordersvc.CreateInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) Get(context.Context, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) ListForUser(context.Context, uuid.UUID) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}
func (stubOrders) ListPaginated(context.Context, ordersvc.ListInput) (pagination.Envelope[ordersvc.OrderDTO], error) {
	return pagination.Envelope[ordersvc.OrderDTO]{}, nil
}
func (stubOrders) Cancel(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) RequestRefund(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) Refund(context.Context, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}
func (stubOrders) RecordReconciliation(context.Context, enums.PaymentMethod, string, int64, string) error {
	return nil
}
func (stubOrders) ListReconciliations(context.Context) ([]ordersvc.ReconciliationDTO, error) {
	return []ordersvc.ReconciliationDTO{}, nil
}
func (stubOrders) ResolveReconciliation(context.Context, uuid.UUID) error { return nil }

type stubContact struct{}

func (stubContact) Submit(context.Context, contactsvc.SubmitInput) (*contactsvc.MessageDTO, error) {
	return &contactsvc.MessageDTO{}, nil
}
func (stubContact) ListPaginated(context.Context, pagination.Params) (pagination.Envelope[contactsvc.MessageDTO], error) {
	return pagination.Envelope[contactsvc.MessageDTO]{}, nil
}
func (stubContact) Delete(context.Context, uuid.UUID) error { return nil }

type stubDashboard struct{}

func (stubDashboard) Statistics(context.Context) (*dashboardsvc.Statistics, error) {
	return &dashboardsvc.Statistics{}, nil
}
func (stubDashboard) StatisticsForRange(context.Context, dashboardsvc.DateRange) (*dashboardsvc.Statistics, error) {
	return &dashboardsvc.Statistics{}, nil
}
func (stubDashboard) RevenueChart(context.Context, int) ([]dashboardsvc.RevenuePoint, error) {
	return []dashboardsvc.RevenuePoint{}, nil
}
func (stubDashboard) OrderStatusChart(context.Context) ([]dashboardsvc.StatusSlice, error) {
	return []dashboardsvc.StatusSlice{}, nil
}
func (stubDashboard) TopProducts(context.Context, int) ([]dashboardsvc.TopProduct, error) {
	return []dashboardsvc.TopProduct{}, nil
}

type stubChat struct{}

func (stubChat) Ask(context.Context, string, string) (*chatsvc.Answer, error) {
	return &chatsvc.Answer{}, nil
}
func (stubChat) History(context.Context, string) ([]chatsvc.HistoryEntry, error) {
	return []chatsvc.HistoryEntry{}, nil
}
func (stubChat) ClearHistory(context.Context, string) error { return nil }

type stubTracking struct{}

func (stubTracking) TrackShipment(context.Context, string, string) (*trackingsvc.Shipment, error) {
	return &trackingsvc.Shipment{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "test",
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:4200"},
		},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "ezzshop-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter() http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(Deps{
		Config: testConfig(),
		Logger: logg,
		DB:     stubPinger{},

		Auth:       stubAuth{},
		Users:      stubUsers{},
		Products:   stubProducts{},
		Categories: stubCategories{},
		Cart:       stubCart{},
		Checkout:   stubCheckout{},
		Orders:     stubOrders{},
		Contact:    stubContact{},
		Dashboard:  stubDashboard{},
		Chat:       stubChat{},
		Tracking:   stubTracking{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Ezzshop-Env") != "test" {
		t.Errorf("missing env header: %v", resp.Header())
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/api/products", "/api/categories"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAuth(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/api/admin/orders", "/api/admin/users", "/api/admin/dashboard/statistics"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401 without token, got %d", path, resp.Code)
		}
	}
}

func TestCartIssuesSessionHeader(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Error("expected a session id to be issued")
	}
}

func TestCartEchoesProvidedSession(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Session-Id", "sess-keep")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Session-Id"); got != "sess-keep" {
		t.Fatalf("expected session echo, got %q", got)
	}
}

func TestTrackingRouteIsWired(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/tracking?number=EZ1&carrier=smsa", nil))

	// rate limiting fails open with no limiter backend, so the request lands
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
