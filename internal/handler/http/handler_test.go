package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendify/storefront/internal/catalog"
	catalogmem "github.com/trendify/storefront/internal/catalog/memory"
	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/internal/event"
	"github.com/trendify/storefront/internal/profile"
	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/internal/storage/memory"
	"github.com/trendify/storefront/pkg/health"
	"github.com/trendify/storefront/pkg/kafka"
	"github.com/trendify/storefront/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	types  []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev *kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.types = append(p.types, ev.EventType)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.types {
		if t == eventType {
			n++
		}
	}
	return n
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var march2026 = func() time.Time { return time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC) }

type testServer struct {
	router    http.Handler
	publisher *recordingPublisher
	sessionID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testLogger()
	pub := &recordingPublisher{}
	events := event.NewProducer(pub, logger)

	h := NewHandler(
		memory.New(time.Hour),
		catalog.NewService(catalogmem.New(catalog.Seed())),
		checkout.NewService(checkout.NewValidator(march2026), events, logger),
		profile.NewService(march2026),
		events,
		logger,
	)
	return &testServer{
		router:    NewRouter(h, health.NewHandler(), middleware.DefaultCORSConfig(), logger),
		publisher: pub,
		sessionID: uuid.New().String(),
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, s.sessionID)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type cartBody struct {
	BadgeCount int    `json:"badge_count"`
	Total      string `json:"total"`
	Empty      bool   `json:"empty"`
	EmptyMsg   string `json:"empty_message"`
	PanelOpen  bool   `json:"panel_open"`
	Items      []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/api/v1/session/login", map[string]string{
		"username": "tejsingh", "name": "Tej Singh", "email": "tej@example.com", "first_name": "Tej",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func validCheckout() checkout.Submission {
	return checkout.Submission{
		PaymentMethod: checkout.PaymentCard,
		Fields: map[string]string{
			checkout.FieldFullName:   "Tej Singh",
			checkout.FieldAddress1:   "12 MG Road",
			checkout.FieldCity:       "Pune",
			checkout.FieldRegion:     "MH",
			checkout.FieldPostalCode: "411001",
			checkout.FieldCountry:    "India",
			checkout.FieldPhone:      "9999999999",
			checkout.FieldCardName:   "Tej Singh",
			checkout.FieldCardNumber: "4111111111111111",
			checkout.FieldExpiryDate: "12/29",
			checkout.FieldCVV:        "123",
		},
	}
}

// ============================================================================
// Sessions
// ============================================================================

func TestSessions_IssuesIDWhenMissing(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(storage.DurableTTL/time.Second), cookies[0].MaxAge)
}

func TestSessions_ReusesHeaderAndCookie(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, s.sessionID, rec.Header().Get(SessionHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: s.sessionID})
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, s.sessionID, rec.Header().Get(SessionHeader))
}

func TestSessions_RejectsMalformedID(t *testing.T) {
	s := newTestServer(t)
	s.sessionID = "not-a-uuid"

	rec, _ := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	got := rec.Header().Get(SessionHeader)
	assert.NotEqual(t, "not-a-uuid", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

// ============================================================================
// Products
// ============================================================================

func TestListProducts(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeData[catalog.Listing](t, env)
	assert.Equal(t, 12, all.TotalCount)
	assert.False(t, all.NoResults)

	_, env = s.do(t, http.MethodGet, "/api/v1/products?q=%20TEE%20&per_page=1", nil)
	tees := decodeData[catalog.Listing](t, env)
	assert.Equal(t, 2, tees.TotalCount)
	require.Len(t, tees.Items, 1)
	assert.Equal(t, "striped-cotton-tee", tees.Items[0].ID)
	assert.True(t, tees.HasNext)

	_, env = s.do(t, http.MethodGet, "/api/v1/products?q=tuxedo", nil)
	none := decodeData[catalog.Listing](t, env)
	assert.True(t, none.NoResults)
	assert.Empty(t, none.Items)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/products/classic-denim-jacket", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Classic Denim Jacket", p.Name)
	assert.Equal(t, "denim-jackets.png", p.Image)

	rec, env = s.do(t, http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Product not found", env.Error.Message)
}

// ============================================================================
// Cart
// ============================================================================

func TestCart_Flow(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	c := decodeData[cartBody](t, env)
	assert.True(t, c.Empty)
	assert.Equal(t, "Your cart is empty.", c.EmptyMsg)

	rec, env := s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "classic-denim-jacket"})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decodeData[cartBody](t, env)
	assert.Equal(t, 1, c.BadgeCount)
	assert.Equal(t, "$79.99", c.Total)

	_, env = s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "classic-denim-jacket", "quantity": 2})
	c = decodeData[cartBody](t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	_, env = s.do(t, http.MethodPost, "/api/v1/cart/items/classic-denim-jacket/increase", nil)
	assert.Equal(t, 4, decodeData[cartBody](t, env).Items[0].Quantity)

	_, env = s.do(t, http.MethodPost, "/api/v1/cart/items/classic-denim-jacket/decrease", nil)
	assert.Equal(t, 3, decodeData[cartBody](t, env).Items[0].Quantity)

	_, env = s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "wool-scarf"})
	c = decodeData[cartBody](t, env)
	assert.Equal(t, 4, c.BadgeCount)
	assert.Equal(t, "$274.97", c.Total)

	_, env = s.do(t, http.MethodPut, "/api/v1/cart/items/classic-denim-jacket", map[string]any{"quantity": 0})
	c = decodeData[cartBody](t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "wool-scarf", c.Items[0].ID)

	_, env = s.do(t, http.MethodDelete, "/api/v1/cart/items/wool-scarf", nil)
	assert.True(t, decodeData[cartBody](t, env).Empty)

	assert.Equal(t, 7, s.publisher.count(event.TypeCartUpdated))
}

func TestCart_UnknownItemIsNoop(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie"})

	rec, env := s.do(t, http.MethodPost, "/api/v1/cart/items/ghost/increase", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeData[cartBody](t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/cart/items/ghost", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.publisher.count(event.TypeCartUpdated))
}

func TestCart_AddExplicitZeroIsNoop(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie", "quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[cartBody](t, env).Empty)

	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie"})
	_, env = s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie", "quantity": 0})
	c := decodeData[cartBody](t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, s.publisher.count(event.TypeCartUpdated))
}

func TestCart_AddValidation(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "product_id")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/cart/items/x", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_PanelPersistsPerSession(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/cart/panel", nil)
	assert.True(t, decodeData[panelResponse](t, env).PanelOpen)

	_, env = s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.True(t, decodeData[cartBody](t, env).PanelOpen)

	_, env = s.do(t, http.MethodPost, "/api/v1/cart/panel", nil)
	assert.False(t, decodeData[panelResponse](t, env).PanelOpen)
}

func TestCart_ClearedByDelete(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie"})

	_, env := s.do(t, http.MethodDelete, "/api/v1/cart", nil)
	assert.True(t, decodeData[cartBody](t, env).Empty)
}

func TestCart_RejectsNonJSONBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("product_id=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// Checkout
// ============================================================================

func TestCheckout_RequiresLogin(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/checkout/summary", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, checkout.MsgLoginRequired, env.Error.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/checkout", validCheckout())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_InvalidFields(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie"})

	sub := validCheckout()
	sub.Fields[checkout.FieldCardNumber] = "1234"
	sub.Fields[checkout.FieldExpiryDate] = "01/26"

	rec, env := s.do(t, http.MethodPost, "/api/v1/checkout", sub)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Enter a valid card number.", env.Error.Fields[checkout.FieldCardNumber])
	assert.Equal(t, "Card has expired.", env.Error.Fields[checkout.FieldExpiryDate])

	_, env = s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, 1, decodeData[cartBody](t, env).BadgeCount)
}

func TestCheckout_PlaceOrder(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "striped-cotton-tee", "quantity": 2})
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "knit-beanie"})

	_, env := s.do(t, http.MethodGet, "/api/v1/checkout/summary", nil)
	summary := decodeData[struct {
		Total string `json:"total"`
	}](t, env)
	assert.Equal(t, "$84.48", summary.Total)

	rec, env := s.do(t, http.MethodPost, "/api/v1/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeData[struct {
		ID        string `json:"id"`
		ItemCount int    `json:"item_count"`
		Total     string `json:"total"`
		Message   string `json:"message"`
	}](t, env)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 3, order.ItemCount)
	assert.Equal(t, "84.48", order.Total)
	assert.Equal(t, checkout.MsgOrderPlaced, order.Message)

	_, env = s.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.True(t, decodeData[cartBody](t, env).Empty)

	_, env = s.do(t, http.MethodGet, "/api/v1/orders/last", nil)
	last := decodeData[lastOrderResponse](t, env)
	assert.Equal(t, 3, last.ItemCount)
	assert.Len(t, last.Lines, 2)

	assert.Equal(t, 1, s.publisher.count(event.TypeOrderPlaced))
}

func TestCheckField(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/checkout/fields/cvv", map[string]string{"value": "12"})
	got := decodeData[fieldResponse](t, env)
	assert.Equal(t, checkout.StateInvalid, got.State)
	assert.NotEmpty(t, got.Message)

	_, env = s.do(t, http.MethodPost, "/api/v1/checkout/fields/cvv", map[string]string{"value": "123"})
	assert.Equal(t, checkout.StateValid, decodeData[fieldResponse](t, env).State)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/checkout/fields/shoeSize", map[string]string{"value": "9"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Session, profile and theme
// ============================================================================

func TestSession_LoginLogout(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodGet, "/api/v1/session", nil)
	assert.False(t, decodeData[struct {
		LoggedIn bool `json:"logged_in"`
	}](t, env).LoggedIn)

	rec, env := s.do(t, http.MethodPost, "/api/v1/session/login", map[string]string{"username": "tejsingh", "first_name": "Tej"})
	require.Equal(t, http.StatusOK, rec.Code)
	w := decodeData[struct {
		LoggedIn  bool   `json:"logged_in"`
		Message   string `json:"message"`
		HeroTitle string `json:"hero_title"`
	}](t, env)
	assert.True(t, w.LoggedIn)
	assert.Equal(t, "Welcome, Tej!", w.Message)
	assert.Equal(t, "Your Fashion Journey Continues", w.HeroTitle)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/session/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_LoginValidation(t *testing.T) {
	s := newTestServer(t)
	rec, env := s.do(t, http.MethodPost, "/api/v1/session/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "username")
	assert.Contains(t, env.Error.Fields, "email")
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeData[profile.View](t, env)
	assert.Equal(t, "Tej Singh", v.User.Name)
	assert.Equal(t, "March 15, 2026", v.User.JoinDate)

	rec, env = s.do(t, http.MethodPut, "/api/v1/profile", profile.EditRequest{
		Name: "Tej S", Email: "tej@example.com", NewPassword: "a", ConfirmPassword: "b",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, profile.MsgPasswordMismatch, env.Error.Message)

	_, env = s.do(t, http.MethodPut, "/api/v1/profile", profile.EditRequest{Name: "Tej S", Email: "tej@example.com"})
	res := decodeData[profile.EditResult](t, env)
	assert.Equal(t, profile.MsgUpdated, res.Message)
	assert.Equal(t, "Tej S", res.View.User.Name)

	_, env = s.do(t, http.MethodPut, "/api/v1/profile", profile.EditRequest{Name: "Tej S", Email: "tej@example.com"})
	assert.Equal(t, profile.MsgNoChanges, decodeData[profile.EditResult](t, env).Message)
}

func TestTheme(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodGet, "/api/v1/theme", nil)
	assert.Equal(t, "light", string(decodeData[themeResponse](t, env).Theme))

	_, env = s.do(t, http.MethodPost, "/api/v1/theme/toggle", nil)
	assert.Equal(t, "dark", string(decodeData[themeResponse](t, env).Theme))

	_, env = s.do(t, http.MethodGet, "/api/v1/theme", nil)
	assert.Equal(t, "dark", string(decodeData[themeResponse](t, env).Theme))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.router.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "http_requests_total")
}
