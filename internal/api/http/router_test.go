package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sachi-ghani/storefront-service/internal/api/http/handlers"
	"github.com/sachi-ghani/storefront-service/internal/auth"
	"github.com/sachi-ghani/storefront-service/internal/config"
	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/observability"
	"github.com/sachi-ghani/storefront-service/internal/repository"
	"github.com/sachi-ghani/storefront-service/internal/service"
	"github.com/sachi-ghani/storefront-service/internal/storage"
)

// memStore backs every repository interface for boundary tests.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*domain.User
	carts    map[string][]domain.CartItem
	orders   []domain.Order
	feedback []domain.Feedback
	resets   map[string]*repository.PasswordResetToken
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*domain.User),
		carts:  make(map[string][]domain.CartItem),
		resets: make(map[string]*repository.PasswordResetToken),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

type memUserRepo struct{ store *memStore }

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.store.id("user")
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memUserRepo) GetCart(_ context.Context, userID string) ([]domain.CartItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]domain.CartItem{}, r.store.carts[userID]...), nil
}

func (r memUserRepo) ReplaceCart(_ context.Context, userID string, items []domain.CartItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.carts[userID] = append([]domain.CartItem{}, items...)
	return nil
}

type memOrderRepo struct{ store *memStore }

func (r memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order.ID = r.store.id("order")
	r.store.orders = append(r.store.orders, *order)
	// order insert and cart clear share one transaction in the real repo
	delete(r.store.carts, order.UserID)
	return nil
}

func (r memOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Order
	for i := len(r.store.orders) - 1; i >= 0; i-- {
		if r.store.orders[i].UserID == userID {
			result = append(result, r.store.orders[i])
		}
	}
	return result, nil
}

func (r memOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Order
	for i := len(r.store.orders) - 1; i >= 0; i-- {
		order := r.store.orders[i]
		if owner, ok := r.store.users[order.UserID]; ok {
			order.Owner = &domain.OrderOwner{Name: owner.Name, Email: owner.Email}
		}
		result = append(result, order)
	}
	return result, nil
}

func (r memOrderRepo) CountAll(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.orders), nil
}

type memFeedbackRepo struct{ store *memStore }

func (r memFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	feedback.ID = r.store.id("feedback")
	r.store.feedback = append(r.store.feedback, *feedback)
	return nil
}

func (r memFeedbackRepo) List(_ context.Context, limit int) ([]domain.Feedback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Feedback
	for i := len(r.store.feedback) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.store.feedback[i])
	}
	return result, nil
}

func (r memFeedbackRepo) GetByID(_ context.Context, id string) (*domain.Feedback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.feedback {
		if r.store.feedback[i].ID == id {
			clone := r.store.feedback[i]
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memFeedbackRepo) Update(_ context.Context, feedback *domain.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.feedback {
		if r.store.feedback[i].ID == feedback.ID {
			r.store.feedback[i] = *feedback
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r memFeedbackRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.feedback {
		if r.store.feedback[i].ID == id {
			r.store.feedback = append(r.store.feedback[:i], r.store.feedback[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memResetRepo struct{ store *memStore }

func (r memResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token.ID = r.store.id("reset")
	clone := *token
	r.store.resets[token.Token] = &clone
	return nil
}

func (r memResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.resets[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *token
	return &clone, nil
}

func (r memResetRepo) Consume(_ context.Context, tokenID, userID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, token := range r.store.resets {
		if token.ID == tokenID {
			user.PasswordHash = passwordHash
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r memResetRepo) InvalidateForUser(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, token := range r.store.resets {
		if token.UserID == userID && token.UsedAt == nil {
			delete(r.store.resets, key)
		}
	}
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront-test", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLHours:     168,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
		CORS: config.CORSConfig{AllowedOrigin: "*"},
	}

	store := newMemStore()
	users := memUserRepo{store: store}
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: memResetRepo{store: store},
		Dispatcher:        dispatcher,
	})

	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), cfg)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Cart:           handlers.NewCartHandler(service.NewCartService(users)),
		Orders:         handlers.NewOrdersHandler(service.NewOrderService(memOrderRepo{store: store}, dispatcher)),
		Feedback:       handlers.NewFeedbackHandler(service.NewFeedbackService(memFeedbackRepo{store: store}, dispatcher)),
		Upload:         handlers.NewUploadHandler(storage.NewImageUploader(config.StorageConfig{}, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (int, map[string]any, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed, raw
}

func registerUser(t *testing.T, app *fiber.App, name, email, password string) (token, userID string) {
	t.Helper()
	status, body, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	token = body["token"].(string)
	userID = body["user"].(map[string]any)["id"].(string)
	return token, userID
}

func TestRegisterThenLogin(t *testing.T) {
	app, _ := newTestApp(t)

	_, registeredID := registerUser(t, app, "Alice", "alice@example.com", "secret1")

	status, body, raw := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, registeredID, body["user"].(map[string]any)["id"])
	assert.NotContains(t, string(raw), "secret1")
	assert.NotContains(t, string(raw), "password")
}

func TestRegister_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	status, body, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["message"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "Alice", "alice@example.com", "secret1")

	status, body, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Alice Again", "email": "alice@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["message"])
}

func TestLogin_IdenticalErrorForBothFailureModes(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "Alice", "alice@example.com", "secret1")

	wrongStatus, wrongBody, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong",
	})
	unknownStatus, unknownBody, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "ghost@example.com", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, wrongStatus, unknownStatus)
	assert.Equal(t, wrongBody["message"], unknownBody["message"])
}

func TestForgotPassword_AlwaysGenericSuccess(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "Alice", "alice@example.com", "secret1")

	knownStatus, knownBody, _ := doJSON(t, app, http.MethodPost, "/auth/forgot-password", "", fiber.Map{
		"email": "alice@example.com",
	})
	unknownStatus, unknownBody, _ := doJSON(t, app, http.MethodPost, "/auth/forgot-password", "", fiber.Map{
		"email": "ghost@example.com",
	})

	assert.Equal(t, http.StatusOK, knownStatus)
	assert.Equal(t, knownStatus, unknownStatus)
	assert.Equal(t, knownBody["message"], unknownBody["message"])
}

func TestCart_RequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, body, _ := doJSON(t, app, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["message"])
}

func TestCart_LastWriteWins(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "Alice", "alice@example.com", "secret1")

	first := fiber.Map{"cart": []fiber.Map{{"productId": "1l", "name": "Mustard Oil 1L", "qty": 1, "price": 165}}}
	second := fiber.Map{"cart": []fiber.Map{{"productId": "5l", "name": "Mustard Oil 5L", "qty": 2, "price": 760}}}

	status, _, _ := doJSON(t, app, http.MethodPut, "/api/cart", token, first)
	require.Equal(t, http.StatusOK, status)
	status, _, _ = doJSON(t, app, http.MethodPut, "/api/cart", token, second)
	require.Equal(t, http.StatusOK, status)

	status, _, raw := doJSON(t, app, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, status)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "5l", items[0]["productId"])

	// idempotent second read
	_, _, again := doJSON(t, app, http.MethodGet, "/api/cart", token, nil)
	assert.JSONEq(t, string(raw), string(again))
}

func TestPlaceOrder_SnapshotAndCartClear(t *testing.T) {
	app, store := newTestApp(t)
	token, userID := registerUser(t, app, "Alice", "alice@example.com", "secret1")

	status, _, _ := doJSON(t, app, http.MethodPut, "/api/cart", token, fiber.Map{
		"cart": []fiber.Map{{"productId": "1l", "name": "Mustard Oil 1L", "qty": 2, "price": 165}},
	})
	require.Equal(t, http.StatusOK, status)

	status, body, _ := doJSON(t, app, http.MethodPost, "/api/orders", token, fiber.Map{
		"items":           []fiber.Map{{"productId": "1l", "name": "Mustard Oil 1L", "qty": 2, "price": 165}},
		"total":           330,
		"customerDetails": fiber.Map{"fullName": "Alice", "phone": "9999999999", "address": "12 Oil Lane", "utr": "UTR123"},
		"deliveryMethod":  "pickup",
		"paymentProof":    "https://img.example.com/proof.jpg",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 330.0, body["total"])
	assert.NotEmpty(t, body["orderId"])
	assert.Equal(t, "placed", body["status"])
	assert.Equal(t, "pickup", body["deliveryMethod"])

	store.mu.Lock()
	assert.Empty(t, store.carts[userID], "checkout clears the cart")
	store.mu.Unlock()

	status, _, raw := doJSON(t, app, http.MethodGet, "/api/orders/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(raw, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, body["orderId"], mine[0]["orderId"])
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	app, store := newTestApp(t)
	token, _ := registerUser(t, app, "Alice", "alice@example.com", "secret1")

	status, body, _ := doJSON(t, app, http.MethodPost, "/api/orders", token, fiber.Map{
		"items": []fiber.Map{}, "total": 100,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["message"])

	store.mu.Lock()
	assert.Empty(t, store.orders)
	store.mu.Unlock()
}

func TestAllOrders_AdminOnly(t *testing.T) {
	app, store := newTestApp(t)
	userToken, _ := registerUser(t, app, "Alice", "alice@example.com", "secret1")

	status, body, _ := doJSON(t, app, http.MethodGet, "/api/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.NotEmpty(t, body["message"])

	_, adminID := registerUser(t, app, "Root", "admin@example.com", "secret1")
	store.mu.Lock()
	store.users[adminID].IsAdmin = true
	store.mu.Unlock()

	// re-login so the token carries the admin flag
	status, loginBody, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "admin@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, status)
	adminToken := loginBody["token"].(string)

	doJSON(t, app, http.MethodPost, "/api/orders", userToken, fiber.Map{
		"items": []fiber.Map{{"productId": "1l", "name": "Mustard Oil 1L", "qty": 1, "price": 165}},
		"total": 165,
	})

	status, adminBody, _ := doJSON(t, app, http.MethodGet, "/api/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, adminBody["totalOrders"])
	orders := adminBody["orders"].([]any)
	require.Len(t, orders, 1)
	owner := orders[0].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", owner["email"])
}

func TestFeedback_CreateListUpdateDelete(t *testing.T) {
	app, _ := newTestApp(t)

	status, created, _ := doJSON(t, app, http.MethodPost, "/api/feedback", "", fiber.Map{
		"name": "Bob", "message": "Great oil", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, status)
	id := created["id"].(string)

	doJSON(t, app, http.MethodPost, "/api/feedback", "", fiber.Map{
		"name": "Carol", "message": "Very pungent",
	})

	status, _, raw := doJSON(t, app, http.MethodGet, "/api/feedback", "", nil)
	require.Equal(t, http.StatusOK, status)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Carol", listed[0]["name"], "newest first")
	assert.Equal(t, 5.0, listed[0]["rating"], "rating defaults to 5")

	status, updated, _ := doJSON(t, app, http.MethodPut, "/api/feedback/"+id, "", fiber.Map{
		"message": "Still great",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Still great", updated["message"])

	status, body, _ := doJSON(t, app, http.MethodPut, "/api/feedback/missing", "", fiber.Map{"message": "x"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["message"])

	status, _, _ = doJSON(t, app, http.MethodDelete, "/api/feedback/"+id, "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = doJSON(t, app, http.MethodDelete, "/api/feedback/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpload_MissingFile(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
}

func TestHealthLive(t *testing.T) {
	app, _ := newTestApp(t)

	status, body, _ := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
}
