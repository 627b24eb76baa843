package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webshop/internal/auth"
	"webshop/internal/cache"
	"webshop/internal/config"
	"webshop/internal/db"
	"webshop/internal/errors"
	"webshop/internal/events"
	"webshop/internal/handler"
	"webshop/internal/model"
	"webshop/internal/repository"
	"webshop/internal/seed"
	"webshop/internal/service"
	"webshop/internal/session"
)

type testServer struct {
	e     *echo.Echo
	store repository.Store
	redis *miniredis.Miniredis
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000&_foreign_keys=on"
	gormDB, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	cacheClient := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { cacheClient.Close() })

	store := repository.NewStore(gormDB)
	data, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.Run(context.Background(), store, data)
	require.NoError(t, err)

	logger := zerolog.Nop()
	tracker := session.NewTracker(session.NewRedisStore(cacheClient, session.Window), logger)
	shop := service.NewShop(store, tracker, events.Nop{}, logger)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	e := echo.New()
	Register(e, cfg, Handlers{
		Auth:     handler.NewAuthHandler(shop.AuthService, jwtService, tokenStore, logger),
		Catalog:  handler.NewCatalogHandler(shop.CatalogService),
		Purchase: handler.NewPurchaseHandler(shop.PurchaseService),
		Admin:    handler.NewAdminHandler(shop.AdminService),
		Seed:     handler.NewSeedHandler(shop.AdminService, store),
	}, jwtService, tokenStore)

	return &testServer{e: e, store: store, redis: mr}
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", LoginRate: 100, LoginBurst: 100}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, name, password string) handler.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", `{"name":"`+name+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp
}

func (s *testServer) bookID(t *testing.T, title string) uint {
	t.Helper()
	books, err := s.store.Books().SearchByTitle(context.Background(), title)
	require.NoError(t, err)
	require.NotEmpty(t, books)
	return books[0].ID
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Code
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegisterLoginAndBuy(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"alice","password":"secret","password_verify":"secret"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/register", `{"name":"bob","password":"secret","password_verify":"other"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PASSWORD_MISMATCH", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"name":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))

	alice := s.login(t, "alice", "secret")
	bookID := s.bookID(t, "Cabal")
	buyPath := "/api/books/" + strconv.FormatUint(uint64(bookID), 10) + "/purchase"

	rec = s.do(t, http.MethodPost, buyPath, "", alice.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sale model.SoldBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.Equal(t, "Cabal", sale.Title)
	assert.Equal(t, alice.User.ID, sale.UserID)

	rec = s.do(t, http.MethodPost, buyPath, "", alice.AccessToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OUT_OF_STOCK", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/me/purchases", "", alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases []model.SoldBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchases))
	assert.Len(t, purchases, 1)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := s.do(t, http.MethodPost, "/api/books/1/purchase", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/me/purchases", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbidCustomers(t *testing.T) {
	s := newTestServer(t, testConfig())
	customer := s.login(t, "Codic2021", "Codic2021")

	rec := s.do(t, http.MethodPost, "/api/admin/categories", `{"name":"Test category"}`, customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/admin/sales", "", customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err := s.store.Categories().FindByName(context.Background(), "Test category")
	assert.Error(t, err)
}

func TestAdminMovesBookIntoNewCategory(t *testing.T) {
	s := newTestServer(t, testConfig())
	admin := s.login(t, "CodicRulez", "Codic2021")

	rec := s.do(t, http.MethodPost, "/api/admin/categories", `{"name":"Test category"}`, admin.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category model.BookCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))

	rec = s.do(t, http.MethodPost, "/api/admin/categories", `{"name":"Test category"}`, admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DUPLICATE_CATEGORY", errorCode(t, rec))

	bookID := s.bookID(t, "Doctor Sleep")
	path := "/api/admin/books/" + strconv.FormatUint(uint64(bookID), 10) + "/category"
	body := `{"category_id":` + strconv.FormatUint(uint64(category.ID), 10) + `}`
	rec = s.do(t, http.MethodPut, path, body, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/categories/"+strconv.FormatUint(uint64(category.ID), 10)+"/books", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var books []model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Doctor Sleep", books[0].Title)

	rec = s.do(t, http.MethodPut, "/api/admin/books/"+strconv.FormatUint(uint64(bookID), 10)+"/amount", `{}`, admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAdminSeedIsIdempotent(t *testing.T) {
	s := newTestServer(t, testConfig())
	admin := s.login(t, "CodicRulez", "Codic2021")

	rec := s.do(t, http.MethodPost, "/api/admin/seed", "", admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.SeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, &seed.Result{}, resp.Created)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, testConfig())
	customer := s.login(t, "Codic2021", "Codic2021")

	rec := s.do(t, http.MethodPost, "/api/auth/logout", "", customer.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/me/purchases", "", customer.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, rec))
}

func TestPingReportsSessionState(t *testing.T) {
	s := newTestServer(t, testConfig())
	customer := s.login(t, "Codic2021", "Codic2021")
	path := "/api/users/" + strconv.FormatUint(uint64(customer.User.ID), 10) + "/ping"

	rec := s.do(t, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ping handler.PingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	assert.Equal(t, "busy", ping.Status)
	assert.Empty(t, ping.Token)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", customer.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	assert.Equal(t, "alive", ping.Status)
	assert.Equal(t, "Pong", ping.Token)

	rec = s.do(t, http.MethodGet, "/api/users/999/ping", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, rec))
}

func TestCatalogQueries(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := s.do(t, http.MethodGet, "/api/books?title=Sleep", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var books []model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Doctor Sleep", books[0].Title)

	rec = s.do(t, http.MethodGet, "/api/books?title=DrSleep", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	assert.Empty(t, books)

	rec = s.do(t, http.MethodGet, "/api/books?title=a&author=b", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/categories/999/books", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/books/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, rec))
}

func TestLoginIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRate = 0.001
	cfg.LoginBurst = 2
	s := newTestServer(t, cfg)

	body := `{"name":"Codic2021","password":"wrong"}`
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, rec))
}
