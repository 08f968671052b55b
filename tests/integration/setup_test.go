// Package integration exercises the full HTTP stack against an in-memory
// sqlite database: router, auth middleware, handlers, services and the
// gorm repositories all run for real. Only postgres row locking is absent.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appcatalog "github.com/udyog/backend/internal/application/catalog"
	appidentity "github.com/udyog/backend/internal/application/identity"
	appledger "github.com/udyog/backend/internal/application/ledger"
	apppartner "github.com/udyog/backend/internal/application/partner"
	appproduction "github.com/udyog/backend/internal/application/production"
	appquotation "github.com/udyog/backend/internal/application/quotation"
	apptrade "github.com/udyog/backend/internal/application/trade"
	"github.com/udyog/backend/internal/infrastructure/auth"
	"github.com/udyog/backend/internal/infrastructure/config"
	"github.com/udyog/backend/internal/infrastructure/persistence"
	"github.com/udyog/backend/internal/interfaces/http/handler"
	"github.com/udyog/backend/internal/interfaces/http/router"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrateAll(db))

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-access-secret",
		RefreshSecret:          "integration-test-refresh-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "udyog-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	tokens := auth.NewTokenProvider(jwtService, blacklist)

	txScope := persistence.NewGormTransactionScope(db)
	ledgers := appledger.NewFactory(log)

	authService := appidentity.NewAuthService(txScope, tokens, log)
	paymentService := apppartner.NewPaymentService(txScope, ledgers, log)
	historyService := appledger.NewHistoryService(txScope, log)

	engine := router.New(log, jwtService, blacklist, router.Handlers{
		System:    handler.NewSystemHandler(func() error { return nil }, "test"),
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(appcatalog.NewProductService(txScope, log), historyService),
		Category:  handler.NewCategoryHandler(appcatalog.NewCategoryService(txScope, log)),
		Customer:  handler.NewCustomerHandler(apppartner.NewCustomerService(txScope, log), paymentService, historyService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Machine:   handler.NewMachineHandler(appproduction.NewMachineService(txScope, log)),
		Batch:     handler.NewBatchHandler(appproduction.NewBatchService(txScope, ledgers, log)),
		Quotation: handler.NewQuotationHandler(appquotation.NewQuotationService(txScope, log)),
		Purchase:  handler.NewPurchaseHandler(apptrade.NewPurchaseService(txScope, ledgers, log)),
		Sale:      handler.NewSaleHandler(apptrade.NewSaleService(txScope, ledgers, log)),
	})

	return &testServer{t: t, engine: engine, db: db}
}

// envelope mirrors the API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

// mustDo asserts the expected status and decodes the response envelope
func (s *testServer) mustDo(method, path, token string, body any, wantStatus int) envelope {
	s.t.Helper()

	rec := s.do(method, path, token, body)
	require.Equal(s.t, wantStatus, rec.Code, "unexpected status for %s %s: %s", method, path, rec.Body.String())

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// register bootstraps a tenant and returns an access token for its admin
func (s *testServer) register(tenantName, email string) string {
	s.t.Helper()

	env := s.mustDo(http.MethodPost, "/auth/register", "", appidentity.RegisterRequest{
		TenantName: tenantName,
		Name:       "Admin",
		Email:      email,
		Password:   "s3cretpass",
	}, http.StatusCreated)
	login := decodeData[appidentity.LoginResponse](s.t, env)
	require.NotEmpty(s.t, login.Tokens.AccessToken)
	return login.Tokens.AccessToken
}

func (s *testServer) createCustomer(token, name string) apppartner.CustomerResponse {
	s.t.Helper()
	env := s.mustDo(http.MethodPost, "/customers", token, apppartner.CreateCustomerRequest{
		Name:      name,
		GSTNumber: "27AABCU9603R1ZM",
	}, http.StatusCreated)
	return decodeData[apppartner.CustomerResponse](s.t, env)
}

func (s *testServer) createProduct(token, name string) appcatalog.ProductResponse {
	s.t.Helper()
	env := s.mustDo(http.MethodPost, "/products", token, appcatalog.CreateProductRequest{
		Name: name,
		Unit: "kg",
	}, http.StatusCreated)
	return decodeData[appcatalog.ProductResponse](s.t, env)
}

func (s *testServer) getProduct(token string, id string) appcatalog.ProductResponse {
	s.t.Helper()
	env := s.mustDo(http.MethodGet, "/products/"+id, token, nil, http.StatusOK)
	return decodeData[appcatalog.ProductResponse](s.t, env)
}

func (s *testServer) getCustomer(token string, id string) apppartner.CustomerResponse {
	s.t.Helper()
	env := s.mustDo(http.MethodGet, "/customers/"+id, token, nil, http.StatusOK)
	return decodeData[apppartner.CustomerResponse](s.t, env)
}
