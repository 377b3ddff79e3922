package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db/dbtest"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminUsername = "admin"
	adminPassword = "adminpass123"
)

type testEnv struct {
	srv     *httptest.Server
	shirtID int64
	jeansID int64
}

// DBはsqliteのインメモリ。cmd/apiと同じ組み立て
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	gdb := dbtest.New(t)

	userRepo := infraRepo.NewUserGormRepository(gdb)
	categoryRepo := infraRepo.NewCategoryGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	reviewRepo := infraRepo.NewReviewGormRepository(gdb)
	cartRepo := infraRepo.NewCartItemGormRepository(gdb)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	jwt := token.NewJWT("test-secret", time.Hour)
	hasher := usecase.NewBcryptPasswordHasher(bcrypt.MinCost)

	authUC := usecase.NewAuthUsecase(userRepo, hasher, hasher, jwt)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo, reviewRepo)
	reviewUC := usecase.NewReviewUsecase(txm, productRepo, reviewRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, usecase.UUIDOrderNumberGenerator{}, nil, nil)

	sessions := middleware.NewSessionManager(config.Config{SessionLifetime: time.Hour})
	e := server.New(server.Options{
		Sessions: sessions,
		Tokens:   jwt,
		Users:    userRepo,
		Metrics:  middleware.NewHTTPMetrics("storefront"),
		LogLevel: log.OFF,
	},
		handler.NewAuthHandler(authUC, sessions),
		handler.NewCategoryHandler(productUC),
		handler.NewProductHandler(productUC, reviewUC),
		handler.NewCartHandler(usecase.NewCartUsecase(cartRepo, productRepo)),
		handler.NewWishlistHandler(usecase.NewWishlistUsecase(txm, wishlistRepo, productRepo)),
		handler.NewOrderHandler(orderUC),
		handler.NewAdminProductHandler(productUC, reviewUC),
		handler.NewAdminOrderHandler(usecase.NewAdminOrderUsecase(txm, orderRepo, orderItemRepo)),
		handler.NewAdminAuditHandler(usecase.NewAuditLogUsecase(auditRepo)),
	)

	_, err := authUC.Register(ctx, usecase.RegisterInput{
		Username: adminUsername,
		Email:    "admin@example.com",
		Password: adminPassword,
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	men, err := categoryRepo.Create(ctx, model.Category{Name: "Men's Fashion"})
	require.NoError(t, err)
	shirt, err := productRepo.Create(ctx, model.Product{
		Name: "Men's Classic Shirt", Price: decimal.RequireFromString("19.99"), OriginalPrice: decimal.RequireFromString("29.99"),
		SKU: "MTS-001", CategoryID: men.ID, InStock: true,
	})
	require.NoError(t, err)
	jeans, err := productRepo.Create(ctx, model.Product{
		Name: "Men's Slim Fit Jeans", Price: decimal.RequireFromString("39.99"),
		SKU: "MJ-001", CategoryID: men.ID, InStock: true,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, shirtID: shirt.ID, jeansID: jeans.ID}
}

// cookie付きのクライアント
type testClient struct {
	t       *testing.T
	baseURL string
	http    *http.Client
	bearer  string
}

func (env *testEnv) client(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:       t,
		baseURL: env.srv.URL,
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

// statusとbodyを返す。outがあればJSONを読む
func (c *testClient) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
	return res.StatusCode
}

func (c *testClient) register(username string) {
	c.t.Helper()
	status := c.do(http.MethodPost, "/auth/register/", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cretpass",
	}, nil)
	require.Equal(c.t, http.StatusCreated, status)
}

func (c *testClient) login(username, password string) loginBody {
	c.t.Helper()
	var out loginBody
	status := c.do(http.MethodPost, "/auth/login/", map[string]string{"username": username, "password": password}, &out)
	require.Equal(c.t, http.StatusOK, status)
	return out
}

type loginBody struct {
	Message string          `json:"message"`
	User    usecase.UserDTO `json:"user"`
	Token   struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	} `json:"token"`
}

type errorBody struct {
	Error string `json:"error"`
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + suffix
}
