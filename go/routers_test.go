package dscommerceserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authapp "github.com/devsuperior/dscommerce/internal/domains/auth/application"
	catalogmemory "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/devsuperior/dscommerce/internal/domains/catalog/application"
	catalogtypes "github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/orders/adapters/bridge"
	ordersmemory "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/memory"
	ordersapp "github.com/devsuperior/dscommerce/internal/domains/orders/application"
	ordertypes "github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	usersmemory "github.com/devsuperior/dscommerce/internal/domains/users/adapters/memory"
	usersapp "github.com/devsuperior/dscommerce/internal/domains/users/application"
	usertypes "github.com/devsuperior/dscommerce/internal/domains/users/application/types"
	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/platform/security"
	"github.com/devsuperior/dscommerce/internal/platform/seed"
	apierrors "github.com/devsuperior/dscommerce/internal/shared/errors"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
	"github.com/devsuperior/dscommerce/internal/shared/requestid"
)

const (
	maria = "maria@gmail.com"
	alex  = "alex@gmail.com"
)

func newTestHandlers(t *testing.T) ApiHandleFunctions {
	t.Helper()
	ctx := context.Background()
	orders := ordersmemory.NewRepository()
	catalog := catalogmemory.NewRepository(catalogmemory.WithReferenceChecker(orders.ReferencesProduct))
	users := usersmemory.NewRepository()
	encoder := security.NewBcryptEncoder(4)
	require.NoError(t, seed.LoadMemory(ctx, seed.Memory{Catalog: catalog, Users: users, Orders: orders}, seed.Reference(), encoder))

	tokens, err := security.NewJWTIssuer("test-secret")
	require.NoError(t, err)
	userService := usersapp.NewService(users, usersmemory.NewSessionStore(), encoder, tokens)
	orderService := ordersapp.NewService(orders, bridge.NewCatalog(catalog), bridge.NewClients(userService), authapp.NewService(userService))

	return ApiHandleFunctions{
		Security:    NewSecurity(userService),
		AuthAPI:     NewAuthAPI(userService),
		UserAPI:     NewUserAPI(userService),
		CategoryAPI: NewCategoryAPI(catalogapp.NewCategoryService(catalog)),
		ProductAPI:  NewProductAPI(catalogapp.NewProductService(catalog)),
		OrderAPI:    NewOrderAPI(orderService, nil),
	}
}

func newTestRouter(t *testing.T, middleware ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(newTestHandlers(t), middleware...)
}

func perform(router http.Handler, method, target, token string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, username string) string {
	t.Helper()
	form := url.Values{"grant_type": {"password"}, "username": {username}, "password": {seed.DefaultPassword}}
	req := httptest.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Positive(t, token.ExpiresIn)
	return token.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/health", "", nil, requestid.Header, "abc-123")

	assert.Equal(t, "abc-123", rec.Header().Get(requestid.Header))
}

func TestIssueTokenAcceptsJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/oauth2/token", "",
		strings.NewReader(`{"grant_type":"password","username":"alex@gmail.com","password":"123456"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[TokenResponse](t, rec)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "read write", token.Scope)
}

func TestIssueTokenRejectsWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/oauth2/token", "",
		strings.NewReader(`{"username":"alex@gmail.com","password":"nope"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[apierrors.ProblemDetail](t, rec)
	assert.Equal(t, apierrors.TypeUnauthorized, problem.Type)
}

func TestIssueTokenRejectsOtherGrants(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/oauth2/token", "",
		strings.NewReader(`{"grant_type":"client_credentials","username":"alex@gmail.com","password":"123456"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMe(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, alex)

	rec := perform(router, http.MethodGet, "/users/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[usertypes.UserDTO](t, rec)
	assert.Equal(t, "Alex Green", me.Name)
	assert.ElementsMatch(t, []string{"ROLE_CLIENT", "ROLE_ADMIN"}, me.Roles)
}

func TestProtectedRoutesNeedAValidToken(t *testing.T) {
	router := newTestRouter(t)

	missing := perform(router, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Contains(t, missing.Header().Get("WWW-Authenticate"), "Bearer")

	forged := perform(router, http.MethodGet, "/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, forged.Code)
}

func TestRevokeEndsTheSession(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, maria)

	rec := perform(router, http.MethodPost, "/oauth2/revoke", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = perform(router, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type failingLogout struct {
	usersports.Service
}

func (failingLogout) Logout(context.Context, identity.Principal) error {
	return errors.New("session store unavailable")
}

func TestRevokeReportsSessionStoreFailure(t *testing.T) {
	handlers := newTestHandlers(t)
	handlers.AuthAPI = NewAuthAPI(failingLogout{Service: handlers.AuthAPI.service})
	gin.SetMode(gin.TestMode)
	router := NewRouter(handlers)
	token := login(t, router, maria)

	rec := perform(router, http.MethodPost, "/oauth2/revoke", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = perform(router, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFindAllCategories(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/categories", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]catalogtypes.CategoryDTO](t, rec)
	require.Len(t, categories, 3)
	assert.Equal(t, "Livros", categories[0].Name)
}

func TestFindAllProductsPagesAndSorts(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/products?name=gamer&size=5&sort=price,desc", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pagination.Page[catalogtypes.ProductMinDTO]](t, rec)
	assert.Equal(t, int64(11), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 5)
	assert.Equal(t, "PC Gamer Hera", page.Content[0].Name)
	assert.True(t, page.Content[0].Price.Equal(decimal.NewFromInt(2250)))
}

func TestFindAllProductsRejectsUnknownSort(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/products?sort=description", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindAllProductsRejectsPageBeyondLimit(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/products?page=768614336404564651", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	last := perform(router, http.MethodGet, fmt.Sprintf("/products?page=%d", pagination.MaxPage), "", nil)
	require.Equal(t, http.StatusOK, last.Code)
	assert.Empty(t, decode[pagination.Page[catalogtypes.ProductMinDTO]](t, last).Content)
}

func TestFindProductByID(t *testing.T) {
	router := newTestRouter(t)

	found := perform(router, http.MethodGet, "/products/1", "", nil)
	require.Equal(t, http.StatusOK, found.Code)
	product := decode[catalogtypes.ProductDTO](t, found)
	assert.Equal(t, "The Lord of the Rings", product.Name)

	missing := perform(router, http.MethodGet, "/products/1000", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	malformed := perform(router, http.MethodGet, "/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

const newProductBody = `{"name":"PlayStation 5","description":"Lorem ipsum dolor sit amet","price":3000.0,"imgUrl":"https://example.com/ps5.jpg","categories":[{"id":2}]}`

func TestInsertProductRequiresAdmin(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/products", login(t, router, maria), strings.NewReader(newProductBody))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInsertProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/products", login(t, router, alex), strings.NewReader(newProductBody))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[catalogtypes.ProductDTO](t, rec)
	assert.Equal(t, int64(16), created.ID)
	assert.Equal(t, "/products/16", rec.Header().Get("Location"))
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Eletrônicos", created.Categories[0].Name)
}

func TestInsertProductReportsFieldErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/products", login(t, router, alex),
		strings.NewReader(`{"name":"PS","description":"short","price":-1,"categories":[]}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	fields := make([]string, 0, len(problem.Errors))
	for _, e := range problem.Errors {
		fields = append(fields, e.FieldName)
	}
	assert.Equal(t, []string{"name", "description", "price", "categories"}, fields)
}

func TestUpdateProduct(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, alex)

	rec := perform(router, http.MethodPut, "/products/2", token, strings.NewReader(newProductBody))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PlayStation 5", decode[catalogtypes.ProductDTO](t, rec).Name)

	missing := perform(router, http.MethodPut, "/products/1000", token, strings.NewReader(newProductBody))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDeleteProduct(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, alex)

	unreferenced := perform(router, http.MethodDelete, "/products/2", token, nil)
	assert.Equal(t, http.StatusNoContent, unreferenced.Code)

	missing := perform(router, http.MethodDelete, "/products/1000", token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	referenced := perform(router, http.MethodDelete, "/products/1", token, nil)
	require.Equal(t, http.StatusBadRequest, referenced.Code)
	assert.Equal(t, apierrors.TypeConstraint, decode[apierrors.ProblemDetail](t, referenced).Type)
}

func TestFindOrderByIDChecksOwnership(t *testing.T) {
	router := newTestRouter(t)

	own := perform(router, http.MethodGet, "/orders/1", login(t, router, maria), nil)
	require.Equal(t, http.StatusOK, own.Code)
	order := decode[ordertypes.OrderDTO](t, own)
	assert.Equal(t, "Maria Brown", order.Client.Name)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1431)))

	other := perform(router, http.MethodGet, "/orders/2", login(t, router, maria), nil)
	assert.Equal(t, http.StatusForbidden, other.Code)

	admin := perform(router, http.MethodGet, "/orders/1", login(t, router, alex), nil)
	assert.Equal(t, http.StatusOK, admin.Code)

	missing := perform(router, http.MethodGet, "/orders/1000", login(t, router, alex), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestInsertOrder(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, maria)

	rec := perform(router, http.MethodPost, "/orders", token,
		strings.NewReader(`{"items":[{"productId":2,"quantity":1},{"productId":1,"quantity":3}]}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[ordertypes.OrderDTO](t, rec)
	assert.Equal(t, "/orders/4", rec.Header().Get("Location"))
	assert.Equal(t, "WAITING_PAYMENT", order.Status)
	assert.Equal(t, int64(1), order.Client.ID)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(2190)))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("2461.5")))
}

func TestInsertOrderWithUnknownProductStoresNothing(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, maria)

	rec := perform(router, http.MethodPost, "/orders", token,
		strings.NewReader(`{"items":[{"productId":2,"quantity":1},{"productId":1000,"quantity":1}]}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(router, http.MethodGet, "/orders/4", login(t, router, alex), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsertOrderValidatesQuantities(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/orders", login(t, router, maria),
		strings.NewReader(`{"items":[{"productId":2,"quantity":0}]}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUnknownRouteIsAProblem(t *testing.T) {
	router := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
}
