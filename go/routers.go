package dscommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/devsuperior/dscommerce/internal/domains/users/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Access is who may call the route.
	Access Access
}

// NewRouter returns a new router with the standard middleware chain.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(middleware...)
	router.Use(Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	guard := handleFunctions.Security
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := append(guard.chain(route.Access), route.HandlerFunc)
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	router.NoRoute(func(c *gin.Context) {
		respondNotFoundRoute(c)
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Security authenticates bearer tokens for protected routes.
	Security Security
	// Routes for the AuthAPI part of the API
	AuthAPI AuthAPI
	// Routes for the UserAPI part of the API
	UserAPI UserAPI
	// Routes for the CategoryAPI part of the API
	CategoryAPI CategoryAPI
	// Routes for the ProductAPI part of the API
	ProductAPI ProductAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	clientOrAdmin := RequireAuthority(usersdomain.RoleClient, usersdomain.RoleAdmin)
	admin := RequireAuthority(usersdomain.RoleAdmin)
	client := RequireAuthority(usersdomain.RoleClient)
	return []Route{
		{"Health", http.MethodGet, "/health", Health, Public},
		{"IssueToken", http.MethodPost, "/oauth2/token", handleFunctions.AuthAPI.IssueToken, Public},
		{"RevokeToken", http.MethodPost, "/oauth2/revoke", handleFunctions.AuthAPI.RevokeToken, Authenticated},
		{"GetMe", http.MethodGet, "/users/me", handleFunctions.UserAPI.GetMe, clientOrAdmin},
		{"FindAllCategories", http.MethodGet, "/categories", handleFunctions.CategoryAPI.FindAll, Public},
		{"FindAllProducts", http.MethodGet, "/products", handleFunctions.ProductAPI.FindAll, Public},
		{"FindProductById", http.MethodGet, "/products/:id", handleFunctions.ProductAPI.FindByID, Public},
		{"InsertProduct", http.MethodPost, "/products", handleFunctions.ProductAPI.Insert, admin},
		{"UpdateProduct", http.MethodPut, "/products/:id", handleFunctions.ProductAPI.Update, admin},
		{"DeleteProduct", http.MethodDelete, "/products/:id", handleFunctions.ProductAPI.Delete, admin},
		{"FindOrderById", http.MethodGet, "/orders/:id", handleFunctions.OrderAPI.FindByID, clientOrAdmin},
		{"InsertOrder", http.MethodPost, "/orders", handleFunctions.OrderAPI.Insert, client},
	}
}
