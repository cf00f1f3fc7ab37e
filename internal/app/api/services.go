package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	authapp "github.com/devsuperior/dscommerce/internal/domains/auth/application"
	catalogobs "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/devsuperior/dscommerce/internal/domains/catalog/application"
	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/domains/orders/adapters/bridge"
	ordersobs "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/observability"
	ordersapp "github.com/devsuperior/dscommerce/internal/domains/orders/application"
	ordersports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	usersobs "github.com/devsuperior/dscommerce/internal/domains/users/adapters/observability"
	usersapp "github.com/devsuperior/dscommerce/internal/domains/users/application"
	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/platform/observability"
	"github.com/devsuperior/dscommerce/internal/platform/security"
	platformtemporal "github.com/devsuperior/dscommerce/internal/platform/temporal"
)

// Services holds the decorated use cases handed to transports and workers.
type Services struct {
	Users      usersports.Service
	Auth       *authapp.Service
	Categories catalogports.CategoryService
	Products   catalogports.ProductService
	Orders     ordersports.Service
}

// BuildServices wires the bounded contexts over stores. events may be nil.
func BuildServices(cfg Config, stores *Stores, instruments *observability.Instruments, events ordersports.EventPublisher) (*Services, error) {
	logger := slog.Default()
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}
	tokens, err := security.NewJWTIssuer(resolveSecret(cfg, logger), security.WithTTL(cfg.TokenTTL))
	if err != nil {
		return nil, fmt.Errorf("configure token issuer: %w", err)
	}

	users := usersobs.New(
		usersapp.NewService(stores.Users, stores.Sessions, newPasswordEncoder(cfg), tokens),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	auth := authapp.NewService(users)

	products := catalogobs.NewProductService(
		catalogapp.NewProductService(stores.Products),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	opts := []ordersapp.Option{}
	if events != nil {
		opts = append(opts, ordersapp.WithEventPublisher(events))
	}
	orders := ordersobs.New(
		ordersapp.NewService(stores.Orders, bridge.NewCatalog(stores.Products), bridge.NewClients(users), auth, opts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	return &Services{
		Users:      users,
		Auth:       auth,
		Categories: catalogapp.NewCategoryService(stores.Categories),
		Products:   products,
		Orders:     orders,
	}, nil
}

// OrderFaults lists the business failures that cross the placement workflow
// boundary unchanged and are never retried.
func OrderFaults() platformtemporal.Faults {
	return platformtemporal.Faults{
		{Name: "ProductNotFound", Err: ordersports.ErrProductNotFound},
		{Name: "ResourceNotFound", Err: ordersapp.ErrResourceNotFound},
		{Name: "InvalidInput", Err: ordersapp.ErrInvalidInput},
		{Name: "UserNotFound", Err: usersapp.ErrUserNotFound},
		{Name: "Forbidden", Err: authapp.ErrForbidden},
	}
}

func newPasswordEncoder(cfg Config) *security.BcryptEncoder {
	return security.NewBcryptEncoder(cfg.BcryptCost)
}

// resolveSecret returns the configured signing secret or a random one.
// Random secrets invalidate tokens on restart and across replicas.
func resolveSecret(cfg Config, logger *slog.Logger) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	logger.Warn("JWT_SECRET not set, signing tokens with a random secret")
	return hex.EncodeToString(buf)
}
