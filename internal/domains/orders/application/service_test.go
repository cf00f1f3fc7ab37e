package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const (
	existingOrderID    int64 = 1
	nonExistingOrderID int64 = 2
	existingProductID  int64 = 1
	nonExistingProduct int64 = 2
)

var (
	errUserNotFound = errors.New("user not found")
	errForbidden    = errors.New("access denied")

	admin  = domain.Client{ID: 1, Name: "Jef"}
	client = domain.Client{ID: 2, Name: "Bob"}
	fixed  = time.Date(2022, 7, 25, 13, 0, 0, 0, time.UTC)
)

type fakeRepo struct {
	orders map[int64]*domain.Order
	saved  []*domain.Order
	nextID int64
}

func newFakeRepo() *fakeRepo {
	order := domain.NewOrder(client, fixed)
	order.ID = existingOrderID
	order.AddItem(domain.ProductSnapshot{ID: existingProductID, Name: "PlayStation 5", Price: decimal.NewFromFloat(3000.0)}, 2)
	return &fakeRepo{orders: map[int64]*domain.Order{existingOrderID: order}, nextID: 10}
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *fakeRepo) Save(_ context.Context, o *domain.Order) (*domain.Order, error) {
	cp := o.Clone()
	r.nextID++
	cp.ID = r.nextID
	r.orders[cp.ID] = cp
	r.saved = append(r.saved, cp)
	return cp.Clone(), nil
}

type fakeCatalog map[int64]domain.ProductSnapshot

func (c fakeCatalog) GetReference(_ context.Context, id int64) (*domain.ProductSnapshot, error) {
	p, ok := c[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ports.ErrProductNotFound, id)
	}
	return &p, nil
}

type fakeClients map[string]domain.Client

func (c fakeClients) Authenticated(_ context.Context, p identity.Principal) (domain.Client, error) {
	cl, ok := c[p.Username]
	if !ok {
		return domain.Client{}, errUserNotFound
	}
	return cl, nil
}

type fakeGuard struct {
	clients fakeClients
	admins  map[string]bool
	calls   []int64
}

func (g *fakeGuard) ValidateSelfOrAdmin(ctx context.Context, p identity.Principal, userID int64) error {
	g.calls = append(g.calls, userID)
	me, err := g.clients.Authenticated(ctx, p)
	if err != nil {
		return err
	}
	if me.ID == userID || g.admins[p.Username] {
		return nil
	}
	return errForbidden
}

type recordingPublisher struct {
	placed []int64
	err    error
}

func (p *recordingPublisher) OrderPlaced(_ context.Context, o *domain.Order) error {
	p.placed = append(p.placed, o.ID)
	return p.err
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	guard     *fakeGuard
	publisher *recordingPublisher
}

func newFixture() fixture {
	clients := fakeClients{"jef@gmail.com": admin, "bob@gmail.com": client, "ana@gmail.com": {ID: 3, Name: "Ana"}}
	guard := &fakeGuard{clients: clients, admins: map[string]bool{"jef@gmail.com": true}}
	repo := newFakeRepo()
	publisher := &recordingPublisher{}
	catalog := fakeCatalog{existingProductID: {ID: existingProductID, Name: "PlayStation 5", Price: decimal.NewFromFloat(3000.0)}}
	svc := NewService(repo, catalog, clients, guard, WithClock(func() time.Time { return fixed }), WithEventPublisher(publisher))
	return fixture{svc: svc, repo: repo, guard: guard, publisher: publisher}
}

func orderInput(productIDs ...int64) types.OrderDTO {
	dto := types.OrderDTO{}
	for _, id := range productIDs {
		dto.Items = append(dto.Items, types.OrderItemDTO{ProductID: id, Quantity: 2})
	}
	return dto
}

func TestFindByIDReturnsOrderWhenAdminLogged(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.FindByID(context.Background(), identity.New("jef@gmail.com", "ROLE_ADMIN"), existingOrderID)

	require.NoError(t, err)
	assert.Equal(t, existingOrderID, dto.ID)
	assert.Equal(t, []int64{client.ID}, f.guard.calls)
}

func TestFindByIDReturnsOrderWhenOwnerLogged(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.FindByID(context.Background(), identity.New("bob@gmail.com", "ROLE_CLIENT"), existingOrderID)

	require.NoError(t, err)
	assert.Equal(t, "Bob", dto.Client.Name)
	assert.True(t, decimal.NewFromInt(6000).Equal(dto.Total))
}

func TestFindByIDReturnsForbiddenWhenOtherClientLogged(t *testing.T) {
	f := newFixture()

	_, err := f.svc.FindByID(context.Background(), identity.New("ana@gmail.com", "ROLE_CLIENT"), existingOrderID)

	assert.ErrorIs(t, err, errForbidden)
}

func TestFindByIDReturnsResourceNotFoundWhenIDDoesNotExist(t *testing.T) {
	f := newFixture()

	_, err := f.svc.FindByID(context.Background(), identity.New("jef@gmail.com"), nonExistingOrderID)

	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Empty(t, f.guard.calls)
}

func TestInsertReturnsOrderWhenClientLogged(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.Insert(context.Background(), identity.New("bob@gmail.com"), orderInput(existingProductID))

	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, string(domain.StatusWaitingPayment), dto.Status)
	assert.Equal(t, client.ID, dto.Client.ID)
	assert.True(t, fixed.Equal(dto.Moment))
	require.Len(t, dto.Items, 1)
	assert.True(t, decimal.NewFromFloat(3000.0).Equal(dto.Items[0].Price))
	assert.Equal(t, 2, dto.Items[0].Quantity)
	assert.Equal(t, []int64{dto.ID}, f.publisher.placed)
}

func TestInsertReturnsOrderWhenAdminLogged(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.Insert(context.Background(), identity.New("jef@gmail.com"), orderInput(existingProductID))

	require.NoError(t, err)
	assert.Equal(t, admin.ID, dto.Client.ID)
}

func TestInsertPropagatesUserNotFoundWhenNotLogged(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Insert(context.Background(), identity.Anonymous(), orderInput(existingProductID))

	assert.ErrorIs(t, err, errUserNotFound)
	assert.Empty(t, f.repo.saved)
}

func TestInsertFailsWithoutSavingWhenProductDoesNotExist(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Insert(context.Background(), identity.New("bob@gmail.com"), orderInput(existingProductID, nonExistingProduct))

	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	assert.Empty(t, f.repo.saved)
	assert.Empty(t, f.publisher.placed)
}

func TestInsertRejectsOrderWithoutItems(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Insert(context.Background(), identity.New("bob@gmail.com"), types.OrderDTO{})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestInsertRejectsNonPositiveQuantityMergedIntoSameProduct(t *testing.T) {
	for _, qty := range []int{0, -3} {
		f := newFixture()
		dto := types.OrderDTO{Items: []types.OrderItemDTO{
			{ProductID: existingProductID, Quantity: 5},
			{ProductID: existingProductID, Quantity: qty},
		}}

		_, err := f.svc.Insert(context.Background(), identity.New("bob@gmail.com"), dto)

		assert.ErrorIs(t, err, ErrInvalidInput, "quantity %d", qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", qty)
		assert.Empty(t, f.repo.saved)
		assert.Empty(t, f.publisher.placed)
	}
}

func TestInsertSucceedsWhenPublisherFails(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker unavailable")

	dto, err := f.svc.Insert(context.Background(), identity.New("bob@gmail.com"), orderInput(existingProductID))

	require.NoError(t, err)
	assert.Len(t, f.repo.saved, 1)
	assert.Equal(t, []int64{dto.ID}, f.publisher.placed)
}
