package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Order
	createErr error // if set, Create returns this error
	updateErr error // if set, Update returns this error
	conflicts int   // number of Update calls that report ErrConflict before succeeding
	updates   int
	lastList  ports.ListOrdersFilter
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	if o.CurrentDriverLocation != nil {
		loc := *o.CurrentDriverLocation
		c.CurrentDriverLocation = &loc
	}
	return &c
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

// Update mirrors the conditional write of the Mongo repository.
func (r *stubOrderRepo) Update(_ context.Context, o *domain.Order, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if r.conflicts > 0 {
		r.conflicts--
		return domain.ErrConflict
	}
	stored, ok := r.byID[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	o.Version = expectedVersion + 1
	r.byID[o.ID] = cloneOrder(o)
	r.updates++
	return nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f
	var out []*domain.Order
	for _, o := range r.byID {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.DriverID != "" && o.DriverID != f.DriverID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOrderRepo) CountByStatuses(_ context.Context, statuses []domain.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.byID {
		if containsStatus(statuses, o.Status) {
			n++
		}
	}
	return n, nil
}

func containsStatus(list []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type stubDispatcher struct {
	mu   sync.Mutex
	err  error
	sent []domain.Notification
}

func (d *stubDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return d.err
}

func (d *stubDispatcher) byUser(userID string) []domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []domain.Notification
	for _, n := range d.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func minimalOrderInput(customerID string) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		CustomerID:      customerID,
		PickupAddress:   "Av. Arequipa 100",
		PickupCoords:    domain.Coordinates{Latitude: -12.0469, Longitude: -77.0428},
		DeliveryAddress: "Jr. de la Union 500",
		DeliveryCoords:  domain.Coordinates{Latitude: -12.0500, Longitude: -77.0300},
		VehicleType:     "van",
		Price:           45,
	}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestOrderService_Create_Success(t *testing.T) {
	repo := newStubOrderRepo()
	disp := &stubDispatcher{}
	svc := NewOrderService(repo, disp, discardLogger)

	order, err := svc.Create(context.Background(), minimalOrderInput("customer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID == "" {
		t.Error("expected generated id")
	}
	if order.Status != domain.StatusPending {
		t.Errorf("expected status %q, got %q", domain.StatusPending, order.Status)
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if order.DistanceKm <= 0 {
		t.Error("distance must be derived from coordinates when not provided")
	}
	if _, ok := repo.byID[order.ID]; !ok {
		t.Error("order must be stored")
	}

	sent := disp.byUser("customer-1")
	if len(sent) != 1 || sent[0].Type != domain.NotificationOrderCreated {
		t.Errorf("expected one order_created notification, got %+v", sent)
	}
}

func TestOrderService_Create_RejectsBadCoordinates(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, discardLogger)

	in := minimalOrderInput("customer-1")
	in.DeliveryCoords.Latitude = 120
	_, err := svc.Create(context.Background(), in)

	if !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Error("nothing must be stored")
	}
}

func TestOrderService_Create_RepoError(t *testing.T) {
	repo := newStubOrderRepo()
	repo.createErr = errors.New("db unavailable")
	disp := &stubDispatcher{}
	svc := NewOrderService(repo, disp, discardLogger)

	if _, err := svc.Create(context.Background(), minimalOrderInput("customer-1")); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
	if len(disp.sent) != 0 {
		t.Error("no notification must be sent for an order that was not stored")
	}
}

func TestOrderService_Create_NotificationFailureIsNonFatal(t *testing.T) {
	repo := newStubOrderRepo()
	disp := &stubDispatcher{err: domain.ErrDispatchFailure}
	svc := NewOrderService(repo, disp, discardLogger)

	if _, err := svc.Create(context.Background(), minimalOrderInput("customer-1")); err != nil {
		t.Fatalf("dispatch failure must not fail create, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listing tests
// ---------------------------------------------------------------------------

func seedOrder(repo *stubOrderRepo, id, customerID, driverID string, status domain.OrderStatus) *domain.Order {
	o := &domain.Order{
		ID:             id,
		CustomerID:     customerID,
		DriverID:       driverID,
		Status:         status,
		PickupCoords:   domain.Coordinates{Latitude: -12.0469, Longitude: -77.0428},
		DeliveryCoords: domain.Coordinates{Latitude: -12.1000, Longitude: -77.0300},
		CreatedAt:      time.Now().UTC(),
	}
	repo.byID[id] = o
	return o
}

func TestOrderService_ListActive(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, discardLogger)
	seedOrder(repo, "o1", "c1", "", domain.StatusPending)
	seedOrder(repo, "o2", "c1", "d1", domain.StatusAccepted)
	seedOrder(repo, "o3", "c2", "d2", domain.StatusInProgress)
	seedOrder(repo, "o4", "c2", "d2", domain.StatusArrivedPickup)
	seedOrder(repo, "o5", "c3", "d3", domain.StatusCompleted)

	orders, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 active orders, got %d", len(orders))
	}
}

func TestOrderService_ListMine_ScopedByRole(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, discardLogger)
	seedOrder(repo, "o1", "c1", "d1", domain.StatusAccepted)
	seedOrder(repo, "o2", "c2", "d1", domain.StatusPending)
	seedOrder(repo, "o3", "c2", "d2", domain.StatusPending)

	customer, _ := svc.ListMine(context.Background(), ports.ListOrdersInput{Role: domain.RoleCustomer, UserID: "c2"})
	if len(customer) != 2 {
		t.Errorf("customer: expected 2, got %d", len(customer))
	}
	driver, _ := svc.ListMine(context.Background(), ports.ListOrdersInput{Role: domain.RoleDriver, UserID: "d1"})
	if len(driver) != 2 {
		t.Errorf("driver: expected 2, got %d", len(driver))
	}
	admin, _ := svc.ListMine(context.Background(), ports.ListOrdersInput{Role: domain.RoleAdmin})
	if len(admin) != 3 {
		t.Errorf("admin: expected 3, got %d", len(admin))
	}
	if repo.lastList.Limit != defaultListLimit {
		t.Errorf("expected default limit %d, got %d", defaultListLimit, repo.lastList.Limit)
	}
}

func TestOrderService_ListMine_UnknownRoleForbidden(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), nil, discardLogger)
	if _, err := svc.ListMine(context.Background(), ports.ListOrdersInput{Role: "guest", UserID: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListMine(context.Background(), ports.ListOrdersInput{Role: domain.RoleCustomer}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden without user id, got %v", err)
	}
}

func TestOrderService_ListMine_LimitCapped(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, discardLogger)
	_, _ = svc.ListMine(context.Background(), ports.ListOrdersInput{Role: domain.RoleAdmin, Limit: 10_000})
	if repo.lastList.Limit != maxListLimit {
		t.Errorf("expected limit %d, got %d", maxListLimit, repo.lastList.Limit)
	}
}
