package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/model"
)

type orderFixture struct {
	orders   *MockOrderRepository
	drivers  *MockDriverDirectory
	products *MockProductSearcher
	notifier *MockNotifier
	svc      *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   new(MockOrderRepository),
		drivers:  new(MockDriverDirectory),
		products: new(MockProductSearcher),
		notifier: new(MockNotifier),
	}
	f.svc = NewOrderService(f.orders, f.drivers, f.products, f.notifier, discardLogger())
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC) }
	return f
}

func sampleOrder() *model.Order {
	id, _ := primitive.ObjectIDFromHex("65f1a2b3c4d5e6f708091011")
	return &model.Order{
		ID:            id,
		NumeroDeOrden: "1042",
		Version:       3,
		EstadoText:    model.StatusSent,
		EstadoBool:    true,
		TiendaIDText:  "biz-1",
		NombreEmpresa: "Pollos Don Juan",
		NombreCiudad:  "Tegucigalpa",
		UserID:        "user-1",
		SubTotal:      200,
		Shipping:      20,
		ServiceFee:    5,
		Discount:      10,
		TotalApp:      215,
		Items: []model.OrderItem{
			{NombreProducto: "Pollo", Cantidad: 2, PrecioUnitarioApp: 100, SubtotalApp: 200, PrecioUnitarioTnd: 80, SubtotalTienda: 160},
		},
	}
}

const orderID = "65f1a2b3c4d5e6f708091011"

func TestOrderServiceDetailDerivesCost(t *testing.T) {
	f := newOrderFixture()
	o := sampleOrder()
	o.PagoDriver = 30.0
	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)

	d, err := f.svc.Detail(context.Background(), orderID)
	require.NoError(t, err)

	assert.Equal(t, model.StateCreated, d.State)
	assert.True(t, d.Actions.CanConfirm)
	assert.Equal(t, 160.0, d.Summary.TotalCosto)
	assert.Equal(t, 30.0, d.Summary.DriverPayout)
	assert.Equal(t, 25.0, d.Summary.Profit)
}

func TestOrderServiceDetailPrefersStoredCost(t *testing.T) {
	o := sampleOrder()
	stored := 150.0
	o.TotalCosto = &stored
	o.PagoDriver = "pendiente"

	s := Summarize(o)
	assert.Equal(t, 150.0, s.TotalCosto)
	assert.Equal(t, 0.0, s.DriverPayout)
	assert.Equal(t, 65.0, s.Profit)
}

func TestOrderServiceDetailNotFound(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(nil, ErrNotFound)

	_, err := f.svc.Detail(context.Background(), orderID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderServiceConfirmNotifiesBusiness(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.MatchedBy(func(set bson.M) bool {
		return set["estadoText"] == model.StatusConfirmed && set["state"] == model.StateConfirmed
	})).Return(nil)
	f.notifier.On("Enqueue", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Target == model.TargetBusiness && n.TargetID == "biz-1" && n.Data["numeroDeOrden"] == "1042"
	})).Return(nil)

	_, err := f.svc.Transition(context.Background(), orderID, ActionConfirm, nil)
	require.NoError(t, err)

	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestOrderServiceNotificationFailureDoesNotFail(t *testing.T) {
	f := newOrderFixture()
	o := sampleOrder()
	o.ConfirmedAt = at(time.Now())
	o.State = model.StateConfirmed
	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.Anything).Return(nil)
	f.notifier.On("Enqueue", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Target == model.TargetUser && n.TargetID == "user-1"
	})).Return(errors.New("broker down"))

	_, err := f.svc.Transition(context.Background(), orderID, ActionProcess, nil)
	assert.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestOrderServiceDispatchDoesNotNotify(t *testing.T) {
	f := newOrderFixture()
	now := time.Now()
	o := sampleOrder()
	o.ConfirmedAt, o.InProcessAt = at(now), at(now)
	o.State = model.StateInProcess
	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.Anything).Return(nil)

	_, err := f.svc.Transition(context.Background(), orderID, ActionDispatch, nil)
	require.NoError(t, err)
	f.notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestOrderServiceTransitionRejectsInvalid(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)

	_, err := f.svc.Transition(context.Background(), orderID, ActionDeliver, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.orders.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderServiceTransitionStaleVersion(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)

	stale := int64(2)
	_, err := f.svc.Transition(context.Background(), orderID, ActionConfirm, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
	f.orders.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderServiceTransitionLostRace(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.Anything).Return(ErrVersionConflict)

	_, err := f.svc.Transition(context.Background(), orderID, ActionConfirm, nil)
	assert.ErrorIs(t, err, ErrVersionConflict)
	f.notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestOrderServiceAssignDriver(t *testing.T) {
	f := newOrderFixture()
	driverOID := primitive.NewObjectID()
	driver := &model.User{ID: driverOID, UID: "drv-9", Nombre: "Carlos", Ciudad: "Tegucigalpa", Telefono: "9999"}

	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.drivers.On("ListAvailableDrivers", mock.Anything, "Tegucigalpa").Return([]*model.User{driver}, nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.MatchedBy(func(set bson.M) bool {
		ref, ok := set["driver"].(model.DriverRef)
		return ok && ref.ID == driverOID && set["driverId"] == "drv-9" && set["driverAsignado"] == true
	})).Return(nil)
	f.notifier.On("Enqueue", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Target == model.TargetUser && n.TargetID == "drv-9"
	})).Return(nil)

	_, err := f.svc.AssignDriver(context.Background(), orderID, driverOID.Hex(), nil)
	require.NoError(t, err)
	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestOrderServiceAssignDriverOutsideCandidates(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.drivers.On("ListAvailableDrivers", mock.Anything, "Tegucigalpa").Return([]*model.User{{UID: "drv-1"}}, nil)

	_, err := f.svc.AssignDriver(context.Background(), orderID, "drv-2", nil)
	assert.ErrorIs(t, err, ErrDriverNotEligible)
	f.orders.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderServiceAssignDriverClosedOrder(t *testing.T) {
	f := newOrderFixture()
	o := sampleOrder()
	o.CancelledAt = at(time.Now())
	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)

	_, err := f.svc.AssignDriver(context.Background(), orderID, "drv-1", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderServiceReplaceItemsRecomputesTotals(t *testing.T) {
	f := newOrderFixture()
	o := sampleOrder()
	o.Items = nil
	o.SubTotal, o.TotalApp = 0, 0
	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)

	var written bson.M
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) { written = args.Get(3).(bson.M) })

	draft := []model.OrderItem{{NombreProducto: "Pollo", Cantidad: 2, PrecioUnitarioApp: 100, PrecioUnitarioTnd: 80}}
	_, err := f.svc.ReplaceItems(context.Background(), orderID, draft, nil)
	require.NoError(t, err)

	assert.Equal(t, 200.0, written["subTotal"])
	assert.Equal(t, 160.0, written["totalCosto"])
	assert.Equal(t, 215.0, written["totalApp"])
	lines := written["itemsOrder"].([]model.OrderItem)
	require.Len(t, lines, 1)
	assert.Equal(t, 200.0, lines[0].SubtotalApp)
	assert.Equal(t, 160.0, lines[0].SubtotalTienda)
	// el borrador del llamador no se modifica
	assert.Zero(t, draft[0].SubtotalApp)
}

func TestOrderServiceReplaceItemsRejectsZeroQuantity(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.ReplaceItems(context.Background(), orderID, []model.OrderItem{{NombreProducto: "Pollo", Cantidad: 0}}, nil)
	assert.ErrorIs(t, err, ErrValidation)
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestParsePayout(t *testing.T) {
	assert.Equal(t, 150.5, ParsePayout("150.5"))
	assert.Equal(t, 80.0, ParsePayout(" 80 "))
	assert.Equal(t, "pendiente de ruta", ParsePayout("pendiente de ruta"))

	// ParseFloat acepta estos textos; deben guardarse tal cual
	for _, raw := range []string{"NaN", "inf", "-Infinity"} {
		assert.Equal(t, raw, ParsePayout(raw))
	}
}

func TestSummarizeIgnoresNonFinitePayout(t *testing.T) {
	for _, v := range []any{"NaN", "inf", math.NaN(), math.Inf(1)} {
		o := sampleOrder()
		o.PagoDriver = v
		var s Summary
		require.NotPanics(t, func() { s = Summarize(o) })
		assert.Zero(t, s.DriverPayout)
	}
}

func TestOrderServiceSetDriverPayout(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.orders.On("UpdateFields", mock.Anything, orderID, int64(3), bson.M{"pagoDriver": "a convenir"}).Return(nil)

	_, err := f.svc.SetDriverPayout(context.Background(), orderID, "a convenir", nil)
	require.NoError(t, err)
	f.orders.AssertExpectations(t)
}

func TestOrderServiceSearchCatalogTooShort(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.SearchCatalog(context.Background(), orderID, "poll")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderServiceSearchCatalogUnion(t *testing.T) {
	f := newOrderFixture()
	shared := &model.Product{ID: primitive.NewObjectID(), UUID: "p-1", Name: "Pollo frito", Price: 80, SalePrice: 100}
	byName := []*model.Product{shared}
	byKeyword := []*model.Product{shared, {ID: primitive.NewObjectID(), UUID: "p-2", Name: "Combo pollito", Price: 50}}

	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.products.On("SearchByNamePrefix", mock.Anything, "biz-1", "Pollo f", int64(MaxSearchHits)).Return(byName, nil)
	f.products.On("SearchByKeyword", mock.Anything, "biz-1", "pollo f", int64(MaxSearchHits)).Return(byKeyword, nil)

	hits, err := f.svc.SearchCatalog(context.Background(), orderID, "Pollo f")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "p-1", hits[0].Line.ProductID)
	assert.Equal(t, 100.0, hits[0].Line.PrecioUnitarioApp)
	assert.Equal(t, 80.0, hits[0].Line.PrecioUnitarioTnd)
	assert.Equal(t, 1, hits[0].Line.Cantidad)
	// sin sale_price se usa price en la app
	assert.Equal(t, 50.0, hits[1].Line.PrecioUnitarioApp)
}

func TestOrderServiceSearchCatalogCapsResults(t *testing.T) {
	f := newOrderFixture()
	many := make([]*model.Product, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, &model.Product{ID: primitive.NewObjectID(), Name: "Pollo"})
	}
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.products.On("SearchByNamePrefix", mock.Anything, "biz-1", mock.Anything, mock.Anything).Return(many[:20], nil)
	f.products.On("SearchByKeyword", mock.Anything, "biz-1", mock.Anything, mock.Anything).Return(many[10:], nil)

	hits, err := f.svc.SearchCatalog(context.Background(), orderID, "pollos")
	require.NoError(t, err)
	assert.Len(t, hits, MaxSearchHits)
}

func TestOrderServiceSearchCatalogLookupFails(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, orderID).Return(sampleOrder(), nil)
	f.products.On("SearchByNamePrefix", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	f.products.On("SearchByKeyword", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*model.Product{}, nil)

	_, err := f.svc.SearchCatalog(context.Background(), orderID, "pollos")
	assert.Error(t, err)
}

func TestOrderServiceWatchEmitsDetails(t *testing.T) {
	f := newOrderFixture()
	o := sampleOrder()
	src := make(chan *model.Order, 2)
	src <- o
	src <- nil
	close(src)

	f.orders.On("FindByID", mock.Anything, orderID).Return(o, nil)
	f.orders.On("Watch", mock.Anything, orderID).Return((<-chan *model.Order)(src), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, err := f.svc.Watch(ctx, orderID)
	require.NoError(t, err)

	first := <-out
	require.NotNil(t, first)
	assert.Equal(t, "1042", first.Order.NumeroDeOrden)
	assert.Nil(t, <-out)
	_, open := <-out
	assert.False(t, open)
}
