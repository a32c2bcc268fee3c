package svorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateOrder(ctx context.Context, o *etorder.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockStore) FindOrder(ctx context.Context, id string) (*etorder.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*etorder.Order)
	return o, args.Error(1)
}

func (m *mockStore) ListOrders(ctx context.Context, f rporder.ListFilter) ([]*etorder.Order, error) {
	args := m.Called(ctx, f)
	os, _ := args.Get(0).([]*etorder.Order)
	return os, args.Error(1)
}

func (m *mockStore) SaveOrder(ctx context.Context, o *etorder.Order) error {
	return m.Called(ctx, o).Error(0)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Snapshot(ctx context.Context, id int64) (etproduct.Snapshot, error) {
	args := m.Called(ctx, id)
	snap, _ := args.Get(0).(etproduct.Snapshot)
	return snap, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PublishOrderEvent(ctx context.Context, e *model.OrderEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockNotifier) WaitForStatusChange(ctx context.Context, orderID string, timeout time.Duration, ready func() bool) (*model.OrderEvent, error) {
	args := m.Called(ctx, orderID, timeout)
	if ready != nil && ready() {
		return nil, nil
	}
	e, _ := args.Get(0).(*model.OrderEvent)
	return e, args.Error(1)
}

type seqIDs struct {
	ids []string
	i   int
}

func (g *seqIDs) Next() string {
	id := g.ids[g.i]
	g.i++
	return id
}

type fixture struct {
	store    *mockStore
	catalog  *mockCatalog
	notifier *mockNotifier
	svc      *OrderService
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		store:    new(mockStore),
		catalog:  new(mockCatalog),
		notifier: new(mockNotifier),
	}
	base := []Option{
		WithIDGenerator(&seqIDs{ids: []string{"ORDFIRST100", "ORDSECOND200"}}),
		WithClock(func() time.Time { return fixedNow }),
	}
	f.svc = NewOrderService(f.store, f.catalog, f.notifier, logger.NewNop(), append(base, opts...)...)
	return f
}

func mangoInput() CreateOrderInput {
	return CreateOrderInput{
		Items:           []etorder.Line{{Name: "Mango", Price: 150, Quantity: 2, Unit: "1 kg"}},
		DeliveryAddress: "123 St",
		Phone:           "9876543210",
		DeliverySlot:    "immediate",
	}
}

func pendingOrder(t *testing.T) *etorder.Order {
	t.Helper()
	o, err := etorder.NewOrder("ORDEXIST", etorder.NewOrderParams{
		Items:           []etorder.Line{{Name: "Farm Potatoes", Price: 25, Quantity: 2, Unit: "1 kg"}},
		DeliveryAddress: "7 Lake View",
		Phone:           "9000000001",
		DeliverySlot:    etorder.SlotMorning,
	}, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	o.ID = 5
	return o
}

func TestCreateOrder_ImmediateSurcharge(t *testing.T) {
	f := newFixture()
	f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e *model.OrderEvent) bool {
		return e.Type == model.OrderEventCreated && e.OrderID == "ORDFIRST100" && e.TotalAmount == 330
	})).Return(nil)

	order, err := f.svc.CreateOrder(context.Background(), mangoInput())

	require.NoError(t, err)
	assert.Equal(t, "ORDFIRST100", order.OrderID)
	assert.Equal(t, 330.0, order.TotalAmount())
	assert.Equal(t, 30.0, order.DeliveryCharge())
	assert.Equal(t, etorder.StatusPending, order.Status())
	assert.Equal(t, []etorder.StatusEntry{{Status: etorder.StatusPending, At: fixedNow}}, order.StatusHistory())
	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateOrder_ClientDeliveryCharge(t *testing.T) {
	charge := 5.0

	t.Run("ignored by default", func(t *testing.T) {
		f := newFixture()
		f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

		in := mangoInput()
		in.DeliveryCharge = &charge
		order, err := f.svc.CreateOrder(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, 30.0, order.DeliveryCharge())
	})

	t.Run("honoured when allowed", func(t *testing.T) {
		f := newFixture(WithDeliveryPolicy(DeliveryPolicy{ImmediateSurcharge: 30, AllowClientCharge: true}))
		f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

		in := mangoInput()
		in.DeliveryCharge = &charge
		order, err := f.svc.CreateOrder(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, 5.0, order.DeliveryCharge())
		assert.Equal(t, 305.0, order.TotalAmount())
	})
}

func TestCreateOrder_ValidationBeforePersistence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CreateOrderInput)
		field  string
	}{
		{name: "short phone", mutate: func(in *CreateOrderInput) { in.Phone = "98765" }, field: "phone"},
		{name: "empty cart", mutate: func(in *CreateOrderInput) { in.Items = nil }, field: "items"},
		{name: "unknown slot", mutate: func(in *CreateOrderInput) { in.DeliverySlot = "midnight" }, field: "deliverySlot"},
		{name: "missing slot", mutate: func(in *CreateOrderInput) { in.DeliverySlot = "" }, field: "deliverySlot"},
		{name: "missing address", mutate: func(in *CreateOrderInput) { in.DeliveryAddress = "" }, field: "deliveryAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := mangoInput()
			tt.mutate(&in)

			_, err := f.svc.CreateOrder(context.Background(), in)

			require.ErrorIs(t, err, errorx.ErrValidation)
			var ve *errorx.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			f.store.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			f.notifier.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_CatalogSnapshot(t *testing.T) {
	f := newFixture()
	productID := int64(3)
	f.catalog.On("Snapshot", mock.Anything, productID).
		Return(etproduct.Snapshot{ProductID: 3, Name: "Alphonso Mango", Price: 150, Unit: "1 kg", InStock: true}, nil)
	f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	in := mangoInput()
	in.DeliverySlot = "morning"
	in.Items = []etorder.Line{{ProductID: &productID, Name: "cheap mango", Price: 1, Quantity: 2}}
	order, err := f.svc.CreateOrder(context.Background(), in)

	require.NoError(t, err)
	items := order.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Alphonso Mango", items[0].Name)
	assert.Equal(t, 150.0, items[0].Price)
	assert.Equal(t, "1 kg", items[0].Unit)
	assert.Equal(t, 300.0, order.TotalAmount())
}

func TestCreateOrder_CatalogRejections(t *testing.T) {
	productID := int64(8)

	t.Run("out of stock", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("Snapshot", mock.Anything, productID).
			Return(etproduct.Snapshot{ProductID: 8, Name: "Fresh Spinach", Price: 20, InStock: false}, nil)

		in := mangoInput()
		in.Items = []etorder.Line{{ProductID: &productID, Name: "Fresh Spinach", Price: 20, Quantity: 1}}
		_, err := f.svc.CreateOrder(context.Background(), in)

		assert.ErrorIs(t, err, errorx.ErrValidation)
		f.store.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("Snapshot", mock.Anything, productID).Return(nil, errorx.ErrProductNotFound)

		in := mangoInput()
		in.Items = []etorder.Line{{ProductID: &productID, Name: "Ghost", Price: 1, Quantity: 1}}
		_, err := f.svc.CreateOrder(context.Background(), in)

		assert.ErrorIs(t, err, errorx.ErrValidation)
	})
}

func TestCreateOrder_DuplicateIDRetriedOnce(t *testing.T) {
	f := newFixture()
	f.store.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *etorder.Order) bool {
		return o.OrderID == "ORDFIRST100"
	})).Return(errorx.ErrDuplicateOrderID).Once()
	f.store.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *etorder.Order) bool {
		return o.OrderID == "ORDSECOND200"
	})).Return(nil).Once()
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(context.Background(), mangoInput())

	require.NoError(t, err)
	assert.Equal(t, "ORDSECOND200", order.OrderID)
	f.store.AssertNumberOfCalls(t, "CreateOrder", 2)
}

func TestCreateOrder_DuplicateIDTwiceIsPersistenceError(t *testing.T) {
	f := newFixture()
	f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(errorx.ErrDuplicateOrderID)

	_, err := f.svc.CreateOrder(context.Background(), mangoInput())

	assert.ErrorIs(t, err, errorx.ErrPersistence)
	f.store.AssertNumberOfCalls(t, "CreateOrder", 2)
	f.notifier.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestCreateOrder_NotifierFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	order, err := f.svc.CreateOrder(context.Background(), mangoInput())

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestListOrders(t *testing.T) {
	f := newFixture()
	want := []*etorder.Order{pendingOrder(t)}
	f.store.On("ListOrders", mock.Anything, rporder.ListFilter{Status: etorder.StatusPending, Slot: etorder.SlotMorning}).Return(want, nil)

	got, err := f.svc.ListOrders(context.Background(), "pending", "Morning")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.svc.ListOrders(context.Background(), "shipped", "")
	assert.ErrorIs(t, err, errorx.ErrValidation)
	_, err = f.svc.ListOrders(context.Background(), "", "noon")
	assert.ErrorIs(t, err, errorx.ErrValidation)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t)
	total := order.TotalAmount()
	f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(order, nil)
	f.store.On("SaveOrder", mock.Anything, order).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e *model.OrderEvent) bool {
		return e.Type == model.OrderEventStatusChanged && e.Status == "preparing" && e.Note == "packing"
	})).Return(nil)

	got, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "preparing", "packing")

	require.NoError(t, err)
	assert.Equal(t, etorder.StatusPreparing, got.Status())
	history := got.StatusHistory()
	require.Len(t, history, 2)
	assert.Equal(t, etorder.StatusEntry{Status: etorder.StatusPreparing, At: fixedNow, Note: "packing"}, history[1])
	assert.Equal(t, total, got.TotalAmount())
	f.notifier.AssertExpectations(t)
}

func TestUpdateStatus_Errors(t *testing.T) {
	t.Run("missing status", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "", "")
		assert.ErrorIs(t, err, errorx.ErrValidation)
		f.store.AssertNotCalled(t, "FindOrder", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "lost", "")
		assert.ErrorIs(t, err, errorx.ErrValidation)
	})

	t.Run("order not found", func(t *testing.T) {
		f := newFixture()
		f.store.On("FindOrder", mock.Anything, "ORDNOPE").Return(nil, errorx.ErrOrderNotFound)
		_, err := f.svc.UpdateStatus(context.Background(), "ORDNOPE", "delivered", "")
		assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
	})

	t.Run("concurrent modification", func(t *testing.T) {
		f := newFixture()
		order := pendingOrder(t)
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(order, nil)
		f.store.On("SaveOrder", mock.Anything, order).Return(errorx.ErrConflict)

		_, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "delivered", "")

		assert.ErrorIs(t, err, errorx.ErrConflict)
		f.notifier.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
	})

	t.Run("strict policy", func(t *testing.T) {
		f := newFixture(WithTransitionPolicy(etorder.StrictPolicy{}))
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(pendingOrder(t), nil)

		_, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "delivered", "")

		assert.ErrorIs(t, err, errorx.ErrValidation)
		f.store.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus_PermissiveAllowsAnyTransition(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t)
	require.NoError(t, order.Transition(etorder.StatusDelivered, "", fixedNow))
	f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(order, nil)
	f.store.On("SaveOrder", mock.Anything, order).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	got, err := f.svc.UpdateStatus(context.Background(), "ORDEXIST", "pending", "reopened")

	require.NoError(t, err)
	assert.Equal(t, etorder.StatusPending, got.Status())
	assert.Len(t, got.StatusHistory(), 3)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t)
	f.store.On("FindOrder", mock.Anything, "5").Return(order, nil)
	f.store.On("SaveOrder", mock.Anything, order).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	got, err := f.svc.CancelOrder(context.Background(), "5", "")

	require.NoError(t, err)
	assert.Equal(t, etorder.StatusCancelled, got.Status())
}

func TestAddItem(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t)
	f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(order, nil)
	f.store.On("SaveOrder", mock.Anything, order).Return(nil)
	f.notifier.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e *model.OrderEvent) bool {
		return e.Type == model.OrderEventItemsAdded
	})).Return(nil)

	got, err := f.svc.AddItem(context.Background(), "ORDEXIST", etorder.Line{Name: "Farm Potatoes", Price: 25, Quantity: 3, Unit: "1 kg"})

	require.NoError(t, err)
	require.Len(t, got.Items(), 1)
	assert.Equal(t, 5, got.Items()[0].Quantity)
	assert.Equal(t, 125.0, got.TotalAmount())
}

func TestAddItem_OnlyPending(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t)
	require.NoError(t, order.Transition(etorder.StatusOutForDelivery, "", fixedNow))
	f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(order, nil)

	_, err := f.svc.AddItem(context.Background(), "ORDEXIST", etorder.Line{Name: "Tomatoes", Price: 30, Quantity: 1})

	assert.ErrorIs(t, err, errorx.ErrValidation)
	f.store.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
}

func TestTrackOrder(t *testing.T) {
	t.Run("no wait", func(t *testing.T) {
		f := newFixture()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(pendingOrder(t), nil)

		order, event, err := f.svc.TrackOrder(context.Background(), "ORDEXIST", 0)

		require.NoError(t, err)
		assert.NotNil(t, order)
		assert.Nil(t, event)
		f.notifier.AssertNotCalled(t, "WaitForStatusChange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("event arrives", func(t *testing.T) {
		f := newFixture()
		before := pendingOrder(t)
		after := pendingOrder(t)
		require.NoError(t, after.Transition(etorder.StatusPreparing, "", fixedNow))
		f.store.On("FindOrder", mock.Anything, "5").Return(before, nil).Once()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(before, nil).Once()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(after, nil).Once()
		f.notifier.On("WaitForStatusChange", mock.Anything, "ORDEXIST", MaxTrackWait).
			Return(&model.OrderEvent{OrderID: "ORDEXIST", Status: "preparing"}, nil)

		order, event, err := f.svc.TrackOrder(context.Background(), "5", time.Minute)

		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, etorder.StatusPreparing, order.Status())
	})

	t.Run("timeout", func(t *testing.T) {
		f := newFixture()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(pendingOrder(t), nil).Twice()
		f.notifier.On("WaitForStatusChange", mock.Anything, "ORDEXIST", 2*time.Second).Return(nil, nil)

		order, event, err := f.svc.TrackOrder(context.Background(), "ORDEXIST", 2*time.Second)

		require.NoError(t, err)
		assert.Nil(t, event)
		assert.Equal(t, etorder.StatusPending, order.Status())
	})

	t.Run("change before subscription is live", func(t *testing.T) {
		f := newFixture()
		before := pendingOrder(t)
		after := pendingOrder(t)
		require.NoError(t, after.Transition(etorder.StatusPreparing, "", fixedNow))
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(before, nil).Once()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(after, nil).Once()
		f.notifier.On("WaitForStatusChange", mock.Anything, "ORDEXIST", 2*time.Second).
			Return(&model.OrderEvent{OrderID: "ORDEXIST", Status: "out_for_delivery"}, nil)

		order, event, err := f.svc.TrackOrder(context.Background(), "ORDEXIST", 2*time.Second)

		require.NoError(t, err)
		assert.Nil(t, event)
		assert.Equal(t, etorder.StatusPreparing, order.Status())
		f.store.AssertNumberOfCalls(t, "FindOrder", 2)
	})

	t.Run("re-read fails", func(t *testing.T) {
		f := newFixture()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(pendingOrder(t), nil).Once()
		f.store.On("FindOrder", mock.Anything, "ORDEXIST").Return(nil, errorx.ErrOrderNotFound).Once()
		f.notifier.On("WaitForStatusChange", mock.Anything, "ORDEXIST", 2*time.Second).Return(nil, nil)

		order, _, err := f.svc.TrackOrder(context.Background(), "ORDEXIST", 2*time.Second)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
	})
}
