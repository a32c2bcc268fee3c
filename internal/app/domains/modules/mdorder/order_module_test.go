package mdorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/pkg/errorx"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, o *etorder.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*etorder.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*etorder.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*etorder.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*etorder.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, f rporder.ListFilter) ([]*etorder.Order, error) {
	args := m.Called(ctx, f)
	os, _ := args.Get(0).([]*etorder.Order)
	return os, args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, o *etorder.Order) error {
	return m.Called(ctx, o).Error(0)
}

func TestFindOrder_ByOrderID(t *testing.T) {
	repo := new(mockOrderRepo)
	ctx := context.Background()
	want := etorder.Restore(etorder.RestoreParams{ID: 1, OrderID: "ORDABC123"})
	repo.On("GetByOrderID", ctx, "ORDABC123").Return(want, nil)

	got, err := NewOrderModule(repo).FindOrder(ctx, "ORDABC123")

	require.NoError(t, err)
	assert.Same(t, want, got)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestFindOrder_FallsBackToStorageID(t *testing.T) {
	repo := new(mockOrderRepo)
	ctx := context.Background()
	want := etorder.Restore(etorder.RestoreParams{ID: 42, OrderID: "ORDXYZ"})
	repo.On("GetByOrderID", ctx, "42").Return(nil, errorx.ErrOrderNotFound)
	repo.On("GetByID", ctx, int64(42)).Return(want, nil)

	got, err := NewOrderModule(repo).FindOrder(ctx, "42")

	require.NoError(t, err)
	assert.Equal(t, "ORDXYZ", got.OrderID)
}

func TestFindOrder_NotFound(t *testing.T) {
	repo := new(mockOrderRepo)
	ctx := context.Background()
	repo.On("GetByOrderID", ctx, "ORDNOPE").Return(nil, errorx.ErrOrderNotFound)

	_, err := NewOrderModule(repo).FindOrder(ctx, "ORDNOPE")

	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestFindOrder_StorageErrorIsNotMasked(t *testing.T) {
	repo := new(mockOrderRepo)
	ctx := context.Background()
	repo.On("GetByOrderID", ctx, "7").Return(nil, errorx.Persistence("get order", assert.AnError))

	_, err := NewOrderModule(repo).FindOrder(ctx, "7")

	assert.ErrorIs(t, err, errorx.ErrPersistence)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
