package svproduct

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/logger"
)

const appleImage = "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6"

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateProduct(ctx context.Context, p *etproduct.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) GetProduct(ctx context.Context, id int64) (*etproduct.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*etproduct.Product)
	return p, args.Error(1)
}

func (m *mockStore) GetProductByName(ctx context.Context, name string) (*etproduct.Product, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(*etproduct.Product)
	return p, args.Error(1)
}

func (m *mockStore) ListProducts(ctx context.Context, c etproduct.Category) ([]*etproduct.Product, error) {
	args := m.Called(ctx, c)
	ps, _ := args.Get(0).([]*etproduct.Product)
	return ps, args.Error(1)
}

func (m *mockStore) UpdateProduct(ctx context.Context, p *etproduct.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newService(store ProductStore) *ProductService {
	s := NewProductService(store, logger.NewNop())
	s.nextID = func() int64 { return 4242 }
	return s
}

func appleInput() CreateProductInput {
	return CreateProductInput{Name: "Fresh Red Apple", Category: "Fruits", Price: 80, Unit: "1 kg", Image: appleImage}
}

func TestCreateProduct(t *testing.T) {
	store := new(mockStore)
	store.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)

	p, err := newService(store).CreateProduct(context.Background(), appleInput())

	require.NoError(t, err)
	assert.Equal(t, int64(4242), p.ID)
	assert.Equal(t, etproduct.CategoryFruits, p.Category)
	assert.True(t, p.InStock)
}

func TestCreateProduct_Invalid(t *testing.T) {
	store := new(mockStore)
	in := appleInput()
	in.Category = "dairy"

	_, err := newService(store).CreateProduct(context.Background(), in)

	assert.ErrorIs(t, err, errorx.ErrValidation)
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestUpsertByName(t *testing.T) {
	t.Run("creates when missing", func(t *testing.T) {
		store := new(mockStore)
		store.On("GetProductByName", mock.Anything, "Fresh Red Apple").Return(nil, nil)
		store.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)

		p, created, err := newService(store).UpsertByName(context.Background(), appleInput())

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(4242), p.ID)
	})

	t.Run("updates existing", func(t *testing.T) {
		store := new(mockStore)
		existing := &etproduct.Product{ID: 7, Name: "Fresh Red Apple", Category: etproduct.CategoryFruits, Price: 70, Unit: "1 kg", Image: appleImage, InStock: false}
		store.On("GetProductByName", mock.Anything, "Fresh Red Apple").Return(existing, nil)
		store.On("UpdateProduct", mock.Anything, existing).Return(nil)

		p, created, err := newService(store).UpsertByName(context.Background(), appleInput())

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, 80.0, p.Price)
		assert.False(t, p.InStock)
	})
}

func TestUpdateProduct(t *testing.T) {
	store := new(mockStore)
	existing := &etproduct.Product{ID: 7, Name: "Fresh Red Apple", Category: etproduct.CategoryFruits, Price: 80, Unit: "1 kg", Image: appleImage, InStock: true}
	store.On("GetProduct", mock.Anything, int64(7)).Return(existing, nil)
	store.On("UpdateProduct", mock.Anything, existing).Return(nil)

	inStock := false
	p, err := newService(store).UpdateProduct(context.Background(), 7, etproduct.Patch{InStock: &inStock})

	require.NoError(t, err)
	assert.False(t, p.InStock)
	store.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	store := new(mockStore)
	store.On("GetProduct", mock.Anything, int64(9)).Return(nil, errorx.ErrProductNotFound)

	_, err := newService(store).UpdateProduct(context.Background(), 9, etproduct.Patch{})

	assert.ErrorIs(t, err, errorx.ErrProductNotFound)
}

func TestListProducts(t *testing.T) {
	store := new(mockStore)
	store.On("ListProducts", mock.Anything, etproduct.CategoryVegetables).Return([]*etproduct.Product{}, nil)
	store.On("ListProducts", mock.Anything, etproduct.Category("")).Return([]*etproduct.Product{}, nil)
	svc := newService(store)

	_, err := svc.ListProducts(context.Background(), "VEGETABLES")
	require.NoError(t, err)
	_, err = svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.ListProducts(context.Background(), "bakery")
	assert.ErrorIs(t, err, errorx.ErrValidation)
}
