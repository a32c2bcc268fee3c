package mdcatalog

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/repo/rpproduct"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// CatalogModule product storage plus a snapshot cache used on the order path.
// Entries expire after the TTL so updates made by other instances are picked up.
type CatalogModule struct {
	productRepo rpproduct.ProductRepository
	snapshots   *expirable.LRU[int64, etproduct.Snapshot]

	// generations is bumped by every write to a product; a snapshot read that
	// started under an older generation is not cached.
	mu          sync.Mutex
	generations map[int64]uint64
}

// NewCatalogModule creates the module; non-positive cacheSize or ttl fall back to the defaults
func NewCatalogModule(productRepo rpproduct.ProductRepository, cacheSize int, ttl time.Duration) *CatalogModule {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CatalogModule{
		productRepo: productRepo,
		snapshots:   expirable.NewLRU[int64, etproduct.Snapshot](cacheSize, nil, ttl),
		generations: make(map[int64]uint64),
	}
}

func (m *CatalogModule) CreateProduct(ctx context.Context, product *etproduct.Product) error {
	return m.productRepo.Create(ctx, product)
}

func (m *CatalogModule) GetProduct(ctx context.Context, productID int64) (*etproduct.Product, error) {
	return m.productRepo.GetByID(ctx, productID)
}

func (m *CatalogModule) GetProductByName(ctx context.Context, name string) (*etproduct.Product, error) {
	return m.productRepo.GetByName(ctx, name)
}

func (m *CatalogModule) ListProducts(ctx context.Context, category etproduct.Category) ([]*etproduct.Product, error) {
	return m.productRepo.List(ctx, category)
}

// UpdateProduct persists the product and drops its cached snapshot
func (m *CatalogModule) UpdateProduct(ctx context.Context, product *etproduct.Product) error {
	defer m.invalidate(product.ID)
	return m.productRepo.Update(ctx, product)
}

// DeleteProduct deletes the product and drops its cached snapshot
func (m *CatalogModule) DeleteProduct(ctx context.Context, productID int64) error {
	defer m.invalidate(productID)
	return m.productRepo.Delete(ctx, productID)
}

func (m *CatalogModule) invalidate(productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[productID]++
	m.snapshots.Remove(productID)
}

func (m *CatalogModule) generation(productID int64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[productID]
}

// Snapshot returns the current name/price/unit of a product, served from cache when possible
func (m *CatalogModule) Snapshot(ctx context.Context, productID int64) (etproduct.Snapshot, error) {
	if snap, ok := m.snapshots.Get(productID); ok {
		return snap, nil
	}
	gen := m.generation(productID)
	product, err := m.productRepo.GetByID(ctx, productID)
	if err != nil {
		return etproduct.Snapshot{}, err
	}
	snap := product.Snapshot()

	m.mu.Lock()
	if m.generations[productID] == gen {
		m.snapshots.Add(productID, snap)
	}
	m.mu.Unlock()
	return snap, nil
}
