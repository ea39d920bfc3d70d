package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerosugar/explorer/internal/client"
	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
)

type fakeClient struct {
	products   []domain.Product
	categories []domain.Category
	sweeteners []domain.Sweetener
	detail     *domain.ProductDetail

	productsErr   error
	sweetenersErr error
	detailErr     error

	sweetenersGate chan struct{}
	listCalls      atomic.Int32
}

func (f *fakeClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.listCalls.Add(1)
	return f.products, f.productsErr
}

func (f *fakeClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	f.listCalls.Add(1)
	return f.categories, nil
}

func (f *fakeClient) ListSweeteners(ctx context.Context) ([]domain.Sweetener, error) {
	f.listCalls.Add(1)
	if f.sweetenersGate != nil {
		select {
		case <-f.sweetenersGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.sweeteners, f.sweetenersErr
}

func (f *fakeClient) GetProductFull(ctx context.Context, id int) (*domain.ProductDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeClient) Predict(ctx context.Context, req client.PredictRequest) (*domain.PredictResponse, error) {
	return nil, errors.New("not used")
}

func testCatalog() config.CatalogConfig {
	return config.CatalogConfig{
		CategoryOrder:    domain.CategoryDisplayOrder,
		Sweeteners:       domain.MenuSweetenerNames(),
		DefaultSweetener: domain.DefaultSweetener.String(),
	}
}

func sampleClient() *fakeClient {
	return &fakeClient{
		products: []domain.Product{
			{ID: 1, Name: "딸기 요거트", CategoryID: 4, Sweeteners: []string{"에리스리톨"}},
			{ID: 2, Name: "제로 콜라", CategoryID: 8, Sweeteners: []string{"알룰로오스"}},
			{ID: 3, Name: "초코바", CategoryID: 6, Sweeteners: []string{"당알코올", "알룰로오스"}},
		},
		categories: []domain.Category{
			{ID: 8, Name: "탄산"},
			{ID: 4, Name: "유제품"},
			{ID: 6, Name: "초콜릿"},
			{ID: 9, Name: "빈 카테고리"},
		},
		sweeteners: []domain.Sweetener{{ID: 1, Name: "알룰로오스"}},
	}
}

func TestLoadPageFetchesAllThree(t *testing.T) {
	fc := sampleClient()
	svc := NewService(fc, nil, testCatalog())

	page, err := svc.LoadPage(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.Products, 3)
	assert.Len(t, page.Categories, 4)
	assert.Len(t, page.Sweeteners, 1)
	assert.Equal(t, int32(3), fc.listCalls.Load())
}

func TestLoadPageWaitsForSlowestFetch(t *testing.T) {
	fc := sampleClient()
	fc.sweetenersGate = make(chan struct{})
	svc := NewService(fc, nil, testCatalog())

	var (
		wg   sync.WaitGroup
		page *Page
		err  error
		done atomic.Bool
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		page, err = svc.LoadPage(context.Background())
		done.Store(true)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, done.Load(), "page must not be ready before every fetch completes")

	close(fc.sweetenersGate)
	wg.Wait()

	require.NoError(t, err)
	assert.Len(t, page.Sweeteners, 1)
}

func TestLoadPageFailsAsAWhole(t *testing.T) {
	fc := sampleClient()
	fc.sweetenersErr = errors.New("boom")
	svc := NewService(fc, nil, testCatalog())

	page, err := svc.LoadPage(context.Background())
	assert.Error(t, err)
	assert.Nil(t, page)
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]any
	err  error
}

func (m *memoryStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Product:
		*d = v.([]domain.Product)
	case *[]domain.Category:
		*d = v.([]domain.Category)
	case *[]domain.Sweetener:
		*d = v.([]domain.Sweetener)
	}
	return true, nil
}

func (m *memoryStore) Save(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func TestLoadPageUsesSnapshots(t *testing.T) {
	fc := sampleClient()
	store := &memoryStore{data: map[string]any{}}
	svc := NewService(fc, store, testCatalog())

	_, err := svc.LoadPage(context.Background())
	require.NoError(t, err)
	_, err = svc.LoadPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(3), fc.listCalls.Load(), "second load must come from the snapshot store")
}

func TestLoadPageSurvivesBrokenStore(t *testing.T) {
	fc := sampleClient()
	store := &memoryStore{data: map[string]any{}, err: errors.New("redis down")}
	svc := NewService(fc, store, testCatalog())

	page, err := svc.LoadPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
}

func TestLoadDetail(t *testing.T) {
	fc := sampleClient()
	fc.detail = &domain.ProductDetail{ID: 2, Name: "제로 콜라"}
	svc := NewService(fc, nil, testCatalog())

	page, err := svc.LoadDetail(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "제로 콜라", page.Product.Name)
	assert.True(t, page.Nav().IsActive(nav.SectionProducts))
	assert.Len(t, page.Nav().Categories, 3)
}

func TestLoadDetailMissingID(t *testing.T) {
	svc := NewService(sampleClient(), nil, testCatalog())

	for _, param := range []string{"", "abc"} {
		_, err := svc.LoadDetail(context.Background(), param)
		assert.ErrorIs(t, err, ErrMissingProductID)
	}
}

func TestLoadDetailFetchFailure(t *testing.T) {
	fc := sampleClient()
	fc.detailErr = &client.APIError{Status: 500}
	svc := NewService(fc, nil, testCatalog())

	_, err := svc.LoadDetail(context.Background(), "5")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingProductID)
}
