package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"zerosugar/explorer/internal/cache"
	"zerosugar/explorer/internal/client"
	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/nav"
)

// ErrMissingProductID is returned for a detail page without a usable id.
var ErrMissingProductID = errors.New("product id is missing")

type Service struct {
	client  client.CatalogClient
	store   cache.Store
	catalog config.CatalogConfig
}

func NewService(client client.CatalogClient, store cache.Store, catalog config.CatalogConfig) *Service {
	if store == nil {
		store = cache.NewNoopStore()
	}
	return &Service{
		client:  client,
		store:   store,
		catalog: catalog,
	}
}

// LoadPage fetches products, categories and sweeteners concurrently. It
// returns only once all three are in; any failure fails the whole load so
// no page renders half-initialized.
func (s *Service) LoadPage(ctx context.Context) (*Page, error) {
	page := &Page{catalog: s.catalog}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := cached(ctx, s.store, "products", s.client.ListProducts)
		page.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := cached(ctx, s.store, "categories", s.client.ListCategories)
		page.Categories = categories
		return err
	})
	g.Go(func() error {
		sweeteners, err := cached(ctx, s.store, "sweeteners", s.client.ListSweeteners)
		page.Sweeteners = sweeteners
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Failed to load catalog: %v", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	log.Debugf("Loaded %d products, %d categories, %d sweeteners",
		len(page.Products), len(page.Categories), len(page.Sweeteners))
	return page, nil
}

// DetailPage is the state of a product detail page load.
type DetailPage struct {
	Product    *domain.ProductDetail
	Categories []domain.Category
	catalog    config.CatalogConfig
}

// LoadDetail parses the id query parameter and fetches the product with the
// categories the navigation needs.
func (s *Service) LoadDetail(ctx context.Context, idParam string) (*DetailPage, error) {
	id, err := strconv.Atoi(strings.TrimSpace(idParam))
	if err != nil {
		return nil, ErrMissingProductID
	}

	page := &DetailPage{catalog: s.catalog}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		detail, err := s.client.GetProductFull(ctx, id)
		page.Product = detail
		return err
	})
	g.Go(func() error {
		categories, err := cached(ctx, s.store, "categories", s.client.ListCategories)
		page.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Failed to load product %d: %v", id, err)
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}

	return page, nil
}

// Nav builds the navigation for pages rendered without a catalog snapshot.
func (s *Service) Nav(active nav.Section) nav.Menu {
	return nav.Build(active, s.catalog.CategoryOrder, nil, s.catalog.Sweeteners)
}

func cached[T any](ctx context.Context, store cache.Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	var value T

	ok, err := store.Load(ctx, key, &value)
	if err != nil {
		log.Warnf("⚠️ Snapshot %s unavailable, fetching: %v", key, err)
	} else if ok {
		log.Debugf("Snapshot hit for %s", key)
		return value, nil
	}

	value, err = fetch(ctx)
	if err != nil {
		return value, err
	}

	if err := store.Save(ctx, key, value); err != nil {
		log.Warnf("⚠️ Failed to save snapshot %s: %v", key, err)
	}

	return value, nil
}
