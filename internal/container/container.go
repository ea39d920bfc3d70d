package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"zerosugar/explorer/internal/cache"
	"zerosugar/explorer/internal/client"
	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/export"
	"zerosugar/explorer/internal/proxy"
	"zerosugar/explorer/internal/render"
	"zerosugar/explorer/internal/server"
	"zerosugar/explorer/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.CatalogClient
	Store    cache.Store
	Service  *service.Service
	Renderer *render.Renderer
	Server   *server.Server

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.API.Proxies, cfg.API.BaseURL+"/categories", nil)

	catalogClient := client.NewCatalogClient(cfg.API, proxySupplier)
	container.Client = catalogClient

	store := cache.NewNoopStore()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		store = cache.NewRedisStore(rdb, cfg.Redis.TTL())
	}
	container.Store = store

	container.Service = service.NewService(catalogClient, store, cfg.Catalog)

	renderer, err := render.New(cfg.API.ImageBaseURL)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}
	container.Renderer = renderer

	container.Server = server.New(cfg.Server, container.Service, renderer, catalogClient,
		server.WithHideDelay(cfg.Menu.HideDelay()))

	return container, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Export writes the filtered product list as a spreadsheet.
func (c *Container) Export(ctx context.Context, w io.Writer, opts service.FilterOptions) (int, error) {
	page, err := c.Service.LoadPage(ctx)
	if err != nil {
		return 0, err
	}

	products := page.Filter(opts)
	if err := export.Products(w, products, page.Categories, c.Renderer.ImageURL); err != nil {
		return 0, err
	}
	return len(products), nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
