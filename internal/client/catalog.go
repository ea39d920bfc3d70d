package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/proxy"
)

// CatalogClient talks to the catalog REST API and the prediction endpoint.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSweeteners(ctx context.Context) ([]domain.Sweetener, error)
	GetProductFull(ctx context.Context, id int) (*domain.ProductDetail, error)
	Predict(ctx context.Context, req PredictRequest) (*domain.PredictResponse, error)
}

// PredictRequest is the multipart body of POST /predict.
type PredictRequest struct {
	CategoryID  int
	FileName    string
	ContentType string
	File        io.Reader
}

type catalogClient struct {
	rl            ratelimit.Limiter
	cfg           config.APIConfig
	baseURL       string
	proxySupplier proxy.ProxySupplier

	// Proxy rotation swaps in fresh clients; requests already in flight keep
	// the client they started with.
	clientMutex  sync.RWMutex
	httpClient   *resty.Client
	uploadClient *resty.Client

	// Circuit breaker for 429/503 answers
	circuitBreakerMutex sync.RWMutex
	overloadedUntil     time.Time
	circuitBreakerDelay time.Duration
}

func NewCatalogClient(cfg config.APIConfig, proxySupplier proxy.ProxySupplier) CatalogClient {
	c := &catalogClient{
		rl:            ratelimit.NewUnlimited(),
		cfg:           cfg,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		proxySupplier: proxySupplier,
	}
	if cfg.MaxRequestsPerSecond > 0 {
		c.rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	c.circuitBreakerDelay = cfg.CooldownDuration()
	if c.circuitBreakerDelay <= 0 {
		c.circuitBreakerDelay = time.Minute
	}

	proxyURL := ""
	if proxySupplier != nil {
		if proxyURL = proxySupplier.Get(); proxyURL != "" {
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}
	c.httpClient, c.uploadClient = c.buildClients(proxyURL)

	return c
}

// buildClients creates the JSON client and the upload client, both routed
// through proxyURL when it is set.
func (c *catalogClient) buildClients(proxyURL string) (*resty.Client, *resty.Client) {
	client := resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.cfg.TimeoutDuration()).
		SetRetryCount(c.cfg.MaxRetries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	// Uploads are not replayable, so they never retry.
	upload := resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.cfg.TimeoutDuration()).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if proxyURL != "" {
		client.SetProxy(proxyURL)
		upload.SetProxy(proxyURL)
	}
	return client, upload
}

func (c *catalogClient) client(upload bool) *resty.Client {
	c.clientMutex.RLock()
	defer c.clientMutex.RUnlock()

	if upload {
		return c.uploadClient
	}
	return c.httpClient
}

func (c *catalogClient) rotateProxy(proxyURL string) {
	client, upload := c.buildClients(proxyURL)

	c.clientMutex.Lock()
	c.httpClient, c.uploadClient = client, upload
	c.clientMutex.Unlock()

	log.Infof("🔄 Switching to new proxy: %s", proxyURL)
}

func (c *catalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	log.Debugf("Fetched %d products", len(products))
	return products, nil
}

func (c *catalogClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	log.Debugf("Fetched %d categories", len(categories))
	return categories, nil
}

func (c *catalogClient) ListSweeteners(ctx context.Context) ([]domain.Sweetener, error) {
	var sweeteners []domain.Sweetener
	if err := c.getJSON(ctx, "/sweeteners", &sweeteners); err != nil {
		return nil, fmt.Errorf("failed to list sweeteners: %w", err)
	}

	log.Debugf("Fetched %d sweeteners", len(sweeteners))
	return sweeteners, nil
}

func (c *catalogClient) GetProductFull(ctx context.Context, id int) (*domain.ProductDetail, error) {
	var detail domain.ProductDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d/full", id), &detail); err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &detail, nil
}

func (c *catalogClient) Predict(ctx context.Context, req PredictRequest) (*domain.PredictResponse, error) {
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.execute(ctx, true, http.MethodPost, "/predict", false, func(r *resty.Request) *resty.Request {
		return r.
			SetMultipartFormData(map[string]string{
				"category_id": strconv.Itoa(req.CategoryID),
			}).
			SetMultipartField("file", req.FileName, contentType, req.File)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to predict: %w", err)
	}

	var out domain.PredictResponse
	if err := json.Unmarshal([]byte(resp.String()), &out); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}

	log.Debugf("Prediction returned %d candidates", len(out.Results))
	return &out, nil
}

func (c *catalogClient) getJSON(ctx context.Context, path string, dst any) error {
	resp, err := c.execute(ctx, false, http.MethodGet, path, true, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(resp.String()), dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *catalogClient) execute(
	ctx context.Context,
	upload bool,
	method, path string,
	replayable bool,
	build func(*resty.Request) *resty.Request,
) (*resty.Response, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		log.Debugf("🚫 Request blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return nil, fmt.Errorf("%w: requests disabled for %v more", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.send(ctx, c.client(upload), method, path, build)
	if err != nil {
		return nil, err
	}

	if isOverloaded(resp.StatusCode()) {
		log.Warnf("🚫 Catalog API overloaded (%d) for %s", resp.StatusCode(), path)

		retried := false
		if replayable && c.proxySupplier != nil {
			if newProxy := c.proxySupplier.Get(); newProxy != "" {
				c.rotateProxy(newProxy)

				resp, err = c.send(ctx, c.client(upload), method, path, build)
				if err != nil {
					return nil, err
				}
				retried = true
			}
		}

		if !retried || isOverloaded(resp.StatusCode()) {
			c.triggerCircuitBreaker()
		}
	}

	if !resp.IsSuccess() {
		return nil, &APIError{
			Method: method,
			URL:    c.baseURL + path,
			Status: resp.StatusCode(),
			Body:   resp.String(),
		}
	}

	return resp, nil
}

func (c *catalogClient) send(
	ctx context.Context,
	httpClient *resty.Client,
	method, path string,
	build func(*resty.Request) *resty.Request,
) (*resty.Response, error) {
	req := httpClient.R().SetContext(ctx)
	if build != nil {
		req = build(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		// Check if this is a context cancellation from the caller
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}

	return resp, nil
}

func isOverloaded(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func (c *catalogClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.overloadedUntil)
	wasTriggered := !c.overloadedUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		// Double-check after acquiring write lock
		if !c.overloadedUntil.IsZero() && now.After(c.overloadedUntil) {
			c.overloadedUntil = time.Time{}
			log.Infof("✅ Circuit breaker closed - requests are allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *catalogClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.overloadedUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Circuit breaker activated! Requests disabled until %v",
		c.overloadedUntil.Format("15:04:05"))
}

func (c *catalogClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.overloadedUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}
