package container

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/domain"
	"zerosugar/explorer/internal/service"
)

func newCatalogAPI(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.HandleFunc("GET /products", serve(`[
		{"id":1,"name":"딸기 요거트","category_id":4,"image_url":null,"sweeteners":["에리스리톨"]},
		{"id":2,"name":"제로 콜라","category_id":5,"image_url":"/static/2.jpg","sweeteners":["알룰로오스"]}
	]`))
	mux.HandleFunc("GET /categories", serve(`[{"id":4,"name":"유제품"},{"id":5,"name":"탄산"}]`))
	mux.HandleFunc("GET /sweeteners", serve(`[{"id":1,"name":"알룰로오스"}]`))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		API: config.APIConfig{
			BaseURL:      apiURL,
			ImageBaseURL: apiURL,
			Timeout:      5,
		},
		Menu: config.MenuConfig{HideDelayMs: 120},
		Catalog: config.CatalogConfig{
			CategoryOrder:    domain.CategoryDisplayOrder,
			Sweeteners:       domain.MenuSweetenerNames(),
			DefaultSweetener: domain.DefaultSweetener.String(),
		},
	}
}

func TestExportUsesRedisSnapshots(t *testing.T) {
	var calls atomic.Int32
	api := newCatalogAPI(t, &calls)
	mr := miniredis.RunT(t)

	cfg := testConfig(api.URL)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, SnapshotTTL: 30}

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var buf bytes.Buffer
	n, err := c.Export(context.Background(), &buf, service.FilterOptions{Sweetener: "알룰로오스"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(3), calls.Load())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "제로 콜라", rows[1][1])
	assert.Equal(t, api.URL+"/static/2.jpg", rows[1][4])

	buf.Reset()
	_, err = c.Export(context.Background(), &buf, service.FilterOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "second load must be served from snapshots")
}

func TestNewFailsWhenRedisIsDown(t *testing.T) {
	var calls atomic.Int32
	api := newCatalogAPI(t, &calls)

	cfg := testConfig(api.URL)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	api := newCatalogAPI(t, &calls)

	c, err := New(context.Background(), testConfig(api.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
