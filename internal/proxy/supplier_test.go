package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupplierRoundRobinOverHealthyProxies(t *testing.T) {
	probe := func(_ context.Context, proxyURL, _ string) bool {
		return proxyURL != "http://dead:1"
	}

	s := NewProxySupplier(context.Background(),
		[]string{"http://a:1", "http://dead:1", "http://b:1"},
		"http://api.local/categories", probe)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "http://a:1", s.Get())
	assert.Equal(t, "http://b:1", s.Get())
	assert.Equal(t, "http://a:1", s.Get())
}

func TestSupplierEmpty(t *testing.T) {
	s := NewProxySupplier(context.Background(), nil, "http://api.local/categories", nil)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Get())
}

func TestDefaultProbeThroughForwardProxy(t *testing.T) {
	var proxied string
	forward := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer forward.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	s := NewProxySupplier(context.Background(),
		[]string{forward.URL, deadURL},
		"http://catalog.invalid/categories", nil)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, forward.URL, s.Get())
	assert.Equal(t, "http://catalog.invalid/categories", proxied)
}
