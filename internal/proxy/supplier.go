package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

// ProxySupplier hands out outbound proxies for the catalog API client in
// round-robin order.
type ProxySupplier interface {
	Get() string
	Len() int
}

// ProbeFunc reports whether the catalog API answers through the proxy.
type ProbeFunc func(ctx context.Context, proxyURL, probeURL string) bool

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier probes every configured proxy against probeURL and keeps
// the ones that answer. A nil probe uses an HTTP GET through the proxy.
func NewProxySupplier(ctx context.Context, proxies []string, probeURL string, probe ProbeFunc) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}
	if probe == nil {
		probe = isProxyValid
	}

	log.Infof("🔄 Probing %d proxies against %s...", len(proxies), probeURL)

	healthy := make([]bool, len(proxies))
	g := new(errgroup.Group)
	g.SetLimit(16)

	for i, proxyURL := range proxies {
		g.Go(func() error {
			healthy[i] = probe(ctx, proxyURL, probeURL)
			if healthy[i] {
				log.Infof("✅ Proxy %s is working", proxyURL)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
			}
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]string, 0, len(proxies))
	for i, proxyURL := range proxies {
		if healthy[i] {
			valid = append(valid, proxyURL)
		}
	}

	log.Infof("✅ Proxy pool ready with %d of %d proxies", len(valid), len(proxies))

	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL, or "" when the pool is empty.
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.proxies)
}

func isProxyValid(ctx context.Context, proxyURL, probeURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(probeURL)
	if err != nil {
		log.Debugf("Proxy probe failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Proxy probe failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
