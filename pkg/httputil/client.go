// Package httputil provides the shared outbound HTTP plumbing: pooled
// transport, tiered clients, and bounded response reads.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize caps response body reads from external services.
const MaxResponseSize = 2 * 1024 * 1024 // 2MB

// Shared transport with connection pooling, reused by every outbound call
// (notification callbacks and LLM completions).
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:   true,
	MaxIdleConns:        50,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// TimeoutTier selects a standard timeout for an operation class.
type TimeoutTier int

const (
	// TierCallback for notification dispatch attempts (5s).
	TierCallback TimeoutTier = iota
	// TierLLM for reply-generation completions (30s).
	TierLLM
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierCallback: 5 * time.Second,
	TierLLM:      30 * time.Second,
}

var (
	clientCallback *http.Client
	clientLLM      *http.Client
	clientOnce     sync.Once
)

func initClients() {
	clientCallback = &http.Client{Timeout: timeoutDurations[TierCallback], Transport: sharedTransport}
	clientLLM = &http.Client{Timeout: timeoutDurations[TierLLM], Transport: sharedTransport}
}

// Client returns the shared HTTP client for a timeout tier. Clients share one
// connection pool; use these instead of constructing per-request clients.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	if tier == TierCallback {
		return clientCallback
	}
	return clientLLM
}

// ReadBody reads an HTTP response body with a size limit.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
