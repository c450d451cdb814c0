package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/nugget/cdpmux/internal/cdp/transport"
	"github.com/nugget/cdpmux/internal/httpkit"
)

// DialRetries and DialRetryDelay are the fixed retry count and spacing
// Bootstrap uses while the target's debugging port is not yet
// accepting connections — e.g. a browser process that was just
// launched. Grounded on pycdp/twisted.py's
// @retry_on(ConnectionRefusedError, retries=10, delay=1.0): spec.md
// pins this as an exact invariant, not a caller-tunable knob, so unlike
// httpkit.WithRetry these are constants rather than options.
const (
	DialRetries    = 10
	DialRetryDelay = 1 * time.Second
)

// versionInfo is the subset of a browser's /json/version response this
// package needs.
type versionInfo struct {
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Bootstrap resolves a debugging URL to a live Connection (C7). The
// debuggingURL may be an "http://host:port" base (the usual case for a
// browser started with --remote-debugging-port) or a "ws://" URL
// already pointing at the browser-level WebSocket endpoint.
type Bootstrap struct {
	httpClient *http.Client
	logger     *slog.Logger
	registry   *Registry
}

// NewBootstrap constructs a Bootstrap. httpClient defaults to a
// client built with httpkit.WithRetry, so the /json/version discovery
// GET tolerates the same kind of transient dial failure Connect
// already retries at the WebSocket layer, if nil; logger defaults to
// slog.Default() if nil.
func NewBootstrap(httpClient *http.Client, registry *Registry, logger *slog.Logger) *Bootstrap {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = httpkit.NewClient(httpkit.WithRetry(DialRetries, DialRetryDelay), httpkit.WithLogger(logger))
	}
	return &Bootstrap{httpClient: httpClient, logger: logger, registry: registry}
}

// Connect resolves debuggingURL to a WebSocket endpoint (issuing an
// HTTP GET to /json/version if debuggingURL is an http:// base) and
// dials it, retrying DialRetries times at DialRetryDelay spacing if
// the connection is refused — the usual symptom of racing a browser
// process that has not yet opened its debugging port.
func (b *Bootstrap) Connect(ctx context.Context, debuggingURL string) (*Connection, error) {
	wsURL, err := b.resolveWebSocketURL(ctx, debuggingURL)
	if err != nil {
		return nil, err
	}

	var tr transport.Transport
	for attempt := 0; ; attempt++ {
		tr, err = transport.Dial(ctx, wsURL)
		if err == nil {
			break
		}
		if attempt >= DialRetries || !isConnectionRefused(err) {
			return nil, fmt.Errorf("cdp: dial %s: %w", wsURL, err)
		}
		b.logger.Warn("cdp: dial refused, retrying", "url", wsURL, "attempt", attempt+1, "of", DialRetries)
		timer := time.NewTimer(DialRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return NewConnection(tr, b.registry, b.logger), nil
}

func (b *Bootstrap) resolveWebSocketURL(ctx context.Context, debuggingURL string) (string, error) {
	base := strings.TrimSuffix(debuggingURL, "/")
	switch {
	case strings.HasPrefix(base, "ws://"), strings.HasPrefix(base, "wss://"):
		return base, nil
	case strings.HasPrefix(base, "http://"), strings.HasPrefix(base, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/json/version", nil)
		if err != nil {
			return "", err
		}
		resp, err := b.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("cdp: %s/json/version: %w", base, err)
		}
		if resp.StatusCode != http.StatusOK {
			body := httpkit.ReadErrorBody(resp.Body, 4096)
			return "", fmt.Errorf("cdp: %s/json/version: HTTP %d: %s", base, resp.StatusCode, body)
		}
		defer httpkit.DrainAndClose(resp.Body, 1<<20)
		var v versionInfo
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			return "", fmt.Errorf("cdp: decode /json/version: %w", err)
		}
		if v.WebSocketDebuggerURL == "" {
			return "", fmt.Errorf("cdp: %s/json/version: missing webSocketDebuggerUrl", base)
		}
		return v.WebSocketDebuggerURL, nil
	default:
		return "", fmt.Errorf("cdp: bad debugging URL scheme: %s", debuggingURL)
	}
}

// isConnectionRefused reports whether err ultimately wraps ECONNREFUSED,
// the signal that the debugging port is not accepting connections yet.
// Any other dial failure (bad host, TLS failure, ...) is not retried.
func isConnectionRefused(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ECONNREFUSED
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.As(opErr.Err, &errno) {
		return errno == syscall.ECONNREFUSED
	}
	return false
}
