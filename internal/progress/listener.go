// Package progress follows a backend's socket.io progress feed while a song
// is being processed.
package progress

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"

	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultNamespace = "/"
	DefaultEvent     = "progress"
)

// Event is one message received on the progress feed.
type Event struct {
	Name string
	Data any
}

// Handler receives progress events. It is called from socket.io goroutines.
type Handler func(Event)

type target struct {
	baseURL   string
	path      string
	namespace string
	event     string
}

func resolveTarget(cfg *config.Progress) (target, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return target{}, fmt.Errorf("failed to parse progress url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return target{}, fmt.Errorf("progress url '%s' must be absolute", cfg.URL)
	}

	t := target{
		baseURL:   fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:      parsed.Path,
		namespace: cfg.Namespace,
		event:     cfg.Event,
	}
	if t.namespace == "" {
		t.namespace = DefaultNamespace
	}
	if t.event == "" {
		t.event = DefaultEvent
	}
	return t, nil
}

// Listen connects to the feed and calls handle for every progress event
// until the returned stop function is called. The feed is advisory: failing
// to connect is logged, not returned.
func Listen(ctx context.Context, cfg *config.Progress, handle Handler) (stop func(), err error) {
	t, err := resolveTarget(cfg)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("progress_url", cfg.URL, "event", t.event)

	opts := socket.DefaultOptions()
	if t.path != "" {
		opts.SetPath(t.path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(t.baseURL, opts)
	io := manager.Socket(t.namespace, opts)

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Progress feed connected", "namespace", t.namespace, "sid", io.Id())
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			logger.Warn("Progress feed connection failed", "error", errs[0])
		}
	})
	io.On(types.EventName(t.event), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		handle(Event{Name: t.event, Data: payload})
	})

	io.Connect()

	var once sync.Once
	return func() {
		once.Do(func() {
			logger.Debug("Disconnecting progress feed")
			io.Disconnect()
		})
	}, nil
}
