package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsServer exposes a private registry on /metrics.
type metricsServer struct {
	registry *prometheus.Registry
	srv      *http.Server
}

// newMetricsServer returns nil when addr is empty.
func newMetricsServer(addr string) *metricsServer {
	if addr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &metricsServer{
		registry: reg,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// start serves in the background. Listen failures are logged, not fatal.
func (m *metricsServer) start() {
	if m == nil {
		return
	}
	go func() {
		slog.Info("notifierctl: serving metrics", "addr", m.srv.Addr)
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("notifierctl: metrics server failed", "error", err)
		}
	}()
}

func (m *metricsServer) shutdown() {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		slog.Warn("notifierctl: metrics server shutdown", "error", err)
	}
}
