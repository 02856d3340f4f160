package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AgriPull/internal/service/ratelimit"
	"AgriPull/pkg/config"
	xhttp "AgriPull/pkg/http"
	applogger "AgriPull/pkg/logger"
)

// Warmer prepares a lazily loaded resource ahead of the first request.
type Warmer interface {
	Warm(ctx context.Context) error
}

type closer struct {
	name string
	fn   func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	warmer     Warmer
	limiter    *ratelimit.Limiter
	closers    []closer
}

// New creates a new App instance with all dependencies. warmer and limiter
// may be nil.
func New(cfg *config.Config, log *applogger.Logger, srv *xhttp.Server, warmer Warmer, limiter *ratelimit.Limiter) *App {
	if log == nil {
		log = applogger.NewNop()
	}
	return &App{cfg: cfg, log: log, httpServer: srv, warmer: warmer, limiter: limiter}
}

// OnShutdown registers fn to run after the HTTP server stops. Closers run
// in reverse registration order.
func (a *App) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.warmer != nil && a.cfg.Model.WarmOnStart {
		go func() {
			start := time.Now()
			if err := a.warmer.Warm(ctx); err != nil {
				a.log.Warn("model warm-up failed; first prediction will retry", applogger.Error(err))
				return
			}
			a.log.Info("model ready", applogger.Duration("took", time.Since(start)))
		}()
	}

	if a.limiter != nil {
		go a.pruneLimiter(ctx, time.Minute)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLimiter(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(5 * every); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("clients", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.log.Warn(c.name+" close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
