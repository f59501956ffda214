// Package server wires the backend together: logger, metrics, the bounded
// password hasher, the HTTP API and the gRPC health endpoint. It handles
// OS signals and shuts everything down gracefully.
package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/clouddb/internal/logging"
	"github.com/dmitrijs2005/clouddb/internal/server/config"
	"github.com/dmitrijs2005/clouddb/internal/server/metrics"
	"github.com/dmitrijs2005/clouddb/internal/server/password"
	"github.com/dmitrijs2005/clouddb/internal/server/rest"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/clouddb/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	http    *rest.Server
	grpc    *gs.GRPCServer
}

func NewApp(c *config.Config) *App {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, out io.Writer) *App {
	logger := logging.NewLogger(c.Env, c.LogLevel, out)
	m := metrics.NewRegistry()
	hasher := password.NewLimiter(password.NewBcrypt(), c.HashConcurrency)

	handler := rest.NewHandler(c, hasher, m, logger)

	return &App{
		config:  c,
		logger:  logger,
		metrics: m,
		http:    rest.NewServer(c.Addr(), handler.Routes(), logger, c.ShutdownTimeout),
		grpc:    gs.NewGRPCServer(c.GRPCAddr, logger),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// warnInsecure logs when the signing secret is unsafe for the environment.
func (app *App) warnInsecure(ctx context.Context) {
	if !app.config.SecretSet() {
		app.logger.Warn(ctx, "JWT secret is empty; token issuance will fail")
		return
	}
	if app.config.IsProduction() && app.config.UsesDefaultSecret() {
		app.logger.Warn(ctx, "Running in production with the default JWT secret; set JWT_SECRET")
	}
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or one
// of the servers fails. The first server error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting app...",
		"env", app.config.Env,
		"port", app.config.Port,
		"grpc_addr", app.config.GRPCAddr,
		"jwt_secret_set", app.config.SecretSet())
	app.warnInsecure(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(gctx) })
	g.Go(func() error { return app.grpc.Run(gctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
