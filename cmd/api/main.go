package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfinder.onebusaway.org/internal/app"
	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/gtfs"
	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/restapi"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	logger := logging.NewLogger(os.Stdout, opts.logFormat, logging.ParseLevel(opts.logLevel))
	slog.SetDefault(logger)

	var fileCfg appconf.FileConfig
	if opts.configPath != "" {
		fileCfg, err = appconf.LoadFile(opts.configPath)
		if err != nil {
			logging.LogError(logger, "failed to load config file", err)
			os.Exit(1)
		}
	}
	cfg, gtfsCfg := buildConfigs(opts, fileCfg)

	gtfsManager, err := gtfs.InitGTFSManager(gtfsCfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to initialize GTFS manager", err)
		os.Exit(1)
	}
	defer gtfsManager.Shutdown()
	gtfsManager.LogStatistics()

	application := &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsCfg,
		Logger:      logger,
		GtfsManager: gtfsManager,
	}

	if err := serve(application); err != nil {
		logging.LogError(logger, "server stopped", err)
		gtfsManager.Shutdown()
		os.Exit(1)
	}
}

// serve runs the API until SIGINT or SIGTERM, then drains in-flight requests.
func serve(application *app.Application) error {
	api := restapi.NewRestAPI(application)
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(application.Logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		application.Logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", application.Config.Env.String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	application.Logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	application.Logger.Info("server shut down")
	return nil
}
