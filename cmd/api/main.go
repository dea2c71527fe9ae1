package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"buywidget/internal/catalog"
	"buywidget/internal/checkout"
	"buywidget/internal/config"
	"buywidget/internal/db"
	"buywidget/internal/httpserver"
	cartsvc "buywidget/internal/service/cart"
	"buywidget/internal/widget"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, closeStorage, err := db.OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer closeStorage()

	products := catalog.New()
	if cfg.Catalog.Path != "" {
		products, err = catalog.LoadFile(ctx, cfg.Catalog.Path)
		if err != nil {
			logger.Fatal("load catalog", zap.Error(err))
		}
		logger.Info("catalog loaded", zap.Int("products", products.Len()))
	}

	page := httpserver.NewPage(cfg.Page.Title, cfg.Page.Containers)
	cart := cartsvc.New(store, cfg.Storage.Namespace, logger)
	registry := widget.NewRegistry(cart, page, page, widget.Options{
		Sessions:        checkout.NewClient(&http.Client{}),
		CheckoutTimeout: cfg.Checkout.Timeout,
	}, logger)

	for _, entry := range cfg.Widgets {
		widgetCfg, err := products.Bind(entry)
		if err != nil {
			logger.Warn("skipping widget", zap.String("container", entry.ContainerID), zap.Error(err))
			continue
		}
		// Init logs its own rejections; the page keeps loading.
		_, _ = registry.Init(ctx, entry.ContainerID, &widgetCfg)
	}

	srv := httpserver.New(cfg.Server, logger, httpserver.Deps{
		Registry: registry,
		Page:     page,
		Storage:  store,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
