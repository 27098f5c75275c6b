// Package main boots the POS register HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/pos-register/internal/catalog"
	"github.com/fairyhunter13/pos-register/internal/config"
	"github.com/fairyhunter13/pos-register/internal/feedback"
	httpapi "github.com/fairyhunter13/pos-register/internal/http"
	"github.com/fairyhunter13/pos-register/internal/obs"
	"github.com/fairyhunter13/pos-register/internal/queue"
	"github.com/fairyhunter13/pos-register/internal/receipt"
	"github.com/fairyhunter13/pos-register/internal/register"
	"github.com/fairyhunter13/pos-register/internal/store"
)

func main() {
	if err := run(); err != nil {
		obs.Logger.Error("service_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "addr", cfg.HTTPAddr, "log_level", cfg.LogLevel)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(sigCtx, catalogSupplier(cfg))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	obs.Logger.Info("catalog_loaded", "products", cat.Len(), "path", cfg.CatalogPath)

	header := receipt.Header{
		StoreName: cfg.StoreName,
		Branch:    cfg.StoreBranch,
		Location:  cfg.ReceiptLocation,
	}
	fb := feedback.NewChannel(cfg.FeedbackBuffer)
	env := register.Env{
		Now:     time.Now,
		Numbers: register.NewNumberer(cfg.ReceiptPrefix),
	}

	bg, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	mgr := queue.NewManager(cfg, queue.New(cfg.QueueBuffer, cfg.QueueHighWatermark), store.New(), env, receiptSink(cfg, header), fb)
	mgr.Start(bg)

	app := httpapi.NewApp(cfg, cat, mgr, fb)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return fb.Listen(gctx)
	})
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_begin", "backlog_size", mgr.BacklogSize())
		app.StartShutdown()

		ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelDrain()
		if drained := mgr.DrainUntil(ctxDrain); !drained {
			obs.Logger.Warn("shutdown_drain_timeout")
		} else {
			obs.Logger.Info("shutdown_drain_complete")
		}

		ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelSrv()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err.Error())
		}
		mgr.Stop()
		return nil
	})

	err = g.Wait()
	emitted, dropped := fb.Metrics()
	obs.Logger.Info("service_stopped", "feedback_emitted", emitted, "feedback_dropped", dropped)
	return err
}

func catalogSupplier(cfg config.Config) catalog.Supplier {
	if cfg.CatalogPath != "" {
		return catalog.FileSupplier{Path: cfg.CatalogPath}
	}
	return catalog.EmbeddedSupplier{}
}

func receiptSink(cfg config.Config, h receipt.Header) receipt.Sink {
	if cfg.ReceiptDir != "" {
		return receipt.DirSink{Dir: cfg.ReceiptDir, Header: h}
	}
	return receipt.NewWriterSink(os.Stdout, h)
}
