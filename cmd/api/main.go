package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storelab-be/internal/catalog"
	"storelab-be/internal/checkout"
	"storelab-be/internal/config"
	"storelab-be/internal/external"
	"storelab-be/internal/httpx"
	"storelab-be/internal/inventory"
	kafkax "storelab-be/internal/kafka"
	"storelab-be/internal/logger"
	"storelab-be/internal/orders"
	"storelab-be/internal/postgres"
	"storelab-be/internal/pricing"
	"storelab-be/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.L().Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.L().Fatal("ensure schema", zap.Error(err))
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderConfirmed, 1024)
	prod.Start(ctx)

	products := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db, Redis: rdb}

	shipping := external.NewShippingStub()
	tax := external.NewTaxStub()
	payments := external.NewPaymentStub()
	mailer := external.NewMailerStub()

	// v1: per-item inventory, full coupon scan, strictly sequential
	v1 := &httpx.V1Handler{
		Catalog:   products,
		Inventory: &inventory.PerItem{DB: db, Latency: cfg.SimDBLatency},
		Checkout: &checkout.Sequential{
			Products:  products,
			Inventory: &inventory.PerItem{DB: db, Latency: cfg.SimDBLatency},
			Coupons:   &pricing.Scan{DB: db, Latency: cfg.SimScanLatency},
			Shipping:  shipping,
			Tax:       tax,
			Payments:  payments,
			Orders:    orderRepo,
			Mail:      mailer,
		},
	}

	// v2: batched + cached inventory, predicate coupon, gathered calls
	batched := &inventory.Batched{DB: db}
	v2 := &httpx.V2Handler{
		Catalog:   products,
		Inventory: &inventory.Cached{Next: batched, Redis: rdb},
		Checkout: &checkout.Concurrent{
			Products:  products,
			Inventory: batched,
			Coupons:   &pricing.Predicate{DB: db},
			Shipping:  shipping,
			Tax:       tax,
			Payments:  payments,
			Orders:    orderRepo,
			Events:    prod,
			Service:   cfg.ServiceName,
		},
	}

	router := httpx.NewRouter()
	v1.Register(router)
	v2.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.L().Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.L().Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // no new events past this point
	prod.WaitClosed() // flush buffered events
	cancel()
}
