package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storelab-be/internal/config"
	"storelab-be/internal/external"
	kafkax "storelab-be/internal/kafka"
	"storelab-be/internal/logger"
	"storelab-be/internal/notify"
	"storelab-be/internal/orders"
	"storelab-be/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		Mailer:      external.NewMailerStub(),
		ServiceName: cfg.ServiceName + "-worker",
	}

	group := getenv("NOTIFY_GROUP", "notify-svc")
	workers := mustAtoi(os.Getenv("NOTIFY_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderConfirmed, workers)

	go func() {
		logger.L().Info("notify consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicOrderConfirmed),
			zap.Int("workers", workers),
		)
		if err := cons.Start(ctx, svc.HandleOrderConfirmed); err != nil {
			logger.L().Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.L().Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
