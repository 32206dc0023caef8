package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storelab-be/internal/config"
	"storelab-be/internal/inventory"
	"storelab-be/internal/logger"
	"storelab-be/internal/postgres"
)

var categories = [][2]string{
	{"Gadgets", "gadgets"},
	{"Home", "home"},
	{"Outdoors", "outdoors"},
	{"Style", "style"},
}

var prices = []int{1999, 2999, 4999, 9999}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.L().Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.L().Fatal("ensure schema", zap.Error(err))
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO users(email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		"demo@storelab.dev"); err != nil {
		logger.L().Fatal("seed user", zap.Error(err))
	}

	catIDs := make([]int64, 0, len(categories))
	for _, c := range categories {
		var id int64
		if err := db.QueryRow(ctx,
			`INSERT INTO categories(name, slug) VALUES ($1, $2) RETURNING id`,
			c[0], c[1]).Scan(&id); err != nil {
			logger.L().Fatal("seed category", zap.Error(err))
		}
		catIDs = append(catIDs, id)
	}

	ledger := &inventory.Ledger{DB: db}
	for i := 1; i <= 500; i++ {
		cat := catIDs[rand.Intn(len(catIDs))]
		slugPrefix := categories[indexOf(catIDs, cat)][1]
		img := fmt.Sprintf("https://picsum.photos/seed/%d/400/400", i)
		var pid int64
		err := db.QueryRow(ctx, `
			INSERT INTO products(name, slug, category_id, price_cents, image_url)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			fmt.Sprintf("Product %d", i),
			fmt.Sprintf("%s-product-%d", slugPrefix, i),
			cat,
			prices[rand.Intn(len(prices))],
			img).Scan(&pid)
		if err != nil {
			logger.L().Fatal("seed product", zap.Error(err))
		}

		// opening stock plus ninety days of churn, all as ledger rows
		if err := ledger.Append(ctx, pid, rand.Intn(51)); err != nil {
			logger.L().Fatal("seed movement", zap.Error(err))
		}
		for d := 0; d < 90; d++ {
			delta := []int{-1, 0, 0, 1}[rand.Intn(4)]
			if delta == 0 {
				continue
			}
			if err := ledger.Append(ctx, pid, delta); err != nil {
				logger.L().Fatal("seed movement", zap.Error(err))
			}
		}
	}

	now := time.Now().UTC()
	coupons := []struct {
		code        string
		percentOff  int
		startsAt    time.Time
		endsAt      time.Time
		minSubtotal int
	}{
		{"SAVE10", 10, now.AddDate(0, 0, -1), now.AddDate(0, 0, 30), 0},
		{"STYLE15", 15, now.AddDate(0, 0, -1), now.AddDate(0, 0, 10), 5000},
		{"EXPIRED5", 5, now.AddDate(0, 0, -30), now.AddDate(0, 0, -1), 0},
	}
	for _, c := range coupons {
		if _, err := db.Exec(ctx, `
			INSERT INTO coupons(code, percent_off, starts_at, ends_at, min_subtotal_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			c.code, c.percentOff, c.startsAt, c.endsAt, c.minSubtotal); err != nil {
			logger.L().Fatal("seed coupon", zap.Error(err))
		}
	}

	logger.L().Info("seed complete")
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
