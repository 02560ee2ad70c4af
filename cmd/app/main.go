package main

import (
	"context"
	"log"
	"os"

	"erp-core/internal/adapters/cli"
	"erp-core/internal/app"
	"erp-core/internal/core"
	"erp-core/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	sites := core.NewSiteDirectory(pool)
	numbering := core.NewNumberingService(pool, sites)
	rates := core.NewRateResolver(core.NewCurrencyRegistry(pool), core.NewRateSeries(pool))

	pivot := os.Getenv("PIVOT_CURRENCY")
	if pivot == "" {
		pivot = "EUR"
	}

	svc := app.NewAppService(pool, numbering, rates, pivot)
	cli.Run(ctx, svc, os.Args[1:])
}
