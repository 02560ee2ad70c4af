package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "erp-core/internal/adapters/web"
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
	registry := core.NewCurrencyRegistry(pool)
	series := core.NewRateSeries(pool)
	rates := core.NewRateResolver(registry, series)

	pivot := os.Getenv("PIVOT_CURRENCY")
	if pivot == "" {
		pivot = "EUR"
	}

	svc := app.NewAppService(pool, numbering, rates, pivot)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s (pivot currency %s)", port, pivot)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
