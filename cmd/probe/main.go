package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"mudrex_agent/internal/apierr"
	appconfig "mudrex_agent/internal/modules/config"
	"mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/pkg/logger"
	"mudrex_agent/pkg/ratelimit"
)

// probe — ручная проверка живого API: каталог, баланс, позиции.
//
//	probe -op catalog
//	probe -op balance
//	probe -op positions
//	probe -op price -symbol BTCUSDT
func main() {
	op := flag.String("op", "catalog", "catalog | balance | positions | price")
	symbol := flag.String("symbol", "BTCUSDT", "symbol for -op price")
	flag.Parse()

	logger.SetServiceName("mudrex_probe")
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	cfg, err := appconfig.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	budget := ratelimit.New(ratelimit.Limits{
		PerSecond: cfg.RateLimit.PerSecond,
		PerMinute: cfg.RateLimit.PerMinute,
		PerHour:   cfg.RateLimit.PerHour,
		PerDay:    cfg.RateLimit.PerDay,
	})
	client := service.NewClient(service.Config{
		BaseURL:          cfg.Mudrex.BaseURL,
		APISecret:        cfg.Mudrex.APISecret,
		Timeout:          cfg.Mudrex.Timeout,
		RetryMaxAttempts: cfg.Retry.MaxAttempts,
		RetryBackoff:     cfg.Retry.Backoff,
	}, budget)
	catalog := service.NewCatalog(client, cfg.Mudrex.PageLimit, cfg.Mudrex.MaxPages, cfg.Mudrex.CatalogTTL)
	client.SetCatalog(catalog)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var result any
	switch *op {
	case "catalog":
		instruments, err := catalog.ListAll(ctx, true)
		if err != nil {
			fail(err)
		}
		result = map[string]any{"count": len(instruments), "instruments": instruments}
	case "balance":
		balance, err := client.FuturesBalance(ctx)
		if err != nil {
			fail(err)
		}
		result = balance
	case "positions":
		positions, err := client.ListOpenPositions(ctx)
		if err != nil {
			fail(err)
		}
		result = positions
	case "price":
		price, err := client.Price(ctx, *symbol)
		if err != nil {
			fail(err)
		}
		result = map[string]any{"symbol": *symbol, "price": price}
	default:
		log.Fatalf("unknown op %q", *op)
	}

	out, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func fail(err error) {
	ce := apierr.Classify(err)
	fmt.Fprintf(os.Stderr, "error [%s]: %s\n", ce.Kind, ce.Message)
	if ce.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", ce.Suggestion)
	}
	os.Exit(1)
}
