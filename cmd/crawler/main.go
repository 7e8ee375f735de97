package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/cache"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/config"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/db"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/service"
)

func main() {
	cfg := config.Load()

	// flags que pisan los defaults del env
	seeds := flag.String("seeds", "", "usernames semilla separados por coma (default: CRAWL_SEEDS)")
	target := flag.Int("target", 0, "objetivo total de usuarios (default: CRAWL_TARGET_USERS)")
	minRatings := flag.Int("min-ratings", 0, "mínimo de ratings para conservar un usuario")
	fanOut := flag.Int("fanout", 0, "cuántos animes top siembran discovery por usuario")
	pages := flag.Int("pages", 0, "páginas de discovery por anime")
	recentPages := flag.Int("recent-pages", 0, "páginas de usuarios recientes para cebar la cola")
	flag.Parse()

	params := models.CrawlParams{
		TargetUsers:     *target,
		MinRatings:      *minRatings,
		DiscoveryFanOut: *fanOut,
		DiscoveryPages:  *pages,
		RecentUserPages: *recentPages,
	}
	if *seeds != "" {
		for _, s := range strings.Split(*seeds, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				params.Seeds = append(params.Seeds, s)
			}
		}
	}

	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	userRepo := repository.NewUserRepository()
	ratingRepo := repository.NewRatingRepository()
	ingestRepo := repository.NewIngestRepository()

	crawlSvc := service.NewCrawlService(cfg, userRepo, ratingRepo, ingestRepo)

	summary, err := crawlSvc.Run(context.Background(), params, nil)
	if err != nil {
		log.Fatalf("[crawler] corrida abortada: %v", err)
	}

	log.Printf("[crawler] resumen: insertados=%d salteados=%d fallidos=%d descubiertos=%d procesados=%d total=%d (%d ms)",
		summary.InsertedUsers, summary.SkippedUsers, summary.FailedUsers,
		summary.DiscoveredUsers, summary.ProcessedUsers, summary.TotalUsers, summary.ElapsedMs)
}
