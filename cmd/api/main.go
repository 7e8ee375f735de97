package main

import (
	"log"
	"net/http"

	_ "github.com/OptimumAF/WhatAnimeShouldIWatch/docs" // swagger docs

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/cache"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/config"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/db"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/handler"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title What Anime Should I Watch API
// @version 1.0
// @description API del grafo de ratings anonimizados (crawler MAL, Mongo, Redis)
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	animeRepo := repository.NewAnimeRepository()
	ratingRepo := repository.NewRatingRepository()
	ingestRepo := repository.NewIngestRepository()

	// services
	datasetSvc := service.NewDatasetService(userRepo, animeRepo, ratingRepo)
	graphSvc := service.NewGraphService(datasetSvc)
	crawlSvc := service.NewCrawlService(cfg, userRepo, ratingRepo, ingestRepo)

	// handlers
	graphH := handler.NewGraphHandler(graphSvc)
	datasetH := handler.NewDatasetHandler(datasetSvc)
	crawlH := handler.NewCrawlHandler(crawlSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Get("/graph", graphH.GetGraph)
	r.Get("/graph/compact", graphH.GetCompactGraph)
	r.Get("/dataset", datasetH.GetDataset)
	r.Get("/stats", datasetH.GetStats)

	// ===========================
	// Rutas admin (operación)
	// ===========================
	r.Route("/admin", func(r chi.Router) {
		r.Post("/crawl", crawlH.RunCrawl)
		r.Post("/recompute", datasetH.RecomputeNormalized)
	})

	// WebSocket con progreso del crawler
	r.Get("/ws/crawl", crawlH.RunCrawlWS)

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
