package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/cache"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/config"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/crawler"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/mal"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"

	"github.com/google/uuid"
)

// mongoStore junta los repos detrás de la interfaz que pide el crawler.
type mongoStore struct {
	users   *repository.UserRepository
	ratings *repository.RatingRepository
	ingest  *repository.IngestRepository
}

func (s *mongoStore) ExistsUser(ctx context.Context, userID string) (bool, error) {
	return s.users.Exists(ctx, userID)
}

func (s *mongoStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *mongoStore) InsertUserBatch(ctx context.Context, userID string, entries []repository.RatingEntry) error {
	return s.ingest.InsertUserBatch(ctx, userID, entries)
}

func (s *mongoStore) TopNByUser(ctx context.Context, userID string, n int) ([]models.RatingDoc, error) {
	return s.ratings.TopNByUser(ctx, userID, n)
}

func (s *mongoStore) RecomputeNormalizedScores(ctx context.Context) (int, error) {
	return s.ratings.RecomputeNormalizedScores(ctx)
}

// CrawlService arma y ejecuta corridas del crawler. Serializa: una corrida
// a la vez, la segunda recibe error en vez de pisar a la primera.
type CrawlService struct {
	cfg   *config.Config
	store *mongoStore

	mu      sync.Mutex
	running bool
}

func NewCrawlService(
	cfg *config.Config,
	users *repository.UserRepository,
	ratings *repository.RatingRepository,
	ingest *repository.IngestRepository,
) *CrawlService {
	return &CrawlService{
		cfg:   cfg,
		store: &mongoStore{users: users, ratings: ratings, ingest: ingest},
	}
}

// paramsOrDefaults completa lo que falte del body con los defaults del env.
func (s *CrawlService) paramsOrDefaults(p models.CrawlParams) crawler.Config {
	if len(p.Seeds) == 0 {
		p.Seeds = s.cfg.SeedUsernames
	}
	if p.TargetUsers == 0 {
		p.TargetUsers = s.cfg.TargetUsers
	}
	if p.MinRatings == 0 {
		p.MinRatings = s.cfg.MinRatings
	}
	if p.DiscoveryFanOut == 0 {
		p.DiscoveryFanOut = s.cfg.DiscoveryFanOut
	}
	if p.DiscoveryPages == 0 {
		p.DiscoveryPages = s.cfg.DiscoveryPages
	}
	if p.RecentUserPages == 0 {
		p.RecentUserPages = s.cfg.RecentUserPages
	}

	return crawler.Config{
		Seeds:           p.Seeds,
		Salt:            s.cfg.AnonSalt,
		TargetUsers:     p.TargetUsers,
		MinRatings:      p.MinRatings,
		DiscoveryFanOut: p.DiscoveryFanOut,
		DiscoveryPages:  p.DiscoveryPages,
		RecentUserPages: p.RecentUserPages,
		FetchDelay:      time.Duration(s.cfg.FetchDelayMs) * time.Millisecond,
		DiscoveryDelay:  time.Duration(s.cfg.DiscoveryDelayMs) * time.Millisecond,
	}
}

// Run ejecuta una corrida completa con los params dados (o los defaults).
func (s *CrawlService) Run(ctx context.Context, params models.CrawlParams, onProgress crawler.ProgressFunc) (models.CrawlSummary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return models.CrawlSummary{}, fmt.Errorf("ya hay una corrida del crawler en curso")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runID := uuid.NewString()
	log.Printf("[crawl] corrida %s arrancando", runID)

	client := mal.NewClient(
		s.cfg.MALBaseURL,
		s.cfg.JikanBaseURL,
		s.cfg.MALClientID,
		time.Duration(s.cfg.FetchDelayMs)*time.Millisecond,
	)

	c := crawler.New(client, s.store, s.paramsOrDefaults(params), onProgress)
	summary, err := c.Run(ctx)
	summary.RunID = runID
	if err != nil {
		log.Printf("[crawl] corrida %s falló: %v", runID, err)
		return summary, err
	}

	// el dataset y todas las variantes cacheadas del grafo quedaron viejos
	_ = cache.Invalidate(ctx, datasetCacheKey)
	_ = cache.InvalidatePrefix(ctx, graphCachePrefix)

	log.Printf("[crawl] corrida %s terminada: %+v", runID, summary)
	return summary, nil
}
