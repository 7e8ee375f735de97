package crawler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/anonymizer"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/mal"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"
)

// Source es lo que el crawler necesita de las fuentes externas
// (lo implementa mal.Client; los tests usan fakes).
type Source interface {
	FetchRatings(ctx context.Context, username string) ([]mal.UserRating, error)
	FetchRecentUsers(ctx context.Context, page int) ([]string, error)
	FetchRecentActivityUsers(ctx context.Context, animeID, page int) ([]string, error)
}

// Store es la vista del crawler sobre el almacenamiento.
type Store interface {
	ExistsUser(ctx context.Context, userID string) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
	InsertUserBatch(ctx context.Context, userID string, entries []repository.RatingEntry) error
	TopNByUser(ctx context.Context, userID string, n int) ([]models.RatingDoc, error)
	RecomputeNormalizedScores(ctx context.Context) (int, error)
}

type Config struct {
	Seeds           []string
	Salt            string
	TargetUsers     int
	MinRatings      int
	DiscoveryFanOut int
	DiscoveryPages  int
	RecentUserPages int
	FetchDelay      time.Duration
	DiscoveryDelay  time.Duration
}

// Validate corta antes de tocar red o Mongo si la numérica no cierra.
func (c Config) Validate() error {
	if c.TargetUsers <= 0 {
		return fmt.Errorf("targetUsers debe ser > 0 (recibido %d)", c.TargetUsers)
	}
	if c.MinRatings < 0 {
		return fmt.Errorf("minRatings no puede ser negativo (recibido %d)", c.MinRatings)
	}
	if c.DiscoveryFanOut < 0 || c.DiscoveryPages < 0 || c.RecentUserPages < 0 {
		return fmt.Errorf("fanOut/pages no pueden ser negativos")
	}
	if c.Salt == "" {
		return fmt.Errorf("salt vacío: el anonimizador lo necesita")
	}
	return nil
}

// ProgressFunc recibe eventos de avance (lo usa el stream WebSocket).
type ProgressFunc func(stage, username string, summary models.CrawlSummary)

// Crawler expande la población de usuarios con BFS sobre la actividad
// compartida por anime: seeds -> ratings -> top-N -> usuarios recientes de
// esos animes -> cola. Estrictamente secuencial, un candidato a la vez.
type Crawler struct {
	source     Source
	store      Store
	cfg        Config
	onProgress ProgressFunc

	frontier *Frontier
	summary  models.CrawlSummary
}

func New(source Source, store Store, cfg Config, onProgress ProgressFunc) *Crawler {
	return &Crawler{
		source:     source,
		store:      store,
		cfg:        cfg,
		onProgress: onProgress,
		frontier:   NewFrontier(),
	}
}

func (c *Crawler) emit(stage, username string) {
	if c.onProgress != nil {
		c.onProgress(stage, username, c.summary)
	}
}

// Run ejecuta la corrida completa: seeding -> drenado -> recompute final.
// Las fallas por candidato se loguean y se cuentan, nunca abortan el run;
// un error del store sí es fatal (indica una invariante rota).
func (c *Crawler) Run(ctx context.Context) (models.CrawlSummary, error) {
	if err := c.cfg.Validate(); err != nil {
		return c.summary, err
	}

	start := time.Now()

	// ---------- seeding ----------
	for _, seed := range c.cfg.Seeds {
		c.frontier.Enqueue(seed)
	}

	for page := 1; page <= c.cfg.RecentUserPages; page++ {
		users, err := c.source.FetchRecentUsers(ctx, page)
		if waitErr := sleepCtx(ctx, c.cfg.DiscoveryDelay); waitErr != nil {
			return c.summary, waitErr
		}
		if err != nil {
			// discovery es un apoyo: si una página de priming falla, seguimos
			// con lo que tengamos
			log.Printf("[crawler] priming de usuarios recientes falló en página %d: %v", page, err)
			break
		}
		if len(users) == 0 {
			break
		}
		for _, u := range users {
			if c.frontier.Enqueue(u) {
				c.summary.DiscoveredUsers++
			}
		}
	}

	log.Printf("[crawler] arrancando: %d en cola, objetivo %d usuarios", c.frontier.Len(), c.cfg.TargetUsers)

	// ---------- drenado ----------
	for c.frontier.Len() > 0 {
		count, err := c.store.CountUsers(ctx)
		if err != nil {
			return c.summary, err
		}
		c.summary.TotalUsers = count
		if count >= int64(c.cfg.TargetUsers) {
			log.Printf("[crawler] objetivo alcanzado (%d usuarios), frenando", count)
			break
		}

		username, _ := c.frontier.Pop()
		norm := anonymizer.Normalize(username)
		if norm == "" || c.frontier.IsProcessed(norm) {
			continue
		}
		// procesado se marca ANTES de cualquier llamada de red
		c.frontier.MarkProcessed(norm)
		c.summary.ProcessedUsers++
		c.emit("processing", username)

		seeds, err := c.handleCandidate(ctx, username)
		if err != nil {
			return c.summary, err
		}

		if err := c.discoverFrom(ctx, seeds); err != nil {
			return c.summary, err
		}
	}

	// ---------- cierre ----------
	if _, err := c.store.RecomputeNormalizedScores(ctx); err != nil {
		return c.summary, err
	}

	count, err := c.store.CountUsers(ctx)
	if err != nil {
		return c.summary, err
	}
	c.summary.TotalUsers = count
	c.summary.ElapsedMs = time.Since(start).Milliseconds()

	log.Printf("[crawler] listo: insertados=%d salteados=%d fallidos=%d descubiertos=%d total=%d",
		c.summary.InsertedUsers, c.summary.SkippedUsers, c.summary.FailedUsers,
		c.summary.DiscoveredUsers, c.summary.TotalUsers)
	c.emit("done", "")

	return c.summary, nil
}

// handleCandidate decide qué hacer con un username ya marcado como
// procesado y devuelve los animes que van a sembrar discovery.
// Solo los errores del store suben; los de fetch se degradan a "failed".
func (c *Crawler) handleCandidate(ctx context.Context, username string) ([]int, error) {
	userID := anonymizer.Anonymize(username, c.cfg.Salt)

	exists, err := c.store.ExistsUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if exists {
		// skip, pero el usuario conocido igual siembra discovery con su
		// top-N guardado (sin re-fetch, sin re-chequear el mínimo)
		c.summary.SkippedUsers++
		top, err := c.store.TopNByUser(ctx, userID, c.cfg.DiscoveryFanOut)
		if err != nil {
			return nil, err
		}
		seeds := make([]int, 0, len(top))
		for _, rd := range top {
			seeds = append(seeds, rd.AnimeID)
		}
		return seeds, nil
	}

	ratings, err := c.source.FetchRatings(ctx, username)
	if waitErr := sleepCtx(ctx, c.cfg.FetchDelay); waitErr != nil {
		return nil, waitErr
	}
	if err != nil {
		log.Printf("[crawler] fetch de %q falló: %v", username, err)
		c.summary.FailedUsers++
		c.emit("failed", username)
		return nil, nil
	}

	if len(ratings) < c.cfg.MinRatings {
		// poca señal: no lo persistimos ni siembra discovery
		c.summary.SkippedUsers++
		c.emit("skipped", username)
		return nil, nil
	}

	entries := make([]repository.RatingEntry, len(ratings))
	for i, r := range ratings {
		entries[i] = repository.RatingEntry{AnimeID: r.AnimeID, Title: r.Title, RawScore: r.RawScore}
	}
	if err := c.store.InsertUserBatch(ctx, userID, entries); err != nil {
		return nil, err
	}
	c.summary.InsertedUsers++
	c.emit("inserted", username)

	return topAnimeIDs(ratings, c.cfg.DiscoveryFanOut), nil
}

// topAnimeIDs: mejores n por rawScore desc, desempate por animeId asc.
func topAnimeIDs(ratings []mal.UserRating, n int) []int {
	sorted := make([]mal.UserRating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RawScore != sorted[j].RawScore {
			return sorted[i].RawScore > sorted[j].RawScore
		}
		return sorted[i].AnimeID < sorted[j].AnimeID
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]int, 0, n)
	for _, r := range sorted[:n] {
		out = append(out, r.AnimeID)
	}
	return out
}

// discoverFrom recorre los animes semilla y encola usuarios con actividad
// reciente en cada uno. Una página que falla corta ese anime y sigue con
// el próximo; una página vacía corta ese anime (agotado).
func (c *Crawler) discoverFrom(ctx context.Context, animeIDs []int) error {
	for _, animeID := range animeIDs {
		for page := 1; page <= c.cfg.DiscoveryPages; page++ {
			users, err := c.source.FetchRecentActivityUsers(ctx, animeID, page)
			if waitErr := sleepCtx(ctx, c.cfg.DiscoveryDelay); waitErr != nil {
				return waitErr
			}
			if err != nil {
				log.Printf("[crawler] discovery de anime %d falló en página %d: %v", animeID, page, err)
				break
			}
			if len(users) == 0 {
				break
			}
			for _, u := range users {
				if c.frontier.Enqueue(u) {
					c.summary.DiscoveredUsers++
				}
			}
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
