package crawler

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/anonymizer"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/mal"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- fakes ----------

type fakeSource struct {
	ratings       map[string][]mal.UserRating // por username normalizado
	ratingErr     map[string]error
	activity      map[int][]string // animeID -> usuarios de la página 1
	recent        [][]string       // páginas de usuarios recientes (priming)
	fetchCalls    []string
	activityCalls []int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		ratings:   make(map[string][]mal.UserRating),
		ratingErr: make(map[string]error),
		activity:  make(map[int][]string),
	}
}

func (s *fakeSource) FetchRatings(_ context.Context, username string) ([]mal.UserRating, error) {
	norm := anonymizer.Normalize(username)
	s.fetchCalls = append(s.fetchCalls, norm)
	if err, ok := s.ratingErr[norm]; ok {
		return nil, err
	}
	return s.ratings[norm], nil
}

func (s *fakeSource) FetchRecentUsers(_ context.Context, page int) ([]string, error) {
	if page > len(s.recent) {
		return nil, nil
	}
	return s.recent[page-1], nil
}

func (s *fakeSource) FetchRecentActivityUsers(_ context.Context, animeID, page int) ([]string, error) {
	s.activityCalls = append(s.activityCalls, animeID)
	if page > 1 {
		return nil, nil
	}
	return s.activity[animeID], nil
}

type fakeStore struct {
	users      map[string][]repository.RatingEntry
	recomputed int
	inserts    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string][]repository.RatingEntry)}
}

func (s *fakeStore) ExistsUser(_ context.Context, userID string) (bool, error) {
	_, ok := s.users[userID]
	return ok, nil
}

func (s *fakeStore) CountUsers(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *fakeStore) InsertUserBatch(_ context.Context, userID string, entries []repository.RatingEntry) error {
	s.users[userID] = entries
	s.inserts = append(s.inserts, userID)
	return nil
}

func (s *fakeStore) TopNByUser(_ context.Context, userID string, n int) ([]models.RatingDoc, error) {
	entries := s.users[userID]
	sorted := make([]repository.RatingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RawScore != sorted[j].RawScore {
			return sorted[i].RawScore > sorted[j].RawScore
		}
		return sorted[i].AnimeID < sorted[j].AnimeID
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]models.RatingDoc, 0, n)
	for _, e := range sorted[:n] {
		out = append(out, models.RatingDoc{UserID: userID, AnimeID: e.AnimeID, RawScore: e.RawScore})
	}
	return out, nil
}

func (s *fakeStore) RecomputeNormalizedScores(_ context.Context) (int, error) {
	s.recomputed++
	return len(s.users), nil
}

// ---------- helpers ----------

func ratingsDePrueba(n int) []mal.UserRating {
	out := make([]mal.UserRating, n)
	for i := range out {
		out[i] = mal.UserRating{AnimeID: i + 1, Title: fmt.Sprintf("Anime %d", i+1), RawScore: float64(10 - i%10)}
	}
	return out
}

func configDePrueba() Config {
	return Config{
		Salt:            "test-salt",
		TargetUsers:     10,
		MinRatings:      3,
		DiscoveryFanOut: 2,
		DiscoveryPages:  1,
	}
}

// ---------- tests ----------

func TestRunConfigInvalida(t *testing.T) {
	cfg := configDePrueba()
	cfg.TargetUsers = 0

	c := New(newFakeSource(), newFakeStore(), cfg, nil)
	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targetUsers")
}

func TestRunObjetivoYaAlcanzado(t *testing.T) {
	// target=1 y el store ya tiene 1 usuario: el loop frena sin procesar
	// ni fetchear nada, pero el recompute final corre igual
	source := newFakeSource()
	store := newFakeStore()
	store.users[anonymizer.Anonymize("otro", "test-salt")] = ratingsEntries(5)

	cfg := configDePrueba()
	cfg.TargetUsers = 1
	cfg.Seeds = []string{"Gigguk"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.InsertedUsers)
	assert.Equal(t, 0, summary.ProcessedUsers)
	assert.Empty(t, source.fetchCalls)
	assert.EqualValues(t, 1, summary.TotalUsers)
	assert.Equal(t, 1, store.recomputed)
}

func ratingsEntries(n int) []repository.RatingEntry {
	out := make([]repository.RatingEntry, n)
	for i := range out {
		out[i] = repository.RatingEntry{AnimeID: i + 1, Title: fmt.Sprintf("Anime %d", i+1), RawScore: float64(10 - i)}
	}
	return out
}

func TestRunInsertaYDescubre(t *testing.T) {
	source := newFakeSource()
	source.ratings["alice"] = ratingsDePrueba(5)
	source.ratings["bob"] = ratingsDePrueba(4)
	// los dos animes top de alice (ids 1 y 2) descubren a bob
	source.activity[1] = []string{"bob"}
	source.activity[2] = []string{"Alice"} // ya procesada, no re-entra

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.Seeds = []string{"Alice"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.InsertedUsers)
	assert.Equal(t, 2, summary.ProcessedUsers)
	assert.Equal(t, 1, summary.DiscoveredUsers) // solo bob; Alice dedupeada
	assert.Equal(t, 0, summary.FailedUsers)
	assert.EqualValues(t, 2, summary.TotalUsers)

	// alice y bob quedaron persistidos bajo sus ids anónimos
	assert.Contains(t, store.users, anonymizer.Anonymize("alice", "test-salt"))
	assert.Contains(t, store.users, anonymizer.Anonymize("bob", "test-salt"))
	assert.Equal(t, 1, store.recomputed)
}

func TestRunUmbralMinimoDeRatings(t *testing.T) {
	// 2 ratings < mínimo 3: skip, sin persistir y sin discovery
	source := newFakeSource()
	source.ratings["pocoactivo"] = ratingsDePrueba(2)

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.Seeds = []string{"pocoactivo"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.InsertedUsers)
	assert.Equal(t, 1, summary.SkippedUsers)
	assert.Empty(t, store.users)
	assert.Empty(t, source.activityCalls)
}

func TestRunUsuarioExistenteSiembraSinRefetch(t *testing.T) {
	// usuario ya en el store: cuenta como skip pero su top-N guardado
	// igual siembra discovery, sin volver a fetchear
	source := newFakeSource()
	source.activity[1] = []string{"nuevo"}
	source.ratings["nuevo"] = ratingsDePrueba(5)

	store := newFakeStore()
	store.users[anonymizer.Anonymize("conocido", "test-salt")] = ratingsEntries(4)

	cfg := configDePrueba()
	cfg.Seeds = []string{"Conocido"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedUsers)
	assert.Equal(t, 1, summary.InsertedUsers) // "nuevo", vía discovery
	assert.NotContains(t, source.fetchCalls, "conocido")
	assert.Contains(t, source.fetchCalls, "nuevo")
}

func TestRunFallaDeUnCandidatoNoAbortaElRun(t *testing.T) {
	source := newFakeSource()
	source.ratingErr["roto"] = fmt.Errorf("status 403 (no reintentable)")
	source.ratings["sano"] = ratingsDePrueba(5)

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.Seeds = []string{"roto", "sano"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FailedUsers)
	assert.Equal(t, 1, summary.InsertedUsers)
	assert.Equal(t, 2, summary.ProcessedUsers)
}

func TestRunDedupDeSeedsConCasing(t *testing.T) {
	// el mismo username con distinto casing/espacios se procesa una sola vez
	source := newFakeSource()
	source.ratings["gigguk"] = ratingsDePrueba(5)

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.Seeds = []string{"Gigguk", " gigguk ", "GIGGUK"}

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedUsers)
	assert.Len(t, source.fetchCalls, 1)
}

func TestRunPrimingDeUsuariosRecientes(t *testing.T) {
	source := newFakeSource()
	source.recent = [][]string{{"alice", "bob"}}
	source.ratings["alice"] = ratingsDePrueba(5)
	source.ratings["bob"] = ratingsDePrueba(5)

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.RecentUserPages = 2 // la página 2 viene vacía y corta el priming

	summary, err := New(source, store, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.InsertedUsers)
	assert.Equal(t, 2, summary.DiscoveredUsers)
}

func TestRunEmiteProgreso(t *testing.T) {
	source := newFakeSource()
	source.ratings["alice"] = ratingsDePrueba(5)

	store := newFakeStore()
	cfg := configDePrueba()
	cfg.Seeds = []string{"alice"}

	var stages []string
	progress := func(stage, _ string, _ models.CrawlSummary) {
		stages = append(stages, stage)
	}

	_, err := New(source, store, cfg, progress).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"processing", "inserted", "done"}, stages)
}

func TestTopAnimeIDs(t *testing.T) {
	ratings := []mal.UserRating{
		{AnimeID: 30, RawScore: 7},
		{AnimeID: 10, RawScore: 9},
		{AnimeID: 5, RawScore: 9}, // empata con 10: gana el id menor
		{AnimeID: 20, RawScore: 8},
	}

	assert.Equal(t, []int{5, 10, 20}, topAnimeIDs(ratings, 3))
	assert.Equal(t, []int{5, 10, 20, 30}, topAnimeIDs(ratings, 10))
	assert.Empty(t, topAnimeIDs(nil, 3))
}
