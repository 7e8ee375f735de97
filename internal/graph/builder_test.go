package graph

import (
	"testing"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeByID(t *testing.T, g *models.Graph, id string) models.GraphEdge {
	t.Helper()
	for _, e := range g.Edges {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("arista %q no encontrada", id)
	return models.GraphEdge{}
}

// Escenario de referencia: U con A(raw 8), B(raw 6), C(raw 4) ya
// normalizados a +2, 0, -2.
func datosEscenario() *models.Dataset {
	return &models.Dataset{Users: []models.UserRatings{
		{
			UserID: "useruno0useruno0useruno0",
			Ratings: []models.DatasetRating{
				{AnimeID: 1, Title: "Anime A", RawScore: 8, NormalizedScore: 2},
				{AnimeID: 2, Title: "Anime B", RawScore: 6, NormalizedScore: 0},
				{AnimeID: 3, Title: "Anime C", RawScore: 4, NormalizedScore: -2},
			},
		},
	}}
}

func TestBuildEscenarioReferencia(t *testing.T) {
	g, stats := Build(datosEscenario(), 0, 0)

	assert.Equal(t, 1, g.UserCount)
	assert.Equal(t, 3, g.AnimeCount)
	assert.Equal(t, 4, g.NodeCount)
	assert.Equal(t, 6, g.EdgeCount)
	assert.Equal(t, 0, stats.SkippedPairs)

	// aristas usuario->anime con el score normalizado
	assert.Equal(t, 2.0, edgeByID(t, g, "ua:useruno0useruno0useruno0:1").Weight)
	assert.Equal(t, 0.0, edgeByID(t, g, "ua:useruno0useruno0useruno0:2").Weight)
	assert.Equal(t, -2.0, edgeByID(t, g, "ua:useruno0useruno0useruno0:3").Weight)

	// proyección anime-anime: (nA+nB)/2
	assert.Equal(t, 1.0, edgeByID(t, g, "aa:1:2").Weight)
	assert.Equal(t, 0.0, edgeByID(t, g, "aa:1:3").Weight)
	assert.Equal(t, -1.0, edgeByID(t, g, "aa:2:3").Weight)
}

func TestBuildTiposYEsquemaDeIDs(t *testing.T) {
	g, _ := Build(datosEscenario(), 0, 0)

	assert.Equal(t, "user:useruno0useruno0useruno0", g.Nodes[0].ID)
	assert.Equal(t, models.NodeTypeUser, g.Nodes[0].NodeType)
	assert.Equal(t, "User useruno0", g.Nodes[0].Label)

	assert.Equal(t, "anime:1", g.Nodes[1].ID)
	assert.Equal(t, "Anime A", g.Nodes[1].Label)
	assert.Equal(t, models.NodeTypeAnime, g.Nodes[1].NodeType)

	ua := edgeByID(t, g, "ua:useruno0useruno0useruno0:1")
	assert.Equal(t, models.EdgeTypeUserAnime, ua.EdgeType)
	assert.Equal(t, "user:useruno0useruno0useruno0", ua.Source)
	assert.Equal(t, "anime:1", ua.Target)

	aa := edgeByID(t, g, "aa:1:2")
	assert.Equal(t, models.EdgeTypeAnimeAnime, aa.EdgeType)
	assert.Equal(t, "anime:1", aa.Source)
	assert.Equal(t, "anime:2", aa.Target)
}

func TestBuildDeterminista(t *testing.T) {
	ds := &models.Dataset{Users: []models.UserRatings{
		{UserID: "aaa", Ratings: []models.DatasetRating{
			{AnimeID: 5, Title: "E", NormalizedScore: 1.5},
			{AnimeID: 2, Title: "B", NormalizedScore: -0.5},
			{AnimeID: 9, Title: "I", NormalizedScore: 0.25},
		}},
		{UserID: "bbb", Ratings: []models.DatasetRating{
			{AnimeID: 9, Title: "I", NormalizedScore: 0.75},
			{AnimeID: 5, Title: "E", NormalizedScore: -0.75},
		}},
	}}

	g1, s1 := Build(ds, 0, 0)
	g2, s2 := Build(ds, 0, 0)

	// mismo input => mismas listas de nodos/aristas, byte a byte
	assert.Equal(t, g1.Nodes, g2.Nodes)
	assert.Equal(t, g1.Edges, g2.Edges)
	assert.Equal(t, s1, s2)
}

func TestBuildParCanonico(t *testing.T) {
	// mismo par presentado en orden inverso => misma arista
	directo := &models.Dataset{Users: []models.UserRatings{
		{UserID: "u", Ratings: []models.DatasetRating{
			{AnimeID: 10, Title: "X", NormalizedScore: 1},
			{AnimeID: 20, Title: "Y", NormalizedScore: 3},
		}},
	}}
	invertido := &models.Dataset{Users: []models.UserRatings{
		{UserID: "u", Ratings: []models.DatasetRating{
			{AnimeID: 20, Title: "Y", NormalizedScore: 3},
			{AnimeID: 10, Title: "X", NormalizedScore: 1},
		}},
	}}

	g1, _ := Build(directo, 0, 0)
	g2, _ := Build(invertido, 0, 0)

	e1 := edgeByID(t, g1, "aa:10:20")
	e2 := edgeByID(t, g2, "aa:10:20")
	assert.Equal(t, e1, e2)
	assert.Equal(t, 2.0, e1.Weight)
}

func TestBuildReglaDeMezcla(t *testing.T) {
	// s1=2, s2=1, s3=4 sobre el mismo par (cada usuario aporta una vez):
	// primer aporte 2, segundo (2+1)/2=1.5, tercero (1.5+4)/2=2.75.
	// NO es el promedio real (7/3): la regla de mezcla a mitades se
	// conserva tal cual por compatibilidad.
	mkUser := func(id string, n1, n2 float64) models.UserRatings {
		return models.UserRatings{UserID: id, Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "A", NormalizedScore: n1},
			{AnimeID: 2, Title: "B", NormalizedScore: n2},
		}}
	}

	dos := &models.Dataset{Users: []models.UserRatings{
		mkUser("u1", 2, 2), // pairScore = 2
		mkUser("u2", 1, 1), // pairScore = 1
	}}
	g, _ := Build(dos, 0, 0)
	assert.Equal(t, 1.5, edgeByID(t, g, "aa:1:2").Weight)

	tres := &models.Dataset{Users: []models.UserRatings{
		mkUser("u1", 2, 2),
		mkUser("u2", 1, 1),
		mkUser("u3", 4, 4), // pairScore = 4
	}}
	g, _ = Build(tres, 0, 0)
	assert.Equal(t, 2.75, edgeByID(t, g, "aa:1:2").Weight)
	assert.NotEqual(t, (2.0+1.0+4.0)/3.0, edgeByID(t, g, "aa:1:2").Weight)
}

func TestBuildTopeDePares(t *testing.T) {
	// un usuario con 3 animes genera 3 pares; con tope 2, el tercero se
	// saltea y el contador lo registra
	ds := datosEscenario()
	g, stats := Build(ds, 0, 2)

	var aa []models.GraphEdge
	for _, e := range g.Edges {
		if e.EdgeType == models.EdgeTypeAnimeAnime {
			aa = append(aa, e)
		}
	}
	assert.Len(t, aa, 2)
	assert.Equal(t, 1, stats.SkippedPairs)
	assert.Equal(t, 2, stats.MaxPairEdges)
}

func TestBuildTopeSigueMezclandoParesExistentes(t *testing.T) {
	// tope 1: solo entra el primer par, pero ese par se sigue mezclando
	// cuando otro usuario lo vuelve a aportar
	ds := &models.Dataset{Users: []models.UserRatings{
		{UserID: "u1", Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "A", NormalizedScore: 2},
			{AnimeID: 2, Title: "B", NormalizedScore: 2},
			{AnimeID: 3, Title: "C", NormalizedScore: 2},
		}},
		{UserID: "u2", Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "A", NormalizedScore: 4},
			{AnimeID: 2, Title: "B", NormalizedScore: 4},
		}},
	}}

	g, stats := Build(ds, 0, 1)

	// u1 aporta (1,2)=2 y saltea (1,3) y (2,3); u2 mezcla (1,2): (2+4)/2=3
	assert.Equal(t, 3.0, edgeByID(t, g, "aa:1:2").Weight)
	assert.Equal(t, 2, stats.SkippedPairs)
}

func TestBuildTruncaRatingsPorUsuario(t *testing.T) {
	ds := datosEscenario()
	g, _ := Build(ds, 2, 0)

	// solo quedan A y B: 2 aristas ua + 1 par
	assert.Equal(t, 3, g.EdgeCount)
	assert.Equal(t, 2, g.AnimeCount)
	assert.Equal(t, 1.0, edgeByID(t, g, "aa:1:2").Weight)
}

func TestBuildUsuarioConPocosRatingsNoAportaPares(t *testing.T) {
	ds := &models.Dataset{Users: []models.UserRatings{
		{UserID: "solo", Ratings: []models.DatasetRating{
			{AnimeID: 7, Title: "G", NormalizedScore: 0},
		}},
		{UserID: "vacio"},
	}}

	g, _ := Build(ds, 0, 0)

	// ambos usuarios existen como nodos aunque no aporten pares; el score
	// normalizado 0 no filtra la arista ua
	assert.Equal(t, 2, g.UserCount)
	assert.Equal(t, 1, g.AnimeCount)
	require.Equal(t, 1, g.EdgeCount)
	assert.Equal(t, models.EdgeTypeUserAnime, g.Edges[0].EdgeType)
	assert.Equal(t, 0.0, g.Edges[0].Weight)
}

func TestBuildRedondeaA4Decimales(t *testing.T) {
	ds := &models.Dataset{Users: []models.UserRatings{
		{UserID: "u", Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "A", NormalizedScore: 1.0 / 3.0},
			{AnimeID: 2, Title: "B", NormalizedScore: 1.0 / 3.0},
		}},
	}}

	g, _ := Build(ds, 0, 0)
	assert.Equal(t, 0.3333, edgeByID(t, g, "ua:u:1").Weight)
	assert.Equal(t, 0.3333, edgeByID(t, g, "aa:1:2").Weight)
}

func TestBuildConservaPrimerTitulo(t *testing.T) {
	// el builder no re-titula: el nodo se queda con el primer título visto
	ds := &models.Dataset{Users: []models.UserRatings{
		{UserID: "u1", Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "Titulo viejo", NormalizedScore: 0},
		}},
		{UserID: "u2", Ratings: []models.DatasetRating{
			{AnimeID: 1, Title: "Titulo nuevo", NormalizedScore: 0},
		}},
	}}

	g, _ := Build(ds, 0, 0)
	for _, n := range g.Nodes {
		if n.ID == "anime:1" {
			assert.Equal(t, "Titulo viejo", n.Label)
			return
		}
	}
	t.Fatal("no se encontró el nodo anime:1")
}
