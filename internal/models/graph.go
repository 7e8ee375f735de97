package models

// Artefacto de grafo que consumen la visualización y el exportador.
// Esquema de ids: "user:<userId>" / "anime:<animeId>" para nodos,
// "ua:<userId>:<animeId>" y "aa:<min>:<max>" para aristas.

const (
	NodeTypeUser  = "user"
	NodeTypeAnime = "anime"

	EdgeTypeUserAnime  = "user-anime"
	EdgeTypeAnimeAnime = "anime-anime"
)

type GraphNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	NodeType string `json:"nodeType"`
}

type GraphEdge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	EdgeType string  `json:"edgeType"`
	Weight   float64 `json:"weight"`
}

type Graph struct {
	GeneratedAt string      `json:"generatedAt"`
	NodeCount   int         `json:"nodeCount"`
	EdgeCount   int         `json:"edgeCount"`
	UserCount   int         `json:"userCount"`
	AnimeCount  int         `json:"animeCount"`
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
}

// CompactGraph re-codifica el mismo grafo como tuplas por índice para
// achicar el payload. Es biyectivo: Expand(Compact(g)) == g.
type CompactGraph struct {
	GeneratedAt string             `json:"generatedAt"`
	Users       []string           `json:"users"`
	Anime       []CompactAnime     `json:"anime"`
	UserEdges   []CompactUserEdge  `json:"userEdges"`
	AnimeEdges  []CompactAnimeEdge `json:"animeEdges"`
}

type CompactAnime struct {
	AnimeID int    `json:"animeId"`
	Title   string `json:"title"`
}

// [uIdx, aIdx, weight] — índices sobre Users / Anime.
type CompactUserEdge struct {
	UserIdx  int     `json:"u"`
	AnimeIdx int     `json:"a"`
	Weight   float64 `json:"w"`
}

type CompactAnimeEdge struct {
	AIdx   int     `json:"a"`
	BIdx   int     `json:"b"`
	Weight float64 `json:"w"`
}
