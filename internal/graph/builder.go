package graph

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
)

// BuildStats es diagnóstico fuera de banda: cuántos pares nuevos se
// descartaron por el tope y cuál era el tope.
type BuildStats struct {
	SkippedPairs int `json:"skippedPairs"`
	MaxPairEdges int `json:"maxPairEdges"`
}

// clave canónica de un par anime-anime: siempre (menor, mayor) para que
// (a,b) y (b,a) caigan en el mismo slot.
type pairKey struct {
	A int
	B int
}

func canonicalPair(a, b int) pairKey {
	if a < b {
		return pairKey{A: a, B: b}
	}
	return pairKey{A: b, B: a}
}

// round4 redondea a 4 decimales. Solo se aplica al emitir la arista;
// la agregación interna conserva la precisión completa.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func userLabel(userID string) string {
	if len(userID) > 8 {
		return "User " + userID[:8]
	}
	return "User " + userID
}

// Build convierte el snapshot (agrupado por usuario, orden estable) en el
// grafo usuario-anime + proyección anime-anime.
//
// maxRatingsPerUser trunca los ratings de cada usuario en orden de snapshot
// (0 = sin límite). maxPairEdges limita la cantidad de pares DISTINTOS: una
// vez lleno, los pares nuevos se saltean pero los existentes se siguen
// mezclando (0 = sin límite).
//
// Regla de agregación de pares: el primer aporte fija el peso; cada aporte
// siguiente lo reemplaza por (peso + aporte)/2. No es un promedio real —
// pesa más lo reciente — pero se conserva exactamente así por
// compatibilidad con el artefacto que ya consume la visualización.
func Build(dataset *models.Dataset, maxRatingsPerUser, maxPairEdges int) (*models.Graph, BuildStats) {
	var nodes []models.GraphNode
	nodeIndex := make(map[string]int)

	upsertNode := func(id, label, nodeType string) int {
		if idx, ok := nodeIndex[id]; ok {
			// el nodo existente conserva su primer label
			return idx
		}
		idx := len(nodes)
		nodes = append(nodes, models.GraphNode{ID: id, Label: label, NodeType: nodeType})
		nodeIndex[id] = idx
		return idx
	}

	var userEdges []models.GraphEdge
	pairWeights := make(map[pairKey]float64)
	stats := BuildStats{MaxPairEdges: maxPairEdges}

	for _, user := range dataset.Users {
		userNodeID := "user:" + user.UserID
		upsertNode(userNodeID, userLabel(user.UserID), models.NodeTypeUser)

		ratings := user.Ratings
		if maxRatingsPerUser > 0 && len(ratings) > maxRatingsPerUser {
			ratings = ratings[:maxRatingsPerUser]
		}

		for _, rating := range ratings {
			animeNodeID := fmt.Sprintf("anime:%d", rating.AnimeID)
			upsertNode(animeNodeID, rating.Title, models.NodeTypeAnime)

			userEdges = append(userEdges, models.GraphEdge{
				ID:       fmt.Sprintf("ua:%s:%d", user.UserID, rating.AnimeID),
				Source:   userNodeID,
				Target:   animeNodeID,
				EdgeType: models.EdgeTypeUserAnime,
				Weight:   round4(rating.NormalizedScore),
			})
		}

		// proyección: todo par no ordenado de animes del mismo usuario
		for i := 0; i < len(ratings); i++ {
			for j := i + 1; j < len(ratings); j++ {
				key := canonicalPair(ratings[i].AnimeID, ratings[j].AnimeID)
				pairScore := (ratings[i].NormalizedScore + ratings[j].NormalizedScore) / 2.0

				if existing, ok := pairWeights[key]; ok {
					pairWeights[key] = (existing + pairScore) / 2.0
					continue
				}

				if maxPairEdges > 0 && len(pairWeights) >= maxPairEdges {
					stats.SkippedPairs++
					continue
				}
				pairWeights[key] = pairScore
			}
		}
	}

	// emitir pares en orden canónico para que el output sea determinista
	keys := make([]pairKey, 0, len(pairWeights))
	for k := range pairWeights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})

	edges := userEdges
	for _, k := range keys {
		edges = append(edges, models.GraphEdge{
			ID:       fmt.Sprintf("aa:%d:%d", k.A, k.B),
			Source:   fmt.Sprintf("anime:%d", k.A),
			Target:   fmt.Sprintf("anime:%d", k.B),
			EdgeType: models.EdgeTypeAnimeAnime,
			Weight:   round4(pairWeights[k]),
		})
	}

	userCount := 0
	for _, n := range nodes {
		if n.NodeType == models.NodeTypeUser {
			userCount++
		}
	}

	return &models.Graph{
		GeneratedAt: time.Now().Format(time.RFC3339),
		NodeCount:   len(nodes),
		EdgeCount:   len(edges),
		UserCount:   userCount,
		AnimeCount:  len(nodes) - userCount,
		Nodes:       nodes,
		Edges:       edges,
	}, stats
}
