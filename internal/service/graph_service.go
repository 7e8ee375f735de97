package service

import (
	"context"
	"fmt"
	"log"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/cache"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/graph"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
)

const (
	// topes por defecto para que el SVG del desktop no muera
	DefaultMaxRatingsPerUser = 0
	DefaultMaxPairEdges      = 20000
)

type GraphService struct {
	dataset *DatasetService
}

func NewGraphService(dataset *DatasetService) *GraphService {
	return &GraphService{dataset: dataset}
}

type GraphRequest struct {
	MaxRatingsPerUser int
	MaxPairEdges      int
	Refresh           bool
}

// graphCachePrefix agrupa todas las variantes cacheadas del grafo, para
// poder invalidarlas juntas cuando cambia el dataset.
const graphCachePrefix = "graph:"

func graphCacheKey(req GraphRequest) string {
	// cachea por combinación de topes (refresh solo decide si usar cache)
	return fmt.Sprintf("%smaxr:%d:maxp:%d", graphCachePrefix, req.MaxRatingsPerUser, req.MaxPairEdges)
}

// BuildGraph reconstruye el grafo completo desde el snapshot actual.
// Siempre es un rebuild total: el artefacto no tiene camino incremental.
func (s *GraphService) BuildGraph(ctx context.Context, req GraphRequest) (*models.Graph, error) {
	if req.MaxRatingsPerUser < 0 {
		return nil, fmt.Errorf("maxRatingsPerUser no puede ser negativo")
	}
	if req.MaxPairEdges < 0 {
		return nil, fmt.Errorf("maxPairEdges no puede ser negativo")
	}

	if !req.Refresh {
		var cached models.Graph
		if ok, err := cache.GetJSON(ctx, graphCacheKey(req), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	ds, err := s.dataset.Snapshot(ctx, req.Refresh)
	if err != nil {
		return nil, err
	}

	g, stats := graph.Build(ds, req.MaxRatingsPerUser, req.MaxPairEdges)
	if stats.SkippedPairs > 0 {
		log.Printf("[graph] %d pares nuevos descartados por el tope (%d)", stats.SkippedPairs, stats.MaxPairEdges)
	}

	// 1 hora, igual que las recomendaciones viejas
	if err := cache.SetJSON(ctx, graphCacheKey(req), g, 60*60); err != nil {
		log.Printf("[graph] error cacheando el grafo en Redis: %v", err)
	}

	return g, nil
}

// BuildCompact devuelve la forma compacta (tuplas por índice).
func (s *GraphService) BuildCompact(ctx context.Context, req GraphRequest) (*models.CompactGraph, error) {
	g, err := s.BuildGraph(ctx, req)
	if err != nil {
		return nil, err
	}
	return graph.Compact(g)
}
