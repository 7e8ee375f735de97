package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
)

// Compact re-codifica el grafo como tuplas por índice (transporta lo mismo
// en mucho menos JSON). Es la transformación inversa de Expand.
func Compact(g *models.Graph) (*models.CompactGraph, error) {
	c := &models.CompactGraph{GeneratedAt: g.GeneratedAt}

	userIdx := make(map[string]int)
	animeIdx := make(map[string]int)

	for _, n := range g.Nodes {
		switch n.NodeType {
		case models.NodeTypeUser:
			userIdx[n.ID] = len(c.Users)
			c.Users = append(c.Users, strings.TrimPrefix(n.ID, "user:"))
		case models.NodeTypeAnime:
			id, err := strconv.Atoi(strings.TrimPrefix(n.ID, "anime:"))
			if err != nil {
				return nil, fmt.Errorf("nodo anime con id inválido %q: %w", n.ID, err)
			}
			animeIdx[n.ID] = len(c.Anime)
			c.Anime = append(c.Anime, models.CompactAnime{AnimeID: id, Title: n.Label})
		default:
			return nil, fmt.Errorf("nodeType desconocido %q", n.NodeType)
		}
	}

	for _, e := range g.Edges {
		switch e.EdgeType {
		case models.EdgeTypeUserAnime:
			u, ok := userIdx[e.Source]
			if !ok {
				return nil, fmt.Errorf("arista %s: source %q no es un usuario conocido", e.ID, e.Source)
			}
			a, ok := animeIdx[e.Target]
			if !ok {
				return nil, fmt.Errorf("arista %s: target %q no es un anime conocido", e.ID, e.Target)
			}
			c.UserEdges = append(c.UserEdges, models.CompactUserEdge{UserIdx: u, AnimeIdx: a, Weight: e.Weight})
		case models.EdgeTypeAnimeAnime:
			a, ok := animeIdx[e.Source]
			if !ok {
				return nil, fmt.Errorf("arista %s: source %q no es un anime conocido", e.ID, e.Source)
			}
			b, ok := animeIdx[e.Target]
			if !ok {
				return nil, fmt.Errorf("arista %s: target %q no es un anime conocido", e.ID, e.Target)
			}
			c.AnimeEdges = append(c.AnimeEdges, models.CompactAnimeEdge{AIdx: a, BIdx: b, Weight: e.Weight})
		default:
			return nil, fmt.Errorf("edgeType desconocido %q", e.EdgeType)
		}
	}

	return c, nil
}

// Expand reconstruye el grafo completo desde la forma compacta. La inversión
// es a nivel de conjuntos: mismos nodos y aristas, pero reagrupados en orden
// canónico (nodos de usuario primero, después anime; aristas ua antes que aa),
// no en el orden intercalado en el que Build los emitió. Los ids de
// nodos/aristas se re-derivan del esquema conocido.
func Expand(c *models.CompactGraph) *models.Graph {
	g := &models.Graph{GeneratedAt: c.GeneratedAt}

	for _, userID := range c.Users {
		g.Nodes = append(g.Nodes, models.GraphNode{
			ID:       "user:" + userID,
			Label:    userLabel(userID),
			NodeType: models.NodeTypeUser,
		})
	}
	for _, a := range c.Anime {
		g.Nodes = append(g.Nodes, models.GraphNode{
			ID:       fmt.Sprintf("anime:%d", a.AnimeID),
			Label:    a.Title,
			NodeType: models.NodeTypeAnime,
		})
	}

	for _, e := range c.UserEdges {
		userID := c.Users[e.UserIdx]
		animeID := c.Anime[e.AnimeIdx].AnimeID
		g.Edges = append(g.Edges, models.GraphEdge{
			ID:       fmt.Sprintf("ua:%s:%d", userID, animeID),
			Source:   "user:" + userID,
			Target:   fmt.Sprintf("anime:%d", animeID),
			EdgeType: models.EdgeTypeUserAnime,
			Weight:   e.Weight,
		})
	}
	for _, e := range c.AnimeEdges {
		a := c.Anime[e.AIdx].AnimeID
		b := c.Anime[e.BIdx].AnimeID
		g.Edges = append(g.Edges, models.GraphEdge{
			ID:       fmt.Sprintf("aa:%d:%d", a, b),
			Source:   fmt.Sprintf("anime:%d", a),
			Target:   fmt.Sprintf("anime:%d", b),
			EdgeType: models.EdgeTypeAnimeAnime,
			Weight:   e.Weight,
		})
	}

	g.NodeCount = len(g.Nodes)
	g.EdgeCount = len(g.Edges)
	g.UserCount = len(c.Users)
	g.AnimeCount = len(c.Anime)
	return g
}
