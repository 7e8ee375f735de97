package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/service"
)

type GraphHandler struct {
	svc *service.GraphService
}

func NewGraphHandler(s *service.GraphService) *GraphHandler { return &GraphHandler{svc: s} }

func graphRequestFromQuery(r *http.Request) service.GraphRequest {
	maxRatings, _ := strconv.Atoi(r.URL.Query().Get("maxRatings"))
	maxPairs := service.DefaultMaxPairEdges
	if v := r.URL.Query().Get("maxPairEdges"); v != "" {
		maxPairs, _ = strconv.Atoi(v)
	}
	return service.GraphRequest{
		MaxRatingsPerUser: maxRatings,
		MaxPairEdges:      maxPairs,
		Refresh:           r.URL.Query().Get("refresh") == "true",
	}
}

// @Summary Grafo usuario-anime + proyección anime-anime
// @Tags graph
// @Produce json
// @Param maxRatings query int false "tope de ratings por usuario (0 = sin límite)"
// @Param maxPairEdges query int false "tope de pares anime-anime distintos (0 = sin límite, default 20000)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} models.Graph
// @Router /graph [get]
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	g, err := h.svc.BuildGraph(r.Context(), graphRequestFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(g)
}

// @Summary Grafo en forma compacta (tuplas por índice)
// @Tags graph
// @Produce json
// @Param maxRatings query int false "tope de ratings por usuario (0 = sin límite)"
// @Param maxPairEdges query int false "tope de pares anime-anime distintos (0 = sin límite, default 20000)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} models.CompactGraph
// @Router /graph/compact [get]
func (h *GraphHandler) GetCompactGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c, err := h.svc.BuildCompact(r.Context(), graphRequestFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(c)
}
