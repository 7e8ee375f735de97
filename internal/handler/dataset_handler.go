package handler

import (
	"encoding/json"
	"net/http"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/service"
)

type DatasetHandler struct {
	svc *service.DatasetService
}

func NewDatasetHandler(s *service.DatasetService) *DatasetHandler { return &DatasetHandler{svc: s} }

// @Summary Dataset anonimizado completo (agrupado por usuario)
// @Tags dataset
// @Produce json
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} models.Dataset
// @Router /dataset [get]
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ds, err := h.svc.Snapshot(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(ds)
}

// @Summary Conteos de usuarios / anime / ratings
// @Tags dataset
// @Produce json
// @Success 200 {object} models.DatasetStats
// @Router /stats [get]
func (h *DatasetHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(stats)
}

// @Summary Recalcular scores normalizados (pasada global)
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int
// @Router /admin/recompute [post]
func (h *DatasetHandler) RecomputeNormalized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	users, err := h.svc.RecomputeNormalized(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"users": users})
}
