package handler

import (
	"encoding/json"
	"net/http"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/service"

	"github.com/gorilla/websocket"
)

type CrawlHandler struct {
	svc *service.CrawlService
}

func NewCrawlHandler(s *service.CrawlService) *CrawlHandler { return &CrawlHandler{svc: s} }

// @Summary Correr el crawler (bloqueante, devuelve el resumen al final)
// @Tags admin
// @Accept json
// @Produce json
// @Param body body models.CrawlParams true "parámetros (los que falten salen del env)"
// @Success 200 {object} models.CrawlSummary
// @Router /admin/crawl [post]
func (h *CrawlHandler) RunCrawl(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params models.CrawlParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	summary, err := h.svc.Run(r.Context(), params, nil)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(summary)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Correr el crawler con progreso en tiempo real (WebSocket)
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ws/crawl [get]
func (h *CrawlHandler) RunCrawlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	// Mensaje inicial
	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, arrancando crawler…",
	})

	progress := func(stage, username string, summary models.CrawlSummary) {
		conn.WriteJSON(map[string]any{
			"type":     "progress",
			"stage":    stage,
			"username": username,
			"summary":  summary,
		})
	}

	summary, err := h.svc.Run(r.Context(), models.CrawlParams{}, progress)
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	// Mensaje final con el resumen
	conn.WriteJSON(map[string]any{
		"type":    "summary",
		"summary": summary,
	})
}
