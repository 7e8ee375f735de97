package crawler

import "github.com/OptimumAF/WhatAnimeShouldIWatch/internal/anonymizer"

// Frontier es la cola de trabajo del crawler: FIFO puro de usernames
// pendientes + dos sets (encolados / procesados) sobre la forma
// normalizada para dedup O(1). Vive solo lo que dura una corrida.
type Frontier struct {
	queue     []string
	queued    map[string]bool
	processed map[string]bool
}

func NewFrontier() *Frontier {
	return &Frontier{
		queued:    make(map[string]bool),
		processed: make(map[string]bool),
	}
}

// Enqueue agrega el username al final de la cola si su forma normalizada
// no está ni encolada ni procesada. Devuelve true si realmente entró.
func (f *Frontier) Enqueue(username string) bool {
	norm := anonymizer.Normalize(username)
	if norm == "" || f.queued[norm] || f.processed[norm] {
		return false
	}
	f.queued[norm] = true
	f.queue = append(f.queue, username)
	return true
}

// Pop saca el próximo username (en la forma en que se encoló).
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	username := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.queued, anonymizer.Normalize(username))
	return username, true
}

func (f *Frontier) Len() int {
	return len(f.queue)
}

// IsProcessed consulta por forma normalizada.
func (f *Frontier) IsProcessed(norm string) bool {
	return f.processed[norm]
}

// MarkProcessed se llama apenas sale de la cola, antes de tocar la red:
// garantiza at-most-once aunque el mismo nombre haya entrado con otra
// capitalización.
func (f *Frontier) MarkProcessed(norm string) {
	f.processed[norm] = true
}
