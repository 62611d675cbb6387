package models

import (
	"log"
	"sync"
)

// Chart is one rendered bar chart. It is owned by a ChartHolder and is
// unusable once disposed.
type Chart struct {
	ID      string
	Dataset ChartDataset
	PNG     []byte
}

// ChartHolder owns at most one live Chart. Replacing or disposing the
// chart drops the previous instance so it can no longer be served.
type ChartHolder struct {
	mu      sync.Mutex
	current *Chart
}

// Replace disposes the current chart, if any, and installs c.
func (h *ChartHolder) Replace(c *Chart) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposeLocked()
	h.current = c
}

// Dispose drops the current chart.
func (h *ChartHolder) Dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposeLocked()
}

func (h *ChartHolder) disposeLocked() {
	if h.current == nil {
		return
	}
	log.Printf("disposing chart %s", h.current.ID)
	h.current.PNG = nil
	h.current = nil
}

// Current returns the live chart or nil.
func (h *ChartHolder) Current() *Chart {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// ByID returns a copy of the live chart if its ID matches. The copy stays
// readable after the holder disposes the original.
func (h *ChartHolder) ByID(id string) (*Chart, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil || h.current.ID != id {
		return nil, ErrChartNotFound
	}
	c := *h.current
	return &c, nil
}

// Board is one mounted instance of the placeholder page: summary text,
// metric table and the single chart.
type Board struct {
	mu     sync.Mutex
	result *BoardResult
	chart  ChartHolder
	closed bool
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Apply replaces the table and summary and swaps in the new chart.
func (b *Board) Apply(result *BoardResult, chart *Chart) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.result = result
	b.chart.Replace(chart)
	return true
}

// Close tears the board down and disposes its chart.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.chart.Dispose()
}

// Chart returns the live chart with the given ID.
func (b *Board) Chart(id string) (*Chart, error) {
	return b.chart.ByID(id)
}

// BoardView is a copy of the board for rendering.
type BoardView struct {
	Result  *BoardResult
	ChartID string
}

// View snapshots the board.
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := BoardView{Result: b.result}
	if c := b.chart.Current(); c != nil {
		v.ChartID = c.ID
	}
	return v
}
