// Package router keeps track of which dashboard view is on screen.
package router

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

type View string

const (
	ViewHome       View = "home"
	ViewDetection  View = "detection"
	ViewMonitoring View = "monitoring"
	ViewAnalytics  View = "analytics"
)

// Views lists every view in menu order.
var Views = []View{ViewHome, ViewDetection, ViewMonitoring, ViewAnalytics}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewDetection, ViewMonitoring, ViewAnalytics:
		return true
	}
	return false
}

// Title is the heading shown for v.
func (v View) Title() string {
	switch v {
	case ViewHome:
		return "Smart Agriculture"
	case ViewDetection:
		return "AI Disease Detection"
	case ViewMonitoring:
		return "IoT Sensor Dashboard"
	case ViewAnalytics:
		return "Analytics Dashboard"
	default:
		return string(v)
	}
}

// Hook runs on a view transition.
type Hook func(from, to View)

// Router holds the current view. Every transition is direct: there is no
// history, so Back always lands on home.
type Router struct {
	mu      sync.Mutex
	current View
	enter   map[View][]Hook
	leave   map[View][]Hook
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{
		current: ViewHome,
		enter:   make(map[View][]Hook),
		leave:   make(map[View][]Hook),
		logger:  logger.With("module", "router"),
	}
}

// OnEnter registers h to run whenever v becomes the current view.
func (r *Router) OnEnter(v View, h Hook) {
	r.mu.Lock()
	r.enter[v] = append(r.enter[v], h)
	r.mu.Unlock()
}

// OnLeave registers h to run whenever v stops being the current view.
func (r *Router) OnLeave(v View, h Hook) {
	r.mu.Lock()
	r.leave[v] = append(r.leave[v], h)
	r.mu.Unlock()
}

// Current returns the view on screen.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Select switches to v. Selecting the current view does nothing.
func (r *Router) Select(v View) error {
	if !v.Valid() {
		return fmt.Errorf("unknown view %q", v)
	}
	r.mu.Lock()
	from := r.current
	if from == v {
		r.mu.Unlock()
		return nil
	}
	r.current = v
	leave := append([]Hook(nil), r.leave[from]...)
	enter := append([]Hook(nil), r.enter[v]...)
	r.mu.Unlock()

	r.logger.Debug("view changed", "from", string(from), "to", string(v))
	for _, h := range leave {
		h(from, v)
	}
	for _, h := range enter {
		h(from, v)
	}
	return nil
}

// Back returns to home from any view.
func (r *Router) Back() {
	// home is always valid
	_ = r.Select(ViewHome)
}
