// Package interaction turns a burst of user input events into a single
// "first gesture" notification.
package interaction

import (
	"sync"

	"linkamp/pkg/spec"
)

// Kind names an input event type.
type Kind string

const (
	Click       Kind = "click"
	KeyDown     Kind = "keydown"
	TouchStart  Kind = "touchstart"
	PointerDown Kind = "mousedown"
	PointerMove Kind = "mousemove"
)

// All returns every kind that counts as a user gesture.
func All() []Kind {
	out := make([]Kind, len(spec.InteractionEvents))
	for i, e := range spec.InteractionEvents {
		out[i] = Kind(e)
	}
	return out
}

// Gate listens for several event kinds and fires its handler for the first
// one only. Every registration is dropped before the handler runs, so a
// handler that triggers more input cannot re-enter.
type Gate struct {
	mu         sync.Mutex
	registered map[Kind]bool
	handler    func(Kind)
}

// NewGate registers handler for each kind.
func NewGate(handler func(Kind), kinds ...Kind) *Gate {
	g := &Gate{
		registered: make(map[Kind]bool, len(kinds)),
		handler:    handler,
	}
	for _, k := range kinds {
		g.registered[k] = true
	}
	return g
}

// Registered reports whether k is still being listened for.
func (g *Gate) Registered(k Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registered[k]
}

// Armed reports whether any registration remains.
func (g *Gate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.registered) > 0
}

// Dispatch delivers an event. It returns true when this event fired the
// handler.
func (g *Gate) Dispatch(k Kind) bool {
	g.mu.Lock()
	if !g.registered[k] {
		g.mu.Unlock()
		return false
	}
	clear(g.registered)
	h := g.handler
	g.mu.Unlock()

	if h != nil {
		h(k)
	}
	return true
}

// Cancel drops every registration without firing.
func (g *Gate) Cancel() {
	g.mu.Lock()
	clear(g.registered)
	g.mu.Unlock()
}
