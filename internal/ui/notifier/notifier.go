// Package notifier provides a broadcast mechanism for SSE updates.
package notifier

import (
	"sync"

	"github.com/google/uuid"
)

// Notifier broadcasts re-render signals to all subscribed SSE streams.
// Listeners receive an empty struct when the timeline configuration changed
// and should re-render from current state.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[string]chan struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[string]chan struct{}),
	}
}

// Subscribe registers a listener and returns its id and signal channel.
// The caller must call Unsubscribe with the id when done.
func (n *Notifier) Subscribe() (string, <-chan struct{}) {
	id := uuid.NewString()
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[id] = ch
	n.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(id string) {
	n.mu.Lock()
	ch, ok := n.listeners[id]
	if ok {
		delete(n.listeners, id)
	}
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Count returns the number of live listeners.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends a ping to all listeners.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
			// Listener will catch up on its next loop iteration.
		}
	}
}
