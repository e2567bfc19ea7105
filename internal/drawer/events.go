package drawer

import "time"

// Event types broadcast by the drawer service. Callers can subscribe to all
// events or to a single type.
const (
	EventConnected = "CONNECTED"
	EventOpened    = "OPENED"
	EventClosed    = "CLOSED"
	EventError     = "ERROR"
)

// Event is the single envelope for every drawer state transition.
type Event struct {
	Type      string    `json:"type"`
	Port      string    `json:"port"`
	Data      string    `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Listener receives drawer events. Listeners are invoked synchronously from
// the emitting goroutine and must not block.
type Listener func(Event)
