package app

import (
	"sync"
	"time"
)

// EventType identifies different application events.
type EventType int

const (
	EventMatched EventType = iota
	EventNoMatch
	EventAnalysisFailed
	EventCatalogChanged
)

func (e EventType) String() string {
	switch e {
	case EventMatched:
		return "matched"
	case EventNoMatch:
		return "no_match"
	case EventAnalysisFailed:
		return "analysis_failed"
	case EventCatalogChanged:
		return "catalog_changed"
	}
	return "unknown"
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Counters summarises the analyses handled since startup.
type Counters struct {
	Analyses     int       `json:"analyses"`
	Matched      int       `json:"matched"`
	NoMatch      int       `json:"no_match"`
	Failed       int       `json:"failed"`
	LastAnalysis time.Time `json:"last_analysis,omitzero"`
}

// State holds process-wide counters and event listeners.
type State struct {
	mu        sync.RWMutex
	started   time.Time
	counters  Counters
	listeners map[EventType][]EventListener
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		started:   time.Now(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit updates the counters and triggers all listeners for the event type.
// Listeners run on the caller's goroutine.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.Lock()
	switch event {
	case EventMatched:
		s.counters.Matched++
	case EventNoMatch:
		s.counters.NoMatch++
	case EventAnalysisFailed:
		s.counters.Failed++
	}
	if event != EventCatalogChanged {
		s.counters.Analyses++
		s.counters.LastAnalysis = time.Now()
	}
	listeners := append([]EventListener(nil), s.listeners[event]...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Counters returns a snapshot of the counters.
func (s *State) Counters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// Uptime returns the time since the state was created.
func (s *State) Uptime() time.Duration {
	return time.Since(s.started)
}
