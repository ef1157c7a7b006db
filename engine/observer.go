package engine

import "time"

// BatchEvent describes one attempted batch of an InsertRows call.
type BatchEvent struct {
	Table    string
	Index    int
	Total    int
	Rows     int
	Affected int64
	Duration time.Duration
	Err      error
}

// Observer receives batch events synchronously on the inserting goroutine.
type Observer interface {
	ObserveBatch(BatchEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(BatchEvent)

func (f ObserverFunc) ObserveBatch(ev BatchEvent) { f(ev) }
