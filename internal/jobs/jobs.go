package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Task is a unit of best-effort background work, typically an outbound
// email that must not delay the request that triggered it.
type Task struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Enqueued time.Time       `json:"enqueued"`
}

// Decode unmarshals the payload into v.
func (t *Task) Decode(v any) error {
	return json.Unmarshal(t.Payload, v)
}

// Handler is the function that processes a task
type Handler func(ctx context.Context, t *Task) error

var (
	// ErrQueueFull indicates the task was dropped because every slot is taken
	ErrQueueFull = errors.New("task queue full")
	// ErrStopped indicates the pool no longer accepts tasks
	ErrStopped = errors.New("worker pool stopped")
	// ErrNoHandler indicates no handler is registered for the task type
	ErrNoHandler = errors.New("no handler for task type")
)

// Dispatcher is the submit side of the pool, for components that only
// enqueue work.
type Dispatcher interface {
	Submit(typ string, payload any) error
}
