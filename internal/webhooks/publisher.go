// Package webhooks delivers solver events to external HTTP endpoints with
// HMAC signatures and retry.
package webhooks

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Delivery is one pending POST of an event payload to one target.
type Delivery struct {
	ID        string
	URL       string
	EventType string
	Payload   []byte
	Attempts  int
	NextAt    time.Time
}

// Queue holds deliveries until they are due.
type Queue struct {
	mu    sync.Mutex
	items []Delivery
}

func (q *Queue) Push(d Delivery) {
	q.mu.Lock()
	q.items = append(q.items, d)
	q.mu.Unlock()
}

// Due removes and returns up to max deliveries whose NextAt has passed.
func (q *Queue) Due(now time.Time, max int) []Delivery {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Delivery
	keep := q.items[:0]
	for _, d := range q.items {
		if len(out) < max && !d.NextAt.After(now) {
			out = append(out, d)
			continue
		}
		keep = append(keep, d)
	}
	q.items = keep
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

type Publisher struct {
	Targets []string
	Queue   *Queue
}

func NewPublisher(targets []string) *Publisher {
	return &Publisher{Targets: targets, Queue: &Queue{}}
}

// Emit queues an event for every target.
func (p *Publisher) Emit(eventType string, data any) {
	if len(p.Targets) == 0 {
		return
	}
	payload := map[string]any{
		"id":   "evt_" + uuid.NewString(),
		"type": eventType,
		"ts":   time.Now().UTC().Format(time.RFC3339),
		"data": data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	now := time.Now()
	for _, url := range p.Targets {
		p.Queue.Push(Delivery{ID: uuid.NewString(), URL: url, EventType: eventType, Payload: body, NextAt: now})
	}
}
