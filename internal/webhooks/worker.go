package webhooks

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"
)

// Outcome of one delivery attempt, passed to Worker.Observe.
const (
	OutcomeDelivered = "delivered"
	OutcomeRetry     = "retry"
	OutcomeDropped   = "dropped"
)

type Worker struct {
	Queue       *Queue
	HTTP        *http.Client
	Secret      string
	MaxAttempts int
	// Observe, when set, is told the outcome of every attempt.
	Observe func(outcome string)
}

func NewWorker(q *Queue, secret string, maxAttempts int) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &Worker{Queue: q, HTTP: &http.Client{Timeout: 5 * time.Second}, Secret: secret, MaxAttempts: maxAttempts}
}

// Start polls the queue every second until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.processOnce(ctx)
			}
		}
	}()
}

func (w *Worker) processOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for _, it := range w.Queue.Due(time.Now(), 50) {
		code, err := w.post(ctx, it)
		if err == nil && code >= 200 && code < 300 {
			w.observe(OutcomeDelivered)
			continue
		}
		it.Attempts++
		if it.Attempts >= w.MaxAttempts {
			log.Printf("webhook %s to %s dropped after %d attempts (code=%d err=%v)", it.EventType, it.URL, it.Attempts, code, err)
			w.observe(OutcomeDropped)
			continue
		}
		it.NextAt = time.Now().Add(nextBackoff(it.Attempts))
		w.Queue.Push(it)
		w.observe(OutcomeRetry)
	}
}

func (w *Worker) post(ctx context.Context, it Delivery) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, it.URL, bytes.NewReader(it.Payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", it.EventType)
	req.Header.Set("X-Delivery-Id", it.ID)
	if w.Secret != "" {
		req.Header.Set("X-Signature", SignHMAC(w.Secret, it.Payload))
	}
	resp, err := w.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (w *Worker) observe(outcome string) {
	if w.Observe != nil {
		w.Observe(outcome)
	}
}

func nextBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 10 {
		attempts = 10
	}
	base := time.Second * time.Duration(1<<attempts)
	if base > time.Hour {
		base = time.Hour
	}
	return base
}
