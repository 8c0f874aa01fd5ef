package api

import (
	"context"
	"log"

	"tspcolony/internal/metrics"
	"tspcolony/internal/webhooks"
)

// StartWebhooks forwards result events to the configured webhook targets
// until ctx is done. It is a no-op without WEBHOOK_URLS.
func (s *Server) StartWebhooks(ctx context.Context) {
	if len(s.Cfg.WebhookURLs) == 0 {
		return
	}
	pub := webhooks.NewPublisher(s.Cfg.WebhookURLs)
	w := webhooks.NewWorker(pub.Queue, s.Cfg.WebhookSecret, s.Cfg.WebhookMaxAttempts)
	w.Observe = func(outcome string) { metrics.WebhookDeliveries.WithLabelValues(outcome).Inc() }
	w.Start(ctx)

	ch := s.Broker.Subscribe(TopicResults)
	go func() {
		defer s.Broker.Unsubscribe(TopicResults, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				pub.Emit(evt.Type, evt.Data)
			}
		}
	}()
	log.Printf("webhooks: delivering result events to %d targets", len(s.Cfg.WebhookURLs))
}
