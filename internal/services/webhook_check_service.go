package services

import (
	"sync"

	"github.com/greatawakening/checkout-service/internal/utils"
)

// WebhookCheckService captures the IDs of processed webhook events so an
// operator (or a deploy-time smoke test) can confirm the endpoint is actually
// receiving deliveries. Entries are consumed on read.
type WebhookCheckService struct {
	mu     sync.Mutex
	events map[string]struct{}
}

func NewWebhookCheckService() *WebhookCheckService {
	return &WebhookCheckService{
		events: make(map[string]struct{}),
	}
}

// CaptureEvent records that an event ID was processed.
func (s *WebhookCheckService) CaptureEvent(eventID string) {
	if eventID == "" {
		return
	}
	s.mu.Lock()
	s.events[eventID] = struct{}{}
	s.mu.Unlock()
	utils.Logger.Infof("Captured webhook check event with ID=%s", eventID)
}

// ConsumeWebhookCheckEvent checks for and consumes a webhook event ID.
func (s *WebhookCheckService) ConsumeWebhookCheckEvent(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.events[eventID]
	if found {
		delete(s.events, eventID)
	}
	return found
}
