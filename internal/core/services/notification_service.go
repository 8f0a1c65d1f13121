package services

import (
	"encoding/json"
	"log"

	"svs-schoolpay/internal/core/domain"
)

// NotificationService dispatches domain events raised by billing
// operations. Events are currently logged; a broker can be plugged in
// behind Dispatch later without touching the services that raise them.
type NotificationService struct{}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Dispatch publishes a single domain event
func (s *NotificationService) Dispatch(event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to marshal event %s: %v", event.EventName(), err)
		return
	}
	log.Printf("📢 Event %s: %s", event.EventName(), payload)
}

// DispatchAll publishes a batch of domain events in order
func (s *NotificationService) DispatchAll(events []domain.Event) {
	for _, event := range events {
		s.Dispatch(event)
	}
}
