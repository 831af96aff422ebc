package contact

import (
	"context"
	"log"
	"strings"

	"ravintola/internal/domain"
	"ravintola/internal/notify"
)

type MessageRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
}

type Service struct {
	messages MessageRepository
	notifier notify.Notifier
}

func NewService(messages MessageRepository, notifier notify.Notifier) *Service {
	return &Service{messages: messages, notifier: notifier}
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		text := "Contact form: " + msg.Name + " <" + msg.Email + ">\n" + msg.Message
		if err := s.notifier.Send(ctx, text); err != nil {
			log.Printf("contact message %d: notification failed: %v", msg.ID, err)
		}
	}
	return msg, nil
}
