package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/mail"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
)

// contactService is the concrete implementation of ContactService
type contactService struct {
	repos    *repository.Repositories
	notifier mail.Notifier
	log      zerolog.Logger
}

// NewContactService creates a new contact service
func NewContactService(repos *repository.Repositories, notifier mail.Notifier, log zerolog.Logger) ContactService {
	return &contactService{
		repos:    repos,
		notifier: notifier,
		log:      log.With().Str("service", "contact").Logger(),
	}
}

// Submit persists a contact message and attempts a best-effort
// notification email. The message is durably stored before the mail
// step; a mail failure is logged and never surfaced to the caller.
func (s *contactService) Submit(ctx context.Context, form *models.ContactForm) error {
	msg := &models.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	}
	if err := s.repos.Contact.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	s.log.Info().Int64("message_id", msg.ID).Msg("Contact message received")

	if s.notifier != nil && s.notifier.Enabled() {
		subject := fmt.Sprintf("New contact message: %s", msg.Subject)
		body := fmt.Sprintf(
			"New contact message received:\n\nName: %s\nEmail: %s\nSubject: %s\nMessage:\n%s\n\nDate: %s\n",
			msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt.Format("2006-01-02 15:04:05"),
		)
		if err := s.notifier.Send(subject, body); err != nil {
			s.log.Error().Err(err).Int64("message_id", msg.ID).Msg("Contact notification email failed")
		}
	}

	return nil
}

// List returns all messages newest first plus the live unread count
func (s *contactService) List(ctx context.Context) ([]*models.ContactMessage, int, error) {
	messages, err := s.repos.Contact.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	unread, err := s.repos.Contact.CountUnread(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return messages, unread, nil
}

// View returns a message for the staff detail view, flipping is_read
// to true on first view. The flip happens at most once; later views
// leave the flag alone.
func (s *contactService) View(ctx context.Context, id int64) (*models.ContactMessage, error) {
	msg, err := s.repos.Contact.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	if msg == nil {
		return nil, ErrNotFound
	}

	if !msg.IsRead {
		if err := s.repos.Contact.MarkRead(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		msg.IsRead = true
	}

	return msg, nil
}

// Get retrieves a message without touching the read flag, for the
// delete confirmation view
func (s *contactService) Get(ctx context.Context, id int64) (*models.ContactMessage, error) {
	msg, err := s.repos.Contact.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

// Delete removes a contact message
func (s *contactService) Delete(ctx context.Context, id int64) error {
	msg, err := s.repos.Contact.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get contact message: %w", err)
	}
	if msg == nil {
		return ErrNotFound
	}

	if err := s.repos.Contact.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}

	s.log.Info().Int64("message_id", id).Msg("Contact message deleted")
	return nil
}
