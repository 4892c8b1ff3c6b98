package account

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"botdemo/internal/database"
	"botdemo/internal/metrics"
	"botdemo/internal/model"
	"botdemo/internal/simulation"
	"botdemo/internal/validation"
)

const maxMessageLen = 5000

// Form names used in metrics and logs.
const (
	FormNewsletter = "newsletter"
	FormContact    = "contact"
	FormWaitlist   = "waitlist"
)

// Forms handles the public form submissions. Failures are returned to the
// caller as is; nothing is retried.
type Forms struct {
	repo      database.FormRepository
	validator *validation.Validator
	logger    *slog.Logger
}

// NewForms creates the form handler.
func NewForms(repo database.FormRepository, logger *slog.Logger) *Forms {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forms{repo: repo, validator: validation.Default(), logger: logger}
}

func (f *Forms) record(form string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		f.logger.Error("Form submission failed", "form", form, "error", err)
	}
	metrics.FormSubmissions.WithLabelValues(form, outcome).Inc()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubscribeNewsletter adds email to the newsletter. Repeated signups succeed
// without creating a second row.
func (f *Forms) SubscribeNewsletter(ctx context.Context, email string) (err error) {
	defer func() { f.record(FormNewsletter, err) }()

	email = normalizeEmail(email)
	if err := f.validator.Email(email); err != nil {
		return invalid(err)
	}
	created, err := f.repo.AddNewsletterSignup(ctx, model.NewsletterSignup{Email: email})
	if err != nil {
		return err
	}
	if !created {
		f.logger.Debug("Newsletter signup already present", "email", email)
	}
	return nil
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SendContact stores a contact message.
func (f *Forms) SendContact(ctx context.Context, in ContactInput) (err error) {
	defer func() { f.record(FormContact, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.Name == "" || utf8.RuneCountInString(in.Name) > maxNameLen:
		return validationError("name is required and must be at most %d characters", maxNameLen)
	case in.Message == "" || utf8.RuneCountInString(in.Message) > maxMessageLen:
		return validationError("message is required and must be at most %d characters", maxMessageLen)
	}
	if err := f.validator.Email(in.Email); err != nil {
		return invalid(err)
	}

	return f.repo.AddContactMessage(ctx, model.ContactMessage{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
}

// WaitlistInput is a waitlist registration.
type WaitlistInput struct {
	Email          string
	Name           string
	TelegramHandle string
	BotType        string
}

// JoinWaitlist registers an email on the waitlist. Repeated registrations
// succeed without creating a second row.
func (f *Forms) JoinWaitlist(ctx context.Context, in WaitlistInput) (err error) {
	defer func() { f.record(FormWaitlist, err) }()

	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.TelegramHandle = strings.TrimSpace(in.TelegramHandle)

	if err := f.validator.Email(in.Email); err != nil {
		return invalid(err)
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return validationError("name must be at most %d characters", maxNameLen)
	}
	if err := f.validator.TelegramHandle(in.TelegramHandle); err != nil {
		return invalid(err)
	}
	if in.BotType != "" {
		if _, err := simulation.Profile(simulation.BotType(in.BotType)); err != nil {
			return invalid(err)
		}
	}

	_, err = f.repo.AddWaitlistEntry(ctx, model.WaitlistEntry{
		Email:          in.Email,
		Name:           in.Name,
		TelegramHandle: in.TelegramHandle,
		BotType:        in.BotType,
	})
	return err
}
