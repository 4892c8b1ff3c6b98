// Package preferences holds the per-visitor application state: the selected
// UI language and the cookie-consent record that gates third-party scripts.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"botdemo/internal/i18n"
	"botdemo/internal/model"
)

// ErrInvalidVisitor is returned when the visitor id is not a UUID.
var ErrInvalidVisitor = errors.New("preferences: invalid visitor id")

// Consent categories.
const (
	CategoryNecessary       = "necessary"
	CategoryFunctional      = "functional"
	CategoryAnalytics       = "analytics"
	CategoryMarketing       = "marketing"
	CategoryPersonalization = "personalization"
)

// Script is a third-party script loaded only with the matching consent.
type Script struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Src      string `json:"src"`
}

var thirdPartyScripts = []Script{
	{ID: "analytics-tag", Category: CategoryAnalytics, Src: "https://www.googletagmanager.com/gtag/js"},
	{ID: "ad-pixel", Category: CategoryMarketing, Src: "https://connect.facebook.net/en_US/fbevents.js"},
	{ID: "chat-widget", Category: CategoryFunctional, Src: "https://widget.intercom.io/widget"},
	{ID: "personalization", Category: CategoryPersonalization, Src: "https://cdn.optimizely.com/js/site.js"},
}

// Allows reports whether consent covers category.
func Allows(c model.Consent, category string) bool {
	switch category {
	case CategoryNecessary:
		return true
	case CategoryFunctional:
		return c.Functional
	case CategoryAnalytics:
		return c.Analytics
	case CategoryMarketing:
		return c.Marketing
	case CategoryPersonalization:
		return c.Personalization
	default:
		return false
	}
}

// AllowedScripts returns the third-party scripts consent permits.
func AllowedScripts(c model.Consent) []Script {
	out := make([]Script, 0, len(thirdPartyScripts))
	for _, s := range thirdPartyScripts {
		if Allows(c, s.Category) {
			out = append(out, s)
		}
	}
	return out
}

// Service exposes typed getters and setters over a Store.
type Service struct {
	store      Store
	translator *i18n.Translator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a preference service.
func NewService(store Store, translator *i18n.Translator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		translator: translator,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNow allows injecting deterministic time for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func checkVisitor(visitorID string) error {
	if _, err := uuid.Parse(visitorID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidVisitor, visitorID)
	}
	return nil
}

// Language returns the visitor's language, or the default language.
func (s *Service) Language(ctx context.Context, visitorID string) (string, error) {
	if err := checkVisitor(visitorID); err != nil {
		return "", err
	}
	lang, ok, err := s.store.Language(ctx, visitorID)
	if err != nil {
		return "", err
	}
	if !ok || !s.translator.Supports(lang) {
		return i18n.DefaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage stores the visitor's language after checking it is supported.
func (s *Service) SetLanguage(ctx context.Context, visitorID, lang string) error {
	if err := checkVisitor(visitorID); err != nil {
		return err
	}
	if !s.translator.Supports(lang) {
		return fmt.Errorf("%w: %q", i18n.ErrUnsupportedLanguage, lang)
	}
	return s.store.SetLanguage(ctx, visitorID, lang)
}

// Consent returns the visitor's consent record. Without a record only
// necessary cookies are allowed and the second result is false.
func (s *Service) Consent(ctx context.Context, visitorID string) (model.Consent, bool, error) {
	if err := checkVisitor(visitorID); err != nil {
		return model.Consent{}, false, err
	}
	c, ok, err := s.store.Consent(ctx, visitorID)
	if err != nil {
		return model.Consent{}, false, err
	}
	if !ok {
		return model.Consent{Necessary: true}, false, nil
	}
	return c, true, nil
}

// SetConsent records the visitor's choice. Necessary cookies are always on
// and the timestamp is set to now.
func (s *Service) SetConsent(ctx context.Context, visitorID string, c model.Consent) (model.Consent, error) {
	if err := checkVisitor(visitorID); err != nil {
		return model.Consent{}, err
	}
	c.Necessary = true
	c.Timestamp = s.now()
	if err := s.store.SetConsent(ctx, visitorID, c); err != nil {
		return model.Consent{}, err
	}
	s.logger.Info("Consent recorded",
		"visitor_id", visitorID,
		"analytics", c.Analytics,
		"marketing", c.Marketing,
	)
	return c, nil
}

// Scripts returns the third-party scripts the visitor's consent permits.
func (s *Service) Scripts(ctx context.Context, visitorID string) ([]Script, error) {
	c, _, err := s.Consent(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return AllowedScripts(c), nil
}
