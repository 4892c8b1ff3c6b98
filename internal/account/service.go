// Package account implements the dashboard account operations and the public
// form submissions on top of the database repositories.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"botdemo/internal/database"
	"botdemo/internal/i18n"
	"botdemo/internal/model"
	"botdemo/internal/validation"
)

// ErrValidation is returned when user input is rejected before storage.
var ErrValidation = errors.New("account: validation failed")

const (
	maxNameLen       = 128
	maxBioLen        = 500
	maxWalletNameLen = 64
)

var themes = map[string]bool{"dark": true, "light": true, "system": true}

// Service orchestrates account persistence.
type Service struct {
	repo       database.AccountRepository
	translator *i18n.Translator
	validator  *validation.Validator
	logger     *slog.Logger
	timeFunc   func() time.Time
}

// NewService constructs an account service.
func NewService(repo database.AccountRepository, translator *i18n.Translator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		translator: translator,
		validator:  validation.Default(),
		logger:     logger,
		timeFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNow allows injecting deterministic time for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.timeFunc = now
	return s
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// invalid marks err as a validation failure while keeping it matchable.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validationError("invalid %s id", kind)
	}
	return nil
}

// Profile returns the user's profile, or an empty one if none was saved.
func (s *Service) Profile(ctx context.Context, userID string) (model.Profile, error) {
	if err := checkID("user", userID); err != nil {
		return model.Profile{}, err
	}
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return model.Profile{UserID: userID}, nil
	}
	return p, err
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Name           string
	TelegramHandle string
	Bio            string
}

// UpdateProfile validates and stores the profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (model.Profile, error) {
	if err := checkID("user", userID); err != nil {
		return model.Profile{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.TelegramHandle = strings.TrimSpace(in.TelegramHandle)
	in.Bio = strings.TrimSpace(in.Bio)

	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return model.Profile{}, validationError("name must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLen {
		return model.Profile{}, validationError("bio must be at most %d characters", maxBioLen)
	}
	if err := s.validator.TelegramHandle(in.TelegramHandle); err != nil {
		return model.Profile{}, invalid(err)
	}

	p, err := s.repo.UpsertProfile(ctx, model.Profile{
		UserID:         userID,
		Name:           in.Name,
		TelegramHandle: in.TelegramHandle,
		Bio:            in.Bio,
	})
	if err != nil {
		s.logger.Error("Failed to update profile", "user_id", userID, "error", err)
		return model.Profile{}, err
	}
	return p, nil
}

// DefaultSettings returns the settings of a user who never saved any.
func DefaultSettings(userID string) model.Settings {
	return model.Settings{
		UserID:   userID,
		Theme:    "dark",
		Language: i18n.DefaultLanguage,
		NotificationPreferences: model.NotificationPreferences{
			Email:       true,
			TradeAlerts: true,
		},
	}
}

// Settings returns the user's settings, or the defaults.
func (s *Service) Settings(ctx context.Context, userID string) (model.Settings, error) {
	if err := checkID("user", userID); err != nil {
		return model.Settings{}, err
	}
	st, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return DefaultSettings(userID), nil
	}
	return st, err
}

// SettingsInput is the editable part of the settings.
type SettingsInput struct {
	Theme                   string
	NotificationPreferences model.NotificationPreferences
	Language                string
}

// UpdateSettings validates and stores the settings.
func (s *Service) UpdateSettings(ctx context.Context, userID string, in SettingsInput) (model.Settings, error) {
	if err := checkID("user", userID); err != nil {
		return model.Settings{}, err
	}
	if !themes[in.Theme] {
		return model.Settings{}, validationError("unknown theme %q", in.Theme)
	}
	if !s.translator.Supports(in.Language) {
		return model.Settings{}, validationError("unsupported language %q", in.Language)
	}

	st, err := s.repo.UpsertSettings(ctx, model.Settings{
		UserID:                  userID,
		Theme:                   in.Theme,
		NotificationPreferences: in.NotificationPreferences,
		Language:                in.Language,
	})
	if err != nil {
		s.logger.Error("Failed to update settings", "user_id", userID, "error", err)
		return model.Settings{}, err
	}
	return st, nil
}

// Wallets lists the user's wallets, primary first.
func (s *Service) Wallets(ctx context.Context, userID string) ([]model.Wallet, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	return s.repo.ListWallets(ctx, userID)
}

// WalletInput describes a wallet to link.
type WalletInput struct {
	WalletAddress   string
	WalletName      string
	Blockchain      string
	IsPrimary       bool
	BalanceSnapshot float64
}

// AddWallet validates the address for its blockchain and stores the wallet.
// Invalid addresses never reach the repository.
func (s *Service) AddWallet(ctx context.Context, userID string, in WalletInput) (model.Wallet, error) {
	if err := checkID("user", userID); err != nil {
		return model.Wallet{}, err
	}
	in.Blockchain = strings.ToLower(strings.TrimSpace(in.Blockchain))
	in.WalletAddress = strings.TrimSpace(in.WalletAddress)
	in.WalletName = strings.TrimSpace(in.WalletName)

	if err := s.validator.WalletAddress(in.Blockchain, in.WalletAddress); err != nil {
		return model.Wallet{}, invalid(err)
	}
	if utf8.RuneCountInString(in.WalletName) > maxWalletNameLen {
		return model.Wallet{}, validationError("wallet name must be at most %d characters", maxWalletNameLen)
	}
	if in.BalanceSnapshot < 0 {
		return model.Wallet{}, validationError("balance snapshot must not be negative")
	}

	now := s.timeFunc()
	w, err := s.repo.CreateWallet(ctx, model.Wallet{
		ID:              uuid.NewString(),
		UserID:          userID,
		WalletAddress:   in.WalletAddress,
		WalletName:      in.WalletName,
		Blockchain:      in.Blockchain,
		IsPrimary:       in.IsPrimary,
		BalanceSnapshot: in.BalanceSnapshot,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return model.Wallet{}, err
	}
	s.logger.Info("Wallet linked", "user_id", userID, "wallet_id", w.ID, "blockchain", w.Blockchain)
	return w, nil
}

// SetPrimaryWallet marks walletID as the user's primary wallet.
func (s *Service) SetPrimaryWallet(ctx context.Context, userID, walletID string) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	if err := checkID("wallet", walletID); err != nil {
		return err
	}
	return s.repo.SetPrimaryWallet(ctx, userID, walletID)
}

// RemoveWallet unlinks a wallet.
func (s *Service) RemoveWallet(ctx context.Context, userID, walletID string) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	if err := checkID("wallet", walletID); err != nil {
		return err
	}
	if err := s.repo.DeleteWallet(ctx, userID, walletID); err != nil {
		return err
	}
	s.logger.Info("Wallet removed", "user_id", userID, "wallet_id", walletID)
	return nil
}
