package database

import (
	"context"
	"errors"

	"botdemo/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("database: not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("database: conflict")
)

// AccountRepository stores the dashboard account data.
type AccountRepository interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpsertProfile(ctx context.Context, profile model.Profile) (model.Profile, error)
	GetSettings(ctx context.Context, userID string) (model.Settings, error)
	UpsertSettings(ctx context.Context, settings model.Settings) (model.Settings, error)
	ListWallets(ctx context.Context, userID string) ([]model.Wallet, error)
	CreateWallet(ctx context.Context, wallet model.Wallet) (model.Wallet, error)
	SetPrimaryWallet(ctx context.Context, userID, walletID string) error
	DeleteWallet(ctx context.Context, userID, walletID string) error
}

// FormRepository stores public form submissions.
type FormRepository interface {
	AddNewsletterSignup(ctx context.Context, signup model.NewsletterSignup) (bool, error)
	AddContactMessage(ctx context.Context, msg model.ContactMessage) error
	AddWaitlistEntry(ctx context.Context, entry model.WaitlistEntry) (bool, error)
}

// Repository defines the standard interface for database operations.
type Repository interface {
	AccountRepository
	FormRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}
