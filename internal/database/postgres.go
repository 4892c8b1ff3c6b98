package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"botdemo/internal/model"
)

const uniqueViolation = "23505"

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository opens a pool for dsn and verifies the connection.
func NewPostgresRepository(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return &PostgresRepository{Pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.Pool.Close()
}

func (r *PostgresRepository) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var p model.Profile
	err := r.Pool.QueryRow(ctx,
		`SELECT user_id::text, name, telegram_handle, bio, updated_at FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Name, &p.TelegramHandle, &p.Bio, &p.UpdatedAt)
	if err != nil {
		return model.Profile{}, fmt.Errorf("database: get profile: %w", notFound(err))
	}
	return p, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile model.Profile) (model.Profile, error) {
	const q = `
	INSERT INTO user_profiles (user_id, name, telegram_handle, bio)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id) DO UPDATE
	SET name = EXCLUDED.name, telegram_handle = EXCLUDED.telegram_handle, bio = EXCLUDED.bio, updated_at = NOW()
	RETURNING user_id::text, name, telegram_handle, bio, updated_at`
	var p model.Profile
	err := r.Pool.QueryRow(ctx, q, profile.UserID, profile.Name, profile.TelegramHandle, profile.Bio).
		Scan(&p.UserID, &p.Name, &p.TelegramHandle, &p.Bio, &p.UpdatedAt)
	if err != nil {
		return model.Profile{}, fmt.Errorf("database: upsert profile: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	var s model.Settings
	err := r.Pool.QueryRow(ctx,
		`SELECT user_id::text, theme, notification_preferences, language, updated_at FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.Theme, &s.NotificationPreferences, &s.Language, &s.UpdatedAt)
	if err != nil {
		return model.Settings{}, fmt.Errorf("database: get settings: %w", notFound(err))
	}
	return s, nil
}

func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	const q = `
	INSERT INTO user_settings (user_id, theme, notification_preferences, language)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id) DO UPDATE
	SET theme = EXCLUDED.theme, notification_preferences = EXCLUDED.notification_preferences,
		language = EXCLUDED.language, updated_at = NOW()
	RETURNING user_id::text, theme, notification_preferences, language, updated_at`
	var s model.Settings
	err := r.Pool.QueryRow(ctx, q, settings.UserID, settings.Theme, settings.NotificationPreferences, settings.Language).
		Scan(&s.UserID, &s.Theme, &s.NotificationPreferences, &s.Language, &s.UpdatedAt)
	if err != nil {
		return model.Settings{}, fmt.Errorf("database: upsert settings: %w", err)
	}
	return s, nil
}

const walletColumns = `id::text, user_id::text, wallet_address, wallet_name, blockchain, is_primary, balance_snapshot, created_at, updated_at`

func scanWallet(row pgx.Row) (model.Wallet, error) {
	var w model.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.WalletAddress, &w.WalletName, &w.Blockchain,
		&w.IsPrimary, &w.BalanceSnapshot, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *PostgresRepository) ListWallets(ctx context.Context, userID string) ([]model.Wallet, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+walletColumns+` FROM user_wallets WHERE user_id = $1 ORDER BY is_primary DESC, created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("database: list wallets: %w", err)
	}
	wallets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Wallet, error) {
		return scanWallet(row)
	})
	if err != nil {
		return nil, fmt.Errorf("database: scan wallets: %w", err)
	}
	return wallets, nil
}

// CreateWallet inserts a wallet. The first wallet of a user becomes primary,
// and a wallet inserted as primary demotes the others.
func (r *PostgresRepository) CreateWallet(ctx context.Context, wallet model.Wallet) (model.Wallet, error) {
	var created model.Wallet
	err := pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		var existing int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM user_wallets WHERE user_id = $1`, wallet.UserID).Scan(&existing); err != nil {
			return err
		}
		primary := wallet.IsPrimary || existing == 0
		if primary && existing > 0 {
			if _, err := tx.Exec(ctx, `UPDATE user_wallets SET is_primary = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_primary`, wallet.UserID); err != nil {
				return err
			}
		}

		row := tx.QueryRow(ctx, `
		INSERT INTO user_wallets (id, user_id, wallet_address, wallet_name, blockchain, is_primary, balance_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+walletColumns,
			wallet.ID, wallet.UserID, wallet.WalletAddress, wallet.WalletName, wallet.Blockchain, primary, wallet.BalanceSnapshot,
		)
		var err error
		created, err = scanWallet(row)
		return err
	})
	if err != nil {
		return model.Wallet{}, fmt.Errorf("database: create wallet: %w", conflict(err))
	}
	return created, nil
}

func (r *PostgresRepository) SetPrimaryWallet(ctx context.Context, userID, walletID string) error {
	err := pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		var found bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_wallets WHERE user_id = $1 AND id = $2)`,
			userID, walletID,
		).Scan(&found); err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		_, err := tx.Exec(ctx,
			`UPDATE user_wallets SET is_primary = (id = $2), updated_at = NOW() WHERE user_id = $1`,
			userID, walletID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("database: set primary wallet: %w", err)
	}
	return nil
}

// DeleteWallet removes a wallet. When the primary wallet is removed the
// oldest remaining wallet is promoted.
func (r *PostgresRepository) DeleteWallet(ctx context.Context, userID, walletID string) error {
	err := pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		var wasPrimary bool
		err := tx.QueryRow(ctx,
			`DELETE FROM user_wallets WHERE user_id = $1 AND id = $2 RETURNING is_primary`,
			userID, walletID,
		).Scan(&wasPrimary)
		if err != nil {
			return notFound(err)
		}
		if !wasPrimary {
			return nil
		}
		_, err = tx.Exec(ctx, `
		UPDATE user_wallets SET is_primary = TRUE, updated_at = NOW()
		WHERE id = (SELECT id FROM user_wallets WHERE user_id = $1 ORDER BY created_at, id LIMIT 1)`,
			userID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("database: delete wallet: %w", err)
	}
	return nil
}

// AddNewsletterSignup stores a subscription; it reports false when the email
// was already subscribed.
func (r *PostgresRepository) AddNewsletterSignup(ctx context.Context, signup model.NewsletterSignup) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		signup.Email,
	)
	if err != nil {
		return false, fmt.Errorf("database: add newsletter signup: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) AddContactMessage(ctx context.Context, msg model.ContactMessage) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
	)
	if err != nil {
		return fmt.Errorf("database: add contact message: %w", err)
	}
	return nil
}

// AddWaitlistEntry stores a waitlist registration; it reports false when the
// email was already registered.
func (r *PostgresRepository) AddWaitlistEntry(ctx context.Context, entry model.WaitlistEntry) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
	INSERT INTO waitlist_entries (email, name, telegram_handle, bot_type)
	VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
		entry.Email, entry.Name, entry.TelegramHandle, entry.BotType,
	)
	if err != nil {
		return false, fmt.Errorf("database: add waitlist entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
