package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"botdemo/internal/model"
)

var (
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	// Define the PostgreSQL container request
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("could not stop postgres container: %s", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	repo := &PostgresRepository{Pool: pool}
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("could not migrate: %s", err)
	}

	return m.Run()
}

func newRepo() *PostgresRepository {
	return &PostgresRepository{Pool: pool}
}

func TestPostgresRepository_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, newRepo().Migrate(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPostgresRepository_Profile(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	userID := uuid.NewString()

	_, err := repo.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := repo.UpsertProfile(ctx, model.Profile{UserID: userID, Name: "Pixel", TelegramHandle: "@pixel_degen", Bio: "gm"})
	require.NoError(t, err)
	assert.Equal(t, userID, saved.UserID)
	assert.False(t, saved.UpdatedAt.IsZero())

	_, err = repo.UpsertProfile(ctx, model.Profile{UserID: userID, Name: "Pixel Degen"})
	require.NoError(t, err)

	got, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Pixel Degen", got.Name)
	assert.Empty(t, got.TelegramHandle)
}

func TestPostgresRepository_Settings(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	userID := uuid.NewString()

	_, err := repo.GetSettings(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	prefs := model.NotificationPreferences{Email: true, TradeAlerts: true}
	_, err = repo.UpsertSettings(ctx, model.Settings{UserID: userID, Theme: "light", NotificationPreferences: prefs, Language: "de"})
	require.NoError(t, err)

	got, err := repo.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, "de", got.Language)
	assert.Equal(t, prefs, got.NotificationPreferences)
}

func TestPostgresRepository_Wallets(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	userID := uuid.NewString()

	first, err := repo.CreateWallet(ctx, model.Wallet{
		ID: uuid.NewString(), UserID: userID, WalletAddress: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		WalletName: "Main", Blockchain: "ethereum", BalanceSnapshot: 1.25,
	})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary, "first wallet becomes primary")
	assert.InDelta(t, 1.25, first.BalanceSnapshot, 1e-12)

	second, err := repo.CreateWallet(ctx, model.Wallet{
		ID: uuid.NewString(), UserID: userID, WalletAddress: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		WalletName: "Sol", Blockchain: "solana",
	})
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	_, err = repo.CreateWallet(ctx, model.Wallet{
		ID: uuid.NewString(), UserID: userID, WalletAddress: first.WalletAddress, Blockchain: "ethereum",
	})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, repo.SetPrimaryWallet(ctx, userID, second.ID))
	wallets, err := repo.ListWallets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, second.ID, wallets[0].ID)
	assert.True(t, wallets[0].IsPrimary)
	assert.False(t, wallets[1].IsPrimary)

	assert.ErrorIs(t, repo.SetPrimaryWallet(ctx, userID, uuid.NewString()), ErrNotFound)
	assert.ErrorIs(t, repo.SetPrimaryWallet(ctx, uuid.NewString(), second.ID), ErrNotFound)

	require.NoError(t, repo.DeleteWallet(ctx, userID, second.ID))
	wallets, err = repo.ListWallets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, first.ID, wallets[0].ID)
	assert.True(t, wallets[0].IsPrimary, "remaining wallet promoted")

	assert.ErrorIs(t, repo.DeleteWallet(ctx, userID, second.ID), ErrNotFound)
}

func TestPostgresRepository_Forms(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	email := uuid.NewString() + "@example.com"

	created, err := repo.AddNewsletterSignup(ctx, model.NewsletterSignup{Email: email})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.AddNewsletterSignup(ctx, model.NewsletterSignup{Email: email})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.AddWaitlistEntry(ctx, model.WaitlistEntry{Email: email, Name: "Trader", BotType: "sniper"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.AddWaitlistEntry(ctx, model.WaitlistEntry{Email: email})
	require.NoError(t, err)
	assert.False(t, created)

	msg := model.ContactMessage{ID: uuid.NewString(), Name: "Trader", Email: email, Subject: "Hi", Message: "When launch?"}
	require.NoError(t, repo.AddContactMessage(ctx, msg))

	var stored string
	require.NoError(t, pool.QueryRow(ctx, "SELECT message FROM contact_messages WHERE id = $1", msg.ID).Scan(&stored))
	assert.Equal(t, msg.Message, stored)
}

func TestLoadMigrations(t *testing.T) {
	ms, err := loadMigrations(migrationFiles, migrationsDir)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, 2, ms[1].Version)

	_, err = parseVersion("init.up.sql")
	assert.Error(t, err)
}
