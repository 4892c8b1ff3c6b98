package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"botdemo/internal/database"
	"botdemo/internal/i18n"
	"botdemo/internal/model"
	"botdemo/internal/validation"
)

const (
	userID   = "9b2d7c1e-4f3a-4e8b-a6d5-0c1b2a3f4e5d"
	walletID = "1a2b3c4d-5e6f-4a1b-8c2d-3e4f5a6b7c8d"
	ethAddr  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockRepository) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockRepository) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockRepository) UpsertSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockRepository) ListWallets(ctx context.Context, userID string) ([]model.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Wallet), args.Error(1)
}

func (m *MockRepository) CreateWallet(ctx context.Context, w model.Wallet) (model.Wallet, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(model.Wallet), args.Error(1)
}

func (m *MockRepository) SetPrimaryWallet(ctx context.Context, userID, walletID string) error {
	args := m.Called(ctx, userID, walletID)
	return args.Error(0)
}

func (m *MockRepository) DeleteWallet(ctx context.Context, userID, walletID string) error {
	args := m.Called(ctx, userID, walletID)
	return args.Error(0)
}

func (m *MockRepository) AddNewsletterSignup(ctx context.Context, s model.NewsletterSignup) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) AddContactMessage(ctx context.Context, msg model.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockRepository) AddWaitlistEntry(ctx context.Context, e model.WaitlistEntry) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func newTestService(t *testing.T, repo database.AccountRepository) *Service {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	return NewService(repo, tr, nil)
}

func TestService_ProfileDefaultsWhenMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(t, repo)

	repo.On("GetProfile", ctx, userID).Return(model.Profile{}, database.ErrNotFound).Once()
	p, err := svc.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{UserID: userID}, p)

	_, err = svc.Profile(ctx, "nope")
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertExpectations(t)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(t, repo)

	want := model.Profile{UserID: userID, Name: "Pixel", TelegramHandle: "@pixel_degen", Bio: "gm"}
	repo.On("UpsertProfile", ctx, want).Return(want, nil).Once()

	got, err := svc.UpdateProfile(ctx, userID, ProfileInput{Name: "  Pixel ", TelegramHandle: "@pixel_degen", Bio: "gm"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.UpdateProfile(ctx, userID, ProfileInput{TelegramHandle: "@no"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validation.ErrInvalidHandle)

	repo.AssertNumberOfCalls(t, "UpsertProfile", 1)
}

func TestService_Settings(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(t, repo)

	repo.On("GetSettings", ctx, userID).Return(model.Settings{}, database.ErrNotFound).Once()
	st, err := svc.Settings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(userID), st)

	in := SettingsInput{Theme: "light", Language: "es", NotificationPreferences: model.NotificationPreferences{Telegram: true}}
	repo.On("UpsertSettings", ctx, mock.MatchedBy(func(s model.Settings) bool {
		return s.UserID == userID && s.Theme == "light" && s.Language == "es" && s.NotificationPreferences.Telegram
	})).Return(model.Settings{UserID: userID, Theme: "light", Language: "es"}, nil).Once()
	_, err = svc.UpdateSettings(ctx, userID, in)
	require.NoError(t, err)

	_, err = svc.UpdateSettings(ctx, userID, SettingsInput{Theme: "neon", Language: "en"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UpdateSettings(ctx, userID, SettingsInput{Theme: "dark", Language: "xx"})
	assert.ErrorIs(t, err, ErrValidation)

	repo.AssertExpectations(t)
}

func TestService_AddWallet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid address is stored", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(t, repo).WithNow(func() time.Time { return now })

		repo.On("CreateWallet", ctx, mock.MatchedBy(func(w model.Wallet) bool {
			return w.UserID == userID && w.Blockchain == "ethereum" && w.WalletAddress == ethAddr &&
				w.ID != "" && w.CreatedAt.Equal(now)
		})).Return(model.Wallet{ID: walletID, UserID: userID, Blockchain: "ethereum", IsPrimary: true}, nil).Once()

		w, err := svc.AddWallet(ctx, userID, WalletInput{WalletAddress: ethAddr, Blockchain: " Ethereum ", WalletName: "Main"})
		require.NoError(t, err)
		assert.True(t, w.IsPrimary)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input never reaches storage", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(t, repo)

		cases := []struct {
			name string
			in   WalletInput
			is   error
		}{
			{"bad evm address", WalletInput{WalletAddress: "0x123", Blockchain: "ethereum"}, validation.ErrInvalidAddress},
			{"evm address on solana", WalletInput{WalletAddress: ethAddr, Blockchain: "solana"}, validation.ErrInvalidAddress},
			{"unknown chain", WalletInput{WalletAddress: ethAddr, Blockchain: "dogechain"}, validation.ErrUnsupportedChain},
			{"negative balance", WalletInput{WalletAddress: ethAddr, Blockchain: "bsc", BalanceSnapshot: -1}, ErrValidation},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.AddWallet(ctx, userID, tc.in)
				assert.ErrorIs(t, err, ErrValidation)
				assert.ErrorIs(t, err, tc.is)
			})
		}
		repo.AssertNotCalled(t, "CreateWallet", mock.Anything, mock.Anything)
	})

	t.Run("conflict is passed through", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(t, repo)
		repo.On("CreateWallet", ctx, mock.Anything).Return(model.Wallet{}, database.ErrConflict).Once()

		_, err := svc.AddWallet(ctx, userID, WalletInput{WalletAddress: ethAddr, Blockchain: "polygon"})
		assert.ErrorIs(t, err, database.ErrConflict)
	})
}

func TestService_WalletMutations(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(t, repo)

	repo.On("SetPrimaryWallet", ctx, userID, walletID).Return(nil).Once()
	require.NoError(t, svc.SetPrimaryWallet(ctx, userID, walletID))

	repo.On("DeleteWallet", ctx, userID, walletID).Return(database.ErrNotFound).Once()
	assert.ErrorIs(t, svc.RemoveWallet(ctx, userID, walletID), database.ErrNotFound)

	assert.ErrorIs(t, svc.RemoveWallet(ctx, userID, "w1"), ErrValidation)
	assert.ErrorIs(t, svc.SetPrimaryWallet(ctx, "u1", walletID), ErrValidation)

	repo.On("ListWallets", ctx, userID).Return([]model.Wallet{{ID: walletID}}, nil).Once()
	ws, err := svc.Wallets(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, ws, 1)

	repo.AssertExpectations(t)
}

func TestForms_Newsletter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	forms := NewForms(repo, nil)

	signup := model.NewsletterSignup{Email: "trader@example.com"}
	repo.On("AddNewsletterSignup", ctx, signup).Return(true, nil).Once()
	repo.On("AddNewsletterSignup", ctx, signup).Return(false, nil).Once()

	require.NoError(t, forms.SubscribeNewsletter(ctx, " Trader@Example.com "))
	require.NoError(t, forms.SubscribeNewsletter(ctx, "trader@example.com"), "duplicate signup succeeds")

	err := forms.SubscribeNewsletter(ctx, "not an email")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validation.ErrInvalidEmail)

	repo.On("AddNewsletterSignup", ctx, mock.Anything).Return(false, errors.New("db down")).Once()
	assert.Error(t, forms.SubscribeNewsletter(ctx, "other@example.com"))

	repo.AssertExpectations(t)
}

func TestForms_Contact(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	forms := NewForms(repo, nil)

	repo.On("AddContactMessage", ctx, mock.MatchedBy(func(m model.ContactMessage) bool {
		return m.ID != "" && m.Email == "a@b.io" && m.Message == "hello"
	})).Return(nil).Once()
	require.NoError(t, forms.SendContact(ctx, ContactInput{Name: "A", Email: "a@b.io", Message: " hello "}))

	assert.ErrorIs(t, forms.SendContact(ctx, ContactInput{Email: "a@b.io", Message: "x"}), ErrValidation)
	assert.ErrorIs(t, forms.SendContact(ctx, ContactInput{Name: "A", Email: "a@b.io"}), ErrValidation)
	assert.ErrorIs(t, forms.SendContact(ctx, ContactInput{Name: "A", Email: "nope", Message: "x"}), ErrValidation)

	repo.AssertExpectations(t)
}

func TestForms_Waitlist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	forms := NewForms(repo, nil)

	entry := model.WaitlistEntry{Email: "a@b.io", Name: "A", TelegramHandle: "@alpha_trader", BotType: "sniper"}
	repo.On("AddWaitlistEntry", ctx, entry).Return(true, nil).Once()
	require.NoError(t, forms.JoinWaitlist(ctx, WaitlistInput{Email: "a@b.io", Name: "A", TelegramHandle: "@alpha_trader", BotType: "sniper"}))

	assert.ErrorIs(t, forms.JoinWaitlist(ctx, WaitlistInput{Email: "a@b.io", BotType: "laser"}), ErrValidation)
	assert.ErrorIs(t, forms.JoinWaitlist(ctx, WaitlistInput{Email: "a@b.io", TelegramHandle: "x"}), ErrValidation)

	repo.AssertExpectations(t)
}
