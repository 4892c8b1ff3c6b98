package model

import "time"

// GasBoost is the priority-fee tier of a simulated bot.
type GasBoost string

const (
	GasBoostLow    GasBoost = "low"
	GasBoostMedium GasBoost = "medium"
	GasBoostHigh   GasBoost = "high"
)

// Timeframe is the candle timeframe a bot trades on.
type Timeframe string

const (
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// BotConfig holds the user-tunable parameters of a simulated bot.
// It lives only for the duration of a session and is never persisted.
type BotConfig struct {
	Aggressiveness  float64   `json:"aggressiveness"`
	SafetyLevel     float64   `json:"safety_level"`
	MaxSlippage     float64   `json:"max_slippage"`
	GasBoost        GasBoost  `json:"gas_boost"`
	TargetDEX       []string  `json:"target_dex"`
	AutoTakeProfit  float64   `json:"auto_take_profit"`
	AutoStopLoss    float64   `json:"auto_stop_loss"`
	TradingPair     string    `json:"trading_pair"`
	Timeframe       Timeframe `json:"timeframe"`
	MaxTradesPerDay int       `json:"max_trades_per_day"`
	UseAntiMEV      bool      `json:"use_anti_mev"`
	UseSmartRouting bool      `json:"use_smart_routing"`
}

// Trade is a single synthetic trade produced by the simulator.
type Trade struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Token         string    `json:"token"`
	EntryPrice    float64   `json:"entry_price"`
	ExitPrice     float64   `json:"exit_price"`
	Volume        float64   `json:"volume"`
	ProfitLoss    float64   `json:"profit_loss"`
	ExecutionTime float64   `json:"execution_time_ms"`
	Exchange      string    `json:"exchange"`
}

// SimulationResults summarises one simulated run.
type SimulationResults struct {
	BotType              string    `json:"bot_type"`
	ROI                  float64   `json:"roi"`
	WinRate              float64   `json:"win_rate"`
	ObservedWinRate      float64   `json:"observed_win_rate"`
	TradesExecuted       int       `json:"trades_executed"`
	AverageExecutionTime float64   `json:"average_execution_time_ms"`
	Trades               []Trade   `json:"trades"`
	ProfitLoss           float64   `json:"profit_loss"`
	Timeframe            Timeframe `json:"timeframe"`
	StartBalance         float64   `json:"start_balance"`
	EndBalance           float64   `json:"end_balance"`
	Rescaled             bool      `json:"rescaled"`
}

// WalletData describes a mock "top trader" wallet shown in the copy-trading demo.
type WalletData struct {
	Address   string  `json:"address"`
	Name      string  `json:"name"`
	Chain     string  `json:"chain"`
	ROI24h    float64 `json:"roi_24h"`
	ROI7d     float64 `json:"roi_7d"`
	WinRate   float64 `json:"win_rate"`
	Followers int     `json:"followers"`
	Trades24h int     `json:"trades_24h"`
}

// PresetData is a copy-trading preset offered in the demo.
type PresetData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CopyPercent float64 `json:"copy_percent"`
	MaxPosition float64 `json:"max_position"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit  float64 `json:"take_profit"`
	SmartExit   bool    `json:"smart_exit"`
}

// Gateway is a server gateway plotted on the landing-page world map.
type Gateway struct {
	ID        string  `json:"id"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	LatencyMS int     `json:"latency_ms"`
}

// Profile is the account profile stored in user_profiles.
type Profile struct {
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	TelegramHandle string    `json:"telegram_handle" db:"telegram_handle"`
	Bio            string    `json:"bio" db:"bio"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// NotificationPreferences toggles the notification channels of an account.
type NotificationPreferences struct {
	Email        bool `json:"email"`
	Telegram     bool `json:"telegram"`
	TradeAlerts  bool `json:"trade_alerts"`
	WeeklyReport bool `json:"weekly_report"`
}

// Settings is the account settings row stored in user_settings.
type Settings struct {
	UserID                  string                  `json:"user_id" db:"user_id"`
	Theme                   string                  `json:"theme" db:"theme"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences" db:"notification_preferences"`
	Language                string                  `json:"language" db:"language"`
	UpdatedAt               time.Time               `json:"updated_at" db:"updated_at"`
}

// Wallet is a user wallet stored in user_wallets.
type Wallet struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	WalletAddress   string    `json:"wallet_address" db:"wallet_address"`
	WalletName      string    `json:"wallet_name" db:"wallet_name"`
	Blockchain      string    `json:"blockchain" db:"blockchain"`
	IsPrimary       bool      `json:"is_primary" db:"is_primary"`
	BalanceSnapshot float64   `json:"balance_snapshot" db:"balance_snapshot"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// NewsletterSignup is a newsletter subscription request.
type NewsletterSignup struct {
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WaitlistEntry is a registration on the product waitlist.
type WaitlistEntry struct {
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name" db:"name"`
	TelegramHandle string    `json:"telegram_handle" db:"telegram_handle"`
	BotType        string    `json:"bot_type" db:"bot_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Consent is the cookie-consent record of a visitor.
type Consent struct {
	Necessary       bool      `json:"necessary"`
	Functional      bool      `json:"functional"`
	Analytics       bool      `json:"analytics"`
	Marketing       bool      `json:"marketing"`
	Personalization bool      `json:"personalization"`
	Timestamp       time.Time `json:"timestamp"`
}
