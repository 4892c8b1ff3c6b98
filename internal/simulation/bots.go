package simulation

import (
	"errors"
	"fmt"
	"sort"

	"botdemo/internal/model"
)

var (
	// ErrUnknownBotType is returned for a bot type outside the catalog.
	ErrUnknownBotType = errors.New("simulation: unknown bot type")
	// ErrInvalidConfig is returned when a BotConfig is out of range.
	ErrInvalidConfig = errors.New("simulation: invalid bot config")
)

// BotType names one of the simulated bot variants.
type BotType string

const (
	BotSniper      BotType = "sniper"
	BotArbitrage   BotType = "arbitrage"
	BotMarketMaker BotType = "market-maker"
	BotTrend       BotType = "trend"
)

// BotProfile is the catalog entry of a bot type.
type BotProfile struct {
	Type        BotType         `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BaseROI     float64         `json:"base_roi"`
	Defaults    model.BotConfig `json:"defaults"`
}

var profiles = map[BotType]BotProfile{
	BotSniper: {
		Type:        BotSniper,
		Name:        "Sniper Bot",
		Description: "Enters new liquidity pools within the first blocks",
		BaseROI:     42,
		Defaults: model.BotConfig{
			Aggressiveness:  70,
			SafetyLevel:     50,
			MaxSlippage:     12,
			GasBoost:        model.GasBoostHigh,
			TargetDEX:       []string{"Raydium", "Jupiter"},
			AutoTakeProfit:  100,
			AutoStopLoss:    25,
			TradingPair:     "SOL/USDC",
			Timeframe:       model.Timeframe5m,
			MaxTradesPerDay: 50,
			UseAntiMEV:      true,
			UseSmartRouting: true,
		},
	},
	BotArbitrage: {
		Type:        BotArbitrage,
		Name:        "Arbitrage Bot",
		Description: "Captures price gaps between venues",
		BaseROI:     18,
		Defaults: model.BotConfig{
			Aggressiveness:  40,
			SafetyLevel:     70,
			MaxSlippage:     0.5,
			GasBoost:        model.GasBoostMedium,
			TargetDEX:       []string{"Uniswap", "SushiSwap", "PancakeSwap"},
			AutoTakeProfit:  5,
			AutoStopLoss:    2,
			TradingPair:     "ETH/USDT",
			Timeframe:       model.Timeframe15m,
			MaxTradesPerDay: 200,
			UseAntiMEV:      true,
			UseSmartRouting: true,
		},
	},
	BotMarketMaker: {
		Type:        BotMarketMaker,
		Name:        "Market Maker Bot",
		Description: "Quotes both sides of the book and earns the spread",
		BaseROI:     12,
		Defaults: model.BotConfig{
			Aggressiveness:  30,
			SafetyLevel:     80,
			MaxSlippage:     0.3,
			GasBoost:        model.GasBoostLow,
			TargetDEX:       []string{"Uniswap"},
			AutoTakeProfit:  3,
			AutoStopLoss:    1.5,
			TradingPair:     "ETH/USDC",
			Timeframe:       model.Timeframe1h,
			MaxTradesPerDay: 500,
			UseAntiMEV:      false,
			UseSmartRouting: true,
		},
	},
	BotTrend: {
		Type:        BotTrend,
		Name:        "Trend Bot",
		Description: "Follows momentum on higher timeframes",
		BaseROI:     27,
		Defaults: model.BotConfig{
			Aggressiveness:  55,
			SafetyLevel:     60,
			MaxSlippage:     1,
			GasBoost:        model.GasBoostMedium,
			TargetDEX:       []string{"Uniswap", "Curve"},
			AutoTakeProfit:  30,
			AutoStopLoss:    10,
			TradingPair:     "BTC/USDT",
			Timeframe:       model.Timeframe4h,
			MaxTradesPerDay: 10,
			UseAntiMEV:      true,
			UseSmartRouting: false,
		},
	},
}

// Profile returns the catalog entry for a bot type.
func Profile(t BotType) (BotProfile, error) {
	p, ok := profiles[t]
	if !ok {
		return BotProfile{}, fmt.Errorf("%w: %q", ErrUnknownBotType, t)
	}
	p.Defaults.TargetDEX = append([]string(nil), p.Defaults.TargetDEX...)
	return p, nil
}

// Profiles lists all bot types ordered by name.
func Profiles() []BotProfile {
	out := make([]BotProfile, 0, len(profiles))
	for t := range profiles {
		p, _ := Profile(t)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// DefaultConfig returns the default BotConfig of a bot type.
func DefaultConfig(t BotType) (model.BotConfig, error) {
	p, err := Profile(t)
	if err != nil {
		return model.BotConfig{}, err
	}
	return p.Defaults, nil
}

// ConfigImpact is the ROI adjustment contributed by the risk sliders.
func ConfigImpact(cfg model.BotConfig) float64 {
	return cfg.Aggressiveness/100*20 - cfg.SafetyLevel/100*10
}

// TargetROI is the base ROI of the bot type adjusted by the config sliders.
func TargetROI(t BotType, cfg model.BotConfig) (float64, error) {
	p, ok := profiles[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBotType, t)
	}
	return p.BaseROI + ConfigImpact(cfg), nil
}

var (
	gasBoosts  = map[model.GasBoost]bool{model.GasBoostLow: true, model.GasBoostMedium: true, model.GasBoostHigh: true}
	timeframes = map[model.Timeframe]bool{
		model.Timeframe5m: true, model.Timeframe15m: true, model.Timeframe1h: true,
		model.Timeframe4h: true, model.Timeframe1d: true,
	}
)

// ValidateConfig checks the ranges and enums of a BotConfig.
func ValidateConfig(cfg model.BotConfig) error {
	switch {
	case cfg.Aggressiveness < 0 || cfg.Aggressiveness > 100:
		return fmt.Errorf("%w: aggressiveness must be between 0 and 100", ErrInvalidConfig)
	case cfg.SafetyLevel < 0 || cfg.SafetyLevel > 100:
		return fmt.Errorf("%w: safety level must be between 0 and 100", ErrInvalidConfig)
	case cfg.MaxSlippage < 0 || cfg.MaxSlippage > 50:
		return fmt.Errorf("%w: max slippage must be between 0 and 50", ErrInvalidConfig)
	case !gasBoosts[cfg.GasBoost]:
		return fmt.Errorf("%w: gas boost %q", ErrInvalidConfig, cfg.GasBoost)
	case len(cfg.TargetDEX) == 0:
		return fmt.Errorf("%w: at least one target DEX is required", ErrInvalidConfig)
	case cfg.AutoTakeProfit < 0 || cfg.AutoTakeProfit > 1000:
		return fmt.Errorf("%w: take profit must be between 0 and 1000", ErrInvalidConfig)
	case cfg.AutoStopLoss < 0 || cfg.AutoStopLoss > 100:
		return fmt.Errorf("%w: stop loss must be between 0 and 100", ErrInvalidConfig)
	case cfg.TradingPair == "":
		return fmt.Errorf("%w: trading pair is required", ErrInvalidConfig)
	case !timeframes[cfg.Timeframe]:
		return fmt.Errorf("%w: timeframe %q", ErrInvalidConfig, cfg.Timeframe)
	case cfg.MaxTradesPerDay < 1 || cfg.MaxTradesPerDay > 1000:
		return fmt.Errorf("%w: max trades per day must be between 1 and 1000", ErrInvalidConfig)
	}
	return nil
}
