package simulation

import "botdemo/internal/model"

const (
	sniperExecutionMS  = 8
	defaultExecutionMS = 120
)

// BuildResults summarises a trade batch against the default start balance.
//
// WinRate and AverageExecutionTime are presentation constants derived from the
// config and bot type, not from the trades. ObservedWinRate carries the share
// of profitable trades.
func BuildResults(botType BotType, cfg model.BotConfig, trades []model.Trade, roi float64) model.SimulationResults {
	return buildResults(botType, cfg, trades, roi, DefaultStartBalance)
}

func buildResults(botType BotType, cfg model.BotConfig, trades []model.Trade, roi, startBalance float64) model.SimulationResults {
	avgExec := float64(defaultExecutionMS)
	if botType == BotSniper {
		avgExec = sniperExecutionMS
	}

	return model.SimulationResults{
		BotType:              string(botType),
		ROI:                  roi,
		WinRate:              65 + cfg.SafetyLevel/10,
		ObservedWinRate:      observedWinRate(trades),
		TradesExecuted:       len(trades),
		AverageExecutionTime: avgExec,
		Trades:               trades,
		ProfitLoss:           TotalProfitLoss(trades),
		Timeframe:            cfg.Timeframe,
		StartBalance:         startBalance,
		EndBalance:           startBalance * (1 + roi/100),
	}
}

func observedWinRate(trades []model.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.ProfitLoss > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}
