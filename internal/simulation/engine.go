package simulation

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"botdemo/internal/config"
	"botdemo/internal/metrics"
	"botdemo/internal/model"
)

// Engine runs simulations on a shared generator.
type Engine struct {
	logger       *slog.Logger
	startBalance float64

	mu  sync.Mutex
	gen *Generator
}

// NewEngine creates a simulation engine. A zero seed draws from the clock.
func NewEngine(logger *slog.Logger, cfg config.SimulationConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	startBalance := cfg.StartBalance
	if startBalance <= 0 {
		startBalance = DefaultStartBalance
	}

	return &Engine{
		logger:       logger,
		startBalance: startBalance,
		gen:          NewGenerator(rand.New(rand.NewSource(seed))).WithStartBalance(startBalance),
	}
}

// Run simulates a bot of the given type. A nil cfg uses the bot defaults.
func (e *Engine) Run(ctx context.Context, botType BotType, cfg *model.BotConfig) (model.SimulationResults, error) {
	if err := ctx.Err(); err != nil {
		return model.SimulationResults{}, err
	}

	var botCfg model.BotConfig
	if cfg == nil {
		def, err := DefaultConfig(botType)
		if err != nil {
			return model.SimulationResults{}, err
		}
		botCfg = def
	} else {
		botCfg = *cfg
		if _, err := Profile(botType); err != nil {
			return model.SimulationResults{}, err
		}
		if err := ValidateConfig(botCfg); err != nil {
			return model.SimulationResults{}, err
		}
	}

	roi, err := TargetROI(botType, botCfg)
	if err != nil {
		return model.SimulationResults{}, err
	}

	e.mu.Lock()
	trades, rescaled := e.gen.GenerateTrades(botType, botCfg, roi)
	e.mu.Unlock()

	if !rescaled {
		metrics.SimulationsUnscaled.Inc()
		e.logger.Warn("Simulated batch had zero raw return, rescaling skipped",
			"botType", botType,
			"targetROI", roi,
		)
	}

	results := buildResults(botType, botCfg, trades, roi, e.startBalance)
	results.Rescaled = rescaled

	metrics.SimulationsRun.WithLabelValues(string(botType)).Inc()
	metrics.SimulationROI.WithLabelValues(string(botType)).Observe(roi)
	e.logger.Debug("Simulation completed",
		"botType", botType,
		"roi", roi,
		"trades", results.TradesExecuted,
		"profitLoss", results.ProfitLoss,
	)
	return results, nil
}
