package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"botdemo/internal/simulation"
)

var (
	simulateBot     string
	simulateSeed    int64
	simulateCompact bool
)

// simulateCmd runs one simulation and prints the results as JSON
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a bot simulation and print the results",
	Long: `Run one simulated bot with its default configuration and print the
results as JSON. A fixed seed reproduces the same trades.

Examples:
  botdemo simulate --bot sniper --seed 7
  botdemo simulate --bot trend --compact`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateBot, "bot", string(simulation.BotSniper), "Bot type (sniper|arbitrage|market-maker|trend)")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Random seed; 0 uses the configured seed or the clock")
	simulateCmd.Flags().BoolVar(&simulateCompact, "compact", false, "Print single-line JSON")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if simulateSeed != 0 {
		cfg.Simulation.Seed = simulateSeed
	}

	engine := simulation.NewEngine(logger, cfg.Simulation)
	results, err := engine.Run(cmd.Context(), simulation.BotType(simulateBot), nil)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !simulateCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}
