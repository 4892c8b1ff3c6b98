package simulation

import (
	"math"
	"time"

	"github.com/google/uuid"

	"botdemo/internal/model"
)

// DefaultStartBalance is the notional balance every simulation starts from.
const DefaultStartBalance = 1000.0

// zeroROI is the raw return below which a batch is not rescaled.
const zeroROI = 1e-9

// Rand is the source of randomness used by the generator.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

var (
	tokenPrefixes = []string{"PEPE", "DOGE", "SHIB", "FLOKI", "BONK", "WIF", "MOON", "APE", "CAT", "FROG"}
	tokenSuffixes = []string{"INU", "AI", "X", "MAX", "COIN", "SWAP", "FI", "GPT"}
	exchanges     = []string{"Uniswap", "PancakeSwap", "Raydium", "Jupiter"}

	// priceBuckets are the log-scale entry price ranges, $0.0001 to $100.
	priceBuckets = [][2]float64{
		{0.0001, 0.001},
		{0.001, 0.01},
		{0.01, 1},
		{1, 10},
		{10, 100},
	}
)

// Generator produces synthetic trade batches.
type Generator struct {
	rng          Rand
	now          func() time.Time
	startBalance float64
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Rand) *Generator {
	return &Generator{
		rng:          rng,
		now:          func() time.Time { return time.Now().UTC() },
		startBalance: DefaultStartBalance,
	}
}

// WithNow allows injecting deterministic time for tests.
func (g *Generator) WithNow(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithStartBalance overrides the notional balance used for the rescaling step.
func (g *Generator) WithStartBalance(balance float64) *Generator {
	if balance > 0 {
		g.startBalance = balance
	}
	return g
}

// GenerateTrades produces 10 to 24 trades for the bot type and rescales their
// profit so that the batch return equals targetROI. The second result reports
// whether rescaling happened; it is skipped when the raw batch return is zero.
func (g *Generator) GenerateTrades(botType BotType, cfg model.BotConfig, targetROI float64) ([]model.Trade, bool) {
	count := 10 + g.rng.Intn(15)
	winProbability := 0.65 + cfg.SafetyLevel/1000
	step := timeframeStep(cfg.Timeframe)
	now := g.now()

	trades := make([]model.Trade, count)
	for i := range trades {
		var pct float64
		if g.rng.Float64() < winProbability {
			pct = 2 + g.rng.Float64()*15
		} else {
			pct = -(1 + g.rng.Float64()*8)
		}

		bucket := priceBuckets[g.rng.Intn(len(priceBuckets))]
		entry := bucket[0] + g.rng.Float64()*(bucket[1]-bucket[0])
		volume := 50 + g.rng.Float64()*950

		trades[i] = model.Trade{
			ID:            g.tradeID(),
			Timestamp:     now.Add(-time.Duration(count-i) * step),
			Token:         g.tokenSymbol(),
			EntryPrice:    entry,
			ExitPrice:     entry * (1 + pct/100),
			Volume:        volume,
			ProfitLoss:    volume * pct / 100,
			ExecutionTime: g.executionTime(botType),
			Exchange:      exchanges[g.rng.Intn(len(exchanges))],
		}
	}

	return trades, Rescale(trades, targetROI, g.startBalance)
}

// Rescale multiplies every trade's profit by targetROI/currentROI, where
// currentROI is the batch profit relative to startBalance, and recomputes exit
// prices from the adjusted profit. It returns false and leaves the trades
// untouched when currentROI is zero or the factor is not finite.
func Rescale(trades []model.Trade, targetROI, startBalance float64) bool {
	currentROI := TotalProfitLoss(trades) / startBalance * 100
	if math.Abs(currentROI) < zeroROI {
		return false
	}
	factor := targetROI / currentROI
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}

	for i := range trades {
		t := &trades[i]
		t.ProfitLoss *= factor
		t.ExitPrice = t.EntryPrice * (1 + t.ProfitLoss/t.Volume)
	}
	return true
}

// TotalProfitLoss sums the profit of all trades.
func TotalProfitLoss(trades []model.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.ProfitLoss
	}
	return sum
}

func (g *Generator) tokenSymbol() string {
	if g.rng.Float64() < 0.7 {
		return tokenPrefixes[g.rng.Intn(len(tokenPrefixes))]
	}
	return tokenPrefixes[g.rng.Intn(len(tokenPrefixes))] + tokenSuffixes[g.rng.Intn(len(tokenSuffixes))]
}

// tradeID draws a version 4 uuid from the generator's rng, so a seeded
// generator repeats its ids.
func (g *Generator) tradeID() string {
	return uuid.Must(uuid.NewRandomFromReader(rngReader{g.rng})).String()
}

type rngReader struct{ rng Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Intn(256))
	}
	return len(p), nil
}

func (g *Generator) executionTime(botType BotType) float64 {
	if botType == BotSniper {
		return 5 + g.rng.Float64()*15
	}
	return 50 + g.rng.Float64()*200
}

func timeframeStep(tf model.Timeframe) time.Duration {
	switch tf {
	case model.Timeframe5m:
		return 5 * time.Minute
	case model.Timeframe15m:
		return 15 * time.Minute
	case model.Timeframe4h:
		return 4 * time.Hour
	case model.Timeframe1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
