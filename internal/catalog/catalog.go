// Package catalog holds the read-only reference data shown by the demos:
// top-trader wallets, copy-trading presets and server gateways.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"botdemo/internal/model"
)

// ErrUnknownSortKey is returned for a wallet sort key outside SortKeys.
var ErrUnknownSortKey = errors.New("catalog: unknown sort key")

// SortKey selects the wallet ranking.
type SortKey string

const (
	SortROI24h    SortKey = "roi24h"
	SortROI7d     SortKey = "roi7d"
	SortWinRate   SortKey = "winRate"
	SortFollowers SortKey = "followers"
)

// SortKeys lists the supported wallet sort keys.
var SortKeys = []SortKey{SortROI24h, SortROI7d, SortWinRate, SortFollowers}

var wallets = []model.WalletData{
	{
		Address:   "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Name:      "SolanaWhale42",
		Chain:     "solana",
		ROI24h:    18.4,
		ROI7d:     94.2,
		WinRate:   78,
		Followers: 1243,
		Trades24h: 37,
	},
	{
		Address:   "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		Name:      "EthTrader365",
		Chain:     "ethereum",
		ROI24h:    12.5,
		ROI7d:     67.8,
		WinRate:   82,
		Followers: 876,
		Trades24h: 21,
	},
	{
		Address:   "DYw8jCTfwHNRJhhmFcbXvVDTqWMEVFBX6ZKUmG5CNSKK",
		Name:      "PixelDegen",
		Chain:     "solana",
		ROI24h:    32.7,
		ROI7d:     142.5,
		WinRate:   64,
		Followers: 2198,
		Trades24h: 58,
	},
}

var presets = []model.PresetData{
	{ID: "conservative", Name: "Conservative", Description: "Small mirrored size with tight stops", CopyPercent: 10, MaxPosition: 100, StopLoss: 5, TakeProfit: 20, SmartExit: true},
	{ID: "balanced", Name: "Balanced", Description: "Moderate size with standard exits", CopyPercent: 25, MaxPosition: 250, StopLoss: 10, TakeProfit: 40, SmartExit: true},
	{ID: "aggressive", Name: "Aggressive", Description: "Large mirrored size for high conviction wallets", CopyPercent: 50, MaxPosition: 500, StopLoss: 20, TakeProfit: 100, SmartExit: true},
	{ID: "degen", Name: "Full Degen", Description: "Mirror every trade at full size", CopyPercent: 100, MaxPosition: 1000, StopLoss: 35, TakeProfit: 300, SmartExit: false},
}

var gateways = []model.Gateway{
	{ID: "fra", City: "Frankfurt", Region: "eu-central", Latitude: 50.1109, Longitude: 8.6821, LatencyMS: 4},
	{ID: "ams", City: "Amsterdam", Region: "eu-west", Latitude: 52.3676, Longitude: 4.9041, LatencyMS: 5},
	{ID: "lon", City: "London", Region: "eu-west", Latitude: 51.5074, Longitude: -0.1278, LatencyMS: 6},
	{ID: "nyc", City: "New York", Region: "us-east", Latitude: 40.7128, Longitude: -74.006, LatencyMS: 7},
	{ID: "sfo", City: "San Francisco", Region: "us-west", Latitude: 37.7749, Longitude: -122.4194, LatencyMS: 9},
	{ID: "sgp", City: "Singapore", Region: "ap-southeast", Latitude: 1.3521, Longitude: 103.8198, LatencyMS: 8},
	{ID: "tyo", City: "Tokyo", Region: "ap-northeast", Latitude: 35.6762, Longitude: 139.6503, LatencyMS: 8},
	{ID: "syd", City: "Sydney", Region: "ap-southeast", Latitude: -33.8688, Longitude: 151.2093, LatencyMS: 12},
}

// Wallets returns a copy of the wallet catalog in catalog order.
func Wallets() []model.WalletData {
	return append([]model.WalletData(nil), wallets...)
}

// Wallet looks up a catalog wallet by address.
func Wallet(address string) (model.WalletData, bool) {
	for _, w := range wallets {
		if w.Address == address {
			return w, true
		}
	}
	return model.WalletData{}, false
}

// SortedWallets returns the catalog ordered by key, highest first.
// Ties fall back to the wallet name so the order is total.
func SortedWallets(key SortKey) ([]model.WalletData, error) {
	metric, err := sortMetric(key)
	if err != nil {
		return nil, err
	}
	out := Wallets()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := metric(out[i]), metric(out[j])
		if a != b {
			return a > b
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func sortMetric(key SortKey) (func(model.WalletData) float64, error) {
	switch key {
	case SortROI24h:
		return func(w model.WalletData) float64 { return w.ROI24h }, nil
	case SortROI7d:
		return func(w model.WalletData) float64 { return w.ROI7d }, nil
	case SortWinRate:
		return func(w model.WalletData) float64 { return w.WinRate }, nil
	case SortFollowers:
		return func(w model.WalletData) float64 { return float64(w.Followers) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
}

// Presets returns a copy of the copy-trading presets.
func Presets() []model.PresetData {
	return append([]model.PresetData(nil), presets...)
}

// Preset looks up a preset by id.
func Preset(id string) (model.PresetData, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return model.PresetData{}, false
}

// Gateways returns a copy of the gateway catalog.
func Gateways() []model.Gateway {
	return append([]model.Gateway(nil), gateways...)
}
