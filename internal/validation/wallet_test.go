package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletAddress(t *testing.T) {
	v := Default()
	evm := "0xAbC" + strings.Repeat("d", 37)

	tests := []struct {
		name    string
		chain   string
		address string
		wantErr error
	}{
		{"ethereum valid", ChainEthereum, evm, nil},
		{"bsc valid", ChainBSC, evm, nil},
		{"polygon valid", ChainPolygon, evm, nil},
		{"chain case-insensitive", "Ethereum", evm, nil},
		{"evm 39 chars", ChainEthereum, "0x" + strings.Repeat("a", 39), ErrInvalidAddress},
		{"evm 41 chars", ChainEthereum, "0x" + strings.Repeat("a", 41), ErrInvalidAddress},
		{"evm non-hex", ChainEthereum, "0x" + strings.Repeat("g", 40), ErrInvalidAddress},
		{"evm no prefix", ChainEthereum, strings.Repeat("a", 42), ErrInvalidAddress},
		{"solana valid", ChainSolana, "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", nil},
		{"solana with zero", ChainSolana, "0xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", ErrInvalidAddress},
		{"solana too short", ChainSolana, strings.Repeat("A", 31), ErrInvalidAddress},
		{"solana too long", ChainSolana, strings.Repeat("A", 45), ErrInvalidAddress},
		{"bitcoin bech32", ChainBitcoin, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", nil},
		{"bitcoin p2pkh", ChainBitcoin, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", nil},
		{"bitcoin p2sh", ChainBitcoin, "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", nil},
		{"bitcoin bad prefix", ChainBitcoin, "2BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", ErrInvalidAddress},
		{"unsupported chain", "dogecoin", evm, ErrUnsupportedChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.WalletAddress(tt.chain, tt.address)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWalletAddress_UnsupportedChainListsChains(t *testing.T) {
	err := Default().WalletAddress("dogecoin", "D8vFz4p1L37jdg47HXKtSHA5uYLYxbGgPD")
	assert.ErrorIs(t, err, ErrUnsupportedChain)
	for _, chain := range Chains() {
		assert.Contains(t, err.Error(), chain)
	}
}

func TestEmail(t *testing.T) {
	v := Default()
	assert.NoError(t, v.Email("trader@example.com"))
	assert.ErrorIs(t, v.Email("not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, v.Email("Trader <trader@example.com>"), ErrInvalidEmail)
	assert.ErrorIs(t, v.Email(""), ErrInvalidEmail)
}

func TestTelegramHandle(t *testing.T) {
	v := Default()
	assert.NoError(t, v.TelegramHandle(""))
	assert.NoError(t, v.TelegramHandle("@pixel_degen"))
	assert.NoError(t, v.TelegramHandle("whale42"))
	assert.ErrorIs(t, v.TelegramHandle("@abc"), ErrInvalidHandle)
	assert.ErrorIs(t, v.TelegramHandle("bad handle"), ErrInvalidHandle)
}
