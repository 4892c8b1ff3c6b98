package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrInvalidAddress is returned when an address does not match its chain format.
	ErrInvalidAddress = errors.New("validation: invalid wallet address")
	// ErrUnsupportedChain is returned for a blockchain without a known address format.
	ErrUnsupportedChain = errors.New("validation: unsupported blockchain")
	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = errors.New("validation: invalid email")
	// ErrInvalidHandle is returned for a malformed Telegram handle.
	ErrInvalidHandle = errors.New("validation: invalid telegram handle")
)

// Supported blockchains.
const (
	ChainEthereum = "ethereum"
	ChainBSC      = "bsc"
	ChainPolygon  = "polygon"
	ChainSolana   = "solana"
	ChainBitcoin  = "bitcoin"
)

// Validator checks user-supplied identifiers before they reach storage.
type Validator struct {
	addressRegex map[string]*regexp.Regexp
	handleRegex  *regexp.Regexp
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	validatorOnce.Do(func() {
		evm := regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
		validatorInstance = &Validator{
			addressRegex: map[string]*regexp.Regexp{
				ChainEthereum: evm,
				ChainBSC:      evm,
				ChainPolygon:  evm,
				ChainSolana:   regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
				ChainBitcoin:  regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{25,39}|[13][1-9A-HJ-NP-Za-km-z]{25,34})$`),
			},
			handleRegex: regexp.MustCompile(`^@?[A-Za-z0-9_]{5,32}$`),
		}
	})
	return validatorInstance
}

// Chains lists the supported blockchains.
func Chains() []string {
	return []string{ChainEthereum, ChainBSC, ChainPolygon, ChainSolana, ChainBitcoin}
}

// WalletAddress validates address against the format of chain.
func (v *Validator) WalletAddress(chain, address string) error {
	re, ok := v.addressRegex[strings.ToLower(strings.TrimSpace(chain))]
	if !ok {
		return fmt.Errorf("%w: %q, supported: %s", ErrUnsupportedChain, chain, strings.Join(Chains(), ", "))
	}
	if !re.MatchString(strings.TrimSpace(address)) {
		return fmt.Errorf("%w for %s", ErrInvalidAddress, chain)
	}
	return nil
}

// Email validates a bare email address.
func (v *Validator) Email(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// TelegramHandle validates a Telegram username; empty is allowed.
func (v *Validator) TelegramHandle(handle string) error {
	if handle == "" {
		return nil
	}
	if !v.handleRegex.MatchString(handle) {
		return fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}
	return nil
}
