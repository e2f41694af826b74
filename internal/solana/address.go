package solana

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// WSOLMint is the wrapped SOL mint address, used as the reference quote asset
// when ranking liquidity pools.
const WSOLMint = "So11111111111111111111111111111111111111112"

var (
	// ErrInvalidAddress is returned when a string is not a structurally valid
	// Solana address. Structural only: the address may still be unknown on chain.
	ErrInvalidAddress = errors.New("invalid solana address")
	// ErrNoAddresses is returned when a batch operation receives no addresses.
	ErrNoAddresses = errors.New("no token addresses provided")
)

// Base58-encoded 32-byte public keys land in this length range.
const (
	minAddressLen = 32
	maxAddressLen = 44
)

// Validate checks that addr is a syntactically valid Solana address: base58
// alphabet, plausible length, and a 32-byte decoded payload.
func Validate(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if len(addr) < minAddressLen || len(addr) > maxAddressLen {
		return fmt.Errorf("%w: %q has length %d", ErrInvalidAddress, addr, len(addr))
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidAddress, addr, len(raw))
	}
	return nil
}

// ValidateAll applies Validate to each address, short-circuiting on the first
// failure. An empty slice is ErrNoAddresses.
func ValidateAll(addrs []string) error {
	if len(addrs) == 0 {
		return ErrNoAddresses
	}
	for _, a := range addrs {
		if err := Validate(a); err != nil {
			return err
		}
	}
	return nil
}
