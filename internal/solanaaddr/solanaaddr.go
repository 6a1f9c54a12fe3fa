// Package solanaaddr validates Solana mint addresses before they enter the
// pipeline.
package solanaaddr

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const publicKeyLength = 32

var (
	// ErrInvalidAddress is returned when the string is not base58 or does
	// not decode to 32 bytes.
	ErrInvalidAddress = errors.New("invalid solana address")

	// ErrNotOnCurve is returned when the decoded point is not on the
	// ed25519 curve. Mints created by pump.fun and letsbonk.fun are
	// keypair-generated, so off-curve addresses cannot be launches.
	ErrNotOnCurve = errors.New("address not on ed25519 curve")
)

// Validate checks that addr is a well-formed Solana public key.
func Validate(addr string) error {
	if addr == "" {
		return ErrInvalidAddress
	}

	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != publicKeyLength {
		return fmt.Errorf("%w: decoded to %d bytes", ErrInvalidAddress, len(decoded))
	}

	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return ErrNotOnCurve
	}
	return nil
}

// IsValid reports whether addr passes Validate.
func IsValid(addr string) bool {
	return Validate(addr) == nil
}
