// Package resolver fills in names for token events that arrived unnamed,
// polling ranked external metadata sources on a background sweep.
package resolver

import (
	"context"
	"errors"
)

// ErrNoName is returned by a source that answered but had no usable name
// for the address. Distinguished from transport errors only for logging;
// both cause fallthrough to the next source.
var ErrNoName = errors.New("no usable name for address")

// NameSource resolves a mint address to a token name. Sources are consulted
// in configured order; the first usable answer wins.
type NameSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Resolve returns the token name for the address. Placeholder names
	// must be rejected with ErrNoName, never returned.
	Resolve(ctx context.Context, address string) (string, error)
}
