package domain

import "strings"

// ResolutionStatus tracks the lifecycle of a token event's name.
type ResolutionStatus string

const (
	ResolutionResolved ResolutionStatus = "RESOLVED"
	ResolutionPending  ResolutionStatus = "PENDING"
	ResolutionFailed   ResolutionStatus = "FAILED"
)

// String returns the string representation of ResolutionStatus.
func (s ResolutionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s ResolutionStatus) IsValid() bool {
	return s == ResolutionResolved || s == ResolutionPending || s == ResolutionFailed
}

// TokenEvent represents a single token launch detection.
// Corresponds to token_events table in PostgreSQL. The address is globally
// unique: a second sighting of the same address is a duplicate, never a merge.
type TokenEvent struct {
	Address    string           // PRIMARY KEY, mint address
	Platform   Platform         // launch platform
	RawName    *string          // token name (nullable until resolved)
	DetectedAt int64            // first sighting, Unix timestamp in milliseconds
	Status     ResolutionStatus // RESOLVED | PENDING | FAILED
	RetryCount int              // resolution attempts so far
	CreatedAt  int64            // record creation timestamp (ms)
}

// Name returns the event's name, or empty string if still unresolved.
func (e *TokenEvent) Name() string {
	if e.RawName == nil {
		return ""
	}
	return *e.RawName
}

// DisplayName returns the best human-readable name for the event,
// falling back to a placeholder built from the address suffix.
func (e *TokenEvent) DisplayName() string {
	if name := e.Name(); !IsPlaceholderName(name) {
		return name
	}
	suffix := e.Address
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "Unnamed Token " + suffix
}

// placeholderPrefix marks synthetic names produced before resolution.
const placeholderPrefix = "unnamed"

// IsPlaceholderName reports whether name carries no real information.
// Empty strings, the "Unknown" sentinel returned by some metadata APIs
// and generated "Unnamed Token ..." stand-ins all count as placeholders.
func IsPlaceholderName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	if lower == "unknown" {
		return true
	}
	return strings.HasPrefix(lower, placeholderPrefix)
}
