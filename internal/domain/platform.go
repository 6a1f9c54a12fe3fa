package domain

// Platform represents the launch platform a token was created on.
type Platform string

const (
	PlatformPumpFun  Platform = "PUMP_FUN"
	PlatformLetsBonk Platform = "LETS_BONK"
	PlatformOther    Platform = "OTHER"
)

// String returns the string representation of Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid checks if the platform is a valid value.
func (p Platform) IsValid() bool {
	return p == PlatformPumpFun || p == PlatformLetsBonk || p == PlatformOther
}
