package domain

// ChannelBinding maps a tenant to its outbound notification endpoint.
// Corresponds to channel_bindings table in PostgreSQL; one row per tenant,
// overwritten on reconfiguration.
type ChannelBinding struct {
	TenantID     string // PRIMARY KEY
	Endpoint     string // webhook URL
	ConfiguredBy string // user holding elevated tenant privilege
	UpdatedAt    int64  // Unix timestamp in milliseconds
}
