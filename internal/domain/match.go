package domain

// Match pairs a token event with the tenant keyword it triggered.
// Matches are ephemeral: only the (address, tenant, keyword text) tuple is
// persisted, in the notification log, to keep dispatch idempotent.
type Match struct {
	Event   *TokenEvent
	Keyword Keyword
}

// NotificationRecord marks one delivered (or in-flight) notification.
// Corresponds to notification_log table in PostgreSQL with a unique
// constraint on (address, tenant_id, keyword_text).
type NotificationRecord struct {
	Address     string
	TenantID    string
	KeywordText string // normalized keyword text
	NotifiedAt  int64  // Unix timestamp in milliseconds
}
