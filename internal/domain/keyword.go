package domain

// Keyword is a tenant-owned watch term.
// Corresponds to keywords table in PostgreSQL; (tenant_id, text) is unique
// where text is already normalized at add-time.
type Keyword struct {
	ID        int64  // PRIMARY KEY (serial)
	TenantID  string // server or user scope, mandatory partition key
	OwnerID   string // user who added the keyword, never a system identity
	Text      string // normalized keyword text
	CreatedAt int64  // record creation timestamp (ms)
}

// UndoAction identifies the reversible tenant operation recorded for undo.
type UndoAction string

const (
	UndoActionAdd    UndoAction = "ADD"
	UndoActionRemove UndoAction = "REMOVE"
	UndoActionClear  UndoAction = "CLEAR"
)

// String returns the string representation of UndoAction.
func (a UndoAction) String() string {
	return string(a)
}

// IsValid checks if the action is a valid value.
func (a UndoAction) IsValid() bool {
	return a == UndoActionAdd || a == UndoActionRemove || a == UndoActionClear
}

// UndoRecord holds the single most recent reversible action per tenant.
// Exactly one row per tenant; replaced on every recorded action, deleted
// once consumed by an undo.
type UndoRecord struct {
	TenantID   string     // PRIMARY KEY
	Action     UndoAction // ADD | REMOVE | CLEAR
	Keywords   []Keyword  // payload: the keywords the action touched
	RecordedAt int64      // Unix timestamp in milliseconds
}
