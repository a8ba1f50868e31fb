package entity

// AuditLogFilter narrows the audit trail; empty fields match everything.
type AuditLogFilter struct {
	Actor  string
	Action string
	Limit  int
	Offset int
}
