package entity

// ActivityLog is an append-only audit line. Every mutating operation and
// every reconciliation sweep writes one.
type ActivityLog struct {
	BaseSimple
	Message string `db:"message"`
}
