package server

import (
	"time"
)

// AuditLogEntry captures one API call against the ledger. Entries are batched
// by the AuditManager and emitted asynchronously so request latency never pays
// for audit output.
type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Handler    string    `json:"handler"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Caller     string    `json:"caller,omitempty"`
	AdminUser  string    `json:"admin_user,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	WorkerID   string    `json:"worker_id,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}
