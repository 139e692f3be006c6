package ledger

import "time"

const EventsTopic = "ledger_events"

const (
	EventWorkerRegistered     = "WorkerRegistered"
	EventProductAdded         = "ProductAdded"
	EventStatusUpdated        = "StatusUpdated"
	EventProductSpoiled       = "ProductSpoiled"
	EventOwnershipTransferred = "OwnershipTransferred"
)

// Event is what the external analytics service consumes; the ledger only
// emits, it never aggregates scores itself.
type Event struct {
	Type        string    `json:"type"`
	At          time.Time `json:"at"`
	WorkerID    uint64    `json:"worker_id,omitempty"`
	WorkerName  string    `json:"worker_name,omitempty"`
	ProductID   uint64    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Location    string    `json:"location,omitempty"`
	Temperature int64     `json:"temperature,omitempty"`
	FromWorker  uint64    `json:"from_worker,omitempty"`
	ToWorker    uint64    `json:"to_worker,omitempty"`
}
