// Package store persists jobs, transfer watchers, and wallet locks for
// the refresh orchestrator.
package store

import "time"

// WalletID identifies the wallet a job, watcher, or lock belongs to.
// Sharding key is XpubVan; the other two fields travel alongside it
// as opaque identifiers handed back to the node API untouched.
type WalletID struct {
	XpubVan           string
	XpubCol           string
	MasterFingerprint string
}

// Trigger records why a job was enqueued.
type Trigger string

const (
	TriggerSync           Trigger = "sync"
	TriggerAssetSent      Trigger = "asset_sent"
	TriggerInvoiceCreated Trigger = "invoice_created"
	TriggerManual         Trigger = "manual"
	// TriggerRecovery marks jobs enqueued by Store.Recover on startup,
	// distinguishing them from externally requested work in operator
	// queries and metrics.
	TriggerRecovery Trigger = "recovery"
)

// JobStatus is the lifecycle state of a Job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is a unit of work: refresh one wallet's state.
type Job struct {
	ID          string
	Wallet      WalletID
	Trigger     Trigger
	RecipientID string // set for invoice_created jobs, empty otherwise
	AssetID     string // optional hint; the handler still lists assets itself
	Status      JobStatus
	Attempts    int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WatcherStatus is the lifecycle state of a Watcher.
type WatcherStatus string

const (
	WatcherWatching WatcherStatus = "watching"
	WatcherSettled  WatcherStatus = "settled"
	WatcherFailed   WatcherStatus = "failed"
	WatcherExpired  WatcherStatus = "expired"
)

// Watcher tracks a single transfer on a single wallet until it
// reaches a terminal state. Terminal watchers are retained, never
// deleted.
type Watcher struct {
	ID           string
	Wallet       WalletID
	RecipientID  string
	AssetID      string // discovered lazily when the watcher began without one
	Status       WatcherStatus
	RefreshCount int
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WalletLock is a TTL-based mutual exclusion row: one wallet may have
// at most one unexpired lock at a time.
type WalletLock struct {
	XpubVan   string
	Holder    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
