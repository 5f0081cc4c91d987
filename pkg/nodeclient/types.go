// Package nodeclient talks to the HTTP node whose wallet state this
// orchestrator keeps in sync: refresh, listassets, listtransfers, and
// failtransfers.
package nodeclient

import "time"

// Transfer statuses the node reports. TerminalStatus reports whether
// a transfer has reached one of these.
const (
	StatusWaitingCounterparty = "WAITING_COUNTERPARTY"
	StatusSettled             = "SETTLED"
	StatusFailed              = "FAILED"
	StatusExpired             = "EXPIRED"
)

// Transfer kinds relevant to the cancellation predicate.
const (
	KindReceiveBlind = "RECEIVE_BLIND"
)

// Transfer is one pending or resolved asset transfer as reported by
// the node's listtransfers call.
type Transfer struct {
	RecipientID      string
	AssetID          string // empty for a detached transfer
	BatchTransferIdx int64
	Status           string
	Kind             string
	Expiration       time.Time
}

// TerminalStatus reports whether a transfer has reached a state from
// which no further change is expected without operator action.
func (t Transfer) TerminalStatus() bool {
	switch t.Status {
	case StatusSettled, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}

// WatcherStatusFor maps a terminal transfer status onto the watcher
// status it should drive the watcher row to.
func (t Transfer) WatcherStatusFor() string {
	switch t.Status {
	case StatusSettled:
		return "settled"
	case StatusFailed:
		return "failed"
	case StatusExpired:
		return "expired"
	default:
		return ""
	}
}

// Asset is one asset known to the wallet, as reported by listassets.
type Asset struct {
	AssetID string
}
