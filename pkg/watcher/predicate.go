package watcher

import (
	"time"

	"github.com/rgbnode/refreshd/pkg/nodeclient"
)

// CancellationEligible implements the cancellation predicate shared
// by the Job Handler and the Transfer Watcher: a transfer may be
// explicitly cancelled only when all three conditions hold.
func CancellationEligible(t nodeclient.Transfer, now time.Time, durationRcvTransfer time.Duration) bool {
	if t.Status != nodeclient.StatusWaitingCounterparty {
		return false
	}
	if !t.Expiration.Before(now) {
		return false
	}
	if t.Kind == nodeclient.KindReceiveBlind {
		return true
	}
	return t.Expiration.Add(durationRcvTransfer).Before(now)
}
