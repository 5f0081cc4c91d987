package watcher_test

import (
	"testing"
	"time"

	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/watcher"
)

func TestCancellationEligible(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	const durationRcvTransfer = time.Hour

	cases := []struct {
		name string
		t    nodeclient.Transfer
		want bool
	}{
		{
			name: "not waiting counterparty",
			t: nodeclient.Transfer{
				Status:     nodeclient.StatusSettled,
				Kind:       nodeclient.KindReceiveBlind,
				Expiration: now.Add(-time.Minute),
			},
			want: false,
		},
		{
			name: "not yet expired",
			t: nodeclient.Transfer{
				Status:     nodeclient.StatusWaitingCounterparty,
				Kind:       nodeclient.KindReceiveBlind,
				Expiration: now.Add(time.Minute),
			},
			want: false,
		},
		{
			name: "expired receive_blind cancels immediately",
			t: nodeclient.Transfer{
				Status:     nodeclient.StatusWaitingCounterparty,
				Kind:       nodeclient.KindReceiveBlind,
				Expiration: now.Add(-time.Second),
			},
			want: true,
		},
		{
			name: "expired non-receive_blind within grace period does not cancel",
			t: nodeclient.Transfer{
				Status:     nodeclient.StatusWaitingCounterparty,
				Kind:       "SEND",
				Expiration: now.Add(-30 * time.Minute),
			},
			want: false,
		},
		{
			name: "expired non-receive_blind past grace period cancels",
			t: nodeclient.Transfer{
				Status:     nodeclient.StatusWaitingCounterparty,
				Kind:       "SEND",
				Expiration: now.Add(-2 * time.Hour),
			},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := watcher.CancellationEligible(tc.t, now, durationRcvTransfer)
			if got != tc.want {
				t.Errorf("CancellationEligible() = %v, want %v", got, tc.want)
			}
		})
	}
}
