package watcher

import (
	"context"
	"time"

	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/store"
)

// mockStore is a function-field mock of store.Store for transfer watcher tests.
type mockStore struct {
	AcquireLockFunc func(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error)
	UpdatedWatchers []*store.Watcher
}

func (m *mockStore) Enqueue(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error) {
	return "", nil
}
func (m *mockStore) DequeueForWallet(ctx context.Context, xpubVan string) (*store.Job, error) {
	return nil, nil
}
func (m *mockStore) CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error {
	return nil
}
func (m *mockStore) ListWalletsNeedingWork(ctx context.Context) ([]store.WalletID, error) {
	return nil, nil
}
func (m *mockStore) CreateWatcher(ctx context.Context, w *store.Watcher) error { return nil }
func (m *mockStore) ListActiveWatchers(ctx context.Context) ([]*store.Watcher, error) {
	return nil, nil
}
func (m *mockStore) ListActiveWatchersForWallet(ctx context.Context, xpubVan string) ([]*store.Watcher, error) {
	return nil, nil
}
func (m *mockStore) UpdateWatcher(ctx context.Context, w *store.Watcher) error {
	m.UpdatedWatchers = append(m.UpdatedWatchers, w)
	return nil
}
func (m *mockStore) AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error) {
	if m.AcquireLockFunc != nil {
		return m.AcquireLockFunc(ctx, xpubVan, holder, ttl)
	}
	return true, nil
}
func (m *mockStore) ReleaseLock(ctx context.Context, xpubVan, holder string) error { return nil }
func (m *mockStore) Recover(ctx context.Context) (int, error)                     { return 0, nil }

// mockNodeClient is a function-field mock of nodeclient.Client.
type mockNodeClient struct {
	RefreshFunc             func(ctx context.Context, wallet store.WalletID) error
	ListAssetsFunc          func(ctx context.Context, wallet store.WalletID) ([]nodeclient.Asset, error)
	ListTransfersFunc       func(ctx context.Context, wallet store.WalletID, assetID string) ([]nodeclient.Transfer, error)
	FailedBatchTransferIdxs []int64
}

func (m *mockNodeClient) Refresh(ctx context.Context, wallet store.WalletID) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, wallet)
	}
	return nil
}
func (m *mockNodeClient) ListAssets(ctx context.Context, wallet store.WalletID) ([]nodeclient.Asset, error) {
	if m.ListAssetsFunc != nil {
		return m.ListAssetsFunc(ctx, wallet)
	}
	return nil, nil
}
func (m *mockNodeClient) ListTransfers(ctx context.Context, wallet store.WalletID, assetID string) ([]nodeclient.Transfer, error) {
	if m.ListTransfersFunc != nil {
		return m.ListTransfersFunc(ctx, wallet, assetID)
	}
	return nil, nil
}
func (m *mockNodeClient) FailTransfers(ctx context.Context, wallet store.WalletID, batchTransferIdx int64) error {
	m.FailedBatchTransferIdxs = append(m.FailedBatchTransferIdxs, batchTransferIdx)
	return nil
}
func (m *mockNodeClient) HealthCheck(ctx context.Context) error { return nil }
