package jobhandler

import (
	"context"
	"time"

	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/store"
)

// MockStore is a function-field mock of store.Store for job handler tests.
type MockStore struct {
	EnqueueFunc                     func(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error)
	DequeueForWalletFunc             func(ctx context.Context, xpubVan string) (*store.Job, error)
	CompleteJobFunc                  func(ctx context.Context, jobID string, success bool, lastErr string) error
	ListWalletsNeedingWorkFunc       func(ctx context.Context) ([]store.WalletID, error)
	CreateWatcherFunc                func(ctx context.Context, w *store.Watcher) error
	ListActiveWatchersFunc           func(ctx context.Context) ([]*store.Watcher, error)
	ListActiveWatchersForWalletFunc  func(ctx context.Context, xpubVan string) ([]*store.Watcher, error)
	UpdateWatcherFunc                func(ctx context.Context, w *store.Watcher) error
	AcquireLockFunc                  func(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error)
	ReleaseLockFunc                  func(ctx context.Context, xpubVan, holder string) error
	RecoverFunc                      func(ctx context.Context) (int, error)

	CreatedWatchers []*store.Watcher
}

func (m *MockStore) Enqueue(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, wallet, trigger, recipientID, assetID)
	}
	return "job-id", nil
}

func (m *MockStore) DequeueForWallet(ctx context.Context, xpubVan string) (*store.Job, error) {
	if m.DequeueForWalletFunc != nil {
		return m.DequeueForWalletFunc(ctx, xpubVan)
	}
	return nil, nil
}

func (m *MockStore) CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error {
	if m.CompleteJobFunc != nil {
		return m.CompleteJobFunc(ctx, jobID, success, lastErr)
	}
	return nil
}

func (m *MockStore) ListWalletsNeedingWork(ctx context.Context) ([]store.WalletID, error) {
	if m.ListWalletsNeedingWorkFunc != nil {
		return m.ListWalletsNeedingWorkFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) CreateWatcher(ctx context.Context, w *store.Watcher) error {
	m.CreatedWatchers = append(m.CreatedWatchers, w)
	if m.CreateWatcherFunc != nil {
		return m.CreateWatcherFunc(ctx, w)
	}
	return nil
}

func (m *MockStore) ListActiveWatchers(ctx context.Context) ([]*store.Watcher, error) {
	if m.ListActiveWatchersFunc != nil {
		return m.ListActiveWatchersFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) ListActiveWatchersForWallet(ctx context.Context, xpubVan string) ([]*store.Watcher, error) {
	if m.ListActiveWatchersForWalletFunc != nil {
		return m.ListActiveWatchersForWalletFunc(ctx, xpubVan)
	}
	return nil, nil
}

func (m *MockStore) UpdateWatcher(ctx context.Context, w *store.Watcher) error {
	if m.UpdateWatcherFunc != nil {
		return m.UpdateWatcherFunc(ctx, w)
	}
	return nil
}

func (m *MockStore) AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error) {
	if m.AcquireLockFunc != nil {
		return m.AcquireLockFunc(ctx, xpubVan, holder, ttl)
	}
	return true, nil
}

func (m *MockStore) ReleaseLock(ctx context.Context, xpubVan, holder string) error {
	if m.ReleaseLockFunc != nil {
		return m.ReleaseLockFunc(ctx, xpubVan, holder)
	}
	return nil
}

func (m *MockStore) Recover(ctx context.Context) (int, error) {
	if m.RecoverFunc != nil {
		return m.RecoverFunc(ctx)
	}
	return 0, nil
}

// MockNodeClient is a function-field mock of nodeclient.Client.
type MockNodeClient struct {
	RefreshFunc        func(ctx context.Context, wallet store.WalletID) error
	ListAssetsFunc      func(ctx context.Context, wallet store.WalletID) ([]nodeclient.Asset, error)
	ListTransfersFunc   func(ctx context.Context, wallet store.WalletID, assetID string) ([]nodeclient.Transfer, error)
	FailTransfersFunc   func(ctx context.Context, wallet store.WalletID, batchTransferIdx int64) error
	HealthCheckFunc     func(ctx context.Context) error

	FailedBatchTransferIdxs []int64
}

func (m *MockNodeClient) Refresh(ctx context.Context, wallet store.WalletID) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, wallet)
	}
	return nil
}

func (m *MockNodeClient) ListAssets(ctx context.Context, wallet store.WalletID) ([]nodeclient.Asset, error) {
	if m.ListAssetsFunc != nil {
		return m.ListAssetsFunc(ctx, wallet)
	}
	return nil, nil
}

func (m *MockNodeClient) ListTransfers(ctx context.Context, wallet store.WalletID, assetID string) ([]nodeclient.Transfer, error) {
	if m.ListTransfersFunc != nil {
		return m.ListTransfersFunc(ctx, wallet, assetID)
	}
	return nil, nil
}

func (m *MockNodeClient) FailTransfers(ctx context.Context, wallet store.WalletID, batchTransferIdx int64) error {
	m.FailedBatchTransferIdxs = append(m.FailedBatchTransferIdxs, batchTransferIdx)
	if m.FailTransfersFunc != nil {
		return m.FailTransfersFunc(ctx, wallet, batchTransferIdx)
	}
	return nil
}

func (m *MockNodeClient) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}
	return nil
}
