package walletworker

import (
	"context"
	"time"

	"github.com/rgbnode/refreshd/pkg/store"
)

// mockStore is a function-field mock of store.Store for wallet worker tests.
type mockStore struct {
	DequeueForWalletFunc            func(ctx context.Context, xpubVan string) (*store.Job, error)
	CompleteJobFunc                 func(ctx context.Context, jobID string, success bool, lastErr string) error
	ListActiveWatchersForWalletFunc func(ctx context.Context, xpubVan string) ([]*store.Watcher, error)

	CompletedJobIDs []string
}

func (m *mockStore) Enqueue(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error) {
	return "", nil
}
func (m *mockStore) DequeueForWallet(ctx context.Context, xpubVan string) (*store.Job, error) {
	if m.DequeueForWalletFunc != nil {
		return m.DequeueForWalletFunc(ctx, xpubVan)
	}
	return nil, nil
}
func (m *mockStore) CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error {
	m.CompletedJobIDs = append(m.CompletedJobIDs, jobID)
	if m.CompleteJobFunc != nil {
		return m.CompleteJobFunc(ctx, jobID, success, lastErr)
	}
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
	if m.ListActiveWatchersForWalletFunc != nil {
		return m.ListActiveWatchersForWalletFunc(ctx, xpubVan)
	}
	return nil, nil
}
func (m *mockStore) UpdateWatcher(ctx context.Context, w *store.Watcher) error { return nil }
func (m *mockStore) AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (m *mockStore) ReleaseLock(ctx context.Context, xpubVan, holder string) error { return nil }
func (m *mockStore) Recover(ctx context.Context) (int, error)                     { return 0, nil }

// mockJobHandler is a function-field mock of JobHandler.
type mockJobHandler struct {
	HandleFunc func(ctx context.Context, job *store.Job) error
}

func (m *mockJobHandler) Handle(ctx context.Context, job *store.Job) error {
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, job)
	}
	return nil
}

// mockTransferWatcher is a function-field mock of TransferWatcher.
type mockTransferWatcher struct {
	TickFunc func(ctx context.Context, w *store.Watcher) (bool, error)
	Ticked   []*store.Watcher
}

func (m *mockTransferWatcher) Tick(ctx context.Context, w *store.Watcher) (bool, error) {
	m.Ticked = append(m.Ticked, w)
	if m.TickFunc != nil {
		return m.TickFunc(ctx, w)
	}
	return true, nil
}
