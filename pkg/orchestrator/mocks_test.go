package orchestrator

import (
	"context"
	"time"

	"github.com/rgbnode/refreshd/pkg/store"
)

// mockStore is a function-field mock of store.Store for orchestrator tests.
type mockStore struct {
	ListWalletsNeedingWorkFunc func(ctx context.Context) ([]store.WalletID, error)
	EnqueueFunc                func(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error)
	RecoverFunc                func(ctx context.Context) (int, error)
}

func (m *mockStore) Enqueue(ctx context.Context, wallet store.WalletID, trigger store.Trigger, recipientID, assetID string) (string, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, wallet, trigger, recipientID, assetID)
	}
	return "job-id", nil
}
func (m *mockStore) DequeueForWallet(ctx context.Context, xpubVan string) (*store.Job, error) {
	return nil, nil
}
func (m *mockStore) CompleteJob(ctx context.Context, jobID string, success bool, lastErr string) error {
	return nil
}
func (m *mockStore) ListWalletsNeedingWork(ctx context.Context) ([]store.WalletID, error) {
	if m.ListWalletsNeedingWorkFunc != nil {
		return m.ListWalletsNeedingWorkFunc(ctx)
	}
	return nil, nil
}
func (m *mockStore) CreateWatcher(ctx context.Context, w *store.Watcher) error { return nil }
func (m *mockStore) ListActiveWatchers(ctx context.Context) ([]*store.Watcher, error) {
	return nil, nil
}
func (m *mockStore) ListActiveWatchersForWallet(ctx context.Context, xpubVan string) ([]*store.Watcher, error) {
	return nil, nil
}
func (m *mockStore) UpdateWatcher(ctx context.Context, w *store.Watcher) error { return nil }
func (m *mockStore) AcquireLock(ctx context.Context, xpubVan, holder string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (m *mockStore) ReleaseLock(ctx context.Context, xpubVan, holder string) error { return nil }
func (m *mockStore) Recover(ctx context.Context) (int, error) {
	if m.RecoverFunc != nil {
		return m.RecoverFunc(ctx)
	}
	return 0, nil
}

// fakeWorker is a Worker whose Run blocks until its context is cancelled.
type fakeWorker struct {
	started chan struct{}
}

func (w *fakeWorker) Run(ctx context.Context) error {
	if w.started != nil {
		close(w.started)
	}
	<-ctx.Done()
	return nil
}
