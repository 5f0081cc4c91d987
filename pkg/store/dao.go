package store

import (
	"time"

	"github.com/uptrace/bun"
)

// JobDAO is the bun model backing the refresh_jobs table.
type JobDAO struct {
	bun.BaseModel `bun:"table:refresh_jobs"`

	ID                string    `bun:",pk,type:uuid"`
	XpubVan           string    `bun:",notnull"`
	XpubCol           string    `bun:",notnull"`
	MasterFingerprint string    `bun:",notnull"`
	Trigger           string    `bun:",notnull"`
	RecipientID       string    `bun:",nullzero"`
	AssetID           string    `bun:",nullzero"`
	Status            string    `bun:",notnull"`
	Attempts          int       `bun:",notnull,default:0"`
	MaxRetries        int       `bun:",notnull,default:10"`
	LastError         string    `bun:",nullzero"`
	CreatedAt         time.Time `bun:",notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:",notnull,default:current_timestamp"`
}

func toJobDao(j *Job) *JobDAO {
	return &JobDAO{
		ID:                j.ID,
		XpubVan:           j.Wallet.XpubVan,
		XpubCol:           j.Wallet.XpubCol,
		MasterFingerprint: j.Wallet.MasterFingerprint,
		Trigger:           string(j.Trigger),
		RecipientID:       j.RecipientID,
		AssetID:           j.AssetID,
		Status:            string(j.Status),
		Attempts:          j.Attempts,
		MaxRetries:        j.MaxRetries,
		LastError:         j.LastError,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

func toJob(d *JobDAO) *Job {
	return &Job{
		ID: d.ID,
		Wallet: WalletID{
			XpubVan:           d.XpubVan,
			XpubCol:           d.XpubCol,
			MasterFingerprint: d.MasterFingerprint,
		},
		Trigger:     Trigger(d.Trigger),
		RecipientID: d.RecipientID,
		AssetID:     d.AssetID,
		Status:      JobStatus(d.Status),
		Attempts:    d.Attempts,
		MaxRetries:  d.MaxRetries,
		LastError:   d.LastError,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// WatcherDAO is the bun model backing the refresh_watchers table.
type WatcherDAO struct {
	bun.BaseModel `bun:"table:refresh_watchers"`

	ID                string    `bun:",pk,type:uuid"`
	XpubVan           string    `bun:",notnull"`
	XpubCol           string    `bun:",notnull"`
	MasterFingerprint string    `bun:",notnull"`
	RecipientID       string    `bun:",notnull"`
	AssetID           string    `bun:",nullzero"`
	Status            string    `bun:",notnull"`
	RefreshCount      int       `bun:",notnull,default:0"`
	ExpiresAt         time.Time `bun:",notnull"`
	CreatedAt         time.Time `bun:",notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:",notnull,default:current_timestamp"`
}

func toWatcherDao(w *Watcher) *WatcherDAO {
	return &WatcherDAO{
		ID:                w.ID,
		XpubVan:           w.Wallet.XpubVan,
		XpubCol:           w.Wallet.XpubCol,
		MasterFingerprint: w.Wallet.MasterFingerprint,
		RecipientID:       w.RecipientID,
		AssetID:           w.AssetID,
		Status:            string(w.Status),
		RefreshCount:      w.RefreshCount,
		ExpiresAt:         w.ExpiresAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func toWatcher(d *WatcherDAO) *Watcher {
	return &Watcher{
		ID: d.ID,
		Wallet: WalletID{
			XpubVan:           d.XpubVan,
			XpubCol:           d.XpubCol,
			MasterFingerprint: d.MasterFingerprint,
		},
		RecipientID:  d.RecipientID,
		AssetID:      d.AssetID,
		Status:       WatcherStatus(d.Status),
		RefreshCount: d.RefreshCount,
		ExpiresAt:    d.ExpiresAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// WalletLockDAO is the bun model backing the wallet_locks table.
type WalletLockDAO struct {
	bun.BaseModel `bun:"table:wallet_locks"`

	XpubVan   string    `bun:",pk"`
	Holder    string    `bun:",notnull"`
	ExpiresAt time.Time `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`
}

func toWalletLockDao(l *WalletLock) *WalletLockDAO {
	return &WalletLockDAO{
		XpubVan:   l.XpubVan,
		Holder:    l.Holder,
		ExpiresAt: l.ExpiresAt,
		CreatedAt: l.CreatedAt,
	}
}

func toWalletLock(d *WalletLockDAO) *WalletLock {
	return &WalletLock{
		XpubVan:   d.XpubVan,
		Holder:    d.Holder,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}
