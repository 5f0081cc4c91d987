package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rgbnode/refreshd/pkg/apperrors"
	"github.com/rgbnode/refreshd/pkg/store"
)

// Client is the interface the job handler and transfer watcher
// depend on; a narrow slice of the node's HTTP surface.
type Client interface {
	Refresh(ctx context.Context, wallet store.WalletID) error
	ListAssets(ctx context.Context, wallet store.WalletID) ([]Asset, error)
	ListTransfers(ctx context.Context, wallet store.WalletID, assetID string) ([]Transfer, error)
	FailTransfers(ctx context.Context, wallet store.WalletID, batchTransferIdx int64) error
	HealthCheck(ctx context.Context) error
}

// Config bounds the retry-with-backoff behaviour of calls that are
// safe to retry in-process, namely Refresh.
type Config struct {
	MaxRetries     int
	RetryDelayBase time.Duration
}

// HTTPClient is the net/http-backed implementation of Client.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retry      apperrors.RetryConfig
}

// New builds an HTTPClient against baseURL with the given per-call
// timeout and retry policy.
func New(baseURL string, timeout time.Duration, retry Config) *HTTPClient {
	maxAttempts := retry.MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      apperrors.RetryConfig{MaxAttempts: maxAttempts, BaseDelay: retry.RetryDelayBase},
	}
}

// Refresh retries transient failures with exponential backoff
// (RetryDelayBase * 2^attempt) up to MaxRetries attempts; a
// non-retryable error (e.g. a 4xx response) returns immediately.
func (c *HTTPClient) Refresh(ctx context.Context, wallet store.WalletID) error {
	_, err := apperrors.RetryWithBackoff(ctx, c.retry, func(ctx context.Context) (struct{}, error) {
		_, err := c.do(ctx, wallet, "/wallet/refresh", nil, nil)
		return struct{}{}, err
	})
	return err
}

type listTransfersRequest struct {
	AssetID string `json:"asset_id,omitempty"`
}

type listTransfersResponse struct {
	Transfers []struct {
		RecipientID      string `json:"recipient_id"`
		AssetID          string `json:"asset_id"`
		BatchTransferIdx int64  `json:"batch_transfer_idx"`
		Status           string `json:"status"`
		Kind             string `json:"kind"`
		Expiration       int64  `json:"expiration"` // unix seconds
	} `json:"transfers"`
}

func (c *HTTPClient) ListTransfers(ctx context.Context, wallet store.WalletID, assetID string) ([]Transfer, error) {
	var resp listTransfersResponse
	if _, err := c.do(ctx, wallet, "/wallet/listtransfers", listTransfersRequest{AssetID: assetID}, &resp); err != nil {
		return nil, err
	}

	transfers := make([]Transfer, 0, len(resp.Transfers))
	for _, t := range resp.Transfers {
		transfers = append(transfers, Transfer{
			RecipientID:      t.RecipientID,
			AssetID:          t.AssetID,
			BatchTransferIdx: t.BatchTransferIdx,
			Status:           t.Status,
			Kind:             t.Kind,
			Expiration:       time.Unix(t.Expiration, 0).UTC(),
		})
	}
	return transfers, nil
}

type listAssetsResponse struct {
	Assets []struct {
		AssetID string `json:"asset_id"`
	} `json:"assets"`
}

func (c *HTTPClient) ListAssets(ctx context.Context, wallet store.WalletID) ([]Asset, error) {
	var resp listAssetsResponse
	if _, err := c.do(ctx, wallet, "/wallet/listassets", nil, &resp); err != nil {
		return nil, err
	}

	assets := make([]Asset, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		assets = append(assets, Asset{AssetID: a.AssetID})
	}
	return assets, nil
}

type failTransfersRequest struct {
	BatchTransferIdx int64 `json:"batch_transfer_idx"`
}

func (c *HTTPClient) FailTransfers(ctx context.Context, wallet store.WalletID, batchTransferIdx int64) error {
	_, err := c.do(ctx, wallet, "/wallet/failtransfers", failTransfersRequest{BatchTransferIdx: batchTransferIdx}, nil)
	return err
}

func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return apperrors.Transient(err, "build health check request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Transient(err, "health check")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return apperrors.Transient(fmt.Errorf("status %d", resp.StatusCode), "health check")
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, wallet store.WalletID, path string, body, out any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Validation(err, "marshal request body")
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.Transient(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	setWalletHeaders(req, wallet)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transient(err, fmt.Sprintf("call %s", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return resp, apperrors.Transient(fmt.Errorf("status %d", resp.StatusCode), fmt.Sprintf("call %s", path))
	}
	if resp.StatusCode >= 400 {
		return resp, apperrors.Validation(fmt.Errorf("status %d", resp.StatusCode), fmt.Sprintf("call %s", path))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, apperrors.Transient(err, fmt.Sprintf("decode %s response", path))
		}
	}
	return resp, nil
}

func setWalletHeaders(req *http.Request, wallet store.WalletID) {
	req.Header.Set("xpub-van", wallet.XpubVan)
	req.Header.Set("xpub-col", wallet.XpubCol)
	req.Header.Set("master-fingerprint", wallet.MasterFingerprint)
}
