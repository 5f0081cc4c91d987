package walletworker

// redactXpubVan truncates a wallet's extended public key for logging,
// following the original job runner's treatment of xpubs as
// sensitive material that should never appear in full in a log line.
func redactXpubVan(xpubVan string) string {
	const keep = 8
	if len(xpubVan) <= keep {
		return xpubVan
	}
	return xpubVan[:keep] + "..."
}
