package reconcile

import (
	"strings"

	"wallet-sync-go/internal/store"
)

// dedupKey is lowercase(txHash) + "_" + assetSymbol. The same tx hash may
// legitimately appear once per distinct asset, e.g. a batch transfer
// touching two tokens.
func dedupKey(txHash, assetSymbol string) string {
	return strings.ToLower(txHash) + "_" + assetSymbol
}

// dedupFilter holds the set of already-seen keys for the current run,
// seeded from the transaction store. Newly persisted keys join the same
// in-run set, which also collapses duplicate raw records discovered twice
// within one run (e.g. a self-transfer matched by both directional EVM log
// queries).
type dedupFilter struct {
	seen map[string]struct{}
}

func newDedupFilter(existing []store.TransactionKey) *dedupFilter {
	seen := make(map[string]struct{}, len(existing))
	for _, k := range existing {
		seen[dedupKey(k.TxHash, k.AssetSymbol)] = struct{}{}
	}
	return &dedupFilter{seen: seen}
}

func (f *dedupFilter) contains(key string) bool {
	_, ok := f.seen[key]
	return ok
}

func (f *dedupFilter) add(key string) {
	f.seen[key] = struct{}{}
}
