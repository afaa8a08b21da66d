package domain

// BalanceSnapshot is a derived point-in-time balance for one
// (host, host currency) combination. It is computed from ledger rows,
// never persisted.
type BalanceSnapshot struct {
	HostCollectiveID string
	HostCurrency     string
	Balance          int64
}

// NonZeroBalances filters snapshots to those with a non-zero balance,
// preserving order.
func NonZeroBalances(snapshots []BalanceSnapshot) []BalanceSnapshot {
	out := make([]BalanceSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Balance != 0 {
			out = append(out, s)
		}
	}
	return out
}
