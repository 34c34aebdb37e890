package entities

import "time"

// SystemPool is the house-wide rollup of token metrics. It is a single row
// updated incrementally in the same transaction as every pool-relevant
// ledger entry, never recomputed by aggregation query.
type SystemPool struct {
	TotalTokensIssued        int64     `db:"total_tokens_issued"`
	TotalTokensInCirculation int64     `db:"total_tokens_in_circulation"`
	TotalCashedOut           int64     `db:"total_cashed_out"`
	HouseBalance             int64     `db:"house_balance"`
	TotalRevenue             int64     `db:"total_revenue"`
	TotalPayouts             int64     `db:"total_payouts"`
	LastUpdated              time.Time `db:"last_updated"`
}

// PoolDelta describes the incremental change a ledger entry applies to the
// system pool.
type PoolDelta struct {
	Issued      int64
	Circulation int64
	CashedOut   int64
	House       int64
	Revenue     int64
	Payouts     int64
}

// IsZero reports whether the delta changes nothing.
func (d PoolDelta) IsZero() bool {
	return d == PoolDelta{}
}

// PoolDeltaFor maps an entry kind and amount to the pool change it implies.
// Kinds not listed here leave the pool untouched.
func PoolDeltaFor(kind EntryKind, amount int64) PoolDelta {
	switch kind {
	case EntryKindPurchase:
		return PoolDelta{Issued: amount, Circulation: amount, Revenue: amount}
	case EntryKindAdminCredit:
		return PoolDelta{Issued: amount, Circulation: amount}
	case EntryKindAdminDebit:
		return PoolDelta{Circulation: -amount}
	case EntryKindBetLost:
		return PoolDelta{House: amount}
	case EntryKindBetWon:
		return PoolDelta{Payouts: amount}
	case EntryKindCashoutCompleted:
		return PoolDelta{Circulation: -amount, CashedOut: amount}
	default:
		return PoolDelta{}
	}
}

// Apply adds the delta to the pool counters.
func (p *SystemPool) Apply(d PoolDelta) {
	p.TotalTokensIssued += d.Issued
	p.TotalTokensInCirculation += d.Circulation
	p.TotalCashedOut += d.CashedOut
	p.HouseBalance += d.House
	p.TotalRevenue += d.Revenue
	p.TotalPayouts += d.Payouts
}
