// Package feeengine computes transaction fees and resolves UTXO
// consumption, pure and I/O-free aside from the externally supplied UCO
// price (spec.md §4.4).
package feeengine

// Price is the externally observed UCO/fiat exchange rate (spec.md §6,
// oracle collaborator: get_uco_price).
type Price struct {
	EUR float64
	USD float64
}

const (
	baseFeeUSDCents     = 1     // flat per-transaction charge, in USD cents
	perByteUSDMicros    = 2     // size_fee rate, in thousandths of a USD cent per byte
	perMovementUSDCents = 1     // movement_fee rate, in USD cents per movement
	contractUSDCents    = 10    // flat contract_fee when tx carries code
	ucoSmallestUnit     = 1e8   // 10^8 per UCO (spec.md §3)
)

// F computes the fee in UCO smallest units for a transaction of the given
// byte length, movement count, and contract presence, at the given USD
// price (spec.md §4.4). All terms are USD-denominated then converted by
// dividing by the price, so the fee tracks a stable USD target regardless
// of UCO volatility.
func F(byteLen int, movementCount int, hasContract bool, ucoUSDPrice float64) uint64 {
	if ucoUSDPrice <= 0 {
		ucoUSDPrice = 1
	}

	usdCents := float64(baseFeeUSDCents)
	usdCents += float64(byteLen) * perByteUSDMicros / 1000
	usdCents += float64(movementCount) * perMovementUSDCents
	if hasContract {
		usdCents += contractUSDCents
	}

	usd := usdCents / 100
	uco := usd / ucoUSDPrice
	return uint64(uco * ucoSmallestUnit)
}
