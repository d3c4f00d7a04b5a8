package market

import "github.com/shopspring/decimal"

// All amounts are whole rupees. Percentage math goes through decimal to keep
// the holds and commissions exact regardless of amount size.
const (
	emdRate        = 0.02  // earnest-money deposit: 2% of the bid or buy-now price
	commissionRate = 0.005 // platform commission: 0.5% of the final sale price
)

// CommissionPercent is the commission rate surfaced on Sale records.
const CommissionPercent = 0.5

var (
	emdRateDecimal        = decimal.NewFromFloat(emdRate)
	commissionRateDecimal = decimal.NewFromFloat(commissionRate)
)

// EarnestDeposit returns the EMD held against a bid or buy-now purchase,
// rounded to the nearest whole rupee.
func EarnestDeposit(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(emdRateDecimal).Round(0).IntPart()
}

// PlatformCommission returns the platform's cut of a sale price, rounded to
// the nearest whole rupee.
func PlatformCommission(price int64) int64 {
	return decimal.NewFromInt(price).Mul(commissionRateDecimal).Round(0).IntPart()
}

// MinimumIncrement returns how far above the current highest bid a new bid
// must land, given the listing's min_bid_increment_pct. Never less than one
// rupee so a zero-rounded increment cannot let equal bids through.
func MinimumIncrement(highest int64, pct float64) int64 {
	inc := decimal.NewFromInt(highest).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	if inc < 1 {
		inc = 1
	}
	return inc
}
