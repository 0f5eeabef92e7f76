package payment

import "travel-booking/internal/domain/money"

// PlatformFeePercent is kept by the platform; the rest is paid out to the owner.
const PlatformFeePercent = 15

// Split divides amount into platform fee and owner payout. The two always sum
// to amount because the payout is derived by subtraction.
func Split(amount money.Money) (fee, payout money.Money) {
	fee = amount.Percent(PlatformFeePercent)
	payout, _ = amount.Sub(fee)
	return fee, payout
}
