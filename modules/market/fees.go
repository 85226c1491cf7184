package market

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/uint128"
)

// FeeSchedule recovers the gross sale price from the seller-side payout sum. A platform cut of
// 2.5% leaves 975 of every 1000 units to the payout.
type FeeSchedule struct {
	NetNumerator   uint64
	GrossNumerator uint64
}

// MintbaseV01Fees is the cut taken by the v0.1 mintbase market. Its sale events carry no price.
var MintbaseV01Fees = FeeSchedule{NetNumerator: 975, GrossNumerator: 1000}

// Gross divides first and multiplies second, the order the market contract rounds in.
func (f FeeSchedule) Gross(net uint128.Uint128) (uint128.Uint128, error) {
	if f.NetNumerator == 0 {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "fee schedule has a zero net numerator")
	}
	gross, overflow := net.Div64(f.NetNumerator).MulOverflow(uint128.From64(f.GrossNumerator))
	if overflow {
		return uint128.Zero, errors.WithStack(errs.OverflowUint128)
	}
	return gross, nil
}
