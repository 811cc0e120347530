package utils

import (
	"cosmossdk.io/math"

	"github.com/provlabs/sharevault/types"
)

// CalculateFee returns the fee owed on amount at feeBasisPoints.
//
// Fees are paid by the user, so the result rounds up:
//
//	fee = ceil( amount * feeBasisPoints / 10000 )
func CalculateFee(amount math.Int, feeBasisPoints uint64) (math.Int, error) {
	if err := types.ValidateFee(feeBasisPoints); err != nil {
		return math.Int{}, err
	}
	return MulDivUp(amount, math.NewIntFromUint64(feeBasisPoints), BasisPoints)
}

// CalculateSharesFromAssets returns the number of shares that correspond
// to a given amount of deposited (post-fee) assets.
//
// Formula (integer, floor):
//
//	if totalShares == 0:
//	    shares = assets
//	else:
//	    shares = floor( assets * totalShares / totalAssets )
//
// Rounding down keeps the remainder with existing holders.
func CalculateSharesFromAssets(assets, totalAssets, totalShares math.Int) (math.Int, error) {
	if assets.IsNil() || totalAssets.IsNil() || totalShares.IsNil() {
		return math.Int{}, types.ErrInvalidRequest.Wrap("nil operand")
	}
	if assets.IsNegative() || totalAssets.IsNegative() || totalShares.IsNegative() {
		return math.Int{}, types.ErrInvalidRequest.Wrap("negative values not allowed")
	}
	if totalShares.IsZero() {
		return assets, nil
	}
	return MulDiv(assets, totalShares, totalAssets)
}

// CalculateAssetsFromShares returns the amount of assets that correspond
// to a given number of shares being redeemed.
//
// Formula (integer, floor):
//
//	assets = floor( shares * totalAssets / totalShares )
//
// An empty vault has nothing to redeem and returns types.ErrDivisionByZero.
func CalculateAssetsFromShares(shares, totalShares, totalAssets math.Int) (math.Int, error) {
	return MulDiv(shares, totalAssets, totalShares)
}
