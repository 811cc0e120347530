package utils

import (
	"cosmossdk.io/math"

	"github.com/provlabs/sharevault/types"
)

// SplitAssets divides total between two strategies weighted by allocationA and
// allocationB. Strategy A receives floor(total * allocationA / 10000) and
// strategy B the remainder, so the two targets always add up to total.
func SplitAssets(total math.Int, allocationA, allocationB uint64) (types.AllocationTargets, error) {
	if err := types.ValidateAllocation(allocationA, allocationB); err != nil {
		return types.AllocationTargets{}, err
	}
	targetA, err := MulDiv(total, math.NewIntFromUint64(allocationA), BasisPoints)
	if err != nil {
		return types.AllocationTargets{}, err
	}
	targetB, err := CheckedSub(total, targetA)
	if err != nil {
		return types.AllocationTargets{}, err
	}
	return types.AllocationTargets{StrategyA: targetA, StrategyB: targetB}, nil
}
