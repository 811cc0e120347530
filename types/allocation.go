package types

// ValidateAllocation checks that the two strategy weights are each within
// [0, BasisPointsScale] and sum to exactly BasisPointsScale.
func ValidateAllocation(allocationA, allocationB uint64) error {
	if allocationA > BasisPointsScale || allocationB > BasisPointsScale {
		return ErrInvalidAllocation.Wrapf("allocation %d/%d exceeds %d basis points", allocationA, allocationB, BasisPointsScale)
	}
	if allocationA+allocationB != BasisPointsScale {
		return ErrInvalidAllocation.Wrapf("allocation %d/%d must sum to %d basis points", allocationA, allocationB, BasisPointsScale)
	}
	return nil
}

// ValidateFee checks that the fee is within [0, BasisPointsScale].
func ValidateFee(feeBasisPoints uint64) error {
	if feeBasisPoints > BasisPointsScale {
		return ErrInvalidFee.Wrapf("fee %d exceeds %d basis points", feeBasisPoints, BasisPointsScale)
	}
	return nil
}
