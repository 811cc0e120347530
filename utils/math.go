package utils

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/provlabs/sharevault/types"
)

// BasisPoints is types.BasisPointsScale as a math.Int.
var BasisPoints = math.NewIntFromUint64(types.BasisPointsScale)

// MulDiv returns floor(a*b/denominator).
//
// The product is computed at full precision and must fit in math.MaxBitLen
// bits, otherwise types.ErrArithmeticOverflow is returned. A zero denominator
// returns types.ErrDivisionByZero. Negative operands are rejected.
func MulDiv(a, b, denominator math.Int) (math.Int, error) {
	q, _, err := mulDivRem(a, b, denominator)
	return q, err
}

// MulDivUp returns ceil(a*b/denominator) with the same failure modes as MulDiv.
func MulDivUp(a, b, denominator math.Int) (math.Int, error) {
	q, rem, err := mulDivRem(a, b, denominator)
	if err != nil {
		return math.Int{}, err
	}
	if rem.Sign() == 0 {
		return q, nil
	}
	return CheckedAdd(q, math.OneInt())
}

func mulDivRem(a, b, denominator math.Int) (math.Int, *big.Int, error) {
	if a.IsNil() || b.IsNil() || denominator.IsNil() {
		return math.Int{}, nil, types.ErrInvalidRequest.Wrap("nil operand")
	}
	if a.IsNegative() || b.IsNegative() || denominator.IsNegative() {
		return math.Int{}, nil, types.ErrInvalidRequest.Wrap("negative values not allowed")
	}
	if denominator.IsZero() {
		return math.Int{}, nil, types.ErrDivisionByZero.Wrapf("%s * %s / 0", a, b)
	}

	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.BitLen() > math.MaxBitLen {
		return math.Int{}, nil, types.ErrArithmeticOverflow.Wrapf("%s * %s exceeds %d bits", a, b, math.MaxBitLen)
	}

	q, rem := new(big.Int).QuoRem(product, denominator.BigInt(), new(big.Int))
	return math.NewIntFromBigInt(q), rem, nil
}

// CheckedAdd returns a+b, or types.ErrArithmeticOverflow if the sum leaves the
// representable range.
func CheckedAdd(a, b math.Int) (math.Int, error) {
	sum, err := a.SafeAdd(b)
	if err != nil {
		return math.Int{}, types.ErrArithmeticOverflow.Wrapf("%s + %s: %v", a, b, err)
	}
	return sum, nil
}

// CheckedSub returns a-b, or types.ErrArithmeticOverflow if the result would be negative.
func CheckedSub(a, b math.Int) (math.Int, error) {
	diff, err := a.SafeSub(b)
	if err != nil {
		return math.Int{}, types.ErrArithmeticOverflow.Wrapf("%s - %s: %v", a, b, err)
	}
	if diff.IsNegative() {
		return math.Int{}, types.ErrArithmeticOverflow.Wrapf("%s - %s underflows", a, b)
	}
	return diff, nil
}
