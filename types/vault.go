package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// VaultState is the accounting record of a single vault.
type VaultState struct {
	// ID is the vault identifier, assigned at configuration.
	ID uint64 `json:"id"`
	// TotalShareSupply is the number of outstanding shares.
	TotalShareSupply sdkmath.Int `json:"total_share_supply"`
	// TotalAssets is the amount of underlying asset backing the share supply.
	TotalAssets sdkmath.Int `json:"total_assets"`
	// FeeBasisPoints is charged on deposits and withdrawals.
	FeeBasisPoints uint64 `json:"fee_basis_points"`
	// AllocationA is the target weight of the first strategy in basis points.
	AllocationA uint64 `json:"allocation_a"`
	// AllocationB is the target weight of the second strategy in basis points.
	AllocationB uint64 `json:"allocation_b"`
	// ResidualAssets are held in custody but back no share. They appear
	// when the last shares are burned and fees or rounding dust remain.
	ResidualAssets sdkmath.Int `json:"residual_assets"`
	// FeesCollected is the running total of fees charged by the vault.
	FeesCollected sdkmath.Int `json:"fees_collected"`
}

// NewVaultState creates a vault whose initial share supply is backed 1:1 by assets.
func NewVaultState(id uint64, initialShareSupply sdkmath.Int, feeBasisPoints, allocationA, allocationB uint64) VaultState {
	return VaultState{
		ID:               id,
		TotalShareSupply: initialShareSupply,
		TotalAssets:      initialShareSupply,
		FeeBasisPoints:   feeBasisPoints,
		AllocationA:      allocationA,
		AllocationB:      allocationB,
		ResidualAssets:   sdkmath.ZeroInt(),
		FeesCollected:    sdkmath.ZeroInt(),
	}
}

// Validate checks the invariants every committed vault must satisfy.
func (v VaultState) Validate() error {
	if v.ID == 0 {
		return ErrInvalidVaultID.Wrap("vault id must be positive")
	}
	if err := ValidateFee(v.FeeBasisPoints); err != nil {
		return err
	}
	if err := ValidateAllocation(v.AllocationA, v.AllocationB); err != nil {
		return err
	}
	amounts := []struct {
		name string
		amt  sdkmath.Int
	}{
		{"total share supply", v.TotalShareSupply},
		{"total assets", v.TotalAssets},
		{"residual assets", v.ResidualAssets},
		{"fees collected", v.FeesCollected},
	}
	for _, a := range amounts {
		if a.amt.IsNil() || a.amt.IsNegative() {
			return ErrInvalidRequest.Wrapf("vault %d: %s must be non-negative", v.ID, a.name)
		}
	}
	if v.TotalShareSupply.IsZero() && !v.TotalAssets.IsZero() {
		return ErrInvariantBroken.Wrapf("vault %d has %s assets but no shares", v.ID, v.TotalAssets)
	}
	if v.TotalShareSupply.IsPositive() && v.TotalAssets.IsZero() {
		return ErrInvariantBroken.Wrapf("vault %d has %s shares but no assets", v.ID, v.TotalShareSupply)
	}
	return nil
}

// IsEmpty returns true when the vault has no outstanding shares.
func (v VaultState) IsEmpty() bool {
	return v.TotalShareSupply.IsZero()
}

// SharePrice returns TotalAssets / TotalShareSupply, or zero for an empty vault.
// It is meant for display; all accounting uses integer arithmetic.
func (v VaultState) SharePrice() sdkmath.LegacyDec {
	if v.TotalShareSupply.IsNil() || !v.TotalShareSupply.IsPositive() {
		return sdkmath.LegacyZeroDec()
	}
	return sdkmath.LegacyNewDecFromInt(v.TotalAssets).QuoInt(v.TotalShareSupply)
}

// String implements fmt.Stringer.
func (v VaultState) String() string {
	return fmt.Sprintf("vault %d: shares=%s assets=%s fee=%dbps allocation=%d/%d residual=%s",
		v.ID, v.TotalShareSupply, v.TotalAssets, v.FeeBasisPoints, v.AllocationA, v.AllocationB, v.ResidualAssets)
}
