package types

import sdkmath "cosmossdk.io/math"

// DepositResult describes the outcome of a deposit.
type DepositResult struct {
	// SharesMinted is the number of shares created for the depositor.
	SharesMinted sdkmath.Int `json:"shares_minted"`
	// Fee is the part of the deposit retained by the vault for existing holders.
	Fee sdkmath.Int `json:"fee"`
}

// WithdrawResult describes the outcome of a withdrawal.
type WithdrawResult struct {
	// GrossAssets is the proportional claim of the burned shares before fees.
	GrossAssets sdkmath.Int `json:"gross_assets"`
	// Fee is the part of GrossAssets kept by the vault.
	Fee sdkmath.Int `json:"fee"`
	// AssetsReturned is the amount paid out to the withdrawer.
	AssetsReturned sdkmath.Int `json:"assets_returned"`
}

// AllocationTargets is the split of a vault's assets between its two strategies.
type AllocationTargets struct {
	StrategyA sdkmath.Int `json:"strategy_a"`
	StrategyB sdkmath.Int `json:"strategy_b"`
}
