package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// ConfigureVault creates vault id with the given fee and allocation.
//
// The initial share supply is seeded as backed: the vault starts with
// TotalAssets equal to initialShareSupply, so a share is worth one unit of the
// underlying asset until the first fee is retained. Checks run in a fixed
// order (id, existence, fee, allocation, supply) and the first failure is
// returned without touching state.
func (k *Keeper) ConfigureVault(ctx context.Context, id uint64, initialShareSupply sdkmath.Int, feeBasisPoints, allocationA, allocationB uint64) error {
	if id == 0 {
		return types.ErrInvalidVaultID.Wrap("vault id must be positive")
	}

	unlock := k.locks.lock(id)
	defer unlock()

	found, err := k.Vaults.Has(ctx, id)
	if err != nil {
		return err
	}
	if found {
		return types.ErrVaultAlreadyExists.Wrapf("vault %d", id)
	}
	if err := types.ValidateFee(feeBasisPoints); err != nil {
		return err
	}
	if err := types.ValidateAllocation(allocationA, allocationB); err != nil {
		return err
	}
	if initialShareSupply.IsNil() || initialShareSupply.IsNegative() {
		return types.ErrInvalidRequest.Wrap("initial share supply must be non-negative")
	}

	return k.createVault(ctx, types.NewVaultState(id, initialShareSupply, feeBasisPoints, allocationA, allocationB))
}

// Deposit adds amount of the underlying asset to vault id and mints shares
// for the net amount after the deposit fee. The fee stays in the vault.
func (k *Keeper) Deposit(ctx context.Context, id uint64, amount sdkmath.Int) (types.DepositResult, error) {
	var result types.DepositResult
	err := k.UpdateVault(ctx, id, func(vault *types.VaultState) error {
		next, res, err := applyDeposit(*vault, amount)
		if err != nil {
			return err
		}
		*vault, result = next, res
		return nil
	})
	if err != nil {
		return types.DepositResult{}, err
	}
	return result, nil
}

// Withdraw burns shares of vault id and returns their proportional claim on
// the vault's assets minus the withdrawal fee. The fee stays in the vault.
func (k *Keeper) Withdraw(ctx context.Context, id uint64, shares sdkmath.Int) (types.WithdrawResult, error) {
	var result types.WithdrawResult
	err := k.UpdateVault(ctx, id, func(vault *types.VaultState) error {
		next, res, err := applyWithdraw(*vault, shares)
		if err != nil {
			return err
		}
		*vault, result = next, res
		return nil
	})
	if err != nil {
		return types.WithdrawResult{}, err
	}
	return result, nil
}

// PreviewDeposit returns what Deposit would do right now without changing state.
func (k *Keeper) PreviewDeposit(ctx context.Context, id uint64, amount sdkmath.Int) (types.DepositResult, error) {
	vault, err := k.GetVault(ctx, id)
	if err != nil {
		return types.DepositResult{}, err
	}
	_, result, err := applyDeposit(vault, amount)
	return result, err
}

// PreviewWithdraw returns what Withdraw would do right now without changing state.
func (k *Keeper) PreviewWithdraw(ctx context.Context, id uint64, shares sdkmath.Int) (types.WithdrawResult, error) {
	vault, err := k.GetVault(ctx, id)
	if err != nil {
		return types.WithdrawResult{}, err
	}
	_, result, err := applyWithdraw(vault, shares)
	return result, err
}

// AllocationTargets splits the vault's TotalAssets between its two strategies.
func (k *Keeper) AllocationTargets(ctx context.Context, id uint64) (types.AllocationTargets, error) {
	vault, err := k.GetVault(ctx, id)
	if err != nil {
		return types.AllocationTargets{}, err
	}
	return utils.SplitAssets(vault.TotalAssets, vault.AllocationA, vault.AllocationB)
}

// applyDeposit computes the vault after depositing amount.
//
//	fee    = ceil(amount * fee / 10000)
//	shares = floor((amount - fee) * supply / assets)   (amount - fee when supply is 0)
//	assets += amount, supply += shares
func applyDeposit(vault types.VaultState, amount sdkmath.Int) (types.VaultState, types.DepositResult, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return vault, types.DepositResult{}, types.ErrZeroAmount.Wrap("deposit amount must be positive")
	}

	fee, err := utils.CalculateFee(amount, vault.FeeBasisPoints)
	if err != nil {
		return vault, types.DepositResult{}, err
	}
	net, err := utils.CheckedSub(amount, fee)
	if err != nil {
		return vault, types.DepositResult{}, err
	}
	shares, err := utils.CalculateSharesFromAssets(net, vault.TotalAssets, vault.TotalShareSupply)
	if err != nil {
		return vault, types.DepositResult{}, err
	}
	if !shares.IsPositive() {
		return vault, types.DepositResult{}, types.ErrZeroAmount.Wrapf("deposit of %s mints no shares in vault %d", amount, vault.ID)
	}

	next := vault
	if next.TotalAssets, err = utils.CheckedAdd(vault.TotalAssets, amount); err != nil {
		return vault, types.DepositResult{}, err
	}
	if next.TotalShareSupply, err = utils.CheckedAdd(vault.TotalShareSupply, shares); err != nil {
		return vault, types.DepositResult{}, err
	}
	if next.FeesCollected, err = utils.CheckedAdd(vault.FeesCollected, fee); err != nil {
		return vault, types.DepositResult{}, err
	}

	return next, types.DepositResult{SharesMinted: shares, Fee: fee}, nil
}

// applyWithdraw computes the vault after burning shares.
//
//	gross    = floor(shares * assets / supply)
//	fee      = ceil(gross * fee / 10000)
//	returned = gross - fee
//	supply -= shares, assets -= returned
//
// When the last shares are burned the assets left behind move to ResidualAssets.
func applyWithdraw(vault types.VaultState, shares sdkmath.Int) (types.VaultState, types.WithdrawResult, error) {
	if shares.IsNil() || !shares.IsPositive() {
		return vault, types.WithdrawResult{}, types.ErrZeroAmount.Wrap("withdraw shares must be positive")
	}
	if shares.GT(vault.TotalShareSupply) {
		return vault, types.WithdrawResult{}, types.ErrInsufficientShares.Wrapf("vault %d has %s shares, requested %s", vault.ID, vault.TotalShareSupply, shares)
	}

	gross, err := utils.CalculateAssetsFromShares(shares, vault.TotalShareSupply, vault.TotalAssets)
	if err != nil {
		return vault, types.WithdrawResult{}, err
	}
	fee, err := utils.CalculateFee(gross, vault.FeeBasisPoints)
	if err != nil {
		return vault, types.WithdrawResult{}, err
	}
	returned, err := utils.CheckedSub(gross, fee)
	if err != nil {
		return vault, types.WithdrawResult{}, err
	}
	if !returned.IsPositive() {
		return vault, types.WithdrawResult{}, types.ErrZeroAmount.Wrapf("burning %s shares of vault %d returns nothing", shares, vault.ID)
	}

	next := vault
	if next.TotalShareSupply, err = utils.CheckedSub(vault.TotalShareSupply, shares); err != nil {
		return vault, types.WithdrawResult{}, err
	}
	if next.TotalAssets, err = utils.CheckedSub(vault.TotalAssets, returned); err != nil {
		return vault, types.WithdrawResult{}, err
	}
	if next.FeesCollected, err = utils.CheckedAdd(vault.FeesCollected, fee); err != nil {
		return vault, types.WithdrawResult{}, err
	}
	if next.TotalShareSupply.IsZero() {
		if next.ResidualAssets, err = utils.CheckedAdd(vault.ResidualAssets, next.TotalAssets); err != nil {
			return vault, types.WithdrawResult{}, err
		}
		next.TotalAssets = sdkmath.ZeroInt()
	}

	return next, types.WithdrawResult{GrossAssets: gross, Fee: fee, AssetsReturned: returned}, nil
}
