package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// GetHolding returns the shares of vault id held by owner, or zero.
func (k Keeper) GetHolding(ctx context.Context, id uint64, owner sdk.AccAddress) (sdkmath.Int, error) {
	shares, err := k.Holdings.Get(ctx, collections.Join(id, owner))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return shares, nil
}

// AddHolding credits shares of vault id to owner.
func (k Keeper) AddHolding(ctx context.Context, id uint64, owner sdk.AccAddress, shares sdkmath.Int) error {
	current, err := k.GetHolding(ctx, id, owner)
	if err != nil {
		return err
	}
	total, err := utils.CheckedAdd(current, shares)
	if err != nil {
		return err
	}
	return k.Holdings.Set(ctx, collections.Join(id, owner), total)
}

// SubHolding debits shares of vault id from owner, removing the entry when it reaches zero.
func (k Keeper) SubHolding(ctx context.Context, id uint64, owner sdk.AccAddress, shares sdkmath.Int) error {
	current, err := k.GetHolding(ctx, id, owner)
	if err != nil {
		return err
	}
	if current.LT(shares) {
		return types.ErrInsufficientShares.Wrapf("%s holds %s shares of vault %d, requested %s", owner, current, id, shares)
	}
	remaining := current.Sub(shares)
	if remaining.IsZero() {
		return k.Holdings.Remove(ctx, collections.Join(id, owner))
	}
	return k.Holdings.Set(ctx, collections.Join(id, owner), remaining)
}

// WalkVaultHoldings iterates over the holders of vault id in address order.
func (k Keeper) WalkVaultHoldings(ctx context.Context, id uint64, fn func(owner sdk.AccAddress, shares sdkmath.Int) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[uint64, sdk.AccAddress](id)
	return k.Holdings.Walk(ctx, rng, func(key collections.Pair[uint64, sdk.AccAddress], shares sdkmath.Int) (bool, error) {
		return fn(key.K2(), shares)
	})
}

// GetAllHoldings returns every holding across all vaults, ordered by vault id then owner.
func (k Keeper) GetAllHoldings(ctx context.Context) ([]types.Holding, error) {
	holdings := []types.Holding{}
	err := k.Holdings.Walk(ctx, nil, func(key collections.Pair[uint64, sdk.AccAddress], shares sdkmath.Int) (bool, error) {
		owner, err := k.addressCodec.BytesToString(key.K2())
		if err != nil {
			return true, err
		}
		holdings = append(holdings, types.Holding{VaultID: key.K1(), Owner: owner, Shares: shares})
		return false, nil
	})
	return holdings, err
}

// TotalHeld returns the sum of all holdings of vault id.
func (k Keeper) TotalHeld(ctx context.Context, id uint64) (sdkmath.Int, error) {
	total := sdkmath.ZeroInt()
	err := k.WalkVaultHoldings(ctx, id, func(_ sdk.AccAddress, shares sdkmath.Int) (bool, error) {
		var err error
		total, err = utils.CheckedAdd(total, shares)
		return err != nil, err
	})
	return total, err
}
