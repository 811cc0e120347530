package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"

	"github.com/provlabs/sharevault/types"
)

// GetVaults is a helper function for retrieving all vaults from state in id order.
func (k *Keeper) GetVaults(ctx context.Context) ([]types.VaultState, error) {
	vaults := []types.VaultState{}

	err := k.WalkVaults(ctx, func(vault types.VaultState) (stop bool, err error) {
		vaults = append(vaults, vault)
		return false, nil
	})

	return vaults, err
}

// WalkVaults iterates over all vaults in id order. Iteration stops if the
// callback returns stop=true or an error.
func (k *Keeper) WalkVaults(ctx context.Context, fn func(vault types.VaultState) (stop bool, err error)) error {
	return k.Vaults.Walk(ctx, nil, func(_ uint64, vault types.VaultState) (bool, error) {
		return fn(vault)
	})
}

// GetVault returns the vault stored under id.
//
// Returns types.ErrVaultNotFound if the id was never configured.
func (k *Keeper) GetVault(ctx context.Context, id uint64) (types.VaultState, error) {
	vault, err := k.Vaults.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.VaultState{}, types.ErrVaultNotFound.Wrapf("vault %d", id)
		}
		return types.VaultState{}, fmt.Errorf("failed to read vault %d: %w", id, err)
	}
	return vault, nil
}

// CreateVault validates and stores a new vault.
//
// Returns types.ErrVaultAlreadyExists, leaving the stored vault untouched, if
// the id is already taken.
func (k *Keeper) CreateVault(ctx context.Context, vault types.VaultState) error {
	unlock := k.locks.lock(vault.ID)
	defer unlock()

	return k.createVault(ctx, vault)
}

// createVault is CreateVault for callers already holding the vault lock.
func (k *Keeper) createVault(ctx context.Context, vault types.VaultState) error {
	found, err := k.Vaults.Has(ctx, vault.ID)
	if err != nil {
		return fmt.Errorf("failed to read vault %d: %w", vault.ID, err)
	}
	if found {
		return types.ErrVaultAlreadyExists.Wrapf("vault %d", vault.ID)
	}
	if err := vault.Validate(); err != nil {
		return err
	}
	return k.Vaults.Set(ctx, vault.ID, vault)
}

// UpdateVault loads the vault stored under id, applies fn to a copy and
// persists the result. Nothing is written unless fn returns nil and the
// updated vault still satisfies its invariants, so a failed update leaves
// the vault exactly as it was.
//
// Only one UpdateVault runs per id at a time.
func (k *Keeper) UpdateVault(ctx context.Context, id uint64, fn func(vault *types.VaultState) error) error {
	unlock := k.locks.lock(id)
	defer unlock()

	before, err := k.GetVault(ctx, id)
	if err != nil {
		return err
	}

	after := before
	if err := fn(&after); err != nil {
		return err
	}
	if after.ID != id {
		return types.ErrInvariantBroken.Wrapf("vault id changed from %d to %d", id, after.ID)
	}
	if err := after.Validate(); err != nil {
		return err
	}
	if !SharePriceNonDecreasing(before, after) {
		return types.ErrInvariantBroken.Wrapf("share price of vault %d would drop from %s to %s", id, before.SharePrice(), after.SharePrice())
	}

	return k.Vaults.Set(ctx, id, after)
}
