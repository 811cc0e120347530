package keeper

import (
	"context"
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// CheckVaultInvariants validates every stored vault and verifies that no
// vault's holder ledger exceeds its share supply.
func (k *Keeper) CheckVaultInvariants(ctx context.Context) error {
	return k.WalkVaults(ctx, func(vault types.VaultState) (bool, error) {
		if err := vault.Validate(); err != nil {
			return true, err
		}
		held, err := k.TotalHeld(ctx, vault.ID)
		if err != nil {
			return true, err
		}
		if held.GT(vault.TotalShareSupply) {
			return true, types.ErrInvariantBroken.Wrapf("vault %d holders own %s shares of a %s supply", vault.ID, held, vault.TotalShareSupply)
		}
		return false, nil
	})
}

// CheckCustodyInvariants verifies, for ledgers driven only through the message
// server, that each vault's holders own exactly its share supply and that its
// custody account holds TotalAssets plus ResidualAssets of the asset denom.
func (k *Keeper) CheckCustodyInvariants(ctx context.Context) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	return k.WalkVaults(ctx, func(vault types.VaultState) (bool, error) {
		held, err := k.TotalHeld(ctx, vault.ID)
		if err != nil {
			return true, err
		}
		if !held.Equal(vault.TotalShareSupply) {
			return true, types.ErrInvariantBroken.Wrapf("vault %d holders own %s shares of a %s supply", vault.ID, held, vault.TotalShareSupply)
		}
		custody := k.bankKeeper.GetBalance(ctx, types.GetVaultAddress(vault.ID), params.AssetDenom)
		expected := vault.TotalAssets.Add(vault.ResidualAssets)
		if !custody.Amount.Equal(expected) {
			return true, types.ErrInvariantBroken.Wrapf("vault %d custody holds %s, ledger expects %s", vault.ID, custody, sdk.NewCoin(params.AssetDenom, expected))
		}
		return false, nil
	})
}

// SharePriceNonDecreasing reports whether after.TotalAssets/after.TotalShareSupply
// is at least before.TotalAssets/before.TotalShareSupply. Vaults without
// shares on either side have no price and always pass.
func SharePriceNonDecreasing(before, after types.VaultState) bool {
	if before.TotalShareSupply.IsZero() || after.TotalShareSupply.IsZero() {
		return true
	}
	// Cross-multiplied operands can reach 512 bits, beyond math.Int.
	lhs := new(big.Int).Mul(after.TotalAssets.BigInt(), before.TotalShareSupply.BigInt())
	rhs := new(big.Int).Mul(before.TotalAssets.BigInt(), after.TotalShareSupply.BigInt())
	return lhs.Cmp(rhs) >= 0
}

// RegisterInvariants registers the vault invariants with the host registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "vault-state", VaultStateInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody", CustodyInvariant(k))
}

// VaultStateInvariant wraps CheckVaultInvariants as an sdk.Invariant.
func VaultStateInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		return invariantResult("vault-state", k.CheckVaultInvariants(ctx))
	}
}

// CustodyInvariant wraps CheckCustodyInvariants as an sdk.Invariant.
func CustodyInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		return invariantResult("custody", k.CheckCustodyInvariants(ctx))
	}
}

func invariantResult(route string, err error) (string, bool) {
	if err != nil {
		return sdk.FormatInvariant(types.ModuleName, route, err.Error()), true
	}
	return sdk.FormatInvariant(types.ModuleName, route, "all vaults consistent"), false
}
