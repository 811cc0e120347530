package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// InitGenesis initializes the vault module state from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		return
	}

	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid vault genesis state: %w", err))
	}

	if err := k.Params.Set(ctx, genState.Params); err != nil {
		panic(err)
	}

	for i, v := range genState.Vaults {
		if err := k.CreateVault(ctx, v); err != nil {
			panic(fmt.Errorf("failed to store vault at index %d: %w", i, err))
		}
	}

	for i, h := range genState.Holdings {
		owner, err := k.addressCodec.StringToBytes(h.Owner)
		if err != nil {
			panic(fmt.Errorf("invalid holding owner at index %d: %w", i, err))
		}
		if err := k.AddHolding(ctx, h.VaultID, owner, h.Shares); err != nil {
			panic(fmt.Errorf("failed to store holding at index %d: %w", i, err))
		}
	}

	if err := k.Journal.Import(ctx, genState.Journal, genState.JournalSequence); err != nil {
		panic(fmt.Errorf("failed to import journal: %w", err))
	}
}

// ExportGenesis exports the current state of the vault module.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault module params: %w", err))
	}

	vaults, err := k.GetVaults(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to export vaults: %w", err))
	}

	holdings, err := k.GetAllHoldings(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to export holdings: %w", err))
	}

	records, latestSequence, err := k.Journal.Export(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to export journal: %w", err))
	}

	return &types.GenesisState{
		Params:          params,
		Vaults:          vaults,
		Holdings:        holdings,
		Journal:         records,
		JournalSequence: latestSequence,
	}
}
