package sharevault

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// DefaultGenesisJSON returns the default genesis state as raw JSON.
func DefaultGenesisJSON() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesisState())
	if err != nil {
		panic(fmt.Errorf("failed to marshal default %s genesis: %w", types.ModuleName, err))
	}
	return bz
}

// ParseGenesis decodes and validates a raw JSON genesis state.
func ParseGenesis(bz json.RawMessage) (*types.GenesisState, error) {
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	if err := genesis.Validate(); err != nil {
		return nil, err
	}
	return &genesis, nil
}

// InitGenesis initializes the module's state from a raw JSON genesis state.
func InitGenesis(ctx sdk.Context, k *keeper.Keeper, bz json.RawMessage) error {
	genesis, err := ParseGenesis(bz)
	if err != nil {
		return err
	}
	k.InitGenesis(ctx, genesis)
	return nil
}

// ExportGenesis returns the module's exported genesis as raw JSON.
func ExportGenesis(ctx sdk.Context, k *keeper.Keeper) json.RawMessage {
	bz, err := json.Marshal(k.ExportGenesis(ctx))
	if err != nil {
		panic(fmt.Errorf("failed to marshal %s genesis: %w", types.ModuleName, err))
	}
	return bz
}
