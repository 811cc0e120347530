package simulation

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/provlabs/sharevault/types"
)

const (
	MaxNumVaults      = 5
	MaxSeedSupply     = 1_000_000
	MaxFeeBasisPoints = 500
	ChanceOfZeroFee   = 4 // 1 in X
	ChanceOfEmptySeed = 5 // 1 in X
)

// RandomizedGenState generates a random GenesisState for the sharevault module.
// Every seed share is assigned to one of the simulation accounts, so the
// holder ledger matches each vault's supply.
func RandomizedGenState(simState *module.SimulationState) {
	genesis := RandomGenesis(simState)

	bz, err := json.MarshalIndent(genesis, "", " ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Selected randomly generated sharevault parameters: %s\n", bz)

	simState.GenState[types.ModuleName] = bz
}

// RandomGenesis returns the random genesis used by RandomizedGenState.
func RandomGenesis(simState *module.SimulationState) *types.GenesisState {
	r := simState.Rand
	genesis := types.DefaultGenesisState()

	numVaults := r.Intn(MaxNumVaults) + 1
	for i := 0; i < numVaults; i++ {
		id := uint64(i + 1)
		seed := sdkmath.ZeroInt()
		if r.Intn(ChanceOfEmptySeed) != 0 {
			seed = sdkmath.NewInt(randomInt63(r, MaxSeedSupply) + 1)
		}
		allocA, allocB := randomAllocation(r)
		genesis.Vaults = append(genesis.Vaults, types.NewVaultState(id, seed, randomFee(r), allocA, allocB))

		if seed.IsPositive() && len(simState.Accounts) > 0 {
			owner := simState.Accounts[r.Intn(len(simState.Accounts))]
			genesis.Holdings = append(genesis.Holdings, types.Holding{
				VaultID: id,
				Owner:   owner.Address.String(),
				Shares:  seed,
			})
		}
	}

	return genesis
}
