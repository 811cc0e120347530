package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// Bank is the bank used by a simulation: the module's BankKeeper plus minting.
type Bank interface {
	types.BankKeeper
	Fund(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error
}

// Config controls a simulation run.
type Config struct {
	Seed           int64
	NumAccounts    int
	NumOperations  int
	InitialBalance sdkmath.Int
	// RandomGenesis imports a random genesis before running operations.
	RandomGenesis bool
}

// DefaultConfig returns a small, deterministic simulation config.
func DefaultConfig() Config {
	return Config{
		Seed:           1,
		NumAccounts:    10,
		NumOperations:  500,
		InitialBalance: sdkmath.NewInt(1_000_000_000),
		RandomGenesis:  true,
	}
}

// Report summarizes a simulation run.
type Report struct {
	// OK counts executed messages by type.
	OK map[string]int `json:"ok"`
	// NoOp counts skipped or rejected messages by type.
	NoOp map[string]int `json:"no_op"`
}

// Run executes cfg.NumOperations random operations against k, asserting the
// vault invariants after each one. The authority and every simulation account
// are funded with cfg.InitialBalance of the asset denom first.
func Run(ctx sdk.Context, k *keeper.Keeper, bank Bank, cfg Config) (Report, error) {
	r := rand.New(rand.NewSource(cfg.Seed))
	report := Report{OK: map[string]int{}, NoOp: map[string]int{}}

	accs := simtypes.RandomAccounts(r, cfg.NumAccounts)
	accs = append(accs, simtypes.Account{Address: sdk.AccAddress(k.GetAuthority())})

	if cfg.RandomGenesis {
		if err := InitRandomGenesis(ctx, r, k, bank, accs); err != nil {
			return report, err
		}
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return report, err
	}
	for _, acc := range accs {
		if err := bank.Fund(ctx, acc.Address, sdk.NewCoins(sdk.NewCoin(params.AssetDenom, cfg.InitialBalance))); err != nil {
			return report, fmt.Errorf("failed to fund %s: %w", acc.Address, err)
		}
	}

	ops := WeightedOperations(make(simtypes.AppParams), r, k, bank)
	totalWeight := 0
	for _, op := range ops {
		totalWeight += op.Weight
	}
	if totalWeight == 0 {
		return report, fmt.Errorf("no operation has a positive weight")
	}

	for i := 0; i < cfg.NumOperations; i++ {
		op := pickOperation(r, ops, totalWeight)

		before, err := k.GetVaults(ctx)
		if err != nil {
			return report, err
		}
		opMsg, err := op.Op(r, ctx, accs)
		if err != nil {
			return report, fmt.Errorf("operation %d (%s) failed: %w", i, op.Name, err)
		}
		if opMsg.OK {
			report.OK[op.Name]++
		} else {
			report.NoOp[op.Name]++
		}

		if err := checkPrices(ctx, k, before); err != nil {
			return report, fmt.Errorf("operation %d (%s): %w", i, op.Name, err)
		}
		if err := k.CheckVaultInvariants(ctx); err != nil {
			return report, fmt.Errorf("operation %d (%s): %w", i, op.Name, err)
		}
		if err := k.CheckCustodyInvariants(ctx); err != nil {
			return report, fmt.Errorf("operation %d (%s): %w", i, op.Name, err)
		}
	}

	return report, nil
}

// InitRandomGenesis imports a random genesis for accs and funds each vault's
// custody account with the assets the genesis says it holds.
func InitRandomGenesis(ctx sdk.Context, r *rand.Rand, k *keeper.Keeper, bank Bank, accs []simtypes.Account) error {
	simState := &module.SimulationState{
		AppParams:    make(simtypes.AppParams),
		Rand:         r,
		GenState:     make(map[string]json.RawMessage),
		Accounts:     accs,
		GenTimestamp: time.Unix(0, 0).UTC(),
	}
	genesis := RandomGenesis(simState)
	k.InitGenesis(ctx, genesis)

	for _, vault := range genesis.Vaults {
		held := vault.TotalAssets.Add(vault.ResidualAssets)
		if !held.IsPositive() {
			continue
		}
		coins := sdk.NewCoins(sdk.NewCoin(genesis.Params.AssetDenom, held))
		if err := bank.Fund(ctx, types.GetVaultAddress(vault.ID), coins); err != nil {
			return fmt.Errorf("failed to fund custody of vault %d: %w", vault.ID, err)
		}
	}
	return nil
}

func pickOperation(r *rand.Rand, ops []WeightedOperation, totalWeight int) WeightedOperation {
	n := r.Intn(totalWeight)
	for _, op := range ops {
		if n < op.Weight {
			return op
		}
		n -= op.Weight
	}
	return ops[len(ops)-1]
}

// checkPrices verifies that no vault present in before lost share price.
func checkPrices(ctx sdk.Context, k *keeper.Keeper, before []types.VaultState) error {
	for _, prev := range before {
		next, err := k.GetVault(ctx, prev.ID)
		if err != nil {
			return err
		}
		if !keeper.SharePriceNonDecreasing(prev, next) {
			return types.ErrInvariantBroken.Wrapf("share price of vault %d dropped from %s to %s", prev.ID, prev.SharePrice(), next.SharePrice())
		}
	}
	return nil
}
