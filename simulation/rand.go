package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"cosmossdk.io/math"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// randomInt63 generates a random int64 between 0 and maxVal.
func randomInt63(r *rand.Rand, maxVal int64) (result int64) {
	if maxVal == 0 {
		return 0
	}
	return r.Int63n(maxVal)
}

// randomFee returns a fee in basis points, zero one time in ChanceOfZeroFee.
func randomFee(r *rand.Rand) uint64 {
	if r.Intn(ChanceOfZeroFee) == 0 {
		return 0
	}
	return uint64(randomInt63(r, MaxFeeBasisPoints) + 1)
}

// randomAllocation returns two strategy weights that sum to types.BasisPointsScale.
func randomAllocation(r *rand.Rand) (uint64, uint64) {
	a := uint64(randomInt63(r, int64(types.BasisPointsScale)+1))
	return a, types.BasisPointsScale - a
}

// randomPositiveAmount returns an amount in [1, limit], or zero when limit is not positive.
func randomPositiveAmount(r *rand.Rand, limit math.Int) math.Int {
	if !limit.IsPositive() {
		return math.ZeroInt()
	}
	if limit.Equal(math.OneInt()) {
		return math.OneInt()
	}
	amt := simtypes.RandomAmount(r, limit.SubRaw(1))
	return amt.AddRaw(1)
}

// getRandomVault selects a random vault from all existing vaults.
func getRandomVault(r *rand.Rand, k *keeper.Keeper, ctx context.Context) (types.VaultState, error) {
	vaults, err := k.GetVaults(ctx)
	if err != nil {
		return types.VaultState{}, err
	}
	if len(vaults) == 0 {
		return types.VaultState{}, fmt.Errorf("no vaults found")
	}
	return vaults[r.Intn(len(vaults))], nil
}

// getRandomHolder selects a random account holding shares of vault id.
func getRandomHolder(r *rand.Rand, k *keeper.Keeper, ctx context.Context, id uint64, accs []simtypes.Account) (simtypes.Account, math.Int, bool) {
	var holders []simtypes.Account
	var shares []math.Int
	for _, acc := range accs {
		held, err := k.GetHolding(ctx, id, acc.Address)
		if err != nil || !held.IsPositive() {
			continue
		}
		holders = append(holders, acc)
		shares = append(shares, held)
	}
	if len(holders) == 0 {
		return simtypes.Account{}, math.Int{}, false
	}
	i := r.Intn(len(holders))
	return holders[i], shares[i], true
}
