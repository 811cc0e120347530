package simulation

import (
	"fmt"
	"math/rand"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

const (
	OpWeightMsgConfigureVault = "op_weight_msg_configure_vault"
	OpWeightMsgDeposit        = "op_weight_msg_deposit"
	OpWeightMsgWithdraw       = "op_weight_msg_withdraw"
)

const (
	DefaultWeightMsgConfigureVault = 5
	DefaultWeightMsgDeposit        = 50
	DefaultWeightMsgWithdraw       = 35
)

const (
	TypeMsgConfigureVault = "configure_vault"
	TypeMsgDeposit        = "deposit"
	TypeMsgWithdraw       = "withdraw"
)

// Operation runs one random message against ctx.
//
// A returned error means the module misbehaved. Messages that cannot run in
// the current state, or that the module rejects for a value reason, are
// reported as no-op messages.
type Operation func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (simtypes.OperationMsg, error)

// WeightedOperation is an Operation with its selection weight.
type WeightedOperation struct {
	Weight int
	Name   string
	Op     Operation
}

// WeightedOperations returns the module operations with weights taken from
// appParams, or the defaults when absent.
func WeightedOperations(appParams simtypes.AppParams, r *rand.Rand, k *keeper.Keeper, bk types.BankKeeper) []WeightedOperation {
	var (
		wConfigureVault int
		wDeposit        int
		wWithdraw       int
	)

	appParams.GetOrGenerate(OpWeightMsgConfigureVault, &wConfigureVault, r, func(r *rand.Rand) { wConfigureVault = DefaultWeightMsgConfigureVault })
	appParams.GetOrGenerate(OpWeightMsgDeposit, &wDeposit, r, func(r *rand.Rand) { wDeposit = DefaultWeightMsgDeposit })
	appParams.GetOrGenerate(OpWeightMsgWithdraw, &wWithdraw, r, func(r *rand.Rand) { wWithdraw = DefaultWeightMsgWithdraw })

	return []WeightedOperation{
		{Weight: wConfigureVault, Name: TypeMsgConfigureVault, Op: SimulateMsgConfigureVault(k, bk)},
		{Weight: wDeposit, Name: TypeMsgDeposit, Op: SimulateMsgDeposit(k, bk)},
		{Weight: wWithdraw, Name: TypeMsgWithdraw, Op: SimulateMsgWithdraw(k)},
	}
}

// SimulateMsgConfigureVault creates the next vault id, seeded from the authority's balance.
func SimulateMsgConfigureVault(k *keeper.Keeper, bk types.BankKeeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (simtypes.OperationMsg, error) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgConfigureVault, "unable to read params"), err
		}
		vaults, err := k.GetVaults(ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgConfigureVault, "unable to list vaults"), err
		}

		authority := sdk.AccAddress(k.GetAuthority())
		balance := bk.GetBalance(ctx, authority, params.AssetDenom).Amount
		seed := sdkmath.ZeroInt()
		if r.Intn(ChanceOfEmptySeed) != 0 {
			seed = randomPositiveAmount(r, sdkmath.MinInt(balance, sdkmath.NewInt(MaxSeedSupply)))
		}
		allocA, allocB := randomAllocation(r)

		msg := &types.MsgConfigureVault{
			Authority:          authority.String(),
			VaultID:            uint64(len(vaults) + 1),
			InitialShareSupply: seed,
			FeeBasisPoints:     randomFee(r),
			AllocationA:        allocA,
			AllocationB:        allocB,
		}
		if _, err := keeper.NewMsgServer(k).ConfigureVault(ctx, msg); err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgConfigureVault, err.Error()), err
		}
		return okMsg(TypeMsgConfigureVault, fmt.Sprintf("vault %d seed %s", msg.VaultID, msg.InitialShareSupply)), nil
	}
}

// SimulateMsgDeposit deposits part of a random account's balance into a random vault.
func SimulateMsgDeposit(k *keeper.Keeper, bk types.BankKeeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (simtypes.OperationMsg, error) {
		vault, err := getRandomVault(r, k, ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgDeposit, "no vaults"), nil
		}
		params, err := k.GetParams(ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgDeposit, "unable to read params"), err
		}

		owner, _ := simtypes.RandomAcc(r, accs)
		balance := bk.GetBalance(ctx, owner.Address, params.AssetDenom).Amount
		amount := randomPositiveAmount(r, balance)
		if !amount.IsPositive() {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgDeposit, "owner has no balance"), nil
		}

		msg := &types.MsgDeposit{Owner: owner.Address.String(), VaultID: vault.ID, Amount: amount}
		if _, err := keeper.NewMsgServer(k).Deposit(ctx, msg); err != nil {
			if types.IsValueError(err) {
				return simtypes.NoOpMsg(types.ModuleName, TypeMsgDeposit, err.Error()), nil
			}
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgDeposit, err.Error()), err
		}
		return okMsg(TypeMsgDeposit, fmt.Sprintf("vault %d amount %s", msg.VaultID, msg.Amount)), nil
	}
}

// SimulateMsgWithdraw burns part of a random holder's shares of a random vault.
func SimulateMsgWithdraw(k *keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (simtypes.OperationMsg, error) {
		vault, err := getRandomVault(r, k, ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgWithdraw, "no vaults"), nil
		}
		owner, held, ok := getRandomHolder(r, k, ctx, vault.ID, accs)
		if !ok {
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgWithdraw, "no holders"), nil
		}

		msg := &types.MsgWithdraw{Owner: owner.Address.String(), VaultID: vault.ID, Shares: randomPositiveAmount(r, held)}
		if _, err := keeper.NewMsgServer(k).Withdraw(ctx, msg); err != nil {
			if types.IsValueError(err) {
				return simtypes.NoOpMsg(types.ModuleName, TypeMsgWithdraw, err.Error()), nil
			}
			return simtypes.NoOpMsg(types.ModuleName, TypeMsgWithdraw, err.Error()), err
		}
		return okMsg(TypeMsgWithdraw, fmt.Sprintf("vault %d shares %s", msg.VaultID, msg.Shares)), nil
	}
}

func okMsg(name, comment string) simtypes.OperationMsg {
	return simtypes.OperationMsg{Route: types.ModuleName, Name: name, Comment: comment, OK: true}
}
