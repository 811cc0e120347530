package keeper

import (
	"bytes"
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

var _ types.MsgServer = &msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// ConfigureVault creates a new vault. The authority funds the seed share
// supply and receives the seed shares. Stateless message checks and the
// authority match run before the engine, so a malformed message fails on its
// own fields even when the id is already taken.
func (k msgServer) ConfigureVault(goCtx context.Context, msg *types.MsgConfigureVault) (*types.MsgConfigureVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := k.validateAuthority(msg.Authority)
	if err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.Keeper.ConfigureVault(cacheCtx, msg.VaultID, msg.InitialShareSupply, msg.FeeBasisPoints, msg.AllocationA, msg.AllocationB); err != nil {
		return nil, err
	}
	vault, err := k.GetVault(cacheCtx, msg.VaultID)
	if err != nil {
		return nil, err
	}
	custody := types.GetVaultAddress(msg.VaultID)
	if msg.InitialShareSupply.IsPositive() {
		seed := sdk.NewCoins(sdk.NewCoin(params.AssetDenom, msg.InitialShareSupply))
		if err := k.bankKeeper.SendCoins(cacheCtx, authority, custody, seed); err != nil {
			return nil, fmt.Errorf("failed to fund seed of vault %d: %w", msg.VaultID, err)
		}
		if err := k.AddHolding(cacheCtx, msg.VaultID, authority, msg.InitialShareSupply); err != nil {
			return nil, err
		}
	}
	if _, err := k.Journal.Append(cacheCtx, types.NewConfigureEntry(ctx.BlockHeight(), msg.Authority, vault)); err != nil {
		return nil, err
	}
	k.emitEvent(cacheCtx, types.NewEventVaultConfigured(msg.Authority, vault))
	write()

	k.getLogger(ctx).Info("vault configured",
		"vault_id", msg.VaultID,
		"initial_share_supply", msg.InitialShareSupply.String(),
		"fee_bps", msg.FeeBasisPoints,
		"allocation", fmt.Sprintf("%d/%d", msg.AllocationA, msg.AllocationB),
	)

	return &types.MsgConfigureVaultResponse{VaultAddress: custody.String()}, nil
}

// Deposit moves assets from the owner into vault custody and credits the minted shares.
func (k msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, err := k.addressCodec.StringToBytes(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner address: %w", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	cacheCtx, write := ctx.CacheContext()
	result, err := k.Keeper.Deposit(cacheCtx, msg.VaultID, msg.Amount)
	if err != nil {
		return nil, err
	}
	amount := sdk.NewCoins(sdk.NewCoin(params.AssetDenom, msg.Amount))
	if err := k.bankKeeper.SendCoins(cacheCtx, owner, types.GetVaultAddress(msg.VaultID), amount); err != nil {
		return nil, fmt.Errorf("failed to transfer deposit into vault %d: %w", msg.VaultID, err)
	}
	if err := k.AddHolding(cacheCtx, msg.VaultID, owner, result.SharesMinted); err != nil {
		return nil, err
	}
	if _, err := k.Journal.Append(cacheCtx, types.NewDepositEntry(ctx.BlockHeight(), msg.VaultID, msg.Owner, msg.Amount, result)); err != nil {
		return nil, err
	}
	k.emitEvent(cacheCtx, types.NewEventDeposit(msg.VaultID, msg.Owner, msg.Amount, result))
	write()

	k.getLogger(ctx).Debug("vault deposit",
		"vault_id", msg.VaultID,
		"owner", msg.Owner,
		"amount", msg.Amount.String(),
		"fee", result.Fee.String(),
		"shares_minted", result.SharesMinted.String(),
	)

	return &types.MsgDepositResponse{SharesMinted: result.SharesMinted}, nil
}

// Withdraw burns the owner's shares and pays out the returned assets from vault custody.
func (k msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, err := k.addressCodec.StringToBytes(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner address: %w", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := k.GetVault(ctx, msg.VaultID); err != nil {
		return nil, err
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.SubHolding(cacheCtx, msg.VaultID, owner, msg.Shares); err != nil {
		return nil, err
	}
	result, err := k.Keeper.Withdraw(cacheCtx, msg.VaultID, msg.Shares)
	if err != nil {
		return nil, err
	}
	payout := sdk.NewCoins(sdk.NewCoin(params.AssetDenom, result.AssetsReturned))
	if err := k.bankKeeper.SendCoins(cacheCtx, types.GetVaultAddress(msg.VaultID), owner, payout); err != nil {
		return nil, fmt.Errorf("failed to pay out withdrawal from vault %d: %w", msg.VaultID, err)
	}
	if _, err := k.Journal.Append(cacheCtx, types.NewWithdrawEntry(ctx.BlockHeight(), msg.VaultID, msg.Owner, msg.Shares, result)); err != nil {
		return nil, err
	}
	k.emitEvent(cacheCtx, types.NewEventWithdraw(msg.VaultID, msg.Owner, msg.Shares, result))
	write()

	k.getLogger(ctx).Debug("vault withdraw",
		"vault_id", msg.VaultID,
		"owner", msg.Owner,
		"shares", msg.Shares.String(),
		"fee", result.Fee.String(),
		"assets_returned", result.AssetsReturned.String(),
	)

	return &types.MsgWithdrawResponse{AssetsReturned: result.AssetsReturned}, nil
}

// UpdateParams updates the params for the module.
func (k msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if _, err := k.validateAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := k.Params.Set(goCtx, msg.Params); err != nil {
		return nil, err
	}
	k.emitEvent(goCtx, types.NewEventParamsUpdated(msg.Authority, msg.Params))

	return &types.MsgUpdateParamsResponse{}, nil
}

// validateAuthority decodes addr and checks it against the keeper authority.
func (k msgServer) validateAuthority(addr string) (sdk.AccAddress, error) {
	authority, err := k.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid authority address: %w", err)
	}
	if !bytes.Equal(authority, k.authority) {
		expected, _ := k.addressCodec.BytesToString(k.authority)
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", expected, addr)
	}
	return authority, nil
}
