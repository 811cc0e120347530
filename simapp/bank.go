package simapp

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"

	"github.com/provlabs/sharevault/types"
)

// FaucetModuleName is the module account that mints funds handed out by the host.
const FaucetModuleName = "faucet"

var _ types.BankKeeper = BankKeeper{}

// maccPerms are the module account permissions of the host.
var maccPerms = map[string][]string{
	authtypes.FeeCollectorName: nil,
	FaucetModuleName:           {authtypes.Minter},
}

// BankKeeper is the x/bank keeper of the host plus a faucet used to fund accounts.
type BankKeeper struct {
	bankkeeper.BaseKeeper
}

// Fund mints amt into the faucet module account and sends it to addr.
// Nothing is minted when addr may not receive funds.
func (k BankKeeper) Fund(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if amt.IsZero() {
		return nil
	}
	if k.BlockedAddr(addr) {
		return errorsmod.Wrapf(sdkerrors.ErrUnauthorized, "%s is not allowed to receive funds", addr)
	}
	if err := k.MintCoins(ctx, FaucetModuleName, amt); err != nil {
		return fmt.Errorf("failed to mint %s: %w", amt, err)
	}
	return k.SendCoinsFromModuleToAccount(ctx, FaucetModuleName, addr, amt)
}

// blockedAddrs returns the module accounts that may not receive funds directly.
func blockedAddrs() map[string]bool {
	blocked := make(map[string]bool, len(maccPerms))
	for name := range maccPerms {
		blocked[authtypes.NewModuleAddress(name).String()] = true
	}
	return blocked
}
