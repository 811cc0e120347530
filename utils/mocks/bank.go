package mocks

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/provlabs/sharevault/types"
)

var _ types.BankKeeper = (*BankKeeper)(nil)

// BankKeeper is an in-memory types.BankKeeper. Balances live outside the
// store, so they are not rolled back with cached contexts.
type BankKeeper struct {
	balances map[string]sdkmath.Int

	// SendErr, when set, is returned by every SendCoins call.
	SendErr error
	// Sends counts successful SendCoins calls.
	Sends int
}

// NewBankKeeper returns an empty BankKeeper.
func NewBankKeeper() *BankKeeper {
	return &BankKeeper{balances: make(map[string]sdkmath.Int)}
}

func balanceKey(addr sdk.AccAddress, denom string) string {
	return addr.String() + "/" + denom
}

// GetBalance returns the balance of denom held by addr.
func (b *BankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amt, ok := b.balances[balanceKey(addr, denom)]
	if !ok {
		amt = sdkmath.ZeroInt()
	}
	return sdk.NewCoin(denom, amt)
}

// SendCoins moves amt from fromAddr to toAddr.
func (b *BankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	for _, coin := range amt {
		if b.GetBalance(ctx, fromAddr, coin.Denom).Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s cannot send %s", fromAddr, coin)
		}
	}
	for _, coin := range amt {
		from := b.GetBalance(ctx, fromAddr, coin.Denom).Amount
		b.balances[balanceKey(fromAddr, coin.Denom)] = from.Sub(coin.Amount)
		to := b.GetBalance(ctx, toAddr, coin.Denom).Amount
		b.balances[balanceKey(toAddr, coin.Denom)] = to.Add(coin.Amount)
	}
	b.Sends++
	return nil
}

// Fund credits amt to addr.
func (b *BankKeeper) Fund(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		current := b.GetBalance(ctx, addr, coin.Denom).Amount
		b.balances[balanceKey(addr, coin.Denom)] = current.Add(coin.Amount)
	}
	return nil
}
