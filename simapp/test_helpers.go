package simapp

import (
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/provlabs/sharevault/types"
)

// Setup initializes a new SimApp on an in-memory database with the default
// genesis committed. A Nop logger is set in SimApp.
func Setup(t *testing.T, opts ...Option) *SimApp {
	t.Helper()

	app, err := NewSimApp(log.NewNopLogger(), dbm.NewMemDB(), opts...)
	require.NoError(t, err, "NewSimApp")
	require.NoError(t, app.InitChain(app.DefaultGenesis()), "InitChain")
	t.Cleanup(func() {
		_ = app.Close()
	})

	return app
}

// CreateAndFundAccount creates a new account and funds it with amount of the default asset denom.
func CreateAndFundAccount(t *testing.T, app *SimApp, ctx sdk.Context, amount sdkmath.Int) sdk.AccAddress {
	t.Helper()

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
	FundAccount(t, app, ctx, addr, amount)
	return addr
}

// FundAccount mints amount of the default asset denom into addr.
func FundAccount(t *testing.T, app *SimApp, ctx sdk.Context, addr sdk.AccAddress, amount sdkmath.Int) {
	t.Helper()

	coins := sdk.NewCoins(sdk.NewCoin(types.DefaultAssetDenom, amount))
	require.NoError(t, app.FundAccount(ctx, addr, coins), "FundAccount(%s, %s)", addr, coins)
}
