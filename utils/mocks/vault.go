package mocks

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/core/header"
	storetypes "cosmossdk.io/store/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// NewVaultKeeper returns an instance of the Keeper with all dependencies mocked.
// The authority is the gov module address.
func NewVaultKeeper(
	t testing.TB,
) (sdk.Context, *keeper.Keeper, *BankKeeper) {
	key := storetypes.NewKVStoreKey(types.StoreKey)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", types.ModuleName))
	wrapper := testutil.DefaultContextWithDB(t, key, tkey)

	bank := NewBankKeeper()
	k := keeper.NewKeeper(
		runtime.NewKVStoreService(key),
		runtime.ProvideEventService(),
		addresscodec.NewBech32Codec("cosmos"),
		authtypes.NewModuleAddress(types.GovModuleName),
		bank,
	)

	ctx := wrapper.Ctx.WithHeaderInfo(header.Info{Time: time.Now().UTC()})
	return ctx, k, bank
}
