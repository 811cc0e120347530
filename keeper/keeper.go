package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/journal"
	"github.com/provlabs/sharevault/types"
)

type Keeper struct {
	schema       collections.Schema
	eventService event.Service
	addressCodec address.Codec
	authority    []byte
	bankKeeper   types.BankKeeper
	locks        *vaultLocks

	Params   collections.Item[types.Params]
	Vaults   collections.Map[uint64, types.VaultState]
	Holdings collections.Map[collections.Pair[uint64, sdk.AccAddress], sdkmath.Int]
	Journal  *journal.Journal
}

func NewKeeper(
	storeService store.KVStoreService,
	eventService event.Service,
	addressCodec address.Codec,
	authority []byte,
	bankKeeper types.BankKeeper,
) *Keeper {
	if _, err := addressCodec.BytesToString(authority); err != nil {
		panic(fmt.Sprintf("invalid authority address %s: %s", authority, err))
	}

	builder := collections.NewSchemaBuilder(storeService)

	keeper := &Keeper{
		eventService: eventService,
		addressCodec: addressCodec,
		authority:    authority,
		bankKeeper:   bankKeeper,
		locks:        newVaultLocks(),
		Params:       collections.NewItem(builder, types.ParamsKeyPrefix, types.ParamsName, collections.NewJSONValueCodec[types.Params]()),
		Vaults:       collections.NewMap(builder, types.VaultsKeyPrefix, types.VaultsName, collections.Uint64Key, collections.NewJSONValueCodec[types.VaultState]()),
		Holdings: collections.NewMap(
			builder,
			types.HoldingsKeyPrefix,
			types.HoldingsName,
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
			sdk.IntValue,
		),
		Journal: journal.NewJournal(builder),
	}

	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}

	keeper.schema = schema
	return keeper
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() []byte {
	return k.authority
}

// GetParams returns the module params, falling back to the defaults when none are stored.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, err
	}
	return params, nil
}

// getLogger returns a logger with vault module context.
func (k Keeper) getLogger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// emitEvent emits a module event through the event service.
func (k Keeper) emitEvent(ctx context.Context, e types.Event) {
	if err := k.eventService.EventManager(ctx).EmitKV(ctx, e.EventType(), e.Attributes()...); err != nil {
		k.getLogger(ctx).Error("failed to emit event", "type", e.EventType(), "error", err)
	}
}
