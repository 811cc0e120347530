package simapp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/provlabs/sharevault"
	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// DefaultNodeHome is the default home directory of the single-node host.
var DefaultNodeHome string

// DefaultChainID is used in context headers when no chain id is configured.
const DefaultChainID = "sharevault-local"

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, ".sharevault")
}

// SimApp is a single-node host for the sharevault module. It keeps auth, bank
// and module state in an IAVL multistore on a cosmos-db database and exposes
// contexts over an uncommitted branch of that state.
type SimApp struct {
	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	branch  storetypes.CacheMultiStore
	keys    map[string]*storetypes.KVStoreKey
	chainID string
	cdc     codec.Codec

	ModuleManager *module.Manager
	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    BankKeeper
	VaultKeeper   *keeper.Keeper
	vaultModule   sharevault.AppModule

	invariants *invariantRegistry
}

// Option configures a SimApp.
type Option func(*options)

type options struct {
	authority sdk.AccAddress
	chainID   string
}

// WithAuthority sets the address allowed to configure vaults and update params.
// The gov module address is used by default.
func WithAuthority(authority sdk.AccAddress) Option {
	return func(o *options) { o.authority = authority }
}

// WithChainID sets the chain id used in context headers.
func WithChainID(chainID string) Option {
	return func(o *options) { o.chainID = chainID }
}

// NewSimApp returns a reference to an initialized SimApp loaded at the latest committed version.
func NewSimApp(logger log.Logger, db dbm.DB, opts ...Option) (*SimApp, error) {
	o := options{
		authority: authtypes.NewModuleAddress(types.GovModuleName),
		chainID:   DefaultChainID,
	}
	for _, opt := range opts {
		opt(&o)
	}

	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, types.StoreKey)
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	bech32Prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()
	encCfg := MakeEncodingConfig(bech32Prefix)
	addressCodec := addresscodec.NewBech32Codec(bech32Prefix)
	authority := o.authority.String()

	accountKeeper := authkeeper.NewAccountKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		addressCodec,
		bech32Prefix,
		authority,
	)
	bankKeeper := BankKeeper{BaseKeeper: bankkeeper.NewBaseKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		accountKeeper,
		blockedAddrs(),
		authority,
		logger,
	)}
	vaultKeeper := keeper.NewKeeper(
		runtime.NewKVStoreService(keys[types.StoreKey]),
		runtime.ProvideEventService(),
		addressCodec,
		o.authority,
		bankKeeper,
	)
	vaultModule := sharevault.NewAppModule(vaultKeeper)

	app := &SimApp{
		logger:  logger,
		db:      db,
		cms:     cms,
		keys:    keys,
		chainID: o.chainID,
		cdc:     encCfg.Codec,
		ModuleManager: module.NewManager(
			auth.NewAppModule(encCfg.Codec, accountKeeper, nil, nil),
			bank.NewAppModule(encCfg.Codec, bankKeeper.BaseKeeper, accountKeeper, nil),
			vaultModule,
		),
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		VaultKeeper:   vaultKeeper,
		vaultModule:   vaultModule,
		invariants:    &invariantRegistry{},
	}
	vaultModule.RegisterInvariants(app.invariants)

	return app, nil
}

// Logger returns the app logger.
func (app *SimApp) Logger() log.Logger {
	return app.logger
}

// Authority returns the module authority address.
func (app *SimApp) Authority() sdk.AccAddress {
	return app.VaultKeeper.GetAuthority()
}

// LastBlockHeight returns the version of the last commit.
func (app *SimApp) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// GetKey returns the KVStoreKey for the provided store key.
func (app *SimApp) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// NewContext returns a context over a fresh branch of the committed state.
// Writes made through it reach the database only on Commit.
func (app *SimApp) NewContext(isCheckTx bool) sdk.Context {
	app.branch = app.cms.CacheMultiStore()
	header := cmtproto.Header{
		ChainID: app.chainID,
		Height:  app.LastBlockHeight() + 1,
		Time:    time.Now().UTC(),
	}
	return sdk.NewContext(app.branch, header, isCheckTx, app.logger)
}

// EndBlock runs the end-of-block hooks of every module against ctx.
func (app *SimApp) EndBlock(ctx sdk.Context) error {
	_, err := app.ModuleManager.EndBlock(ctx)
	return err
}

// Commit writes the current branch and commits a new version.
func (app *SimApp) Commit() storetypes.CommitID {
	if app.branch != nil {
		app.branch.Write()
		app.branch = nil
	}
	return app.cms.Commit()
}

// Discard drops the current branch without writing it.
func (app *SimApp) Discard() {
	app.branch = nil
}

// DefaultGenesis returns the default genesis of every module.
func (app *SimApp) DefaultGenesis() map[string]json.RawMessage {
	genesis := make(map[string]json.RawMessage, len(app.ModuleManager.Modules))
	for name, mod := range app.ModuleManager.Modules {
		if g, ok := mod.(module.HasGenesisBasics); ok {
			genesis[name] = g.DefaultGenesis(app.cdc)
		}
	}
	return genesis
}

// InitChain initializes module state from genesis and commits it. Modules run
// in registration order and a module missing from genesis starts from its
// default state, so every mounted store holds data at the first version. It is
// a no-op once a version has been committed.
func (app *SimApp) InitChain(genesis map[string]json.RawMessage) (err error) {
	if app.LastBlockHeight() > 0 {
		return nil
	}

	ctx := app.NewContext(false)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to init genesis: %v", r)
		}
		if err != nil {
			app.Discard()
		}
	}()

	for _, name := range app.ModuleManager.OrderInitGenesis {
		mod, ok := app.ModuleManager.Modules[name].(module.HasGenesis)
		if !ok {
			continue
		}
		bz, ok := genesis[name]
		if !ok {
			bz = mod.DefaultGenesis(app.cdc)
		}
		app.logger.Debug("running initialization for module", "module", name)
		mod.InitGenesis(ctx, app.cdc, bz)
	}

	app.Commit()
	return nil
}

// ExportGenesis exports the committed state of every module.
func (app *SimApp) ExportGenesis() (map[string]json.RawMessage, error) {
	ctx := app.NewContext(true)
	defer app.Discard()

	genesis := make(map[string]json.RawMessage, len(app.ModuleManager.OrderExportGenesis))
	for _, name := range app.ModuleManager.OrderExportGenesis {
		if mod, ok := app.ModuleManager.Modules[name].(module.HasGenesis); ok {
			genesis[name] = mod.ExportGenesis(ctx, app.cdc)
		}
	}
	return genesis, nil
}

// FundAccount mints coins into addr through the faucet module account.
func (app *SimApp) FundAccount(ctx sdk.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	return app.BankKeeper.Fund(ctx, addr, coins)
}

// MsgServer returns the sharevault message server.
func (app *SimApp) MsgServer() types.MsgServer {
	return app.vaultModule.MsgServer()
}

// QueryServer returns the sharevault query server.
func (app *SimApp) QueryServer() types.QueryServer {
	return app.vaultModule.QueryServer()
}

// AssertInvariants runs every registered invariant against ctx.
func (app *SimApp) AssertInvariants(ctx sdk.Context) error {
	return app.invariants.assert(ctx)
}

// Close closes the underlying database.
func (app *SimApp) Close() error {
	return app.db.Close()
}

type invariantRoute struct {
	module, route string
	invar         sdk.Invariant
}

// invariantRegistry collects module invariants so the host can assert them after each operation.
type invariantRegistry struct {
	routes []invariantRoute
}

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, invar: invar})
}

func (r *invariantRegistry) assert(ctx sdk.Context) error {
	for _, route := range r.routes {
		if msg, broken := route.invar(ctx); broken {
			return fmt.Errorf("%s/%s invariant broken: %s", route.module, route.route, msg)
		}
	}
	return nil
}
