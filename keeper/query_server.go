package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/provlabs/sharevault/journal"
	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

var _ types.QueryServer = &queryServer{}

type queryServer struct {
	*Keeper
}

// NewQueryServer creates a new QueryServer for the module.
func NewQueryServer(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// Params returns the module params.
func (k queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	params, err := k.GetParams(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Vaults returns a paginated list of all vaults.
func (k queryServer) Vaults(goCtx context.Context, req *types.QueryVaultsRequest) (*types.QueryVaultsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	vaults, pageRes, err := query.CollectionPaginate(
		ctx,
		k.Keeper.Vaults,
		req.Pagination,
		func(_ uint64, vault types.VaultState) (types.VaultState, error) {
			return vault, nil
		},
	)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryVaultsResponse{
		Vaults:     vaults,
		Pagination: pageRes,
	}, nil
}

// Vault returns the state of a specific vault with its share price and allocation targets.
func (k queryServer) Vault(goCtx context.Context, req *types.QueryVaultRequest) (*types.QueryVaultResponse, error) {
	if req == nil || req.VaultID == 0 {
		return nil, status.Error(codes.InvalidArgument, "vault_id must be provided")
	}

	vault, err := k.GetVault(goCtx, req.VaultID)
	if err != nil {
		return nil, vaultStatus(req.VaultID, err)
	}

	targets, err := utils.SplitAssets(vault.TotalAssets, vault.AllocationA, vault.AllocationB)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to compute allocation: %v", err)
	}

	return &types.QueryVaultResponse{
		Vault:        vault,
		VaultAddress: types.GetVaultAddress(vault.ID).String(),
		SharePrice:   vault.SharePrice(),
		Allocation:   targets,
	}, nil
}

// Holding returns the shares of a vault held by an owner and their current claim on assets.
func (k queryServer) Holding(goCtx context.Context, req *types.QueryHoldingRequest) (*types.QueryHoldingResponse, error) {
	if req == nil || req.VaultID == 0 {
		return nil, status.Error(codes.InvalidArgument, "vault_id must be provided")
	}
	if req.Owner == "" {
		return nil, status.Error(codes.InvalidArgument, "owner must be provided")
	}

	owner, err := k.addressCodec.StringToBytes(req.Owner)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid owner: %v", err)
	}

	vault, err := k.GetVault(goCtx, req.VaultID)
	if err != nil {
		return nil, vaultStatus(req.VaultID, err)
	}

	shares, err := k.GetHolding(goCtx, req.VaultID, owner)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	assets := sdkmath.ZeroInt()
	if shares.IsPositive() {
		assets, err = utils.CalculateAssetsFromShares(shares, vault.TotalShareSupply, vault.TotalAssets)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to value holding: %v", err)
		}
	}

	return &types.QueryHoldingResponse{Shares: shares, Assets: assets}, nil
}

// EstimateDeposit estimates the shares and fee of depositing an amount of underlying assets.
func (k queryServer) EstimateDeposit(goCtx context.Context, req *types.QueryEstimateDepositRequest) (*types.QueryEstimateDepositResponse, error) {
	if req == nil || req.VaultID == 0 {
		return nil, status.Error(codes.InvalidArgument, "vault_id must be provided")
	}
	if req.Amount.IsNil() {
		return nil, status.Error(codes.InvalidArgument, "amount must be provided")
	}

	result, err := k.PreviewDeposit(goCtx, req.VaultID, req.Amount)
	if err != nil {
		return nil, estimateStatus(err)
	}
	return &types.QueryEstimateDepositResponse{Result: result}, nil
}

// EstimateWithdraw estimates the assets returned and fee of burning an amount of shares.
func (k queryServer) EstimateWithdraw(goCtx context.Context, req *types.QueryEstimateWithdrawRequest) (*types.QueryEstimateWithdrawResponse, error) {
	if req == nil || req.VaultID == 0 {
		return nil, status.Error(codes.InvalidArgument, "vault_id must be provided")
	}
	if req.Shares.IsNil() {
		return nil, status.Error(codes.InvalidArgument, "shares must be provided")
	}

	result, err := k.PreviewWithdraw(goCtx, req.VaultID, req.Shares)
	if err != nil {
		return nil, estimateStatus(err)
	}
	return &types.QueryEstimateWithdrawResponse{Result: result}, nil
}

// History returns the operation journal of a vault, oldest first.
func (k queryServer) History(goCtx context.Context, req *types.QueryHistoryRequest) (*types.QueryHistoryResponse, error) {
	if req == nil || req.VaultID == 0 {
		return nil, status.Error(codes.InvalidArgument, "vault_id must be provided")
	}
	if _, err := k.GetVault(goCtx, req.VaultID); err != nil {
		return nil, vaultStatus(req.VaultID, err)
	}

	entries, pageRes, err := query.CollectionPaginate(
		goCtx,
		k.Journal.IndexedMap,
		req.Pagination,
		func(key journal.Key, entry types.JournalEntry) (types.JournalRecord, error) {
			return types.JournalRecord{Sequence: key.K2(), Entry: entry}, nil
		},
		query.WithCollectionPaginationPairPrefix[uint64, uint64](req.VaultID),
	)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryHistoryResponse{
		Entries:    entries,
		Pagination: pageRes,
	}, nil
}

// vaultStatus maps a vault lookup error onto a gRPC status. Only a missing
// vault is NotFound; a store or decoding failure is Internal.
func vaultStatus(id uint64, err error) error {
	if types.IsLookupError(err) {
		return status.Errorf(codes.NotFound, "vault %d not found", id)
	}
	return status.Errorf(codes.Internal, "failed to read vault %d: %v", id, err)
}

// estimateStatus maps an engine error onto a gRPC status.
func estimateStatus(err error) error {
	switch {
	case types.IsLookupError(err):
		return status.Error(codes.NotFound, err.Error())
	case types.IsValueError(err), types.IsConfigurationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case types.IsArithmeticError(err):
		return status.Error(codes.OutOfRange, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
