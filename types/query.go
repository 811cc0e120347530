package types

import (
	context "context"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryServer is the read interface of the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Vault(context.Context, *QueryVaultRequest) (*QueryVaultResponse, error)
	Vaults(context.Context, *QueryVaultsRequest) (*QueryVaultsResponse, error)
	Holding(context.Context, *QueryHoldingRequest) (*QueryHoldingResponse, error)
	EstimateDeposit(context.Context, *QueryEstimateDepositRequest) (*QueryEstimateDepositResponse, error)
	EstimateWithdraw(context.Context, *QueryEstimateWithdrawRequest) (*QueryEstimateWithdrawResponse, error)
	History(context.Context, *QueryHistoryRequest) (*QueryHistoryResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryVaultRequest struct {
	VaultID uint64 `json:"vault_id"`
}

type QueryVaultResponse struct {
	Vault        VaultState        `json:"vault"`
	VaultAddress string            `json:"vault_address"`
	SharePrice   sdkmath.LegacyDec `json:"share_price"`
	Allocation   AllocationTargets `json:"allocation"`
}

type QueryVaultsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryVaultsResponse struct {
	Vaults     []VaultState        `json:"vaults"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryHoldingRequest struct {
	VaultID uint64 `json:"vault_id"`
	Owner   string `json:"owner"`
}

type QueryHoldingResponse struct {
	Shares sdkmath.Int `json:"shares"`
	// Assets is the proportional claim of Shares on the vault before withdrawal fees.
	Assets sdkmath.Int `json:"assets"`
}

type QueryEstimateDepositRequest struct {
	VaultID uint64      `json:"vault_id"`
	Amount  sdkmath.Int `json:"amount"`
}

type QueryEstimateDepositResponse struct {
	Result DepositResult `json:"result"`
}

type QueryEstimateWithdrawRequest struct {
	VaultID uint64      `json:"vault_id"`
	Shares  sdkmath.Int `json:"shares"`
}

type QueryEstimateWithdrawResponse struct {
	Result WithdrawResult `json:"result"`
}

type QueryHistoryRequest struct {
	VaultID    uint64             `json:"vault_id"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryHistoryResponse struct {
	Entries    []JournalRecord     `json:"entries"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}
