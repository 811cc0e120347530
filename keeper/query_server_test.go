package keeper_test

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
	querytest "github.com/provlabs/sharevault/utils/query"
)

func (s *TestSuite) TestQueryServer_Params() {
	testDef := querytest.TestDef[types.QueryParamsRequest, types.QueryParamsResponse]{
		QueryName: "Params",
		Query:     keeper.NewQueryServer(s.simApp.VaultKeeper).Params,
	}

	tests := []querytest.TestCase[types.QueryParamsRequest, types.QueryParamsResponse]{
		{
			Name:         "default params",
			Req:          &types.QueryParamsRequest{},
			ExpectedResp: &types.QueryParamsResponse{Params: types.DefaultParams()},
		},
		{
			Name:               "nil request",
			Req:                nil,
			ExpectedErrSubstrs: []string{"invalid request"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.Name, func() {
			querytest.RunTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestQueryServer_Vault() {
	testDef := querytest.TestDef[types.QueryVaultRequest, types.QueryVaultResponse]{
		QueryName: "Vault",
		Query:     keeper.NewQueryServer(s.simApp.VaultKeeper).Vault,
		PostCheck: func(expected, actual *types.QueryVaultResponse) {
			s.Assert().Equal(expected.Vault.String(), actual.Vault.String(), "vault")
			s.Assert().Equal(expected.SharePrice.String(), actual.SharePrice.String(), "share price")
		},
	}

	setupScenario := func() {
		s.requireConfigureVault(1, 10_000, 50, 5000, 5000)
		_, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
		s.Require().NoError(err, "Deposit")
	}
	afterDeposit := types.NewVaultState(1, sdkmath.NewInt(10_995), 50, 5000, 5000)
	afterDeposit.TotalAssets = sdkmath.NewInt(11_000)
	afterDeposit.FeesCollected = sdkmath.NewInt(5)

	tests := []querytest.TestCase[types.QueryVaultRequest, types.QueryVaultResponse]{
		{
			Name:  "fresh vault",
			Setup: func() { s.requireConfigureVault(1, 10_000, 50, 5000, 5000) },
			Req:   &types.QueryVaultRequest{VaultID: 1},
			ExpectedResp: &types.QueryVaultResponse{
				Vault:        types.NewVaultState(1, sdkmath.NewInt(10_000), 50, 5000, 5000),
				VaultAddress: types.GetVaultAddress(1).String(),
				SharePrice:   sdkmath.LegacyOneDec(),
				Allocation:   types.AllocationTargets{StrategyA: sdkmath.NewInt(5000), StrategyB: sdkmath.NewInt(5000)},
			},
		},
		{
			Name:  "vault after deposit",
			Setup: setupScenario,
			Req:   &types.QueryVaultRequest{VaultID: 1},
			ExpectedResp: &types.QueryVaultResponse{
				Vault:        afterDeposit,
				VaultAddress: types.GetVaultAddress(1).String(),
				SharePrice:   sdkmath.LegacyNewDec(11_000).QuoInt64(10_995),
				Allocation:   types.AllocationTargets{StrategyA: sdkmath.NewInt(5500), StrategyB: sdkmath.NewInt(5500)},
			},
		},
		{
			Name:               "vault not found",
			Req:                &types.QueryVaultRequest{VaultID: 9},
			ExpectedErrSubstrs: []string{"NotFound", "vault 9 not found"},
		},
		{
			Name:               "zero id",
			Req:                &types.QueryVaultRequest{VaultID: 0},
			ExpectedErrSubstrs: []string{"InvalidArgument", "vault_id must be provided"},
		},
		{
			Name:               "nil request",
			Req:                nil,
			ExpectedErrSubstrs: []string{"vault_id must be provided"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.Name, func() {
			querytest.RunTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestQueryServer_Vaults() {
	queryServer := keeper.NewQueryServer(s.simApp.VaultKeeper)

	resp, err := queryServer.Vaults(s.ctx, &types.QueryVaultsRequest{})
	s.Require().NoError(err, "Vaults with no vaults")
	s.Assert().Empty(resp.Vaults, "vaults")

	s.requireConfigureVault(1, 100, 0, 5000, 5000)
	s.requireConfigureVault(2, 200, 10, 10_000, 0)
	s.requireConfigureVault(3, 0, 20, 0, 10_000)

	resp, err = queryServer.Vaults(s.ctx, &types.QueryVaultsRequest{})
	s.Require().NoError(err, "Vaults")
	s.Require().Len(resp.Vaults, 3, "vaults")
	for i, vault := range resp.Vaults {
		s.Assert().Equal(uint64(i+1), vault.ID, "vault %d id", i)
	}

	page, err := queryServer.Vaults(s.ctx, &types.QueryVaultsRequest{Pagination: &query.PageRequest{Limit: 2, CountTotal: true}})
	s.Require().NoError(err, "Vaults first page")
	s.Require().Len(page.Vaults, 2, "first page")
	s.Require().NotNil(page.Pagination, "first page pagination")
	s.Assert().Equal(uint64(3), page.Pagination.Total, "total")
	s.Require().NotEmpty(page.Pagination.NextKey, "next key")

	page, err = queryServer.Vaults(s.ctx, &types.QueryVaultsRequest{Pagination: &query.PageRequest{Key: page.Pagination.NextKey, Limit: 2}})
	s.Require().NoError(err, "Vaults second page")
	s.Require().Len(page.Vaults, 1, "second page")
	s.Assert().Equal(uint64(3), page.Vaults[0].ID, "second page vault")
	s.Assert().Empty(page.Pagination.NextKey, "last page next key")

	_, err = queryServer.Vaults(s.ctx, nil)
	s.Assert().ErrorContains(err, "invalid request", "nil request")
}

func (s *TestSuite) TestQueryServer_Holding() {
	testDef := querytest.TestDef[types.QueryHoldingRequest, types.QueryHoldingResponse]{
		QueryName: "Holding",
		Query:     keeper.NewQueryServer(s.simApp.VaultKeeper).Holding,
	}

	owner := s.CreateAndFundAccount(sdkmath.NewInt(1000))
	setup := func() {
		s.requireConfigureVault(1, 10_000, 50, 5000, 5000)
		_, err := s.msgServer.Deposit(s.ctx, &types.MsgDeposit{Owner: owner.String(), VaultID: 1, Amount: sdkmath.NewInt(1000)})
		s.Require().NoError(err, "Deposit")
	}

	tests := []querytest.TestCase[types.QueryHoldingRequest, types.QueryHoldingResponse]{
		{
			Name:  "depositor holding",
			Setup: setup,
			Req:   &types.QueryHoldingRequest{VaultID: 1, Owner: owner.String()},
			// floor(995 * 11000 / 10995)
			ExpectedResp: &types.QueryHoldingResponse{Shares: sdkmath.NewInt(995), Assets: sdkmath.NewInt(995)},
		},
		{
			Name:         "authority seed holding",
			Setup:        setup,
			Req:          &types.QueryHoldingRequest{VaultID: 1, Owner: s.authority.String()},
			ExpectedResp: &types.QueryHoldingResponse{Shares: sdkmath.NewInt(10_000), Assets: sdkmath.NewInt(10_004)},
		},
		{
			Name:         "no holding",
			Setup:        setup,
			Req:          &types.QueryHoldingRequest{VaultID: 1, Owner: types.GetVaultAddress(1).String()},
			ExpectedResp: &types.QueryHoldingResponse{Shares: sdkmath.ZeroInt(), Assets: sdkmath.ZeroInt()},
		},
		{
			Name:               "unknown vault",
			Req:                &types.QueryHoldingRequest{VaultID: 4, Owner: owner.String()},
			ExpectedErrSubstrs: []string{"vault 4 not found"},
		},
		{
			Name:               "missing owner",
			Req:                &types.QueryHoldingRequest{VaultID: 1},
			ExpectedErrSubstrs: []string{"owner must be provided"},
		},
		{
			Name:               "invalid owner",
			Req:                &types.QueryHoldingRequest{VaultID: 1, Owner: "bogus"},
			ExpectedErrSubstrs: []string{"invalid owner"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.Name, func() {
			querytest.RunTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestQueryServer_EstimateDeposit() {
	testDef := querytest.TestDef[types.QueryEstimateDepositRequest, types.QueryEstimateDepositResponse]{
		QueryName: "EstimateDeposit",
		Query:     keeper.NewQueryServer(s.simApp.VaultKeeper).EstimateDeposit,
	}
	setup := func() { s.requireConfigureVault(1, 10_000, 50, 5000, 5000) }

	tests := []querytest.TestCase[types.QueryEstimateDepositRequest, types.QueryEstimateDepositResponse]{
		{
			Name:  "estimate",
			Setup: setup,
			Req:   &types.QueryEstimateDepositRequest{VaultID: 1, Amount: sdkmath.NewInt(1000)},
			ExpectedResp: &types.QueryEstimateDepositResponse{
				Result: types.DepositResult{SharesMinted: sdkmath.NewInt(995), Fee: sdkmath.NewInt(5)},
			},
		},
		{
			Name:               "dust",
			Setup:              setup,
			Req:                &types.QueryEstimateDepositRequest{VaultID: 1, Amount: sdkmath.NewInt(1)},
			ExpectedErrSubstrs: []string{"InvalidArgument", "mints no shares"},
		},
		{
			Name:               "overflow",
			Setup:              setup,
			Req:                &types.QueryEstimateDepositRequest{VaultID: 1, Amount: maxInt()},
			ExpectedErrSubstrs: []string{"OutOfRange"},
		},
		{
			Name:               "unknown vault",
			Req:                &types.QueryEstimateDepositRequest{VaultID: 2, Amount: sdkmath.NewInt(1)},
			ExpectedErrSubstrs: []string{"NotFound"},
		},
		{
			Name:               "missing amount",
			Req:                &types.QueryEstimateDepositRequest{VaultID: 1},
			ExpectedErrSubstrs: []string{"amount must be provided"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.Name, func() {
			querytest.RunTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestQueryServer_EstimateWithdraw() {
	testDef := querytest.TestDef[types.QueryEstimateWithdrawRequest, types.QueryEstimateWithdrawResponse]{
		QueryName: "EstimateWithdraw",
		Query:     keeper.NewQueryServer(s.simApp.VaultKeeper).EstimateWithdraw,
	}
	setup := func() {
		s.requireConfigureVault(1, 10_000, 50, 5000, 5000)
		_, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
		s.Require().NoError(err, "Deposit")
	}

	tests := []querytest.TestCase[types.QueryEstimateWithdrawRequest, types.QueryEstimateWithdrawResponse]{
		{
			Name:  "estimate",
			Setup: setup,
			Req:   &types.QueryEstimateWithdrawRequest{VaultID: 1, Shares: sdkmath.NewInt(500)},
			ExpectedResp: &types.QueryEstimateWithdrawResponse{
				Result: types.WithdrawResult{
					GrossAssets:    sdkmath.NewInt(500),
					Fee:            sdkmath.NewInt(3),
					AssetsReturned: sdkmath.NewInt(497),
				},
			},
		},
		{
			Name:               "above supply",
			Setup:              setup,
			Req:                &types.QueryEstimateWithdrawRequest{VaultID: 1, Shares: sdkmath.NewInt(20_000)},
			ExpectedErrSubstrs: []string{"InvalidArgument", "insufficient shares"},
		},
		{
			Name:               "missing shares",
			Req:                &types.QueryEstimateWithdrawRequest{VaultID: 1},
			ExpectedErrSubstrs: []string{"shares must be provided"},
		},
		{
			Name:               "zero id",
			Req:                &types.QueryEstimateWithdrawRequest{Shares: sdkmath.NewInt(1)},
			ExpectedErrSubstrs: []string{"vault_id must be provided"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.Name, func() {
			querytest.RunTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestQueryServer_History() {
	queryServer := keeper.NewQueryServer(s.simApp.VaultKeeper)
	owner := s.CreateAndFundAccount(sdkmath.NewInt(1000))
	s.requireConfigureVault(1, 10_000, 50, 5000, 5000)
	s.requireConfigureVault(2, 100, 0, 5000, 5000)
	_, err := s.msgServer.Deposit(s.ctx, &types.MsgDeposit{Owner: owner.String(), VaultID: 1, Amount: sdkmath.NewInt(1000)})
	s.Require().NoError(err, "Deposit")
	_, err = s.msgServer.Withdraw(s.ctx, &types.MsgWithdraw{Owner: owner.String(), VaultID: 1, Shares: sdkmath.NewInt(500)})
	s.Require().NoError(err, "Withdraw")

	resp, err := queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 1})
	s.Require().NoError(err, "History")
	s.Require().Len(resp.Entries, 3, "vault 1 entries")

	configure, deposit, withdraw := resp.Entries[0], resp.Entries[1], resp.Entries[2]
	s.Assert().Equal(uint64(0), configure.Sequence, "configure sequence")
	s.Assert().Equal(types.OperationConfigure, configure.Entry.Kind, "configure kind")
	s.Assert().Equal(s.authority.String(), configure.Entry.Actor, "configure actor")
	s.Assert().Equal("10000", configure.Entry.Shares.String(), "configure shares")

	s.Assert().Equal(uint64(2), deposit.Sequence, "deposit sequence skips vault 2")
	s.Assert().Equal(types.OperationDeposit, deposit.Entry.Kind, "deposit kind")
	s.Assert().Equal("1000", deposit.Entry.Assets.String(), "deposit assets")
	s.Assert().Equal("995", deposit.Entry.Shares.String(), "deposit shares")
	s.Assert().Equal("5", deposit.Entry.Fee.String(), "deposit fee")

	s.Assert().Equal(types.OperationWithdraw, withdraw.Entry.Kind, "withdraw kind")
	s.Assert().Equal("497", withdraw.Entry.Assets.String(), "withdraw assets")
	s.Assert().Equal("500", withdraw.Entry.Shares.String(), "withdraw shares")
	s.Assert().Equal("3", withdraw.Entry.Fee.String(), "withdraw fee")

	page, err := queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 1, Pagination: &query.PageRequest{Limit: 2}})
	s.Require().NoError(err, "History first page")
	s.Require().Len(page.Entries, 2, "first page")
	s.Require().NotEmpty(page.Pagination.NextKey, "next key")

	resp, err = queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 2})
	s.Require().NoError(err, "History vault 2")
	s.Require().Len(resp.Entries, 1, "vault 2 entries")

	_, err = queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 3})
	s.Assert().ErrorContains(err, "vault 3 not found", "unknown vault")
	_, err = queryServer.History(s.ctx, &types.QueryHistoryRequest{})
	s.Assert().ErrorContains(err, "vault_id must be provided", "zero id")
}

func (s *TestSuite) TestQueryServer_UnreadableVaultIsInternal() {
	queryServer := keeper.NewQueryServer(s.simApp.VaultKeeper)
	owner := s.CreateAndFundAccount(sdkmath.NewInt(1))

	key, err := collections.EncodeKeyWithPrefix(types.VaultsKeyPrefix, collections.Uint64Key, uint64(4))
	s.Require().NoError(err, "EncodeKeyWithPrefix")
	s.ctx.KVStore(s.simApp.GetKey(types.StoreKey)).Set(key, []byte("not a vault"))

	_, err = queryServer.Vault(s.ctx, &types.QueryVaultRequest{VaultID: 4})
	s.Assert().Equal(codes.Internal, status.Code(err), "Vault: %v", err)
	_, err = queryServer.Holding(s.ctx, &types.QueryHoldingRequest{VaultID: 4, Owner: owner.String()})
	s.Assert().Equal(codes.Internal, status.Code(err), "Holding: %v", err)
	_, err = queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 4})
	s.Assert().Equal(codes.Internal, status.Code(err), "History: %v", err)

	// A vault that is simply missing stays NotFound.
	_, err = queryServer.Vault(s.ctx, &types.QueryVaultRequest{VaultID: 5})
	s.Assert().Equal(codes.NotFound, status.Code(err), "Vault missing: %v", err)
	_, err = queryServer.Holding(s.ctx, &types.QueryHoldingRequest{VaultID: 5, Owner: owner.String()})
	s.Assert().Equal(codes.NotFound, status.Code(err), "Holding missing: %v", err)
	_, err = queryServer.History(s.ctx, &types.QueryHistoryRequest{VaultID: 5})
	s.Assert().Equal(codes.NotFound, status.Code(err), "History missing: %v", err)
}
