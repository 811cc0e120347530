package keeper_test

import (
	"strings"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
)

func (s *TestSuite) TestInvariants_Hold() {
	owner := s.CreateAndFundAccount(sdkmath.NewInt(2000))
	s.requireConfigureVault(1, 500, 75, 5000, 5000)
	_, err := s.msgServer.Deposit(s.ctx, &types.MsgDeposit{Owner: owner.String(), VaultID: 1, Amount: sdkmath.NewInt(2000)})
	s.Require().NoError(err, "Deposit")
	_, err = s.msgServer.Withdraw(s.ctx, &types.MsgWithdraw{Owner: s.authority.String(), VaultID: 1, Shares: sdkmath.NewInt(500)})
	s.Require().NoError(err, "Withdraw seed")

	s.Require().NoError(s.k.CheckVaultInvariants(s.ctx), "CheckVaultInvariants")
	s.Require().NoError(s.k.CheckCustodyInvariants(s.ctx), "CheckCustodyInvariants")

	msg, broken := keeper.VaultStateInvariant(s.k)(s.ctx)
	s.Assert().False(broken, "vault-state invariant: %s", msg)
	msg, broken = keeper.CustodyInvariant(s.k)(s.ctx)
	s.Assert().False(broken, "custody invariant: %s", msg)
}

func (s *TestSuite) TestInvariants_HoldingsAboveSupply() {
	s.requireConfigureVault(1, 100, 0, 5000, 5000)
	s.Require().NoError(s.k.Holdings.Set(s.ctx, collections.Join(uint64(1), s.authority), sdkmath.NewInt(101)))

	s.Require().ErrorIs(s.k.CheckVaultInvariants(s.ctx), types.ErrInvariantBroken, "CheckVaultInvariants")
	msg, broken := keeper.VaultStateInvariant(s.k)(s.ctx)
	s.Assert().True(broken, "vault-state invariant")
	s.Assert().True(strings.Contains(msg, "vault-state"), "invariant message %q names its route", msg)
	s.Assert().Error(s.simApp.AssertInvariants(s.ctx), "AssertInvariants")
}

func (s *TestSuite) TestInvariants_CustodyMismatch() {
	s.requireConfigureVault(1, 100, 0, 5000, 5000)
	simapp.FundAccount(s.T(), s.simApp, s.ctx, types.GetVaultAddress(1), sdkmath.NewInt(1))

	s.Require().NoError(s.k.CheckVaultInvariants(s.ctx), "CheckVaultInvariants")
	s.Require().ErrorIs(s.k.CheckCustodyInvariants(s.ctx), types.ErrInvariantBroken, "CheckCustodyInvariants")
	_, broken := keeper.CustodyInvariant(s.k)(s.ctx)
	s.Assert().True(broken, "custody invariant")
}

func (s *TestSuite) TestInvariants_EngineOnlyLedger() {
	// Engine calls bypass the holder ledger and custody, so only the
	// engine-level checks apply.
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(100), 0, 5000, 5000))
	_, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(50))
	s.Require().NoError(err, "Deposit")

	s.Require().NoError(s.k.CheckVaultInvariants(s.ctx), "CheckVaultInvariants")
	s.Require().Error(s.k.CheckCustodyInvariants(s.ctx), "CheckCustodyInvariants")
}

func (s *TestSuite) TestSharePriceNonDecreasing() {
	vault := func(supply, assets int64) types.VaultState {
		v := types.NewVaultState(1, sdkmath.NewInt(supply), 0, 5000, 5000)
		v.TotalAssets = sdkmath.NewInt(assets)
		return v
	}

	tests := []struct {
		name     string
		before   types.VaultState
		after    types.VaultState
		expected bool
	}{
		{name: "unchanged", before: vault(10, 10), after: vault(10, 10), expected: true},
		{name: "price up", before: vault(10, 10), after: vault(10, 11), expected: true},
		{name: "price down", before: vault(10, 10), after: vault(11, 10), expected: false},
		{name: "from empty", before: vault(0, 0), after: vault(5, 1), expected: true},
		{name: "to empty", before: vault(5, 10), after: vault(0, 0), expected: true},
		{name: "equal ratio", before: vault(3, 9), after: vault(7, 21), expected: true},
		{name: "large values", before: vault(1, 1), after: types.VaultState{TotalShareSupply: maxInt(), TotalAssets: maxInt().SubRaw(1)}, expected: false},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.expected, keeper.SharePriceNonDecreasing(tc.before, tc.after))
		})
	}
}
