package keeper_test

import (
	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sharevault/types"
)

func (s *TestSuite) TestEndBlocker() {
	s.Require().NoError(s.k.EndBlocker(s.ctx), "EndBlocker with no vaults")

	s.requireConfigureVault(1, 1000, 10, 5000, 5000)
	s.Require().NoError(s.simApp.EndBlock(s.ctx), "EndBlock after configure")

	s.Require().NoError(s.k.Holdings.Set(s.ctx, collections.Join(uint64(1), s.authority), sdkmath.NewInt(1001)))
	s.Require().ErrorIs(s.k.EndBlocker(s.ctx), types.ErrInvariantBroken, "EndBlocker with overdrawn ledger")
	s.Require().ErrorIs(s.simApp.EndBlock(s.ctx), types.ErrInvariantBroken, "EndBlock with overdrawn ledger")
}
