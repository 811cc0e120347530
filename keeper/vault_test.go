package keeper_test

import (
	"math/big"
	"math/rand"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

func (s *TestSuite) TestConfigureVault() {
	tests := []struct {
		name        string
		setup       func()
		id          uint64
		supply      sdkmath.Int
		fee         uint64
		allocationA uint64
		allocationB uint64
		expectedErr error
	}{
		{
			name:        "seeded vault",
			id:          1,
			supply:      sdkmath.NewInt(10_000),
			fee:         50,
			allocationA: 5000,
			allocationB: 5000,
		},
		{
			name:        "empty vault with full fee",
			id:          2,
			supply:      sdkmath.ZeroInt(),
			fee:         types.BasisPointsScale,
			allocationA: types.BasisPointsScale,
		},
		{
			name:        "zero id",
			id:          0,
			supply:      sdkmath.NewInt(1),
			allocationA: 5000,
			allocationB: 5000,
			expectedErr: types.ErrInvalidVaultID,
		},
		{
			name:        "zero id is reported before a bad fee",
			id:          0,
			supply:      sdkmath.NewInt(1),
			fee:         20_000,
			allocationA: 1,
			allocationB: 1,
			expectedErr: types.ErrInvalidVaultID,
		},
		{
			name: "duplicate id is reported before a bad fee",
			setup: func() {
				s.Require().NoError(s.k.ConfigureVault(s.ctx, 3, sdkmath.NewInt(10), 0, 5000, 5000))
			},
			id:          3,
			supply:      sdkmath.NewInt(10),
			fee:         20_000,
			allocationA: 5000,
			allocationB: 5000,
			expectedErr: types.ErrVaultAlreadyExists,
		},
		{
			name:        "fee above scale",
			id:          4,
			supply:      sdkmath.NewInt(10),
			fee:         types.BasisPointsScale + 1,
			allocationA: 5000,
			allocationB: 5000,
			expectedErr: types.ErrInvalidFee,
		},
		{
			name:        "bad fee is reported before a bad allocation",
			id:          4,
			supply:      sdkmath.NewInt(10),
			fee:         types.BasisPointsScale + 1,
			allocationA: 1,
			allocationB: 1,
			expectedErr: types.ErrInvalidFee,
		},
		{
			name:        "allocation above scale",
			id:          5,
			supply:      sdkmath.NewInt(10),
			allocationA: 6000,
			allocationB: 5000,
			expectedErr: types.ErrInvalidAllocation,
		},
		{
			name:        "allocation below scale",
			id:          5,
			supply:      sdkmath.NewInt(10),
			allocationA: 4000,
			allocationB: 5000,
			expectedErr: types.ErrInvalidAllocation,
		},
		{
			name:        "negative supply",
			id:          6,
			supply:      sdkmath.NewInt(-1),
			allocationA: 5000,
			allocationB: 5000,
			expectedErr: types.ErrInvalidRequest,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}
			before, _ := s.k.GetVaults(s.ctx)

			err := s.k.ConfigureVault(s.ctx, tc.id, tc.supply, tc.fee, tc.allocationA, tc.allocationB)
			if tc.expectedErr != nil {
				s.Require().ErrorIs(err, tc.expectedErr, "ConfigureVault error")
				after, _ := s.k.GetVaults(s.ctx)
				s.Assert().Equal(len(before), len(after), "failed configure must not add vaults")
				return
			}
			s.Require().NoError(err, "ConfigureVault")

			vault := s.requireVaultTotals(tc.id, tc.supply.Int64(), tc.supply.Int64())
			s.Assert().Equal(tc.fee, vault.FeeBasisPoints, "fee")
			s.Assert().Equal(tc.allocationA, vault.AllocationA, "allocation a")
			s.Assert().Equal(tc.allocationB, vault.AllocationB, "allocation b")
			s.Assert().True(vault.ResidualAssets.IsZero(), "residual assets")
			s.Assert().True(vault.FeesCollected.IsZero(), "fees collected")
		})
	}
}

func (s *TestSuite) TestConfigureVault_DuplicateLeavesVaultUntouched() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(100), 10, 5000, 5000))
	_, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err)
	before, err := s.k.GetVault(s.ctx, 1)
	s.Require().NoError(err)

	err = s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(5), 0, 10_000, 0)
	s.Require().ErrorIs(err, types.ErrVaultAlreadyExists)

	after, err := s.k.GetVault(s.ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(before.String(), after.String(), "vault after rejected reconfigure")
}

func (s *TestSuite) TestDepositWithdraw_Scenario() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(10_000), 50, 5000, 5000))

	deposit, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.Assert().Equal("995", deposit.SharesMinted.String(), "shares minted")
	s.Assert().Equal("5", deposit.Fee.String(), "deposit fee")
	s.requireVaultTotals(1, 10_995, 11_000)

	withdraw, err := s.k.Withdraw(s.ctx, 1, sdkmath.NewInt(500))
	s.Require().NoError(err, "Withdraw")
	s.Assert().Equal("500", withdraw.GrossAssets.String(), "gross assets")
	s.Assert().Equal("3", withdraw.Fee.String(), "withdraw fee")
	s.Assert().Equal("497", withdraw.AssetsReturned.String(), "assets returned")
	vault := s.requireVaultTotals(1, 10_495, 10_503)
	s.Assert().Equal("8", vault.FeesCollected.String(), "fees collected")

	targets, err := s.k.AllocationTargets(s.ctx, 1)
	s.Require().NoError(err, "AllocationTargets")
	s.Assert().Equal("5251", targets.StrategyA.String(), "strategy a")
	s.Assert().Equal("5252", targets.StrategyB.String(), "strategy b")
}

func (s *TestSuite) TestDeposit_Errors() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(10_000), 50, 5000, 5000))
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 2, sdkmath.NewInt(10), types.BasisPointsScale, 5000, 5000))

	tests := []struct {
		name        string
		id          uint64
		amount      sdkmath.Int
		expectedErr error
	}{
		{name: "unknown vault", id: 99, amount: sdkmath.NewInt(10), expectedErr: types.ErrVaultNotFound},
		{name: "zero amount", id: 1, amount: sdkmath.ZeroInt(), expectedErr: types.ErrZeroAmount},
		{name: "negative amount", id: 1, amount: sdkmath.NewInt(-5), expectedErr: types.ErrZeroAmount},
		{name: "nil amount", id: 1, amount: sdkmath.Int{}, expectedErr: types.ErrZeroAmount},
		{name: "dust consumed by fee", id: 1, amount: sdkmath.NewInt(1), expectedErr: types.ErrZeroAmount},
		{name: "full fee mints nothing", id: 2, amount: sdkmath.NewInt(1000), expectedErr: types.ErrZeroAmount},
		{name: "product overflows", id: 1, amount: maxInt(), expectedErr: types.ErrArithmeticOverflow},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			before, _ := s.k.GetVault(s.ctx, tc.id)
			_, err := s.k.Deposit(s.ctx, tc.id, tc.amount)
			s.Require().ErrorIs(err, tc.expectedErr, "Deposit error")
			after, _ := s.k.GetVault(s.ctx, tc.id)
			s.Assert().Equal(before.String(), after.String(), "failed deposit must not change the vault")
		})
	}
}

func (s *TestSuite) TestDeposit_AssetsOverflow() {
	half := sdkmath.NewIntFromBigInt(new(big.Int).Rsh(maxInt().BigInt(), 1))
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.ZeroInt(), 0, 5000, 5000))
	_, err := s.k.Deposit(s.ctx, 1, half)
	s.Require().NoError(err, "first deposit into empty vault")

	_, err = s.k.Deposit(s.ctx, 1, half.AddRaw(2))
	s.Require().ErrorIs(err, types.ErrArithmeticOverflow)

	vault, err := s.k.GetVault(s.ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(half.String(), vault.TotalShareSupply.String(), "share supply")
	s.Assert().Equal(half.String(), vault.TotalAssets.String(), "assets")
}

func (s *TestSuite) TestWithdraw_Errors() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1000), 50, 5000, 5000))
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 2, sdkmath.NewInt(1000), types.BasisPointsScale, 5000, 5000))
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 3, sdkmath.ZeroInt(), 0, 5000, 5000))

	tests := []struct {
		name        string
		id          uint64
		shares      sdkmath.Int
		expectedErr error
	}{
		{name: "unknown vault", id: 99, shares: sdkmath.NewInt(1), expectedErr: types.ErrVaultNotFound},
		{name: "zero shares", id: 1, shares: sdkmath.ZeroInt(), expectedErr: types.ErrZeroAmount},
		{name: "more than supply", id: 1, shares: sdkmath.NewInt(1001), expectedErr: types.ErrInsufficientShares},
		{name: "empty vault", id: 3, shares: sdkmath.NewInt(1), expectedErr: types.ErrInsufficientShares},
		{name: "full fee returns nothing", id: 2, shares: sdkmath.NewInt(100), expectedErr: types.ErrZeroAmount},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			before, _ := s.k.GetVault(s.ctx, tc.id)
			_, err := s.k.Withdraw(s.ctx, tc.id, tc.shares)
			s.Require().ErrorIs(err, tc.expectedErr, "Withdraw error")
			after, _ := s.k.GetVault(s.ctx, tc.id)
			s.Assert().Equal(before.String(), after.String(), "failed withdraw must not change the vault")
		})
	}
}

func (s *TestSuite) TestWithdraw_LastSharesSweepResidual() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1000), 100, 10_000, 0))

	result, err := s.k.Withdraw(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Withdraw all")
	s.Assert().Equal("1000", result.GrossAssets.String(), "gross")
	s.Assert().Equal("10", result.Fee.String(), "fee")
	s.Assert().Equal("990", result.AssetsReturned.String(), "returned")

	vault := s.requireVaultTotals(1, 0, 0)
	s.Assert().Equal("10", vault.ResidualAssets.String(), "residual assets")
	s.Assert().True(vault.SharePrice().IsZero(), "empty vault share price")

	// An emptied vault restarts at one share per net asset.
	deposit, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(500))
	s.Require().NoError(err, "Deposit into emptied vault")
	s.Assert().Equal("495", deposit.SharesMinted.String(), "shares minted")
	vault = s.requireVaultTotals(1, 495, 500)
	s.Assert().Equal("10", vault.ResidualAssets.String(), "residual assets are not reused")
}

func (s *TestSuite) TestPreviews_MatchExecution() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(10_000), 50, 5000, 5000))

	preview, err := s.k.PreviewDeposit(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err, "PreviewDeposit")
	s.requireVaultTotals(1, 10_000, 10_000)
	deposit, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.Assert().Equal(preview.SharesMinted.String(), deposit.SharesMinted.String(), "previewed shares")
	s.Assert().Equal(preview.Fee.String(), deposit.Fee.String(), "previewed deposit fee")

	previewW, err := s.k.PreviewWithdraw(s.ctx, 1, sdkmath.NewInt(500))
	s.Require().NoError(err, "PreviewWithdraw")
	s.requireVaultTotals(1, 10_995, 11_000)
	withdraw, err := s.k.Withdraw(s.ctx, 1, sdkmath.NewInt(500))
	s.Require().NoError(err, "Withdraw")
	s.Assert().Equal(previewW.AssetsReturned.String(), withdraw.AssetsReturned.String(), "previewed assets returned")
	s.Assert().Equal(previewW.Fee.String(), withdraw.Fee.String(), "previewed withdraw fee")

	_, err = s.k.PreviewDeposit(s.ctx, 2, sdkmath.NewInt(1))
	s.Assert().ErrorIs(err, types.ErrVaultNotFound, "PreviewDeposit unknown vault")
	_, err = s.k.PreviewWithdraw(s.ctx, 1, sdkmath.NewInt(100_000))
	s.Assert().ErrorIs(err, types.ErrInsufficientShares, "PreviewWithdraw above supply")
}

func (s *TestSuite) TestAllocationTargets_UnknownVault() {
	_, err := s.k.AllocationTargets(s.ctx, 7)
	s.Require().ErrorIs(err, types.ErrVaultNotFound)
}

func (s *TestSuite) TestVaultsAreIndependent() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1000), 0, 5000, 5000))
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 2, sdkmath.NewInt(1000), 300, 2500, 7500))

	_, err := s.k.Deposit(s.ctx, 2, sdkmath.NewInt(700))
	s.Require().NoError(err)
	_, err = s.k.Withdraw(s.ctx, 2, sdkmath.NewInt(300))
	s.Require().NoError(err)

	s.requireVaultTotals(1, 1000, 1000)
	vaults, err := s.k.GetVaults(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(vaults, 2)
	s.Assert().Equal(uint64(1), vaults[0].ID, "vaults ordered by id")
	s.Assert().Equal(uint64(2), vaults[1].ID, "vaults ordered by id")
}

// TestRandomOperations_Properties drives random deposits and withdrawals and
// checks conservation and share price monotonicity after each step.
func (s *TestSuite) TestRandomOperations_Properties() {
	r := rand.New(rand.NewSource(42))
	for _, fee := range []uint64{0, 1, 50, 999, 5000} {
		s.SetupTest()
		s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1_000_000), fee, 3000, 7000))

		for i := 0; i < 200; i++ {
			before, err := s.k.GetVault(s.ctx, 1)
			s.Require().NoError(err)

			if r.Intn(2) == 0 || before.IsEmpty() {
				amount := sdkmath.NewInt(r.Int63n(100_000) + 1)
				result, err := s.k.Deposit(s.ctx, 1, amount)
				if err != nil {
					s.Require().ErrorIs(err, types.ErrZeroAmount, "fee %d step %d", fee, i)
					continue
				}
				after, err := s.k.GetVault(s.ctx, 1)
				s.Require().NoError(err)
				s.Assert().Equal(before.TotalAssets.Add(amount).String(), after.TotalAssets.String(), "fee %d step %d: deposit conserves assets", fee, i)
				s.Assert().Equal(before.TotalShareSupply.Add(result.SharesMinted).String(), after.TotalShareSupply.String(), "fee %d step %d: minted shares", fee, i)
				s.Assert().True(keeper.SharePriceNonDecreasing(before, after), "fee %d step %d: deposit lowered share price", fee, i)
				continue
			}

			shares := sdkmath.NewInt(r.Int63n(before.TotalShareSupply.Int64()) + 1)
			result, err := s.k.Withdraw(s.ctx, 1, shares)
			if err != nil {
				s.Require().ErrorIs(err, types.ErrZeroAmount, "fee %d step %d", fee, i)
				continue
			}
			after, err := s.k.GetVault(s.ctx, 1)
			s.Require().NoError(err)
			s.Assert().Equal(result.GrossAssets.String(), result.Fee.Add(result.AssetsReturned).String(), "fee %d step %d: gross splits into fee and payout", fee, i)
			s.Assert().Equal(
				before.TotalAssets.Add(before.ResidualAssets).Sub(result.AssetsReturned).String(),
				after.TotalAssets.Add(after.ResidualAssets).String(),
				"fee %d step %d: withdraw conserves assets", fee, i)
			s.Assert().Equal(before.TotalShareSupply.Sub(shares).String(), after.TotalShareSupply.String(), "fee %d step %d: burned shares", fee, i)
			s.Assert().True(keeper.SharePriceNonDecreasing(before, after), "fee %d step %d: withdraw lowered share price", fee, i)
		}
	}
}

func (s *TestSuite) TestDepositThenWithdraw_NeverProfits() {
	for _, fee := range []uint64{0, 7, 50, 2500} {
		s.SetupTest()
		s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(333_333), fee, 5000, 5000))
		_, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(77_777))
		s.Require().NoError(err)

		for _, amount := range []int64{10, 999, 12_345, 1_000_000} {
			deposit, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(amount))
			s.Require().NoError(err, "fee %d deposit %d", fee, amount)
			withdraw, err := s.k.Withdraw(s.ctx, 1, deposit.SharesMinted)
			if err != nil {
				s.Require().ErrorIs(err, types.ErrZeroAmount, "fee %d withdraw after deposit %d", fee, amount)
				continue
			}
			if fee == 0 {
				// Without fees the seeded vault stays at 1:1 and a round trip is exact.
				s.Assert().Equal(sdkmath.NewInt(amount).String(), withdraw.AssetsReturned.String(),
					"fee 0: deposit %d", amount)
				continue
			}
			s.Assert().True(withdraw.AssetsReturned.LT(sdkmath.NewInt(amount)),
				"fee %d: deposit %d returned %s", fee, amount, withdraw.AssetsReturned)
		}
	}
}

func (s *TestSuite) TestDepositThenWithdraw_ZeroFeeAfterYield() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1000), 0, 5000, 5000))
	// Raise the share price above 1 without fees.
	s.Require().NoError(s.k.UpdateVault(s.ctx, 1, func(vault *types.VaultState) error {
		vault.TotalAssets = vault.TotalAssets.AddRaw(333)
		return nil
	}))

	deposit, err := s.k.Deposit(s.ctx, 1, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	withdraw, err := s.k.Withdraw(s.ctx, 1, deposit.SharesMinted)
	s.Require().NoError(err, "Withdraw")
	s.Assert().True(withdraw.AssetsReturned.LTE(sdkmath.NewInt(1000)), "returned %s", withdraw.AssetsReturned)
}

func (s *TestSuite) TestUpdateVault_RejectsPriceDrop() {
	s.Require().NoError(s.k.ConfigureVault(s.ctx, 1, sdkmath.NewInt(1000), 0, 5000, 5000))

	err := s.k.UpdateVault(s.ctx, 1, func(vault *types.VaultState) error {
		vault.TotalAssets = vault.TotalAssets.SubRaw(1)
		return nil
	})
	s.Require().ErrorIs(err, types.ErrInvariantBroken, "price drop")

	err = s.k.UpdateVault(s.ctx, 1, func(vault *types.VaultState) error {
		vault.ID = 2
		return nil
	})
	s.Require().ErrorIs(err, types.ErrInvariantBroken, "id change")

	err = s.k.UpdateVault(s.ctx, 1, func(vault *types.VaultState) error {
		vault.TotalAssets = sdkmath.ZeroInt()
		return nil
	})
	s.Require().ErrorIs(err, types.ErrInvariantBroken, "shares without assets")

	s.requireVaultTotals(1, 1000, 1000)
}

// maxInt returns 2^256 - 1, the largest representable amount.
func maxInt() sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))
}
