package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
)

const FlagFundSeed = "fund-seed"

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		FundCmd(),
		ConfigureCmd(),
		DepositCmd(),
		WithdrawCmd(),
		UpdateParamsCmd(),
	)

	return cmd
}

// FundCmd mints asset denom coins into an account.
func FundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund [address] [amount]",
		Short: "Mint assets into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				balance, err := fund(app, ctx, addr, amount)
				if err != nil {
					return nil, err
				}
				return map[string]string{"address": addr.String(), "balance": balance.String()}, nil
			})
		},
	}
}

// ConfigureCmd creates a vault signed by the configured authority.
func ConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure [vault-id] [initial-share-supply] [fee-bps] [allocation-a] [allocation-b]",
		Short: "Create a vault",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			seed, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			var bps [3]uint64
			for i, arg := range args[2:] {
				if bps[i], err = strconv.ParseUint(arg, 10, 64); err != nil {
					return fmt.Errorf("invalid basis points %q: %w", arg, err)
				}
			}
			fundSeed, _ := cmd.Flags().GetBool(FlagFundSeed)

			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				if fundSeed && seed.IsPositive() {
					if _, err := fund(app, ctx, app.Authority(), seed); err != nil {
						return nil, err
					}
				}
				return app.MsgServer().ConfigureVault(ctx, &types.MsgConfigureVault{
					Authority:          app.Authority().String(),
					VaultID:            id,
					InitialShareSupply: seed,
					FeeBasisPoints:     bps[0],
					AllocationA:        bps[1],
					AllocationB:        bps[2],
				})
			})
		},
	}
	cmd.Flags().Bool(FlagFundSeed, false, "mint the seed assets to the authority before configuring")
	return cmd
}

// DepositCmd deposits assets into a vault.
func DepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit [owner] [vault-id] [amount]",
		Short: "Deposit assets into a vault for shares",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.MsgServer().Deposit(ctx, &types.MsgDeposit{Owner: args[0], VaultID: id, Amount: amount})
			})
		},
	}
}

// WithdrawCmd burns shares of a vault.
func WithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [owner] [vault-id] [shares]",
		Short: "Burn vault shares for assets",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[1])
			if err != nil {
				return err
			}
			shares, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.MsgServer().Withdraw(ctx, &types.MsgWithdraw{Owner: args[0], VaultID: id, Shares: shares})
			})
		},
	}
}

// UpdateParamsCmd replaces the module params.
func UpdateParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-params [asset-denom]",
		Short: "Update the module params",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				msg := &types.MsgUpdateParams{
					Authority: app.Authority().String(),
					Params:    types.NewParams(args[0]),
				}
				if _, err := app.MsgServer().UpdateParams(ctx, msg); err != nil {
					return nil, err
				}
				return msg.Params, nil
			})
		},
	}
}

// fund mints amount of the params asset denom into addr and returns the new balance.
func fund(app *simapp.SimApp, ctx sdk.Context, addr sdk.AccAddress, amount sdkmath.Int) (sdkmath.Int, error) {
	params, err := app.VaultKeeper.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := app.FundAccount(ctx, addr, sdk.NewCoins(sdk.NewCoin(params.AssetDenom, amount))); err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to fund %s: %w", addr, err)
	}
	return app.BankKeeper.GetBalance(ctx, addr, params.AssetDenom).Amount, nil
}

func parseVaultID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid vault id %q: %w", arg, err)
	}
	return id, nil
}

func parseAmount(arg string) (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(arg)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid amount %q", arg)
	}
	return amount, nil
}
