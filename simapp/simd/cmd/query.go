package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

const (
	FlagLimit      = "limit"
	FlagOffset     = "offset"
	FlagReverse    = "reverse"
	FlagCountTotal = "count-total"
	FlagNonEmpty   = "non-empty"
)

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		QueryParamsCmd(),
		QueryVaultCmd(),
		QueryVaultsCmd(),
		QueryHoldingCmd(),
		QueryHistoryCmd(),
		QueryEstimateDepositCmd(),
		QueryEstimateWithdrawCmd(),
	)

	return cmd
}

func QueryParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Show the module params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().Params(ctx, &types.QueryParamsRequest{})
			})
		},
	}
}

func QueryVaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vault [vault-id]",
		Short: "Show a vault with its share price and allocation targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().Vault(ctx, &types.QueryVaultRequest{VaultID: id})
			})
		},
	}
}

func QueryVaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "List vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nonEmpty, _ := cmd.Flags().GetBool(FlagNonEmpty)
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				resp, err := app.QueryServer().Vaults(ctx, &types.QueryVaultsRequest{Pagination: pageRequest(cmd)})
				if err != nil {
					return nil, err
				}
				if nonEmpty {
					resp.Vaults = slices.Collect(utils.Filter(resp.Vaults, func(v types.VaultState) bool {
						return !v.IsEmpty()
					}))
				}
				return resp, nil
			})
		},
	}
	addPaginationFlags(cmd)
	cmd.Flags().Bool(FlagNonEmpty, false, "only show vaults with outstanding shares")
	return cmd
}

func QueryHoldingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holding [vault-id] [owner]",
		Short: "Show the shares an owner holds in a vault",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().Holding(ctx, &types.QueryHoldingRequest{VaultID: id, Owner: args[1]})
			})
		},
	}
}

func QueryHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [vault-id]",
		Short: "List the operations applied to a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().History(ctx, &types.QueryHistoryRequest{VaultID: id, Pagination: pageRequest(cmd)})
			})
		},
	}
	addPaginationFlags(cmd)
	return cmd
}

func QueryEstimateDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate-deposit [vault-id] [amount]",
		Short: "Preview the shares a deposit would mint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().EstimateDeposit(ctx, &types.QueryEstimateDepositRequest{VaultID: id, Amount: amount})
			})
		},
	}
}

func QueryEstimateWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate-withdraw [vault-id] [shares]",
		Short: "Preview the assets a withdrawal would return",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVaultID(args[0])
			if err != nil {
				return err
			}
			shares, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				return app.QueryServer().EstimateWithdraw(ctx, &types.QueryEstimateWithdrawRequest{VaultID: id, Shares: shares})
			})
		},
	}
}

func addPaginationFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64(FlagLimit, 100, "maximum number of results")
	cmd.Flags().Uint64(FlagOffset, 0, "number of results to skip")
	cmd.Flags().Bool(FlagReverse, false, "list results in descending order")
	cmd.Flags().Bool(FlagCountTotal, false, "count the total number of results")
}

func pageRequest(cmd *cobra.Command) *query.PageRequest {
	limit, _ := cmd.Flags().GetUint64(FlagLimit)
	offset, _ := cmd.Flags().GetUint64(FlagOffset)
	reverse, _ := cmd.Flags().GetBool(FlagReverse)
	countTotal, _ := cmd.Flags().GetBool(FlagCountTotal)
	return &query.PageRequest{Limit: limit, Offset: offset, Reverse: reverse, CountTotal: countTotal}
}
