package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/simulation"
)

const (
	FlagSeed     = "seed"
	FlagBlocks   = "blocks"
	FlagOps      = "ops"
	FlagAccounts = "accounts"
)

// SimulationSummary is the output of the simulate command.
type SimulationSummary struct {
	Seed   int64          `json:"seed"`
	Blocks int            `json:"blocks"`
	Height int64          `json:"height"`
	OK     map[string]int `json:"ok"`
	NoOp   map[string]int `json:"no_op"`
	Vaults int            `json:"vaults"`
}

// SimulateCmd runs random vault operations block by block, checking the
// invariants after every operation and committing every block.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run random vault operations against the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetInt64(FlagSeed)
			blocks, _ := cmd.Flags().GetInt(FlagBlocks)
			ops, _ := cmd.Flags().GetInt(FlagOps)
			accounts, _ := cmd.Flags().GetInt(FlagAccounts)
			if blocks <= 0 || ops <= 0 || accounts <= 0 {
				return fmt.Errorf("--%s, --%s and --%s must be positive", FlagBlocks, FlagOps, FlagAccounts)
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			summary := SimulationSummary{Seed: seed, Blocks: blocks, OK: map[string]int{}, NoOp: map[string]int{}}
			for block := 0; block < blocks; block++ {
				ctx := app.NewContext(false)
				cfg := simulation.DefaultConfig()
				cfg.Seed = seed + int64(block)
				cfg.NumOperations = ops
				cfg.NumAccounts = accounts
				cfg.RandomGenesis = false

				report, err := simulation.Run(ctx, app.VaultKeeper, app.BankKeeper, cfg)
				if err != nil {
					app.Discard()
					return fmt.Errorf("block %d: %w", block, err)
				}
				if err := endBlock(ctx, app.EndBlock, app.AssertInvariants); err != nil {
					app.Discard()
					return fmt.Errorf("block %d: %w", block, err)
				}
				commit := app.Commit()
				app.Logger().Info("simulated block", "height", commit.Version, "ok", report.OK, "no_op", report.NoOp)

				for name, n := range report.OK {
					summary.OK[name] += n
				}
				for name, n := range report.NoOp {
					summary.NoOp[name] += n
				}
			}

			summary.Height = app.LastBlockHeight()
			ctx := app.NewContext(true)
			vaults, err := app.VaultKeeper.GetVaults(ctx)
			app.Discard()
			if err != nil {
				return err
			}
			summary.Vaults = len(vaults)
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().Int64(FlagSeed, 1, "random seed")
	cmd.Flags().Int(FlagBlocks, 5, "number of blocks")
	cmd.Flags().Int(FlagOps, 100, "operations per block")
	cmd.Flags().Int(FlagAccounts, 10, "number of random accounts")
	return cmd
}

func endBlock(ctx sdk.Context, hooks ...func(sdk.Context) error) error {
	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	return nil
}
