package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// Scenario operations.
const (
	OpFund      = "fund"
	OpConfigure = "configure"
	OpDeposit   = "deposit"
	OpWithdraw  = "withdraw"
	OpCheck     = "check"
)

// AuthorityAccount names the module authority in a scenario.
const AuthorityAccount = "authority"

// Scenario is an ordered list of vault calls replayed in a single block.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one scenario call. Accounts are bech32 addresses or names; a name
// resolves to a fixed address derived from it.
type Step struct {
	Op             string `yaml:"op"`
	Account        string `yaml:"account,omitempty"`
	VaultID        uint64 `yaml:"vault_id,omitempty"`
	Amount         string `yaml:"amount,omitempty"`
	FeeBasisPoints uint64 `yaml:"fee_bps,omitempty"`
	AllocationA    uint64 `yaml:"allocation_a,omitempty"`
	AllocationB    uint64 `yaml:"allocation_b,omitempty"`
	// Expect is the shares minted by a deposit or the assets returned by a withdrawal.
	Expect string `yaml:"expect,omitempty"`
	// ExpectError is a substring of the error the step must fail with.
	ExpectError  string `yaml:"expect_error,omitempty"`
	ExpectSupply string `yaml:"expect_supply,omitempty"`
	ExpectAssets string `yaml:"expect_assets,omitempty"`
}

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r StepResult) String() string {
	if r.Error != "" {
		return fmt.Sprintf("#%d %s: failed as expected: %s", r.Index, r.Op, r.Error)
	}
	return fmt.Sprintf("#%d %s: %s", r.Index, r.Op, r.Result)
}

// LoadScenario reads and validates a YAML scenario. Unknown fields are rejected.
func LoadScenario(path string) (Scenario, error) {
	var scenario Scenario
	bz, err := os.ReadFile(path)
	if err != nil {
		return scenario, fmt.Errorf("failed to read scenario: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(bz))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return scenario, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return scenario, scenario.Validate()
}

// Validate checks that every step names a known operation with parseable amounts.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("scenario has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpFund, OpDeposit, OpWithdraw:
		if s.Account == "" {
			return fmt.Errorf("%s requires an account", s.Op)
		}
	case OpConfigure, OpCheck:
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	if s.Op != OpCheck {
		if _, err := parseAmount(s.Amount); err != nil {
			return err
		}
	}
	for _, v := range []string{s.Expect, s.ExpectSupply, s.ExpectAssets} {
		if v == "" {
			continue
		}
		if _, err := parseAmount(v); err != nil {
			return err
		}
	}
	if s.Expect != "" && s.ExpectError != "" {
		return errors.New("expect and expect_error are mutually exclusive")
	}
	return nil
}

// RunScenario replays every step against ctx. Each step runs on its own
// branch that is written only when the step succeeds, so a failing step leaves
// no partial writes behind. It stops at the first step whose outcome differs
// from its expectations.
func RunScenario(ctx sdk.Context, app *simapp.SimApp, scenario Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		stepCtx, write := ctx.CacheContext()
		result, err := runStep(stepCtx, app, step)
		if err == nil {
			write()
		}
		switch {
		case err != nil && step.ExpectError == "":
			return results, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		case err != nil && !strings.Contains(err.Error(), step.ExpectError):
			return results, fmt.Errorf("step %d (%s): expected error containing %q, got: %w", i, step.Op, step.ExpectError, err)
		case err == nil && step.ExpectError != "":
			return results, fmt.Errorf("step %d (%s): expected error containing %q, got result %s", i, step.Op, step.ExpectError, result)
		case err == nil && step.Expect != "" && result != step.Expect:
			return results, fmt.Errorf("step %d (%s): expected %s, got %s", i, step.Op, step.Expect, result)
		}

		stepResult := StepResult{Index: i, Op: step.Op, Result: result}
		if err != nil {
			stepResult = StepResult{Index: i, Op: step.Op, Error: err.Error()}
		}
		results = append(results, stepResult)
	}
	return results, nil
}

func runStep(ctx sdk.Context, app *simapp.SimApp, step Step) (string, error) {
	var amount sdkmath.Int
	if step.Op != OpCheck {
		amount, _ = parseAmount(step.Amount)
	}

	switch step.Op {
	case OpFund:
		balance, err := fund(app, ctx, scenarioAccount(app, step.Account), amount)
		if err != nil {
			return "", err
		}
		return balance.String(), nil

	case OpConfigure:
		if amount.IsPositive() {
			if _, err := fund(app, ctx, app.Authority(), amount); err != nil {
				return "", err
			}
		}
		resp, err := app.MsgServer().ConfigureVault(ctx, &types.MsgConfigureVault{
			Authority:          app.Authority().String(),
			VaultID:            step.VaultID,
			InitialShareSupply: amount,
			FeeBasisPoints:     step.FeeBasisPoints,
			AllocationA:        step.AllocationA,
			AllocationB:        step.AllocationB,
		})
		if err != nil {
			return "", err
		}
		return resp.VaultAddress, nil

	case OpDeposit:
		resp, err := app.MsgServer().Deposit(ctx, &types.MsgDeposit{
			Owner:   scenarioAccount(app, step.Account).String(),
			VaultID: step.VaultID,
			Amount:  amount,
		})
		if err != nil {
			return "", err
		}
		return resp.SharesMinted.String(), nil

	case OpWithdraw:
		resp, err := app.MsgServer().Withdraw(ctx, &types.MsgWithdraw{
			Owner:   scenarioAccount(app, step.Account).String(),
			VaultID: step.VaultID,
			Shares:  amount,
		})
		if err != nil {
			return "", err
		}
		return resp.AssetsReturned.String(), nil

	case OpCheck:
		vault, err := app.VaultKeeper.GetVault(ctx, step.VaultID)
		if err != nil {
			return "", err
		}
		if step.ExpectSupply != "" && vault.TotalShareSupply.String() != step.ExpectSupply {
			return "", fmt.Errorf("vault %d supply is %s, expected %s", step.VaultID, vault.TotalShareSupply, step.ExpectSupply)
		}
		if step.ExpectAssets != "" && vault.TotalAssets.String() != step.ExpectAssets {
			return "", fmt.Errorf("vault %d assets are %s, expected %s", step.VaultID, vault.TotalAssets, step.ExpectAssets)
		}
		return fmt.Sprintf("supply %s assets %s", vault.TotalShareSupply, vault.TotalAssets), nil
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

// scenarioAccount resolves a scenario account to an address.
func scenarioAccount(app *simapp.SimApp, account string) sdk.AccAddress {
	if account == AuthorityAccount {
		return app.Authority()
	}
	if addr, err := sdk.AccAddressFromBech32(account); err == nil {
		return addr
	}
	return authtypes.NewModuleAddress("scenario/" + account)
}

// ReplayCmd replays a YAML scenario in one block. Nothing is committed unless every step meets its expectations.
func ReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay [scenario.yaml]",
		Short: "Replay a YAML scenario of vault calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			return runBlock(cmd, func(app *simapp.SimApp, ctx sdk.Context) (any, error) {
				results, err := RunScenario(ctx, app, scenario)
				for line := range utils.Map(results, StepResult.String) {
					app.Logger().Info(line, "scenario", scenario.Name)
				}
				if err != nil {
					return nil, err
				}
				return results, nil
			})
		},
	}
}
