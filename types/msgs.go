package types

import (
	context "context"
	fmt "fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer is the host-facing transaction interface of the module.
type MsgServer interface {
	ConfigureVault(context.Context, *MsgConfigureVault) (*MsgConfigureVaultResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// MsgConfigureVault creates a vault. The authority funds the seed share supply
// and receives the seed shares.
type MsgConfigureVault struct {
	Authority          string      `json:"authority" yaml:"authority"`
	VaultID            uint64      `json:"vault_id" yaml:"vault_id"`
	InitialShareSupply sdkmath.Int `json:"initial_share_supply" yaml:"initial_share_supply"`
	FeeBasisPoints     uint64      `json:"fee_basis_points" yaml:"fee_basis_points"`
	AllocationA        uint64      `json:"allocation_a" yaml:"allocation_a"`
	AllocationB        uint64      `json:"allocation_b" yaml:"allocation_b"`
}

type MsgConfigureVaultResponse struct {
	VaultAddress string `json:"vault_address"`
}

// MsgDeposit deposits underlying assets into a vault for shares.
type MsgDeposit struct {
	Owner   string      `json:"owner"`
	VaultID uint64      `json:"vault_id"`
	Amount  sdkmath.Int `json:"amount"`
}

type MsgDepositResponse struct {
	SharesMinted sdkmath.Int `json:"shares_minted"`
}

// MsgWithdraw burns shares for a proportional claim on the vault's assets.
type MsgWithdraw struct {
	Owner   string      `json:"owner"`
	VaultID uint64      `json:"vault_id"`
	Shares  sdkmath.Int `json:"shares"`
}

type MsgWithdrawResponse struct {
	AssetsReturned sdkmath.Int `json:"assets_returned"`
}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// ValidateBasic performs stateless validation of MsgConfigureVault.
func (m MsgConfigureVault) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %q: %w", m.Authority, err)
	}
	if m.VaultID == 0 {
		return ErrInvalidVaultID.Wrap("vault id must be positive")
	}
	if m.InitialShareSupply.IsNil() || m.InitialShareSupply.IsNegative() {
		return ErrInvalidRequest.Wrap("initial share supply must be non-negative")
	}
	if err := ValidateFee(m.FeeBasisPoints); err != nil {
		return err
	}
	return ValidateAllocation(m.AllocationA, m.AllocationB)
}

// ValidateBasic performs stateless validation of MsgDeposit.
func (m MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return fmt.Errorf("invalid owner address: %q: %w", m.Owner, err)
	}
	if m.VaultID == 0 {
		return ErrInvalidVaultID.Wrap("vault id must be positive")
	}
	if m.Amount.IsNil() || !m.Amount.IsPositive() {
		return ErrZeroAmount.Wrap("deposit amount must be positive")
	}
	return nil
}

// ValidateBasic performs stateless validation of MsgWithdraw.
func (m MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return fmt.Errorf("invalid owner address: %q: %w", m.Owner, err)
	}
	if m.VaultID == 0 {
		return ErrInvalidVaultID.Wrap("vault id must be positive")
	}
	if m.Shares.IsNil() || !m.Shares.IsPositive() {
		return ErrZeroAmount.Wrap("withdraw shares must be positive")
	}
	return nil
}

// ValidateBasic performs stateless validation of MsgUpdateParams.
func (m MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %q: %w", m.Authority, err)
	}
	return m.Params.Validate()
}
