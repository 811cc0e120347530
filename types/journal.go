package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OperationKind names the vault operation recorded in a journal entry.
type OperationKind string

const (
	OperationConfigure OperationKind = "configure"
	OperationDeposit   OperationKind = "deposit"
	OperationWithdraw  OperationKind = "withdraw"
)

// JournalEntry records one committed vault operation.
type JournalEntry struct {
	VaultID uint64        `json:"vault_id"`
	Kind    OperationKind `json:"kind"`
	// Actor is the authority for configure and the owner otherwise.
	Actor  string `json:"actor"`
	Height int64  `json:"height"`
	// Assets is the amount paid into custody, or paid out for a withdraw.
	Assets sdkmath.Int `json:"assets"`
	// Shares is the amount minted, or burned for a withdraw.
	Shares sdkmath.Int `json:"shares"`
	Fee    sdkmath.Int `json:"fee"`
}

// NewConfigureEntry records the seed of a newly configured vault.
func NewConfigureEntry(height int64, authority string, vault VaultState) JournalEntry {
	return JournalEntry{
		VaultID: vault.ID,
		Kind:    OperationConfigure,
		Actor:   authority,
		Height:  height,
		Assets:  vault.TotalAssets,
		Shares:  vault.TotalShareSupply,
		Fee:     sdkmath.ZeroInt(),
	}
}

// NewDepositEntry records a deposit of amount.
func NewDepositEntry(height int64, vaultID uint64, owner string, amount sdkmath.Int, result DepositResult) JournalEntry {
	return JournalEntry{
		VaultID: vaultID,
		Kind:    OperationDeposit,
		Actor:   owner,
		Height:  height,
		Assets:  amount,
		Shares:  result.SharesMinted,
		Fee:     result.Fee,
	}
}

// NewWithdrawEntry records a withdrawal of shares.
func NewWithdrawEntry(height int64, vaultID uint64, owner string, shares sdkmath.Int, result WithdrawResult) JournalEntry {
	return JournalEntry{
		VaultID: vaultID,
		Kind:    OperationWithdraw,
		Actor:   owner,
		Height:  height,
		Assets:  result.AssetsReturned,
		Shares:  shares,
		Fee:     result.Fee,
	}
}

// Validate performs basic validation of the entry.
func (e JournalEntry) Validate() error {
	if e.VaultID == 0 {
		return ErrInvalidVaultID.Wrap("vault id must be positive")
	}
	switch e.Kind {
	case OperationConfigure, OperationDeposit, OperationWithdraw:
	default:
		return ErrInvalidRequest.Wrapf("unknown operation kind %q", e.Kind)
	}
	if _, err := sdk.AccAddressFromBech32(e.Actor); err != nil {
		return fmt.Errorf("invalid journal actor %q: %w", e.Actor, err)
	}
	if e.Height < 0 {
		return ErrInvalidRequest.Wrap("height cannot be negative")
	}
	amounts := []struct {
		name string
		amt  sdkmath.Int
	}{
		{"assets", e.Assets},
		{"shares", e.Shares},
		{"fee", e.Fee},
	}
	for _, a := range amounts {
		if a.amt.IsNil() || a.amt.IsNegative() {
			return ErrInvalidRequest.Wrapf("journal %s must be non-negative", a.name)
		}
	}
	return nil
}

// JournalRecord is a journal entry with its sequence number, as exported in genesis.
type JournalRecord struct {
	Sequence uint64       `json:"sequence"`
	Entry    JournalEntry `json:"entry"`
}
