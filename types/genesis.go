package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Holding is the share balance of a single owner in a single vault.
type Holding struct {
	VaultID uint64      `json:"vault_id"`
	Owner   string      `json:"owner"`
	Shares  sdkmath.Int `json:"shares"`
}

// GenesisState is the exported state of the module.
type GenesisState struct {
	Params   Params       `json:"params"`
	Vaults   []VaultState `json:"vaults"`
	Holdings []Holding    `json:"holdings"`
	// Journal is the operation history and JournalSequence the next sequence to assign.
	Journal         []JournalRecord `json:"journal"`
	JournalSequence uint64          `json:"journal_sequence"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		Vaults:   []VaultState{},
		Holdings: []Holding{},
		Journal:  []JournalRecord{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	supplies := make(map[uint64]sdkmath.Int, len(gs.Vaults))
	for i, v := range gs.Vaults {
		if _, dup := supplies[v.ID]; dup {
			return ErrVaultAlreadyExists.Wrapf("duplicate vault %d at index %d", v.ID, i)
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid vault at index %d: %w", i, err)
		}
		supplies[v.ID] = v.TotalShareSupply
	}

	held := make(map[uint64]sdkmath.Int)
	seen := make(map[string]bool)
	for i, h := range gs.Holdings {
		supply, ok := supplies[h.VaultID]
		if !ok {
			return ErrVaultNotFound.Wrapf("holding at index %d references vault %d", i, h.VaultID)
		}
		if _, err := sdk.AccAddressFromBech32(h.Owner); err != nil {
			return fmt.Errorf("invalid holding owner at index %d: %w", i, err)
		}
		key := fmt.Sprintf("%d/%s", h.VaultID, h.Owner)
		if seen[key] {
			return ErrInvalidRequest.Wrapf("duplicate holding for %s", key)
		}
		seen[key] = true
		if h.Shares.IsNil() || !h.Shares.IsPositive() {
			return ErrInvalidRequest.Wrapf("holding at index %d must have positive shares", i)
		}
		total, ok := held[h.VaultID]
		if !ok {
			total = sdkmath.ZeroInt()
		}
		total, err := total.SafeAdd(h.Shares)
		if err != nil || total.GT(supply) {
			return ErrInsufficientShares.Wrapf("holdings of vault %d exceed its share supply %s", h.VaultID, supply)
		}
		held[h.VaultID] = total
	}

	sequences := make(map[uint64]bool, len(gs.Journal))
	for i, rec := range gs.Journal {
		if err := rec.Entry.Validate(); err != nil {
			return fmt.Errorf("invalid journal entry at index %d: %w", i, err)
		}
		if _, ok := supplies[rec.Entry.VaultID]; !ok {
			return ErrVaultNotFound.Wrapf("journal entry at index %d references vault %d", i, rec.Entry.VaultID)
		}
		if sequences[rec.Sequence] {
			return ErrInvalidRequest.Wrapf("duplicate journal sequence %d", rec.Sequence)
		}
		sequences[rec.Sequence] = true
		if rec.Sequence >= gs.JournalSequence {
			return ErrInvalidRequest.Wrapf("journal sequence %d is not below the next sequence %d", rec.Sequence, gs.JournalSequence)
		}
	}
	return nil
}
