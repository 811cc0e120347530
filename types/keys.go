package types

import (
	fmt "fmt"

	"cosmossdk.io/collections"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "sharevault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	// It should be synced with the gov module's name if it is ever changed.
	// See: https://github.com/cosmos/cosmos-sdk/blob/v0.52.0-beta.2/x/gov/types/keys.go#L9
	GovModuleName = "gov"

	// BasisPointsScale is the basis point value of 100%.
	BasisPointsScale uint64 = 10_000
)

var (
	// ParamsKeyPrefix is the prefix to retrieve all Params
	ParamsKeyPrefix = collections.NewPrefix(0)
	// ParamsName is a human-readable name for the params collection.
	ParamsName = "params"
	// VaultsKeyPrefix is the prefix to retrieve all Vaults
	VaultsKeyPrefix = collections.NewPrefix(1)
	// VaultsName is a human-readable name for the vaults collection.
	VaultsName = "vaults"
	// HoldingsKeyPrefix is the prefix for per-owner share balances.
	HoldingsKeyPrefix = collections.NewPrefix(2)
	// HoldingsName is a human-readable name for the holdings collection.
	HoldingsName = "holdings"
	// JournalKeyPrefix is the prefix of the operation journal, keyed by (vault id, sequence).
	JournalKeyPrefix = collections.NewPrefix(3)
	// JournalName is a human-readable name for the operation journal.
	JournalName = "journal"
	// JournalByOwnerIndexPrefix is the prefix of the journal index by actor address.
	JournalByOwnerIndexPrefix = collections.NewPrefix(4)
	// JournalByOwnerIndexName is a human-readable name for the journal actor index.
	JournalByOwnerIndexName = "journal_by_owner"
	// JournalSeqPrefix is the prefix of the journal sequence.
	JournalSeqPrefix = collections.NewPrefix(5)
	// JournalSeqName is a human-readable name for the journal sequence.
	JournalSeqName = "journal_seq"
)

// GetVaultAddress returns the custody address holding the underlying assets of vaultID.
func GetVaultAddress(vaultID uint64) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(fmt.Sprintf("%s/%d", ModuleName, vaultID))))
}
