package journal

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/indexes"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// Key is the primary key of a journal entry: (vault id, sequence).
type Key = collections.Pair[uint64, uint64]

// Indexes defines the secondary indexes of the journal.
type Indexes struct {
	ByOwner *indexes.Multi[sdk.AccAddress, Key, types.JournalEntry]
}

// IndexesList returns the list of indexes for the journal.
func (i Indexes) IndexesList() []collections.Index[Key, types.JournalEntry] {
	return []collections.Index[Key, types.JournalEntry]{i.ByOwner}
}

// NewIndexes creates a new Indexes object.
func NewIndexes(sb *collections.SchemaBuilder) Indexes {
	return Indexes{
		ByOwner: indexes.NewMulti(
			sb,
			types.JournalByOwnerIndexPrefix,
			types.JournalByOwnerIndexName,
			sdk.AccAddressKey,
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
			func(_ Key, entry types.JournalEntry) (sdk.AccAddress, error) {
				return sdk.AccAddressFromBech32(entry.Actor)
			},
		),
	}
}

// Journal is an append-only log of committed vault operations.
type Journal struct {
	// IndexedMap holds the entries keyed by (vault id, sequence).
	IndexedMap *collections.IndexedMap[Key, types.JournalEntry, Indexes]
	// Sequence numbers entries across all vaults.
	Sequence collections.Sequence
}

// NewJournal creates a new Journal.
func NewJournal(builder *collections.SchemaBuilder) *Journal {
	return &Journal{
		IndexedMap: collections.NewIndexedMap(
			builder,
			types.JournalKeyPrefix,
			types.JournalName,
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
			collections.NewJSONValueCodec[types.JournalEntry](),
			NewIndexes(builder),
		),
		Sequence: collections.NewSequence(builder, types.JournalSeqPrefix, types.JournalSeqName),
	}
}

// Append validates entry and stores it under the next sequence number.
func (j *Journal) Append(ctx context.Context, entry types.JournalEntry) (uint64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("invalid journal entry: %w", err)
	}
	seq, err := j.Sequence.Next(ctx)
	if err != nil {
		return 0, err
	}
	return seq, j.IndexedMap.Set(ctx, collections.Join(entry.VaultID, seq), entry)
}

// Get returns the entry of vaultID stored under seq.
func (j *Journal) Get(ctx context.Context, vaultID, seq uint64) (types.JournalEntry, error) {
	return j.IndexedMap.Get(ctx, collections.Join(vaultID, seq))
}

// Walk iterates over all entries ordered by vault id then sequence.
// Iteration stops when the callback returns stop=true or an error.
func (j *Journal) Walk(ctx context.Context, fn func(seq uint64, entry types.JournalEntry) (stop bool, err error)) error {
	return j.IndexedMap.Walk(ctx, nil, func(key Key, entry types.JournalEntry) (bool, error) {
		return fn(key.K2(), entry)
	})
}

// WalkVault iterates over the entries of vaultID in sequence order.
// Iteration stops when the callback returns stop=true or an error.
func (j *Journal) WalkVault(ctx context.Context, vaultID uint64, fn func(seq uint64, entry types.JournalEntry) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[uint64, uint64](vaultID)
	return j.IndexedMap.Walk(ctx, rng, func(key Key, entry types.JournalEntry) (bool, error) {
		return fn(key.K2(), entry)
	})
}

// WalkByOwner iterates over all entries recorded for actor, ordered by vault id then sequence.
// Iteration stops when the callback returns stop=true or an error.
func (j *Journal) WalkByOwner(ctx context.Context, actor sdk.AccAddress, fn func(seq uint64, entry types.JournalEntry) (stop bool, err error)) error {
	iter, err := j.IndexedMap.Indexes.ByOwner.MatchExact(ctx, actor)
	if err != nil {
		return err
	}
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		pk, err := iter.PrimaryKey()
		if err != nil {
			return err
		}
		entry, err := j.IndexedMap.Get(ctx, pk)
		if err != nil {
			return err
		}
		if stop, err := fn(pk.K2(), entry); stop || err != nil {
			return err
		}
	}
	return nil
}

// Import imports the journal from genesis.
func (j *Journal) Import(ctx context.Context, records []types.JournalRecord, latestSequence uint64) error {
	for _, rec := range records {
		if err := rec.Entry.Validate(); err != nil {
			return fmt.Errorf("invalid journal entry %d: %w", rec.Sequence, err)
		}
		if rec.Sequence >= latestSequence {
			return fmt.Errorf("journal entry %d is not below the latest sequence %d", rec.Sequence, latestSequence)
		}
		if err := j.IndexedMap.Set(ctx, collections.Join(rec.Entry.VaultID, rec.Sequence), rec.Entry); err != nil {
			return fmt.Errorf("failed to import journal entry %d: %w", rec.Sequence, err)
		}
	}
	if err := j.Sequence.Set(ctx, latestSequence); err != nil {
		return fmt.Errorf("failed to set latest sequence number for journal: %w", err)
	}
	return nil
}

// Export exports the journal to genesis.
func (j *Journal) Export(ctx context.Context) ([]types.JournalRecord, uint64, error) {
	records := make([]types.JournalRecord, 0)
	err := j.Walk(ctx, func(seq uint64, entry types.JournalEntry) (bool, error) {
		records = append(records, types.JournalRecord{Sequence: seq, Entry: entry})
		return false, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk journal: %w", err)
	}

	latestSequence, err := j.Sequence.Peek(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get latest sequence number for journal: %w", err)
	}
	return records, latestSequence, nil
}
