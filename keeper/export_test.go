package keeper

import (
	"testing"
)

// TestAccessor_lockVault exposes this keeper's per-vault lock for unit tests.
func (k Keeper) TestAccessor_lockVault(t *testing.T, id uint64) func() {
	t.Helper()
	return k.locks.lock(id)
}
