package keeper

import (
	"context"
)

// EndBlocker is a hook that is called at the end of every block. It fails the
// block if any committed vault breaks the engine invariants.
func (k *Keeper) EndBlocker(ctx context.Context) error {
	if err := k.CheckVaultInvariants(ctx); err != nil {
		k.getLogger(ctx).Error("vault invariant broken", "error", err)
		return err
	}
	return nil
}
