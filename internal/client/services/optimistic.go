package services

import "context"

// optimisticOp is one snapshot → apply → commit-or-rollback cycle. The
// caller captures its own "before" state inside rollback; runOptimistic
// only sequences the three phases.
type optimisticOp struct {
	// apply publishes the mutated state immediately (optimistic update).
	apply func()
	// persist makes the published state durable.
	persist func(ctx context.Context) error
	// rollback republishes the pre-apply state after a persist failure.
	rollback func()
}

// runOptimistic applies the mutation, persists it, and rolls back on
// persistence failure. The persist error is returned as-is so callers can
// match it against the shared taxonomy.
func runOptimistic(ctx context.Context, op optimisticOp) error {
	op.apply()
	if err := op.persist(ctx); err != nil {
		op.rollback()
		return err
	}
	return nil
}
