package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cap-customizer/storage"
)

// Load returns the persisted state, or Seed when nothing usable is stored.
// Read failures and malformed values are logged and never returned.
func Load(ctx context.Context, b storage.Backend, logger *zap.Logger) State {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := b.Get(ctx, StateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("reading cap state failed, using seed", zap.Error(err))
		}
		return Seed()
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("persisted cap state is malformed, using seed", zap.Error(err))
		return Seed()
	}
	if s.Len() == 0 {
		logger.Warn("persisted cap state holds no caps, using seed")
		return Seed()
	}
	return s
}

// Save writes s under StateKey.
func Save(ctx context.Context, b storage.Backend, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode cap state: %w", err)
	}
	if err := b.Set(ctx, StateKey, data); err != nil {
		return fmt.Errorf("save cap state: %w", err)
	}
	return nil
}
