package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"cap-customizer/storage"
)

// DefaultVolume is used whenever the stored volume is missing or unusable.
const DefaultVolume = 0.3

// LoadVolume reads the stored music volume. Anything other than a finite
// number in [0,1] yields DefaultVolume.
func LoadVolume(ctx context.Context, b storage.Backend) float64 {
	data, err := b.Get(ctx, VolumeKey)
	if err != nil {
		return DefaultVolume
	}
	var stored *float64
	if err := json.Unmarshal(data, &stored); err != nil || stored == nil {
		return DefaultVolume
	}
	v := *stored
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return DefaultVolume
	}
	return v
}

// SaveVolume clamps v into [0,1] (non-finite values become DefaultVolume),
// stores it and returns the stored value.
func SaveVolume(ctx context.Context, b storage.Backend, v float64) (float64, error) {
	v = ClampVolume(v)
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode volume: %w", err)
	}
	if err := b.Set(ctx, VolumeKey, data); err != nil {
		return 0, fmt.Errorf("save volume: %w", err)
	}
	return v, nil
}

// ClampVolume maps v into [0,1]; NaN and infinities become DefaultVolume.
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultVolume
	}
	return math.Max(0, math.Min(1, v))
}
