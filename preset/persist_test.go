package preset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-customizer/preset"
	"cap-customizer/storage"
)

type failingBackend struct{ storage.Backend }

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestLoadMissingUsesSeed(t *testing.T) {
	s := preset.Load(context.Background(), storage.NewMemory(), nil)
	assert.Equal(t, preset.Seed().All(), s.All())
	assert.Equal(t, "1", s.SelectedID)
}

func TestLoadMalformedUsesSeed(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{"caps":"nope"}`, `42`, `{"selectedCapId":"1","caps":{}}`} {
		b := storage.NewMemory()
		require.NoError(t, b.Set(ctx, preset.StateKey, []byte(raw)))
		s := preset.Load(ctx, b, nil)
		assert.Equal(t, preset.Seed().IDs(), s.IDs(), raw)
	}
}

func TestLoadReadErrorUsesSeed(t *testing.T) {
	s := preset.Load(context.Background(), failingBackend{}, nil)
	assert.Equal(t, preset.Seed().IDs(), s.IDs())
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemory()
	want := preset.Add(preset.Seed(), qaCap())
	require.NoError(t, preset.Save(ctx, b, want))

	got := preset.Load(ctx, b, nil)
	assert.Equal(t, want.SelectedID, got.SelectedID)
	assert.Equal(t, want.All(), got.All())
}

func TestSaveError(t *testing.T) {
	err := preset.Save(context.Background(), failingBackend{}, preset.Seed())
	assert.Error(t, err)
}
