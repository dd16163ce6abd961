package preset_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-customizer/preset"
	"cap-customizer/storage"
)

type recordingNotifier struct {
	mu     sync.Mutex
	states []preset.State
}

func (r *recordingNotifier) Publish(s preset.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func newTestManager(t *testing.T) (*preset.Manager, storage.Backend, *recordingNotifier) {
	t.Helper()
	b, err := storage.NewFile(t.TempDir() + "/store.json")
	require.NoError(t, err)
	n := &recordingNotifier{}
	return preset.NewManager(context.Background(), b, preset.WithNotifier(n)), b, n
}

func TestNewManagerSeeds(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Equal(t, "Developer", m.Selected().Name)
	assert.Len(t, m.All(), 2)
}

func TestManagerAddPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	m, b, n := newTestManager(t)

	got, err := m.Add(ctx, preset.Cap{ID: "3", Name: " QA ", Letter: "q", Color: "#000", LetterColor: "#fff"})
	require.NoError(t, err)
	assert.Equal(t, "QA", got.Name)
	assert.Equal(t, "Q", got.Letter)
	assert.Equal(t, "3", m.Selected().ID)
	assert.Equal(t, "lofi", m.Selected().Playlist)

	reloaded := preset.NewManager(ctx, b)
	assert.Equal(t, "3", reloaded.Selected().ID)
	assert.Equal(t, 1, n.count())
}

func TestManagerAddGeneratesID(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemory()
	m := preset.NewManager(ctx, b, preset.WithIDFunc(func() string { return "generated" }))

	got, err := m.Add(ctx, preset.Cap{Name: "Ops", Letter: "O", Color: "#333", LetterColor: "white"})
	require.NoError(t, err)
	assert.Equal(t, "generated", got.ID)
	assert.Equal(t, "generated", m.Get().SelectedID)
}

func TestManagerAddInvalid(t *testing.T) {
	m, _, n := newTestManager(t)
	_, err := m.Add(context.Background(), preset.Cap{ID: "x", Name: "", Letter: "X", Color: "#000", LetterColor: "#fff"})
	assert.ErrorIs(t, err, preset.ErrInvalidCap)
	assert.Len(t, m.All(), 2)
	assert.Zero(t, n.count())
}

func TestManagerRemoveLastCap(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Remove(ctx, "2"))
	assert.ErrorIs(t, m.Remove(ctx, "1"), preset.ErrLastCap)
	assert.Len(t, m.All(), 1)
}

func TestManagerUpdateAndSelect(t *testing.T) {
	ctx := context.Background()
	m, _, n := newTestManager(t)

	_, err := m.Update(ctx, preset.Cap{ID: "2", Name: "Growth", Letter: "g", Color: "#D6811F", LetterColor: "white", Playlist: "techno"})
	require.NoError(t, err)
	assert.Equal(t, "1", m.Selected().ID)

	require.NoError(t, m.Select(ctx, "2"))
	sel := m.Selected()
	assert.Equal(t, "Growth", sel.Name)
	assert.Equal(t, "G", sel.Letter)

	assert.ErrorIs(t, m.Select(ctx, "ghost"), preset.ErrNotFound)
	_, err = m.Update(ctx, preset.Cap{ID: "ghost", Name: "G", Letter: "G", Color: "#000", LetterColor: "#fff"})
	assert.ErrorIs(t, err, preset.ErrNotFound)
	assert.Equal(t, 2, n.count())
}

func TestManagerSaveFailureKeepsState(t *testing.T) {
	m := preset.NewManager(context.Background(), failingBackend{})
	err := m.Select(context.Background(), "2")
	assert.Error(t, err)
	assert.Equal(t, "1", m.Get().SelectedID)
}

func TestManagerGetIsSnapshot(t *testing.T) {
	m, _, _ := newTestManager(t)
	snap := m.Get()
	require.NoError(t, m.Select(context.Background(), "2"))
	assert.Equal(t, "1", snap.SelectedID)
}

func TestManagerConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	m, b, n := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Add(ctx, preset.Cap{Name: "Crowd", Letter: "C", Color: "#444", LetterColor: "white"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, m.All(), 22)
	assert.Equal(t, 22, preset.Load(ctx, b, nil).Len())
	assert.Equal(t, 20, n.count())
}

func TestManagerImportAppliesAsOneChange(t *testing.T) {
	ctx := context.Background()
	m, b, n := newTestManager(t)

	err := m.Import(ctx, []preset.Cap{
		{ID: "1", Name: "Dev", Letter: "d", Color: "#000", LetterColor: "white"},
		{ID: "qa", Name: "QA", Letter: "Q", Color: "#111", LetterColor: "white", Playlist: "techno"},
	}, "2")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "qa"}, m.Get().IDs())
	assert.Equal(t, "2", m.Selected().ID)
	c, _ := m.Get().Lookup("1")
	assert.Equal(t, "D", c.Letter)
	assert.Equal(t, 1, n.count())
	assert.Equal(t, []string{"1", "2", "qa"}, preset.Load(ctx, b, nil).IDs())
}

func TestManagerImportRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	m, b, n := newTestManager(t)

	err := m.Import(ctx, []preset.Cap{
		{ID: "a", Name: "Alpha", Letter: "A", Color: "#000", LetterColor: "white"},
		{ID: "b", Name: "Broken", Letter: "BB", Color: "#000", LetterColor: "white"},
	}, "a")
	assert.ErrorIs(t, err, preset.ErrInvalidCap)

	err = m.Import(ctx, []preset.Cap{
		{ID: "a", Name: "Alpha", Letter: "A", Color: "#000", LetterColor: "white"},
	}, "ghost")
	assert.ErrorIs(t, err, preset.ErrNotFound)

	assert.Equal(t, []string{"1", "2"}, m.Get().IDs())
	assert.Equal(t, "1", m.Get().SelectedID)
	assert.Zero(t, n.count())
	_, err = b.Get(ctx, preset.StateKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
