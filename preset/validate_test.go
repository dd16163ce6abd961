package preset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cap-customizer/preset"
)

func TestNormalize(t *testing.T) {
	c := preset.Normalize(preset.Cap{ID: " 1 ", Name: "  Dev ", Letter: "d", Color: " #000 ", LetterColor: "white ", Playlist: " lofi"})
	assert.Equal(t, preset.Cap{ID: "1", Name: "Dev", Letter: "D", Color: "#000", LetterColor: "white", Playlist: "lofi"}, c)

	// Multi-character letters are left for preset.Validate to reject.
	assert.Equal(t, "ab", preset.Normalize(preset.Cap{Letter: "ab"}).Letter)
}

func TestValidate(t *testing.T) {
	valid := preset.Cap{ID: "1", Name: "Dev", Letter: "D", Color: "#2E4A9E", LetterColor: "white", Playlist: "lofi"}
	assert.NoError(t, preset.Validate(valid))

	tests := []struct {
		name  string
		mod   func(*preset.Cap)
		field string
	}{
		{"missing id", func(c *preset.Cap) { c.ID = "" }, "id"},
		{"missing name", func(c *preset.Cap) { c.Name = "" }, "name"},
		{"long name", func(c *preset.Cap) { c.Name = strings.Repeat("n", 65) }, "name"},
		{"empty letter", func(c *preset.Cap) { c.Letter = "" }, "letter"},
		{"two letters", func(c *preset.Cap) { c.Letter = "DD" }, "letter"},
		{"named cap colour", func(c *preset.Cap) { c.Color = "blue" }, "color"},
		{"bad hex", func(c *preset.Cap) { c.Color = "#zzzzzz" }, "color"},
		{"missing letter colour", func(c *preset.Cap) { c.LetterColor = "" }, "letterColor"},
		{"bad letter hex", func(c *preset.Cap) { c.LetterColor = "#12" }, "letterColor"},
		{"unknown playlist", func(c *preset.Cap) { c.Playlist = "jazz" }, "playlist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mod(&c)
			err := preset.Validate(c)
			assert.ErrorIs(t, err, preset.ErrInvalidCap)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateAcceptsVariants(t *testing.T) {
	for _, c := range []preset.Cap{
		{ID: "1", Name: "Short hex", Letter: "S", Color: "#000", LetterColor: "#fff"},
		{ID: "2", Name: strings.Repeat("n", 64), Letter: "é", Color: "#abcdef", LetterColor: "orange"},
		{ID: "3", Name: "No playlist", Letter: "N", Color: "#ABCDEF", LetterColor: "white", Playlist: ""},
	} {
		assert.NoError(t, preset.Validate(c), c.Name)
	}
}

func TestPlaylists(t *testing.T) {
	lists := preset.Playlists()
	assert.Len(t, lists, 2)
	assert.Equal(t, "lofi", lists[0].Key)
	assert.NotEmpty(t, lists[0].Tracks)
	assert.True(t, preset.IsPlaylist("techno"))
	assert.False(t, preset.IsPlaylist(""))

	// Callers get copies.
	lists[0].Tracks[0] = "changed"
	assert.NotEqual(t, "changed", preset.Playlists()[0].Tracks[0])
}
