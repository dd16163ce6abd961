package preset

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const maxNameLen = 64

// Normalize trims every field and upper-cases the letter.
func Normalize(c Cap) Cap {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	c.Letter = strings.TrimSpace(c.Letter)
	if r, n := utf8.DecodeRuneInString(c.Letter); n > 0 && n == len(c.Letter) {
		c.Letter = string(unicode.ToUpper(r))
	}
	c.Color = strings.TrimSpace(c.Color)
	c.LetterColor = strings.TrimSpace(c.LetterColor)
	c.Playlist = strings.TrimSpace(c.Playlist)
	return c
}

// Validate checks c the way the add form does. Errors wrap ErrInvalidCap.
func Validate(c Cap) error {
	switch {
	case c.ID == "":
		return invalid("id", "is required")
	case c.Name == "":
		return invalid("name", "is required")
	case utf8.RuneCountInString(c.Name) > maxNameLen:
		return invalid("name", "must be at most 64 characters")
	case utf8.RuneCountInString(c.Letter) != 1:
		return invalid("letter", "must be exactly 1 character")
	}
	if _, err := colorful.Hex(c.Color); err != nil {
		return invalid("color", fmt.Sprintf("%q is not a hex colour", c.Color))
	}
	if c.LetterColor == "" {
		return invalid("letterColor", "is required")
	}
	if strings.HasPrefix(c.LetterColor, "#") {
		if _, err := colorful.Hex(c.LetterColor); err != nil {
			return invalid("letterColor", fmt.Sprintf("%q is not a hex colour", c.LetterColor))
		}
	}
	if c.Playlist != "" && !IsPlaylist(c.Playlist) {
		return invalid("playlist", fmt.Sprintf("unknown playlist %q", c.Playlist))
	}
	return nil
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidCap, field, msg)
}
