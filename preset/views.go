package preset

// withDefaults returns c with an empty playlist replaced by DefaultPlaylist.
func withDefaults(c Cap) Cap {
	if c.Playlist == "" {
		c.Playlist = DefaultPlaylist
	}
	return c
}

// Selected returns the selected cap with its playlist default-filled.
//
// If the selected id no longer exists (for example right after the selected
// cap was removed) the first cap in insertion order stands in. A state with
// no caps at all yields DefaultCap.
func (s State) Selected() Cap {
	if c, ok := s.caps[s.SelectedID]; ok {
		return withDefaults(c)
	}
	if len(s.order) > 0 {
		return withDefaults(s.caps[s.order[0]])
	}
	return DefaultCap()
}

// All returns every cap in insertion order with playlists default-filled.
func (s State) All() []Cap {
	out := make([]Cap, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, withDefaults(s.caps[id]))
	}
	return out
}
