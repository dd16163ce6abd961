package preset

// The operations below are pure: they never modify their input State.

// Add inserts c keyed by its id and selects it. An existing cap with the same
// id is overwritten in place.
func Add(s State, c Cap) State {
	out := s.clone()
	out.put(c)
	out.SelectedID = c.ID
	return out
}

// Remove deletes the cap with the given id. The selection is left as is even
// when it pointed at the removed cap; Selected falls back on read.
func Remove(s State, id string) (State, error) {
	if _, ok := s.caps[id]; !ok {
		return s, ErrNotFound
	}
	if len(s.caps) <= 1 {
		return s, ErrLastCap
	}
	out := s.clone()
	out.delete(id)
	return out, nil
}

// Update replaces the cap stored under c.ID and keeps the selection.
func Update(s State, c Cap) (State, error) {
	if _, ok := s.caps[c.ID]; !ok {
		return s, ErrNotFound
	}
	out := s.clone()
	out.put(c)
	return out, nil
}

// Select makes id the selected cap.
func Select(s State, id string) (State, error) {
	if _, ok := s.caps[id]; !ok {
		return s, ErrNotFound
	}
	out := s.clone()
	out.SelectedID = id
	return out, nil
}
