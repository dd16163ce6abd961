package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys shared with the browser front end.
const (
	StateKey  = "baseball-caps"
	VolumeKey = "baseball-cap-volume"
)

var (
	ErrNotFound   = errors.New("cap not found")
	ErrLastCap    = errors.New("cannot remove the last remaining cap")
	ErrInvalidCap = errors.New("invalid cap")
)

// Cap is a named customization preset: cap colour, front letter and the
// playlist played while it is selected.
type Cap struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Letter      string `json:"letter" yaml:"letter" toml:"letter"`
	Color       string `json:"color" yaml:"color" toml:"color"`
	LetterColor string `json:"letterColor" yaml:"letterColor" toml:"letterColor"`
	Playlist    string `json:"playlist,omitempty" yaml:"playlist,omitempty" toml:"playlist,omitempty"`
}

// State is the full persistent record. Caps keep their insertion order,
// including across a JSON round trip.
type State struct {
	SelectedID string
	caps       map[string]Cap
	order      []string
}

// NewState builds a State from caps in the given order. A later cap with a
// repeated id replaces the earlier one in place.
func NewState(selectedID string, caps ...Cap) State {
	s := State{SelectedID: selectedID, caps: make(map[string]Cap, len(caps))}
	for _, c := range caps {
		s.put(c)
	}
	return s
}

// Seed returns the state used on first load.
func Seed() State {
	return NewState("1",
		Cap{ID: "1", Name: "Developer", Letter: "D", Color: "#2E4A9E", LetterColor: "white", Playlist: "lofi"},
		Cap{ID: "2", Name: "Marketer", Letter: "M", Color: "#D6811F", LetterColor: "white", Playlist: "techno"},
	)
}

// DefaultCap is returned by Selected when the state holds no caps at all.
func DefaultCap() Cap {
	s := Seed()
	return s.caps[s.order[0]]
}

// Len reports the number of caps.
func (s State) Len() int { return len(s.order) }

// IDs returns cap ids in insertion order.
func (s State) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Lookup returns the stored cap for id exactly as persisted.
func (s State) Lookup(id string) (Cap, bool) {
	c, ok := s.caps[id]
	return c, ok
}

func (s State) clone() State {
	out := State{
		SelectedID: s.SelectedID,
		caps:       make(map[string]Cap, len(s.caps)),
		order:      make([]string, len(s.order)),
	}
	for k, v := range s.caps {
		out.caps[k] = v
	}
	copy(out.order, s.order)
	return out
}

func (s *State) put(c Cap) {
	if s.caps == nil {
		s.caps = make(map[string]Cap)
	}
	if _, ok := s.caps[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.caps[c.ID] = c
}

func (s *State) delete(id string) {
	delete(s.caps, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// MarshalJSON writes {"selectedCapId": ..., "caps": {...}} with caps in
// insertion order.
func (s State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	sel, err := json.Marshal(s.SelectedID)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"selectedCapId":`)
	buf.Write(sel)
	buf.WriteString(`,"caps":{`)
	for i, id := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.caps[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the layout written by MarshalJSON, preserving the key
// order of the caps object. Unknown top-level keys are ignored.
func (s *State) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	out := State{caps: make(map[string]Cap)}
	if raw, ok := top["selectedCapId"]; ok {
		if err := json.Unmarshal(raw, &out.SelectedID); err != nil {
			return fmt.Errorf("selectedCapId: %w", err)
		}
	}
	if raw, ok := top["caps"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := decodeOrderedCaps(raw, &out); err != nil {
			return fmt.Errorf("caps: %w", err)
		}
	}
	*s = out
	return nil
}

func decodeOrderedCaps(raw json.RawMessage, s *State) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", tok)
		}
		var c Cap
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("cap %q: %w", key, err)
		}
		// The map key is authoritative; the embedded id may be stale.
		c.ID = key
		s.put(c)
	}
	_, err = dec.Token()
	return err
}
