package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cap-customizer/preset"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the envelope for both directions. The server sends "state"
// and "closed"; clients may send "select" and receive "error" on failure.
type wsMessage struct {
	Type  string        `json:"type"`
	State *preset.State `json:"state,omitempty"`
	ID    string        `json:"id,omitempty"`
	Error string        `json:"error,omitempty"`
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	outChan := make(chan preset.State, 1)
	s, kick := h.sessions.Attach(r.URL.Query().Get("name"), outChan)
	defer h.sessions.Detach(s, outChan)

	// Current state first, so a fresh viewer renders without waiting for a change.
	current := h.caps.Get()
	if err := writeMsg(wsMessage{Type: "state", State: &current, ID: s.ID}); err != nil {
		h.logger.Debug("ws initial state write failed", zap.Error(err))
		return
	}

	// Pump state changes to the client. Exits when Detach closes outChan.
	go func() {
		for st := range outChan {
			if err := writeMsg(wsMessage{Type: "state", State: &st}); err != nil {
				return
			}
		}
	}()

	// Close the connection on kill or displacement so ReadJSON below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			writeMsg(wsMessage{Type: "closed"}) //nolint:errcheck
			conn.Close()
		case <-kick:
			// Displaced by a newer connection for the same viewer name.
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "select":
			if err := h.caps.Select(r.Context(), msg.ID); err != nil {
				reason := "failed to select cap"
				if errors.Is(err, preset.ErrNotFound) {
					reason = "cap not found"
				}
				if err := writeMsg(wsMessage{Type: "error", ID: msg.ID, Error: reason}); err != nil {
					return
				}
			}
		}
	}
}
