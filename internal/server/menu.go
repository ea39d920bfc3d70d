package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"zerosugar/explorer/internal/menu"
)

const menuWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// menuEvent is a pointer event sent by the page. The target is "trigger" or
// "panel"; both act on the same submenu.
type menuEvent struct {
	Event   string `json:"event"`
	Target  string `json:"target"`
	Submenu string `json:"submenu"`
}

// menuState is pushed whenever the visible submenu changes. Visible is empty
// when both are hidden.
type menuState struct {
	Visible string `json:"visible"`
}

// handleMenu runs one hover menu per page. Its state goes away with the
// connection.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("⚠️ Menu websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	logger := log.WithField("session", uuid.NewString())
	logger.Debug("Menu session opened")

	var (
		writeMu sync.Mutex
		m       *menu.Menu
	)
	m = menu.New(s.clock, s.hideDelay, func(menu.Submenu) {
		writeMu.Lock()
		defer writeMu.Unlock()

		// Read under the write lock so the last push always carries the
		// current state even when two changes race.
		state := menuState{Visible: m.Visible().String()}
		_ = conn.SetWriteDeadline(time.Now().Add(menuWriteTimeout))
		if err := conn.WriteJSON(state); err != nil {
			logger.Debugf("Menu push failed: %v", err)
		}
	})
	defer m.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("⚠️ Menu websocket read: %v", err)
			}
			logger.Debug("Menu session closed")
			return
		}

		var ev menuEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			logger.Debugf("Ignoring malformed menu event: %v", err)
			continue
		}

		submenu, err := menu.ParseSubmenu(ev.Submenu)
		if err != nil {
			logger.Debugf("Ignoring menu event: %v", err)
			continue
		}

		switch ev.Event {
		case "enter":
			m.Enter(submenu)
		case "leave":
			m.Leave(submenu)
		default:
			logger.Debugf("Ignoring unknown menu event %q", ev.Event)
		}
	}
}
