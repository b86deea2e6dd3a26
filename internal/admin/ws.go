package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"craneguard/internal/sim"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is the number of snapshots queued per client before it is
	// considered stalled.
	sendBuffer = 8
)

var (
	errSlowClient   = errors.New("websocket client too slow")
	errClientClosed = errors.New("websocket client closed")
)

// Websocket command types.
const (
	CmdControl  = "control"
	CmdScenario = "scenario"
	CmdSimSpeed = "sim_speed"
	CmdStopAll  = "stop_all"
)

type commandMessage struct {
	Type       string  `json:"type"`
	CraneID    string  `json:"crane_id,omitempty"`
	ScenarioID string  `json:"scenario_id,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
	controlRequest
}

type ackMessage struct {
	Type string `json:"type"`
	For  string `json:"for"`
	OK   bool   `json:"ok"`
}

type snapshotMessage struct {
	Type string       `json:"type"`
	Data sim.Snapshot `json:"data"`
}

// wsClient is a snapshot sink for one websocket connection. Snapshots are
// queued and written by writePump so a stalled peer never blocks the tick
// loop.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
	send chan sim.Snapshot
	done chan struct{}
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan sim.Snapshot, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// WriteSnapshot implements sim.SnapshotSink. It fails when the client is
// gone or its queue is full, which unsubscribes it.
func (c *wsClient) WriteSnapshot(s sim.Snapshot) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- s:
		return nil
	default:
		return errSlowClient
	}
}

// writePump writes queued snapshots until close is called. A failed write
// closes the connection, which ends the read loop.
func (c *wsClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case s := <-c.send:
			if err := c.writeJSON(snapshotMessage{Type: "snapshot", Data: s}); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (c *wsClient) close() {
	close(c.done)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	client := newWSClient(conn)
	if err := client.writeJSON(snapshotMessage{Type: "snapshot", Data: s.Sim.Snapshot()}); err != nil {
		return
	}
	go client.writePump()
	defer client.close()
	id := s.Sim.Subscribe(client)
	defer s.Sim.Unsubscribe(id)
	s.log.Info("websocket client connected", "sink", id, "remote", r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.log.Info("websocket client disconnected", "sink", id)
			return
		}
		var msg commandMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("discarding malformed command", "sink", id, "err", err)
			continue
		}
		ok := s.execute(msg)
		if err := client.writeJSON(ackMessage{Type: "ack", For: msg.Type, OK: ok}); err != nil {
			return
		}
	}
}

func (s *Server) execute(msg commandMessage) bool {
	switch msg.Type {
	case CmdControl:
		return msg.controlRequest.apply(s.Sim, msg.CraneID)
	case CmdScenario:
		return s.Sim.ApplyScenario(msg.ScenarioID)
	case CmdSimSpeed:
		s.Sim.SetSpeedMultiplier(msg.Multiplier)
		return true
	case CmdStopAll:
		s.Sim.StopAll()
		return true
	default:
		return false
	}
}
