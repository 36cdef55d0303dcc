// Package net exposes the engine's command/query surface and event stream
// over a websocket connection, grounded on the teacher's hub.go/main.go
// join-then-stream pattern (subscriber registry, JSON envelopes, a
// broadcast goroutine driven by the simulation tick).
package net

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ctrlspike/towerdefense/sim"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ClientMessage is the JSON envelope for an inbound command (spec §6).
type ClientMessage struct {
	Type   string          `json:"type"`
	SentAt int64           `json:"sentAt"`
	Params json.RawMessage `json:"params,omitempty"`
}

// PlaceDefenseParams decodes the params for a place_defense command.
type PlaceDefenseParams struct {
	GX   int    `json:"gx"`
	GY   int    `json:"gy"`
	Kind string `json:"kind"`
}

// IDParams decodes the params for commands keyed by a single entity ID
// (upgrade_defense, sell_defense, activate_special).
type IDParams struct {
	ID string `json:"id"`
}

// StartWaveParams decodes the params for start_wave; empty means "next".
type StartWaveParams struct {
	Wave int `json:"wave,omitempty"`
}

// NewGameParams decodes the params for new_game.
type NewGameParams struct {
	Seed  string `json:"seed"`
	Shape string `json:"shape,omitempty"`
}

// ServerMessage is the JSON envelope for outbound state, patches, and events.
type ServerMessage struct {
	Type       string        `json:"type"`
	ServerTime int64         `json:"serverTime"`
	Patches    []sim.Patch   `json:"patches,omitempty"`
	Snapshot   *SnapshotView `json:"snapshot,omitempty"`
	Error      *ErrorView    `json:"error,omitempty"`
}

// ErrorView mirrors a rejected command back to the client (spec §7).
type ErrorView struct {
	Command string `json:"command"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

// SnapshotView is the client-facing read model for the snapshot() query;
// deliberately narrower than SaveDocument since it omits internal handle
// state.
type SnapshotView struct {
	State     string         `json:"state"`
	Resources sim.Resources  `json:"resources"`
	Lives     int            `json:"lives"`
	Wave      int            `json:"wave"`
	Score     int            `json:"score"`
	Tick      uint64         `json:"tick"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub owns one running game and every websocket subscriber attached to it.
type Hub struct {
	mu          sync.Mutex
	engine      *sim.Engine
	subscribers map[string]*subscriber
	nextSubID   uint64
}

// NewHub wraps an already-constructed engine.
func NewHub(engine *sim.Engine) *Hub {
	return &Hub{
		engine:      engine,
		subscribers: make(map[string]*subscriber),
	}
}

// Run drives the simulation clock, ticking the engine at the fixed rate and
// broadcasting the tick's patches to every subscriber (spec §5: single
// logical simulation thread; rendering/transport may run separately but
// must observe whole-tick snapshots).
func (h *Hub) Run(ctx context.Context, dtMs float64) {
	interval := time.Duration(dtMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			h.engine.TickCommand(ctx, dtMs)
			patches := h.engine.Journal.Drain()
			h.mu.Unlock()
			if len(patches) > 0 {
				h.broadcast(ServerMessage{Type: "patches", ServerTime: time.Now().UnixMilli(), Patches: patches})
			}
		}
	}
}

func (h *Hub) broadcast(msg ServerMessage) {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, s := range h.subscribers {
		subs[id] = s
	}
	h.mu.Unlock()

	for id, s := range subs {
		if err := s.writeJSON(msg); err != nil {
			log.Printf("failed to send update to %s: %v", id, err)
			h.removeSubscriber(id)
		}
	}
}

func (h *Hub) addSubscriber(conn *websocket.Conn) (string, *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSubID++
	id := idFromCounter(h.nextSubID)
	s := &subscriber{conn: conn}
	h.subscribers[id] = s
	return id, s
}

func (h *Hub) removeSubscriber(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

func idFromCounter(n uint64) string {
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if i == len(digits) {
		i--
		digits[i] = '0'
	}
	return "sub-" + string(digits[i:])
}

// Snapshot builds the client-facing read model for the current engine state.
func (h *Hub) Snapshot() SnapshotView {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.engine
	return SnapshotView{
		State:     string(e.State),
		Resources: e.Ledger.Resources,
		Lives:     e.Ledger.Lives,
		Wave:      e.Waves.CurrentWave,
		Score:     e.Ledger.Score,
		Tick:      e.Tick,
	}
}

// HandleCommand dispatches one decoded ClientMessage against the engine,
// returning either nil (accepted) or the rejection to relay to the client
// (spec §7).
func (h *Hub) HandleCommand(ctx context.Context, msg ClientMessage) *ErrorView {
	h.mu.Lock()
	defer h.mu.Unlock()

	cmd := sim.Command{
		OriginTick: h.engine.Tick,
		IssuedAt:   time.UnixMilli(msg.SentAt),
	}

	switch msg.Type {
	case "start_wave":
		cmd.Type = sim.CommandStartWave
	case "place_defense":
		var params PlaceDefenseParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return &ErrorView{Command: msg.Type, Code: "INVALID_PARAMS", Reason: err.Error()}
		}
		cmd.Type, cmd.GX, cmd.GY, cmd.Kind = sim.CommandPlaceDefense, params.GX, params.GY, sim.DefenseKind(params.Kind)
	case "upgrade_defense":
		var params IDParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return &ErrorView{Command: msg.Type, Code: "INVALID_PARAMS", Reason: err.Error()}
		}
		cmd.Type, cmd.EntityID = sim.CommandUpgradeDefense, params.ID
	case "sell_defense":
		var params IDParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return &ErrorView{Command: msg.Type, Code: "INVALID_PARAMS", Reason: err.Error()}
		}
		cmd.Type, cmd.EntityID = sim.CommandSellDefense, params.ID
	case "activate_special":
		var params IDParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return &ErrorView{Command: msg.Type, Code: "INVALID_PARAMS", Reason: err.Error()}
		}
		cmd.Type, cmd.EntityID = sim.CommandActivateSpecial, params.ID
	default:
		return &ErrorView{Command: msg.Type, Code: "UNKNOWN_COMMAND", Reason: "no such command"}
	}

	if cmdErr := h.engine.Dispatch(ctx, cmd); cmdErr != nil {
		return &ErrorView{Command: cmdErr.Command, Code: string(cmdErr.Code), Reason: cmdErr.Reason}
	}
	return nil
}

// ServeWS upgrades the request to a websocket, sends an initial snapshot,
// then loops reading commands until the connection drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	id, sub := h.addSubscriber(conn)
	defer h.removeSubscriber(id)
	defer conn.Close()

	initial := ServerMessage{Type: "snapshot", ServerTime: time.Now().UnixMilli()}
	snap := h.Snapshot()
	initial.Snapshot = &snap
	if err := sub.writeJSON(initial); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", id, err)
			continue
		}
		if msg.Type == "snapshot" {
			snap := h.Snapshot()
			sub.writeJSON(ServerMessage{Type: "snapshot", ServerTime: time.Now().UnixMilli(), Snapshot: &snap})
			continue
		}
		if errView := h.HandleCommand(r.Context(), msg); errView != nil {
			sub.writeJSON(ServerMessage{Type: "error", ServerTime: time.Now().UnixMilli(), Error: errView})
		}
	}
}

// HealthHandler answers a bare liveness probe.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// DiagnosticsPayload is the JSON body served by /diagnostics.
type DiagnosticsPayload struct {
	Status     string `json:"status"`
	ServerTime int64  `json:"serverTime"`
	Tick       uint64 `json:"tick"`
	TickRateHz int    `json:"tickRateHz"`
}

// DiagnosticsHandler reports engine liveness and the current tick.
func (h *Hub) DiagnosticsHandler(tickRateHz int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.Snapshot()
		payload := DiagnosticsPayload{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Tick:       snap.Tick,
			TickRateHz: tickRateHz,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// SaveHandler serializes the current game as a SaveDocument.
func (h *Hub) SaveHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	doc := h.engine.Save(uint64(time.Now().UnixMilli()))
	h.mu.Unlock()
	data, err := json.Marshal(doc)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// LoadHandler replaces the running engine from a posted SaveDocument.
func (h *Hub) LoadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var doc sim.SaveDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "invalid save document", http.StatusBadRequest)
		return
	}
	engine, cmdErr := sim.LoadSaveDocument(h.engine.Publisher(), doc)
	if cmdErr != nil {
		http.Error(w, cmdErr.Reason, http.StatusUnprocessableEntity)
		return
	}
	h.mu.Lock()
	h.engine = engine
	h.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}
