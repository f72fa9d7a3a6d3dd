// Package stream broadcasts per-tick animation frames to renderer clients
// over WebSocket.
package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/motionrig/internal/anim"
)

// FramePacket is one composited animation frame as sent to a renderer. Bone
// rotations are XYZ euler radians; the renderer binds the names to its own
// skeleton and ignores anything it cannot resolve.
type FramePacket struct {
	Type        string                `json:"type"`
	Sequence    int64                 `json:"sequence"`
	Timestamp   string                `json:"timestamp"`
	Bones       map[string][3]float32 `json:"bones"`
	Expressions map[string]float32    `json:"expressions"`
}

// HelloMessage is sent once on connect so a renderer can pre-bind names.
type HelloMessage struct {
	Type     string   `json:"type"`
	Bones    []string `json:"bones"`
	Channels []string `json:"channels"`
}

type client struct {
	conn *websocket.Conn
	send chan FramePacket
}

// Server fans composited frames out to connected renderer clients. A slow or
// dead client is dropped; it never blocks the tick loop.
type Server struct {
	logger    zerolog.Logger
	upgrader  websocket.Upgrader
	sendQueue int

	mu       sync.RWMutex
	clients  map[*client]struct{}
	sequence int64

	onConnect    func(remote string)
	onDisconnect func(remote string)
}

// NewServer creates a frame stream server. sendQueue is the per-client frame
// buffer; frames beyond it are discarded for that client.
func NewServer(sendQueue int, logger zerolog.Logger) *Server {
	if sendQueue <= 0 {
		sendQueue = 8
	}
	return &Server{
		logger: logger.With().Str("component", "stream").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sendQueue: sendQueue,
		clients:   make(map[*client]struct{}),
	}
}

// SetOnConnect sets the callback fired when a renderer connects.
func (s *Server) SetOnConnect(fn func(remote string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = fn
}

// SetOnDisconnect sets the callback fired when a renderer disconnects.
func (s *Server) SetOnDisconnect(fn func(remote string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = fn
}

// ServeHTTP upgrades the request and registers the renderer client.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan FramePacket, s.sendQueue),
	}

	hello := HelloMessage{
		Type:     "hello",
		Bones:    anim.BoneNames[:],
		Channels: anim.ChannelNames[:],
	}
	if err := conn.WriteJSON(hello); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send hello")
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	onConnect := s.onConnect
	count := len(s.clients)
	s.mu.Unlock()

	remote := conn.RemoteAddr().String()
	s.logger.Info().Str("remote", remote).Int("clients", count).Msg("Renderer connected")
	if onConnect != nil {
		onConnect(remote)
	}

	go s.writePump(c, remote)
	go s.readPump(c, remote)
}

// Broadcast queues one frame for every connected client.
func (s *Server) Broadcast(out anim.Outputs) {
	s.mu.Lock()
	s.sequence++
	packet := FramePacket{
		Type:        "frame",
		Sequence:    s.sequence,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Bones:       make(map[string][3]float32, len(out.Bones)),
		Expressions: out.Expressions,
	}
	for name, rot := range out.Bones {
		packet.Bones[name] = [3]float32{rot[0], rot[1], rot[2]}
	}

	for c := range s.clients {
		select {
		case c.send <- packet:
		default:
			// Client can't keep up; skip this frame for it.
		}
	}
	s.mu.Unlock()
}

// ClientCount returns the number of connected renderers.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects all clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) writePump(c *client, remote string) {
	for packet := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteJSON(packet); err != nil {
			s.logger.Debug().Err(err).Str("remote", remote).Msg("Write failed, dropping client")
			s.drop(c, remote)
			return
		}
	}
	c.conn.Close()
}

func (s *Server) readPump(c *client, remote string) {
	// Renderers don't send application data; this pump only consumes control
	// frames and detects closure.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c, remote)
			return
		}
	}
}

func (s *Server) drop(c *client, remote string) {
	s.mu.Lock()
	_, ok := s.clients[c]
	if ok {
		close(c.send)
		delete(s.clients, c)
	}
	onDisconnect := s.onDisconnect
	count := len(s.clients)
	s.mu.Unlock()

	if !ok {
		return
	}
	c.conn.Close()
	s.logger.Info().Str("remote", remote).Int("clients", count).Msg("Renderer disconnected")
	if onDisconnect != nil {
		onDisconnect(remote)
	}
}
