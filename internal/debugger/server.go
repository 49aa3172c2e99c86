package debugger

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// frameBacklog bounds how many unconsumed frames Publish will buffer
// per client before dropping the oldest; a stalled client must never
// make Publish block the caller's step loop.
const frameBacklog = 64

// Server accepts websocket connections and fans a register-frame
// stream out to every attached client, while collecting breakpoint
// commands from them into a single channel the caller drains between
// steps. The accept loop (ServeHTTP, and each client's read pump) runs
// on its own goroutine; it never touches the engine directly.
type Server struct {
	log gblog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}

	breakpoints chan Breakpoint
}

type client struct {
	conn *websocket.Conn
	send chan Frame
}

// New returns a Server ready to accept connections via ServeHTTP.
func New(log gblog.Logger) *Server {
	return &Server{
		log:         log,
		clients:     make(map[*client]struct{}),
		breakpoints: make(chan Breakpoint, frameBacklog),
	}
}

// ServeHTTP upgrades the connection and spawns the client's read/write
// pumps. Intended to be mounted at a path like "/debug" on an
// http.ServeMux the host already runs.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("debugger: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Frame, frameBacklog)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writePump(c)
	go s.readPump(c)
}

// readPump decodes inbound breakpoint commands and forwards them to
// the shared channel; it never calls into the engine itself.
func (s *Server) readPump(c *client) {
	defer s.drop(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.log.Debugf("debugger: malformed command: %v", err)
			continue
		}
		if cmd.Op != "break" {
			continue
		}
		enabled := true
		if cmd.Enabled != nil {
			enabled = *cmd.Enabled
		}
		select {
		case s.breakpoints <- Breakpoint{Addr: cmd.Addr, Enabled: enabled}:
		default:
			s.log.Warnf("debugger: breakpoint command backlog full, dropping")
		}
	}
}

// writePump serializes one newline-delimited JSON frame per send.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for f := range c.send {
		data, err := json.Marshal(f)
		if err != nil {
			continue
		}
		data = append(data, '\n')
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Publish fans f out to every attached client. Never blocks: a client
// whose send buffer is full has its oldest frame dropped rather than
// stalling the caller, which is expected to call this once per
// gameboy.Core.Step.
func (s *Server) Publish(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- f:
		default:
			select {
			case <-c.send:
			default:
			}
			select {
			case c.send <- f:
			default:
			}
		}
	}
}

// DrainBreakpoints returns every breakpoint command queued since the
// last call, without blocking. The caller applies these to its
// gameboy.Core between steps, on its own goroutine.
func (s *Server) DrainBreakpoints() []Breakpoint {
	var out []Breakpoint
	for {
		select {
		case bp := <-s.breakpoints:
			out = append(out, bp)
		default:
			return out
		}
	}
}
