// Package trace broadcasts CPU state dumps to websocket clients, so a run
// can be followed live from a browser or another process.
package trace

import (
	"bytes"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/gorilla/websocket"

	"github.com/thelolagemann/lr35902/pkg/log"
	"github.com/thelolagemann/lr35902/pkg/utils"
)

// Server is a websocket hub. Every published dump is sent to every
// connected client; clients that cannot keep up are dropped.
type Server struct {
	clients map[*client]bool
	count   atomic.Int32

	broadcast            chan message
	register, unregister chan *client
	done                 chan struct{}
	closeOnce            sync.Once

	compression bool
	quality     int

	lastHash  uint64
	published bool
	mu        sync.Mutex

	log log.Logger
}

type message struct {
	kind int
	data []byte
}

// Opt configures a Server.
type Opt func(s *Server)

// WithCompression brotli compresses every dump at the given quality,
// clamped to 0 - 11. Compressed dumps are sent as binary messages.
func WithCompression(quality int) Opt {
	return func(s *Server) {
		s.compression = true
		s.quality = utils.Clamp(brotli.BestSpeed, quality, brotli.BestCompression)
	}
}

func WithLogger(l log.Logger) Opt {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer returns a running Server. It serves websocket upgrades through
// ServeHTTP.
func NewServer(opts ...Opt) *Server {
	s := &Server{
		clients:    make(map[*client]bool),
		broadcast:  make(chan message, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("trace: upgrading %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{
		server: s,
		conn:   conn,
		send:   make(chan message, 256),
	}
	select {
	case s.register <- c:
	case <-s.done:
		conn.Close()
		return
	}
	s.log.Debugf("trace: client %s connected", r.RemoteAddr)

	go c.readPump()
	go c.writePump()
}

// ListenAndServe serves the hub on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Infof("trace: listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return int(s.count.Load())
}

func (s *Server) run() {
	for {
		select {
		case c := <-s.register:
			s.clients[c] = true
		case c := <-s.unregister:
			s.drop(c)
		case msg := <-s.broadcast:
			for c := range s.clients {
				select {
				case c.send <- msg:
				default:
					s.drop(c)
				}
			}
		case <-s.done:
			for c := range s.clients {
				s.drop(c)
			}
			s.count.Store(0)
			return
		}
		s.count.Store(int32(len(s.clients)))
	}
}

func (s *Server) drop(c *client) {
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Publish sends dump to every client. A dump identical to the previous one,
// as produced by a halted CPU, is skipped. It reports whether the dump was
// queued.
func (s *Server) Publish(dump string) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	data := []byte(dump)
	hash := xxhash.Sum64(data)

	s.mu.Lock()
	if s.published && hash == s.lastHash {
		s.mu.Unlock()
		return false
	}
	s.lastHash, s.published = hash, true
	s.mu.Unlock()

	msg := message{kind: websocket.TextMessage, data: data}
	if s.compression {
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, s.quality)
		if _, err := w.Write(data); err != nil {
			s.log.Errorf("trace: compressing dump: %v", err)
			return false
		}
		if err := w.Close(); err != nil {
			s.log.Errorf("trace: compressing dump: %v", err)
			return false
		}
		msg = message{kind: websocket.BinaryMessage, data: buf.Bytes()}
	}

	select {
	case s.broadcast <- msg:
		return true
	case <-s.done:
		return false
	default:
		s.log.Debugf("trace: broadcast queue full, dump dropped")
		return false
	}
}

// Close disconnects every client and stops the hub.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
