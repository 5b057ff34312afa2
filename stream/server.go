package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// maxCommandSize bounds a single websocket command. Larger messages close the
// connection.
const maxCommandSize = 4096

// Server exposes the latest frame and a command surface over HTTP.
//
// Routes:
//
//	GET  /ws        websocket: msgpack frames out, JSON commands in
//	GET  /snapshot  latest frame (JSON, or msgpack with ?format=msgpack)
//	POST /reset     queue a simulation reset
//	PUT  /weather   queue a weather update
//	GET  /healthz   liveness
type Server struct {
	interval  time.Duration
	queue     *Queue
	hub       *Hub
	formatter *Formatter
	upgrader  websocket.Upgrader
	router    *mux.Router

	latest      atomic.Pointer[Frame]
	lastPublish time.Time // game loop only

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a server that publishes at most one frame per interval
// and pushes client commands onto queue.
func NewServer(interval time.Duration, queue *Queue) *Server {
	s := &Server{
		interval:  interval,
		queue:     queue,
		hub:       NewHub(),
		formatter: NewFormatter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	router.HandleFunc("/snapshot", s.handleSnapshot).Methods("GET")
	router.HandleFunc("/reset", s.handleReset).Methods("POST")
	router.HandleFunc("/weather", s.handleWeather).Methods("PUT")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return router
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("stream: request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stream: listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream: server stopped", "error", err)
		}
	}()
	slog.Info("stream: listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and disconnects viewers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Due reports whether a new frame should be published at now.
func (s *Server) Due(now time.Time) bool {
	return s.lastPublish.IsZero() || now.Sub(s.lastPublish) >= s.interval
}

// Publish makes f the latest frame and sends it to every viewer.
// f must not be modified afterwards.
func (s *Server) Publish(f *Frame) error {
	s.lastPublish = time.Now()
	s.latest.Store(f)

	if s.hub.Len() == 0 {
		return nil
	}
	msg, err := EncodeMsgPack(f)
	if err != nil {
		return fmt.Errorf("stream: encoding frame %d: %w", f.Tick, err)
	}
	s.hub.Broadcast(msg)
	return nil
}

// Latest returns the most recently published frame, or nil.
func (s *Server) Latest() *Frame {
	return s.latest.Load()
}

// Clients returns the number of connected websocket viewers.
func (s *Server) Clients() int {
	return s.hub.Len()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream: websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxCommandSize)
	c := s.hub.add(conn)
	defer s.hub.remove(c)

	if f := s.Latest(); f != nil {
		if msg, err := EncodeMsgPack(f); err == nil {
			s.hub.sendTo(c, msg)
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("stream: websocket read failed", "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			slog.Warn("stream: bad command", "error", err)
			continue
		}
		if err := s.enqueue(cmd); err != nil {
			slog.Warn("stream: command rejected", "error", err)
		}
	}
}

func (s *Server) enqueue(cmd Command) error {
	if cmd.Empty() {
		return errors.New("empty command")
	}
	if cmd.Weather != nil {
		if err := cmd.Weather.Validate(); err != nil {
			return err
		}
	}
	return s.queue.Push(cmd)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	f := s.Latest()
	if f == nil {
		s.formatter.WriteError(w, r, http.StatusServiceUnavailable, "no frame published yet")
		return
	}
	if err := s.formatter.WriteResponse(w, r, http.StatusOK, f); err != nil {
		slog.Warn("stream: writing snapshot", "error", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.writeQueued(w, r, s.enqueue(Command{Reset: true}))
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var patch WeatherPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		s.formatter.WriteError(w, r, http.StatusBadRequest, "invalid weather body: "+err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		s.formatter.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.writeQueued(w, r, s.enqueue(Command{Weather: &patch}))
}

func (s *Server) writeQueued(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrQueueFull):
		s.formatter.WriteError(w, r, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		s.formatter.WriteError(w, r, http.StatusBadRequest, err.Error())
	default:
		_ = s.formatter.WriteResponse(w, r, http.StatusAccepted, map[string]string{"status": "queued"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "clients": s.hub.Len()}
	if f := s.Latest(); f != nil {
		body["tick"] = f.Tick
	}
	_ = s.formatter.WriteResponse(w, r, http.StatusOK, body)
}
