// Package web serves a browser preview of the pixel-grid effect. Every
// websocket connection gets its own engine; frames are streamed as PNG and
// pointer events flow back as JSON.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

//go:embed static/index.html
var indexHTML []byte

const (
	writeTimeout = 200 * time.Millisecond
	loadTimeout  = 10 * time.Second
	eventBuffer  = 64
)

// Options configures the preview server.
type Options struct {
	Addr   string
	FPS    int
	Effect pixelgrid.Config
	Source string // image reference loaded for every connection
	Loader *pixelgrid.Loader
	Logger *log.Logger
}

// Event is a message sent by the browser.
type Event struct {
	Type string  `json:"type"` // enter, move, leave, resize, replay
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	VH   float64 `json:"vh"`
}

// Hello is the first message sent on a connection.
type Hello struct {
	Type   string  `json:"type"`
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// errorMessage reports a failure to the browser.
type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Server streams effect frames to browsers.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader
	logger   *log.Logger
	sessions atomic.Int64
	frames   atomic.Uint64
}

// NewServer creates a preview server.
func NewServer(opts Options) *Server {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Loader == nil {
		opts.Loader = pixelgrid.NewLoader()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default().WithPrefix("preview")
	}
	return &Server{
		opts:   opts,
		logger: opts.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the page, the websocket and a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting preview server", "address", s.opts.Addr, "source", s.opts.Source)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sessions": s.sessions.Load(),
		"frames":   s.frames.Load(),
		"source":   s.opts.Source,
		"fps":      s.opts.FPS,
	})
}

// handleWS runs one preview session. The engine is owned by this goroutine;
// the reader goroutine only forwards events.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	s.logger.Info("session started", "remote", r.RemoteAddr)
	defer s.logger.Info("session ended", "remote", r.RemoteAddr)

	engine := pixelgrid.New(s.opts.Effect, pixelgrid.WithLogger(s.logger))
	defer engine.Close()

	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	err = engine.Load(ctx, s.opts.Loader, s.opts.Source, pixelgrid.Size{})
	cancel()
	if err != nil {
		s.writeJSON(conn, errorMessage{Type: "error", Message: err.Error()})
		return
	}

	events := make(chan Event, eventBuffer)
	quit := make(chan struct{})
	defer close(quit)
	done := make(chan struct{})
	go readEvents(conn, events, quit, done)

	queue := pixelgrid.NewFrameQueue()
	engine.Start(queue)
	s.sendHello(conn, engine)

	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
	defer ticker.Stop()

	dirty := true
	lastFrames := engine.Frames()
	for {
		select {
		case <-done:
			return
		case ev := <-events:
			if ApplyEvent(engine, ev) {
				dirty = true
				if ev.Type == "resize" {
					s.sendHello(conn, engine)
				}
			}
		case now := <-ticker.C:
			queue.Fire(now)
			if n := engine.Frames(); n != lastFrames {
				lastFrames, dirty = n, true
			}
			if !dirty {
				continue
			}
			if err := s.sendFrame(conn, engine); err != nil {
				s.logger.Debug("write frame", "error", err)
				return
			}
			dirty = false
		}
	}
}

// readEvents decodes browser messages until the connection fails or quit is
// closed. Malformed messages are skipped. When events is full a pointer move
// is dropped, since the next one supersedes it; every other event waits for
// room so enter, leave, resize and replay are never lost.
func readEvents(conn *websocket.Conn, events chan<- Event, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		if ev.Type == "move" {
			select {
			case events <- ev:
			default:
			}
			continue
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// ApplyEvent applies a browser event to engine. It reports whether the
// surface needs to be re-sent even if no frame is drawn.
func ApplyEvent(engine *pixelgrid.Engine, ev Event) bool {
	switch ev.Type {
	case "enter":
		engine.PointerEnter(core.V(ev.X, ev.Y))
	case "move":
		engine.PointerMove(core.V(ev.X, ev.Y))
	case "leave":
		engine.PointerLeave()
	case "resize":
		if ev.W <= 0 || ev.H <= 0 {
			return false
		}
		vh := ev.VH
		if vh <= 0 {
			vh = ev.H
		}
		engine.Resize(pixelgrid.Size{W: ev.W, H: ev.H}, vh)
		return true
	case "replay":
		engine.Replay()
		return true
	}
	return false
}

func (s *Server) sendHello(conn *websocket.Conn, engine *pixelgrid.Engine) {
	size := engine.Surface().Size()
	s.writeJSON(conn, Hello{Type: "hello", Source: s.opts.Source, Width: size.W, Height: size.H})
}

func (s *Server) sendFrame(conn *websocket.Conn, engine *pixelgrid.Engine) error {
	var buf bytes.Buffer
	if err := engine.Surface().EncodePNG(&buf); err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return err
	}
	s.frames.Add(1)
	return nil
}

func (s *Server) writeJSON(conn *websocket.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.logger.Debug("write message", "error", err)
	}
}

// Sessions returns the number of open preview sessions.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}
