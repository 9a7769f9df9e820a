package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/reactive"
)

// Conn is the subset of *websocket.Conn a session needs. Tests supply
// in-memory implementations.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// SessionConfig holds tunables for a live session.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a client message
	// before the connection is considered dead.
	ReadTimeout time.Duration

	// WriteTimeout bounds each outgoing write.
	WriteTimeout time.Duration

	// EventQueueSize is the capacity of the inbound event channel.
	// Events arriving while the channel is full are dropped.
	EventQueueSize int

	// Logger receives session lifecycle and error logs.
	// Defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultSessionConfig returns the default session tunables.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		EventQueueSize: 64,
	}
}

// Hooks are optional observation points for session activity.
// All callbacks may be nil. They are invoked from the session's
// processing goroutine.
type Hooks struct {
	OnEvent   func(ev dom.Event)
	OnPatches func(count, bytes int)
	OnHydrate func(stats dom.HydrationStats)
	OnClose   func()
}

// Session owns one live document bound to one client connection.
//
// All document mutation happens on the session's processing goroutine:
// inbound events and functions passed to Dispatch are serialized
// through it, the update queue is flushed after each unit of work, and
// the patches produced by the flush are encoded and sent as a single
// frame. The websocket read loop runs on its own goroutine and only
// feeds the event channel.
type Session struct {
	id     string
	conn   Conn
	doc    *dom.Document
	queue  *reactive.Queue
	owner  *reactive.Owner
	config SessionConfig
	logger *slog.Logger
	hooks  Hooks

	events   chan dom.Event
	dispatch chan func()

	pending []dom.Patch

	writeMu sync.Mutex

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

var sessionSeq atomic.Uint64

// NewSession binds a document to a connection. The session registers
// itself as the document's patch sink and becomes the owner of the
// document's reactive scope.
func NewSession(conn Conn, doc *dom.Document, cfg SessionConfig) *Session {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultSessionConfig().ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultSessionConfig().WriteTimeout
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = DefaultSessionConfig().EventQueueSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		id:       fmt.Sprintf("s-%d", sessionSeq.Add(1)),
		conn:     conn,
		doc:      doc,
		queue:    reactive.NewQueue(),
		owner:    reactive.NewOwner(nil),
		config:   cfg,
		events:   make(chan dom.Event, cfg.EventQueueSize),
		dispatch: make(chan func(), 16),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("session", s.id)
	doc.SetSink(s)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Document returns the session's live document.
func (s *Session) Document() *dom.Document { return s.doc }

// Queue returns the session's update queue. Effects and memo swaps
// scheduled on it run during the flush that follows each unit of work.
func (s *Session) Queue() *reactive.Queue { return s.queue }

// Owner returns the reactive scope owning this session's effects.
// Dispose runs automatically when the session closes.
func (s *Session) Owner() *reactive.Owner { return s.owner }

// SetHooks installs observation callbacks. Must be called before Run.
func (s *Session) SetHooks(h Hooks) { s.hooks = h }

// Apply implements dom.PatchSink by buffering the patch until the next
// flush. Called from the processing goroutine only.
func (s *Session) Apply(p dom.Patch) {
	s.pending = append(s.pending, p)
}

// Dispatch runs fn on the session's processing goroutine, followed by
// a queue flush and a patch send. It returns false if the session is
// closed or the dispatch buffer is full.
func (s *Session) Dispatch(fn func()) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.dispatch <- fn:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// Run processes events and dispatched functions until the context is
// cancelled or the session closes. It blocks; callers typically run it
// on a dedicated goroutine alongside ReadLoop.
func (s *Session) Run(ctx context.Context) {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		case fn := <-s.dispatch:
			fn()
			s.settle()
		}
	}
}

// ReadLoop reads frames from the connection and feeds the event
// channel. It blocks until the connection closes or errors.
func (s *Session) ReadLoop() {
	defer s.Close()
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		d := NewDecoder(msg)
		ft, err := ReadFrameType(d)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}
		switch ft {
		case FrameEvent:
			ev, err := DecodeEvent(d)
			if err != nil {
				s.logger.Error("event decode error", "error", err)
				continue
			}
			select {
			case s.events <- ev:
			default:
				s.logger.Warn("event queue full, dropping", "type", ev.Type)
			}
		case FramePing:
			if err := s.send(websocket.BinaryMessage, []byte{byte(FramePong)}); err != nil {
				s.logger.Error("pong write error", "error", err)
				return
			}
		case FramePong:
			// Keepalive reply, nothing to do.
		default:
			s.logger.Warn("unexpected frame type", "type", ft)
		}
	}
}

// handleEvent routes one client event into the document, flushes the
// update queue, and sends the resulting patches.
func (s *Session) handleEvent(ev dom.Event) {
	if s.hooks.OnEvent != nil {
		s.hooks.OnEvent(ev)
	}
	if !s.doc.Dispatch(ev) {
		s.logger.Debug("event for unknown node", "type", ev.Type, "node", ev.Node)
	}
	s.settle()
}

// settle flushes the update queue and sends any pending patches.
func (s *Session) settle() {
	s.queue.Flush()
	if err := s.flushPatches(); err != nil {
		s.logger.Error("patch write error", "error", err)
		s.Close()
	}
}

// flushPatches encodes and sends the buffered patches as one frame.
// A no-op when nothing is pending.
func (s *Session) flushPatches() error {
	if len(s.pending) == 0 {
		return nil
	}
	frame := EncodePatches(s.pending)
	count := len(s.pending)
	s.pending = s.pending[:0]
	if err := s.send(websocket.BinaryMessage, frame); err != nil {
		return err
	}
	if s.hooks.OnPatches != nil {
		s.hooks.OnPatches(count, len(frame))
	}
	return nil
}

func (s *Session) send(messageType int, data []byte) error {
	if s.closed.Load() {
		return errors.New("live: session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(messageType, data)
}

// Close tears the session down: the reactive scope is disposed, the
// connection closed, and Run unblocked. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.owner.Dispose()
		s.conn.Close()
		if s.hooks.OnClose != nil {
			s.hooks.OnClose()
		}
		s.logger.Info("session closed")
	})
}

// Done returns a channel closed when the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.done }
