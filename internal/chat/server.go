package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wtask/chatrelay/internal/chat/broker"
	"github.com/wtask/chatrelay/internal/chat/line"
	"github.com/wtask/chatrelay/pkg/background"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server - accepts line connections and relays messages between them.
type Server struct {
	logger   *slog.Logger
	registry *broker.Registry
	sessions *background.Scope
	slots    chan struct{}
	upgrader websocket.Upgrader
}

// NewServer - builds chat server which is ready to serve several listeners.
func NewServer(options ...ServerOption) (*Server, error) {
	s := &Server{
		sessions: background.NewScope(context.Background()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if err := setupServer(s, options...); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registry == nil {
		r, err := broker.New(broker.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("chat.NewServer: can't build registry: %w", err)
		}
		s.registry = r
	}
	return s, nil
}

// Registry - connections known by the server.
func (s *Server) Registry() *broker.Registry {
	return s.registry
}

// Serve - accepts connections until Shutdown is called or listener fails.
// Returns ErrServerClosed after Shutdown, otherwise the fatal accept error.
// The listener is closed on return.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server: listener is nil")
	}
	ctx := s.sessions.Context()
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()
	if ctx.Err() != nil {
		return ErrServerClosed
	}

	logInfo(s.logger, "chat server is listening", "addr", listener.Addr().String())
	var delay time.Duration
	for {
		logInfo(s.logger, "waiting for connection")
		nc, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ErrServerClosed
			}
			if !isTransient(err) {
				logError(s.logger, "accept failed, server is stopping", err)
				listener.Close()
				return err
			}
			delay = nextDelay(delay)
			logError(s.logger, "accept failed, server is possibly overloaded", err, "retry", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ErrServerClosed
			}
			continue
		}
		delay = 0
		s.admit(line.New(line.NewTCP(nc), s.logger))
	}
}

// WebSocketHandler - serves websocket clients with the same registry as TCP ones.
func (s *Server) WebSocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with http error
			logError(s.logger, "websocket upgrade failed", err, "remote", r.RemoteAddr)
			return
		}
		s.admit(line.New(line.NewWebSocket(ws), s.logger))
	})
}

// Shutdown - stops accepting, interrupts all sessions and waits for them
// not longer than timeout. Returns time spent.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	from := time.Now()
	s.sessions.Cancel()
	if !s.sessions.Wait(timeout) {
		logInfo(s.logger, "shutdown timeout expired, some sessions are still running")
	}
	return time.Since(from)
}

// admit - starts session for connection and registers it.
// Connection is closed immediately if session can not be started.
func (s *Server) admit(conn *line.Conn) bool {
	logger := s.logger.With("conn", conn.ID(), "remote", conn.RemoteAddr())
	if !s.acquire() {
		logInfo(logger, "session limit reached, closing connection", "limit", cap(s.slots))
		conn.Close()
		return false
	}
	// session starts reading only after the connection is registered
	registered := make(chan struct{})
	started := s.sessions.Go(func(ctx context.Context) {
		<-registered
		s.runSession(ctx, conn)
	})
	if !started {
		s.release()
		logInfo(logger, "server is stopping, closing connection")
		conn.Close()
		return false
	}
	s.registry.Add(conn)
	close(registered)
	return true
}

func (s *Server) runSession(ctx context.Context, conn *line.Conn) {
	logger := s.logger.With("conn", conn.ID(), "remote", conn.RemoteAddr())
	stop := context.AfterFunc(ctx, conn.Interrupt)

	logInfo(logger, "client connected")
	sess := newSession(conn, s.registry, s.logger)
	action := sess.run()
	stop()
	s.release()

	login, _ := conn.Login()
	logInfo(logger, "client disconnected",
		"login", login, "action", action.String(), "state", sess.state.String())
}

func (s *Server) acquire() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	if s.slots == nil {
		return
	}
	<-s.slots
}

// isTransient - accept errors which affect single pending connection
// or are caused by temporary lack of resources.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}

func nextDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	d *= 2
	if d > maxAcceptDelay {
		return maxAcceptDelay
	}
	return d
}
