package chat

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wtask/chatrelay/internal/chat/broker"
)

// ServerOption - chat server setup option.
type ServerOption func(s *Server) error

// WithLogger - attach logger for connection lifecycle events.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("chat.WithLogger: logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithMaxSessions - limits the number of concurrently served connections.
// Connections over the limit are closed just after accept. Zero means no limit.
func WithMaxSessions(n int) ServerOption {
	return func(s *Server) error {
		if n < 0 {
			return fmt.Errorf("chat.WithMaxSessions: invalid limit (%d)", n)
		}
		if n > 0 {
			s.slots = make(chan struct{}, n)
		}
		return nil
	}
}

// WithRegistry - use given registry instead of building a new one.
func WithRegistry(r *broker.Registry) ServerOption {
	return func(s *Server) error {
		if r == nil {
			return errors.New("chat.WithRegistry: registry is nil")
		}
		s.registry = r
		return nil
	}
}

func setupServer(s *Server, options ...ServerOption) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}
