package chat

import (
	"log/slog"

	"github.com/wtask/chatrelay/internal/chat/broker"
	"github.com/wtask/chatrelay/internal/chat/line"
)

// router - delivers message to everyone except the sender.
type router interface {
	BroadcastExcept(sender broker.Member, message string) int
}

// session - server side protocol loop of a single connection.
// The first received line is the login, the rest are chat messages.
type session struct {
	conn   *line.Conn
	router router
	logger *slog.Logger
	state  sessionState
}

func newSession(conn *line.Conn, r router, logger *slog.Logger) *session {
	if logger == nil {
		logger = slog.Default()
	}
	return &session{
		conn:   conn,
		router: r,
		logger: logger.With("conn", conn.ID(), "remote", conn.RemoteAddr()),
		state:  awaitingLogin,
	}
}

// run - relays lines until the client leaves or the connection is gone.
// The connection is closed on return, state keeps the last protocol position.
func (s *session) run() partAction {
	defer s.conn.Close()
	for {
		msg, ok := s.conn.Receive()
		if !ok {
			return actionGone
		}
		if IsExit(msg) {
			return actionLeft
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg string) {
	switch s.state {
	case awaitingLogin:
		s.conn.SetLogin(msg)
		s.state = relaying
		s.logger = s.logger.With("login", msg)
		logInfo(s.logger, "client logged in")
		s.broadcast(joinAnnouncement(msg))
	case relaying:
		login, _ := s.conn.Login()
		logInfo(s.logger, "message received", "text", msg)
		s.broadcast(formatMessage(login, msg))
	}
}

func (s *session) broadcast(message string) {
	n := s.router.BroadcastExcept(s.conn, message)
	logInfo(s.logger, "message forwarded", "clients", n)
}
