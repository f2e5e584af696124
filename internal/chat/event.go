package chat

// sessionState - position of a connection in the login protocol.
type sessionState int

const (
	awaitingLogin sessionState = iota
	relaying
)

func (s sessionState) String() string {
	switch s {
	case awaitingLogin:
		return "awaiting login"
	case relaying:
		return "relaying"
	default:
		return "unknown session state"
	}
}

// partAction - the reason session was closed.
type partAction int

const (
	_ partAction = iota
	actionLeft
	actionGone
)

func (a partAction) String() string {
	switch a {
	case actionLeft:
		return "left"
	case actionGone:
		return "gone"
	default:
		return "unknown part action"
	}
}
