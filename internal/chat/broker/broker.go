package broker

// BroadcastExcept - sends message to every registered member except the sender
// and returns the number of successful deliveries.
// Members which fail to receive are removed from registry, this is the only way
// a member leaves it. Delivery is sequential and happens in the caller goroutine,
// so a slow member delays the rest of this broadcast.
func (r *Registry) BroadcastExcept(sender Member, message string) int {
	senderID := ""
	if sender != nil {
		senderID = sender.ID()
	}

	var failed []Member
	delivered := 0
	for _, m := range r.snapshot() {
		if m.ID() == senderID {
			continue
		}
		if m.Send(message) {
			delivered++
			continue
		}
		failed = append(failed, m)
	}

	r.drop(failed)
	for _, m := range failed {
		r.logger.Info("member dropped after failed delivery", "conn", m.ID())
	}
	return delivered
}
