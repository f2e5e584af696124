package chat

import (
	"fmt"
	"strings"
)

// ExitKeyword - ends client participation when sent as a whole line, in any case.
const ExitKeyword = "sair"

// IsExit - checks line is the exit keyword.
func IsExit(line string) bool {
	return strings.EqualFold(line, ExitKeyword)
}

// joinAnnouncement - system message about newly logged in client.
func joinAnnouncement(login string) string {
	return fmt.Sprintf("Cliente %s logado.", login)
}

// formatMessage - relayed chat message.
func formatMessage(login, body string) string {
	return login + " diz: " + body
}
