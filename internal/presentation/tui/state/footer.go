package state

import "strings"

// FooterText returns the footer content for the current session. Status
// messages (including logged operation failures) take the line above the
// help hints.
func FooterText(loading bool, status, helpText string) string {
	status = strings.TrimSpace(status)
	if loading || status == "" {
		return helpText
	}
	if helpText == "" {
		return status
	}
	return status + "\n" + helpText
}
