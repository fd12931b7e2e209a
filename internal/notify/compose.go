package notify

import (
	"fmt"
	"html"
	"strings"
)

// DefaultMaxMessageLength bounds the composed body, in runes.
const DefaultMaxMessageLength = 1600

const defaultSenderName = "Someone"

// Compose renders "{label}: {sender} - {message}" and cuts it to max runes.
func Compose(label, sender, message string, max int) string {
	if max <= 0 {
		max = DefaultMaxMessageLength
	}
	sender = strings.TrimSpace(sender)
	if sender == "" {
		sender = defaultSenderName
	}

	body := fmt.Sprintf("%s: %s - %s", strings.TrimSpace(label), sender, strings.TrimSpace(message))

	runes := []rune(body)
	if len(runes) > max {
		body = string(runes[:max])
	}
	return body
}

// emailHTML wraps a composed body in the notification mail layout.
func emailHTML(label, body string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">`)
	fmt.Fprintf(&b, `<h2 style="color:#1e40af;">%s</h2>`, html.EscapeString(label))
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(&b, `<p style="line-height:1.5;">%s</p>`, html.EscapeString(line))
	}
	b.WriteString(`</div>`)
	return b.String()
}
