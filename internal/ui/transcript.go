package ui

import (
	"strings"

	"webiq/internal/ui/textutil"
)

// Role tells who wrote a chat message.
type Role int

const (
	RoleBot Role = iota
	RoleUser
)

// Message is one transcript entry. Entries are appended, never edited.
type Message struct {
	Role Role
	Text string
}

// Greeting is the first bot message of every conversation.
const Greeting = "Hello! I can answer questions using information from any URL. Please provide a URL below."

// Transcript is the ordered chat history plus the transient loading bubble.
type Transcript struct {
	Messages []Message
	Loading  bool
}

// NewTranscript starts a transcript with the greeting.
func NewTranscript() *Transcript {
	return &Transcript{Messages: []Message{{Role: RoleBot, Text: Greeting}}}
}

// Add appends a message.
func (t *Transcript) Add(role Role, text string) {
	t.Messages = append(t.Messages, Message{Role: role, Text: text})
}

// Bot appends a bot message.
func (t *Transcript) Bot(text string) {
	t.Add(RoleBot, text)
}

// ShowLoading turns on the loading bubble. Idempotent.
func (t *Transcript) ShowLoading() {
	t.Loading = true
}

// HideLoading removes the loading bubble if present.
func (t *Transcript) HideLoading() {
	t.Loading = false
}

// Last returns the most recent message text, or "".
func (t *Transcript) Last() string {
	if len(t.Messages) == 0 {
		return ""
	}
	return t.Messages[len(t.Messages)-1].Text
}

// Render lays the transcript out for a pane width columns wide.
func (t *Transcript) Render(width int) string {
	const labelWidth = 5
	bodyWidth := width - labelWidth
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	var b strings.Builder
	for i, m := range t.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := Styles.BotLabel.Render("bot")
		if m.Role == RoleUser {
			label = Styles.UserLabel.Render("you")
		}
		for j, line := range textutil.Wrap(m.Text, bodyWidth) {
			if j == 0 {
				b.WriteString(label + "  ")
			} else {
				b.WriteString("\n" + strings.Repeat(" ", labelWidth))
			}
			b.WriteString(Styles.Message.Render(line))
		}
	}
	if t.Loading {
		if len(t.Messages) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(Styles.BotLabel.Render("bot") + "  " + Styles.Loading.Render("..."))
	}
	return b.String()
}
