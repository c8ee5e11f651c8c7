package game

import "time"

type MessageType string

const (
	MessageAchievement MessageType = "achievement"
	MessageSystem      MessageType = "system"
	MessageAlert       MessageType = "alert"
)

type GameMessage struct {
	ID   int         `json:"id"`
	Type MessageType `json:"type"`
	Text string      `json:"text"`
	Date time.Time   `json:"date"`
	Read bool        `json:"read"`
}

// MessageBoard keeps the most recent Limit messages, oldest first.
type MessageBoard struct {
	Limit    int           `json:"limit"`
	Messages []GameMessage `json:"messages"`
	nextID   int
}

func NewMessageBoard(limit int) *MessageBoard {
	return &MessageBoard{Limit: limit}
}

func (b *MessageBoard) Post(kind MessageType, text string, date time.Time) GameMessage {
	b.nextID++
	msg := GameMessage{ID: b.nextID, Type: kind, Text: text, Date: date}
	b.Messages = append(b.Messages, msg)
	if b.Limit > 0 && len(b.Messages) > b.Limit {
		b.Messages = append([]GameMessage(nil), b.Messages[len(b.Messages)-b.Limit:]...)
	}
	return msg
}

func (b *MessageBoard) Unread() []GameMessage {
	out := make([]GameMessage, 0)
	for _, msg := range b.Messages {
		if !msg.Read {
			out = append(out, msg)
		}
	}
	return out
}

func (b *MessageBoard) MarkAllRead() {
	for i := range b.Messages {
		b.Messages[i].Read = true
	}
}
