// ABOUTME: ChatMessage is one turn in a guidance conversation
// ABOUTME: Messages are append-only and never mutated after creation
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single user or assistant turn
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage creates a message stamped with the current time
func NewChatMessage(text string, isUser bool) (ChatMessage, error) {
	return NewChatMessageAt(text, isUser, time.Now().UTC())
}

// NewChatMessageAt creates a message with an explicit timestamp
func NewChatMessageAt(text string, isUser bool, at time.Time) (ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return ChatMessage{}, errors.New("message text cannot be empty")
	}
	return ChatMessage{
		ID:        NewID("msg", at),
		Text:      text,
		IsUser:    isUser,
		Timestamp: at,
	}, nil
}

// NewID builds a sortable, unique identifier such as entry_20250101_093000_1a2b3c4d
func NewID(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, at.Format("20060102_150405"), uuid.New().String()[:8])
}
