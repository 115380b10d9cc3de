// ABOUTME: Guidance session keeps an append-only chat transcript and answers with recommended content
// ABOUTME: Optionally rewrites replies through an LLM; saved to the KV only when the caller asks
package guidance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/matcher"
	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/storage"
)

// Recommender ranks content for a profile and transcript
type Recommender interface {
	Recommend(profile models.UserProfile, history []models.ChatMessage) (matcher.Result, error)
}

// Rephraser rewrites a composed message. Every string in keep must survive.
type Rephraser interface {
	Rephrase(ctx context.Context, profile models.UserProfile, draft string, keep []string) (string, error)
}

// Reply is the outcome of a single Ask
type Reply struct {
	Message   models.ChatMessage `json:"message"`
	Result    matcher.Result     `json:"result"`
	Rephrased bool               `json:"rephrased"`
}

// Session is one guidance conversation
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	messages  []models.ChatMessage

	recommender Recommender
	rephraser   Rephraser
	logger      *log.Logger
	now         func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithRephraser enables LLM rewriting of replies
func WithRephraser(r Rephraser) Option {
	return func(s *Session) { s.rephraser = r }
}

// WithLogger sets the session logger
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(l) }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts an empty conversation
func NewSession(rec Recommender, opts ...Option) *Session {
	s := &Session{
		recommender: rec,
		logger:      logging.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now()
	s.id = models.NewID("session", s.createdAt)
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Messages returns a copy of the transcript in chronological order
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Ask records the user's text (if any), recommends content, and appends the assistant reply
func (s *Session) Ask(ctx context.Context, profile models.UserProfile, userText string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.messages
	var turn []models.ChatMessage
	if strings.TrimSpace(userText) != "" {
		msg, err := models.NewChatMessageAt(userText, true, s.now())
		if err != nil {
			return Reply{}, err
		}
		turn = append(turn, msg)
		history = append(history[:len(history):len(history)], msg)
	}

	// the transcript only changes once the whole turn succeeds
	result, err := s.recommender.Recommend(profile, history)
	if err != nil {
		return Reply{}, err
	}

	text, err := matcher.Render(profile.Normalize().Tone, result)
	if err != nil {
		return Reply{}, err
	}

	rephrased := false
	if s.rephraser != nil {
		top, _ := result.Top()
		out, err := s.rephraser.Rephrase(ctx, profile, text, []string{top.Item.Reference})
		if err != nil {
			s.logger.Warn("rephrase failed, using template text", "session", s.id, "err", err)
		} else {
			text = out
			rephrased = true
		}
	}

	reply, err := models.NewChatMessageAt(text, false, s.now())
	if err != nil {
		return Reply{}, err
	}
	s.messages = append(s.messages, append(turn, reply)...)

	s.logger.Debug("guidance reply",
		"session", s.id,
		"matched", result.Matched,
		"fallback", result.Fallback,
		"recommendations", len(result.Recommendations),
		"rephrased", rephrased,
	)

	return Reply{Message: reply, Result: result, Rephrased: rephrased}, nil
}

type sessionRecord struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Messages  []models.ChatMessage `json:"messages"`
}

// Save persists the transcript under session:<id>
func (s *Session) Save(kv storage.KV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := sessionRecord{
		ID:        s.id,
		CreatedAt: s.createdAt,
		UpdatedAt: s.now(),
		Messages:  s.messages,
	}
	if err := storage.SetJSON(kv, storage.SessionKey(s.id), rec); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.id, err)
	}
	return nil
}

// LoadSession restores a saved transcript
func LoadSession(kv storage.KV, id string, rec Recommender, opts ...Option) (*Session, error) {
	var stored sessionRecord
	if err := storage.GetJSON(kv, storage.SessionKey(id), &stored); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	s := NewSession(rec, opts...)
	s.id = stored.ID
	s.createdAt = stored.CreatedAt
	s.messages = stored.Messages
	return s, nil
}

// ListSessions returns saved session ids, newest first
func ListSessions(kv storage.KV) ([]string, error) {
	keys, err := kv.ListKeys(storage.SessionPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, storage.SessionPrefix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
