// Package chat runs one conversation turn end to end: resolve the session,
// record the user message, build the grounded prompt, call the generation
// service and record the reply.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lumabay/storechat/internal/model/chat"
	"github.com/lumabay/storechat/internal/prompt"
	"github.com/lumabay/storechat/internal/session"
)

var ErrEmptyMessage = errors.New("message required")

// Generator produces reply text for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service composes the session store, prompt builder and generator.
type Service struct {
	store   session.Store
	gen     Generator
	prompts *prompt.Builder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the turn pipeline. The store is injected so tests and
// persistent deployments share the same code path.
func NewService(store session.Store, gen Generator) *Service {
	return &Service{
		store:   store,
		gen:     gen,
		prompts: prompt.NewBuilder(),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Converse handles one user message and returns the session identifier and
// the assistant's reply.
//
// Requests for the same session serialize on a per-session mutex held from
// the first history write through the final append, so concurrent messages
// into one session cannot interleave their reads and appends. Requests for
// distinct sessions run their upstream calls concurrently.
//
// The user turn is recorded before the upstream call; on upstream failure
// it stays in the history and no assistant turn is written.
func (s *Service) Converse(ctx context.Context, sessionID, message string, meta chat.StoreMeta) (string, string, error) {
	if strings.TrimSpace(message) == "" {
		return "", "", ErrEmptyMessage
	}

	sess, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", "", err
	}

	unlock := s.lockSession(sess.ID)
	defer unlock()

	if err := s.store.AppendTurn(ctx, sess.ID, chat.Turn{Role: chat.RoleUser, Content: message}); err != nil {
		return "", "", err
	}

	turns, err := s.store.Turns(ctx, sess.ID)
	if err != nil {
		return "", "", err
	}

	reply, err := s.gen.Generate(ctx, s.prompts.Build(meta, turns, message))
	if err != nil {
		return "", "", err
	}

	if err := s.store.AppendTurn(ctx, sess.ID, chat.Turn{Role: chat.RoleAssistant, Content: reply}); err != nil {
		return "", "", err
	}

	return sess.ID, reply, nil
}

// Transcript returns the stored history for a session.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	return s.store.Turns(ctx, sessionID)
}

// lockSession acquires the mutex for a session, creating it on first use.
// Lock entries are never removed; they are bounded by the number of live
// sessions, which the store retains for the process life anyway.
func (s *Service) lockSession(id string) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
