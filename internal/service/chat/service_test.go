package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lumabay/storechat/internal/genai"
	"github.com/lumabay/storechat/internal/model/chat"
	chatservice "github.com/lumabay/storechat/internal/service/chat"
	"github.com/lumabay/storechat/internal/session"
)

// stubGenerator returns a canned reply or error and records the prompts it saw.
type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestConverseSuccessAppendsBothTurns(t *testing.T) {
	store := session.NewMemoryStore()
	svc := chatservice.NewService(store, &stubGenerator{reply: "of course!"})
	ctx := context.Background()

	id, reply, err := svc.Converse(ctx, "", "do you ship abroad?", chat.StoreMeta{Name: "Acme"})
	if err != nil {
		t.Fatalf("Converse err: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session ID")
	}
	if reply != "of course!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	turns, err := store.Turns(ctx, id)
	if err != nil {
		t.Fatalf("Turns err: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[0].Content != "do you ship abroad?" {
		t.Fatalf("unexpected user turn: %+v", turns[0])
	}
	if turns[1].Role != chat.RoleAssistant || turns[1].Content != "of course!" {
		t.Fatalf("unexpected assistant turn: %+v", turns[1])
	}
}

func TestConverseEchoesKnownSession(t *testing.T) {
	store := session.NewMemoryStore()
	svc := chatservice.NewService(store, &stubGenerator{reply: "hi"})
	ctx := context.Background()

	first, _, err := svc.Converse(ctx, "", "hello", chat.StoreMeta{})
	if err != nil {
		t.Fatalf("Converse err: %v", err)
	}

	second, _, err := svc.Converse(ctx, first, "still there?", chat.StoreMeta{})
	if err != nil {
		t.Fatalf("Converse err: %v", err)
	}
	if second != first {
		t.Fatalf("expected session %s to be echoed, got %s", first, second)
	}

	turns, _ := store.Turns(ctx, first)
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns after two exchanges, got %d", len(turns))
	}
}

// countingStore tracks store calls so tests can assert nothing was touched.
type countingStore struct {
	session.Store
	getOrCreate int
}

func (c *countingStore) GetOrCreate(ctx context.Context, id string) (chat.Session, error) {
	c.getOrCreate++
	return c.Store.GetOrCreate(ctx, id)
}

func TestConverseEmptyMessage(t *testing.T) {
	store := &countingStore{Store: session.NewMemoryStore()}
	svc := chatservice.NewService(store, &stubGenerator{reply: "hi"})

	_, _, err := svc.Converse(context.Background(), "", "   ", chat.StoreMeta{})
	if !errors.Is(err, chatservice.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if store.getOrCreate != 0 {
		t.Fatal("empty message must not touch the session store")
	}
}

func TestConverseUpstreamFailureKeepsUserTurnOnly(t *testing.T) {
	store := session.NewMemoryStore()
	upstream := &genai.UpstreamError{Status: 500, Body: "rate limited"}
	svc := chatservice.NewService(store, &stubGenerator{err: upstream})
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "visitor-9")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	_, _, err = svc.Converse(ctx, sess.ID, "where is my order?", chat.StoreMeta{})
	var ue *genai.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}

	turns, _ := store.Turns(ctx, sess.ID)
	if len(turns) != 1 {
		t.Fatalf("expected only the user turn, got %d turns", len(turns))
	}
	if turns[0].Role != chat.RoleUser {
		t.Fatalf("unexpected role %q", turns[0].Role)
	}
}

func TestConversePromptContainsHistoryAndMessage(t *testing.T) {
	store := session.NewMemoryStore()
	gen := &stubGenerator{reply: "sure"}
	svc := chatservice.NewService(store, gen)
	ctx := context.Background()

	id, _, err := svc.Converse(ctx, "", "first question", chat.StoreMeta{Name: "Acme"})
	if err != nil {
		t.Fatalf("Converse err: %v", err)
	}
	if _, _, err := svc.Converse(ctx, id, "second question", chat.StoreMeta{Name: "Acme"}); err != nil {
		t.Fatalf("Converse err: %v", err)
	}

	last := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(last, "User: first question") {
		t.Fatalf("prompt missing prior user turn:\n%s", last)
	}
	if !strings.Contains(last, "Assistant: sure") {
		t.Fatalf("prompt missing prior assistant turn:\n%s", last)
	}
	if !strings.HasSuffix(last, "User: second question\nAssistant:") {
		t.Fatalf("prompt missing trailing cue:\n%s", last)
	}
}
