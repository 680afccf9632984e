// Package prompt assembles the single text prompt sent to the generation
// service: a fixed instruction block built from storefront metadata, a
// grounding block of products and FAQ entries, a sliding window of recent
// conversation, and the new user message.
package prompt

import (
	"fmt"
	"strings"

	"github.com/lumabay/storechat/internal/model/chat"
)

const (
	// HistoryWindow is how many trailing turns the conversation block keeps.
	// Older turns are dropped silently; this is a fixed window, not a
	// token-aware truncation.
	HistoryWindow = 6

	maxGroundedProducts = 6
	maxGroundedFAQ      = 6
)

// Builder renders prompts. Stateless; one instance serves all requests.
type Builder struct{}

// NewBuilder returns a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the full prompt. The caller appends the current user turn to
// the session before calling Build, so with a short enough history the new
// message appears both inside the windowed conversation block and as the
// explicit trailing line. That duplication is deliberate grounding for the
// model and is not deduplicated.
func (b *Builder) Build(meta chat.StoreMeta, history []chat.Turn, message string) string {
	var sb strings.Builder

	b.writeInstructions(&sb, meta)
	b.writeGrounding(&sb, meta)
	b.writeConversation(&sb, history)

	sb.WriteString("User: ")
	sb.WriteString(message)
	sb.WriteString("\nAssistant:")

	return sb.String()
}

func (b *Builder) writeInstructions(sb *strings.Builder, meta chat.StoreMeta) {
	fmt.Fprintf(sb, "You are the shopping assistant for %s (%s).\n", meta.Name, meta.URL)
	fmt.Fprintf(sb, "All prices are in %s.\n", meta.Currency)
	fmt.Fprintf(sb, "Shipping policy: %s\n", meta.Shipping)
	sb.WriteString("Be concise and polite. When you recommend a product, include its link.\n")
	fmt.Fprintf(sb, "If the customer asks about the status of an existing order, reply exactly: \"I can't look up order status here. Please email %s and the support team will help you.\"\n", meta.SupportEmail)
	sb.WriteString("Never invent a price or claim availability; use only the product data below.\n")
}

func (b *Builder) writeGrounding(sb *strings.Builder, meta chat.StoreMeta) {
	products := meta.TopProducts
	if len(products) > maxGroundedProducts {
		products = products[:maxGroundedProducts]
	}
	if len(products) > 0 {
		sb.WriteString("\nTop products:\n")
		for _, p := range products {
			fmt.Fprintf(sb, "- %s | %s | %s\n", p.Title, p.Price, p.URL)
		}
	}

	faq := meta.FAQ
	if len(faq) > maxGroundedFAQ {
		faq = faq[:maxGroundedFAQ]
	}
	if len(faq) > 0 {
		sb.WriteString("\nFAQ:\n")
		for _, entry := range faq {
			fmt.Fprintf(sb, "Q: %s\nA: %s\n", entry.Q, entry.A)
		}
	}
}

func (b *Builder) writeConversation(sb *strings.Builder, history []chat.Turn) {
	startIdx := 0
	if len(history) > HistoryWindow {
		startIdx = len(history) - HistoryWindow
	}

	sb.WriteString("\nConversation so far:\n")
	for _, turn := range history[startIdx:] {
		switch turn.Role {
		case chat.RoleUser:
			fmt.Fprintf(sb, "User: %s\n", turn.Content)
		case chat.RoleAssistant:
			fmt.Fprintf(sb, "Assistant: %s\n", turn.Content)
		}
	}
}
