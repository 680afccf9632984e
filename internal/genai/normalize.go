package genai

import "github.com/tidwall/gjson"

// FallbackMaxLen bounds the serialized-body fallback so the widget always
// gets something renderable.
const FallbackMaxLen = 2000

// extractor pulls reply text out of one known response layout. Returns ""
// when the layout does not match.
type extractor func(body []byte) string

// Extraction order is contract: the first strategy yielding a non-empty
// value wins, so an "output" shape beats a "choices" shape even when both
// are present.
var extractors = []extractor{
	extractOutputText,
	extractChoiceMessage,
	extractChoiceText,
}

// Normalize turns a successful upstream body into plain reply text, falling
// back to the serialized body truncated to FallbackMaxLen when no known
// layout matches.
func Normalize(body []byte) string {
	for _, extract := range extractors {
		if text := extract(body); text != "" {
			return text
		}
	}
	return truncate(string(body), FallbackMaxLen)
}

// extractOutputText handles the responses-style layout: an output list whose
// first element carries a content list (or content object) with text.
func extractOutputText(body []byte) string {
	if text := gjson.GetBytes(body, "output.0.content.0.text").String(); text != "" {
		return text
	}
	return gjson.GetBytes(body, "output.0.content.text").String()
}

// extractChoiceMessage handles the chat-completions layout.
func extractChoiceMessage(body []byte) string {
	return gjson.GetBytes(body, "choices.0.message.content").String()
}

// extractChoiceText handles the legacy completions layout.
func extractChoiceText(body []byte) string {
	return gjson.GetBytes(body, "choices.0.text").String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
