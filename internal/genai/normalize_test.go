package genai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOutputShape(t *testing.T) {
	body := []byte(`{"output":[{"content":[{"text":"hello from output"}]}]}`)
	assert.Equal(t, "hello from output", Normalize(body))
}

func TestNormalizeOutputContentObject(t *testing.T) {
	body := []byte(`{"output":[{"content":{"text":"object content"}}]}`)
	assert.Equal(t, "object content", Normalize(body))
}

func TestNormalizeChoicesMessage(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"role":"assistant","content":"chat reply"}}]}`)
	assert.Equal(t, "chat reply", Normalize(body))
}

func TestNormalizeChoicesText(t *testing.T) {
	body := []byte(`{"choices":[{"text":"legacy reply"}]}`)
	assert.Equal(t, "legacy reply", Normalize(body))
}

func TestNormalizeOutputWinsOverChoices(t *testing.T) {
	body := []byte(`{"output":[{"content":[{"text":"from output"}]}],"choices":[{"message":{"content":"from choices"}}]}`)
	assert.Equal(t, "from output", Normalize(body))
}

func TestNormalizeChoicesMessageWinsOverText(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"message wins"},"text":"plain text"}]}`)
	assert.Equal(t, "message wins", Normalize(body))
}

func TestNormalizeEmptyValuesFallThrough(t *testing.T) {
	// An empty text in a higher-priority shape must not shadow a lower one.
	body := []byte(`{"output":[{"content":[{"text":""}]}],"choices":[{"text":"still here"}]}`)
	assert.Equal(t, "still here", Normalize(body))
}

func TestNormalizeFallbackSerializesBody(t *testing.T) {
	body := []byte(`{"result":"unknown layout"}`)
	assert.Equal(t, `{"result":"unknown layout"}`, Normalize(body))
}

func TestNormalizeFallbackTruncation(t *testing.T) {
	payload, err := json.Marshal(map[string]string{"blob": strings.Repeat("x", 5000)})
	if err != nil {
		t.Fatal(err)
	}

	got := Normalize(payload)
	assert.Len(t, got, FallbackMaxLen)
	assert.Equal(t, string(payload[:FallbackMaxLen]), got)
}

func TestNormalizeFallbackUnderLimit(t *testing.T) {
	body := []byte(`{"short":true}`)
	assert.Equal(t, `{"short":true}`, Normalize(body))
}
