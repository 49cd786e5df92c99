package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalBody(t *testing.T, p relay.Provider, req relay.Request) map[string]any {
	t.Helper()
	body, err := p.Body(req)
	require.NoError(t, err)
	data, err := json.Marshal(body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestDecodeDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    relay.Delta
	}{
		{
			name:    "content delta",
			payload: `{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"Hel"}}]}`,
			want:    relay.TextDelta("Hel"),
		},
		{
			name:    "role only",
			payload: `{"choices":[{"index":0,"delta":{"role":"assistant"}}]}`,
			want:    relay.NoDelta,
		},
		{name: "no choices", payload: `{"choices":[]}`, want: relay.NoDelta},
		{name: "usage chunk", payload: `{"choices":[],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`, want: relay.NoDelta},
		{
			name:    "finish reason",
			payload: `{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			want:    relay.NoDelta,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := openai.DecodeDelta([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("schema mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := openai.DecodeDelta([]byte(`{"choices":{"bad":true}}`))
		assert.Error(t, err)
	})
}

func TestDeepSeek(t *testing.T) {
	t.Parallel()

	p := openai.DeepSeek(relay.ProviderConfig{APIKey: "ds-key"})
	assert.Equal(t, "https://api.deepseek.com/chat/completions", p.Endpoint)
	assert.Equal(t, "[Error contacting AI service]", p.Failure)

	h := http.Header{}
	p.Authorize(h)
	assert.Equal(t, "Bearer ds-key", h.Get("Authorization"))

	body := marshalBody(t, p, relay.Request{Messages: []relay.Message{
		relay.SystemMessage("sys"),
		relay.UserMessage("q"),
		relay.AssistantMessage("a"),
		relay.UserMessage("q2"),
	}})
	assert.Equal(t, "deepseek-chat", body["model"])
	assert.Equal(t, true, body["stream"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
	assert.Equal(t, []any{
		map[string]any{"role": "system", "content": "sys"},
		map[string]any{"role": "user", "content": "q"},
		map[string]any{"role": "assistant", "content": "a"},
		map[string]any{"role": "user", "content": "q2"},
	}, body["messages"])
}

func TestNebius(t *testing.T) {
	t.Parallel()

	p := openai.Nebius(relay.ProviderConfig{})
	assert.Equal(t, "https://api.studio.nebius.com/v1/chat/completions", p.Endpoint)
	assert.Equal(t, "[Error contacting Nebius service]", p.Failure)

	body := marshalBody(t, p, relay.Request{Messages: []relay.Message{relay.UserMessage("q")}})
	assert.Equal(t, "deepseek-ai/DeepSeek-V3-0324", body["model"])
	assert.InDelta(t, 1024, body["max_tokens"], 1e-9)
	assert.InDelta(t, 1, body["temperature"], 1e-9)
	assert.InDelta(t, 1, body["top_p"], 1e-9)
	assert.InDelta(t, 1, body["n"], 1e-9)
	assert.Equal(t, false, body["store"])
	assert.Contains(t, body, "presence_penalty")
	assert.Contains(t, body, "frequency_penalty")
	assert.InDelta(t, 0, body["presence_penalty"], 1e-9)
	assert.InDelta(t, 0, body["frequency_penalty"], 1e-9)
}

func TestOpenAI(t *testing.T) {
	t.Parallel()

	p := openai.OpenAI(relay.ProviderConfig{})
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", p.Endpoint)
	assert.Equal(t, "[Error contacting OpenAI service]", p.Failure)

	body := marshalBody(t, p, relay.Request{Messages: []relay.Message{relay.UserMessage("q")}})
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, true, body["store"])
}

func TestBuildRequest_ExplicitZeros(t *testing.T) {
	t.Parallel()

	t.Run("sent when set", func(t *testing.T) {
		t.Parallel()
		req := openai.BuildRequest("m", relay.Sampling{
			Temperature:      relay.Float(0),
			TopP:             relay.Float(0),
			PresencePenalty:  relay.Float(0),
			FrequencyPenalty: relay.Float(0),
			Store:            relay.Bool(false),
		}, relay.Request{})
		data, err := json.Marshal(req)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"temperature":0`)
		assert.Contains(t, string(data), `"top_p":0`)
		assert.Contains(t, string(data), `"presence_penalty":0`)
		assert.Contains(t, string(data), `"frequency_penalty":0`)
		assert.Contains(t, string(data), `"store":false`)
	})

	t.Run("omitted when unset", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(openai.BuildRequest("m", relay.Sampling{}, relay.Request{}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"model":"m","messages":[],"stream":true}`, string(data))
	})

	t.Run("temperature override of zero", func(t *testing.T) {
		t.Parallel()
		p := openai.OpenAI(relay.ProviderConfig{Sampling: relay.Sampling{Temperature: relay.Float(0)}})
		body := marshalBody(t, p, relay.Request{Messages: []relay.Message{relay.UserMessage("q")}})
		require.Contains(t, body, "temperature")
		assert.InDelta(t, 0, body["temperature"], 1e-9)
	})
}

func TestNew_ConfigOverridesPreset(t *testing.T) {
	t.Parallel()

	p := openai.New(openai.DeepSeekPreset, relay.ProviderConfig{
		Endpoint: "http://localhost:8080/v1/chat/completions",
		Model:    "deepseek-reasoner",
		Sampling: relay.Sampling{Temperature: relay.Float(0.1)},
	})
	assert.Equal(t, "http://localhost:8080/v1/chat/completions", p.Endpoint)

	body := marshalBody(t, p, relay.Request{})
	assert.Equal(t, "deepseek-reasoner", body["model"])
	assert.InDelta(t, 0.1, body["temperature"], 1e-6)
}

func TestStream_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		for _, s := range []string{"**分析过程：**\n", "比较\n", "**回答：**\n", "选B"} {
			b, _ := json.Marshal(map[string]any{
				"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": s}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := relay.NewClient(relay.WithHTTPClient(srv.Client()))
	p := openai.DeepSeek(relay.ProviderConfig{Endpoint: srv.URL, APIKey: "k"})
	out := client.Stream(context.Background(), p, relay.Request{Messages: []relay.Message{relay.UserMessage("q")}}, nil)

	assert.Equal(t, relay.StatusComplete, out.Status)
	assert.Equal(t, "比较", out.Reasoning)
	assert.Equal(t, "选B", out.Content)
}
